package service

import (
	"strings"
	"unicode/utf8"
)

// cleanText trims s and drops invalid UTF-8 sequences, which PostgreSQL
// rejects in text columns.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}

// cleanOptionalText is cleanText for nullable columns. Blank becomes nil.
func cleanOptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := cleanText(*s)
	if v == "" {
		return nil
	}
	return &v
}
