package models

import "testing"

func TestNormalizeSortField(t *testing.T) {
	tests := map[string]string{
		"":          SortByDate,
		"date":      SortByDate,
		"amount":    SortByAmount,
		"createdAt": SortByCreatedAt,
		"Amount":    SortByDate,
		"1; DROP":   SortByDate,
	}
	for in, want := range tests {
		if got := NormalizeSortField(in); got != want {
			t.Errorf("NormalizeSortField(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := map[string]SortOrder{
		"ASC":  SortAsc,
		"asc":  SortAsc,
		"DESC": SortDesc,
		"":     SortDesc,
		"up":   SortDesc,
	}
	for in, want := range tests {
		if got := ParseSortOrder(in); got != want {
			t.Errorf("ParseSortOrder(%q) = %q, want %q", in, got, want)
		}
	}
}
