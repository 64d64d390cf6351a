package service

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Rent ", "Rent"},
		{"Caf\xc3\xa9", "Café"},
		{"bad\xffbyte", "badbyte"},
		{"\xfe\xff", ""},
	}

	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanOptionalText(t *testing.T) {
	if cleanOptionalText(nil) != nil {
		t.Error("nil should stay nil")
	}
	blank := "   "
	if cleanOptionalText(&blank) != nil {
		t.Error("blank should become nil")
	}
	note := " weekly shop "
	if got := cleanOptionalText(&note); got == nil || *got != "weekly shop" {
		t.Errorf("got %v", got)
	}
}
