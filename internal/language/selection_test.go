package language_test

import (
	"testing"

	"webtranslator/internal/language"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		label  string
		want   language.Selection
		wantOK bool
		code   string
	}{
		{"Select", language.SelectionNone, true, ""},
		{"English", language.SelectionEnglish, true, "en"},
		{"hindi", language.SelectionHindi, true, "hi"},
		{"  Marathi ", language.SelectionMarathi, true, "mr"},
		{"Klingon", language.SelectionNone, false, ""},
		{"", language.SelectionNone, false, ""},
	}
	for _, tt := range tests {
		got, ok := language.ParseSelection(tt.label)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("ParseSelection(%q) = %v,%v want %v,%v", tt.label, got, ok, tt.want, tt.wantOK)
		}
		if got.Code() != tt.code {
			t.Fatalf("ParseSelection(%q).Code() = %q, want %q", tt.label, got.Code(), tt.code)
		}
		if got.IsNone() != (tt.code == "") {
			t.Fatalf("ParseSelection(%q).IsNone() mismatch", tt.label)
		}
	}
}

func TestSelectionLabelsRoundTrip(t *testing.T) {
	for _, label := range language.Labels() {
		sel, ok := language.ParseSelection(label)
		if !ok {
			t.Fatalf("label %q did not parse", label)
		}
		if sel.Label() != label {
			t.Fatalf("Label() = %q, want %q", sel.Label(), label)
		}
	}
}
