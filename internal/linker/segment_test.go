// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import (
	"reflect"
	"testing"
)

func spanTexts(text string, spans []span) []string {
	var out []string
	for _, s := range spans {
		out = append(out, text[s.start:s.end])
	}
	return out
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "terminal punctuation",
			text: "One fish. Two fish! Red fish? Blue fish.",
			want: []string{"One fish.", "Two fish!", "Red fish?", "Blue fish."},
		},
		{
			name: "surrounding whitespace trimmed",
			text: "   Leading space.    Trailing space.   ",
			want: []string{"Leading space.", "Trailing space."},
		},
		{
			name: "decimal numbers do not split",
			text: "Pi is roughly 3.14 in value. Next.",
			want: []string{"Pi is roughly 3.14 in value.", "Next."},
		},
		{
			name: "closing quote stays with sentence",
			text: `He said "stop." Then he left.`,
			want: []string{`He said "stop."`, "Then he left."},
		},
		{
			name: "closing bracket stays with sentence",
			text: "See the appendix (page 4.) Moving on.",
			want: []string{"See the appendix (page 4.)", "Moving on."},
		},
		{
			name: "paragraph break without punctuation",
			text: "Heading\n\nBody text here.",
			want: []string{"Heading", "Body text here."},
		},
		{
			name: "paragraph break with blank line containing spaces",
			text: "First paragraph\n  \t\nSecond paragraph",
			want: []string{"First paragraph", "Second paragraph"},
		},
		{
			name: "CRLF paragraph break",
			text: "First line\r\n\r\nSecond line",
			want: []string{"First line", "Second line"},
		},
		{
			name: "single newline does not split",
			text: "A sentence that wraps\nonto the next line.",
			want: []string{"A sentence that wraps\nonto the next line."},
		},
		{
			name: "trailing fragment kept",
			text: "Complete sentence. Fragment without end",
			want: []string{"Complete sentence.", "Fragment without end"},
		},
		{
			name: "ellipsis",
			text: "Wait... what happened?",
			want: []string{"Wait...", "what happened?"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			text: " \n\n \t ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := segment(tt.text)
			got := spanTexts(tt.text, spans)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("segment(%q) = %q, want %q", tt.text, got, tt.want)
			}
			for _, s := range spans {
				if s.start < 0 || s.start >= s.end || s.end > len(tt.text) {
					t.Errorf("span [%d,%d) outside text of length %d", s.start, s.end, len(tt.text))
				}
			}
		})
	}
}

func TestMustBeInRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range span")
		}
	}()
	mustBeInRange(5, 10, 8)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Cats are mammals.", []string{"cats", "are", "mammals"}},
		{"H2O boils, roughly!", []string{"h2o", "boils", "roughly"}},
		{"don't stop", []string{"don", "t", "stop"}},
		{"1969: Apollo-11", []string{"1969", "apollo", "11"}},
		{"", nil},
		{"...", nil},
	}
	for _, tt := range tests {
		got := tokenize(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainment(t *testing.T) {
	doc := tokenSet("Dogs are mammals too.")
	tests := []struct {
		query string
		want  float64
	}{
		{"dogs mammals", 1},
		{"cats mammals", 0.5},
		{"birds fish", 0},
	}
	for _, tt := range tests {
		if got := containment(queryTokens(tt.query, false), doc); got != tt.want {
			t.Errorf("containment(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
	if got := containment(map[string]struct{}{}, doc); got != 0 {
		t.Errorf("empty query scored %v, want 0", got)
	}
}
