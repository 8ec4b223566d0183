package agent

import (
	"testing"
)

func TestQueryHashNormalization(t *testing.T) {
	tests := []struct {
		name      string
		a         string
		b         string
		wantEqual bool
	}{
		{
			name:      "word order is irrelevant",
			a:         "vacation plans summer",
			b:         "summer vacation plans",
			wantEqual: true,
		},
		{
			name:      "case is irrelevant",
			a:         "Vacation Plans",
			b:         "vacation plans",
			wantEqual: true,
		},
		{
			name:      "extra whitespace is irrelevant",
			a:         "  vacation   plans ",
			b:         "vacation plans",
			wantEqual: true,
		},
		{
			name:      "different words differ",
			a:         "vacation plans",
			b:         "vacation photos",
			wantEqual: false,
		},
		{
			name:      "cyrillic queries normalize too",
			a:         "плани на відпустку",
			b:         "відпустку на плани",
			wantEqual: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ha, hb := QueryHash(tt.a), QueryHash(tt.b)
			if (ha == hb) != tt.wantEqual {
				t.Errorf("QueryHash(%q)=%s QueryHash(%q)=%s, wantEqual=%v", tt.a, ha, tt.b, hb, tt.wantEqual)
			}
		})
	}
}

func TestQueryHashIsHex(t *testing.T) {
	h := QueryHash("anything at all")
	if len(h) != 40 {
		t.Fatalf("expected 40-char sha1 hex, got %d chars: %s", len(h), h)
	}
}
