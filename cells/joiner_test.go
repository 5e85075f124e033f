package cells

import (
	"testing"

	"github.com/jherrick/marlens/model"
)

// tok builds a fragment on a given visual line (12pt tall rows).
func tok(text string, line int, x float64) model.Token {
	y := float64(line) * 14
	return model.Token{
		Text: text,
		BBox: model.NewBBox(x, y, x+float64(6*len([]rune(text))), y+12),
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name   string
		tokens []model.Token
		want   string
	}{
		{
			name:   "hyphen wrap merges",
			tokens: []model.Token{tok("hydro-", 0, 0), tok("chlorothiazide", 1, 0)},
			want:   "hydrochlorothiazide",
		},
		{
			name:   "soft hyphen wrap merges",
			tokens: []model.Token{tok("meto­", 0, 0), tok("prolol", 1, 0)},
			want:   "metoprolol",
		},
		{
			name:   "en dash wrap merges",
			tokens: []model.Token{tok("lisino–", 0, 0), tok("pril", 1, 0)},
			want:   "lisinopril",
		},
		{
			name:   "minus before digit preserved",
			tokens: []model.Token{tok("-2", 0, 0)},
			want:   "-2",
		},
		{
			name:   "hyphen before digit continuation keeps glyph",
			tokens: []model.Token{tok("dose-", 0, 0), tok("2", 1, 0)},
			want:   "dose- 2",
		},
		{
			name:   "uppercase continuation keeps glyph",
			tokens: []model.Token{tok("multi-", 0, 0), tok("Dose", 1, 0)},
			want:   "multi- Dose",
		},
		{
			name:   "same line joined with spaces",
			tokens: []model.Token{tok("Give", 0, 0), tok("daily", 0, 40)},
			want:   "Give daily",
		},
		{
			name:   "reading order restored from shuffled input",
			tokens: []model.Token{tok("daily", 0, 40), tok("mouth", 1, 20), tok("Give", 0, 0), tok("by", 1, 0)},
			want:   "Give daily by mouth",
		},
		{
			name:   "blank fragments dropped",
			tokens: []model.Token{tok("  ", 0, 0), tok("9am", 0, 20)},
			want:   "9am",
		},
		{
			name:   "empty input",
			tokens: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Join(tt.tokens); got != tt.want {
				t.Errorf("Join() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJoinDeterministic(t *testing.T) {
	tokens := []model.Token{
		tok("hydro-", 0, 0), tok("chlorothiazide", 1, 0), tok("25mg", 1, 90),
	}
	first := Join(tokens)
	for i := 0; i < 5; i++ {
		if got := Join(tokens); got != first {
			t.Fatalf("run %d: Join() = %q, want %q", i, got, first)
		}
	}
}

func TestCanonicalizeMarks(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"✓ bakk", "√ bakk"},
		{"✔", "√"},
		{"√ 09:00", "√ 09:00"},
		{"Hold 11", "H 11"},
		{"hold", "H"},
		{"140/82", "140/82"},
		{"  √   12  ", "√ 12"},
	}

	for _, tt := range tests {
		if got := CanonicalizeMarks(tt.in); got != tt.want {
			t.Errorf("CanonicalizeMarks(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
