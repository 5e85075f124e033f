// Package decide interprets the contents of a due cell and classifies the
// dose. Tokenization recognizes the small closed vocabulary nurses write
// into MAR cells; classification is a strict first-match evaluation with no
// fuzzy fallback. Anything the engine cannot resolve is excluded with a
// reason rather than guessed at.
package decide

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jherrick/marlens/model"
)

// Config carries the injected decision vocabulary. Nothing in this package
// reads ambient state; callers pass the configuration explicitly.
type Config struct {
	// GivenGlyphs are the substrings that mark a dose as administered.
	GivenGlyphs []string

	// AllowedHeldCodes are the chart codes that justify a held dose.
	AllowedHeldCodes []int
}

// DefaultConfig returns the stock decision vocabulary.
func DefaultConfig() Config {
	return Config{
		GivenGlyphs:      []string{"√", "✓", "✔", "■"},
		AllowedHeldCodes: []int{4, 6, 11, 12, 15},
	}
}

func (c Config) codeAllowed(code int) bool {
	for _, a := range c.AllowedHeldCodes {
		if a == code {
			return true
		}
	}
	return false
}

// CellTokens is the structured reading of one due cell.
type CellTokens struct {
	Given     bool
	Time      string // HH:MM administration time, when present
	ChartCode int
	HasCode   bool
	XMark     bool
	Vitals    model.Vitals
	Raw       string
}

var (
	adminTime  = regexp.MustCompile(`\b([01]?\d|2[0-3]):[0-5]\d\b`)
	bpWrapped  = regexp.MustCompile(`(\d{2,3})\s*/\s*\n\s*(\d{2,3})`)
	bpReading  = regexp.MustCompile(`\b(\d{2,3})\s*/\s*(\d{2,3})\b`)
	hrLabeled  = regexp.MustCompile(`(?i)\b(?:HR|PULSE)\s*[:\-]?\s*(\d{2,3})\b`)
	isolatedV  = regexp.MustCompile(`(?:^|\s)[Vv](?:\s|$)`)
	isolatedX  = regexp.MustCompile(`(?:^|\s)[xX](?:\s|$)`)
	digitRun   = regexp.MustCompile(`\d+`)
	numericCtx = ":/.0123456789"
)

// Tokenize reads a joined due-cell string into CellTokens. An HH:MM time
// implies the dose was given even without a glyph. The trailing integer in
// the cell is the chart code unless it was already consumed as a vital.
func Tokenize(cell string, cfg Config) CellTokens {
	raw := bpWrapped.ReplaceAllString(cell, "$1/$2")
	t := CellTokens{Raw: raw}

	for _, g := range cfg.GivenGlyphs {
		if g != "" && strings.Contains(raw, g) {
			t.Given = true
			break
		}
	}
	if !t.Given && isolatedV.MatchString(raw) {
		t.Given = true
	}
	if m := adminTime.FindString(raw); m != "" {
		t.Given = true
		t.Time = m
	}

	if isolatedX.MatchString(raw) {
		t.XMark = true
	}

	if m := bpReading.FindStringSubmatch(raw); m != nil {
		t.Vitals.SBP, _ = strconv.Atoi(m[1])
		t.Vitals.DBP, _ = strconv.Atoi(m[2])
		t.Vitals.HasSBP = true
	}
	if m := hrLabeled.FindStringSubmatch(raw); m != nil {
		t.Vitals.HR, _ = strconv.Atoi(m[1])
		t.Vitals.HasHR = true
	}

	ints := bareInts(raw)
	if len(ints) > 0 {
		code := ints[len(ints)-1]
		consumed := (t.Vitals.HasHR && t.Vitals.HR == code) ||
			(t.Vitals.HasSBP && (t.Vitals.SBP == code || t.Vitals.DBP == code))
		if !consumed {
			t.ChartCode = code
			t.HasCode = true
		}
	}

	return t
}

// TokenizePulseRow reads a cell from a dedicated pulse row. A bare integer
// in the plausible heart-rate band is the HR reading even without an HR
// prefix, and is consumed rather than read as a chart code.
func TokenizePulseRow(cell string, cfg Config) CellTokens {
	t := Tokenize(cell, cfg)
	if t.Vitals.HasHR {
		return t
	}
	ints := bareInts(t.Raw)
	if len(ints) == 0 {
		return t
	}
	if n := ints[len(ints)-1]; n >= 40 && n <= 180 {
		t.Vitals.HR = n
		t.Vitals.HasHR = true
		if t.HasCode && t.ChartCode == n {
			t.ChartCode = 0
			t.HasCode = false
		}
	}
	return t
}

// bareInts returns 1-3 digit runs that stand alone, excluding digits that
// belong to a time, a BP reading, or a decimal.
func bareInts(s string) []int {
	var out []int
	for _, loc := range digitRun.FindAllStringIndex(s, -1) {
		start, end := loc[0], loc[1]
		if end-start > 3 {
			continue
		}
		if start > 0 && strings.IndexByte(numericCtx, s[start-1]) >= 0 {
			continue
		}
		if end < len(s) && strings.IndexByte(numericCtx, s[end]) >= 0 {
			continue
		}
		n, err := strconv.Atoi(s[start:end])
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
