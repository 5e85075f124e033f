// Package cells merges adjacent positioned text fragments into clean
// logical cell strings. Joining is purely positional and textual: it
// resolves line wraps and soft-break artifacts but performs no medical
// interpretation. Identical token sequences always yield identical output,
// which keeps exports diff-stable across runs.
package cells

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jherrick/marlens/model"
)

// Break glyphs that signal a soft line wrap when they end a fragment:
// hyphen-minus, en dash, em dash, soft hyphen.
const breakGlyphs = "-–—­"

var spaceRun = regexp.MustCompile(`\s+`)

// checkVariants maps the checkmark family to one canonical given glyph so
// the decision tokenizer sees a stable vocabulary.
var checkVariants = map[string]string{
	"√": "√",
	"✓": "√",
	"✔": "√",
}

var holdVariants = map[string]string{
	"H":    "H",
	"hold": "H",
	"Hold": "H",
	"HOLD": "H",
}

// Join concatenates the fragments of one logical cell in reading order.
// Fragments are grouped into lines by vertical center, then ordered left to
// right. Across a line boundary, a fragment ending in a break glyph that is
// preceded by a letter and followed by a lowercase continuation merges
// without a space, dropping the glyph; every other boundary gets a single
// space. A minus sign immediately preceding a digit is never a break glyph.
func Join(tokens []model.Token) string {
	frags := make([]model.Token, 0, len(tokens))
	for _, tok := range tokens {
		text := strings.TrimSpace(norm.NFC.String(tok.Text))
		if text == "" {
			continue
		}
		tok.Text = spaceRun.ReplaceAllString(text, " ")
		frags = append(frags, tok)
	}
	if len(frags) == 0 {
		return ""
	}

	lines := groupLines(frags)

	var b strings.Builder
	pendingMerge := false
	for li, line := range lines {
		for fi, frag := range line {
			text := frag.Text
			switch {
			case b.Len() == 0:
			case pendingMerge && fi == 0:
				// soft-break continuation: no space, glyph already dropped
			default:
				b.WriteByte(' ')
			}
			pendingMerge = false

			if fi == len(line)-1 && li < len(lines)-1 {
				if trimmed, ok := softBreak(text, firstFragment(lines[li+1])); ok {
					text = trimmed
					pendingMerge = true
				}
			}
			b.WriteString(text)
		}
	}
	return b.String()
}

// CanonicalizeMarks rewrites checkmark variants to the canonical given
// glyph and hold-word variants to "H", token by token, collapsing runs of
// whitespace. Non-mark tokens pass through untouched.
func CanonicalizeMarks(s string) string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if canon, ok := checkVariants[f]; ok {
			out = append(out, canon)
			continue
		}
		if canon, ok := holdVariants[f]; ok {
			out = append(out, canon)
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// softBreak reports whether prev ends in a soft line break that should
// merge with next, returning prev with the glyph removed.
func softBreak(prev, next string) (string, bool) {
	last, size := utf8.DecodeLastRuneInString(prev)
	if size == 0 || !strings.ContainsRune(breakGlyphs, last) {
		return prev, false
	}

	// The glyph must continue a word: the rune before it is a letter. This
	// keeps a literal minus sign (as in "-2") out of break handling.
	beforeGlyph, bsize := utf8.DecodeLastRuneInString(prev[:len(prev)-size])
	if bsize == 0 || !unicode.IsLetter(beforeGlyph) {
		return prev, false
	}

	first, fsize := utf8.DecodeRuneInString(next)
	if fsize == 0 || !unicode.IsLower(first) {
		return prev, false
	}
	return prev[:len(prev)-size], true
}

func firstFragment(line []model.Token) string {
	if len(line) == 0 {
		return ""
	}
	return line[0].Text
}

// groupLines buckets fragments into visual lines by vertical center, then
// sorts each line left to right and the lines top to bottom.
func groupLines(frags []model.Token) [][]model.Token {
	sorted := make([]model.Token, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := sorted[i].BBox.Center(), sorted[j].BBox.Center()
		if ci.Y != cj.Y {
			return ci.Y < cj.Y
		}
		return ci.X < cj.X
	})

	var lines [][]model.Token
	for _, frag := range sorted {
		placed := false
		if len(lines) > 0 {
			line := lines[len(lines)-1]
			anchor := line[0]
			tol := anchor.BBox.Height() / 2
			if tol <= 0 {
				tol = 2
			}
			if diff := frag.BBox.Center().Y - anchor.BBox.Center().Y; diff <= tol && diff >= -tol {
				lines[len(lines)-1] = append(line, frag)
				placed = true
			}
		}
		if !placed {
			lines = append(lines, []model.Token{frag})
		}
	}

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].BBox.X0 < line[j].BBox.X0
		})
	}
	return lines
}
