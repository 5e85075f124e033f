// Package scrub removes identifying information before it can reach any
// cache or output buffer. The header scrubber drops whole lines matching
// identifying-field patterns; the line sanitizer whitelists the vocabulary
// allowed in rendered reports. Both fail safe: when a region cannot be
// located, nothing is guessed at and nothing legitimate is over-scrubbed.
package scrub

import (
	"regexp"
	"strings"

	"github.com/jherrick/marlens/model"
)

// Patterns that may expose identifying fields in MAR headers and footers.
// A matching line is dropped entirely.
var headerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bDOB\b`),
	regexp.MustCompile(`\bMRN\b`),
	regexp.MustCompile(`\bAdmit Date\b`),
	regexp.MustCompile(`\bResident\b`),
	regexp.MustCompile(`\bPrinted on\b`),
	regexp.MustCompile(`\bPage:\s*\d+\s*of\s*\d+\b`),
	regexp.MustCompile(`\(\d{3,}\)`),              // record id in parens
	regexp.MustCompile(`[A-Z]{2,},\s+[A-Z][a-z]+`), // LAST, First
}

// Scrubber drops header lines that match identifying-field patterns.
// The zero value uses the default pattern set.
type Scrubber struct {
	patterns []*regexp.Regexp
}

// NewScrubber creates a scrubber with the default identifying-field
// patterns.
func NewScrubber() *Scrubber {
	return &Scrubber{patterns: headerPatterns}
}

// ScrubLines returns the lines with identifying ones removed. An empty
// region is a no-op.
func (s *Scrubber) ScrubLines(lines []string) []string {
	pats := s.patterns
	if pats == nil {
		pats = headerPatterns
	}

	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		if matchesAny(pats, ln) {
			continue
		}
		out = append(out, ln)
	}
	return out
}

// Dirty reports whether a single line matches an identifying-field
// pattern. Block finders use it to skip header-adjacent anchor candidates
// without ever buffering the line.
func (s *Scrubber) Dirty(line string) bool {
	pats := s.patterns
	if pats == nil {
		pats = headerPatterns
	}
	return matchesAny(pats, line)
}

func matchesAny(pats []*regexp.Regexp, line string) bool {
	for _, pat := range pats {
		if pat.MatchString(line) {
			return true
		}
	}
	return false
}

// Report output whitelist: decision vocabulary, structural labels, and the
// marks that survive tokenization. Everything alphabetic outside this set
// is dropped by SanitizeLine.
var allowedWords = map[string]struct{}{
	"date": {}, "hall": {}, "source": {}, "reviewed": {},
	"hold-miss": {}, "held-appropriate": {}, "compliant": {}, "dc'd": {},
	"hold": {}, "if": {}, "sbp": {}, "hr": {}, "bp": {}, "given": {},
	"code": {}, "am": {}, "pm": {}, "x": {}, "skipped": {}, "room": {},
}

var (
	chunker   = regexp.MustCompile(`[A-Za-z0-9:/'\-]+|[^\sA-Za-z0-9]+`)
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
)

// SanitizeLine strips any token from a report line that is not in the
// allowed output vocabulary: hall names and the fixed decision words.
// Numeric and symbol tokens (room numbers, times, readings, comparators)
// pass through.
func SanitizeLine(line string) string {
	out := make([]string, 0, 8)
	for _, tok := range chunker.FindAllString(line, -1) {
		if !hasLetter.MatchString(tok) {
			out = append(out, tok)
			continue
		}
		low := strings.ToLower(tok)
		if _, ok := allowedWords[low]; ok {
			out = append(out, tok)
			continue
		}
		if isHallName(tok) {
			out = append(out, tok)
		}
	}
	return strings.Join(out, " ")
}

func isHallName(tok string) bool {
	switch tok {
	case model.HallMercer.String(), model.HallHoladay.String(),
		model.HallBridgman.String(), model.HallMorton.String():
		return true
	}
	return false
}
