// Package rules turns free-text clinical hold instructions into strict
// threshold rules. Comparator phrases are rewritten to canonical symbols
// first; anything inclusive or ambiguous is left un-normalized so parsing
// fails closed. A hold boundary is enforced exactly as the prescriber
// wrote it or not at all.
package rules

import (
	"regexp"
	"strings"
)

// disallowed marks phrasing whose bound cannot be represented as a strict
// exclusive comparator. Matching lines are never normalized or parsed.
var disallowed = regexp.MustCompile(`(?i)at or|no less|no more|no greater|no smaller|inclusive|equal|≤|≥|<=|>=|=|\[|\]`)

var phraseRewrites = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`(?i)\bless\s+than\b`), "<"},
	{regexp.MustCompile(`(?i)\bbelow\b`), "<"},
	{regexp.MustCompile(`(?i)\bunder\b`), "<"},
	{regexp.MustCompile(`(?i)\bgreater\s+than\b`), ">"},
	{regexp.MustCompile(`(?i)\babove\b`), ">"},
	{regexp.MustCompile(`(?i)\bover\b`), ">"},
	{regexp.MustCompile(`(?i)\bheart\s+rate\b`), "HR"},
	{regexp.MustCompile(`(?i)\bpulse\b`), "HR"},
	{regexp.MustCompile(`(?i)\bsystolic(?:\s+bp)?\b`), "SBP"},
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

// NormalizePhrases rewrites comparator phrases to canonical symbols and
// aliases Pulse to HR, line by line. Lines containing inclusive or
// ambiguous phrasing pass through untouched so the holds parser skips
// them instead of guessing at a bound.
func NormalizePhrases(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if disallowed.MatchString(line) {
			continue
		}
		for _, rw := range phraseRewrites {
			line = rw.pattern.ReplaceAllString(line, rw.repl)
		}
		lines[i] = multiSpace.ReplaceAllString(line, " ")
	}
	return strings.Join(lines, "\n")
}
