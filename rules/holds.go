package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jherrick/marlens/model"
)

// Plausibility bands per metric. Thresholds outside these are dropped with
// a reason rather than trusted.
var plausibility = map[model.Metric][2]int{
	model.SBP: {50, 250},
	model.HR:  {30, 180},
}

var (
	mentionsMetric = regexp.MustCompile(`(?i)\b(SBP|HR|Pulse|systolic|heart\s+rate)\b`)
	comparatorRule = regexp.MustCompile(`(?i)\b(SBP|HR)\b[^<>\n]*?([<>])\s*(\d{2,3})\b`)
	betweenRange   = regexp.MustCompile(`(?i)\b(SBP|HR)\b[^\d<>\n]*?between\s+(\d{2,3})\s+and\s+(\d{2,3})\b`)
	dashRange      = regexp.MustCompile(`(?i)\b(SBP|HR)\b\s*:?\s*(\d{2,3})\s*[-–]\s*(\d{2,3})\b`)
)

// ParseStrict extracts strict threshold rules from instruction text that
// has been through NormalizePhrases. Lines carrying inclusive or ambiguous
// comparator phrasing yield a skip, not a rule; exclusive range phrasing
// ("between A and B", "A-B") yields two independent rules. Duplicates are
// removed preserving first appearance.
func ParseStrict(text string) ([]model.Rule, []model.Skip) {
	var out []model.Rule
	var skips []model.Skip
	seen := map[model.Rule]struct{}{}

	add := func(r model.Rule, line string) {
		band := plausibility[r.Metric]
		if r.Threshold < band[0] || r.Threshold > band[1] {
			skips = append(skips, model.Skip{
				Reason: model.SkipImplausibleThreshold,
				Detail: r.String(),
			})
			return
		}
		if _, dup := seen[r]; dup {
			return
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}

	for _, line := range strings.Split(text, "\n") {
		if disallowed.MatchString(line) {
			if mentionsMetric.MatchString(line) {
				skips = append(skips, model.Skip{
					Reason: model.SkipRuleRejectedAmbiguousComparator,
					Detail: line,
				})
			}
			continue
		}

		matchedRange := false
		for _, m := range betweenRange.FindAllStringSubmatch(line, -1) {
			lo, hi := atoiPair(m[2], m[3])
			add(model.Rule{Metric: metricFor(m[1]), Cmp: model.GreaterThan, Threshold: lo}, line)
			add(model.Rule{Metric: metricFor(m[1]), Cmp: model.LessThan, Threshold: hi}, line)
			matchedRange = true
		}
		if !matchedRange {
			for _, m := range dashRange.FindAllStringSubmatch(line, -1) {
				lo, hi := atoiPair(m[2], m[3])
				add(model.Rule{Metric: metricFor(m[1]), Cmp: model.GreaterThan, Threshold: lo}, line)
				add(model.Rule{Metric: metricFor(m[1]), Cmp: model.LessThan, Threshold: hi}, line)
			}
		}

		for _, m := range comparatorRule.FindAllStringSubmatch(line, -1) {
			threshold, _ := strconv.Atoi(m[3])
			cmp := model.LessThan
			if m[2] == ">" {
				cmp = model.GreaterThan
			}
			add(model.Rule{Metric: metricFor(m[1]), Cmp: cmp, Threshold: threshold}, line)
		}
	}
	return out, skips
}

func metricFor(name string) model.Metric {
	if strings.EqualFold(name, "HR") {
		return model.HR
	}
	return model.SBP
}

func atoiPair(a, b string) (int, int) {
	lo, _ := strconv.Atoi(a)
	hi, _ := strconv.Atoi(b)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}
