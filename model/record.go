package model

import "fmt"

// Metric identifies which vital sign a hold rule constrains.
type Metric int

const (
	SBP Metric = iota // systolic blood pressure
	HR                // heart rate / pulse
)

func (m Metric) String() string {
	if m == HR {
		return "HR"
	}
	return "SBP"
}

// Comparator is an exclusive threshold comparison. Inclusive comparators do
// not exist in this model; ambiguous phrasing is rejected at parse time.
type Comparator int

const (
	LessThan Comparator = iota
	GreaterThan
)

func (c Comparator) String() string {
	if c == GreaterThan {
		return ">"
	}
	return "<"
}

// Rule is a strict hold threshold: hold the dose when the metric breaches
// the exclusive bound.
type Rule struct {
	Metric    Metric
	Cmp       Comparator
	Threshold int
}

func (r Rule) String() string {
	return fmt.Sprintf("%s %s %d", r.Metric, r.Cmp, r.Threshold)
}

// Triggers reports whether the measured value breaches the rule.
func (r Rule) Triggers(value int) bool {
	if r.Cmp == LessThan {
		return value < r.Threshold
	}
	return value > r.Threshold
}

// Vitals holds the readings available for one dose. DBP rides along for
// note rendering only; no rule ever constrains it.
type Vitals struct {
	SBP    int
	DBP    int
	HR     int
	HasSBP bool
	HasHR  bool
}

// Outcome is the closed set of dose classifications. There is deliberately
// no "uncertain" member: a dose that cannot be resolved is excluded with a
// Skip, never assigned a guessed outcome.
type Outcome int

const (
	HoldMiss Outcome = iota
	HeldAppropriate
	Compliant
	DCd
)

func (o Outcome) String() string {
	switch o {
	case HoldMiss:
		return "HOLD-MISS"
	case HeldAppropriate:
		return "HELD-APPROPRIATE"
	case Compliant:
		return "COMPLIANT"
	default:
		return "DC'D"
	}
}

// DoseRecord is one classified scheduled dose.
type DoseRecord struct {
	Hall           Hall
	Room           int
	ScheduledRaw   string
	NormalizedTime string // HH:MM, 24-hour
	MedText        string // scrubbed; rendered only on explicit opt-in
	Notes          []string
	Vitals         *Vitals
	Rules          []Rule
	Decision       Outcome
}

// SkipReason explains why a dose or rule was excluded instead of classified.
type SkipReason int

const (
	SkipBadTime SkipReason = iota
	SkipAmbiguousOutcome
	SkipRuleRejectedAmbiguousComparator
	SkipImplausibleThreshold
)

func (s SkipReason) String() string {
	switch s {
	case SkipBadTime:
		return "BadTime"
	case SkipAmbiguousOutcome:
		return "AmbiguousOutcome"
	case SkipRuleRejectedAmbiguousComparator:
		return "RuleRejectedAmbiguousComparator"
	default:
		return "ImplausibleThreshold"
	}
}

// Skip is the auditable record of an exclusion. Skips travel alongside the
// successfully classified records; they are data, not errors.
type Skip struct {
	Reason SkipReason
	Page   int
	Room   int
	Detail string
}
