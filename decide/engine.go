package decide

import (
	"fmt"
	"strings"

	"github.com/jherrick/marlens/model"
)

// Input is everything the engine may consider for one due cell. Vitals from
// a dedicated vitals row take precedence over inline due-cell readings.
type Input struct {
	Due       CellTokens
	VitalsRow *CellTokens
	Rules     []model.Rule
	Strike    bool // vector X associated with the due cell
}

// Result carries the classification and the material that feeds the record:
// the breached rule for a hold miss, the effective vitals, and a rendered
// note line.
type Result struct {
	Outcome model.Outcome
	Rule    *model.Rule
	Vitals  model.Vitals
	Note    string
}

// Decide classifies one due cell, first match wins:
//
//  1. a strike, vector or textual, means the order was discontinued;
//  2. an allowed chart code with no recorded vitals breach is an
//     appropriate hold;
//  3. a given dose with no breached rule is compliant;
//  4. a given dose with a breached rule is a hold miss.
//
// Everything else is unresolvable: a disallowed code, an allowed code over
// breached vitals, or a cell with no recognizable marking. Those return
// ok=false and the caller excludes the dose rather than guessing.
func Decide(in Input, cfg Config) (Result, bool) {
	v := effectiveVitals(in)

	if in.Strike || in.Due.XMark {
		return Result{Outcome: model.DCd, Vitals: v, Note: "X in due cell"}, true
	}

	if in.Due.HasCode {
		if !cfg.codeAllowed(in.Due.ChartCode) {
			return Result{}, false
		}
		if breached(in.Rules, v) != nil {
			// A "held" code over vitals that demanded a hold anyway is
			// contradictory evidence, not an appropriate hold.
			return Result{}, false
		}
		return Result{
			Outcome: model.HeldAppropriate,
			Vitals:  v,
			Note:    fmt.Sprintf("code %d", in.Due.ChartCode),
		}, true
	}

	if in.Due.Given {
		if r := breached(in.Rules, v); r != nil {
			return Result{
				Outcome: model.HoldMiss,
				Rule:    r,
				Vitals:  v,
				Note:    noteLine("Hold if "+r.String(), vitalsFragment(*r, v), givenFragment(in.Due.Time)),
			}, true
		}
		return Result{
			Outcome: model.Compliant,
			Vitals:  v,
			Note:    noteLine(rulePhrase(in.Rules), anyVitalsFragment(v), givenFragment(in.Due.Time)),
		}, true
	}

	return Result{}, false
}

// effectiveVitals merges due-cell readings with the vitals row, the vitals
// row winning per field when it recorded a value.
func effectiveVitals(in Input) model.Vitals {
	v := in.Due.Vitals
	if in.VitalsRow == nil {
		return v
	}
	if in.VitalsRow.Vitals.HasSBP {
		v.SBP = in.VitalsRow.Vitals.SBP
		v.DBP = in.VitalsRow.Vitals.DBP
		v.HasSBP = true
	}
	if in.VitalsRow.Vitals.HasHR {
		v.HR = in.VitalsRow.Vitals.HR
		v.HasHR = true
	}
	return v
}

// breached returns the first rule whose metric has a recorded value that
// triggers it. A rule with no recorded value for its metric never triggers.
func breached(rules []model.Rule, v model.Vitals) *model.Rule {
	for i, r := range rules {
		switch r.Metric {
		case model.SBP:
			if v.HasSBP && r.Triggers(v.SBP) {
				return &rules[i]
			}
		case model.HR:
			if v.HasHR && r.Triggers(v.HR) {
				return &rules[i]
			}
		}
	}
	return nil
}

// rulePhrase picks the hold phrase to echo on a compliant record, preferring
// the SBP rule when several apply.
func rulePhrase(rules []model.Rule) string {
	for _, r := range rules {
		if r.Metric == model.SBP {
			return "Hold if " + r.String()
		}
	}
	if len(rules) > 0 {
		return "Hold if " + rules[0].String()
	}
	return ""
}

func vitalsFragment(r model.Rule, v model.Vitals) string {
	if r.Metric == model.SBP {
		return fmt.Sprintf("BP %d/%d", v.SBP, v.DBP)
	}
	return fmt.Sprintf("HR %d", v.HR)
}

func anyVitalsFragment(v model.Vitals) string {
	if v.HasSBP {
		return fmt.Sprintf("BP %d/%d", v.SBP, v.DBP)
	}
	if v.HasHR {
		return fmt.Sprintf("HR %d", v.HR)
	}
	return ""
}

func givenFragment(adminTime string) string {
	if adminTime != "" {
		return "given " + adminTime
	}
	return "given"
}

func noteLine(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "; ")
}
