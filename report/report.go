// Package report aggregates classified dose records into a summary and
// renders the nurse-facing checklist and a JSON export. Rendering is
// deterministic: identical inputs produce byte-identical output, which is
// what makes re-audits diffable.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jherrick/marlens/model"
	"github.com/jherrick/marlens/scrub"
)

// Summary is the per-document roll-up. Reviewed counts every dose the
// audit examined: the classified ones plus those excluded as ambiguous.
// Doses dropped earlier (bad times, rejected rules) never reached review.
type Summary struct {
	Reviewed        int `json:"reviewed"`
	HoldMiss        int `json:"hold_miss"`
	HeldAppropriate int `json:"held_appropriate"`
	Compliant       int `json:"compliant"`
	DCd             int `json:"dcd"`

	SkippedBadTime       int `json:"skipped_bad_time,omitempty"`
	SkippedAmbiguous     int `json:"skipped_ambiguous,omitempty"`
	SkippedRejectedRules int `json:"skipped_rejected_rules,omitempty"`
	SkippedImplausible   int `json:"skipped_implausible,omitempty"`
}

// Build tallies records and skips into a Summary.
func Build(records []model.DoseRecord, skips []model.Skip) Summary {
	var s Summary
	for _, r := range records {
		switch r.Decision {
		case model.HoldMiss:
			s.HoldMiss++
		case model.HeldAppropriate:
			s.HeldAppropriate++
		case model.Compliant:
			s.Compliant++
		case model.DCd:
			s.DCd++
		}
	}
	for _, sk := range skips {
		switch sk.Reason {
		case model.SkipBadTime:
			s.SkippedBadTime++
		case model.SkipAmbiguousOutcome:
			s.SkippedAmbiguous++
		case model.SkipRuleRejectedAmbiguousComparator:
			s.SkippedRejectedRules++
		case model.SkipImplausibleThreshold:
			s.SkippedImplausible++
		}
	}
	s.Reviewed = len(records) + s.SkippedAmbiguous
	return s
}

// Header identifies the audited document. All fields pass through the line
// sanitizer on render.
type Header struct {
	Date   string
	Hall   string
	Source string
}

// Options controls optional report content.
type Options struct {
	// IncludeMedText appends medication text to checklist lines and the
	// JSON export. The text has been through the header scrubber but is
	// exempt from the output whitelist, so this is strictly opt-in.
	IncludeMedText bool
}

// sectionOrder is fixed so nurses scan misses first.
var sectionOrder = []model.Outcome{
	model.HoldMiss,
	model.HeldAppropriate,
	model.Compliant,
	model.DCd,
}

// RenderChecklist writes the plain-text checklist: header, summary, then
// one section per outcome in fixed order. Every rendered line passes
// through scrub.SanitizeLine; sections with no records are omitted.
func RenderChecklist(w io.Writer, h Header, s Summary, records []model.DoseRecord, opts Options) error {
	var b strings.Builder

	b.WriteString("Date: " + scrub.SanitizeLine(h.Date) + "\n")
	b.WriteString("Hall: " + scrub.SanitizeLine(h.Hall) + "\n")
	if h.Source != "" {
		b.WriteString("Source: " + scrub.SanitizeLine(h.Source) + "\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Reviewed: %d\n", s.Reviewed)
	fmt.Fprintf(&b, "Hold-Miss: %d\n", s.HoldMiss)
	fmt.Fprintf(&b, "Held-Appropriate: %d\n", s.HeldAppropriate)
	fmt.Fprintf(&b, "Compliant: %d\n", s.Compliant)
	fmt.Fprintf(&b, "DC'D: %d\n", s.DCd)
	b.WriteString("\n")

	for _, outcome := range sectionOrder {
		var lines []string
		for _, rec := range records {
			if rec.Decision != outcome {
				continue
			}
			if line := formatLine(rec, opts); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}
		b.WriteString(outcome.String() + "\n")
		for _, ln := range lines {
			b.WriteString(ln + "\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// formatLine renders one record as "<room> (<AM|PM>) - <notes>".
func formatLine(rec model.DoseRecord, opts Options) string {
	line := fmt.Sprintf("%d (%s) - %s", rec.Room, meridiem(rec.NormalizedTime), strings.Join(rec.Notes, "; "))
	line = scrub.SanitizeLine(line)
	if opts.IncludeMedText && rec.MedText != "" {
		line += " [" + rec.MedText + "]"
	}
	return line
}

func meridiem(hhmm string) string {
	if len(hhmm) < 2 {
		return "AM"
	}
	hour, err := strconv.Atoi(hhmm[:2])
	if err != nil || hour < 12 {
		return "AM"
	}
	return "PM"
}

type jsonVitals struct {
	SBP int `json:"sbp,omitempty"`
	DBP int `json:"dbp,omitempty"`
	HR  int `json:"hr,omitempty"`
}

type jsonRecord struct {
	Hall     string      `json:"hall"`
	Room     int         `json:"room"`
	Time     string      `json:"time"`
	Decision string      `json:"decision"`
	Rules    []string    `json:"rules,omitempty"`
	Vitals   *jsonVitals `json:"vitals,omitempty"`
	Notes    []string    `json:"notes,omitempty"`
	Med      string      `json:"med,omitempty"`
}

type jsonSkip struct {
	Reason string `json:"reason"`
	Page   int    `json:"page"`
	Room   int    `json:"room,omitempty"`
	Detail string `json:"detail,omitempty"`
}

type jsonExport struct {
	Header  Header       `json:"header"`
	Summary Summary      `json:"summary"`
	Records []jsonRecord `json:"records"`
	Skips   []jsonSkip   `json:"skips,omitempty"`
}

// WriteJSON emits the same content as the checklist in machine-readable
// form. Skip details pass through the line sanitizer; medication text is
// included only on explicit opt-in.
func WriteJSON(w io.Writer, h Header, s Summary, records []model.DoseRecord, skips []model.Skip, opts Options) error {
	export := jsonExport{
		Header:  h,
		Summary: s,
		Records: make([]jsonRecord, 0, len(records)),
	}
	for _, rec := range records {
		jr := jsonRecord{
			Hall:     rec.Hall.String(),
			Room:     rec.Room,
			Time:     rec.NormalizedTime,
			Decision: rec.Decision.String(),
			Notes:    sanitizeAll(rec.Notes),
		}
		for _, r := range rec.Rules {
			jr.Rules = append(jr.Rules, r.String())
		}
		if v := rec.Vitals; v != nil && (v.HasSBP || v.HasHR) {
			jv := &jsonVitals{}
			if v.HasSBP {
				jv.SBP, jv.DBP = v.SBP, v.DBP
			}
			if v.HasHR {
				jv.HR = v.HR
			}
			jr.Vitals = jv
		}
		if opts.IncludeMedText {
			jr.Med = rec.MedText
		}
		export.Records = append(export.Records, jr)
	}
	for _, sk := range skips {
		export.Skips = append(export.Skips, jsonSkip{
			Reason: sk.Reason.String(),
			Page:   sk.Page,
			Room:   sk.Room,
			Detail: scrub.SanitizeLine(sk.Detail),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}

func sanitizeAll(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		out = append(out, scrub.SanitizeLine(ln))
	}
	return out
}
