package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jherrick/marlens/model"
)

func sampleRecords() []model.DoseRecord {
	return []model.DoseRecord{
		{
			Hall:           model.HallHoladay,
			Room:           201,
			NormalizedTime: "09:00",
			Decision:       model.HoldMiss,
			Rules:          []model.Rule{{Metric: model.SBP, Cmp: model.LessThan, Threshold: 100}},
			Vitals:         &model.Vitals{SBP: 92, DBP: 60, HasSBP: true},
			Notes:          []string{"Hold if SBP < 100; BP 92/60; given 09:00"},
		},
		{
			Hall:           model.HallBridgman,
			Room:           305,
			NormalizedTime: "21:00",
			Decision:       model.Compliant,
			Notes:          []string{"Hold if HR < 55; HR 70; given"},
		},
		{
			Hall:           model.HallMercer,
			Room:           104,
			NormalizedTime: "09:00",
			Decision:       model.DCd,
			Notes:          []string{"X in due cell"},
		},
	}
}

func TestBuild(t *testing.T) {
	records := sampleRecords()
	skips := []model.Skip{
		{Reason: model.SkipAmbiguousOutcome, Room: 202},
		{Reason: model.SkipBadTime, Detail: "HS"},
		{Reason: model.SkipRuleRejectedAmbiguousComparator},
	}

	s := Build(records, skips)

	if s.HoldMiss != 1 || s.HeldAppropriate != 0 || s.Compliant != 1 || s.DCd != 1 {
		t.Errorf("outcome counts = %+v", s)
	}
	if s.SkippedBadTime != 1 || s.SkippedAmbiguous != 1 || s.SkippedRejectedRules != 1 {
		t.Errorf("skip counts = %+v", s)
	}
	// Ambiguous exclusions were reviewed; doses dropped earlier were not.
	if s.Reviewed != 4 {
		t.Errorf("Reviewed = %d, want 4", s.Reviewed)
	}
}

func TestRenderChecklist(t *testing.T) {
	records := sampleRecords()
	s := Build(records, nil)

	var buf bytes.Buffer
	err := RenderChecklist(&buf, Header{Date: "08-14-2026", Hall: "Holaday"}, s, records, Options{})
	if err != nil {
		t.Fatal(err)
	}

	want := "Date: 08-14-2026\n" +
		"Hall: Holaday\n" +
		"\n" +
		"Reviewed: 3\n" +
		"Hold-Miss: 1\n" +
		"Held-Appropriate: 0\n" +
		"Compliant: 1\n" +
		"DC'D: 1\n" +
		"\n" +
		"HOLD-MISS\n" +
		"201 ( AM ) - Hold if SBP < 100 ; BP 92/60 ; given 09:00\n" +
		"\n" +
		"COMPLIANT\n" +
		"305 ( PM ) - Hold if HR < 55 ; HR 70 ; given\n" +
		"\n" +
		"DC'D\n" +
		"104 ( AM ) - X\n" +
		"\n"

	if got := buf.String(); got != want {
		t.Errorf("checklist mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderChecklistSanitizes(t *testing.T) {
	records := []model.DoseRecord{{
		Hall:           model.HallHoladay,
		Room:           201,
		NormalizedTime: "09:00",
		Decision:       model.Compliant,
		Notes:          []string{"given per DOE, John"},
	}}

	var buf bytes.Buffer
	if err := RenderChecklist(&buf, Header{Hall: "Holaday"}, Build(records, nil), records, Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "DOE") || strings.Contains(out, "John") {
		t.Errorf("identifying text leaked into checklist:\n%s", out)
	}
}

func TestRenderChecklistMedTextOptIn(t *testing.T) {
	rec := sampleRecords()[0]
	rec.MedText = "metoprolol 25mg"
	records := []model.DoseRecord{rec}

	var buf bytes.Buffer
	if err := RenderChecklist(&buf, Header{}, Build(records, nil), records, Options{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "metoprolol") {
		t.Error("med text rendered without opt-in")
	}

	buf.Reset()
	if err := RenderChecklist(&buf, Header{}, Build(records, nil), records, Options{IncludeMedText: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[metoprolol 25mg]") {
		t.Errorf("med text missing with opt-in:\n%s", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	records := sampleRecords()
	skips := []model.Skip{{Reason: model.SkipBadTime, Page: 1, Room: 202, Detail: "DOE, John HS"}}

	var buf bytes.Buffer
	err := WriteJSON(&buf, Header{Date: "08-14-2026", Hall: "Holaday"}, Build(records, skips), records, skips, Options{})
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Summary Summary `json:"summary"`
		Records []struct {
			Hall     string   `json:"hall"`
			Room     int      `json:"room"`
			Decision string   `json:"decision"`
			Rules    []string `json:"rules"`
			Vitals   *struct {
				SBP int `json:"sbp"`
				DBP int `json:"dbp"`
			} `json:"vitals"`
		} `json:"records"`
		Skips []struct {
			Reason string `json:"reason"`
			Detail string `json:"detail"`
		} `json:"skips"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if got.Summary.Reviewed != 3 {
		t.Errorf("summary.reviewed = %d, want 3", got.Summary.Reviewed)
	}
	if len(got.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(got.Records))
	}
	first := got.Records[0]
	if first.Decision != "HOLD-MISS" || first.Room != 201 || first.Hall != "Holaday" {
		t.Errorf("first record = %+v", first)
	}
	if len(first.Rules) != 1 || first.Rules[0] != "SBP < 100" {
		t.Errorf("rules = %v", first.Rules)
	}
	if first.Vitals == nil || first.Vitals.SBP != 92 || first.Vitals.DBP != 60 {
		t.Errorf("vitals = %+v", first.Vitals)
	}
	if len(got.Skips) != 1 || got.Skips[0].Reason != "BadTime" {
		t.Fatalf("skips = %+v", got.Skips)
	}
	if strings.Contains(got.Skips[0].Detail, "John") {
		t.Errorf("skip detail leaked identifying text: %q", got.Skips[0].Detail)
	}
}
