package scrub

import (
	"strings"
	"testing"
)

func TestScrubLines(t *testing.T) {
	s := NewScrubber()

	lines := []string{
		"SMITH, John",
		"DOB: 01/02/1940",
		"MRN 4471",
		"Resident of record",
		"Admit Date: 03/04/2024",
		"Printed on 05/06/2024",
		"Page: 1 of 3",
		"(123456)",
		"Schedule for June",
		"Give by mouth daily",
		"Hold if SBP less than 100",
	}

	got := s.ScrubLines(lines)

	want := []string{
		"Schedule for June",
		"Give by mouth daily",
		"Hold if SBP less than 100",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScrubLinesEmptyRegion(t *testing.T) {
	s := NewScrubber()
	if got := s.ScrubLines(nil); len(got) != 0 {
		t.Errorf("empty region should stay empty, got %q", got)
	}
}

func TestDirty(t *testing.T) {
	s := NewScrubber()

	tests := []struct {
		line string
		want bool
	}{
		{"DOE, Jane", true},
		{"DOB 1/1/1950", true},
		{"Room 201", false},
		{"Hold if HR below 50", false},
	}

	for _, tt := range tests {
		if got := s.Dirty(tt.line); got != tt.want {
			t.Errorf("Dirty(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestSanitizeLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "decision line passes",
			in:   "201 (AM) - Hold if SBP < 100; BP 92/60; given 09:00",
			want: "201 ( AM ) - Hold if SBP < 100 ; BP 92/60 ; given 09:00",
		},
		{
			name: "names dropped",
			in:   "201 Smith given 09:00",
			want: "201 given 09:00",
		},
		{
			name: "hall names pass",
			in:   "Holaday 201",
			want: "Holaday 201",
		},
		{
			name: "medication text dropped",
			in:   "metoprolol 25mg given",
			want: "given",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeLine(tt.in)
			if got != tt.want {
				t.Errorf("SanitizeLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeLineNeverLeaksAlpha(t *testing.T) {
	leaky := "JOHNSON Robert met with nurse at 09:00 in Mercer"
	got := SanitizeLine(leaky)
	for _, word := range []string{"JOHNSON", "Robert", "nurse", "met"} {
		if strings.Contains(got, word) {
			t.Errorf("sanitized line leaked %q: %q", word, got)
		}
	}
	if !strings.Contains(got, "09:00") || !strings.Contains(got, "Mercer") {
		t.Errorf("sanitized line lost allowed tokens: %q", got)
	}
}
