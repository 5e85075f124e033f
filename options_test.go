package marlens

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.yaml")
	yaml := "column_tolerance: 9\nallowed_held_codes: [4]\ninclude_med_text: true\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.ColumnTolerance != 9 {
		t.Errorf("ColumnTolerance = %v, want 9", opts.ColumnTolerance)
	}
	if len(opts.AllowedHeldCodes) != 1 || opts.AllowedHeldCodes[0] != 4 {
		t.Errorf("AllowedHeldCodes = %v, want [4]", opts.AllowedHeldCodes)
	}
	if !opts.IncludeMedText {
		t.Error("IncludeMedText not set from file")
	}
	// Absent keys keep their defaults.
	if opts.ColumnMergeGap != 6 {
		t.Errorf("ColumnMergeGap = %v, want default 6", opts.ColumnMergeGap)
	}
	if len(opts.GivenGlyphs) != 4 {
		t.Errorf("GivenGlyphs = %v, want defaults", opts.GivenGlyphs)
	}
}

func TestLoadOptionsMissingFile(t *testing.T) {
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for a missing options file")
	}
}
