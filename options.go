package marlens

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options is the audit configuration surface. Every knob has a working
// default; a YAML file can override any subset without code changes.
type Options struct {
	// ColumnTolerance is the x-center cluster width for day columns.
	ColumnTolerance float64 `yaml:"column_tolerance"`

	// ColumnMergeGap merges adjacent column bands whose gap drifts below it.
	ColumnMergeGap float64 `yaml:"column_merge_gap"`

	// Accepted diagonal angle range for a vector X, degrees from horizontal.
	VectorXAngleMin float64 `yaml:"vector_x_angle_min"`
	VectorXAngleMax float64 `yaml:"vector_x_angle_max"`

	// Accepted mark-length to cell-diagonal ratio range for a vector X.
	VectorXRatioMin float64 `yaml:"vector_x_ratio_min"`
	VectorXRatioMax float64 `yaml:"vector_x_ratio_max"`

	// BPLabelVariants are the row labels that mark a dedicated
	// blood-pressure vitals row.
	BPLabelVariants []string `yaml:"bp_label_variants"`

	// PulseLabelVariants are the row labels that mark a dedicated pulse
	// row; bare readings there are heart rates.
	PulseLabelVariants []string `yaml:"pulse_label_variants"`

	// AllowedHeldCodes are the chart codes that justify a held dose.
	AllowedHeldCodes []int `yaml:"allowed_held_codes"`

	// GivenGlyphs are the cell substrings that mark an administered dose.
	GivenGlyphs []string `yaml:"given_glyphs"`

	// IncludeMedText opts medication text into rendered reports.
	IncludeMedText bool `yaml:"include_med_text"`

	// Workers caps page-level parallelism. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		ColumnTolerance:    6.0,
		ColumnMergeGap:     6.0,
		VectorXAngleMin:    35.0,
		VectorXAngleMax:    55.0,
		VectorXRatioMin:    0.6,
		VectorXRatioMax:    1.6,
		BPLabelVariants:    []string{"BP", "B/P", "BP:", "Blood Pressure"},
		PulseLabelVariants: []string{"HR", "HR:", "Pulse", "Pulse:", "Heart Rate"},
		AllowedHeldCodes:   []int{4, 6, 11, 12, 15},
		GivenGlyphs:        []string{"√", "✓", "✔", "■"},
	}
}

// LoadOptions reads a YAML file and merges it over the defaults. Absent
// keys keep their default values.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading options file: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing options file: %w", err)
	}
	return opts, nil
}

// clone creates a deep copy so chained configuration never aliases slices.
func (o Options) clone() Options {
	out := o
	out.BPLabelVariants = append([]string(nil), o.BPLabelVariants...)
	out.PulseLabelVariants = append([]string(nil), o.PulseLabelVariants...)
	out.AllowedHeldCodes = append([]int(nil), o.AllowedHeldCodes...)
	out.GivenGlyphs = append([]string(nil), o.GivenGlyphs...)
	return out
}
