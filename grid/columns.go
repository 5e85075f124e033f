// Package grid recovers the day-column structure of a MAR page from token
// positions and associates diagonal vector marks with due cells. It
// tolerates the layout drift real documents show: sub-pixel x jitter is
// absorbed by a tolerance band and split headers are healed by a merge-gap
// pass.
package grid

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jherrick/marlens/model"
)

// Column is one day/date column band on a page. Day is 1-31 when a date
// header numeral tagged the band, 0 otherwise.
type Column struct {
	X0, X1 float64
	Day    int
}

// Contains reports whether an x coordinate falls inside the band.
func (c Column) Contains(x float64) bool {
	return x >= c.X0 && x <= c.X1
}

// Center returns the band's horizontal center.
func (c Column) Center() float64 {
	return (c.X0 + c.X1) / 2
}

// ColumnBuilder clusters token x-positions into day columns.
type ColumnBuilder struct {
	// Tolerance is the cluster width for x-centers (in page units).
	Tolerance float64

	// MergeGap is the maximum gap between adjacent clusters that still
	// merges them into one band (heals split or wrapped headers).
	MergeGap float64

	// HeaderFrac is the fraction of page height scanned for date header
	// numerals.
	HeaderFrac float64

	// Pad widens each numeral's box into a provisional band.
	Pad float64
}

// NewColumnBuilder creates a builder with default tolerances.
func NewColumnBuilder() *ColumnBuilder {
	return &ColumnBuilder{
		Tolerance:  6.0,
		MergeGap:   6.0,
		HeaderFrac: 0.18,
		Pad:        14.0,
	}
}

// headerNumeral holds one recognized date header token.
type headerNumeral struct {
	day    int
	x0, x1 float64
}

// Build derives column bands from the page's tokens. Candidates are
// day-of-month numerals (1-31) in the header band; their boxes become
// provisional bands which are then clustered and merged. When no candidate
// clusters at all, Build returns nil and the page contributes no room
// blocks; callers report a warning rather than an error.
func (cb *ColumnBuilder) Build(tokens []model.Token, pageHeight float64) []Column {
	headerLimit := pageHeight * cb.HeaderFrac
	var numerals []headerNumeral
	for _, tok := range tokens {
		if tok.BBox.Y0 > headerLimit {
			continue
		}
		text := strings.TrimSpace(tok.Text)
		day, err := strconv.Atoi(text)
		if err != nil || day < 1 || day > 31 {
			continue
		}
		numerals = append(numerals, headerNumeral{day: day, x0: tok.BBox.X0, x1: tok.BBox.X1})
	}
	if len(numerals) == 0 {
		return nil
	}

	sort.Slice(numerals, func(i, j int) bool { return numerals[i].x0 < numerals[j].x0 })

	// Cluster numerals whose centers sit within Tolerance of each other;
	// a wrapped header emits two fragments for the same column.
	var cols []Column
	for _, n := range numerals {
		band := Column{X0: n.x0 - cb.Pad, X1: n.x1 + cb.Pad, Day: n.day}
		if len(cols) > 0 {
			prev := &cols[len(cols)-1]
			center := (n.x0 + n.x1) / 2
			if center-prev.Center() <= cb.Tolerance || band.X0 <= prev.X1+cb.MergeGap && prev.Day == n.day {
				if band.X1 > prev.X1 {
					prev.X1 = band.X1
				}
				continue
			}
		}
		cols = append(cols, band)
	}

	// Merge-gap pass: adjacent distinct bands whose gap drifted below the
	// threshold collapse into one, keeping the left band's date tag.
	merged := cols[:0]
	for _, col := range cols {
		if len(merged) > 0 {
			prev := &merged[len(merged)-1]
			if col.X0-prev.X1 < cb.MergeGap && col.Day == prev.Day {
				if col.X1 > prev.X1 {
					prev.X1 = col.X1
				}
				continue
			}
			// Clamp overlap so every x maps to exactly one column.
			if col.X0 < prev.X1 {
				boundary := (col.X0 + prev.X1) / 2
				prev.X1 = boundary
				col.X0 = boundary
			}
		}
		merged = append(merged, col)
	}
	return merged
}

// FindColumn returns the index of the band containing x, or -1.
func FindColumn(cols []Column, x float64) int {
	for i, col := range cols {
		if col.Contains(x) {
			return i
		}
	}
	return -1
}
