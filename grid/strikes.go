package grid

import (
	"math"

	"github.com/jherrick/marlens/model"
)

// StrikeDetector associates diagonal vector marks with due cells. Two
// crossing diagonal marks inside one cell are the DC'd strike-through
// signal.
type StrikeDetector struct {
	// Accepted diagonal angle range, degrees from horizontal.
	AngleMin float64
	AngleMax float64

	// Accepted mark-length to cell-diagonal ratio range. The same band
	// bounds the length ratio between the two segments of a strike.
	RatioMin float64
	RatioMax float64
}

// NewStrikeDetector creates a detector with the default acceptance bands.
func NewStrikeDetector() *StrikeDetector {
	return &StrikeDetector{
		AngleMin: 35.0,
		AngleMax: 55.0,
		RatioMin: 0.6,
		RatioMax: 1.6,
	}
}

// Struck reports whether a strike-through X associates with the cell. A
// candidate mark has its center inside the cell's x and y bands, a diagonal
// angle within the accepted range, and a length within the accepted band
// relative to the cell diagonal. An X requires two candidates of similar
// length whose bounding boxes overlap; a single stray diagonal, or one half
// of an X spilling in from a neighboring cell, is never a strike.
func (sd *StrikeDetector) Struck(marks []model.VectorMark, cell model.BBox) bool {
	if !cell.IsValid() {
		return false
	}
	cellDiag := cell.Diagonal()

	var candidates []model.BBox
	for _, mark := range marks {
		if mark.Kind != model.MarkDiagonalX {
			continue
		}
		if !cell.Contains(mark.BBox.Center()) {
			continue
		}

		angle := math.Atan2(mark.BBox.Height(), mark.BBox.Width()) * 180 / math.Pi
		if angle < sd.AngleMin || angle > sd.AngleMax {
			continue
		}

		ratio := mark.BBox.Diagonal() / cellDiag
		if ratio < sd.RatioMin || ratio > sd.RatioMax {
			continue
		}
		candidates = append(candidates, mark.BBox)
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			ratio := candidates[i].Diagonal() / candidates[j].Diagonal()
			if ratio < sd.RatioMin || ratio > sd.RatioMax {
				continue
			}
			if candidates[i].Intersects(candidates[j]) {
				return true
			}
		}
	}
	return false
}
