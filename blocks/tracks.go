package blocks

import (
	"sort"
	"strings"

	"github.com/jherrick/marlens/cells"
	"github.com/jherrick/marlens/grid"
	"github.com/jherrick/marlens/model"
	"github.com/jherrick/marlens/timeparse"
)

// Classifier groups a block's tokens into rows and resolves each row's role
// exactly once. Downstream stages switch on the role and never re-derive it
// from cell text.
type Classifier struct {
	// RowTolerance is the vertical slack when banding tokens into rows.
	RowTolerance float64

	// BPLabels are the label spellings that mark a dedicated
	// blood-pressure vitals row. Matching is case-folded.
	BPLabels []string

	// PulseLabels are the label spellings that mark a dedicated pulse
	// vitals row. Matching is case-folded.
	PulseLabels []string
}

// NewClassifier returns a Classifier with default tolerances and the stock
// vitals-row label variants.
func NewClassifier() *Classifier {
	return &Classifier{
		RowTolerance: 6,
		BPLabels:     []string{"BP", "B/P", "BP:", "Blood Pressure"},
		PulseLabels:  []string{"HR", "HR:", "Pulse", "Pulse:", "Heart Rate"},
	}
}

// Classify fills block.Tracks from the page tokens. A row whose label cell
// is a BP or pulse variant is a vitals row; a row with content under a
// recognized day column, or whose label is a schedule time, is a due-cell
// row; everything else is label text.
func (c *Classifier) Classify(block *model.RoomBlock, tokens []model.Token, cols []grid.Column) {
	var inside []model.Token
	for _, tok := range tokens {
		yc := tok.BBox.Center().Y
		if yc >= block.Top && yc < block.Bottom {
			inside = append(inside, tok)
		}
	}
	if len(inside) == 0 {
		return
	}

	sort.Slice(inside, func(i, j int) bool {
		a, b := inside[i].BBox.Center(), inside[j].BBox.Center()
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return inside[i].BBox.X0 < inside[j].BBox.X0
	})

	var rows [][]model.Token
	var current []model.Token
	anchorY := inside[0].BBox.Center().Y
	for _, tok := range inside {
		yc := tok.BBox.Center().Y
		if len(current) > 0 && yc-anchorY > c.RowTolerance {
			rows = append(rows, current)
			current = nil
		}
		if len(current) == 0 {
			anchorY = yc
		}
		current = append(current, tok)
	}
	rows = append(rows, current)

	for _, row := range rows {
		block.Tracks = append(block.Tracks, c.buildTrack(row, cols))
	}
}

func (c *Classifier) buildTrack(row []model.Token, cols []grid.Column) model.Track {
	var labelToks []model.Token
	byCol := map[int][]model.Token{}
	band := row[0].BBox
	for _, tok := range row {
		band = band.Union(tok.BBox)
		col := grid.FindColumn(cols, tok.BBox.Center().X)
		if col < 0 {
			labelToks = append(labelToks, tok)
			continue
		}
		byCol[col] = append(byCol[col], tok)
	}

	track := model.Track{
		Label: cells.Join(labelToks),
		Band:  band,
		Cells: make(map[int]string, len(byCol)),
	}
	for col, toks := range byCol {
		track.Cells[col] = cells.Join(toks)
	}

	switch {
	case c.isBPLabel(track.Label) || c.IsPulseLabel(track.Label):
		track.Role = model.RoleVitalsRow
	case len(byCol) > 0 || isTimeLabel(track.Label):
		track.Role = model.RoleDueCellRow
	default:
		track.Role = model.RoleLabel
	}
	return track
}

func (c *Classifier) isBPLabel(label string) bool {
	return labelMatches(label, c.BPLabels)
}

// IsPulseLabel reports whether label names a dedicated pulse row. Cells in
// such a row record heart rate even when the reading carries no HR prefix.
func (c *Classifier) IsPulseLabel(label string) bool {
	return labelMatches(label, c.PulseLabels)
}

func labelMatches(label string, variants []string) bool {
	label = strings.TrimSpace(label)
	for _, v := range variants {
		if strings.EqualFold(label, v) {
			return true
		}
	}
	return false
}

// isTimeLabel recognizes a schedule-time row that has nothing charted under
// any column yet. Such a row still owns its cells; a strike over an empty
// cell must land somewhere.
func isTimeLabel(label string) bool {
	_, err := timeparse.Normalize(label)
	return err == nil
}
