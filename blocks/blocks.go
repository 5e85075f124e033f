// Package blocks partitions a page into per-room regions and classifies the
// rows inside each region. A room anchor opens a block that extends to the
// next anchor or the end of the page; halls are derived from the room
// number alone.
package blocks

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/jherrick/marlens/grid"
	"github.com/jherrick/marlens/model"
)

var (
	roomWithNumber = regexp.MustCompile(`^Room:?\s+([1-4]\d\d)$`)
	roomWord       = regexp.MustCompile(`^Room:?$`)
	bareRoom       = regexp.MustCompile(`^([1-4]\d\d)$`)
)

// Anchor is a located room label. Y is the top of the anchor token.
type Anchor struct {
	Room int
	Y    float64
}

// Finder locates room anchors on a page. Anchors live in the label strip on
// the left of the schedule grid; a bare room-shaped numeral inside a due
// column is cell content, never an anchor.
type Finder struct {
	// RowTolerance is the vertical slack used to pair a split "Room" label
	// with its numeral.
	RowTolerance float64

	// LeftFraction bounds the label strip: bare numerals anchor only when
	// their center sits left of LeftFraction of the page width.
	LeftFraction float64
}

// NewFinder returns a Finder with default tolerances.
func NewFinder() *Finder {
	return &Finder{RowTolerance: 6, LeftFraction: 0.5}
}

// FindAnchors scans tokens top-to-bottom for room anchors. Three shapes are
// recognized: a single "Room 201" token, a "Room" token followed on the
// same row by a numeral, and a bare numeral in the 100-499 bands sitting in
// the label strip outside every recognized column.
func (f *Finder) FindAnchors(tokens []model.Token, pageWidth float64, cols []grid.Column) []Anchor {
	sorted := make([]model.Token, len(tokens))
	copy(sorted, tokens)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].BBox, sorted[j].BBox
		ac, bc := a.Center(), b.Center()
		if ac.Y != bc.Y {
			return ac.Y < bc.Y
		}
		return a.X0 < b.X0
	})

	var anchors []Anchor
	consumed := make(map[int]bool)

	for i, tok := range sorted {
		if consumed[i] {
			continue
		}
		if m := roomWithNumber.FindStringSubmatch(tok.Text); m != nil {
			room, _ := strconv.Atoi(m[1])
			anchors = append(anchors, Anchor{Room: room, Y: tok.BBox.Y0})
			continue
		}
		if roomWord.MatchString(tok.Text) {
			yc := tok.BBox.Center().Y
			for j := i + 1; j < len(sorted); j++ {
				next := sorted[j]
				if next.BBox.Center().Y-yc > f.RowTolerance {
					break
				}
				if next.BBox.X0 < tok.BBox.X0 {
					continue
				}
				if m := bareRoom.FindStringSubmatch(next.Text); m != nil {
					room, _ := strconv.Atoi(m[1])
					anchors = append(anchors, Anchor{Room: room, Y: tok.BBox.Y0})
					consumed[j] = true
					break
				}
			}
			continue
		}
		if m := bareRoom.FindStringSubmatch(tok.Text); m != nil {
			center := tok.BBox.Center()
			if center.X >= f.LeftFraction*pageWidth {
				continue
			}
			if grid.FindColumn(cols, center.X) >= 0 {
				continue
			}
			room, _ := strconv.Atoi(m[1])
			anchors = append(anchors, Anchor{Room: room, Y: tok.BBox.Y0})
		}
	}
	return anchors
}

// Partition turns anchors into vertically disjoint room blocks. Each block
// runs from its anchor to the next anchor, the last to the page bottom.
func Partition(anchors []Anchor, page int, pageHeight float64) []model.RoomBlock {
	if len(anchors) == 0 {
		return nil
	}
	sorted := make([]Anchor, len(anchors))
	copy(sorted, anchors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Y < sorted[j].Y })

	out := make([]model.RoomBlock, 0, len(sorted))
	for i, a := range sorted {
		bottom := pageHeight
		if i+1 < len(sorted) {
			bottom = sorted[i+1].Y
		}
		out = append(out, model.RoomBlock{
			Room:   a.Room,
			Hall:   model.HallForRoom(a.Room),
			Page:   page,
			Top:    a.Y,
			Bottom: bottom,
		})
	}
	return out
}
