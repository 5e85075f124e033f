package model

// Token is a positioned text fragment produced by the geometry collaborator.
// Tokens are immutable; all downstream stages work on copies or derived
// strings.
type Token struct {
	Text string
	BBox BBox
	Page int
}

// MarkKind classifies a vector mark extracted from page drawings.
type MarkKind int

const (
	// MarkDiagonalX is a diagonal stroke that may form half of a
	// strike-through "X" over a due cell.
	MarkDiagonalX MarkKind = iota
)

// VectorMark is a vector line segment reduced to its bounding box. Two
// overlapping diagonal marks inside one cell are the discontinued signal.
type VectorMark struct {
	Kind MarkKind
	BBox BBox
	Page int
}

// Hall is a physical unit. Halls are derived solely from room-number
// banding and never inferred from document text.
type Hall int

const (
	HallUnknown Hall = iota
	HallMercer       // 100s
	HallHoladay      // 200s
	HallBridgman     // 300s
	HallMorton       // 400s
)

func (h Hall) String() string {
	switch h {
	case HallMercer:
		return "Mercer"
	case HallHoladay:
		return "Holaday"
	case HallBridgman:
		return "Bridgman"
	case HallMorton:
		return "Morton"
	default:
		return "Unknown"
	}
}

// HallForRoom maps a room number to its hall by hundreds banding.
// Numbers outside the four known bands map to HallUnknown.
func HallForRoom(room int) Hall {
	switch room / 100 {
	case 1:
		return HallMercer
	case 2:
		return HallHoladay
	case 3:
		return HallBridgman
	case 4:
		return HallMorton
	default:
		return HallUnknown
	}
}

// TrackRole labels the function of a row inside a room block. The role is
// resolved once during classification; downstream consumers switch on it
// rather than re-deriving it from cell text.
type TrackRole int

const (
	RoleLabel TrackRole = iota
	RoleVitalsRow
	RoleDueCellRow
)

func (r TrackRole) String() string {
	switch r {
	case RoleVitalsRow:
		return "VitalsRow"
	case RoleDueCellRow:
		return "DueCellRow"
	default:
		return "Label"
	}
}

// Track is one classified row of a room block. Cells maps column index to
// the joined, scrubbed cell text for that column.
type Track struct {
	Role  TrackRole
	Label string
	Band  BBox
	Cells map[int]string
}

// RoomBlock is the contiguous vertical region of a page owned by one room
// anchor. It owns its tracks and lives for exactly one parse pass.
type RoomBlock struct {
	Room   int
	Hall   Hall
	Page   int
	Top    float64
	Bottom float64
	Tracks []Track
}
