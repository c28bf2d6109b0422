package grid

import "github.com/javiermolinar/horario/internal/timetable"

// BoundaryKind is the visual rule drawn between two adjacent section columns.
type BoundaryKind int

const (
	BoundaryNone BoundaryKind = iota
	BoundaryGroup
	BoundaryYear
)

// String returns the boundary name.
func (k BoundaryKind) String() string {
	switch k {
	case BoundaryYear:
		return "year"
	case BoundaryGroup:
		return "group"
	default:
		return "none"
	}
}

// MarshalText encodes the boundary by name.
func (k BoundaryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a boundary name. Unknown names decode as none.
func (k *BoundaryKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "year":
		*k = BoundaryYear
	case "group":
		*k = BoundaryGroup
	default:
		*k = BoundaryNone
	}
	return nil
}

// Boundary marks the rule drawn before Column (so Column is always >= 1).
type Boundary struct {
	Column int          `json:"column"`
	Kind   BoundaryKind `json:"kind"`
}

// Separators computes the boundary before every column after the first.
// A year change wins over a group change at the same column.
func Separators(sections []timetable.SectionSchedule) []Boundary {
	if len(sections) < 2 {
		return nil
	}
	boundaries := make([]Boundary, 0, len(sections)-1)
	for i := 1; i < len(sections); i++ {
		prev, cur := sections[i-1], sections[i]
		kind := BoundaryNone
		switch {
		case prev.Year != cur.Year:
			kind = BoundaryYear
		case prev.GroupID != cur.GroupID:
			kind = BoundaryGroup
		}
		boundaries = append(boundaries, Boundary{Column: i, Kind: kind})
	}
	return boundaries
}

// BoundaryBefore returns the boundary kind drawn before the column.
func (g *Grid) BoundaryBefore(column int) BoundaryKind {
	idx := column - 1
	if idx < 0 || idx >= len(g.Boundaries) {
		return BoundaryNone
	}
	return g.Boundaries[idx].Kind
}
