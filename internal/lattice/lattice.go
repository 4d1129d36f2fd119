package lattice

import (
	"fmt"

	"hpfold/internal/hp"
)

// Heading is the absolute direction the walker faces.
type Heading int

const (
	HeadingUp Heading = iota
	HeadingDown
	HeadingRight
	HeadingLeft
)

func (h Heading) String() string {
	switch h {
	case HeadingUp:
		return "up"
	case HeadingDown:
		return "down"
	case HeadingRight:
		return "right"
	case HeadingLeft:
		return "left"
	default:
		return fmt.Sprintf("heading(%d)", int(h))
	}
}

// step is one entry of the rotation table: a coordinate delta and the
// heading after the move. Rows grow downward.
type step struct {
	dRow, dCol int
	next       Heading
}

// rotation is keyed by the current heading, then by Left, Right, Forward.
var rotation = [4][3]step{
	HeadingUp:    {{0, -1, HeadingLeft}, {0, 1, HeadingRight}, {-1, 0, HeadingUp}},
	HeadingDown:  {{0, 1, HeadingRight}, {0, -1, HeadingLeft}, {1, 0, HeadingDown}},
	HeadingRight: {{-1, 0, HeadingUp}, {1, 0, HeadingDown}, {0, 1, HeadingRight}},
	HeadingLeft:  {{1, 0, HeadingDown}, {-1, 0, HeadingUp}, {0, -1, HeadingLeft}},
}

// Turn applies t to heading h and returns the row/column delta and the new
// heading.
func (h Heading) Turn(t Turn) (dRow, dCol int, next Heading, err error) {
	var idx int
	switch t {
	case Left:
		idx = 0
	case Right:
		idx = 1
	case Forward:
		idx = 2
	default:
		return 0, 0, h, fmt.Errorf("%w: cannot move by %q", ErrInvalidFold, t)
	}
	s := rotation[h][idx]
	return s.dRow, s.dCol, s.next, nil
}

// Tag is the content of a lattice cell.
type Tag byte

const (
	Empty       Tag = 'E'
	Hydrophobic Tag = 'H'
	Polar       Tag = 'P'
)

// Cell holds the number of residues placed on it and the last residue tag.
type Cell struct {
	Count int
	Tag   Tag
}

// Coord addresses a lattice cell.
type Coord struct {
	Row, Col int
}

// Path lists the cells visited by the walk in chain order.
type Path []Coord

// Lattice is a Size x Size grid. Size is 2n-1 for a chain of length n, so
// even a fully extended walk from the centre stays on the grid.
type Lattice struct {
	Size  int
	cells []Cell
}

func newLattice(size int) *Lattice {
	cells := make([]Cell, size*size)
	for i := range cells {
		cells[i].Tag = Empty
	}
	return &Lattice{Size: size, cells: cells}
}

// AxisSize returns the lattice side used for a chain of length n.
func AxisSize(n int) int {
	if n <= 0 {
		return 0
	}
	return 2*n - 1
}

func (l *Lattice) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < l.Size && c.Col >= 0 && c.Col < l.Size
}

// At returns the cell at c. Out-of-bounds coordinates read as empty.
func (l *Lattice) At(c Coord) Cell {
	if !l.InBounds(c) {
		return Cell{Tag: Empty}
	}
	return l.cells[c.Row*l.Size+c.Col]
}

func (l *Lattice) visit(c Coord, r hp.Residue) {
	cell := &l.cells[c.Row*l.Size+c.Col]
	cell.Count++
	cell.Tag = Tag(r)
}

// Occupied returns the number of cells holding at least one residue.
func (l *Lattice) Occupied() int {
	total := 0
	for _, c := range l.cells {
		if c.Count > 0 {
			total++
		}
	}
	return total
}

// SelfAvoiding reports whether no cell holds more than one residue.
func (l *Lattice) SelfAvoiding() bool {
	for _, c := range l.cells {
		if c.Count > 1 {
			return false
		}
	}
	return true
}

// Neighbors returns the in-bounds orthogonal neighbours of c in the order
// up, down, left, right.
func (l *Lattice) Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, 4)
	for _, n := range [4]Coord{
		{c.Row - 1, c.Col},
		{c.Row + 1, c.Col},
		{c.Row, c.Col - 1},
		{c.Row, c.Col + 1},
	} {
		if l.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// Embed walks fold on a fresh lattice, placing seq[i] at the i-th visited
// cell. The walk starts at the centre heading right; the anchor does not move.
// Collisions are recorded as occupancy counts, not rejected.
func Embed(fold Fold, seq hp.Sequence) (*Lattice, Path, error) {
	if fold.Len() != seq.Len() {
		return nil, nil, fmt.Errorf("%w: fold=%d sequence=%d", ErrInvalidLength, fold.Len(), seq.Len())
	}
	n := fold.Len()
	lat := newLattice(AxisSize(n))
	if n == 0 {
		return lat, Path{}, nil
	}
	if fold.At(0) != Anchor {
		return nil, nil, fmt.Errorf("%w: position 0 must be %q, got %q", ErrInvalidFold, Anchor, fold.At(0))
	}

	center := lat.Size / 2
	pos := Coord{Row: center, Col: center}
	heading := HeadingRight
	path := make(Path, 0, n)

	lat.visit(pos, seq.At(0))
	path = append(path, pos)
	for i := 1; i < n; i++ {
		dRow, dCol, next, err := heading.Turn(fold.At(i))
		if err != nil {
			return nil, nil, fmt.Errorf("position %d: %w", i, err)
		}
		pos = Coord{Row: pos.Row + dRow, Col: pos.Col + dCol}
		heading = next
		lat.visit(pos, seq.At(i))
		path = append(path, pos)
	}
	return lat, path, nil
}

// IsSelfAvoiding reports whether the walk encoded by fold never revisits a
// cell. Collisions depend only on the turns, so every residue is taken as H.
// Malformed folds are reported as not self-avoiding.
func IsSelfAvoiding(fold Fold) bool {
	lat, _, err := Embed(fold, hp.Uniform(fold.Len(), hp.Hydrophobic))
	if err != nil {
		return false
	}
	return lat.SelfAvoiding()
}

// CheckSAW validates that fold fits seq and is self-avoiding.
func CheckSAW(fold Fold, seq hp.Sequence) (bool, error) {
	lat, _, err := Embed(fold, seq)
	if err != nil {
		return false, err
	}
	return lat.SelfAvoiding(), nil
}
