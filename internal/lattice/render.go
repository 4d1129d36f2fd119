package lattice

import (
	"strings"
)

// Bounds returns the smallest rectangle covering path.
func (p Path) Bounds() (lo, hi Coord) {
	if len(p) == 0 {
		return Coord{}, Coord{}
	}
	lo, hi = p[0], p[0]
	for _, c := range p[1:] {
		if c.Row < lo.Row {
			lo.Row = c.Row
		}
		if c.Col < lo.Col {
			lo.Col = c.Col
		}
		if c.Row > hi.Row {
			hi.Row = c.Row
		}
		if c.Col > hi.Col {
			hi.Col = c.Col
		}
	}
	return lo, hi
}

// Render draws the occupied part of the lattice as text. Residues are printed
// as H or P (X for a collision), bonds as '-' and '|'.
func Render(lat *Lattice, path Path) string {
	if lat == nil || len(path) == 0 {
		return ""
	}
	lo, hi := path.Bounds()
	rows := 2*(hi.Row-lo.Row) + 1
	cols := 2*(hi.Col-lo.Col) + 1
	canvas := make([][]byte, rows)
	for i := range canvas {
		canvas[i] = []byte(strings.Repeat(" ", cols))
	}

	at := func(c Coord) (int, int) {
		return 2 * (c.Row - lo.Row), 2 * (c.Col - lo.Col)
	}
	for i, c := range path {
		r, col := at(c)
		cell := lat.At(c)
		switch {
		case cell.Count > 1:
			canvas[r][col] = 'X'
		default:
			canvas[r][col] = byte(cell.Tag)
		}
		if i == 0 {
			continue
		}
		pr, pc := at(path[i-1])
		switch {
		case pr == r:
			canvas[r][(pc+col)/2] = '-'
		case pc == col:
			canvas[(pr+r)/2][col] = '|'
		}
	}

	var b strings.Builder
	for _, line := range canvas {
		b.WriteString(strings.TrimRight(string(line), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
