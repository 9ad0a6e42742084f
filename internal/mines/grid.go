package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellState is what a player may know about a square.
type CellState int8

const (
	Unknown      CellState = -2
	Marked       CellState = -1
	RevealedMine CellState = 64
	ExplodedMine CellState = 65
	/*
	 * Each item in a [Grid] is one of the following values:
	 *
	 * 	- 0 to 8 mean the square is open and has a surrounding mine
	 * 	  count.
	 *
	 * 	- -1 means the square is flagged.
	 *
	 * 	- -2 means the square is still covered.
	 *
	 * 	- 64 means the square has had a mine revealed when the game
	 * 	  was lost.
	 *
	 * 	- 65 means the square had a mine revealed and this was the
	 * 	  one the player hit.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "#"
	case s == Marked:
		return "F"
	case s == 0:
		return "."
	case 0 < s && s <= 8:
		return strconv.Itoa(int(s))
	case s == ExplodedMine:
		return "X"
	default:
		return "*"
	}
}

// Grid is the player-facing projection of a field, row by row.
type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(g[y*width+x].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Grid projects the field onto what the player can see. It never exposes
// covered mines.
func (f *Field) Grid() Grid {
	grid := make(Grid, len(f.cells))
	for i, c := range f.cells {
		switch f.vis[i] {
		case Covered:
			grid[i] = Unknown
		case Flagged:
			grid[i] = Marked
		case Revealed:
			switch {
			case i == f.exploded:
				grid[i] = ExplodedMine
			case c.IsMine():
				grid[i] = RevealedMine
			default:
				grid[i] = CellState(c.adjacent)
			}
		}
	}
	return grid
}

// String renders the player's view of the field.
func (f *Field) String() string {
	return f.Grid().ToString(f.size)
}

// layout renders the mine plane regardless of what is revealed.
func (f *Field) layout() string {
	var b strings.Builder
	for i, c := range f.cells {
		if i%f.size > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, c)
		if i%f.size == f.size-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
