package mines

import (
	"fmt"
	"iter"
)

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Point implements [fmt.Stringer]
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

func (p Point) inBounds(size int) bool {
	return 0 <= p.Row && p.Row < size && 0 <= p.Col && p.Col < size
}

func (p Point) index(size int) int {
	return p.Row*size + p.Col
}

func pointAt(i, size int) Point {
	return Point{Row: i / size, Col: i % size}
}

// neighbours yields the in-bounds cells of the 8-neighbourhood of p, clipped
// at the board edges. p itself is not yielded.
func neighbours(p Point, size int) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				q := Point{p.Row + dr, p.Col + dc}
				if !q.inBounds(size) {
					continue
				}
				if !yield(q) {
					return
				}
			}
		}
	}
}
