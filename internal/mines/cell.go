package mines

import "strconv"

// Cell is the mine plane value of a single square: either a mine or a safe
// square carrying the number of mines around it.
type Cell struct {
	mine     bool
	adjacent uint8
}

func Mine() Cell {
	return Cell{mine: true}
}

// Safe panics if n is not a valid neighbour count.
func Safe(n int) Cell {
	if n < 0 || n > 8 {
		panic("mines: adjacent mine count out of range: " + strconv.Itoa(n))
	}
	return Cell{adjacent: uint8(n)}
}

func (c Cell) IsMine() bool {
	return c.mine
}

// Adjacent reports the neighbour mine count of a safe cell. ok is false for
// mines.
func (c Cell) Adjacent() (n int, ok bool) {
	if c.mine {
		return 0, false
	}
	return int(c.adjacent), true
}

func (c Cell) blank() bool {
	return !c.mine && c.adjacent == 0
}

// Cell implements [fmt.Stringer]
func (c Cell) String() string {
	if c.mine {
		return "*"
	}
	return strconv.Itoa(int(c.adjacent))
}

type Visibility int8

const (
	Covered Visibility = iota
	Revealed
	Flagged
)

// Visibility implements [fmt.Stringer]
func (v Visibility) String() string {
	switch v {
	case Covered:
		return "covered"
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	default:
		return "Visibility(" + strconv.Itoa(int(v)) + ")"
	}
}

// Visibility implements [encoding.TextMarshaler]
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

type Outcome int8

const (
	Continue Outcome = iota
	HitMine
	Cleared
)

// Outcome implements [fmt.Stringer]
func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case HitMine:
		return "hit_mine"
	case Cleared:
		return "cleared"
	default:
		return "Outcome(" + strconv.Itoa(int(o)) + ")"
	}
}

// Outcome implements [encoding.TextMarshaler]
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// BoardState is the lifecycle of a whole field. Won and Lost are terminal
// until the field is reset.
type BoardState int8

const (
	Unarmed BoardState = iota
	Armed
	Won
	Lost
)

// BoardState implements [fmt.Stringer]
func (s BoardState) String() string {
	switch s {
	case Unarmed:
		return "unarmed"
	case Armed:
		return "armed"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "BoardState(" + strconv.Itoa(int(s)) + ")"
	}
}

// BoardState implements [encoding.TextMarshaler]
func (s BoardState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s BoardState) Over() bool {
	return s == Won || s == Lost
}
