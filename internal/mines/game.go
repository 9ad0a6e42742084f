package mines

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	DefaultSize  = 12
	DefaultFlags = 30
)

type Params struct {
	Size      int `json:"size"`
	MineCount int `json:"mine_count"`
	Flags     int `json:"flags"`
}

// DefaultParams is a 12x12 board with 30 flags and half as many mines.
func DefaultParams() Params {
	return Params{
		Size:      DefaultSize,
		MineCount: DefaultFlags / 2,
		Flags:     DefaultFlags,
	}
}

// Normalize fills in a zero flag budget as twice the mine count.
func (p Params) Normalize() Params {
	if p.Flags == 0 {
		p.Flags = 2 * p.MineCount
	}
	return p
}

func (p Params) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, p.Size)
	}
	if p.MineCount < 0 || p.MineCount >= p.Size*p.Size {
		return fmt.Errorf(
			"%w: %d mines on %d cells",
			ErrInvalidMineCount, p.MineCount, p.Size*p.Size,
		)
	}
	if p.Flags < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFlags, p.Flags)
	}
	return nil
}

func (p Params) SafeCount() int {
	return p.Size*p.Size - p.MineCount
}

// Game drives a [Field] the way a player does: mines are placed on the first
// reveal, flags come from a finite budget and the clock runs from the first
// move until the game ends.
type Game struct {
	Params
	field     *Field
	flagsLeft int
	clock     func() time.Time
	startedAt time.Time
	endedAt   time.Time
}

// NewGame validates params and sets up an unarmed field. A nil clock means
// [time.Now].
func NewGame(params Params, rnd *rand.Rand, clock func() time.Time) (*Game, error) {
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	field, err := NewField(params.Size, rnd)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}
	return &Game{
		Params:    params,
		field:     field,
		flagsLeft: params.Flags,
		clock:     clock,
	}, nil
}

func (g *Game) Field() *Field {
	return g.field
}

func (g *Game) State() BoardState {
	return g.field.State()
}

func (g *Game) FlagsLeft() int {
	return g.flagsLeft
}

func (g *Game) start() {
	if g.startedAt.IsZero() {
		g.startedAt = g.clock()
	}
}

func (g *Game) stop() {
	if g.endedAt.IsZero() {
		g.endedAt = g.clock()
	}
}

// Reveal opens p, placing the mines around it first if this is the opening
// move. Flagged cells are ignored and do not arm the field.
func (g *Game) Reveal(p Point) (Outcome, error) {
	if g.field.State().Over() {
		return Continue, ErrGameOver
	}
	v, err := g.field.Visibility(p)
	if err != nil {
		return Continue, err
	}
	if v == Flagged {
		return Continue, nil
	}

	if g.field.State() == Unarmed {
		if err := g.field.PlaceMines(p, g.MineCount); err != nil {
			return Continue, err
		}
	}
	g.start()

	outcome, err := g.field.RevealArea(p)
	if err != nil {
		return Continue, err
	}
	if outcome == HitMine {
		g.stop()
		return HitMine, nil
	}
	if g.field.State() == Won {
		g.stop()
		return Cleared, nil
	}
	return Continue, nil
}

// Flag toggles the flag on p and keeps the flag budget in step.
func (g *Game) Flag(p Point) (Visibility, error) {
	if g.field.State().Over() {
		return Covered, ErrGameOver
	}
	v, err := g.field.Visibility(p)
	if err != nil {
		return Covered, err
	}
	if v == Covered && g.flagsLeft == 0 {
		return Covered, ErrNoFlagsLeft
	}

	v, err = g.field.ToggleFlag(p)
	if err != nil {
		return v, err
	}
	switch v {
	case Flagged:
		g.flagsLeft--
	case Covered:
		g.flagsLeft++
	}
	g.start()
	return v, nil
}

// Restart throws the board away and starts a fresh, unarmed game with the
// same params.
func (g *Game) Restart() {
	g.field.Reset()
	g.flagsLeft = g.Flags
	g.startedAt = time.Time{}
	g.endedAt = time.Time{}
}

func (g *Game) StartedAt() (time.Time, bool) {
	return g.startedAt, !g.startedAt.IsZero()
}

func (g *Game) EndedAt() (time.Time, bool) {
	return g.endedAt, !g.endedAt.IsZero()
}

func (g *Game) Elapsed() time.Duration {
	switch {
	case g.startedAt.IsZero():
		return 0
	case !g.endedAt.IsZero():
		return g.endedAt.Sub(g.startedAt)
	default:
		return g.clock().Sub(g.startedAt)
	}
}

func (g *Game) Snapshot() Grid {
	return g.field.Grid()
}

type Summary struct {
	State     BoardState    `json:"state"`
	Opened    int           `json:"opened"`
	Safe      int           `json:"safe"`
	FlagsLeft int           `json:"flags_left"`
	Elapsed   time.Duration `json:"elapsed"`
}

func (s Summary) Won() bool {
	return s.State == Won
}

func (s Summary) Over() bool {
	return s.State.Over()
}

// Summary implements [fmt.Stringer]
func (s Summary) String() string {
	return fmt.Sprintf(
		"%s in %s, %d of %d cells opened",
		s.State, FormatElapsed(s.Elapsed), s.Opened, s.Safe,
	)
}

func (g *Game) Summary() Summary {
	return Summary{
		State:     g.field.State(),
		Opened:    g.field.OpenedCount(),
		Safe:      g.SafeCount(),
		FlagsLeft: g.flagsLeft,
		Elapsed:   g.Elapsed(),
	}
}

// FormatElapsed renders d as HH:MM:SS, truncating to whole seconds.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
