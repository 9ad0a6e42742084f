package mines

import (
	"fmt"
	"hash/maphash"
	"iter"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// NewRand returns a generator seeded from the runtime's random hash seed.
// Tests should pass their own rand.New(rand.NewPCG(...)) instead.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// Field is a square minefield. It is not safe for concurrent use.
type Field struct {
	size      int
	mineCount int
	cells     []Cell       /* mine plane */
	vis       []Visibility /* reveal plane */
	opened    int          /* revealed safe cells */
	armed     bool
	lost      bool
	exploded  int
	rnd       *rand.Rand
}

// NewField allocates a size×size field with every cell covered and no mines.
// A nil rnd is replaced with [NewRand].
func NewField(size int, rnd *rand.Rand) (*Field, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if rnd == nil {
		rnd = NewRand()
	}
	f := &Field{size: size, rnd: rnd}
	f.Reset()
	return f, nil
}

// Reset discards the mine layout and all reveal and flag state.
func (f *Field) Reset() {
	total := f.size * f.size
	f.cells = make([]Cell, total)
	f.vis = make([]Visibility, total)
	f.opened = 0
	f.mineCount = 0
	f.armed = false
	f.lost = false
	f.exploded = -1
}

func (f *Field) Size() int {
	return f.size
}

// MineCount is zero until the mines are placed.
func (f *Field) MineCount() int {
	return f.mineCount
}

func (f *Field) SafeCount() int {
	return f.size*f.size - f.mineCount
}

func (f *Field) OpenedCount() int {
	return f.opened
}

func (f *Field) State() BoardState {
	switch {
	case !f.armed:
		return Unarmed
	case f.lost:
		return Lost
	case f.opened == f.SafeCount():
		return Won
	default:
		return Armed
	}
}

// Exploded reports the mine that ended the game, if any.
func (f *Field) Exploded() (Point, bool) {
	if f.exploded < 0 {
		return Point{}, false
	}
	return pointAt(f.exploded, f.size), true
}

func (f *Field) InBounds(p Point) bool {
	return p.inBounds(f.size)
}

func (f *Field) checkPoint(p Point) error {
	if !p.inBounds(f.size) {
		return fmt.Errorf("%w: %s on a %dx%d board", ErrOutOfBounds, p, f.size, f.size)
	}
	return nil
}

func (f *Field) Cell(p Point) (Cell, error) {
	if err := f.checkPoint(p); err != nil {
		return Cell{}, err
	}
	return f.cells[p.index(f.size)], nil
}

func (f *Field) Visibility(p Point) (Visibility, error) {
	if err := f.checkPoint(p); err != nil {
		return Covered, err
	}
	return f.vis[p.index(f.size)], nil
}

// Neighbours yields the cells around p, clipped at the board edges: 3 for a
// corner, 5 along an edge and 8 otherwise.
func (f *Field) Neighbours(p Point) iter.Seq[Point] {
	return neighbours(p, f.size)
}

// PlaceMines arms the field with mineCount mines, none of them at exclude.
// It may be called once per game; call [Field.Reset] to start over.
func (f *Field) PlaceMines(exclude Point, mineCount int) error {
	if err := f.checkPoint(exclude); err != nil {
		return err
	}
	if f.armed {
		return ErrAlreadyArmed
	}
	total := f.size * f.size
	if mineCount < 0 || mineCount >= total {
		return fmt.Errorf(
			"%w: %d mines on %d cells", ErrInvalidMineCount, mineCount, total,
		)
	}

	ex := exclude.index(f.size)
	for range mineCount {
		i := f.rnd.IntN(total)
		for f.cells[i].IsMine() || i == ex {
			i = f.rnd.IntN(total)
		}
		f.cells[i] = Mine()
		for q := range neighbours(pointAt(i, f.size), f.size) {
			j := q.index(f.size)
			if !f.cells[j].IsMine() {
				f.cells[j].adjacent++
			}
		}
	}

	f.mineCount = mineCount
	f.armed = true

	if Log.IsLevelEnabled(logrus.DebugLevel) {
		Log.WithFields(logrus.Fields{
			"size":    f.size,
			"mines":   mineCount,
			"exclude": exclude,
		}).Debug("placed mines\n" + f.layout())
	}

	return nil
}

// RevealArea opens p. A mine ends the game and discloses every mine on the
// board; a safe cell starts a flood fill. Revealed and flagged cells are left
// untouched.
func (f *Field) RevealArea(p Point) (Outcome, error) {
	if err := f.checkPoint(p); err != nil {
		return Continue, err
	}
	if !f.armed {
		return Continue, ErrNotArmed
	}
	i := p.index(f.size)
	if f.vis[i] != Covered {
		return Continue, nil
	}
	if f.State().Over() {
		return Continue, ErrGameOver
	}
	if f.cells[i].IsMine() {
		f.explode(i)
		Log.WithField("cell", p).Debug("hit a mine")
		return HitMine, nil
	}

	before := f.opened
	f.floodFill(i)
	Log.WithFields(logrus.Fields{
		"seed":   p,
		"opened": f.opened - before,
		"total":  f.opened,
	}).Debug("flood fill")

	return Continue, nil
}

func (f *Field) floodFill(seed int) {
	todo := newCellTodo(len(f.cells))
	todo.add(seed)
	for {
		i, ok := todo.pop()
		if !ok {
			break
		}
		f.open(i)
		/* numbered cells bound the region */
		if !f.cells[i].blank() {
			continue
		}
		for q := range neighbours(pointAt(i, f.size), f.size) {
			j := q.index(f.size)
			if f.vis[j] != Covered || f.cells[j].IsMine() {
				continue
			}
			f.open(j)
			if f.cells[j].blank() {
				todo.add(j)
			}
		}
	}
}

func (f *Field) open(i int) {
	if f.vis[i] != Covered {
		return
	}
	f.vis[i] = Revealed
	f.opened++
}

func (f *Field) explode(i int) {
	f.lost = true
	f.exploded = i
	for j, c := range f.cells {
		if c.IsMine() {
			f.vis[j] = Revealed
		}
	}
}

// ToggleFlag flips p between covered and flagged and returns the new state.
func (f *Field) ToggleFlag(p Point) (Visibility, error) {
	if err := f.checkPoint(p); err != nil {
		return Covered, err
	}
	if f.State().Over() {
		return Covered, ErrGameOver
	}

	i := p.index(f.size)
	switch f.vis[i] {
	case Covered:
		f.vis[i] = Flagged
	case Flagged:
		f.vis[i] = Covered
	default:
		return f.vis[i], fmt.Errorf("%w: %s", ErrAlreadyRevealed, p)
	}
	return f.vis[i], nil
}

// Flags counts flagged cells.
func (f *Field) Flags() (n int) {
	for _, v := range f.vis {
		if v == Flagged {
			n++
		}
	}
	return
}
