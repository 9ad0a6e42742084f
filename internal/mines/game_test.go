package mines

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestGame(t *testing.T, params Params) (*Game, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	g, err := NewGame(params, newRand(), clock.Now)
	require.NoError(t, err)
	return g, clock
}

func TestParams(t *testing.T) {
	assert.Equal(t, Params{Size: 12, MineCount: 15, Flags: 30}, DefaultParams())
	assert.Equal(t, 144-15, DefaultParams().SafeCount())
	assert.Equal(t, 20, Params{Size: 9, MineCount: 10}.Normalize().Flags)
	assert.Equal(t, 3, Params{Size: 9, MineCount: 10, Flags: 3}.Normalize().Flags)

	tests := []struct {
		name   string
		params Params
		err    error
	}{
		{"default", DefaultParams(), nil},
		{"empty board", Params{Size: 0, MineCount: 0, Flags: 1}, ErrInvalidSize},
		{"full board", Params{Size: 3, MineCount: 9, Flags: 1}, ErrInvalidMineCount},
		{"negative mines", Params{Size: 3, MineCount: -1, Flags: 1}, ErrInvalidMineCount},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.params.Validate()
			if test.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, test.err)
			}
		})
	}

	assert.ErrorIs(t, Params{Size: 3, MineCount: 1, Flags: -1}.Validate(), ErrInvalidFlags)

	_, err := NewGame(Params{Size: 2, MineCount: 4}, newRand(), nil)
	assert.ErrorIs(t, err, ErrInvalidMineCount)
}

func TestFirstRevealIsSafe(t *testing.T) {
	r := newRand()
	params := Params{Size: 5, MineCount: 20}
	for range 50 {
		g, err := NewGame(params, r, nil)
		require.NoError(t, err)
		p := Point{r.IntN(5), r.IntN(5)}

		outcome, err := g.Reveal(p)
		require.NoError(t, err)
		require.NotEqual(t, HitMine, outcome)
		require.NotEqual(t, Unarmed, g.State())
		require.Equal(t, 20, g.Field().MineCount())

		v, err := g.Field().Visibility(p)
		require.NoError(t, err)
		require.Equal(t, Revealed, v)
	}
}

func TestRevealFlaggedCellDoesNotArm(t *testing.T) {
	g, _ := newTestGame(t, DefaultParams())

	_, err := g.Flag(Point{0, 0})
	require.NoError(t, err)

	outcome, err := g.Reveal(Point{0, 0})
	require.NoError(t, err)
	assert.Equal(t, Continue, outcome)
	assert.Equal(t, Unarmed, g.State())
}

func TestRevealOutOfBounds(t *testing.T) {
	g, _ := newTestGame(t, DefaultParams())

	_, err := g.Reveal(Point{12, 0})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, Unarmed, g.State())

	_, err = g.Flag(Point{0, 12})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestFlagBudget(t *testing.T) {
	g, _ := newTestGame(t, Params{Size: 3, MineCount: 1, Flags: 2})

	for _, p := range []Point{{0, 0}, {0, 1}} {
		v, err := g.Flag(p)
		require.NoError(t, err)
		assert.Equal(t, Flagged, v)
	}
	assert.Equal(t, 0, g.FlagsLeft())

	_, err := g.Flag(Point{0, 2})
	assert.ErrorIs(t, err, ErrNoFlagsLeft)

	v, err := g.Flag(Point{0, 1})
	require.NoError(t, err)
	assert.Equal(t, Covered, v)
	assert.Equal(t, 1, g.FlagsLeft())

	v, err = g.Flag(Point{0, 2})
	require.NoError(t, err)
	assert.Equal(t, Flagged, v)
	assert.Equal(t, 0, g.FlagsLeft())
}

func TestClearedOnFirstReveal(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"no mines", Params{Size: 4, MineCount: 0, Flags: 1}},
		{"one safe cell", Params{Size: 3, MineCount: 8}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g, clock := newTestGame(t, test.params)

			outcome, err := g.Reveal(Point{1, 1})
			require.NoError(t, err)
			assert.Equal(t, Cleared, outcome)
			assert.Equal(t, Won, g.State())

			clock.Advance(time.Minute)
			summary := g.Summary()
			assert.True(t, summary.Won())
			assert.True(t, summary.Over())
			assert.Equal(t, test.params.SafeCount(), summary.Opened)
			assert.Equal(t, time.Duration(0), summary.Elapsed)

			_, err = g.Reveal(Point{0, 0})
			assert.ErrorIs(t, err, ErrGameOver)
			_, err = g.Flag(Point{0, 0})
			assert.ErrorIs(t, err, ErrGameOver)
		})
	}
}

func TestHitMineEndsGame(t *testing.T) {
	g, clock := newTestGame(t, DefaultParams())

	_, err := g.Reveal(Point{6, 6})
	require.NoError(t, err)
	require.Equal(t, Armed, g.State())

	var mine Point
	for i, c := range g.Field().cells {
		if c.IsMine() {
			mine = pointAt(i, 12)
			break
		}
	}

	clock.Advance(90 * time.Second)
	outcome, err := g.Reveal(mine)
	require.NoError(t, err)
	assert.Equal(t, HitMine, outcome)
	assert.Equal(t, Lost, g.State())

	clock.Advance(time.Hour)
	summary := g.Summary()
	assert.False(t, summary.Won())
	assert.True(t, summary.Over())
	assert.Equal(t, 90*time.Second, summary.Elapsed)
	assert.Equal(t, 129, summary.Safe)

	grid := g.Snapshot()
	assert.Equal(t, ExplodedMine, grid[mine.index(12)])
}

func TestClock(t *testing.T) {
	g, clock := newTestGame(t, DefaultParams())

	_, started := g.StartedAt()
	assert.False(t, started)
	clock.Advance(time.Minute)
	assert.Equal(t, time.Duration(0), g.Elapsed())

	// the first flag starts the clock
	_, err := g.Flag(Point{0, 0})
	require.NoError(t, err)
	at, started := g.StartedAt()
	assert.True(t, started)
	assert.Equal(t, clock.now, at)

	clock.Advance(5 * time.Second)
	_, err = g.Reveal(Point{5, 5})
	require.NoError(t, err)
	clock.Advance(5 * time.Second)

	assert.Equal(t, 10*time.Second, g.Elapsed())
	_, ended := g.EndedAt()
	assert.False(t, ended)
}

func TestRestart(t *testing.T) {
	g, clock := newTestGame(t, DefaultParams())

	_, err := g.Flag(Point{0, 0})
	require.NoError(t, err)
	_, err = g.Reveal(Point{5, 5})
	require.NoError(t, err)
	clock.Advance(time.Minute)

	g.Restart()

	assert.Equal(t, Unarmed, g.State())
	assert.Equal(t, 30, g.FlagsLeft())
	assert.Equal(t, time.Duration(0), g.Elapsed())
	assert.Equal(t, 0, g.Summary().Opened)
	for _, s := range g.Snapshot() {
		assert.Equal(t, Unknown, s)
	}

	outcome, err := g.Reveal(Point{0, 0})
	require.NoError(t, err)
	assert.NotEqual(t, HitMine, outcome)
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Second, "00:00:00"},
		{1900 * time.Millisecond, "00:00:01"},
		{61 * time.Second, "00:01:01"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{100 * time.Hour, "100:00:00"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, FormatElapsed(test.d))
	}
}

func TestSummaryString(t *testing.T) {
	s := Summary{State: Won, Opened: 129, Safe: 129, Elapsed: 75 * time.Second}
	assert.Equal(t, "won in 00:01:15, 129 of 129 cells opened", s.String())
}
