package main

import (
	"math/rand/v2"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minefield/internal/mines"
)

func newTestUI(t *testing.T, params mines.Params) *UI {
	t.Helper()
	game, err := mines.NewGame(params, rand.New(rand.NewPCG(1, 2)), nil)
	require.NoError(t, err)
	log, _ := test.NewNullLogger()
	return NewUI(log, game)
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestMoveSelection(t *testing.T) {
	ui := newTestUI(t, mines.Params{Size: 3, MineCount: 1})

	ui.handleInput(key('s'))
	ui.handleInput(key('d'))
	assert.Equal(t, mines.Point{Row: 1, Col: 1}, ui.selected())

	for range 5 {
		ui.handleInput(key('d'))
	}
	assert.Equal(t, mines.Point{Row: 1, Col: 2}, ui.selected())

	ui.handleInput(key('w'))
	ui.handleInput(key('w'))
	ui.handleInput(key('a'))
	assert.Equal(t, mines.Point{Row: 0, Col: 1}, ui.selected())
}

func TestFlagAndReveal(t *testing.T) {
	ui := newTestUI(t, mines.Params{Size: 3, MineCount: 0, Flags: 1})

	assert.Nil(t, ui.handleInput(key('f')))
	assert.Equal(t, 0, ui.game.FlagsLeft())
	assert.Equal(t, "F", ui.renderer.board.GetCell(0, 0).Text[1:2])

	ui.handleInput(key('f'))
	assert.Equal(t, 1, ui.game.FlagsLeft())

	ui.handleInput(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	assert.Equal(t, mines.Won, ui.game.State())
	assert.Contains(t, ui.renderer.status.GetText(true), "You won!")

	ui.handleInput(key('r'))
	assert.Equal(t, mines.Unarmed, ui.game.State())
}

func TestUnhandledKeysPassThrough(t *testing.T) {
	ui := newTestUI(t, mines.Params{Size: 3, MineCount: 1})

	down := tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
	assert.Same(t, down, ui.handleInput(down))
	assert.NotNil(t, ui.handleInput(key('z')))
}

func TestCellStyle(t *testing.T) {
	for state, want := range map[mines.CellState]string{
		mines.Unknown:      "#",
		mines.Marked:       "F",
		mines.ExplodedMine: "X",
		mines.RevealedMine: "*",
		0:                  ".",
		3:                  "3",
	} {
		text, _ := cellStyle(state)
		assert.Equal(t, want, text)
	}
}
