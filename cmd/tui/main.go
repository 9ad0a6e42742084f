package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/mines"
)

type UI struct {
	log      *logrus.Logger
	game     *mines.Game
	renderer *Renderer
	app      *tview.Application
}

func NewUI(log *logrus.Logger, game *mines.Game) *UI {
	ui := &UI{
		log:      log,
		game:     game,
		renderer: NewRenderer(),
		app:      tview.NewApplication(),
	}
	ui.renderer.board.SetInputCapture(ui.handleInput)
	ui.app.SetRoot(ui.renderer.layout, true)
	ui.redraw()
	return ui
}

func (ui *UI) redraw() {
	ui.renderer.DrawBoard(ui.game)
	ui.renderer.DrawStatus(ui.game)
}

// step moves the selection by one cell, clamped to the board.
func (ui *UI) step(dRow, dCol int) {
	row, col := ui.renderer.board.GetSelection()
	row = min(max(row+dRow, 0), ui.game.Size-1)
	col = min(max(col+dCol, 0), ui.game.Size-1)
	ui.renderer.board.Select(row, col)
}

func (ui *UI) selected() mines.Point {
	row, col := ui.renderer.board.GetSelection()
	return mines.Point{Row: row, Col: col}
}

func (ui *UI) reveal() {
	p := ui.selected()
	outcome, err := ui.game.Reveal(p)
	if err != nil {
		ui.log.WithError(err).WithField("cell", p).Debug("reveal rejected")
		return
	}
	if outcome != mines.Continue {
		ui.log.WithField("outcome", outcome).Info(ui.game.Summary().String())
	}
}

func (ui *UI) flag() {
	p := ui.selected()
	if _, err := ui.game.Flag(p); err != nil {
		ui.log.WithError(err).WithField("cell", p).Debug("flag rejected")
	}
}

func (ui *UI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		ui.app.Stop()
		return nil
	case tcell.KeyEnter:
		ui.reveal()
	case tcell.KeyCtrlJ: /* ctrl+enter in most terminals */
		ui.flag()
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q', 'Q':
			ui.app.Stop()
			return nil
		case ' ':
			ui.reveal()
		case 'f', 'F':
			ui.flag()
		case 'r', 'R':
			ui.game.Restart()
		case 'w', 'W':
			ui.step(-1, 0)
		case 'a', 'A':
			ui.step(0, -1)
		case 's', 'S':
			ui.step(1, 0)
		case 'd', 'D':
			ui.step(0, 1)
		default:
			return event
		}
	default:
		return event /* arrows are handled by the table */
	}
	ui.redraw()
	return nil
}

// Run blocks until the player quits. The status line is refreshed every
// second so the clock keeps ticking between moves.
func (ui *UI) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ui.app.QueueUpdateDraw(func() {
					ui.renderer.DrawStatus(ui.game)
				})
			}
		}
	}()

	return ui.app.Run()
}

func main() {
	size := flag.Int("size", -1, "board side, defaults to GAME_SIZE or 12")
	mineCount := flag.Int("mines", -1, "number of mines, defaults to GAME_MINES or flags/2")
	flags := flag.Int("flags", -1, "flag budget, defaults to GAME_FLAGS or twice the mines")
	flag.Parse()

	_ = godotenv.Load()

	log, err := config.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	/* the terminal belongs to the board, LOG_FILE still gets everything */
	log.SetOutput(io.Discard)
	mines.Log = log

	params, err := config.NewGameParams()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *size >= 0 {
		params.Size = *size
	}
	if *mineCount >= 0 {
		params.MineCount = *mineCount
		params.Flags = 0
	}
	if *flags >= 0 {
		params.Flags = *flags
	}

	game, err := mines.NewGame(params, nil, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{
		"size":       game.Size,
		"mine_count": game.MineCount,
		"flags":      game.Flags,
	}).Info("starting terminal game")

	if err := NewUI(log, game).Run(context.Background()); err != nil {
		log.WithError(err).Error("terminal ui failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if game.State().Over() {
		fmt.Println(game.Summary())
	}
}
