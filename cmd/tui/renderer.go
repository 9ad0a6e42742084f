package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/vancomm/minefield/internal/mines"
)

var numberColors = [...]tcell.Color{
	1: tcell.ColorBlue,
	2: tcell.ColorGreen,
	3: tcell.ColorRed,
	4: tcell.ColorDarkBlue,
	5: tcell.ColorMaroon,
	6: tcell.ColorTeal,
	7: tcell.ColorWhite,
	8: tcell.ColorGray,
}

type Renderer struct {
	board  *tview.Table
	status *tview.TextView
	layout *tview.Flex
}

func NewRenderer() *Renderer {
	board := tview.NewTable().
		SetSelectable(true, true).
		SetBorders(false)
	board.SetBorder(true).SetTitle(" minefield ")

	status := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	help := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText("arrows/wasd move · enter/space open · f flag · r restart · q quit")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(board, 0, 1, true).
		AddItem(status, 1, 0, false).
		AddItem(help, 1, 0, false)

	return &Renderer{board: board, status: status, layout: layout}
}

func cellStyle(s mines.CellState) (string, tcell.Color) {
	switch {
	case s == mines.Unknown:
		return "#", tcell.ColorDarkGray
	case s == mines.Marked:
		return "F", tcell.ColorYellow
	case s == mines.ExplodedMine:
		return "X", tcell.ColorRed
	case s == mines.RevealedMine:
		return "*", tcell.ColorOrangeRed
	case s == 0:
		return ".", tcell.ColorDefault
	default:
		return s.String(), numberColors[s]
	}
}

func (r *Renderer) DrawBoard(game *mines.Game) {
	grid := game.Snapshot()
	for i, s := range grid {
		text, color := cellStyle(s)
		r.board.SetCell(i/game.Size, i%game.Size, tview.NewTableCell(" "+text+" ").
			SetAlign(tview.AlignCenter).
			SetTextColor(color))
	}
}

func (r *Renderer) DrawStatus(game *mines.Game) {
	summary := game.Summary()
	switch {
	case summary.Won():
		r.status.SetText(fmt.Sprintf("[green]You won![-] %s · r to play again", summary))
	case summary.Over():
		r.status.SetText(fmt.Sprintf("[red]Boom.[-] %s · r to play again", summary))
	default:
		r.status.SetText(fmt.Sprintf(
			"flags %d · %s · %d/%d opened",
			summary.FlagsLeft, mines.FormatElapsed(summary.Elapsed), summary.Opened, summary.Safe,
		))
	}
}
