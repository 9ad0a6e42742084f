package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/store"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type CreateNewGameDTO struct {
	Size      int `schema:"size"`
	MineCount int `schema:"mine_count"`
	Flags     int `schema:"flags"`
}

// ParseCreateNewGameDTO decodes the board params, falling back to defaults
// for anything missing. A custom mine count without a flag count gets twice
// as many flags as mines.
func ParseCreateNewGameDTO(src url.Values, defaults mines.Params) (mines.Params, error) {
	dto := CreateNewGameDTO(defaults)
	if src.Has("mine_count") {
		dto.Flags = 0
	}
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.Params{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}
	params := mines.Params(dto).Normalize()
	return params, params.Validate()
}

type PositionDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParsePosition(src url.Values) (mines.Point, error) {
	var dto PositionDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.Point{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}
	return mines.Point(dto), nil
}

type GameMove uint8

const (
	Open GameMove = iota + 1
	Flag
)

func (m GameMove) String() string {
	switch m {
	case Open:
		return "open"
	case Flag:
		return "flag"
	default:
		return fmt.Sprintf("GameMove(%d)", m)
	}
}

var (
	ErrBadMove    = errors.New("move must be one of 'open', 'flag'")
	ErrForbidden  = errors.New("no ticket for this game")
	ErrBadCommand = errors.New("bad command")
	ErrBadQuery   = errors.New("bad query")
)

func ParseGameMove(s string) (GameMove, error) {
	switch strings.ToLower(s) {
	case "open":
		return Open, nil
	case "flag":
		return Flag, nil
	default:
		return 0, ErrBadMove
	}
}

type GameSessionDTO struct {
	GameSessionID string            `json:"game_session_id"`
	Grid          mines.Grid        `json:"grid"`
	Size          int               `json:"size"`
	MineCount     int               `json:"mine_count"`
	FlagsLeft     int               `json:"flags_left"`
	Opened        int               `json:"opened"`
	Safe          int               `json:"safe"`
	State         mines.BoardState  `json:"state"`
	Outcome       *mines.Outcome    `json:"outcome,omitempty"`
	Visibility    *mines.Visibility `json:"visibility,omitempty"`
	ElapsedMs     int64             `json:"elapsed_ms"`
	StartedAt     *int64            `json:"started_at,omitempty"`
	EndedAt       *int64            `json:"ended_at,omitempty"`
	Ticket        string            `json:"ticket,omitempty"`
}

// NewGameSessionDTO must be called while holding the session.
func NewGameSessionDTO(s *store.Session) *GameSessionDTO {
	g := s.Game
	summary := g.Summary()
	dto := &GameSessionDTO{
		GameSessionID: s.ID,
		Grid:          g.Snapshot(),
		Size:          g.Size,
		MineCount:     g.MineCount,
		FlagsLeft:     summary.FlagsLeft,
		Opened:        summary.Opened,
		Safe:          summary.Safe,
		State:         summary.State,
		ElapsedMs:     summary.Elapsed.Milliseconds(),
	}
	if t, ok := g.StartedAt(); ok {
		ms := t.UnixMilli()
		dto.StartedAt = &ms
	}
	if t, ok := g.EndedAt(); ok {
		ms := t.UnixMilli()
		dto.EndedAt = &ms
	}
	return dto
}
