package handlers

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/store"
)

type GameHandler struct {
	log     *logrus.Logger
	store   store.Store
	jwt     *config.JWT
	cookies *config.Cookies
	ws      *config.WebSocket
	params  mines.Params

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewGameHandler(
	log *logrus.Logger,
	st store.Store,
	jwt *config.JWT,
	cookies *config.Cookies,
	ws *config.WebSocket,
	params mines.Params,
	rnd *rand.Rand,
) *GameHandler {
	if rnd == nil {
		rnd = mines.NewRand()
	}
	return &GameHandler{
		log:     log,
		store:   st,
		jwt:     jwt,
		cookies: cookies,
		ws:      ws,
		params:  params,
		rnd:     rnd,
	}
}

// gameRand derives an independent generator for one game, since a
// *rand.Rand may not be shared between sessions.
func (g *GameHandler) gameRand() *rand.Rand {
	g.rndMu.Lock()
	defer g.rndMu.Unlock()
	return rand.New(rand.NewPCG(g.rnd.Uint64(), g.rnd.Uint64()))
}

// authorize checks that the request carries a ticket for session id.
func (g *GameHandler) authorize(r *http.Request, id string) error {
	claims, ok := middleware.GameClaims(r.Context())
	if !ok || claims.GameID != id {
		return ErrForbidden
	}
	return nil
}

// sendSessionError answers a failed session lookup. A ticket naming a session
// that is gone is cleared, since it can never be used again.
func (g *GameHandler) sendSessionError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		if claims, ok := middleware.GameClaims(r.Context()); ok && claims.GameID == id {
			g.cookies.Clear(w)
		}
	}
	sendError(w, g.log, err)
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	params, err := ParseCreateNewGameDTO(r.URL.Query(), g.params)
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	game, err := mines.NewGame(params, g.gameRand(), nil)
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	session, err := g.store.Create(r.Context(), game)
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	ticket, err := g.jwt.IssueTicket(session.ID)
	if err != nil {
		_ = g.store.Delete(r.Context(), session.ID)
		sendError(w, g.log, err)
		return
	}
	if err := g.cookies.Refresh(w, ticket); err != nil {
		_ = g.store.Delete(r.Context(), session.ID)
		sendError(w, g.log, err)
		return
	}

	var dto *GameSessionDTO
	err = g.store.With(r.Context(), session.ID, func(s *store.Session) error {
		dto = NewGameSessionDTO(s)
		return nil
	})
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	dto.Ticket = ticket

	g.log.WithFields(logrus.Fields{
		"game_session_id": session.ID,
		"size":            params.Size,
		"mine_count":      params.MineCount,
		"flags":           params.Flags,
	}).Debug("created game session")

	sendJSONOrLog(w, g.log, http.StatusCreated, dto)
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var dto *GameSessionDTO
	id := r.PathValue("id")
	err := g.store.With(r.Context(), id, func(s *store.Session) error {
		dto = NewGameSessionDTO(s)
		return nil
	})
	if err != nil {
		g.sendSessionError(w, r, id, err)
		return
	}

	sendJSONOrLog(w, g.log, http.StatusOK, dto)
}

func (g *GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := g.authorize(r, id); err != nil {
		sendError(w, g.log, err)
		return
	}

	query := r.URL.Query()

	move, err := ParseGameMove(query.Get("move"))
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	pos, err := ParsePosition(query)
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	var dto *GameSessionDTO
	err = g.store.With(r.Context(), id, func(s *store.Session) error {
		var (
			outcome    mines.Outcome
			visibility mines.Visibility
			err        error
		)
		switch move {
		case Open:
			outcome, err = s.Game.Reveal(pos)
		case Flag:
			visibility, err = s.Game.Flag(pos)
		}
		if err != nil {
			return err
		}

		dto = NewGameSessionDTO(s)
		switch move {
		case Open:
			dto.Outcome = &outcome
		case Flag:
			dto.Visibility = &visibility
		}
		return nil
	})
	if err != nil {
		g.sendSessionError(w, r, id, err)
		return
	}

	g.log.WithFields(logrus.Fields{
		"game_session_id": id,
		"move":            move,
		"cell":            pos,
		"state":           dto.State,
	}).Debug("applied move")

	sendJSONOrLog(w, g.log, http.StatusOK, dto)
}

func (g *GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := g.authorize(r, id); err != nil {
		sendError(w, g.log, err)
		return
	}

	var dto *GameSessionDTO
	err := g.store.With(r.Context(), id, func(s *store.Session) error {
		s.Game.Restart()
		dto = NewGameSessionDTO(s)
		return nil
	})
	if err != nil {
		g.sendSessionError(w, r, id, err)
		return
	}

	sendJSONOrLog(w, g.log, http.StatusOK, dto)
}
