package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/store"
)

type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsOpen    wsCommand = "o"
	wsFlag    wsCommand = "f"
	wsRestart wsCommand = "n"
)

var commandNargs = map[wsCommand]int{
	wsNoop:    0,
	wsOpen:    2,
	wsFlag:    2,
	wsRestart: 0,
}

func parsePoint(args []string) (p mines.Point, err error) {
	if p.Row, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("%w: row must be an int", ErrBadCommand)
		return
	}
	if p.Col, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("%w: col must be an int", ErrBadCommand)
		return
	}
	return
}

// execute runs a single command line against game. Blank lines do nothing.
func execute(game *mines.Game, line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}

	cmd, args := wsCommand(tokens[0]), tokens[1:]
	nargs, ok := commandNargs[cmd]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrBadCommand, tokens[0])
	}
	if nargs != len(args) {
		return fmt.Errorf("%w: %q takes %d arguments", ErrBadCommand, cmd, nargs)
	}

	switch cmd {
	case wsOpen:
		p, err := parsePoint(args)
		if err != nil {
			return err
		}
		_, err = game.Reveal(p)
		return err
	case wsFlag:
		p, err := parsePoint(args)
		if err != nil {
			return err
		}
		_, err = game.Flag(p)
		return err
	case wsRestart:
		game.Restart()
	}
	return nil
}

type wsReply struct {
	*GameSessionDTO
	Error string `json:"error,omitempty"`
}

func (g *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := g.authorize(r, id); err != nil {
		sendError(w, g.log, err)
		return
	}

	err := g.store.With(r.Context(), id, func(*store.Session) error { return nil })
	if err != nil {
		g.sendSessionError(w, r, id, err)
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.log.WithError(err).Error("unable to upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(g.ws.ReadLimit)

	log := g.log.WithField("game_session_id", id)
	log.Debug("established ws connection")

	if err := g.runGameLoop(r.Context(), conn, id, log); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return
		}
		log.WithError(err).Warn("abnormal ws break")
	}
}

// runGameLoop answers every text message with the session state. A message
// may hold several commands, one per line; processing stops at the first
// failing command. Once the game is over only a restart is carried out.
func (g *GameHandler) runGameLoop(
	ctx context.Context, conn *websocket.Conn, id string, log logrus.FieldLogger,
) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		text := strings.TrimSpace(string(buf))
		log.Debugf("\t> %s", text)

		var reply wsReply
		err = g.store.With(ctx, id, func(s *store.Session) error {
			for line := range commandLines(text) {
				if line == "" {
					continue
				}
				if s.Game.State().Over() && line != string(wsRestart) {
					continue
				}
				if err := execute(s.Game, line); err != nil {
					if statusFor(err) != http.StatusBadRequest {
						return err
					}
					reply.Error = err.Error()
					break
				}
			}
			reply.GameSessionDTO = NewGameSessionDTO(s)
			return nil
		})
		gone := errors.Is(err, store.ErrNotFound)
		if gone {
			reply.Error = err.Error()
		} else if err != nil {
			return err
		}

		if err := conn.SetWriteDeadline(time.Now().Add(g.ws.WriteTimeout)); err != nil {
			return err
		}
		if err := conn.WriteJSON(reply); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
		log.Debug("\t< <session data>")

		if gone {
			return nil
		}
	}
}
