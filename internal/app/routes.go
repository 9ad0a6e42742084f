package app

import (
	"github.com/vancomm/minefield/internal/handlers"
)

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.log,
		a.store,
		a.cfg.JWT,
		a.cfg.Cookies,
		a.cfg.WebSocket,
		a.cfg.Params,
		a.rnd,
	)

	base := a.cfg.BasePath
	a.router.HandleFunc("POST "+base+"/game", game.NewGame)
	a.router.HandleFunc("GET "+base+"/game/{id}", game.Fetch)
	a.router.HandleFunc("POST "+base+"/game/{id}/move", game.MakeAMove)
	a.router.HandleFunc("POST "+base+"/game/{id}/restart", game.Restart)
	a.router.HandleFunc("GET "+base+"/game/{id}/connect", game.ConnectWS)
}
