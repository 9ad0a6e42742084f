package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/store"
)

type Config struct {
	Addr      string
	BasePath  string
	Params    mines.Params
	TTL       time.Duration
	JWT       *config.JWT
	Cookies   *config.Cookies
	WebSocket *config.WebSocket
}

// ConfigFromEnv gathers everything the service needs from the environment.
func ConfigFromEnv() (*Config, error) {
	params, err := config.NewGameParams()
	if err != nil {
		return nil, err
	}

	ttl, err := config.SessionTTL()
	if err != nil {
		return nil, err
	}

	jwt, err := config.NewJWT()
	if err != nil {
		return nil, fmt.Errorf("unable to read jwt config: %w", err)
	}

	cookies, err := config.NewCookies(jwt)
	if err != nil {
		return nil, fmt.Errorf("unable to read cookies config: %w", err)
	}

	ws, err := config.NewWebSocket()
	if err != nil {
		return nil, fmt.Errorf("unable to read ws config: %w", err)
	}

	return &Config{
		Addr:      config.Port(),
		BasePath:  config.BasePath(),
		Params:    params,
		TTL:       ttl,
		JWT:       jwt,
		Cookies:   cookies,
		WebSocket: ws,
	}, nil
}

type App struct {
	log        *logrus.Logger
	cfg        *Config
	router     *http.ServeMux
	store      store.Store
	rnd        *rand.Rand
	sweepEvery time.Duration
}

// New wires the routes. A nil rnd seeds a fresh generator.
func New(log *logrus.Logger, cfg *Config, st store.Store, rnd *rand.Rand) *App {
	if rnd == nil {
		rnd = mines.NewRand()
	}

	app := &App{
		log:        log,
		cfg:        cfg,
		router:     http.NewServeMux(),
		store:      st,
		rnd:        rnd,
		sweepEvery: max(cfg.TTL/4, time.Second),
	}
	app.loadRoutes()

	return app
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.log),
		middleware.Cors(),
		middleware.Ticket(a.log, a.cfg.Cookies),
	)
}

// Start serves until ctx is cancelled or the listener fails, dropping idle
// sessions along the way.
func (a *App) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return fmt.Errorf("unable to listen: %w", err)
	}
	return a.Serve(ctx, listener)
}

func (a *App) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: time.Second * 15,
		IdleTimeout:       time.Second * 60,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithField("addr", listener.Addr().String()).Info("server listening")
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.sweep(gCtx)
	})

	return g.Wait()
}

func (a *App) sweep(ctx context.Context) error {
	ticker := time.NewTicker(a.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := a.store.Sweep(a.cfg.TTL); n > 0 {
				a.log.WithFields(logrus.Fields{
					"dropped": n,
					"live":    a.store.Len(),
				}).Info("swept idle game sessions")
			}
		}
	}
}
