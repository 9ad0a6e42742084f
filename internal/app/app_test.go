package app

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	mrand "math/rand/v2"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/store"
)

func newTestConfig(t *testing.T) *Config {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	j := config.NewJWTFromKeys(key, &key.PublicKey, time.Hour)
	cookies, err := config.NewCookies(j)
	require.NoError(t, err)
	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	return &Config{
		Addr:      "127.0.0.1:0",
		BasePath:  "/api",
		Params:    mines.Params{Size: 3, MineCount: 0, Flags: 2},
		TTL:       time.Hour,
		JWT:       j,
		Cookies:   cookies,
		WebSocket: ws,
	}
}

func TestRoutes(t *testing.T) {
	log, hook := test.NewNullLogger()
	a := New(log, newTestConfig(t), store.NewMemory(nil), mrand.New(mrand.NewPCG(1, 2)))
	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	res, err := http.Post(srv.URL+"/api/game", "", nil)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created struct {
		ID     string `json:"game_session_id"`
		Ticket string `json:"ticket"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))

	/* the cookie pair alone authorizes a move */
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/game/"+created.ID+"/move?move=open&row=0&col=0", nil)
	require.NoError(t, err)
	for _, c := range res.Cookies() {
		req.AddCookie(c)
	}
	moved, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer moved.Body.Close()
	assert.Equal(t, http.StatusOK, moved.StatusCode)

	var body struct {
		State   string `json:"state"`
		Outcome string `json:"outcome"`
	}
	require.NoError(t, json.NewDecoder(moved.Body).Decode(&body))
	assert.Equal(t, "won", body.State)
	assert.Equal(t, "cleared", body.Outcome)

	missing, err := http.Get(srv.URL + "/game/" + created.ID)
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "handled request", entry.Message)
	assert.Equal(t, http.StatusNotFound, entry.Data["status_code"])
}

func TestServeSweepsAndShutsDown(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := newTestConfig(t)
	cfg.TTL = time.Millisecond

	st := store.NewMemory(nil)
	a := New(log, cfg, st, nil)
	a.sweepEvery = 5 * time.Millisecond

	game, err := mines.NewGame(cfg.Params, nil, nil)
	require.NoError(t, err)
	_, err = st.Create(context.Background(), game)
	require.NoError(t, err)

	listener, err := net.Listen("tcp", cfg.Addr)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, listener) }()

	require.Eventually(t, func() bool { return st.Len() == 0 }, time.Second, 5*time.Millisecond)

	res, err := http.Post("http://"+listener.Addr().String()+"/api/game", "", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
