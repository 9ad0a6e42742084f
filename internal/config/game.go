package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vancomm/minefield/internal/mines"
)

func lookupInt(key string, fallback int) (int, error) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unable to convert %s to int: %w", key, err)
	}
	return n, nil
}

// NewGameParams reads the default board from GAME_SIZE, GAME_MINES and
// GAME_FLAGS. Unset values fall back to [mines.DefaultParams].
func NewGameParams() (mines.Params, error) {
	params := mines.DefaultParams()
	var err error

	if params.Size, err = lookupInt("GAME_SIZE", params.Size); err != nil {
		return params, err
	}
	if params.MineCount, err = lookupInt("GAME_MINES", params.MineCount); err != nil {
		return params, err
	}
	if params.Flags, err = lookupInt("GAME_FLAGS", 2*params.MineCount); err != nil {
		return params, err
	}

	if err := params.Validate(); err != nil {
		return params, fmt.Errorf("invalid game config: %w", err)
	}
	return params, nil
}

// SessionTTL is how long an idle game session is kept around.
func SessionTTL() (time.Duration, error) {
	s, ok := os.LookupEnv("GAME_SESSION_TTL")
	if !ok {
		return time.Hour, nil
	}
	ttl, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("unable to parse GAME_SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("GAME_SESSION_TTL must be positive, got %s", ttl)
	}
	return ttl, nil
}
