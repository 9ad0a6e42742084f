package mines

import "errors"

var (
	ErrInvalidSize      = errors.New("board size must be positive")
	ErrInvalidMineCount = errors.New("mine count must be non-negative and less than the number of cells")
	ErrOutOfBounds      = errors.New("cell is out of bounds")
	ErrAlreadyArmed     = errors.New("mines are already placed")
	ErrNotArmed         = errors.New("mines are not placed yet")
	ErrAlreadyRevealed  = errors.New("cell is already revealed")
	ErrGameOver         = errors.New("game is over")
	ErrNoFlagsLeft      = errors.New("no flags left")
	ErrInvalidFlags     = errors.New("flag budget must be non-negative")
)
