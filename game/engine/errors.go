package engine

import "errors"

// Movement and setup errors. Movement rejections (null/blocked/dead) are
// expected outcomes the callers branch on with errors.Is; layout errors are
// fatal to match creation.
var (
	// ErrNullCell rejects a move whose target is off the board.
	ErrNullCell = errors.New("cell does not exist")

	// ErrBlockedCell rejects a move whose target cannot be entered.
	ErrBlockedCell = errors.New("cell is blocked")

	// ErrUserNotDefined reports a player id unknown to the board.
	ErrUserNotDefined = errors.New("user not defined")

	// ErrInvalidItemType reports an item type outside the known set.
	ErrInvalidItemType = errors.New("invalid item type")

	// ErrFruitTypeNotDefined reports a fruit type outside the known set.
	ErrFruitTypeNotDefined = errors.New("fruit type not defined")

	// ErrInvalidLayout reports a malformed level layout.
	ErrInvalidLayout = errors.New("invalid layout")

	// ErrPlayerDead rejects a move request for a dead player.
	ErrPlayerDead = errors.New("player is dead")
)
