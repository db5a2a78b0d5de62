package match

import "errors"

// Action-level failures. Chess-legality failures come from internal/rules and
// fund failures from internal/escrow; the transport layer maps all of them to
// stable codes.
var (
	ErrNotFound         = errors.New("game not found")
	ErrZeroWager        = errors.New("wager must be positive")
	ErrGameNotActive    = errors.New("game is not active")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrNotParticipant   = errors.New("not a participant")
	ErrSelfJoin         = errors.New("cannot join your own game")
	ErrSpectatorDeposit = errors.New("spectator join must not carry funds")
	ErrInvalidSender    = errors.New("sender address required")
)
