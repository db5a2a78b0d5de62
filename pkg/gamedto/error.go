package gamedto

// Stable error codes surfaced to callers. The transport layer maps these to
// response codes; the engine never exposes internal error values directly.
const (
	CodeValidation      = "validation_error"
	CodeNotFound        = "not_found"
	CodeZeroWager       = "zero_wager"
	CodeWagerMismatch   = "wager_mismatch"
	CodeWrongDenom      = "wrong_denom"
	CodeSelfJoin        = "self_join"
	CodeGameNotActive   = "game_not_active"
	CodeNotYourTurn     = "not_your_turn"
	CodeNotParticipant  = "not_a_participant"
	CodeIllegalMove     = "illegal_move"
	CodeBadPromotion    = "invalid_promotion"
	CodeNoPromotion     = "missing_promotion"
	CodeInsufficientPot = "insufficient_pot"
	CodeInternal        = "internal_error"
)

type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "game service error"
}
