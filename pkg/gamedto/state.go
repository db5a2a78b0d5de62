package gamedto

import "time"

// GameState is the external projection of a single game record.
type GameState struct {
	ID        uint64    `json:"id"`
	FEN       string    `json:"fen"`
	White     string    `json:"white,omitempty"`
	Black     string    `json:"black,omitempty"`
	Turn      uint32    `json:"turn"`
	Status    string    `json:"status"`
	Wager     uint64    `json:"wager"`
	Pot       uint64    `json:"pot"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Payout is a disbursement performed as part of a terminal transition.
type Payout struct {
	To     string `json:"to"`
	Denom  string `json:"denom"`
	Amount uint64 `json:"amount"`
}
