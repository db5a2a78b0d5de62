package domain

import "time"

// Color identifies a chess side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Other returns the opposing side.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// Status represents a game lifecycle state. The five non-Pending/Active
// values are terminal: once reached, board, seats and pot are frozen.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusActive        Status = "ACTIVE"
	StatusStalemate     Status = "STALEMATE"
	StatusWhiteWins     Status = "WHITE_WINS"
	StatusBlackWins     Status = "BLACK_WINS"
	StatusWhiteResigned Status = "WHITE_RESIGNED"
	StatusBlackResigned Status = "BLACK_RESIGNED"
)

// Terminal reports whether no further move or resignation is possible.
func (s Status) Terminal() bool {
	switch s {
	case StatusPending, StatusActive:
		return false
	}
	return true
}

// Winner returns the side a terminal status awards the pot to, and false for
// statuses with no single winner (stalemate, non-terminal states).
func (s Status) Winner() (Color, bool) {
	switch s {
	case StatusWhiteWins, StatusBlackResigned:
		return White, true
	case StatusBlackWins, StatusWhiteResigned:
		return Black, true
	}
	return "", false
}

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Game is the persisted state of one wagered match. White and Black hold
// participant addresses; an empty string means the seat is open.
type Game struct {
	ID        uint64    `json:"id"`
	FEN       string    `json:"fen"`
	White     string    `json:"white,omitempty"`
	Black     string    `json:"black,omitempty"`
	Turn      uint32    `json:"turn"`
	Status    Status    `json:"status"`
	Wager     uint64    `json:"wager"`
	Pot       uint64    `json:"pot"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Seat returns the color held by addr, or false if addr is not seated.
func (g *Game) Seat(addr string) (Color, bool) {
	switch {
	case addr != "" && g.White == addr:
		return White, true
	case addr != "" && g.Black == addr:
		return Black, true
	}
	return "", false
}

// Player returns the address seated at color.
func (g *Game) Player(c Color) string {
	if c == White {
		return g.White
	}
	return g.Black
}

// SideToMove derives the side to move from the denormalized turn counter.
// The FEN field remains the source of truth; the two are kept in lockstep.
func (g *Game) SideToMove() Color {
	if g.Turn%2 == 0 {
		return White
	}
	return Black
}

// Coin is a single-denomination fund amount attached to an action.
type Coin struct {
	Denom  string `json:"denom"`
	Amount uint64 `json:"amount"`
}

// Transfer is an outbound payment instruction produced by a settlement.
type Transfer struct {
	To     string `json:"to"`
	Denom  string `json:"denom"`
	Amount uint64 `json:"amount"`
}
