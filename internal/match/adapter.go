package match

import (
	"github.com/castlebot/chess-escrow/internal/domain"
	"github.com/castlebot/chess-escrow/pkg/gamedto"
)

// ToState projects a game record into its external DTO shape.
func ToState(g *domain.Game) *gamedto.GameState {
	if g == nil {
		return nil
	}
	return &gamedto.GameState{
		ID:        g.ID,
		FEN:       g.FEN,
		White:     g.White,
		Black:     g.Black,
		Turn:      g.Turn,
		Status:    string(g.Status),
		Wager:     g.Wager,
		Pot:       g.Pot,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// ToPayouts projects settlement transfers for the external surface.
func ToPayouts(transfers []domain.Transfer) []gamedto.Payout {
	if len(transfers) == 0 {
		return nil
	}
	out := make([]gamedto.Payout, 0, len(transfers))
	for _, tr := range transfers {
		out = append(out, gamedto.Payout{To: tr.To, Denom: tr.Denom, Amount: tr.Amount})
	}
	return out
}
