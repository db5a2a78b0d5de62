// Package escrow owns the pot attached to a game: deposits into it during
// create/join transitions and disburses it exactly once at a terminal
// transition. All amounts are in the smallest indivisible unit of the
// configured denomination.
package escrow

import (
	"errors"
	"fmt"
	"math"

	"github.com/castlebot/chess-escrow/internal/domain"
)

var (
	ErrNoFunds         = errors.New("no funds sent")
	ErrWrongDenom      = errors.New("wrong denomination")
	ErrWagerMismatch   = errors.New("deposit does not match wager")
	ErrInsufficientPot = errors.New("requested amounts exceed pot")
)

// MaxWager is the largest single stake: two of them must fit in the pot
// without wrapping uint64.
const MaxWager = math.MaxUint64 / 2

// Bank moves funds at the host boundary. Deposits into escrow are implicit in
// the host's fund-transfer mechanism; Send pays escrowed funds back out.
type Bank interface {
	Send(to string, coin domain.Coin) error
}

// Ledger scopes pot accounting to one denomination.
type Ledger struct {
	denom string
	bank  Bank
}

func NewLedger(denom string, bank Bank) *Ledger {
	return &Ledger{denom: denom, bank: bank}
}

func (l *Ledger) Denom() string { return l.denom }

// Deposit credits funds to the game's pot. The amount must equal the game's
// wager exactly; partial or excess stakes are rejected.
func (l *Ledger) Deposit(g *domain.Game, funds *domain.Coin) error {
	if funds == nil || funds.Amount == 0 {
		return ErrNoFunds
	}
	if funds.Denom != l.denom {
		return fmt.Errorf("%w: want %s, got %s", ErrWrongDenom, l.denom, funds.Denom)
	}
	if funds.Amount != g.Wager {
		return fmt.Errorf("%w: wager is %d, got %d", ErrWagerMismatch, g.Wager, funds.Amount)
	}
	if funds.Amount > MaxWager {
		return fmt.Errorf("%w: wager exceeds maximum stake %d", ErrWagerMismatch, uint64(MaxWager))
	}
	// Amount equals the wager here, so a pot above one wager means both
	// stakes are already in.
	if g.Pot > g.Wager {
		return fmt.Errorf("%w: game already fully staked", ErrWagerMismatch)
	}
	g.Pot += funds.Amount
	return nil
}

// Payout removes the entire pot from the record in favor of the given
// transfers. The transfer total must equal the pot exactly so that no funds
// are created or stranded. No money moves here; the caller persists the
// drained record first and then executes the transfers with Disburse.
func (l *Ledger) Payout(g *domain.Game, transfers []domain.Transfer) error {
	var total uint64
	for _, tr := range transfers {
		total += tr.Amount
	}
	if total > g.Pot {
		return fmt.Errorf("%w: pot=%d requested=%d", ErrInsufficientPot, g.Pot, total)
	}
	if total != g.Pot {
		return fmt.Errorf("%w: payout must drain pot, pot=%d requested=%d", ErrInsufficientPot, g.Pot, total)
	}
	g.Pot = 0
	return nil
}

// Settle computes the payout owed by a terminal status and drains the pot on
// the record.
//
// Checkmate and resignation pay the full pot to the winner. Stalemate splits
// the pot evenly; an odd smallest-unit remainder goes to White so the rule
// stays deterministic and independent of who moved last.
//
// The transfers are returned unexecuted. Committing the settled record and
// only then calling Disburse keeps a failed commit from paying out a pot the
// stored game still holds.
func (l *Ledger) Settle(g *domain.Game) ([]domain.Transfer, error) {
	if !g.Status.Terminal() {
		return nil, nil
	}
	if g.Pot == 0 {
		return nil, nil
	}

	var transfers []domain.Transfer
	if winner, ok := g.Status.Winner(); ok {
		transfers = []domain.Transfer{
			{To: g.Player(winner), Denom: l.denom, Amount: g.Pot},
		}
	} else {
		half := g.Pot / 2
		rem := g.Pot - 2*half
		transfers = []domain.Transfer{
			{To: g.White, Denom: l.denom, Amount: half + rem},
			{To: g.Black, Denom: l.denom, Amount: half},
		}
	}
	if err := l.Payout(g, transfers); err != nil {
		return nil, err
	}
	return transfers, nil
}

// Disburse executes previously settled transfers against the bank.
func (l *Ledger) Disburse(transfers []domain.Transfer) error {
	for _, tr := range transfers {
		if err := l.bank.Send(tr.To, domain.Coin{Denom: tr.Denom, Amount: tr.Amount}); err != nil {
			return fmt.Errorf("bank send to %s: %w", tr.To, err)
		}
	}
	return nil
}
