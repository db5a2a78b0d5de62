package escrow

import (
	"sync"

	"github.com/castlebot/chess-escrow/internal/domain"
)

// MemoryBank is a single-node Bank that credits balances in memory. It backs
// tests and standalone runs; a host-chain deployment supplies its own Bank.
type MemoryBank struct {
	mu       sync.Mutex
	balances map[string]uint64
	sent     []domain.Transfer
}

func NewMemoryBank() *MemoryBank {
	return &MemoryBank{balances: make(map[string]uint64)}
}

func (b *MemoryBank) Send(to string, coin domain.Coin) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[to] += coin.Amount
	b.sent = append(b.sent, domain.Transfer{To: to, Denom: coin.Denom, Amount: coin.Amount})
	return nil
}

// Balance returns the total credited to addr.
func (b *MemoryBank) Balance(addr string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[addr]
}

// Sent returns a copy of all transfers performed, in order.
func (b *MemoryBank) Sent() []domain.Transfer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Transfer(nil), b.sent...)
}
