// Package store persists game records keyed by a monotonically increasing id
// and preserves creation order for listing.
package store

import (
	"context"
	"errors"

	"github.com/castlebot/chess-escrow/internal/domain"
)

var ErrNotFound = errors.New("game not found")

// Store is the game record store. Create assigns the next unused id
// atomically with insertion; ids are never reused. List returns all games in
// ascending id order.
type Store interface {
	Create(ctx context.Context, g *domain.Game) (uint64, error)
	Get(ctx context.Context, id uint64) (*domain.Game, error)
	Put(ctx context.Context, g *domain.Game) error
	List(ctx context.Context) ([]*domain.Game, error)
	Close() error
}
