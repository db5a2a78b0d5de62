package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/castlebot/chess-escrow/internal/domain"
)

func newRedisStore(t *testing.T) Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	s, err := NewRedis(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("store.NewRedis: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemory(),
		"redis":  newRedisStore(t),
	}
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var last uint64
			for i := 0; i < 5; i++ {
				g := &domain.Game{FEN: domain.StartFEN, Status: domain.StatusPending}
				id, err := s.Create(ctx, g)
				if err != nil {
					t.Fatalf("Create: %v", err)
				}
				if id <= last {
					t.Fatalf("id %d not greater than previous %d", id, last)
				}
				if g.ID != id {
					t.Fatalf("Create did not publish id on game: %d vs %d", g.ID, id)
				}
				last = id
			}
		})
	}
}

func TestGetPutRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g := &domain.Game{
				FEN:    domain.StartFEN,
				White:  "alice",
				Wager:  100000,
				Pot:    100000,
				Status: domain.StatusPending,
			}
			id, err := s.Create(ctx, g)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			got, err := s.Get(ctx, id)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.White != "alice" || got.Pot != 100000 || got.Status != domain.StatusPending {
				t.Fatalf("round trip mismatch: %+v", got)
			}

			got.Black = "bob"
			got.Pot = 200000
			got.Status = domain.StatusActive
			if err := s.Put(ctx, got); err != nil {
				t.Fatalf("Put: %v", err)
			}
			again, err := s.Get(ctx, id)
			if err != nil {
				t.Fatalf("Get after Put: %v", err)
			}
			if again.Black != "bob" || again.Pot != 200000 || again.Status != domain.StatusActive {
				t.Fatalf("update not visible: %+v", again)
			}
		})
	}
}

func TestGetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestPutMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			g := &domain.Game{ID: 42, FEN: domain.StartFEN}
			if err := s.Put(context.Background(), g); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestListPreservesCreationOrder(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 4; i++ {
				g := &domain.Game{FEN: domain.StartFEN, White: fmt.Sprintf("p%d", i), Status: domain.StatusPending}
				if _, err := s.Create(ctx, g); err != nil {
					t.Fatalf("Create: %v", err)
				}
			}
			games, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(games) != 4 {
				t.Fatalf("expected 4 games, got %d", len(games))
			}
			for i := 1; i < len(games); i++ {
				if games[i].ID <= games[i-1].ID {
					t.Fatalf("list out of order: %d after %d", games[i].ID, games[i-1].ID)
				}
			}
		})
	}
}

func TestStoreCopiesRecords(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	g := &domain.Game{FEN: domain.StartFEN, White: "alice", Status: domain.StatusPending}
	id, err := s.Create(ctx, g)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Mutating the caller's copy must not leak into the store.
	g.White = "mallory"
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.White != "alice" {
		t.Fatalf("store shares memory with caller: %+v", got)
	}
}
