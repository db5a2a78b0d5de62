// Package match is the game state machine: it validates every incoming
// action against the current game record, delegates chess legality to
// internal/rules and fund movement to internal/escrow, and commits the
// updated record. Any failure aborts the whole action with no state change.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/castlebot/chess-escrow/internal/domain"
	"github.com/castlebot/chess-escrow/internal/escrow"
	"github.com/castlebot/chess-escrow/internal/obslog"
	"github.com/castlebot/chess-escrow/internal/rules"
	"github.com/castlebot/chess-escrow/internal/store"
)

type Manager struct {
	// mu serializes state-changing actions the way the host runtime
	// serializes contract calls. Reads go straight to the store and only
	// ever observe committed records.
	mu     sync.Mutex
	store  store.Store
	ledger *escrow.Ledger
	repo   *Repository
}

func NewManager(st store.Store, ledger *escrow.Ledger) *Manager {
	return &Manager{store: st, ledger: ledger}
}

// AttachRepository wires a database repository for archiving settled games.
func (m *Manager) AttachRepository(r *Repository) {
	if m != nil {
		m.repo = r
	}
}

// CreateGame opens a new game with the sender seated as White and the
// attached funds as both the wager and the creator's stake. The assigned id
// is returned as a first-class value.
func (m *Manager) CreateGame(ctx context.Context, sender string, funds *domain.Coin) (*domain.Game, error) {
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return nil, ErrInvalidSender
	}
	if funds == nil || funds.Amount == 0 {
		return nil, ErrZeroWager
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	g := &domain.Game{
		FEN:       domain.StartFEN,
		White:     sender,
		Turn:      0,
		Status:    domain.StatusPending,
		Wager:     funds.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.ledger.Deposit(g, funds); err != nil {
		return nil, err
	}
	id, err := m.store.Create(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	obslog.L().Info("game_create",
		zap.Uint64("game_id", id),
		zap.String("white", sender),
		zap.Uint64("wager", g.Wager),
		zap.Uint64("pot", g.Pot),
	)
	return g, nil
}

// JoinGame fills the open Black seat of a Pending game when the deposit
// matches the wager. Joining a non-Pending game, or a game the sender already
// plays in, is a spectator/reconnect no-op — except that attached funds are
// rejected rather than retained. The returned bool reports whether a seat was
// actually taken.
func (m *Manager) JoinGame(ctx context.Context, sender string, gameID uint64, funds *domain.Coin) (*domain.Game, bool, error) {
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return nil, false, ErrInvalidSender
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.loadGame(ctx, gameID)
	if err != nil {
		return nil, false, err
	}

	if g.Status != domain.StatusPending {
		if funds != nil && funds.Amount > 0 {
			return nil, false, ErrSpectatorDeposit
		}
		return g, false, nil
	}

	if _, seated := g.Seat(sender); seated {
		return nil, false, ErrSelfJoin
	}
	if err := m.ledger.Deposit(g, funds); err != nil {
		return nil, false, err
	}
	g.Black = sender
	g.Status = domain.StatusActive
	g.UpdatedAt = time.Now().UTC()
	if err := m.store.Put(ctx, g); err != nil {
		return nil, false, fmt.Errorf("commit join: %w", err)
	}
	obslog.L().Info("game_join",
		zap.Uint64("game_id", g.ID),
		zap.String("black", sender),
		zap.Uint64("pot", g.Pot),
	)
	return g, true, nil
}

// MakeMove applies a move for the sender. A move that checkmates or
// stalemates the opponent also settles the pot in the same commit.
func (m *Manager) MakeMove(ctx context.Context, sender string, gameID uint64, from, to, promotion string) (*domain.Game, []domain.Transfer, error) {
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return nil, nil, ErrInvalidSender
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.loadGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if g.Status != domain.StatusActive {
		return nil, nil, ErrGameNotActive
	}
	seat, ok := g.Seat(sender)
	if !ok {
		return nil, nil, ErrNotParticipant
	}
	if seat != sideToMove(g.FEN) {
		return nil, nil, ErrNotYourTurn
	}

	res, err := rules.ApplyMove(g.FEN, from, to, promotion)
	if err != nil {
		return nil, nil, err
	}

	g.FEN = res.NewFEN
	g.Turn++
	g.UpdatedAt = time.Now().UTC()
	switch res.Classification {
	case rules.Checkmate:
		if seat == domain.White {
			g.Status = domain.StatusWhiteWins
		} else {
			g.Status = domain.StatusBlackWins
		}
	case rules.Stalemate:
		g.Status = domain.StatusStalemate
	}

	// Settle drains the pot on the record only; the bank moves funds after
	// the commit, so a failed Put leaves the stored game active with its
	// pot intact and nothing paid out.
	transfers, err := m.ledger.Settle(g)
	if err != nil {
		return nil, nil, fmt.Errorf("settle game %d: %w", g.ID, err)
	}
	if err := m.store.Put(ctx, g); err != nil {
		return nil, nil, fmt.Errorf("commit move: %w", err)
	}
	if err := m.ledger.Disburse(transfers); err != nil {
		return nil, nil, fmt.Errorf("disburse game %d: %w", g.ID, err)
	}
	obslog.L().Info("game_move",
		zap.Uint64("game_id", g.ID),
		zap.String("mover", sender),
		zap.String("uci", res.UCI),
		zap.String("san", res.SAN),
		zap.String("classification", string(res.Classification)),
		zap.String("status", string(g.Status)),
	)
	m.archiveIfSettled(ctx, g, transfers, string(res.Classification))
	return g, transfers, nil
}

// Resign ends an active game in favor of the opponent and pays out the pot.
func (m *Manager) Resign(ctx context.Context, sender string, gameID uint64) (*domain.Game, []domain.Transfer, error) {
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return nil, nil, ErrInvalidSender
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.loadGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if g.Status != domain.StatusActive {
		return nil, nil, ErrGameNotActive
	}
	seat, ok := g.Seat(sender)
	if !ok {
		return nil, nil, ErrNotParticipant
	}
	if seat == domain.White {
		g.Status = domain.StatusWhiteResigned
	} else {
		g.Status = domain.StatusBlackResigned
	}
	g.UpdatedAt = time.Now().UTC()

	transfers, err := m.ledger.Settle(g)
	if err != nil {
		return nil, nil, fmt.Errorf("settle game %d: %w", g.ID, err)
	}
	if err := m.store.Put(ctx, g); err != nil {
		return nil, nil, fmt.Errorf("commit resign: %w", err)
	}
	if err := m.ledger.Disburse(transfers); err != nil {
		return nil, nil, fmt.Errorf("disburse game %d: %w", g.ID, err)
	}
	obslog.L().Info("game_resign",
		zap.Uint64("game_id", g.ID),
		zap.String("resigner", sender),
		zap.String("winner", g.Player(seat.Other())),
		zap.String("status", string(g.Status)),
	)
	m.archiveIfSettled(ctx, g, transfers, "resignation")
	return g, transfers, nil
}

// GetGame returns a single game record. Pure read.
func (m *Manager) GetGame(ctx context.Context, gameID uint64) (*domain.Game, error) {
	return m.loadGame(ctx, gameID)
}

// ListGames returns all games in creation order. Pure read.
func (m *Manager) ListGames(ctx context.Context) ([]*domain.Game, error) {
	return m.store.List(ctx)
}

func (m *Manager) loadGame(ctx context.Context, gameID uint64) (*domain.Game, error) {
	g, err := m.store.Get(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, gameID)
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (m *Manager) archiveIfSettled(ctx context.Context, g *domain.Game, transfers []domain.Transfer, method string) {
	if m.repo == nil || !g.Status.Terminal() {
		return
	}
	if err := m.repo.SaveSettlement(ctx, g, transfers, method); err != nil {
		obslog.L().Error("game_archive_error", zap.Uint64("game_id", g.ID), zap.Error(err))
		return
	}
	obslog.L().Info("game_archive", zap.Uint64("game_id", g.ID), zap.String("status", string(g.Status)))
}

// sideToMove reads the side-to-move field of the position. The FEN is always
// library-produced, so the field is well-formed.
func sideToMove(fen string) domain.Color {
	fields := strings.Fields(fen)
	if len(fields) > 1 && fields[1] == "b" {
		return domain.Black
	}
	return domain.White
}
