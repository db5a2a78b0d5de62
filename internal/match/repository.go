package match

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/castlebot/chess-escrow/internal/domain"
)

// Repository archives settled games to Postgres for reporting. The record
// store stays authoritative; the archive is write-only from the engine's
// point of view and an archive failure never fails the action.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveSettlement upserts a terminal game and its payout breakdown.
func (r *Repository) SaveSettlement(ctx context.Context, g *domain.Game, transfers []domain.Transfer, method string) error {
	if r == nil || r.db == nil || g == nil {
		return nil
	}

	payoutsRaw, err := json.Marshal(transfers)
	if err != nil {
		return fmt.Errorf("marshal payouts: %w", err)
	}
	var disbursed uint64
	for _, tr := range transfers {
		disbursed += tr.Amount
	}

	const q = `INSERT INTO settled_games (
	    settlement_id, game_id, white_addr, black_addr,
	    wager, disbursed, status, method, final_fen, payouts,
	    started_at, settled_at
	  ) VALUES (
	    $1,$2,$3,$4,$5,$6,$7,$8,$9,$10::jsonb,$11,$12
	  ) ON CONFLICT (game_id) DO UPDATE SET
	    status=EXCLUDED.status,
	    method=EXCLUDED.method,
	    final_fen=EXCLUDED.final_fen,
	    disbursed=EXCLUDED.disbursed,
	    payouts=EXCLUDED.payouts,
	    settled_at=EXCLUDED.settled_at`

	_, err = r.db.ExecContext(ctx, q,
		uuid.NewString(),
		int64(g.ID),
		g.White, g.Black,
		int64(g.Wager), int64(disbursed),
		string(g.Status), strings.TrimSpace(method), g.FEN, string(payoutsRaw),
		g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settled game %d: %w", g.ID, err)
	}
	return nil
}
