package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/castlebot/chess-escrow/internal/domain"
)

const (
	keyNextID = "game:next_id"
	keyIndex  = "game:index"
)

// redisstore persists game records in Redis. The id counter lives in a
// single INCR key so allocation is atomic; the creation-order index is an
// append-only list. Records carry no TTL: finished games stay queryable.
type redisstore struct {
	rdb *redis.Client
}

func NewRedis(redisURL string) (Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis url required")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisstore{rdb: rdb}, nil
}

func gameKey(id uint64) string { return "game:" + strconv.FormatUint(id, 10) }

func (s *redisstore) Create(ctx context.Context, g *domain.Game) (uint64, error) {
	id, err := s.rdb.Incr(ctx, keyNextID).Result()
	if err != nil {
		return 0, fmt.Errorf("allocate id: %w", err)
	}
	g.ID = uint64(id)
	raw, err := json.Marshal(g)
	if err != nil {
		return 0, err
	}
	// Record and index commit together.
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, gameKey(g.ID), raw, 0)
	pipe.RPush(ctx, keyIndex, g.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("insert game %d: %w", g.ID, err)
	}
	return g.ID, nil
}

func (s *redisstore) Get(ctx context.Context, id uint64) (*domain.Game, error) {
	raw, err := s.rdb.Get(ctx, gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var g domain.Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode game %d: %w", id, err)
	}
	return &g, nil
}

func (s *redisstore) Put(ctx context.Context, g *domain.Game) error {
	key := gameKey(g.ID)
	// WATCH so a concurrent writer aborts the commit rather than being
	// silently overwritten.
	return s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		if err := tx.Get(ctx, key).Err(); err == redis.Nil {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		raw, err := json.Marshal(g)
		if err != nil {
			return err
		}
		pipe := tx.TxPipeline()
		pipe.Set(ctx, key, raw, 0)
		_, err = pipe.Exec(ctx)
		return err
	}, key)
}

func (s *redisstore) List(ctx context.Context) ([]*domain.Game, error) {
	ids, err := s.rdb.LRange(ctx, keyIndex, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Game, 0, len(ids))
	for _, idStr := range ids {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt index entry %q", idStr)
		}
		g, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *redisstore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
