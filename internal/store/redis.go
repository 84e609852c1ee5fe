package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/freeeve/diplomacy-adjudicator/pkg/diplomacy"
)

// Redis persists only the most recent phase outcome per game as a DFEN
// snapshot, grounded on the teacher's redis.Client key-pattern style
// (game:<id>:state). It trades durability for the low latency a
// frequently-polled "what's the board right now" read needs.
type Redis struct {
	rdb *redis.Client
}

// NewRedis creates a Redis-backed OrderStore from a connection URL.
func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func snapshotKey(gameID string) string { return "game:" + gameID + ":snapshot" }

// SaveOrders overwrites the game's snapshot key with the post-resolution
// board state. Submitted orders themselves aren't retained by this backend.
func (r *Redis) SaveOrders(ctx context.Context, gameID string, gs *diplomacy.GameState, _ diplomacy.Orders, _ diplomacy.PhaseResult) error {
	return r.rdb.Set(ctx, snapshotKey(gameID), diplomacy.EncodeDFEN(gs), 0).Err()
}

// LatestSnapshot retrieves the last-saved DFEN snapshot for a game, or ""
// if none has been recorded yet.
func (r *Redis) LatestSnapshot(ctx context.Context, gameID string) (string, error) {
	v, err := r.rdb.Get(ctx, snapshotKey(gameID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get snapshot: %w", err)
	}
	return v, nil
}
