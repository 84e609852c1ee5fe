package store

import (
	"context"
	"sync"

	"github.com/freeeve/diplomacy-adjudicator/pkg/diplomacy"
)

// Cache wraps an OrderStore with an in-process copy of each game's
// last-resolved state, so a caller driving several phases back-to-back
// (e.g. the adjudicate CLI replaying a season) doesn't round-trip through
// the backing store just to read back what it wrote.
type Cache struct {
	backing OrderStore

	mu   sync.RWMutex
	last map[string]*diplomacy.GameState
}

// NewCache wraps backing with a last-snapshot cache. backing may be nil,
// in which case Cache behaves as a pure in-memory store.
func NewCache(backing OrderStore) *Cache {
	if backing == nil {
		backing = NopStore{}
	}
	return &Cache{backing: backing, last: make(map[string]*diplomacy.GameState)}
}

// SaveOrders forwards to the backing store and records gs.Clone() as the
// game's latest snapshot.
func (c *Cache) SaveOrders(ctx context.Context, gameID string, gs *diplomacy.GameState, orders diplomacy.Orders, result diplomacy.PhaseResult) error {
	c.mu.Lock()
	c.last[gameID] = gs.Clone()
	c.mu.Unlock()
	return c.backing.SaveOrders(ctx, gameID, gs, orders, result)
}

// Latest returns the cached snapshot for a game, or nil if none is cached.
func (c *Cache) Latest(gameID string) *diplomacy.GameState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	gs, ok := c.last[gameID]
	if !ok {
		return nil
	}
	return gs.Clone()
}
