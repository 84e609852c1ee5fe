// Package store provides the single persistence hook the adjudication core
// calls out to after resolving a phase. It owns no game lifecycle, matchmaking,
// or chat state — only the orders and resulting board snapshot for a phase.
package store

import (
	"context"

	"github.com/freeeve/diplomacy-adjudicator/pkg/diplomacy"
)

// OrderStore is the persistence hook invoked once per adjudicated phase.
// Implementations decide whether/how to durably record the submission;
// the adjudication core never reads back through this interface.
type OrderStore interface {
	SaveOrders(ctx context.Context, gameID string, gs *diplomacy.GameState, orders diplomacy.Orders, result diplomacy.PhaseResult) error
}

// NopStore discards everything. Useful for callers that only want in-memory
// adjudication (tests, one-shot CLI runs).
type NopStore struct{}

// SaveOrders implements OrderStore.
func (NopStore) SaveOrders(context.Context, string, *diplomacy.GameState, diplomacy.Orders, diplomacy.PhaseResult) error {
	return nil
}
