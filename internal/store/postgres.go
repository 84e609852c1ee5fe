package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/freeeve/diplomacy-adjudicator/pkg/diplomacy"
)

// Postgres persists each phase's orders and outcome as DSON text, grounded
// on the teacher's phase_repo.SaveOrders batch-insert pattern.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a Postgres-backed OrderStore from a connection string.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Close closes the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// SaveOrders inserts one row per submitted order plus one summary row for
// the phase outcome, in a single transaction.
func (p *Postgres) SaveOrders(ctx context.Context, gameID string, gs *diplomacy.GameState, orders diplomacy.Orders, result diplomacy.PhaseResult) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO adjudicated_orders (game_id, year, season, phase_type, power, dson)
		 VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("prepare insert order: %w", err)
	}
	defer stmt.Close()

	switch gs.Phase {
	case diplomacy.PhaseMovement:
		for _, o := range orders.Movement {
			dson := diplomacy.FormatDSON([]diplomacy.DSONOrder{diplomacy.OrderToDSON(o)})
			if _, err := stmt.ExecContext(ctx, gameID, gs.Year, string(gs.Season), string(gs.Phase), string(o.Power), dson); err != nil {
				return fmt.Errorf("insert movement order: %w", err)
			}
		}
	case diplomacy.PhaseRetreat:
		for _, o := range orders.Retreat {
			dson := diplomacy.FormatDSON([]diplomacy.DSONOrder{diplomacy.RetreatOrderToDSON(o)})
			if _, err := stmt.ExecContext(ctx, gameID, gs.Year, string(gs.Season), string(gs.Phase), string(o.Power), dson); err != nil {
				return fmt.Errorf("insert retreat order: %w", err)
			}
		}
	case diplomacy.PhaseBuild:
		for _, o := range orders.Build {
			dson := diplomacy.FormatDSON([]diplomacy.DSONOrder{diplomacy.BuildOrderToDSON(o)})
			if _, err := stmt.ExecContext(ctx, gameID, gs.Year, string(gs.Season), string(gs.Phase), string(o.Power), dson); err != nil {
				return fmt.Errorf("insert build order: %w", err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO phase_outcomes (game_id, year, season, phase_type, dfen)
		 VALUES ($1, $2, $3, $4, $5)`,
		gameID, gs.Year, string(gs.Season), string(gs.Phase), diplomacy.EncodeDFEN(gs),
	); err != nil {
		return fmt.Errorf("insert phase outcome: %w", err)
	}

	return tx.Commit()
}
