// Package storage defines the persistence interfaces for simulation output.
// All stores are append-only: a run writes its records once and readers query
// them by run.
package storage

import (
	"context"

	"amm-mev-lab/internal/domain"
)

// TradeRecordStore provides access to trade_records storage.
type TradeRecordStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error)

	// GetByRun retrieves all trades for a run and scenario, ordered by tx_index ASC.
	GetByRun(ctx context.Context, runID string, scenario domain.Scenario) ([]*domain.TradeRecord, error)
}

// SandwichOutcomeStore provides access to sandwich_outcomes storage.
type SandwichOutcomeStore interface {
	// Insert adds a new outcome. Returns ErrDuplicateKey if (run_id, tx_index) exists.
	Insert(ctx context.Context, o *domain.SandwichOutcome) error

	// InsertBulk adds multiple outcomes atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, outcomes []*domain.SandwichOutcome) error

	// GetByRun retrieves all outcomes for a run, ordered by tx_index ASC.
	GetByRun(ctx context.Context, runID string) ([]*domain.SandwichOutcome, error)
}

// PoolSnapshotStore provides access to pool_snapshots storage.
type PoolSnapshotStore interface {
	// InsertBulk adds multiple snapshots. Fails entire batch on duplicate
	// (run_id, tx_index, scenario).
	InsertBulk(ctx context.Context, snapshots []*domain.PoolSnapshot) error

	// GetByRun retrieves all snapshots for a run, ordered by tx_index ASC.
	GetByRun(ctx context.Context, runID string) ([]*domain.PoolSnapshot, error)
}
