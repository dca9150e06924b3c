package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/storage"
)

// SandwichOutcomeStore implements storage.SandwichOutcomeStore using PostgreSQL.
type SandwichOutcomeStore struct {
	pool *Pool
}

// NewSandwichOutcomeStore creates a new SandwichOutcomeStore.
func NewSandwichOutcomeStore(pool *Pool) *SandwichOutcomeStore {
	return &SandwichOutcomeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SandwichOutcomeStore = (*SandwichOutcomeStore)(nil)

const sandwichOutcomeInsert = `
	INSERT INTO sandwich_outcomes (
		run_id, tx_index,
		frontrun_amount, frontrun_received, backrun_amount, backrun_received,
		profit, victim_loss, success, executed, ts
	) VALUES (
		$1, $2,
		$3, $4, $5, $6,
		$7, $8, $9, $10, $11
	)
`

const sandwichOutcomeColumns = `
	run_id, tx_index,
	frontrun_amount, frontrun_received, backrun_amount, backrun_received,
	profit, victim_loss, success, executed, ts
`

// Insert adds a new outcome. Returns ErrDuplicateKey if (run_id, tx_index) exists.
func (s *SandwichOutcomeStore) Insert(ctx context.Context, o *domain.SandwichOutcome) error {
	_, err := s.pool.Exec(ctx, sandwichOutcomeInsert, sandwichOutcomeArgs(o)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert sandwich outcome: %w", err)
	}
	return nil
}

// InsertBulk adds multiple outcomes atomically. Fails entire batch on any duplicate.
func (s *SandwichOutcomeStore) InsertBulk(ctx context.Context, outcomes []*domain.SandwichOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, o := range outcomes {
		if _, err := tx.Exec(ctx, sandwichOutcomeInsert, sandwichOutcomeArgs(o)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert sandwich outcome in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRun retrieves all outcomes for a run, ordered by tx_index ASC.
func (s *SandwichOutcomeStore) GetByRun(ctx context.Context, runID string) ([]*domain.SandwichOutcome, error) {
	query := `SELECT ` + sandwichOutcomeColumns + `
		FROM sandwich_outcomes
		WHERE run_id = $1
		ORDER BY tx_index ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get sandwich outcomes by run: %w", err)
	}
	defer rows.Close()

	return scanSandwichOutcomes(rows)
}

func sandwichOutcomeArgs(o *domain.SandwichOutcome) []any {
	return []any{
		o.RunID, o.TxIndex,
		int64(o.FrontrunAmount), int64(o.FrontrunReceived), int64(o.BackrunAmount), int64(o.BackrunReceived),
		o.Profit, int64(o.VictimLoss), o.Success, o.Executed, o.Timestamp,
	}
}

// scanSandwichOutcomes scans multiple rows into a slice of SandwichOutcome.
func scanSandwichOutcomes(rows pgx.Rows) ([]*domain.SandwichOutcome, error) {
	var outcomes []*domain.SandwichOutcome

	for rows.Next() {
		var o domain.SandwichOutcome
		var frontrunAmount, frontrunReceived, backrunAmount, backrunReceived, victimLoss int64

		err := rows.Scan(
			&o.RunID, &o.TxIndex,
			&frontrunAmount, &frontrunReceived, &backrunAmount, &backrunReceived,
			&o.Profit, &victimLoss, &o.Success, &o.Executed, &o.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sandwich outcome row: %w", err)
		}

		o.FrontrunAmount = uint64(frontrunAmount)
		o.FrontrunReceived = uint64(frontrunReceived)
		o.BackrunAmount = uint64(backrunAmount)
		o.BackrunReceived = uint64(backrunReceived)
		o.VictimLoss = uint64(victimLoss)
		outcomes = append(outcomes, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sandwich outcome rows: %w", err)
	}

	return outcomes, nil
}
