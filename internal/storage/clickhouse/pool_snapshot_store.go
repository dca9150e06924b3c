package clickhouse

import (
	"context"
	"fmt"

	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/storage"
)

// PoolSnapshotStore implements storage.PoolSnapshotStore using ClickHouse.
type PoolSnapshotStore struct {
	conn *Conn
}

// NewPoolSnapshotStore creates a new PoolSnapshotStore.
func NewPoolSnapshotStore(conn *Conn) *PoolSnapshotStore {
	return &PoolSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PoolSnapshotStore = (*PoolSnapshotStore)(nil)

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate
// (run_id, tx_index, scenario). MergeTree does not enforce uniqueness, so
// duplicates are checked explicitly before the batch is sent.
func (s *PoolSnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.PoolSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID    string
		txIndex  int
		scenario domain.Scenario
	}
	seen := make(map[key]struct{}, len(snapshots))
	for _, p := range snapshots {
		if p == nil || p.RunID == "" {
			return storage.ErrInvalidInput
		}
		k := key{p.RunID, p.TxIndex, p.Scenario}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing rows. One query per run is
	// enough; a batch almost always carries a single run.
	runs := make(map[string]struct{})
	for _, p := range snapshots {
		runs[p.RunID] = struct{}{}
	}
	for runID := range runs {
		existing, err := s.GetByRun(ctx, runID)
		if err != nil {
			return fmt.Errorf("check existing snapshots: %w", err)
		}
		for _, p := range existing {
			if _, clash := seen[key{p.RunID, p.TxIndex, p.Scenario}]; clash {
				return storage.ErrDuplicateKey
			}
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO pool_snapshots (
			run_id, tx_index, scenario, reserve_a, reserve_b, price_a_in_b
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range snapshots {
		err = batch.Append(
			p.RunID, uint32(p.TxIndex), string(p.Scenario),
			p.ReserveA, p.ReserveB, p.PriceAInB,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRun retrieves all snapshots for a run, ordered by tx_index ASC.
func (s *PoolSnapshotStore) GetByRun(ctx context.Context, runID string) ([]*domain.PoolSnapshot, error) {
	query := `
		SELECT run_id, tx_index, scenario, reserve_a, reserve_b, price_a_in_b
		FROM pool_snapshots
		WHERE run_id = ?
		ORDER BY tx_index ASC, scenario ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by run: %w", err)
	}
	defer rows.Close()

	return scanPoolSnapshots(rows)
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanPoolSnapshots scans multiple rows.
func scanPoolSnapshots(rows chRows) ([]*domain.PoolSnapshot, error) {
	var snapshots []*domain.PoolSnapshot

	for rows.Next() {
		var p domain.PoolSnapshot
		var txIndex uint32
		var scenario string

		err := rows.Scan(
			&p.RunID, &txIndex, &scenario,
			&p.ReserveA, &p.ReserveB, &p.PriceAInB,
		)
		if err != nil {
			return nil, fmt.Errorf("scan pool snapshot row: %w", err)
		}

		p.TxIndex = int(txIndex)
		p.Scenario = domain.Scenario(scenario)
		snapshots = append(snapshots, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pool snapshot rows: %w", err)
	}

	return snapshots, nil
}
