package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/storage"
)

// TradeRecordStore implements storage.TradeRecordStore using PostgreSQL.
type TradeRecordStore struct {
	pool *Pool
}

// NewTradeRecordStore creates a new TradeRecordStore.
func NewTradeRecordStore(pool *Pool) *TradeRecordStore {
	return &TradeRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

const tradeRecordInsert = `
	INSERT INTO trade_records (
		trade_id, run_id, tx_index, scenario, trader,
		amount_in, direction, expected_out, actual_out, loss,
		fee_paid, price_impact_bps, was_attacked, ts
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10,
		$11, $12, $13, $14
	)
`

const tradeRecordColumns = `
	trade_id, run_id, tx_index, scenario, trader,
	amount_in, direction, expected_out, actual_out, loss,
	fee_paid, price_impact_bps, was_attacked, ts
`

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeRecordStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	_, err := s.pool.Exec(ctx, tradeRecordInsert, tradeRecordArgs(t)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeRecordStore) InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		if _, err := tx.Exec(ctx, tradeRecordInsert, tradeRecordArgs(t)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeRecordStore) GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error) {
	query := `SELECT ` + tradeRecordColumns + ` FROM trade_records WHERE trade_id = $1`

	row := s.pool.QueryRow(ctx, query, tradeID)
	t, err := scanTradeRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade record by id: %w", err)
	}
	return t, nil
}

// GetByRun retrieves all trades for a run and scenario, ordered by tx_index ASC.
func (s *TradeRecordStore) GetByRun(ctx context.Context, runID string, scenario domain.Scenario) ([]*domain.TradeRecord, error) {
	query := `SELECT ` + tradeRecordColumns + `
		FROM trade_records
		WHERE run_id = $1 AND scenario = $2
		ORDER BY tx_index ASC
	`

	rows, err := s.pool.Query(ctx, query, runID, string(scenario))
	if err != nil {
		return nil, fmt.Errorf("get trade records by run: %w", err)
	}
	defer rows.Close()

	return scanTradeRecords(rows)
}

func tradeRecordArgs(t *domain.TradeRecord) []any {
	return []any{
		t.TradeID, t.RunID, t.TxIndex, string(t.Scenario), t.Trader,
		int64(t.AmountIn), t.Direction.String(), int64(t.ExpectedOut), int64(t.ActualOut), int64(t.Loss),
		int64(t.FeePaid), int64(t.PriceImpactBps), t.WasAttacked, t.Timestamp,
	}
}

// scanTradeRecord scans a single row into a TradeRecord.
func scanTradeRecord(row pgx.Row) (*domain.TradeRecord, error) {
	var t domain.TradeRecord
	var scenario, direction string
	var amountIn, expectedOut, actualOut, loss, feePaid, impactBps int64

	err := row.Scan(
		&t.TradeID, &t.RunID, &t.TxIndex, &scenario, &t.Trader,
		&amountIn, &direction, &expectedOut, &actualOut, &loss,
		&feePaid, &impactBps, &t.WasAttacked, &t.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	t.Scenario = domain.Scenario(scenario)
	t.Direction = domain.ParseDirection(direction)
	t.AmountIn = uint64(amountIn)
	t.ExpectedOut = uint64(expectedOut)
	t.ActualOut = uint64(actualOut)
	t.Loss = uint64(loss)
	t.FeePaid = uint64(feePaid)
	t.PriceImpactBps = uint64(impactBps)

	return &t, nil
}

// scanTradeRecords scans multiple rows into a slice of TradeRecord.
func scanTradeRecords(rows pgx.Rows) ([]*domain.TradeRecord, error) {
	var trades []*domain.TradeRecord

	for rows.Next() {
		t, err := scanTradeRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade record row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade record rows: %w", err)
	}

	return trades, nil
}
