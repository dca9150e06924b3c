package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/storage"
)

func sampleTrade(tradeID, runID string, txIndex int, scenario domain.Scenario) *domain.TradeRecord {
	return &domain.TradeRecord{
		TradeID:        tradeID,
		RunID:          runID,
		TxIndex:        txIndex,
		Scenario:       scenario,
		Trader:         "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
		AmountIn:       1_000_000_000,
		Direction:      domain.DirectionAToB,
		ExpectedOut:    997_000_000,
		ActualOut:      950_000_000,
		Loss:           47_000_000,
		FeePaid:        3_000_000,
		PriceImpactBps: 12,
		WasAttacked:    true,
		Timestamp:      1_700_000_000,
	}
}

func TestTradeRecordStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeRecordStore(pool)
	ctx := context.Background()

	trade := sampleTrade("t1", "run1", 0, domain.ScenarioUnprotected)
	require.NoError(t, store.Insert(ctx, trade))

	got, err := store.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, trade, got)
}

func TestTradeRecordStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeRecordStore(pool)
	ctx := context.Background()

	trade := sampleTrade("t1", "run1", 0, domain.ScenarioUnprotected)
	require.NoError(t, store.Insert(ctx, trade))
	require.ErrorIs(t, store.Insert(ctx, trade), storage.ErrDuplicateKey)
}

func TestTradeRecordStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeRecordStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTradeRecordStore_GetByRun(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeRecordStore(pool)
	ctx := context.Background()

	trades := []*domain.TradeRecord{
		sampleTrade("t3", "run1", 2, domain.ScenarioUnprotected),
		sampleTrade("t1", "run1", 0, domain.ScenarioUnprotected),
		sampleTrade("t2", "run1", 1, domain.ScenarioProtected),
		sampleTrade("t4", "run2", 0, domain.ScenarioUnprotected),
	}
	require.NoError(t, store.InsertBulk(ctx, trades))

	got, err := store.GetByRun(ctx, "run1", domain.ScenarioUnprotected)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 0, got[0].TxIndex)
	require.Equal(t, 2, got[1].TxIndex)
}

func TestTradeRecordStore_InsertBulkAtomic(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeRecordStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleTrade("t1", "run1", 0, domain.ScenarioUnprotected)))

	batch := []*domain.TradeRecord{
		sampleTrade("t2", "run1", 1, domain.ScenarioUnprotected),
		sampleTrade("t1", "run1", 0, domain.ScenarioUnprotected), // duplicate
	}
	require.ErrorIs(t, store.InsertBulk(ctx, batch), storage.ErrDuplicateKey)

	// Nothing from the failed batch may land.
	_, err := store.GetByID(ctx, "t2")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
