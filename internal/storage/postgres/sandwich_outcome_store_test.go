package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/storage"
)

func sampleOutcome(runID string, txIndex int) *domain.SandwichOutcome {
	return &domain.SandwichOutcome{
		RunID:            runID,
		TxIndex:          txIndex,
		FrontrunAmount:   5_000_000_000,
		FrontrunReceived: 4_950_000_000,
		BackrunAmount:    4_950_000_000,
		BackrunReceived:  5_030_000_000,
		Profit:           30_000_000,
		VictimLoss:       45_000_000,
		Success:          true,
		Executed:         true,
		Timestamp:        1_700_000_000,
	}
}

func TestSandwichOutcomeStore_InsertAndGetByRun(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSandwichOutcomeStore(pool)
	ctx := context.Background()

	outcomes := []*domain.SandwichOutcome{
		sampleOutcome("run1", 4),
		sampleOutcome("run1", 1),
		sampleOutcome("run2", 0),
	}
	require.NoError(t, store.InsertBulk(ctx, outcomes))

	got, err := store.GetByRun(ctx, "run1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 1, got[0].TxIndex)
	require.Equal(t, 4, got[1].TxIndex)
	require.Equal(t, outcomes[1], got[0])
}

func TestSandwichOutcomeStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSandwichOutcomeStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleOutcome("run1", 0)))
	require.ErrorIs(t, store.Insert(ctx, sampleOutcome("run1", 0)), storage.ErrDuplicateKey)

	// Same tx_index under another run is a distinct key.
	require.NoError(t, store.Insert(ctx, sampleOutcome("run2", 0)))
}

func TestSandwichOutcomeStore_NegativeProfitRoundTrips(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSandwichOutcomeStore(pool)
	ctx := context.Background()

	o := sampleOutcome("run1", 0)
	o.Profit = -123_456
	o.Success = false
	require.NoError(t, store.Insert(ctx, o))

	got, err := store.GetByRun(ctx, "run1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(-123_456), got[0].Profit)
	require.False(t, got[0].Success)
}
