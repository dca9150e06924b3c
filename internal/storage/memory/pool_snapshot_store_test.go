package memory

import (
	"context"
	"errors"
	"testing"

	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/storage"
)

func TestPoolSnapshotStore_InsertBulkAndGetByRun(t *testing.T) {
	store := NewPoolSnapshotStore()
	ctx := context.Background()

	snapshots := []*domain.PoolSnapshot{
		{RunID: "run1", TxIndex: 1, Scenario: domain.ScenarioUnprotected, ReserveA: 900},
		{RunID: "run1", TxIndex: 0, Scenario: domain.ScenarioUnprotected, ReserveA: 1000},
		{RunID: "run1", TxIndex: 0, Scenario: domain.ScenarioProtected, ReserveA: 1000},
		{RunID: "run2", TxIndex: 0, Scenario: domain.ScenarioUnprotected, ReserveA: 500},
	}

	if err := store.InsertBulk(ctx, snapshots); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByRun(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRun failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", len(result))
	}
	if result[0].TxIndex != 0 || result[2].TxIndex != 1 {
		t.Errorf("Results not ordered by tx_index")
	}
}

func TestPoolSnapshotStore_DuplicateScenarioKey(t *testing.T) {
	store := NewPoolSnapshotStore()
	ctx := context.Background()

	first := []*domain.PoolSnapshot{
		{RunID: "run1", TxIndex: 0, Scenario: domain.ScenarioUnprotected},
	}
	if err := store.InsertBulk(ctx, first); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	// Same (run, tx) under the other scenario is fine.
	other := []*domain.PoolSnapshot{
		{RunID: "run1", TxIndex: 0, Scenario: domain.ScenarioProtected},
	}
	if err := store.InsertBulk(ctx, other); err != nil {
		t.Errorf("Distinct scenario rejected: %v", err)
	}

	// Exact repeat is a duplicate; the batch must not partially land.
	dup := []*domain.PoolSnapshot{
		{RunID: "run1", TxIndex: 1, Scenario: domain.ScenarioUnprotected},
		{RunID: "run1", TxIndex: 0, Scenario: domain.ScenarioUnprotected},
	}
	if err := store.InsertBulk(ctx, dup); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}
	all, _ := store.GetByRun(ctx, "run1")
	if len(all) != 2 {
		t.Errorf("Partial insert leaked: %d snapshots", len(all))
	}
}
