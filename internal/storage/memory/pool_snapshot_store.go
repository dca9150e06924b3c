package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/storage"
)

// PoolSnapshotStore is an in-memory implementation of storage.PoolSnapshotStore.
type PoolSnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PoolSnapshot // keyed by run_id:tx_index:scenario
}

// NewPoolSnapshotStore creates a new in-memory pool snapshot store.
func NewPoolSnapshotStore() *PoolSnapshotStore {
	return &PoolSnapshotStore{
		data: make(map[string]*domain.PoolSnapshot),
	}
}

func snapshotKey(p *domain.PoolSnapshot) string {
	return fmt.Sprintf("%s:%d:%s", p.RunID, p.TxIndex, p.Scenario)
}

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate
// (run_id, tx_index, scenario).
func (s *PoolSnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.PoolSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(snapshots))

	for _, p := range snapshots {
		if p == nil || p.RunID == "" {
			return storage.ErrInvalidInput
		}
		key := snapshotKey(p)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range snapshots {
		copy := *p
		s.data[snapshotKey(p)] = &copy
	}

	return nil
}

// GetByRun retrieves all snapshots for a run, ordered by tx_index ASC.
func (s *PoolSnapshotStore) GetByRun(_ context.Context, runID string) ([]*domain.PoolSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PoolSnapshot
	for _, p := range s.data {
		if p.RunID == runID {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TxIndex != result[j].TxIndex {
			return result[i].TxIndex < result[j].TxIndex
		}
		return result[i].Scenario < result[j].Scenario
	})

	return result, nil
}

var _ storage.PoolSnapshotStore = (*PoolSnapshotStore)(nil)
