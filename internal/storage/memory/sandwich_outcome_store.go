package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/storage"
)

// SandwichOutcomeStore is an in-memory implementation of storage.SandwichOutcomeStore.
type SandwichOutcomeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SandwichOutcome // keyed by run_id:tx_index
}

// NewSandwichOutcomeStore creates a new in-memory sandwich outcome store.
func NewSandwichOutcomeStore() *SandwichOutcomeStore {
	return &SandwichOutcomeStore{
		data: make(map[string]*domain.SandwichOutcome),
	}
}

func outcomeKey(runID string, txIndex int) string {
	return fmt.Sprintf("%s:%d", runID, txIndex)
}

// Insert adds a new outcome. Returns ErrDuplicateKey if (run_id, tx_index) exists.
func (s *SandwichOutcomeStore) Insert(_ context.Context, o *domain.SandwichOutcome) error {
	if o == nil || o.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := outcomeKey(o.RunID, o.TxIndex)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *o
	s.data[key] = &copy
	return nil
}

// InsertBulk adds multiple outcomes atomically. Fails entire batch on any duplicate.
func (s *SandwichOutcomeStore) InsertBulk(_ context.Context, outcomes []*domain.SandwichOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(outcomes))

	for _, o := range outcomes {
		if o == nil || o.RunID == "" {
			return storage.ErrInvalidInput
		}
		key := outcomeKey(o.RunID, o.TxIndex)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, o := range outcomes {
		copy := *o
		s.data[outcomeKey(o.RunID, o.TxIndex)] = &copy
	}

	return nil
}

// GetByRun retrieves all outcomes for a run, ordered by tx_index ASC.
func (s *SandwichOutcomeStore) GetByRun(_ context.Context, runID string) ([]*domain.SandwichOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SandwichOutcome
	for _, o := range s.data {
		if o.RunID == runID {
			copy := *o
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TxIndex < result[j].TxIndex
	})

	return result, nil
}

var _ storage.SandwichOutcomeStore = (*SandwichOutcomeStore)(nil)
