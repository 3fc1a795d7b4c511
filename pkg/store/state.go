package store

import (
	"fmt"

	"github.com/baysao/massbitprotocol/pkg/metrics"
)

// Store is the capability handed to handler code. Handlers read and
// write entities through it; the pipeline flushes accumulated changes
// once per envelope.
type Store interface {
	Get(entityType, entityID string) (Entity, error)
	Save(entityType string, data Entity) error
	Remove(entityType, entityID string)
	Flush(blockHash string, blockNumber uint64) error
}

// IndexerState binds an entity cache to one indexer identity and adapts
// it to the handler-facing Store capability.
type IndexerState struct {
	indexerID string
	store     WritableStore
	cache     *EntityCache
}

// NewIndexerState creates the state for one indexer over a writable
// store.
func NewIndexerState(indexerID string, store WritableStore) *IndexerState {
	return &IndexerState{
		indexerID: indexerID,
		store:     store,
		cache:     NewEntityCache(store),
	}
}

func (s *IndexerState) key(entityType, entityID string) EntityKey {
	return EntityKey{IndexerID: s.indexerID, EntityType: entityType, EntityID: entityID}
}

// Get returns the entity as pending ops leave it, nil when absent.
func (s *IndexerState) Get(entityType, entityID string) (Entity, error) {
	return s.cache.Get(s.key(entityType, entityID))
}

// Save records an update. The entity data must carry an "id" field.
func (s *IndexerState) Save(entityType string, data Entity) error {
	id, err := data.ID()
	if err != nil {
		return fmt.Errorf("save %s: %w", entityType, err)
	}
	s.cache.Set(s.key(entityType, id), data)
	return nil
}

// Remove records a removal.
func (s *IndexerState) Remove(entityType, entityID string) {
	s.cache.Remove(s.key(entityType, entityID))
}

// EnterHandler isolates the next ops to the current handler invocation.
func (s *IndexerState) EnterHandler() {
	s.cache.EnterHandler()
}

// ExitHandler commits the handler's ops into the block updates.
func (s *IndexerState) ExitHandler() {
	s.cache.ExitHandler()
}

// ExitHandlerAndDiscardChanges drops the failed handler's ops.
func (s *IndexerState) ExitHandlerAndDiscardChanges() {
	s.cache.ExitHandlerAndDiscardChanges()
}

// Flush materializes the block's updates and commits them atomically,
// then rearms the cache for the next block reusing the current-state
// entries.
func (s *IndexerState) Flush(blockHash string, blockNumber uint64) error {
	timer := metrics.NewTimer()
	result, err := s.cache.AsModifications()
	if err != nil {
		s.cache = NewEntityCache(s.store)
		return fmt.Errorf("materialize block %d: %w", blockNumber, err)
	}
	if err := s.store.Flush(result.Modifications, blockHash, blockNumber); err != nil {
		s.cache = NewEntityCache(s.store)
		return fmt.Errorf("flush block %d: %w", blockNumber, err)
	}
	for _, mod := range result.Modifications {
		metrics.ModificationsFlushed.WithLabelValues(mod.Kind.String()).Inc()
	}
	timer.ObserveDuration(metrics.FlushDuration)
	s.cache = WithCurrent(s.store, result.Cache)
	return nil
}
