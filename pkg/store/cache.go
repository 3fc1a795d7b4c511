package store

import (
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of current-state entries retained
// across blocks.
const DefaultCacheSize = 4096

// WritableStore is the persistent-store contract the cache reads through
// and flushes into. Implementations own their concurrency.
type WritableStore interface {
	// Get returns the stored entity, or nil when absent.
	Get(key EntityKey) (Entity, error)

	// GetMany batch-loads entities of one indexer, grouped by entity
	// type.
	GetMany(indexerID string, ids map[string][]string) (map[string][]Entity, error)

	// Flush commits a block's modifications atomically.
	Flush(mods []Modification, blockHash string, blockNumber uint64) error
}

// EntityCache tracks how handlers modify entities and caches every
// entity looked up from the store. It guarantees that
//
//	(1) at most one pending operation per key exists, and
//	(2) only entities that actually change from their stored state
//	    produce a modification.
//
// The cache is exclusively owned by one consumer loop and is not safe
// for concurrent use.
type EntityCache struct {
	// current reflects the store's state: an entry holding nil means
	// the entity is known absent.
	current *lru.Cache[EntityKey, Entity]

	// updates holds ops committed across the whole block.
	updates map[EntityKey]EntityOp

	// handlerUpdates holds ops of the currently executing handler only.
	handlerUpdates map[EntityKey]EntityOp

	inHandler bool

	store WritableStore
}

// ModificationsAndCache is the result of materializing a cache: the
// modification batch plus the current-state cache for reuse across
// blocks.
type ModificationsAndCache struct {
	Modifications []Modification
	Cache         *lru.Cache[EntityKey, Entity]
}

// NewEntityCache creates an empty cache over a store.
func NewEntityCache(store WritableStore) *EntityCache {
	current, _ := lru.New[EntityKey, Entity](DefaultCacheSize)
	return &EntityCache{
		current:        current,
		updates:        make(map[EntityKey]EntityOp),
		handlerUpdates: make(map[EntityKey]EntityOp),
		store:          store,
	}
}

// WithCurrent creates a cache reusing the current-state cache returned
// by a previous AsModifications.
func WithCurrent(store WritableStore, current *lru.Cache[EntityKey, Entity]) *EntityCache {
	if current == nil {
		return NewEntityCache(store)
	}
	return &EntityCache{
		current:        current,
		updates:        make(map[EntityKey]EntityOp),
		handlerUpdates: make(map[EntityKey]EntityOp),
		store:          store,
	}
}

// EnterHandler marks the start of one handler invocation. Ops applied
// until the matching exit stay isolated in handlerUpdates.
func (c *EntityCache) EnterHandler() {
	if c.inHandler {
		panic("store: EnterHandler called twice without exit")
	}
	c.inHandler = true
}

// ExitHandler folds the handler's ops into the block-level updates.
func (c *EntityCache) ExitHandler() {
	if !c.inHandler {
		panic("store: ExitHandler called outside a handler")
	}
	c.inHandler = false

	for key, op := range c.handlerUpdates {
		c.applyOp(key, op)
		delete(c.handlerUpdates, key)
	}
}

// ExitHandlerAndDiscardChanges drops the handler's ops, leaving the
// block-level updates untouched.
func (c *EntityCache) ExitHandlerAndDiscardChanges() {
	if !c.inHandler {
		panic("store: ExitHandlerAndDiscardChanges called outside a handler")
	}
	c.inHandler = false
	c.handlerUpdates = make(map[EntityKey]EntityOp)
}

// Get resolves the entity as the handler sees it: the stored state with
// all pending ops applied, block-level first, then handler-level.
func (c *EntityCache) Get(key EntityKey) (Entity, error) {
	entity, err := c.getCurrent(key)
	if err != nil {
		return nil, err
	}
	if op, ok := c.updates[key]; ok {
		entity = op.ApplyTo(entity)
	}
	if op, ok := c.handlerUpdates[key]; ok {
		entity = op.ApplyTo(entity)
	}
	return entity, nil
}

// Set records an update of the entity's fields. Fields absent from data
// keep their previous values.
func (c *EntityCache) Set(key EntityKey, data Entity) {
	c.applyOp(key, EntityOp{Kind: OpUpdate, Data: data})
}

// Remove records a removal of the entity.
func (c *EntityCache) Remove(key EntityKey) {
	c.applyOp(key, EntityOp{Kind: OpRemove})
}

func (c *EntityCache) applyOp(key EntityKey, op EntityOp) {
	updates := c.updates
	if c.inHandler {
		updates = c.handlerUpdates
	}
	if existing, ok := updates[key]; ok {
		existing.Accumulate(op)
		updates[key] = existing
		return
	}
	updates[key] = op
}

// getCurrent is the cached lookup of the stored entity state, fetching
// from the store and memoizing on miss.
func (c *EntityCache) getCurrent(key EntityKey) (Entity, error) {
	if entity, ok := c.current.Get(key); ok {
		return entity.Copy(), nil
	}
	entity, err := c.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("load entity %s: %w", key, err)
	}
	// __typename is for queries, not for mappings.
	delete(entity, "__typename")
	c.current.Add(key, entity)
	return entity.Copy(), nil
}

// AsModifications materializes the block's pending updates into the
// minimal modification batch: Insert where the store had nothing,
// Overwrite where the stored value changes, Remove where a stored value
// is deleted, and nothing when the post-op state equals the stored
// state. The cache must not be used afterwards; the returned current
// cache seeds the next block's cache.
func (c *EntityCache) AsModifications() (*ModificationsAndCache, error) {
	if c.inHandler {
		panic("store: AsModifications called inside a handler")
	}

	// Batch-load every updated key missing from current, one GetMany
	// per indexer.
	missingByIndexer := make(map[string]map[string][]string)
	for key := range c.updates {
		if c.current.Contains(key) {
			continue
		}
		byType, ok := missingByIndexer[key.IndexerID]
		if !ok {
			byType = make(map[string][]string)
			missingByIndexer[key.IndexerID] = byType
		}
		byType[key.EntityType] = append(byType[key.EntityType], key.EntityID)
	}
	for indexerID, byType := range missingByIndexer {
		found, err := c.store.GetMany(indexerID, byType)
		if err != nil {
			return nil, fmt.Errorf("batch load entities: %w", err)
		}
		for entityType, entities := range found {
			for _, entity := range entities {
				id, err := entity.ID()
				if err != nil {
					return nil, err
				}
				delete(entity, "__typename")
				c.current.Add(EntityKey{
					IndexerID:  indexerID,
					EntityType: entityType,
					EntityID:   id,
				}, entity)
			}
		}
		// Keys the store did not return are known absent.
		for entityType, ids := range byType {
			for _, id := range ids {
				key := EntityKey{IndexerID: indexerID, EntityType: entityType, EntityID: id}
				if !c.current.Contains(key) {
					c.current.Add(key, nil)
				}
			}
		}
	}

	keys := make([]EntityKey, 0, len(c.updates))
	for key := range c.updates {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	var mods []Modification
	for _, key := range keys {
		update := c.updates[key]
		current, _ := c.current.Get(key)

		switch {
		case current == nil && update.Kind != OpRemove:
			// Entity was created. Merging with an empty entity drops
			// null fields.
			data := Entity{}
			data.MergeRemoveNullFields(update.Data)
			c.current.Add(key, data)
			mods = append(mods, Modification{Kind: ModInsert, Key: key, Data: data.Copy()})

		case current != nil && update.Kind == OpUpdate:
			data := current.Copy()
			data.MergeRemoveNullFields(update.Data)
			c.current.Add(key, data)
			if !current.Equal(data) {
				mods = append(mods, Modification{Kind: ModOverwrite, Key: key, Data: data.Copy()})
			}

		case current != nil && update.Kind == OpOverwrite:
			c.current.Add(key, update.Data)
			if !current.Equal(update.Data) {
				mods = append(mods, Modification{Kind: ModOverwrite, Key: key, Data: update.Data.Copy()})
			}

		case current != nil && update.Kind == OpRemove:
			c.current.Add(key, nil)
			mods = append(mods, Modification{Kind: ModRemove, Key: key})

		default:
			// Removing an entity the store never had: nothing to do.
		}
	}

	return &ModificationsAndCache{Modifications: mods, Cache: c.current}, nil
}
