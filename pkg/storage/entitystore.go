package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/baysao/massbitprotocol/pkg/store"
)

var (
	bucketEntities = []byte("entities")
	bucketBlocks   = []byte("block_pointers")
)

// BoltEntityStore is the embedded entity store backing indexers that
// run without an external database. One write transaction commits a
// block's modifications together with its block pointer.
type BoltEntityStore struct {
	db *bolt.DB
}

// NewBoltEntityStore opens the entity database under dataDir.
func NewBoltEntityStore(dataDir string) (*BoltEntityStore, error) {
	dbPath := filepath.Join(dataDir, "entities.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open entity database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketEntities, bucketBlocks} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltEntityStore{db: db}, nil
}

// Close closes the database
func (s *BoltEntityStore) Close() error {
	return s.db.Close()
}

func entityKeyBytes(key store.EntityKey) []byte {
	return []byte(key.IndexerID + "\x00" + key.EntityType + "\x00" + key.EntityID)
}

// Get returns the stored entity, or nil when absent.
func (s *BoltEntityStore) Get(key store.EntityKey) (store.Entity, error) {
	var entity store.Entity
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketEntities).Get(entityKeyBytes(key))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &entity)
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// GetMany batch-loads entities of one indexer grouped by entity type.
// Missing ids are simply absent from the result.
func (s *BoltEntityStore) GetMany(indexerID string, ids map[string][]string) (map[string][]store.Entity, error) {
	result := make(map[string][]store.Entity)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEntities)
		for entityType, entityIDs := range ids {
			for _, id := range entityIDs {
				key := store.EntityKey{IndexerID: indexerID, EntityType: entityType, EntityID: id}
				data := b.Get(entityKeyBytes(key))
				if data == nil {
					continue
				}
				var entity store.Entity
				if err := json.Unmarshal(data, &entity); err != nil {
					return err
				}
				result[entityType] = append(result[entityType], entity)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Flush commits a block's modifications and the block pointer in one
// transaction.
func (s *BoltEntityStore) Flush(mods []store.Modification, blockHash string, blockNumber uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEntities)
		for _, mod := range mods {
			key := entityKeyBytes(mod.Key)
			switch mod.Kind {
			case store.ModInsert, store.ModOverwrite:
				data, err := json.Marshal(mod.Data)
				if err != nil {
					return err
				}
				if err := b.Put(key, data); err != nil {
					return err
				}
			case store.ModRemove:
				if err := b.Delete(key); err != nil {
					return err
				}
			}
		}

		// Advance the block pointer of every indexer touched by this
		// batch.
		pointers := tx.Bucket(bucketBlocks)
		seen := make(map[string]bool)
		for _, mod := range mods {
			if seen[mod.Key.IndexerID] {
				continue
			}
			seen[mod.Key.IndexerID] = true
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], blockNumber)
			value := append(buf[:], []byte(blockHash)...)
			if err := pointers.Put([]byte(mod.Key.IndexerID), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// BlockPointer returns the last flushed block of an indexer.
func (s *BoltEntityStore) BlockPointer(indexerID string) (uint64, string, error) {
	var number uint64
	var hash string
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketBlocks).Get([]byte(indexerID))
		if data == nil {
			return nil
		}
		if len(data) < 8 {
			return fmt.Errorf("corrupt block pointer for indexer %s", indexerID)
		}
		number = binary.BigEndian.Uint64(data[:8])
		hash = string(data[8:])
		return nil
	})
	return number, hash, err
}
