package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/baysao/massbitprotocol/api/proto"
)

var (
	// Bucket names
	bucketIndexers = []byte("indexers")
	bucketCursors  = []byte("cursors")
)

// Indexer is the registry record of one deployed indexer.
type Indexer struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Network   string          `json:"network"`
	ChainType proto.ChainType `json:"chain_type"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// BoltStore persists the indexer registry and per-indexer cursors.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens the database under dataDir, creating buckets as
// needed.
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "indexer.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketIndexers, bucketCursors} {
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

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// CreateIndexer registers an indexer (upsert by ID).
func (s *BoltStore) CreateIndexer(indexer *Indexer) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketIndexers)
		data, err := json.Marshal(indexer)
		if err != nil {
			return err
		}
		return b.Put([]byte(indexer.ID), data)
	})
}

// GetIndexer returns the registry record for an indexer ID.
func (s *BoltStore) GetIndexer(id string) (*Indexer, error) {
	var indexer Indexer
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketIndexers)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("indexer not found: %s", id)
		}
		return json.Unmarshal(data, &indexer)
	})
	if err != nil {
		return nil, err
	}
	return &indexer, nil
}

// ListIndexers returns every registered indexer.
func (s *BoltStore) ListIndexers() ([]*Indexer, error) {
	var indexers []*Indexer
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketIndexers)
		return b.ForEach(func(k, v []byte) error {
			var indexer Indexer
			if err := json.Unmarshal(v, &indexer); err != nil {
				return err
			}
			indexers = append(indexers, &indexer)
			return nil
		})
	})
	return indexers, err
}

// DeleteIndexer removes an indexer and its cursor.
func (s *BoltStore) DeleteIndexer(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketIndexers).Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(bucketCursors).Delete([]byte(id))
	})
}

// SaveCursor persists an indexer's next expected block number.
func (s *BoltStore) SaveCursor(indexerID string, nextBlock uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], nextBlock)
		return tx.Bucket(bucketCursors).Put([]byte(indexerID), buf[:])
	})
}

// GetCursor returns the persisted cursor, or (0, false) when none was
// saved yet.
func (s *BoltStore) GetCursor(indexerID string) (uint64, bool, error) {
	var next uint64
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketCursors).Get([]byte(indexerID))
		if data == nil {
			return nil
		}
		if len(data) != 8 {
			return fmt.Errorf("corrupt cursor for indexer %s", indexerID)
		}
		next = binary.BigEndian.Uint64(data)
		found = true
		return nil
	})
	return next, found, err
}
