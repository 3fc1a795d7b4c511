package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/store"
)

func TestIndexerRegistry(t *testing.T) {
	s, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	indexer := &Indexer{
		ID:        "idx-1",
		Name:      "token-transfers",
		Network:   "mainnet",
		ChainType: proto.ChainType_Ethereum,
		Status:    "running",
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateIndexer(indexer))

	got, err := s.GetIndexer("idx-1")
	require.NoError(t, err)
	assert.Equal(t, indexer.Name, got.Name)
	assert.Equal(t, proto.ChainType_Ethereum, got.ChainType)

	list, err := s.ListIndexers()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteIndexer("idx-1"))
	_, err = s.GetIndexer("idx-1")
	assert.Error(t, err)
}

func TestCursorRoundTrip(t *testing.T) {
	s, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	_, found, err := s.GetCursor("idx-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SaveCursor("idx-1", 12345))

	next, found, err := s.GetCursor("idx-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint64(12345), next)
}

func TestEntityStoreRoundTrip(t *testing.T) {
	s, err := NewBoltEntityStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	k := store.EntityKey{IndexerID: "idx-1", EntityType: "Account", EntityID: "a"}

	// Absent entity reads as nil.
	entity, err := s.Get(k)
	require.NoError(t, err)
	assert.Nil(t, entity)

	mods := []store.Modification{
		{Kind: store.ModInsert, Key: k, Data: store.Entity{"id": "a", "balance": float64(10)}},
	}
	require.NoError(t, s.Flush(mods, "0xabc", 7))

	entity, err = s.Get(k)
	require.NoError(t, err)
	assert.Equal(t, store.Entity{"id": "a", "balance": float64(10)}, entity)

	number, hash, err := s.BlockPointer("idx-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), number)
	assert.Equal(t, "0xabc", hash)
}

func TestEntityStoreGetMany(t *testing.T) {
	s, err := NewBoltEntityStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	ka := store.EntityKey{IndexerID: "idx-1", EntityType: "Account", EntityID: "a"}
	kb := store.EntityKey{IndexerID: "idx-1", EntityType: "Token", EntityID: "b"}
	require.NoError(t, s.Flush([]store.Modification{
		{Kind: store.ModInsert, Key: ka, Data: store.Entity{"id": "a"}},
		{Kind: store.ModInsert, Key: kb, Data: store.Entity{"id": "b"}},
	}, "0xabc", 1))

	result, err := s.GetMany("idx-1", map[string][]string{
		"Account": {"a", "missing"},
		"Token":   {"b"},
	})
	require.NoError(t, err)
	assert.Len(t, result["Account"], 1)
	assert.Len(t, result["Token"], 1)
}

func TestEntityStoreRemove(t *testing.T) {
	s, err := NewBoltEntityStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	k := store.EntityKey{IndexerID: "idx-1", EntityType: "Account", EntityID: "a"}
	require.NoError(t, s.Flush([]store.Modification{
		{Kind: store.ModInsert, Key: k, Data: store.Entity{"id": "a"}},
	}, "0xabc", 1))
	require.NoError(t, s.Flush([]store.Modification{
		{Kind: store.ModRemove, Key: k},
	}, "0xdef", 2))

	entity, err := s.Get(k)
	require.NoError(t, err)
	assert.Nil(t, entity)
}

// TestFlushMaterializeRoundTrip drives the entity cache against the
// bolt store across two blocks: what the cache materializes and the
// store re-reads must agree.
func TestFlushMaterializeRoundTrip(t *testing.T) {
	s, err := NewBoltEntityStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	state := store.NewIndexerState("idx-1", s)
	state.EnterHandler()
	require.NoError(t, state.Save("Account", store.Entity{"id": "a", "v": float64(1)}))
	state.ExitHandler()
	require.NoError(t, state.Flush("0x01", 1))

	state.EnterHandler()
	require.NoError(t, state.Save("Account", store.Entity{"id": "a", "v": float64(2)}))
	state.ExitHandler()
	require.NoError(t, state.Flush("0x02", 2))

	entity, err := s.Get(store.EntityKey{IndexerID: "idx-1", EntityType: "Account", EntityID: "a"})
	require.NoError(t, err)
	assert.Equal(t, store.Entity{"id": "a", "v": float64(2)}, entity)
}
