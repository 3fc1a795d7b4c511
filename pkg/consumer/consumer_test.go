package consumer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/adapter"
	"github.com/baysao/massbitprotocol/pkg/storage"
	"github.com/baysao/massbitprotocol/pkg/store"
	"github.com/baysao/massbitprotocol/pkg/types"
)

// scriptedProxy fails the blocks listed in failOn, once each.
type scriptedProxy struct {
	handled []uint64
	failOn  map[uint64]bool
	decode  map[uint64]bool
}

func (p *scriptedProxy) HandleMessage(data *proto.GenericDataProto, _ *store.IndexerState) error {
	number := data.GetBlockNumber()
	p.handled = append(p.handled, number)
	if p.decode[number] {
		delete(p.decode, number)
		return adapter.NewDecodeError(fmt.Errorf("bad payload"))
	}
	if p.failOn[number] {
		delete(p.failOn, number)
		return fmt.Errorf("handler failed on block %d", number)
	}
	return nil
}

func envelope(number uint64) *proto.GenericDataProto {
	return &proto.GenericDataProto{
		ChainType:   proto.ChainType_Substrate,
		DataType:    proto.DataType_Block,
		BlockNumber: number,
	}
}

func newTestConsumer(t *testing.T, startBlock uint64) (*Consumer, *storage.BoltStore) {
	t.Helper()
	cursors, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cursors.Close() })

	c, err := New(Config{
		IndexerID:   "idx-1",
		AdapterName: "substrate",
		ChainKey:    types.ChainKey{Chain: proto.ChainType_Substrate, Network: "mainnet"},
		StartBlock:  startBlock,
		Cursors:     cursors,
	})
	require.NoError(t, err)
	return c, cursors
}

// TestCursorAdvancesOnSuccess: each handled envelope moves the cursor
// to processed + 1 and persists it.
func TestCursorAdvancesOnSuccess(t *testing.T) {
	c, cursors := newTestConsumer(t, 10)
	proxy := &scriptedProxy{}

	c.process(envelope(10), proxy)
	c.process(envelope(11), proxy)

	assert.Equal(t, uint64(12), c.nextBlock)
	saved, ok, err := cursors.GetCursor("idx-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(12), saved)
}

// TestCursorHoldsOnHandlerFailure: a failed handler leaves the cursor
// at the failed block, so the reconnect replays it.
func TestCursorHoldsOnHandlerFailure(t *testing.T) {
	c, cursors := newTestConsumer(t, 40)
	proxy := &scriptedProxy{failOn: map[uint64]bool{42: true}}

	c.process(envelope(40), proxy)
	c.process(envelope(41), proxy)
	c.process(envelope(42), proxy)

	assert.Equal(t, uint64(42), c.nextBlock)

	// The persisted cursor still reflects the last success.
	saved, ok, err := cursors.GetCursor("idx-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(42), saved)

	// After reconnect the same block is replayed; on success the
	// cursor moves past it.
	c.process(envelope(42), proxy)
	assert.Equal(t, uint64(43), c.nextBlock)
}

// TestDecodeErrorSkipsEnvelope: poison envelopes advance the cursor.
func TestDecodeErrorSkipsEnvelope(t *testing.T) {
	c, _ := newTestConsumer(t, 7)
	proxy := &scriptedProxy{decode: map[uint64]bool{7: true}}

	c.process(envelope(7), proxy)
	assert.Equal(t, uint64(8), c.nextBlock)
}

// TestChainTypeMismatchIgnored: data of the wrong chain never reaches
// the proxy and never moves the cursor.
func TestChainTypeMismatchIgnored(t *testing.T) {
	c, _ := newTestConsumer(t, 5)
	proxy := &scriptedProxy{}

	wrong := envelope(5)
	wrong.ChainType = proto.ChainType_Solana
	c.process(wrong, proxy)

	assert.Empty(t, proxy.handled)
	assert.Equal(t, uint64(5), c.nextBlock)
}

// TestPersistedCursorRestored: a consumer restarted over an existing
// cursor resumes above the manifest start block.
func TestPersistedCursorRestored(t *testing.T) {
	cursors, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	defer cursors.Close()
	require.NoError(t, cursors.SaveCursor("idx-1", 500))

	c, err := New(Config{
		IndexerID:   "idx-1",
		AdapterName: "substrate",
		ChainKey:    types.ChainKey{Chain: proto.ChainType_Substrate, Network: "mainnet"},
		StartBlock:  100,
		Cursors:     cursors,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(500), c.nextBlock)
}

// TestStartBlockWinsOverStaleCursor: a cursor below the data source's
// start block is ignored.
func TestStartBlockWinsOverStaleCursor(t *testing.T) {
	cursors, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	defer cursors.Close()
	require.NoError(t, cursors.SaveCursor("idx-1", 50))

	c, err := New(Config{
		IndexerID:   "idx-1",
		AdapterName: "substrate",
		ChainKey:    types.ChainKey{Chain: proto.ChainType_Substrate, Network: "mainnet"},
		StartBlock:  100,
		Cursors:     cursors,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(100), c.nextBlock)
}

// TestHaltsOnMissingAdapter: an unloadable adapter is terminal.
func TestHaltsOnMissingAdapter(t *testing.T) {
	cursors, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	defer cursors.Close()

	c, err := New(Config{
		IndexerID:   "idx-1",
		AdapterName: "substrate",
		ChainKey:    types.ChainKey{Chain: proto.ChainType_Substrate, Network: "mainnet"},
		Adapters:    adapter.NewManager(),
		Cursors:     cursors,
	})
	require.NoError(t, err)

	err = c.Run(t.Context())
	assert.Error(t, err)
}
