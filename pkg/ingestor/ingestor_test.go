package ingestor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/hub"
	"github.com/baysao/massbitprotocol/pkg/types"
)

func testTopic(t *testing.T) (*hub.Publisher, *hub.Subscriber) {
	t.Helper()
	key := types.ChainKey{Chain: proto.ChainType_Solana, Network: "mainnet"}
	h := hub.New(hub.DefaultRingSize)
	pub, err := h.Register(key)
	require.NoError(t, err)
	sub, err := h.Subscribe(key)
	require.NoError(t, err)
	return pub, sub
}

func blockEnvelope(number uint64) []*proto.GenericDataProto {
	return []*proto.GenericDataProto{{
		ChainType:   proto.ChainType_Solana,
		DataType:    proto.DataType_Block,
		BlockNumber: number,
	}}
}

// TestTipTrackerFirstObservationAnchors: the first stable tip emits
// nothing.
func TestTipTrackerFirstObservationAnchors(t *testing.T) {
	var tracker tipTracker
	_, _, ok := tracker.advance(1100)
	assert.False(t, ok)
}

// TestTipTrackerStableUnchanged: a tick with last_emitted == stable
// produces zero blocks.
func TestTipTrackerStableUnchanged(t *testing.T) {
	var tracker tipTracker
	tracker.advance(1100)
	_, _, ok := tracker.advance(1100)
	assert.False(t, ok)
	_, _, ok = tracker.advance(1099)
	assert.False(t, ok)
}

func TestTipTrackerAdvances(t *testing.T) {
	var tracker tipTracker
	tracker.advance(1000)

	from, to, ok := tracker.advance(1100)
	require.True(t, ok)
	assert.Equal(t, uint64(1000), from)
	assert.Equal(t, uint64(1100), to)
	tracker.emitted(to)

	// The range is half-open at the bottom: 1100 was already emitted,
	// so the next range holds only 1101.
	from, to, ok = tracker.advance(1101)
	require.True(t, ok)
	assert.Equal(t, uint64(1100), from)
	assert.Equal(t, uint64(1101), to)
}

// TestFetchOrderedPublishesInOrder: out-of-order fetch completion must
// not reorder publishes.
func TestFetchOrderedPublishesInOrder(t *testing.T) {
	pub, sub := testTopic(t)
	defer pub.Close()

	var mu sync.Mutex
	started := map[uint64]time.Duration{
		1: 40 * time.Millisecond,
		2: 0,
		3: 20 * time.Millisecond,
		4: 0,
	}

	fetch := func(ctx context.Context, number uint64) ([]*proto.GenericDataProto, error) {
		mu.Lock()
		delay := started[number]
		mu.Unlock()
		time.Sleep(delay)
		return blockEnvelope(number), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := fetchOrdered(ctx, pub, 0, 4, fetch, func(uint64) {})
	require.NoError(t, err)

	for want := uint64(1); want <= 4; want++ {
		msg, err := sub.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, msg.GetBlockNumber())
	}
}

// TestFetchOrderedSkipsFailedBlock: a block that exhausts its retries
// is reported as a gap and the remaining blocks still publish in order.
func TestFetchOrderedSkipsFailedBlock(t *testing.T) {
	pub, sub := testTopic(t)
	defer pub.Close()

	fetch := func(ctx context.Context, number uint64) ([]*proto.GenericDataProto, error) {
		if number == 2 {
			return nil, fmt.Errorf("block %d unavailable", number)
		}
		return blockEnvelope(number), nil
	}

	var gaps []uint64
	var mu sync.Mutex
	onGap := func(number uint64) {
		mu.Lock()
		gaps = append(gaps, number)
		mu.Unlock()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	err := fetchOrdered(ctx, pub, 0, 3, fetch, onGap)
	require.NoError(t, err)

	msg, err := sub.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), msg.GetBlockNumber())
	msg, err = sub.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), msg.GetBlockNumber())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint64{2}, gaps)
}

// TestFetchOrderedEmptyRange: nothing to fetch, nothing published.
func TestFetchOrderedEmptyRange(t *testing.T) {
	pub, _ := testTopic(t)
	defer pub.Close()

	fetch := func(ctx context.Context, number uint64) ([]*proto.GenericDataProto, error) {
		t.Fatal("fetch must not be called for an empty range")
		return nil, nil
	}

	err := fetchOrdered(context.Background(), pub, 5, 5, fetch, func(uint64) {})
	require.NoError(t, err)
}

// TestSolanaMarginScenario walks the end-to-end margin arithmetic:
// upstream root 1200 with margin 100 yields blocks 1000..1100 once the
// tracker is primed at 999.
func TestSolanaMarginScenario(t *testing.T) {
	pub, sub := testTopic(t)
	defer pub.Close()

	const margin = 100
	var tracker tipTracker

	_, _, ok := tracker.advance(1099 - margin) // root 1099 primes at 999
	require.False(t, ok)

	from, to, ok := tracker.advance(1200 - margin)
	require.True(t, ok)
	assert.Equal(t, uint64(999), from)
	assert.Equal(t, uint64(1100), to)

	fetch := func(ctx context.Context, number uint64) ([]*proto.GenericDataProto, error) {
		return blockEnvelope(number), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, fetchOrdered(ctx, pub, from, to, fetch, func(uint64) {}))
	tracker.emitted(to)

	for want := uint64(1000); want <= 1100; want++ {
		msg, err := sub.Recv(ctx)
		require.NoError(t, err)
		require.Equal(t, want, msg.GetBlockNumber())
	}

	// The finality margin holds: 1101 == tip-margin+1 was not emitted.
	recvCtx, recvCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer recvCancel()
	_, err := sub.Recv(recvCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
