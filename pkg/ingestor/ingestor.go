package ingestor

import (
	"context"
	"fmt"
	"time"

	"github.com/jpillora/backoff"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/config"
	"github.com/baysao/massbitprotocol/pkg/hub"
	"github.com/baysao/massbitprotocol/pkg/types"
)

const (
	// maxConcurrentFetches bounds parallel block fetches per ingestor.
	maxConcurrentFetches = 8

	// maxFetchAttempts is the per-block retry budget before the block
	// is skipped and a gap is recorded.
	maxFetchAttempts = 5

	// rpcRateLimit caps upstream RPC calls per second.
	rpcRateLimit = 50
)

// Ingestor follows one chain network's head and publishes ordered
// envelopes to its hub topic. Run retries upstream failures with backoff
// and returns only when ctx is cancelled; a closed head subscription
// does not end it.
type Ingestor interface {
	Run(ctx context.Context) error
}

// New builds the ingestor for a chain key. An unsupported chain type is
// a configuration error.
func New(cfg config.ChainConfig, key types.ChainKey, pub *hub.Publisher) (Ingestor, error) {
	switch key.Chain {
	case proto.ChainType_Ethereum:
		return newEthereumIngestor(cfg, key, pub), nil
	case proto.ChainType_Solana:
		return newSolanaIngestor(cfg, key, pub), nil
	case proto.ChainType_Substrate:
		return newSubstrateIngestor(cfg, key, pub), nil
	default:
		return nil, fmt.Errorf("ingestor: unsupported chain type %d", key.Chain)
	}
}

func reconnectBackoff() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    time.Second,
		Max:    30 * time.Second,
		Factor: 2,
		Jitter: true,
	}
}

func fetchBackoff() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    10 * time.Second,
		Factor: 2,
		Jitter: true,
	}
}

// tipTracker turns a stream of stable-tip observations into contiguous
// (from, to] fetch ranges. The first observation only anchors the
// cursor; emission starts with the next stable advance.
type tipTracker struct {
	lastEmitted uint64
	primed      bool
}

// advance reports the range of blocks newly stable at tip. ok is false
// when nothing is to be fetched for this observation.
func (t *tipTracker) advance(stable uint64) (from, to uint64, ok bool) {
	if !t.primed {
		t.lastEmitted = stable
		t.primed = true
		return 0, 0, false
	}
	if stable <= t.lastEmitted {
		return 0, 0, false
	}
	return t.lastEmitted, stable, true
}

// emitted records that every block up to and including to was
// published (or gap-skipped).
func (t *tipTracker) emitted(to uint64) {
	t.lastEmitted = to
}

// fetchFunc fetches one block and returns its envelopes in intra-block
// order. A nil slice with a nil error means the block was skipped.
type fetchFunc func(ctx context.Context, number uint64) ([]*proto.GenericDataProto, error)

// fetchOrdered fetches blocks (from, to] in parallel with bounded
// concurrency and publishes their envelopes strictly in block order.
// Blocks that exhaust their retry budget are skipped; the caller's gap
// callback records them.
func fetchOrdered(ctx context.Context, pub *hub.Publisher, from, to uint64, fetch fetchFunc, onGap func(number uint64)) error {
	if to <= from {
		return nil
	}

	count := to - from
	results := make([]chan []*proto.GenericDataProto, count)
	sem := make(chan struct{}, maxConcurrentFetches)

	for i := uint64(0); i < count; i++ {
		results[i] = make(chan []*proto.GenericDataProto, 1)
		number := from + 1 + i
		ch := results[i]

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		go func() {
			defer func() { <-sem }()
			msgs := fetchWithRetry(ctx, number, fetch, onGap)
			ch <- msgs
		}()
	}

	// Reorder point: publish strictly by block number regardless of
	// fetch completion order.
	for i := uint64(0); i < count; i++ {
		select {
		case msgs := <-results[i]:
			for _, msg := range msgs {
				pub.Publish(msg)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func fetchWithRetry(ctx context.Context, number uint64, fetch fetchFunc, onGap func(number uint64)) []*proto.GenericDataProto {
	b := fetchBackoff()
	for attempt := 1; ; attempt++ {
		msgs, err := fetch(ctx, number)
		if err == nil {
			return msgs
		}
		if ctx.Err() != nil {
			return nil
		}
		if attempt >= maxFetchAttempts {
			onGap(number)
			return nil
		}
		select {
		case <-time.After(b.Duration()):
		case <-ctx.Done():
			return nil
		}
	}
}
