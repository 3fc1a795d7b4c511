package consumer

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/adapter"
	"github.com/baysao/massbitprotocol/pkg/client"
	"github.com/baysao/massbitprotocol/pkg/log"
	"github.com/baysao/massbitprotocol/pkg/metrics"
	"github.com/baysao/massbitprotocol/pkg/storage"
	"github.com/baysao/massbitprotocol/pkg/store"
	"github.com/baysao/massbitprotocol/pkg/types"
)

const (
	// GetBlockTimeout bounds each stream receive.
	GetBlockTimeout = 30 * time.Second

	// GetStreamTimeout is the delay before retrying a failed stream
	// open.
	GetStreamTimeout = 30 * time.Second
)

// Config wires one consumer loop.
type Config struct {
	IndexerID   string
	AdapterName string
	ChainKey    types.ChainKey
	StartBlock  uint64

	Client   *client.Client
	Adapters *adapter.Manager
	State    *store.IndexerState
	Cursors  *storage.BoltStore
}

// Consumer pulls envelopes for one indexer, dispatches them to its
// handler proxy, and tracks the resumable cursor. The cursor advances
// on handler success and past undecodable envelopes; an envelope whose
// handler fails is replayed after the next reconnect.
type Consumer struct {
	cfg    Config
	logger zerolog.Logger

	// nextBlock is the authoritative cursor: the block the next opened
	// stream starts from.
	nextBlock uint64
}

// New builds the consumer, restoring a persisted cursor when one exists
// above the data source's start block.
func New(cfg Config) (*Consumer, error) {
	c := &Consumer{
		cfg:       cfg,
		logger:    log.WithIndexerID(cfg.IndexerID),
		nextBlock: cfg.StartBlock,
	}
	if cfg.Cursors != nil {
		saved, ok, err := cfg.Cursors.GetCursor(cfg.IndexerID)
		if err != nil {
			return nil, err
		}
		if ok && saved > c.nextBlock {
			c.nextBlock = saved
		}
	}
	return c, nil
}

// Run drives the stream state machine until ctx is cancelled or a
// configuration error halts the indexer.
func (c *Consumer) Run(ctx context.Context) error {
	// An unresolvable proxy is fatal for this indexer, never retried.
	proxy, err := c.cfg.Adapters.Proxy(c.cfg.IndexerID, c.cfg.AdapterName)
	if err != nil {
		c.logger.Error().Err(err).Msg("Halting indexer, adapter not loadable")
		return err
	}

	c.logger.Info().
		Str("chain", c.cfg.ChainKey.Chain.String()).
		Str("network", c.cfg.ChainKey.Network).
		Uint64("start_block", c.nextBlock).
		Msg("Start processing blocks")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		stream, cancel, err := c.openStream(ctx)
		if err != nil {
			c.logger.Info().Err(err).Dur("retry_in", GetStreamTimeout).Msg("Cannot open stream, waiting")
			select {
			case <-time.After(GetStreamTimeout):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		c.consume(ctx, stream, proxy)
		cancel()
		metrics.ConsumerReconnects.WithLabelValues(c.cfg.IndexerID).Inc()
	}
}

func (c *Consumer) openStream(ctx context.Context) (proto.Streamout_ListBlocksClient, context.CancelFunc, error) {
	c.logger.Info().Uint64("from_block", c.nextBlock).Msg("Opening new stream")

	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := c.cfg.Client.ListBlocks(streamCtx, &proto.GetBlocksRequest{
		StartBlockNumber: c.nextBlock,
		EndBlockNumber:   0,
		ChainType:        c.cfg.ChainKey.Chain,
		Network:          c.cfg.ChainKey.Network,
	})
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return stream, cancel, nil
}

// consume reads the stream until it fails or times out; the caller
// reconnects from the cursor.
func (c *Consumer) consume(ctx context.Context, stream proto.Streamout_ListBlocksClient, proxy adapter.HandlerProxy) {
	type result struct {
		data *proto.GenericDataProto
		err  error
	}
	results := make(chan result, 1)
	go func() {
		for {
			data, err := stream.Recv()
			select {
			case results <- result{data: data, err: err}:
			case <-stream.Context().Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(GetBlockTimeout):
			c.logger.Warn().Dur("timeout", GetBlockTimeout).Msg("Stream receive timed out, destroying stream")
			return
		case res := <-results:
			if res.err != nil {
				c.logger.Info().Err(res.err).Msg("Stream closed, reconnecting")
				return
			}
			c.process(res.data, proxy)
		}
	}
}

func (c *Consumer) process(data *proto.GenericDataProto, proxy adapter.HandlerProxy) {
	c.logger.Debug().
		Str("chain", data.GetChainType().String()).
		Uint64("block", data.GetBlockNumber()).
		Str("hash", data.GetBlockHash()).
		Str("data_type", data.GetDataType().String()).
		Msg("Received data")

	if data.GetChainType() != c.cfg.ChainKey.Chain {
		c.logger.Error().
			Str("received", data.GetChainType().String()).
			Str("expected", c.cfg.ChainKey.Chain.String()).
			Msg("Chain type is not matched, skipping")
		return
	}

	err := proxy.HandleMessage(data, c.cfg.State)
	switch {
	case err == nil:
		c.advance(data.GetBlockNumber() + 1)
	case isDecodeError(err):
		// Poison-pill isolation: skip the envelope, keep the stream.
		c.logger.Error().Err(err).Uint64("block", data.GetBlockNumber()).Msg("Undecodable envelope, skipping")
		c.advance(data.GetBlockNumber() + 1)
	default:
		// Handler failure: the cursor stays put, so the envelope is
		// replayed on the next reconnect.
		c.logger.Error().Err(err).Uint64("block", data.GetBlockNumber()).Msg("Error while handling received message")
		c.nextBlock = data.GetBlockNumber()
	}
}

func (c *Consumer) advance(next uint64) {
	if next < c.nextBlock {
		return
	}
	c.nextBlock = next
	metrics.CursorHeight.WithLabelValues(c.cfg.IndexerID).Set(float64(next))
	if c.cfg.Cursors != nil {
		if err := c.cfg.Cursors.SaveCursor(c.cfg.IndexerID, next); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to persist cursor")
		}
	}
}

func isDecodeError(err error) bool {
	var decodeErr *adapter.DecodeError
	return errors.As(err, &decodeErr)
}
