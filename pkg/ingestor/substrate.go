package ingestor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/config"
	"github.com/baysao/massbitprotocol/pkg/hub"
	"github.com/baysao/massbitprotocol/pkg/log"
	"github.com/baysao/massbitprotocol/pkg/metrics"
	"github.com/baysao/massbitprotocol/pkg/types"
)

// EventSource decodes the event records of a finalized block. Decoding
// system events requires the chain's runtime metadata, which ships with
// the node-specific toolchain, so the decoder is a pluggable
// collaborator; the default, noEvents, yields no events.
type EventSource interface {
	BlockEvents(ctx context.Context, blockHash string) ([]types.SubstrateEventRecord, error)
}

type noEvents struct{}

func (noEvents) BlockEvents(context.Context, string) ([]types.SubstrateEventRecord, error) {
	return nil, nil
}

// substrateHeader is the finalized-head notification payload. Number is
// hex-encoded.
type substrateHeader struct {
	ParentHash     string `json:"parentHash"`
	Number         string `json:"number"`
	StateRoot      string `json:"stateRoot"`
	ExtrinsicsRoot string `json:"extrinsicsRoot"`
}

type substrateIngestor struct {
	cfg    config.ChainConfig
	key    types.ChainKey
	pub    *hub.Publisher
	events EventSource
	logger zerolog.Logger

	lastEmitted uint64
	primed      bool
}

func newSubstrateIngestor(cfg config.ChainConfig, key types.ChainKey, pub *hub.Publisher) *substrateIngestor {
	return &substrateIngestor{
		cfg:    cfg,
		key:    key,
		pub:    pub,
		events: noEvents{},
		logger: log.WithChain("substrate", key.Network),
	}
}

// Run subscribes to finalized heads and, per head, publishes one Block
// envelope followed by one Event envelope per event record.
func (in *substrateIngestor) Run(ctx context.Context) error {
	defer in.pub.Close()

	b := reconnectBackoff()
	for {
		err := in.stream(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.UpstreamReconnects.WithLabelValues("substrate", in.key.Network).Inc()
		delay := b.Duration()
		in.logger.Warn().Err(err).Dur("retry_in", delay).Msg("Upstream connection lost, reconnecting")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (in *substrateIngestor) stream(ctx context.Context) error {
	ws, err := dialWS(ctx, in.cfg.WS)
	if err != nil {
		return err
	}
	defer ws.Close()

	heads, err := ws.Subscribe(ctx, "chain_subscribeFinalizedHeads")
	if err != nil {
		return err
	}
	in.logger.Info().Msg("Started substrate finalized-head subscription")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-ws.Err():
			return fmt.Errorf("finalized-head subscription: %w", err)
		case raw, ok := <-heads:
			if !ok {
				return fmt.Errorf("finalized-head subscription closed")
			}
			var head substrateHeader
			if err := json.Unmarshal(raw, &head); err != nil {
				in.logger.Warn().Err(err).Msg("Unparseable head notification")
				continue
			}
			number, err := parseHexNumber(head.Number)
			if err != nil {
				in.logger.Warn().Err(err).Str("number", head.Number).Msg("Unparseable head number")
				continue
			}
			if in.primed && number <= in.lastEmitted {
				continue
			}
			if err := in.onFinalizedHead(ctx, ws, head, number); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// A single bad block must not kill the subscription.
				in.logger.Error().Err(err).Uint64("block", number).Msg("Failed to process finalized head")
				continue
			}
			in.lastEmitted = number
			in.primed = true
		}
	}
}

func (in *substrateIngestor) onFinalizedHead(ctx context.Context, ws *wsClient, head substrateHeader, number uint64) error {
	var blockHash string
	if err := ws.Call(ctx, &blockHash, "chain_getBlockHash", number); err != nil {
		return fmt.Errorf("get block hash %d: %w", number, err)
	}

	var signed struct {
		Block types.SubstrateBlockData `json:"block"`
	}
	if err := ws.Call(ctx, &signed, "chain_getBlock", blockHash); err != nil {
		return fmt.Errorf("get block %d: %w", number, err)
	}

	events, err := in.events.BlockEvents(ctx, blockHash)
	if err != nil {
		return fmt.Errorf("get events %d: %w", number, err)
	}

	block := &types.SubstrateBlock{
		Version:   types.SubstrateVersion,
		Timestamp: time.Now().Unix(),
		Block:     signed.Block,
		Events:    events,
	}
	payload, err := block.Encode()
	if err != nil {
		in.logger.Error().Err(err).Uint64("block", number).Msg("Failed to encode block")
		return nil
	}

	in.pub.Publish(&proto.GenericDataProto{
		ChainType:   proto.ChainType_Substrate,
		Version:     types.SubstrateVersion,
		DataType:    proto.DataType_Block,
		BlockHash:   blockHash,
		BlockNumber: number,
		Payload:     payload,
	})
	metrics.BlocksIngested.WithLabelValues("substrate", in.key.Network).Inc()

	for i := range events {
		eventPayload, err := events[i].Encode()
		if err != nil {
			continue
		}
		in.pub.Publish(&proto.GenericDataProto{
			ChainType:   proto.ChainType_Substrate,
			Version:     types.SubstrateVersion,
			DataType:    proto.DataType_Event,
			BlockHash:   blockHash,
			BlockNumber: number,
			Payload:     eventPayload,
		})
	}
	return nil
}

func parseHexNumber(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
}
