package ingestor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	ethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/config"
	"github.com/baysao/massbitprotocol/pkg/hub"
	"github.com/baysao/massbitprotocol/pkg/log"
	"github.com/baysao/massbitprotocol/pkg/metrics"
	"github.com/baysao/massbitprotocol/pkg/types"
)

// slotNotification is the slotSubscribe push payload. Root is the
// latest finalized slot.
type slotNotification struct {
	Parent uint64 `json:"parent"`
	Root   uint64 `json:"root"`
	Slot   uint64 `json:"slot"`
}

type solanaIngestor struct {
	cfg     config.ChainConfig
	key     types.ChainKey
	pub     *hub.Publisher
	limiter *rate.Limiter
	logger  zerolog.Logger

	tip tipTracker
}

func newSolanaIngestor(cfg config.ChainConfig, key types.ChainKey, pub *hub.Publisher) *solanaIngestor {
	if cfg.FinalityMargin == 0 {
		cfg.FinalityMargin = config.SolanaFinalityMargin
	}
	return &solanaIngestor{
		cfg:     cfg,
		key:     key,
		pub:     pub,
		limiter: rate.NewLimiter(rpcRateLimit, rpcRateLimit),
		logger:  log.WithChain("solana", key.Network),
	}
}

// Run subscribes to slot notifications and publishes every slot that
// clears the availability margin, in order.
func (in *solanaIngestor) Run(ctx context.Context) error {
	defer in.pub.Close()

	b := reconnectBackoff()
	for {
		err := in.stream(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.UpstreamReconnects.WithLabelValues("solana", in.key.Network).Inc()
		delay := b.Duration()
		in.logger.Warn().Err(err).Dur("retry_in", delay).Msg("Upstream connection lost, reconnecting")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (in *solanaIngestor) stream(ctx context.Context) error {
	ws, err := dialWS(ctx, in.cfg.WS)
	if err != nil {
		return err
	}
	defer ws.Close()

	rpcClient, err := ethrpc.DialContext(ctx, in.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial rpc: %w", err)
	}
	defer rpcClient.Close()

	slots, err := ws.Subscribe(ctx, "slotSubscribe")
	if err != nil {
		return err
	}
	in.logger.Info().Uint64("finality_margin", in.cfg.FinalityMargin).Msg("Started solana slot subscription")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-ws.Err():
			return fmt.Errorf("slot subscription: %w", err)
		case raw, ok := <-slots:
			if !ok {
				return fmt.Errorf("slot subscription closed")
			}
			var note slotNotification
			if err := json.Unmarshal(raw, &note); err != nil {
				in.logger.Warn().Err(err).Msg("Unparseable slot notification")
				continue
			}
			if err := in.onRoot(ctx, rpcClient, note.Root); err != nil {
				return err
			}
		}
	}
}

func (in *solanaIngestor) onRoot(ctx context.Context, client *ethrpc.Client, root uint64) error {
	if root < in.cfg.FinalityMargin {
		return nil
	}
	from, to, ok := in.tip.advance(root - in.cfg.FinalityMargin)
	if !ok {
		return nil
	}

	in.logger.Debug().
		Uint64("stable", to).
		Uint64("pending", to-from).
		Msg("Latest stable slot")

	fetch := func(ctx context.Context, number uint64) ([]*proto.GenericDataProto, error) {
		return in.fetchBlock(ctx, client, number)
	}
	if err := fetchOrdered(ctx, in.pub, from, to, fetch, in.onGap); err != nil {
		return err
	}
	in.tip.emitted(to)
	return nil
}

// getBlockParams asks for base64 transaction encoding, matching the
// payload codec the consumer decodes.
var getBlockParams = map[string]interface{}{
	"encoding":                       "base64",
	"transactionDetails":             "full",
	"rewards":                        false,
	"maxSupportedTransactionVersion": 0,
}

func (in *solanaIngestor) fetchBlock(ctx context.Context, client *ethrpc.Client, slot uint64) ([]*proto.GenericDataProto, error) {
	if err := in.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	timer := metrics.NewTimer()

	var block types.SolanaBlockData
	if err := client.CallContext(ctx, &block, "getBlock", slot, getBlockParams); err != nil {
		return nil, fmt.Errorf("get block %d: %w", slot, err)
	}
	timer.ObserveDuration(metrics.BlockFetchDuration.WithLabelValues("solana"))

	encoded := &types.SolanaEncodedBlock{
		Version:         types.SolanaVersion,
		Block:           block,
		Timestamp:       block.BlockTime,
		ListLogMessages: types.LogMessagesFromBlock(&block),
	}
	payload, err := encoded.Encode()
	if err != nil {
		in.logger.Error().Err(err).Uint64("slot", slot).Msg("Failed to encode block")
		return nil, nil
	}

	metrics.BlocksIngested.WithLabelValues("solana", in.key.Network).Inc()
	return []*proto.GenericDataProto{{
		ChainType:   proto.ChainType_Solana,
		Version:     types.SolanaVersion,
		DataType:    proto.DataType_Block,
		BlockHash:   block.Blockhash,
		BlockNumber: slot,
		Payload:     payload,
	}}, nil
}

func (in *solanaIngestor) onGap(number uint64) {
	metrics.IngestGaps.WithLabelValues("solana", in.key.Network).Inc()
	in.logger.Error().Uint64("slot", number).Msg("Giving up on slot after repeated fetch failures")
}
