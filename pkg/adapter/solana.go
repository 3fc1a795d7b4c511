package adapter

import (
	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/log"
	"github.com/baysao/massbitprotocol/pkg/store"
	"github.com/baysao/massbitprotocol/pkg/types"
)

// SolanaHandlerProxy decodes solana envelopes and drives the adapter's
// block, transaction and log-message handlers.
type SolanaHandlerProxy struct {
	handler SolanaHandler
}

func NewSolanaHandlerProxy(handler SolanaHandler) *SolanaHandlerProxy {
	return &SolanaHandlerProxy{handler: handler}
}

func (p *SolanaHandlerProxy) HandleMessage(data *proto.GenericDataProto, state *store.IndexerState) error {
	logger := log.WithComponent("solana-adapter")

	if data.GetDataType() != proto.DataType_Block {
		return NewError("solana adapter does not support data type %s", data.GetDataType())
	}

	encoded, err := types.DecodeSolanaEncodedBlock(data.GetPayload())
	if err != nil {
		return &DecodeError{err: err}
	}
	block := types.ConvertSolanaEncodedBlock(encoded)
	logger.Debug().
		Uint64("block", data.GetBlockNumber()).
		Str("hash", block.Block.Blockhash).
		Msg("Received block")

	if err := invoke(state, "solana", func() error {
		return p.handler.HandleBlock(block)
	}); err != nil {
		return err
	}

	for _, origin := range block.Block.Transactions {
		tx := origin
		var logMessages []string
		success := true
		if tx.Meta != nil {
			logMessages = tx.Meta.LogMessages
			success = tx.Meta.Succeeded()
		}

		transaction := &types.SolanaTransaction{
			BlockNumber: data.GetBlockNumber(),
			Transaction: tx,
			LogMessages: logMessages,
			Success:     success,
		}
		if err := invoke(state, "solana", func() error {
			return p.handler.HandleTransaction(transaction)
		}); err != nil {
			return err
		}

		messages := &types.SolanaLogMessages{
			BlockNumber: data.GetBlockNumber(),
			LogMessages: logMessages,
			Transaction: tx,
		}
		if err := invoke(state, "solana", func() error {
			return p.handler.HandleLogMessages(messages)
		}); err != nil {
			return err
		}
	}

	return state.Flush(data.GetBlockHash(), data.GetBlockNumber())
}
