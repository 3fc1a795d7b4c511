package adapter

import (
	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/log"
	"github.com/baysao/massbitprotocol/pkg/store"
	"github.com/baysao/massbitprotocol/pkg/types"
)

// SubstrateHandlerProxy decodes substrate envelopes and drives the
// adapter's block, extrinsic and event handlers.
type SubstrateHandlerProxy struct {
	handler SubstrateHandler
}

func NewSubstrateHandlerProxy(handler SubstrateHandler) *SubstrateHandlerProxy {
	return &SubstrateHandlerProxy{handler: handler}
}

func (p *SubstrateHandlerProxy) HandleMessage(data *proto.GenericDataProto, state *store.IndexerState) error {
	logger := log.WithComponent("substrate-adapter")

	switch data.GetDataType() {
	case proto.DataType_Block:
		block, err := types.DecodeSubstrateBlock(data.GetPayload())
		if err != nil {
			return &DecodeError{err: err}
		}
		logger.Debug().Uint64("block", block.Block.Header.Number).Msg("Received block")

		for _, extrinsic := range types.ExtrinsicsFromBlock(block) {
			ext := extrinsic
			if err := invoke(state, "substrate", func() error {
				return p.handler.HandleExtrinsic(&ext)
			}); err != nil {
				return err
			}
		}
		if err := invoke(state, "substrate", func() error {
			return p.handler.HandleBlock(block)
		}); err != nil {
			return err
		}
		return state.Flush(data.GetBlockHash(), data.GetBlockNumber())

	case proto.DataType_Event:
		event, err := types.DecodeSubstrateEvent(data.GetPayload())
		if err != nil {
			return &DecodeError{err: err}
		}
		if err := invoke(state, "substrate", func() error {
			return p.handler.HandleEvent(event)
		}); err != nil {
			return err
		}
		return state.Flush(data.GetBlockHash(), data.GetBlockNumber())

	default:
		return NewError("substrate adapter does not support data type %s", data.GetDataType())
	}
}
