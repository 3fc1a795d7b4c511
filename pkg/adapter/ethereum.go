package adapter

import (
	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/ethereum"
	"github.com/baysao/massbitprotocol/pkg/log"
	"github.com/baysao/massbitprotocol/pkg/store"
	"github.com/baysao/massbitprotocol/pkg/types"
)

// EthereumHandlerProxy matches envelopes against the indexer's data
// sources and dispatches decoded triggers to the adapter.
type EthereumHandlerProxy struct {
	name        string
	handler     EthereumHandler
	dataSources []*ethereum.DataSource
}

func NewEthereumHandlerProxy(handler EthereumHandler, dataSources []*ethereum.DataSource) *EthereumHandlerProxy {
	return &EthereumHandlerProxy{name: "ethereum", handler: handler, dataSources: dataSources}
}

func (p *EthereumHandlerProxy) HandleMessage(data *proto.GenericDataProto, state *store.IndexerState) error {
	triggers, err := p.triggersFromEnvelope(data)
	if err != nil {
		return err
	}

	for _, trigger := range triggers {
		if err := p.dispatch(trigger, state); err != nil {
			return err
		}
	}
	return state.Flush(data.GetBlockHash(), data.GetBlockNumber())
}

// triggersFromEnvelope expands one block envelope into its matchable
// triggers: the block trigger followed by one log trigger per receipt
// log. The block is the only trigger source — log triggers are always
// derived from it, never from standalone envelopes, so no log can be
// dispatched twice.
func (p *EthereumHandlerProxy) triggersFromEnvelope(data *proto.GenericDataProto) ([]ethereum.Trigger, error) {
	if data.GetDataType() != proto.DataType_Block {
		return nil, NewError("%s adapter does not support data type %s", p.name, data.GetDataType())
	}

	block, err := types.DecodeEthereumBlock(data.GetPayload())
	if err != nil {
		return nil, &DecodeError{err: err}
	}
	triggers := []ethereum.Trigger{
		ethereum.BlockTrigger{Block: block, Kind: ethereum.BlockTriggerEvery},
	}
	for _, lg := range block.Logs {
		triggers = append(triggers, ethereum.LogTrigger{Log: lg})
	}
	return triggers, nil
}

func (p *EthereumHandlerProxy) dispatch(trigger ethereum.Trigger, state *store.IndexerState) error {
	logger := log.WithComponent(p.name + "-adapter")

	for _, ds := range p.dataSources {
		matched, err := ds.MatchAndDecode(trigger)
		if err != nil {
			return NewError("match trigger against %s: %v", ds.Name, err)
		}
		if matched == nil {
			continue
		}
		logger.Debug().
			Str("data_source", ds.Name).
			Str("handler", matched.Handler).
			Msg("Dispatching trigger")
		if err := invoke(state, p.name, func() error {
			return p.handler.HandleTrigger(matched)
		}); err != nil {
			return err
		}
	}
	return nil
}
