package ethereum

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/baysao/massbitprotocol/pkg/log"
)

// EventHandler binds one ABI event signature to a handler name. The
// signature uses the manifest form, e.g.
// "Transfer(indexed address,indexed address,uint256)".
type EventHandler struct {
	Event   string `yaml:"event"`
	Handler string `yaml:"handler"`
}

// Topic0 is the keccak hash of the normalized event signature.
func (h EventHandler) Topic0() common.Hash {
	sig := strings.ReplaceAll(h.Event, "indexed ", "")
	return crypto.Keccak256Hash([]byte(sig))
}

// CallHandler binds one function signature to a handler name.
type CallHandler struct {
	Function string `yaml:"function"`
	Handler  string `yaml:"handler"`
}

// MethodID is the first four keccak bytes of the function signature.
func (h CallHandler) MethodID() [4]byte {
	hash := crypto.Keccak256([]byte(h.Function))
	var id [4]byte
	copy(id[:], hash[:4])
	return id
}

// BlockHandlerFilterCall selects block handlers that fire only on
// blocks containing a call to the data source address.
const BlockHandlerFilterCall = "call"

// BlockHandler binds block triggers to a handler name.
type BlockHandler struct {
	Handler string `yaml:"handler"`
	Filter  string `yaml:"filter"`
}

// Mapping is the handler table of one data source.
type Mapping struct {
	EventHandlers []EventHandler `yaml:"eventHandlers"`
	CallHandlers  []CallHandler  `yaml:"callHandlers"`
	BlockHandlers []BlockHandler `yaml:"blockHandlers"`
}

// DataSource is one contract (or wildcard) subscription of an indexer.
// A nil Address matches any contract.
type DataSource struct {
	Kind       string
	Network    string
	Name       string
	Address    *common.Address
	StartBlock uint64
	Mapping    Mapping

	abi abi.ABI
}

// NewDataSource parses the contract ABI JSON and builds the data source.
func NewDataSource(name, network string, address *common.Address, startBlock uint64, abiJSON string, mapping Mapping) (*DataSource, error) {
	contractABI, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("data source %q: parse abi: %w", name, err)
	}
	return &DataSource{
		Kind:       "ethereum/contract",
		Network:    network,
		Name:       name,
		Address:    address,
		StartBlock: startBlock,
		Mapping:    mapping,
		abi:        contractABI,
	}, nil
}

// handlersForLog selects the event handlers whose topic0 equals the
// log's first topic.
func (ds *DataSource) handlersForLog(lg *ethtypes.Log) ([]EventHandler, error) {
	if len(lg.Topics) == 0 {
		return nil, fmt.Errorf("ethereum event has no topics")
	}
	topic0 := lg.Topics[0]

	var handlers []EventHandler
	for _, handler := range ds.Mapping.EventHandlers {
		if handler.Topic0() == topic0 {
			handlers = append(handlers, handler)
		}
	}
	return handlers, nil
}

// handlerForCall selects the call handler whose method id matches the
// first four bytes of the call input.
func (ds *DataSource) handlerForCall(call *Call) (*CallHandler, error) {
	if len(call.Input) < 4 {
		return nil, fmt.Errorf("ethereum call has input with less than 4 bytes")
	}
	var target [4]byte
	copy(target[:], call.Input[:4])

	for _, handler := range ds.Mapping.CallHandlers {
		if handler.MethodID() == target {
			h := handler
			return &h, nil
		}
	}
	return nil, nil
}

// handlerForBlock selects the unfiltered handler for Every triggers and
// the call-filtered handler for WithCallTo triggers.
func (ds *DataSource) handlerForBlock(kind BlockTriggerKind) *BlockHandler {
	for _, handler := range ds.Mapping.BlockHandlers {
		switch kind {
		case BlockTriggerEvery:
			if handler.Filter == "" {
				h := handler
				return &h
			}
		case BlockTriggerWithCallTo:
			if handler.Filter == BlockHandlerFilterCall {
				h := handler
				return &h
			}
		}
	}
	return nil
}

// matchesTriggerAddress reports whether the trigger's contract address
// matches this data source. Wildcard data sources match everything;
// unfiltered block triggers match every data source.
func (ds *DataSource) matchesTriggerAddress(trigger Trigger) bool {
	if ds.Address == nil {
		return true
	}

	var addr common.Address
	switch t := trigger.(type) {
	case BlockTrigger:
		if t.Kind == BlockTriggerEvery {
			return true
		}
		addr = t.CallTo
	case CallTrigger:
		addr = t.Call.To
	case LogTrigger:
		addr = t.Log.Address
	default:
		return false
	}
	return *ds.Address == addr
}

// MatchAndDecode checks whether the trigger matches this data source
// and, if so, decodes it into the handler invocation. A nil result with
// a nil error means no match.
func (ds *DataSource) MatchAndDecode(trigger Trigger) (*MappingTrigger, error) {
	if !ds.matchesTriggerAddress(trigger) {
		return nil, nil
	}
	if trigger.BlockNumber() < ds.StartBlock {
		return nil, nil
	}

	switch t := trigger.(type) {
	case BlockTrigger:
		handler := ds.handlerForBlock(t.Kind)
		if handler == nil {
			return nil, nil
		}
		return &MappingTrigger{Handler: handler.Handler, Block: t.Block}, nil

	case LogTrigger:
		return ds.matchLog(t)

	case CallTrigger:
		return ds.matchCall(t)
	}
	return nil, nil
}

func (ds *DataSource) matchLog(t LogTrigger) (*MappingTrigger, error) {
	potential, err := ds.handlersForLog(t.Log)
	if err != nil {
		return nil, err
	}

	// Filter out handlers whose event ABI cannot decode the log. This
	// is common for overloaded events sharing a topic0 but differing in
	// which params are indexed.
	type decoded struct {
		handler EventHandler
		params  map[string]interface{}
	}
	var matching []decoded
	for _, handler := range potential {
		event, err := ds.eventForSignature(handler.Event)
		if err != nil {
			return nil, err
		}
		params, err := ds.decodeLog(event, t.Log)
		if err != nil {
			log.Logger.Trace().
				Str("handler", handler.Handler).
				Str("event", handler.Event).
				Err(err).
				Msg("Skipping handler, event parameters do not match the event signature")
			continue
		}
		matching = append(matching, decoded{handler: handler, params: params})
	}

	if len(matching) == 0 {
		return nil, nil
	}
	if len(matching) > 1 {
		return nil, fmt.Errorf("multiple handlers defined for event %q, only one is supported", matching[0].handler.Event)
	}

	return &MappingTrigger{
		Handler: matching[0].handler.Handler,
		Log:     t.Log,
		Params:  matching[0].params,
	}, nil
}

func (ds *DataSource) matchCall(t CallTrigger) (*MappingTrigger, error) {
	handler, err := ds.handlerForCall(t.Call)
	if err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, nil
	}

	method, err := ds.abi.MethodById(t.Call.Input[:4])
	if err != nil {
		return nil, fmt.Errorf("function for call %q not found in abi of data source %q: %w", handler.Function, ds.Name, err)
	}
	params := make(map[string]interface{})
	if err := method.Inputs.UnpackIntoMap(params, t.Call.Input[4:]); err != nil {
		return nil, fmt.Errorf("decode inputs of call to %q: %w", handler.Function, err)
	}

	return &MappingTrigger{
		Handler: handler.Handler,
		Call:    t.Call,
		Params:  params,
	}, nil
}

// eventForSignature finds the ABI event whose normalized signature
// equals the handler's event signature.
func (ds *DataSource) eventForSignature(signature string) (*abi.Event, error) {
	want := strings.ReplaceAll(signature, "indexed ", "")
	for _, event := range ds.abi.Events {
		if event.Sig == want {
			e := event
			return &e, nil
		}
	}
	return nil, fmt.Errorf("event with signature %q not found in abi of data source %q", signature, ds.Name)
}

// decodeLog decodes indexed params from topics and the rest from data.
func (ds *DataSource) decodeLog(event *abi.Event, lg *ethtypes.Log) (map[string]interface{}, error) {
	var indexed abi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if len(lg.Topics) != len(indexed)+1 {
		return nil, fmt.Errorf("event %s expects %d indexed params, log has %d topics", event.Name, len(indexed), len(lg.Topics))
	}

	params := make(map[string]interface{})
	if err := abi.ParseTopicsIntoMap(params, indexed, lg.Topics[1:]); err != nil {
		return nil, err
	}
	if err := event.Inputs.NonIndexed().UnpackIntoMap(params, lg.Data); err != nil {
		return nil, err
	}
	return params, nil
}
