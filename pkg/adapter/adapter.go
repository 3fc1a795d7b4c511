package adapter

import (
	"fmt"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/ethereum"
	"github.com/baysao/massbitprotocol/pkg/metrics"
	"github.com/baysao/massbitprotocol/pkg/store"
	"github.com/baysao/massbitprotocol/pkg/types"
)

// HandlerProxy decodes an envelope and drives the right handlers of one
// adapter. Every adapter proxy implements this interface.
type HandlerProxy interface {
	HandleMessage(data *proto.GenericDataProto, state *store.IndexerState) error
}

// SubstrateHandler is the handler surface a substrate adapter exports.
type SubstrateHandler interface {
	HandleBlock(block *types.SubstrateBlock) error
	HandleExtrinsic(extrinsic *types.SubstrateExtrinsic) error
	HandleEvent(event *types.SubstrateEventRecord) error
}

// SolanaHandler is the handler surface a solana adapter exports.
type SolanaHandler interface {
	HandleBlock(block *types.SolanaBlock) error
	HandleTransaction(tx *types.SolanaTransaction) error
	HandleLogMessages(logs *types.SolanaLogMessages) error
}

// EthereumHandler receives matched, decoded triggers. The handler name
// inside the trigger selects the mapping function.
type EthereumHandler interface {
	HandleTrigger(trigger *ethereum.MappingTrigger) error
}

// Error marks an adapter-level failure: unsupported data, missing
// handler, dispatch problems.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

func NewError(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// DecodeError marks an undecodable payload. The consumer skips the
// envelope and advances its cursor so one poison envelope cannot wedge
// the stream.
type DecodeError struct {
	err error
}

func (e *DecodeError) Error() string {
	return e.err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

func NewDecodeError(err error) *DecodeError {
	return &DecodeError{err: err}
}

// invoke runs one handler call inside the entity cache's handler
// boundary: ops of a failed handler are discarded wholesale.
func invoke(state *store.IndexerState, adapterName string, fn func() error) error {
	state.EnterHandler()
	timer := metrics.NewTimer()
	err := fn()
	timer.ObserveDuration(metrics.HandlerDuration.WithLabelValues(adapterName))
	if err != nil {
		metrics.HandlerFailures.WithLabelValues(adapterName).Inc()
		state.ExitHandlerAndDiscardChanges()
		return err
	}
	state.ExitHandler()
	return nil
}
