package ethereum

import (
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/baysao/massbitprotocol/pkg/types"
)

// BlockTriggerKind discriminates block triggers: Every fires on every
// block, WithCallTo only on blocks containing a call to a contract.
type BlockTriggerKind int

const (
	BlockTriggerEvery BlockTriggerKind = iota
	BlockTriggerWithCallTo
)

// Call is a normalized message call extracted from a transaction.
type Call struct {
	From        common.Address
	To          common.Address
	Value       string
	Input       []byte
	BlockNumber uint64
	TxHash      common.Hash
}

// Trigger is one matchable Ethereum datum: a block, a call, or a log.
type Trigger interface {
	BlockNumber() uint64
}

// BlockTrigger fires handlers registered for whole blocks.
type BlockTrigger struct {
	Block  *types.EthereumBlock
	Kind   BlockTriggerKind
	CallTo common.Address
}

func (t BlockTrigger) BlockNumber() uint64 {
	return t.Block.Header.Number.Uint64()
}

// CallTrigger fires call handlers.
type CallTrigger struct {
	Call *Call
}

func (t CallTrigger) BlockNumber() uint64 {
	return t.Call.BlockNumber
}

// LogTrigger fires event handlers.
type LogTrigger struct {
	Log *ethtypes.Log
}

func (t LogTrigger) BlockNumber() uint64 {
	return t.Log.BlockNumber
}

// MappingTrigger is a matched, decoded trigger ready for dispatch: the
// handler name plus the typed view the handler receives.
type MappingTrigger struct {
	Handler string
	Block   *types.EthereumBlock
	Log     *ethtypes.Log
	Call    *Call
	Params  map[string]interface{}
}
