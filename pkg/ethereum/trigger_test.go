package ethereum

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baysao/massbitprotocol/pkg/types"
)

const erc20ABI = `[
  {"type":"event","name":"Transfer","anonymous":false,"inputs":[
    {"name":"from","type":"address","indexed":true},
    {"name":"to","type":"address","indexed":true},
    {"name":"value","type":"uint256","indexed":false}]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[
    {"name":"to","type":"address"},
    {"name":"value","type":"uint256"}],
   "outputs":[{"type":"bool"}]}
]`

var (
	contractAddr = common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f")
	otherAddr    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	fromAddr     = common.HexToAddress("0x2222222222222222222222222222222222222222")
	toAddr       = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func testBlock(number uint64) *types.EthereumBlock {
	return &types.EthereumBlock{
		Header: &ethtypes.Header{Number: new(big.Int).SetUint64(number)},
	}
}

func transferEventSig() common.Hash {
	return crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
}

func transferLog(address common.Address, blockNumber uint64) *ethtypes.Log {
	value := common.LeftPadBytes(big.NewInt(1000).Bytes(), 32)
	return &ethtypes.Log{
		Address: address,
		Topics: []common.Hash{
			transferEventSig(),
			common.BytesToHash(common.LeftPadBytes(fromAddr.Bytes(), 32)),
			common.BytesToHash(common.LeftPadBytes(toAddr.Bytes(), 32)),
		},
		Data:        value,
		BlockNumber: blockNumber,
	}
}

func newTestDataSource(t *testing.T, address *common.Address, mapping Mapping) *DataSource {
	t.Helper()
	ds, err := NewDataSource("erc20", "mainnet", address, 0, erc20ABI, mapping)
	require.NoError(t, err)
	return ds
}

func TestLogMatchDecodesParams(t *testing.T) {
	ds := newTestDataSource(t, &contractAddr, Mapping{
		EventHandlers: []EventHandler{
			{Event: "Transfer(indexed address,indexed address,uint256)", Handler: "handleTransfer"},
		},
	})

	matched, err := ds.MatchAndDecode(LogTrigger{Log: transferLog(contractAddr, 100)})
	require.NoError(t, err)
	require.NotNil(t, matched)

	assert.Equal(t, "handleTransfer", matched.Handler)
	assert.Equal(t, fromAddr, matched.Params["from"])
	assert.Equal(t, toAddr, matched.Params["to"])
	assert.Equal(t, big.NewInt(1000), matched.Params["value"])
}

func TestLogAddressFilter(t *testing.T) {
	ds := newTestDataSource(t, &contractAddr, Mapping{
		EventHandlers: []EventHandler{
			{Event: "Transfer(indexed address,indexed address,uint256)", Handler: "handleTransfer"},
		},
	})

	matched, err := ds.MatchAndDecode(LogTrigger{Log: transferLog(otherAddr, 100)})
	require.NoError(t, err)
	assert.Nil(t, matched)
}

// TestWildcardDataSourceMatchesAnyAddress: an unset address matches
// every contract.
func TestWildcardDataSourceMatchesAnyAddress(t *testing.T) {
	ds := newTestDataSource(t, nil, Mapping{
		EventHandlers: []EventHandler{
			{Event: "Transfer(indexed address,indexed address,uint256)", Handler: "handleTransfer"},
		},
	})

	matched, err := ds.MatchAndDecode(LogTrigger{Log: transferLog(otherAddr, 100)})
	require.NoError(t, err)
	assert.NotNil(t, matched)
}

func TestLogBelowStartBlockIgnored(t *testing.T) {
	ds, err := NewDataSource("erc20", "mainnet", &contractAddr, 500, erc20ABI, Mapping{
		EventHandlers: []EventHandler{
			{Event: "Transfer(indexed address,indexed address,uint256)", Handler: "handleTransfer"},
		},
	})
	require.NoError(t, err)

	matched, err := ds.MatchAndDecode(LogTrigger{Log: transferLog(contractAddr, 100)})
	require.NoError(t, err)
	assert.Nil(t, matched)
}

// TestUndecodableLogSkipped: a log whose topic count does not fit the
// event's indexed params is skipped, not an error. This is the
// overloaded-event case.
func TestUndecodableLogSkipped(t *testing.T) {
	ds := newTestDataSource(t, &contractAddr, Mapping{
		EventHandlers: []EventHandler{
			{Event: "Transfer(indexed address,indexed address,uint256)", Handler: "handleTransfer"},
		},
	})

	lg := transferLog(contractAddr, 100)
	lg.Topics = lg.Topics[:1] // topic0 only, indexed params missing

	matched, err := ds.MatchAndDecode(LogTrigger{Log: lg})
	require.NoError(t, err)
	assert.Nil(t, matched)
}

// TestDuplicateHandlersRejected: two handlers surviving decode for one
// log is a configuration error.
func TestDuplicateHandlersRejected(t *testing.T) {
	ds := newTestDataSource(t, &contractAddr, Mapping{
		EventHandlers: []EventHandler{
			{Event: "Transfer(indexed address,indexed address,uint256)", Handler: "handleA"},
			{Event: "Transfer(indexed address,indexed address,uint256)", Handler: "handleB"},
		},
	})

	_, err := ds.MatchAndDecode(LogTrigger{Log: transferLog(contractAddr, 100)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only one is supported")
}

func TestCallMatchDecodesInput(t *testing.T) {
	ds := newTestDataSource(t, &contractAddr, Mapping{
		CallHandlers: []CallHandler{
			{Function: "transfer(address,uint256)", Handler: "handleTransferCall"},
		},
	})

	methodID := crypto.Keccak256([]byte("transfer(address,uint256)"))[:4]
	input := append([]byte{}, methodID...)
	input = append(input, common.LeftPadBytes(toAddr.Bytes(), 32)...)
	input = append(input, common.LeftPadBytes(big.NewInt(42).Bytes(), 32)...)

	matched, err := ds.MatchAndDecode(CallTrigger{Call: &Call{
		From:        fromAddr,
		To:          contractAddr,
		Input:       input,
		BlockNumber: 100,
	}})
	require.NoError(t, err)
	require.NotNil(t, matched)

	assert.Equal(t, "handleTransferCall", matched.Handler)
	assert.Equal(t, toAddr, matched.Params["to"])
	assert.Equal(t, big.NewInt(42), matched.Params["value"])
}

func TestCallUnknownSelectorIgnored(t *testing.T) {
	ds := newTestDataSource(t, &contractAddr, Mapping{
		CallHandlers: []CallHandler{
			{Function: "transfer(address,uint256)", Handler: "handleTransferCall"},
		},
	})

	matched, err := ds.MatchAndDecode(CallTrigger{Call: &Call{
		To:          contractAddr,
		Input:       []byte{0xde, 0xad, 0xbe, 0xef, 0x00},
		BlockNumber: 100,
	}})
	require.NoError(t, err)
	assert.Nil(t, matched)
}

func TestCallShortInput(t *testing.T) {
	ds := newTestDataSource(t, &contractAddr, Mapping{
		CallHandlers: []CallHandler{
			{Function: "transfer(address,uint256)", Handler: "handleTransferCall"},
		},
	})

	_, err := ds.MatchAndDecode(CallTrigger{Call: &Call{
		To:          contractAddr,
		Input:       []byte{0x01, 0x02},
		BlockNumber: 100,
	}})
	assert.Error(t, err)
}

func TestBlockHandlerSelection(t *testing.T) {
	ds := newTestDataSource(t, &contractAddr, Mapping{
		BlockHandlers: []BlockHandler{
			{Handler: "handleEvery"},
			{Handler: "handleWithCall", Filter: BlockHandlerFilterCall},
		},
	})

	block := testBlock(100)

	matched, err := ds.MatchAndDecode(BlockTrigger{Block: block, Kind: BlockTriggerEvery})
	require.NoError(t, err)
	require.NotNil(t, matched)
	assert.Equal(t, "handleEvery", matched.Handler)

	matched, err = ds.MatchAndDecode(BlockTrigger{Block: block, Kind: BlockTriggerWithCallTo, CallTo: contractAddr})
	require.NoError(t, err)
	require.NotNil(t, matched)
	assert.Equal(t, "handleWithCall", matched.Handler)

	// WithCallTo against another contract does not match this source.
	matched, err = ds.MatchAndDecode(BlockTrigger{Block: block, Kind: BlockTriggerWithCallTo, CallTo: otherAddr})
	require.NoError(t, err)
	assert.Nil(t, matched)
}
