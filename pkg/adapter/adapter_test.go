package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/ethereum"
	"github.com/baysao/massbitprotocol/pkg/store"
	"github.com/baysao/massbitprotocol/pkg/types"
)

// memStore is a minimal in-memory WritableStore recording flushes.
type memStore struct {
	entities map[store.EntityKey]store.Entity
	flushes  []flushCall
}

type flushCall struct {
	mods        []store.Modification
	blockHash   string
	blockNumber uint64
}

func newMemStore() *memStore {
	return &memStore{entities: make(map[store.EntityKey]store.Entity)}
}

func (s *memStore) Get(key store.EntityKey) (store.Entity, error) {
	return s.entities[key].Copy(), nil
}

func (s *memStore) GetMany(indexerID string, ids map[string][]string) (map[string][]store.Entity, error) {
	result := make(map[string][]store.Entity)
	for entityType, entityIDs := range ids {
		for _, id := range entityIDs {
			key := store.EntityKey{IndexerID: indexerID, EntityType: entityType, EntityID: id}
			if entity, ok := s.entities[key]; ok {
				result[entityType] = append(result[entityType], entity.Copy())
			}
		}
	}
	return result, nil
}

func (s *memStore) Flush(mods []store.Modification, blockHash string, blockNumber uint64) error {
	s.flushes = append(s.flushes, flushCall{mods: mods, blockHash: blockHash, blockNumber: blockNumber})
	for _, mod := range mods {
		switch mod.Kind {
		case store.ModRemove:
			delete(s.entities, mod.Key)
		default:
			s.entities[mod.Key] = mod.Data.Copy()
		}
	}
	return nil
}

// recordingSubstrateHandler writes one entity per call and records the
// call order.
type recordingSubstrateHandler struct {
	state *store.IndexerState
	calls []string
	fail  string
}

func (h *recordingSubstrateHandler) HandleBlock(block *types.SubstrateBlock) error {
	h.calls = append(h.calls, "block")
	if h.fail == "block" {
		return fmt.Errorf("block handler failed")
	}
	return h.state.Save("Block", store.Entity{"id": fmt.Sprint(block.Block.Header.Number), "n": block.Block.Header.Number})
}

func (h *recordingSubstrateHandler) HandleExtrinsic(ext *types.SubstrateExtrinsic) error {
	h.calls = append(h.calls, "extrinsic")
	if h.fail == "extrinsic" {
		return fmt.Errorf("extrinsic handler failed")
	}
	return nil
}

func (h *recordingSubstrateHandler) HandleEvent(event *types.SubstrateEventRecord) error {
	h.calls = append(h.calls, "event")
	return nil
}

func substrateBlockEnvelope(t *testing.T, number uint64, extrinsics int) *proto.GenericDataProto {
	t.Helper()
	block := &types.SubstrateBlock{
		Version: types.SubstrateVersion,
		Block: types.SubstrateBlockData{
			Header: types.SubstrateHeader{Number: number},
		},
	}
	for i := 0; i < extrinsics; i++ {
		block.Block.Extrinsics = append(block.Block.Extrinsics, fmt.Sprintf("0x%02x", i))
	}
	payload, err := block.Encode()
	require.NoError(t, err)
	return &proto.GenericDataProto{
		ChainType:   proto.ChainType_Substrate,
		DataType:    proto.DataType_Block,
		BlockHash:   "0xabc",
		BlockNumber: number,
		Payload:     payload,
	}
}

func TestSubstrateProxyDispatchesBlock(t *testing.T) {
	s := newMemStore()
	state := store.NewIndexerState("idx-1", s)
	handler := &recordingSubstrateHandler{state: state}
	proxy := NewSubstrateHandlerProxy(handler)

	err := proxy.HandleMessage(substrateBlockEnvelope(t, 42, 2), state)
	require.NoError(t, err)

	// Extrinsics dispatch before the block handler; one flush per
	// envelope.
	assert.Equal(t, []string{"extrinsic", "extrinsic", "block"}, handler.calls)
	require.Len(t, s.flushes, 1)
	assert.Equal(t, "0xabc", s.flushes[0].blockHash)
	assert.Equal(t, uint64(42), s.flushes[0].blockNumber)
	require.Len(t, s.flushes[0].mods, 1)
	assert.Equal(t, store.ModInsert, s.flushes[0].mods[0].Kind)
}

func TestSubstrateProxyHandlerFailure(t *testing.T) {
	s := newMemStore()
	state := store.NewIndexerState("idx-1", s)
	handler := &recordingSubstrateHandler{state: state, fail: "block"}
	proxy := NewSubstrateHandlerProxy(handler)

	err := proxy.HandleMessage(substrateBlockEnvelope(t, 42, 0), state)
	require.Error(t, err)
	assert.Empty(t, s.flushes, "a failed handler chain must not flush")
}

func TestSubstrateProxyDecodeError(t *testing.T) {
	s := newMemStore()
	state := store.NewIndexerState("idx-1", s)
	proxy := NewSubstrateHandlerProxy(&recordingSubstrateHandler{state: state})

	err := proxy.HandleMessage(&proto.GenericDataProto{
		ChainType: proto.ChainType_Substrate,
		DataType:  proto.DataType_Block,
		Payload:   []byte("not json"),
	}, state)

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestSubstrateProxyEvent(t *testing.T) {
	s := newMemStore()
	state := store.NewIndexerState("idx-1", s)
	handler := &recordingSubstrateHandler{state: state}
	proxy := NewSubstrateHandlerProxy(handler)

	event := &types.SubstrateEventRecord{Phase: "ApplyExtrinsic", Module: "balances", Event: "Transfer"}
	payload, err := event.Encode()
	require.NoError(t, err)

	err = proxy.HandleMessage(&proto.GenericDataProto{
		ChainType:   proto.ChainType_Substrate,
		DataType:    proto.DataType_Event,
		BlockHash:   "0xdef",
		BlockNumber: 43,
		Payload:     payload,
	}, state)
	require.NoError(t, err)
	assert.Equal(t, []string{"event"}, handler.calls)
	require.Len(t, s.flushes, 1)
}

func TestSubstrateProxyUnsupportedDataType(t *testing.T) {
	state := store.NewIndexerState("idx-1", newMemStore())
	proxy := NewSubstrateHandlerProxy(&recordingSubstrateHandler{state: state})

	err := proxy.HandleMessage(&proto.GenericDataProto{
		ChainType: proto.ChainType_Substrate,
		DataType:  proto.DataType_Transaction,
	}, state)
	require.Error(t, err)

	// Unsupported data is an adapter error, not a decode error: the
	// consumer must not skip past it silently.
	var decodeErr *DecodeError
	assert.False(t, errors.As(err, &decodeErr))
}

type recordingSolanaHandler struct {
	calls   []string
	success []bool
}

func (h *recordingSolanaHandler) HandleBlock(*types.SolanaBlock) error {
	h.calls = append(h.calls, "block")
	return nil
}

func (h *recordingSolanaHandler) HandleTransaction(tx *types.SolanaTransaction) error {
	h.calls = append(h.calls, "transaction")
	h.success = append(h.success, tx.Success)
	return nil
}

func (h *recordingSolanaHandler) HandleLogMessages(*types.SolanaLogMessages) error {
	h.calls = append(h.calls, "log_messages")
	return nil
}

func TestSolanaProxyDispatchesTransactions(t *testing.T) {
	s := newMemStore()
	state := store.NewIndexerState("idx-1", s)
	handler := &recordingSolanaHandler{}
	proxy := NewSolanaHandlerProxy(handler)

	// A confirmed transaction round-trips with "err": null; a failed
	// one carries the error object.
	block := &types.SolanaEncodedBlock{
		Version: types.SolanaVersion,
		Block: types.SolanaBlockData{
			Blockhash: "hash-1000",
			Transactions: []types.SolanaTransactionWithMeta{
				{Signatures: []string{"sig1"}, Meta: &types.SolanaTransactionMeta{
					Err:         json.RawMessage("null"),
					LogMessages: []string{"log1"},
				}},
				{Signatures: []string{"sig2"}, Meta: &types.SolanaTransactionMeta{
					Err: json.RawMessage(`{"InstructionError":[0,"Custom"]}`),
				}},
			},
		},
	}
	payload, err := block.Encode()
	require.NoError(t, err)

	err = proxy.HandleMessage(&proto.GenericDataProto{
		ChainType:   proto.ChainType_Solana,
		DataType:    proto.DataType_Block,
		BlockHash:   "hash-1000",
		BlockNumber: 1000,
		Payload:     payload,
	}, state)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"block",
		"transaction", "log_messages",
		"transaction", "log_messages",
	}, handler.calls)
	assert.Equal(t, []bool{true, false}, handler.success)
	require.Len(t, s.flushes, 1)
}

func testHeader(number uint64) *ethtypes.Header {
	return &ethtypes.Header{
		Number:     new(big.Int).SetUint64(number),
		Difficulty: big.NewInt(0),
	}
}

func testTransferLog(address common.Address, blockNumber uint64) *ethtypes.Log {
	from := common.HexToAddress("0x2222222222222222222222222222222222222222")
	to := common.HexToAddress("0x3333333333333333333333333333333333333333")
	return &ethtypes.Log{
		Address: address,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")),
			common.BytesToHash(common.LeftPadBytes(from.Bytes(), 32)),
			common.BytesToHash(common.LeftPadBytes(to.Bytes(), 32)),
		},
		Data:        common.LeftPadBytes(big.NewInt(7).Bytes(), 32),
		BlockNumber: blockNumber,
	}
}

type recordingEthereumHandler struct {
	triggers []*ethereum.MappingTrigger
}

func (h *recordingEthereumHandler) HandleTrigger(trigger *ethereum.MappingTrigger) error {
	h.triggers = append(h.triggers, trigger)
	return nil
}

func TestEthereumProxyMatchesBlockAndLogs(t *testing.T) {
	const abiJSON = `[
	  {"type":"event","name":"Transfer","anonymous":false,"inputs":[
	    {"name":"from","type":"address","indexed":true},
	    {"name":"to","type":"address","indexed":true},
	    {"name":"value","type":"uint256","indexed":false}]}
	]`

	addr := common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f")
	ds, err := ethereum.NewDataSource("erc20", "mainnet", &addr, 0, abiJSON, ethereum.Mapping{
		EventHandlers: []ethereum.EventHandler{
			{Event: "Transfer(indexed address,indexed address,uint256)", Handler: "handleTransfer"},
		},
		BlockHandlers: []ethereum.BlockHandler{{Handler: "handleBlock"}},
	})
	require.NoError(t, err)

	s := newMemStore()
	state := store.NewIndexerState("idx-1", s)
	handler := &recordingEthereumHandler{}
	proxy := NewEthereumHandlerProxy(handler, []*ethereum.DataSource{ds})

	lg := testTransferLog(addr, 100)
	block := &types.EthereumBlock{
		Version: types.EthereumVersion,
		Header:  testHeader(100),
		Logs:    []*ethtypes.Log{lg},
	}
	payload, err := block.Encode()
	require.NoError(t, err)

	err = proxy.HandleMessage(&proto.GenericDataProto{
		ChainType:   proto.ChainType_Ethereum,
		DataType:    proto.DataType_Block,
		BlockHash:   "0xblock",
		BlockNumber: 100,
		Payload:     payload,
	}, state)
	require.NoError(t, err)

	require.Len(t, handler.triggers, 2)
	assert.Equal(t, "handleBlock", handler.triggers[0].Handler)
	assert.Equal(t, "handleTransfer", handler.triggers[1].Handler)
	require.Len(t, s.flushes, 1)
}
