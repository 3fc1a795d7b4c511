package types

import (
	"encoding/json"
	"math/big"
	"testing"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gproto "google.golang.org/protobuf/proto"

	"github.com/baysao/massbitprotocol/api/proto"
)

// TestEnvelopeRoundTrip: encoding an envelope and decoding restores
// every field exactly.
func TestEnvelopeRoundTrip(t *testing.T) {
	envelope := &proto.GenericDataProto{
		ChainType:   proto.ChainType_Solana,
		Version:     SolanaVersion,
		DataType:    proto.DataType_Block,
		BlockHash:   "hash-1000",
		BlockNumber: 1000,
		Payload:     []byte{0x01, 0x02, 0x03},
	}

	data, err := gproto.Marshal(envelope)
	require.NoError(t, err)

	var decoded proto.GenericDataProto
	require.NoError(t, gproto.Unmarshal(data, &decoded))

	assert.Equal(t, envelope.GetChainType(), decoded.GetChainType())
	assert.Equal(t, envelope.GetVersion(), decoded.GetVersion())
	assert.Equal(t, envelope.GetDataType(), decoded.GetDataType())
	assert.Equal(t, envelope.GetBlockHash(), decoded.GetBlockHash())
	assert.Equal(t, envelope.GetBlockNumber(), decoded.GetBlockNumber())
	assert.Equal(t, envelope.GetPayload(), decoded.GetPayload())
}

func TestSolanaBlockRoundTrip(t *testing.T) {
	height := uint64(1000)
	block := &SolanaEncodedBlock{
		Version: SolanaVersion,
		Block: SolanaBlockData{
			Blockhash:         "hash-1000",
			PreviousBlockhash: "hash-999",
			ParentSlot:        999,
			BlockTime:         1630000000,
			BlockHeight:       &height,
			Transactions: []SolanaTransactionWithMeta{
				{
					Signatures: []string{"sig1"},
					Meta:       &SolanaTransactionMeta{Fee: 5000, LogMessages: []string{"Program log: hello"}},
				},
			},
		},
		Timestamp:       1630000000,
		ListLogMessages: [][]string{{"Program log: hello"}},
	}

	payload, err := block.Encode()
	require.NoError(t, err)

	decoded, err := DecodeSolanaEncodedBlock(payload)
	require.NoError(t, err)
	assert.Equal(t, block, decoded)

	converted := ConvertSolanaEncodedBlock(decoded)
	assert.Equal(t, uint64(1000), converted.BlockNumber())
}

func TestSolanaTransactionSucceeded(t *testing.T) {
	// "err": null round-trips into the RawMessage as the null literal.
	var meta SolanaTransactionMeta
	require.NoError(t, json.Unmarshal([]byte(`{"err":null,"fee":5000}`), &meta))
	assert.True(t, meta.Succeeded())

	require.NoError(t, json.Unmarshal([]byte(`{"err":{"InstructionError":[0,"Custom"]},"fee":5000}`), &meta))
	assert.False(t, meta.Succeeded())

	assert.True(t, (&SolanaTransactionMeta{}).Succeeded())
}

func TestSolanaBlockNumberFallsBackToParentSlot(t *testing.T) {
	block := &SolanaBlock{Block: SolanaBlockData{ParentSlot: 41}}
	assert.Equal(t, uint64(42), block.BlockNumber())
}

func TestSubstrateBlockRoundTrip(t *testing.T) {
	block := &SubstrateBlock{
		Version:   SubstrateVersion,
		Timestamp: 1630000000,
		Block: SubstrateBlockData{
			Header:     SubstrateHeader{ParentHash: "0xparent", Number: 42},
			Extrinsics: []string{"0x00", "0x01"},
		},
		Events: []SubstrateEventRecord{
			{Phase: "ApplyExtrinsic", Module: "balances", Event: "Transfer"},
		},
	}

	payload, err := block.Encode()
	require.NoError(t, err)
	decoded, err := DecodeSubstrateBlock(payload)
	require.NoError(t, err)
	assert.Equal(t, block.Block.Header.Number, decoded.Block.Header.Number)
	assert.Len(t, decoded.Events, 1)

	extrinsics := ExtrinsicsFromBlock(decoded)
	require.Len(t, extrinsics, 2)
	assert.Equal(t, uint64(42), extrinsics[0].BlockNumber)
	assert.True(t, extrinsics[0].Success)
}

func TestSubstrateEventRoundTrip(t *testing.T) {
	event := &SubstrateEventRecord{Phase: "Finalization", Module: "system", Event: "NewAccount"}
	payload, err := event.Encode()
	require.NoError(t, err)
	decoded, err := DecodeSubstrateEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, event.Module, decoded.Module)
	assert.Equal(t, event.Event, decoded.Event)
}

func TestEthereumBlockRoundTrip(t *testing.T) {
	block := &EthereumBlock{
		Version: EthereumVersion,
		Header: &ethtypes.Header{
			Number:     big.NewInt(100),
			Difficulty: big.NewInt(0),
		},
	}

	payload, err := block.Encode()
	require.NoError(t, err)
	decoded, err := DecodeEthereumBlock(payload)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), decoded.Header.Number.Uint64())
}

func TestDecodeErrors(t *testing.T) {
	_, err := DecodeSolanaEncodedBlock([]byte("junk"))
	assert.Error(t, err)
	_, err = DecodeSubstrateBlock([]byte("junk"))
	assert.Error(t, err)
	_, err = DecodeEthereumBlock([]byte("junk"))
	assert.Error(t, err)
	_, err = DecodeEthereumLog([]byte("junk"))
	assert.Error(t, err)
}
