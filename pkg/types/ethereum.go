package types

import (
	"encoding/json"
	"fmt"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// EthereumBlock is the envelope payload for DataType Block on Ethereum
// networks: the header, the full transaction list, and the receipts' logs.
type EthereumBlock struct {
	Version      string                  `json:"version"`
	Header       *ethtypes.Header        `json:"header"`
	Transactions []*ethtypes.Transaction `json:"transactions"`
	Logs         []*ethtypes.Log         `json:"logs,omitempty"`
}

func (b *EthereumBlock) Encode() ([]byte, error) {
	return json.Marshal(b)
}

// DecodeEthereumBlock decodes an envelope payload produced by the
// Ethereum ingestor for DataType Block.
func DecodeEthereumBlock(payload []byte) (*EthereumBlock, error) {
	var block EthereumBlock
	if err := json.Unmarshal(payload, &block); err != nil {
		return nil, fmt.Errorf("decode ethereum block: %w", err)
	}
	return &block, nil
}

// DecodeEthereumLog decodes an envelope payload for DataType Log.
func DecodeEthereumLog(payload []byte) (*ethtypes.Log, error) {
	var lg ethtypes.Log
	if err := json.Unmarshal(payload, &lg); err != nil {
		return nil, fmt.Errorf("decode ethereum log: %w", err)
	}
	return &lg, nil
}
