package types

import (
	"encoding/json"
	"fmt"
)

// SolanaTransactionMeta carries the status metadata attached to a
// transaction inside a confirmed block.
type SolanaTransactionMeta struct {
	Err         json.RawMessage `json:"err,omitempty"`
	Fee         uint64          `json:"fee"`
	LogMessages []string        `json:"logMessages,omitempty"`
}

// Succeeded reports whether the transaction committed. A confirmed
// transaction carries "err": null, which decodes into a RawMessage as
// the literal null, not as an empty slice.
func (m *SolanaTransactionMeta) Succeeded() bool {
	return len(m.Err) == 0 || string(m.Err) == "null"
}

// SolanaTransactionWithMeta is one transaction of an encoded block. The
// transaction body stays base64-encoded until a handler needs it.
type SolanaTransactionWithMeta struct {
	Signatures  []string               `json:"signatures"`
	Transaction []string               `json:"transaction"`
	Meta        *SolanaTransactionMeta `json:"meta,omitempty"`
}

// SolanaBlockData mirrors the getBlock RPC response with base64 encoding.
type SolanaBlockData struct {
	Blockhash         string                      `json:"blockhash"`
	PreviousBlockhash string                      `json:"previousBlockhash"`
	ParentSlot        uint64                      `json:"parentSlot"`
	BlockTime         int64                       `json:"blockTime"`
	BlockHeight       *uint64                     `json:"blockHeight,omitempty"`
	Transactions      []SolanaTransactionWithMeta `json:"transactions"`
}

// SolanaEncodedBlock is the envelope payload produced by the Solana
// ingestor: the raw encoded block plus fields derived at ingest time.
type SolanaEncodedBlock struct {
	Version         string          `json:"version"`
	Block           SolanaBlockData `json:"block"`
	Timestamp       int64           `json:"timestamp"`
	ListLogMessages [][]string      `json:"list_log_messages"`
}

// SolanaBlock is the handler-facing view after decoding.
type SolanaBlock struct {
	Version   string          `json:"version"`
	Block     SolanaBlockData `json:"block"`
	Timestamp int64           `json:"timestamp"`
}

// SolanaTransaction is the per-transaction handler view.
type SolanaTransaction struct {
	BlockNumber uint64                    `json:"block_number"`
	Transaction SolanaTransactionWithMeta `json:"transaction"`
	LogMessages []string                  `json:"log_messages"`
	Success     bool                      `json:"success"`
}

// SolanaLogMessages is the log-message handler view.
type SolanaLogMessages struct {
	BlockNumber uint64                    `json:"block_number"`
	LogMessages []string                  `json:"log_messages"`
	Transaction SolanaTransactionWithMeta `json:"transaction"`
}

// LogMessagesFromBlock collects the per-transaction log messages of an
// encoded block, in transaction order.
func LogMessagesFromBlock(block *SolanaBlockData) [][]string {
	messages := make([][]string, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		if tx.Meta != nil {
			messages = append(messages, tx.Meta.LogMessages)
		} else {
			messages = append(messages, nil)
		}
	}
	return messages
}

// ConvertSolanaEncodedBlock converts an encoded block into the decoded
// handler-facing block view.
func ConvertSolanaEncodedBlock(encoded *SolanaEncodedBlock) *SolanaBlock {
	return &SolanaBlock{
		Version:   encoded.Version,
		Block:     encoded.Block,
		Timestamp: encoded.Timestamp,
	}
}

// BlockNumber returns the effective block number of a decoded block:
// the block height when present, the parent slot + 1 otherwise.
func (b *SolanaBlock) BlockNumber() uint64 {
	if b.Block.BlockHeight != nil {
		return *b.Block.BlockHeight
	}
	return b.Block.ParentSlot + 1
}

func (b *SolanaEncodedBlock) Encode() ([]byte, error) {
	return json.Marshal(b)
}

// DecodeSolanaEncodedBlock decodes an envelope payload produced by the
// Solana ingestor.
func DecodeSolanaEncodedBlock(payload []byte) (*SolanaEncodedBlock, error) {
	var block SolanaEncodedBlock
	if err := json.Unmarshal(payload, &block); err != nil {
		return nil, fmt.Errorf("decode solana block: %w", err)
	}
	return &block, nil
}
