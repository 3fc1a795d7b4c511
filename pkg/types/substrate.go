package types

import (
	"encoding/json"
	"fmt"
)

// SubstrateHeader is the subset of a Substrate block header the pipeline
// cares about. Hashes and extrinsics stay hex-encoded as delivered by the
// node RPC.
type SubstrateHeader struct {
	ParentHash     string `json:"parentHash"`
	Number         uint64 `json:"number"`
	StateRoot      string `json:"stateRoot"`
	ExtrinsicsRoot string `json:"extrinsicsRoot"`
}

// SubstrateBlockData is the block body as returned by chain_getBlock.
type SubstrateBlockData struct {
	Header     SubstrateHeader `json:"header"`
	Extrinsics []string        `json:"extrinsics"`
}

// SubstrateEventRecord is one event record of a finalized block.
type SubstrateEventRecord struct {
	Phase  string          `json:"phase"`
	Module string          `json:"module"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// SubstrateBlock is the envelope payload for DataType Block on substrate
// chains: the block plus its event records.
type SubstrateBlock struct {
	Version   string                 `json:"version"`
	Timestamp int64                  `json:"timestamp"`
	Block     SubstrateBlockData     `json:"block"`
	Events    []SubstrateEventRecord `json:"events"`
}

// SubstrateExtrinsic is the per-extrinsic handler view.
type SubstrateExtrinsic struct {
	BlockNumber uint64 `json:"block_number"`
	Extrinsic   string `json:"extrinsic"`
	Success     bool   `json:"success"`
}

// ExtrinsicsFromBlock derives the handler-facing extrinsic views from a
// decoded block.
func ExtrinsicsFromBlock(block *SubstrateBlock) []SubstrateExtrinsic {
	extrinsics := make([]SubstrateExtrinsic, 0, len(block.Block.Extrinsics))
	for _, raw := range block.Block.Extrinsics {
		extrinsics = append(extrinsics, SubstrateExtrinsic{
			BlockNumber: block.Block.Header.Number,
			Extrinsic:   raw,
			Success:     true,
		})
	}
	return extrinsics
}

func (b *SubstrateBlock) Encode() ([]byte, error) {
	return json.Marshal(b)
}

func (e *SubstrateEventRecord) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeSubstrateBlock decodes an envelope payload produced by the
// substrate ingestor for DataType Block.
func DecodeSubstrateBlock(payload []byte) (*SubstrateBlock, error) {
	var block SubstrateBlock
	if err := json.Unmarshal(payload, &block); err != nil {
		return nil, fmt.Errorf("decode substrate block: %w", err)
	}
	return &block, nil
}

// DecodeSubstrateEvent decodes an envelope payload for DataType Event.
func DecodeSubstrateEvent(payload []byte) (*SubstrateEventRecord, error) {
	var event SubstrateEventRecord
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode substrate event: %w", err)
	}
	return &event, nil
}
