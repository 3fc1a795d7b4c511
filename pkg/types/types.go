package types

import (
	"fmt"

	"github.com/baysao/massbitprotocol/api/proto"
)

// NetworkType identifies a named network of a chain (e.g. "mainnet").
type NetworkType = string

// ChainKey routes every ingestor, hub topic and subscriber to one stream.
type ChainKey struct {
	Chain   proto.ChainType
	Network NetworkType
}

func (k ChainKey) String() string {
	return fmt.Sprintf("%s/%s", k.Chain, k.Network)
}

// Envelope payload format versions, per chain.
const (
	SolanaVersion    = "1.6.16"
	SubstrateVersion = "0.1.0"
	EthereumVersion  = "1.13.15"
)

// ChainTypeFromKind maps a manifest dataSource kind to a chain type.
// Unknown kinds are treated as substrate.
func ChainTypeFromKind(kind string) proto.ChainType {
	switch kind {
	case "solana":
		return proto.ChainType_Solana
	case "ethereum", "ethereum/contract", "matic":
		return proto.ChainType_Ethereum
	default:
		return proto.ChainType_Substrate
	}
}
