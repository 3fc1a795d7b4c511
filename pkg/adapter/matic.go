package adapter

import (
	"github.com/baysao/massbitprotocol/pkg/ethereum"
)

// NewMaticHandlerProxy creates the matic adapter proxy. Matic networks
// are Ethereum-compatible, so the proxy shares the ethereum dispatch
// with its own adapter name.
func NewMaticHandlerProxy(handler EthereumHandler, dataSources []*ethereum.DataSource) *EthereumHandlerProxy {
	return &EthereumHandlerProxy{name: "matic", handler: handler, dataSources: dataSources}
}
