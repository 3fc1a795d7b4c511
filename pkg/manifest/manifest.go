package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/ethereum"
	"github.com/baysao/massbitprotocol/pkg/types"
)

// Source identifies the contract (or wildcard) a data source follows.
type Source struct {
	Address    string `yaml:"address"`
	ABI        string `yaml:"abi"`
	StartBlock uint64 `yaml:"startBlock"`
}

// ABIRef points at an ABI JSON file relative to the manifest.
type ABIRef struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// Mapping is the handler table declared for one data source.
type Mapping struct {
	Language      string                  `yaml:"language"`
	File          string                  `yaml:"file"`
	ABIs          []ABIRef                `yaml:"abis"`
	EventHandlers []ethereum.EventHandler `yaml:"eventHandlers"`
	CallHandlers  []ethereum.CallHandler  `yaml:"callHandlers"`
	BlockHandlers []ethereum.BlockHandler `yaml:"blockHandlers"`
}

// DataSource is one dataSources entry of a project manifest.
type DataSource struct {
	Kind    string  `yaml:"kind"`
	Name    string  `yaml:"name"`
	Network string  `yaml:"network"`
	Source  Source  `yaml:"source"`
	Mapping Mapping `yaml:"mapping"`
}

// Manifest is the parsed project.yaml.
type Manifest struct {
	SpecVersion string       `yaml:"specVersion"`
	Description string       `yaml:"description"`
	Schema      string       `yaml:"schema"`
	DataSources []DataSource `yaml:"dataSources"`

	dir string
}

// Load parses a project manifest from disk.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.DataSources) == 0 {
		return nil, fmt.Errorf("manifest has no data sources")
	}
	m.dir = filepath.Dir(path)
	return &m, nil
}

// ChainType derives the chain type of the first data source. Unknown
// kinds are assumed to be substrate.
func (m *Manifest) ChainType() proto.ChainType {
	return types.ChainTypeFromKind(m.DataSources[0].Kind)
}

// AdapterName is the adapter a handler module registers under for this
// manifest, e.g. "ethereum" for kind "ethereum/contract".
func (m *Manifest) AdapterName() string {
	return strings.SplitN(m.DataSources[0].Kind, "/", 2)[0]
}

// Network is the first data source's network, defaulting to mainnet.
func (m *Manifest) Network() types.NetworkType {
	if n := m.DataSources[0].Network; n != "" {
		return n
	}
	return "mainnet"
}

// StartBlock is the first data source's start block.
func (m *Manifest) StartBlock() uint64 {
	return m.DataSources[0].Source.StartBlock
}

// EthereumDataSources materializes the manifest's data sources for
// trigger matching, loading referenced ABI files.
func (m *Manifest) EthereumDataSources() ([]*ethereum.DataSource, error) {
	var out []*ethereum.DataSource
	for _, ds := range m.DataSources {
		if types.ChainTypeFromKind(ds.Kind) != proto.ChainType_Ethereum {
			continue
		}

		abiJSON, err := m.abiJSON(ds)
		if err != nil {
			return nil, err
		}

		var address *common.Address
		if ds.Source.Address != "" {
			addr := common.HexToAddress(ds.Source.Address)
			address = &addr
		}

		source, err := ethereum.NewDataSource(
			ds.Name,
			ds.Network,
			address,
			ds.Source.StartBlock,
			abiJSON,
			ethereum.Mapping{
				EventHandlers: ds.Mapping.EventHandlers,
				CallHandlers:  ds.Mapping.CallHandlers,
				BlockHandlers: ds.Mapping.BlockHandlers,
			},
		)
		if err != nil {
			return nil, err
		}
		out = append(out, source)
	}
	return out, nil
}

func (m *Manifest) abiJSON(ds DataSource) (string, error) {
	for _, ref := range ds.Mapping.ABIs {
		if ref.Name != ds.Source.ABI {
			continue
		}
		data, err := os.ReadFile(filepath.Join(m.dir, ref.File))
		if err != nil {
			return "", fmt.Errorf("read abi %s: %w", ref.Name, err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("abi %q not declared in mapping of data source %q", ds.Source.ABI, ds.Name)
}
