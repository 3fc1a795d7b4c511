package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/types"
)

// Defaults mirroring the managed mainnet deployment.
const (
	DefaultListenAddr     = "0.0.0.0:50051"
	DefaultChainReaderURL = "http://127.0.0.1:50051"

	// SolanaFinalityMargin is the number of slots below the rooted slot
	// considered safe to fetch. Blocks closer to the tip may not be
	// available from RPC nodes yet.
	SolanaFinalityMargin = 100

	// EthereumFinalityMargin is the default confirmation depth for
	// chains that do not configure their own.
	EthereumFinalityMargin = 12
)

// ChainConfig holds the upstream endpoints for one chain network.
type ChainConfig struct {
	URL            string `yaml:"url"`
	WS             string `yaml:"ws"`
	FinalityMargin uint64 `yaml:"finality_margin"`
}

// Env holds the process environment contract.
type Env struct {
	ChainReaderURL           string `env:"CHAIN_READER_URL"`
	DatabaseConnectionString string `env:"DATABASE_CONNECTION_STRING"`
	IPFSAddress              string `env:"IPFS_ADDRESS"`
}

// Config is constructed once at startup and passed by reference to every
// ingestor and consumer. There is no process-wide lazy state.
type Config struct {
	Listen string                                       `yaml:"listen"`
	Chains map[string]map[types.NetworkType]ChainConfig `yaml:"chains"`

	Env Env `yaml:"-"`
}

// Default returns the built-in chain configuration.
func Default() *Config {
	return &Config{
		Listen: DefaultListenAddr,
		Chains: map[string]map[types.NetworkType]ChainConfig{
			"solana": {
				"mainnet": {
					URL:            "https://api.mainnet-beta.solana.com",
					WS:             "wss://api.mainnet-beta.solana.com",
					FinalityMargin: SolanaFinalityMargin,
				},
			},
			"ethereum": {
				"mainnet": {
					URL:            "https://main-light.eth.linkpool.io",
					WS:             "wss://main-light.eth.linkpool.io/ws",
					FinalityMargin: EthereumFinalityMargin,
				},
			},
			"substrate": {
				"mainnet": {
					WS: "ws://127.0.0.1:9944",
				},
			},
		},
	}
}

// Load builds the config from the optional YAML file at path, then
// applies environment overrides. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := env.Parse(&cfg.Env); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Env.ChainReaderURL == "" {
		cfg.Env.ChainReaderURL = DefaultChainReaderURL
	}
	if cfg.Env.IPFSAddress == "" {
		cfg.Env.IPFSAddress = "0.0.0.0:5001"
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListenAddr
	}
	return cfg, nil
}

// ChainConfig resolves the upstream endpoints for a chain key.
func (c *Config) ChainConfig(key types.ChainKey) (ChainConfig, bool) {
	networks, ok := c.Chains[chainName(key.Chain)]
	if !ok {
		return ChainConfig{}, false
	}
	cc, ok := networks[key.Network]
	return cc, ok
}

// ChainKeys lists every configured (chain, network) pair.
func (c *Config) ChainKeys() []types.ChainKey {
	var keys []types.ChainKey
	for name, networks := range c.Chains {
		chain, ok := chainType(name)
		if !ok {
			continue
		}
		for network := range networks {
			keys = append(keys, types.ChainKey{Chain: chain, Network: network})
		}
	}
	return keys
}

func chainName(chain proto.ChainType) string {
	switch chain {
	case proto.ChainType_Solana:
		return "solana"
	case proto.ChainType_Ethereum:
		return "ethereum"
	default:
		return "substrate"
	}
}

func chainType(name string) (proto.ChainType, bool) {
	switch name {
	case "solana":
		return proto.ChainType_Solana, true
	case "ethereum":
		return proto.ChainType_Ethereum, true
	case "substrate":
		return proto.ChainType_Substrate, true
	default:
		return proto.ChainType_Substrate, false
	}
}
