package adapter

import (
	"fmt"
	"plugin"
	"sync"

	"github.com/baysao/massbitprotocol/pkg/ethereum"
	"github.com/baysao/massbitprotocol/pkg/log"
	"github.com/baysao/massbitprotocol/pkg/store"
)

// Registrar collects the handler proxies a module registers, keyed by
// adapter name ("substrate", "solana", "ethereum", "matic").
type Registrar struct {
	proxies     map[string]HandlerProxy
	dataSources []*ethereum.DataSource
}

func (r *Registrar) RegisterSubstrate(name string, handler SubstrateHandler) {
	r.proxies[name] = NewSubstrateHandlerProxy(handler)
}

func (r *Registrar) RegisterSolana(name string, handler SolanaHandler) {
	r.proxies[name] = NewSolanaHandlerProxy(handler)
}

func (r *Registrar) RegisterEthereum(name string, handler EthereumHandler) {
	switch name {
	case "matic":
		r.proxies[name] = NewMaticHandlerProxy(handler, r.dataSources)
	default:
		r.proxies[name] = NewEthereumHandlerProxy(handler, r.dataSources)
	}
}

// Declaration is the registration entry a native module exports under
// the AdapterDeclaration symbol.
type Declaration struct {
	Register func(r *Registrar)
}

// adapterHandler pins one loaded module and its registered proxies for
// the indexer's lifetime.
type adapterHandler struct {
	indexerID string
	module    *plugin.Plugin
	proxies   map[string]HandlerProxy
}

// Manager maps indexer identities to their loaded adapter modules. It
// is populated at load time and read-mostly afterwards.
type Manager struct {
	mu       sync.RWMutex
	handlers map[string]*adapterHandler
}

func NewManager() *Manager {
	return &Manager{handlers: make(map[string]*adapterHandler)}
}

// Load opens a native module, injects the store capability into its
// Store symbol, and invokes its registration entry. The module stays
// pinned until Unload.
func (m *Manager) Load(indexerID, libraryPath string, dataSources []*ethereum.DataSource, state store.Store) error {
	lib, err := plugin.Open(libraryPath)
	if err != nil {
		return fmt.Errorf("load adapter module %s: %w", libraryPath, err)
	}

	// The store capability must be in place before any handler runs.
	storeSym, err := lib.Lookup("Store")
	if err != nil {
		return fmt.Errorf("adapter module %s has no Store symbol: %w", libraryPath, err)
	}
	storePtr, ok := storeSym.(*store.Store)
	if !ok {
		return fmt.Errorf("adapter module %s: Store symbol has wrong type", libraryPath)
	}
	*storePtr = state

	declSym, err := lib.Lookup("AdapterDeclaration")
	if err != nil {
		return fmt.Errorf("adapter module %s has no AdapterDeclaration symbol: %w", libraryPath, err)
	}
	decl, ok := declSym.(*Declaration)
	if !ok {
		return fmt.Errorf("adapter module %s: AdapterDeclaration symbol has wrong type", libraryPath)
	}

	registrar := &Registrar{
		proxies:     make(map[string]HandlerProxy),
		dataSources: dataSources,
	}
	decl.Register(registrar)

	m.mu.Lock()
	m.handlers[indexerID] = &adapterHandler{
		indexerID: indexerID,
		module:    lib,
		proxies:   registrar.proxies,
	}
	m.mu.Unlock()

	log.WithIndexerID(indexerID).Info().
		Str("module", libraryPath).
		Int("adapters", len(registrar.proxies)).
		Msg("Loaded adapter module")
	return nil
}

// Register binds pre-built proxies to an indexer without a module, used
// for wasm adapters and tests.
func (m *Manager) Register(indexerID string, proxies map[string]HandlerProxy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[indexerID] = &adapterHandler{indexerID: indexerID, proxies: proxies}
}

// Proxy resolves the handler proxy of one adapter of one indexer.
func (m *Manager) Proxy(indexerID, adapterName string) (HandlerProxy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	handler, ok := m.handlers[indexerID]
	if !ok {
		return nil, fmt.Errorf("no adapter handler for indexer %s", indexerID)
	}
	proxy, ok := handler.proxies[adapterName]
	if !ok {
		return nil, fmt.Errorf("no proxy for adapter %s of indexer %s", adapterName, indexerID)
	}
	return proxy, nil
}

// Unload drops the indexer's proxies. Go cannot unload a loaded plugin
// from the process; dropping the references stops all dispatch.
func (m *Manager) Unload(indexerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handlers, indexerID)
}
