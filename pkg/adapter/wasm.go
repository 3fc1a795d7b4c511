package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tetratelabs/wazero"
	wapi "github.com/tetratelabs/wazero/api"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/log"
	"github.com/baysao/massbitprotocol/pkg/store"
)

// WasmHandlerProxy runs a sandboxed bytecode adapter. The guest gets no
// store pointer: every store interaction goes through host exports that
// mediate access to the entity cache.
//
// Guest ABI: exports "memory", "alloc(size) -> ptr" and one
// "handle_<kind>(ptr, len) -> errno" per data kind it handles. Envelope
// payloads are copied into guest memory unmodified; a non-zero return
// is a handler failure.
type WasmHandlerProxy struct {
	adapterName string
	runtime     wazero.Runtime
	module      wapi.Module

	// state is the store capability of the in-flight HandleMessage;
	// host exports resolve against it. The proxy is single-owner like
	// the cache, so a plain field is enough.
	state *store.IndexerState
}

// NewWasmHandlerProxy compiles and instantiates a wasm adapter module.
func NewWasmHandlerProxy(ctx context.Context, adapterName string, wasmBytes []byte) (*WasmHandlerProxy, error) {
	p := &WasmHandlerProxy{adapterName: adapterName}
	p.runtime = wazero.NewRuntime(ctx)

	_, err := p.runtime.NewHostModuleBuilder("env").
		NewFunctionBuilder().WithFunc(p.hostStoreGet).Export("store_get").
		NewFunctionBuilder().WithFunc(p.hostStoreSave).Export("store_save").
		NewFunctionBuilder().WithFunc(p.hostStoreRemove).Export("store_remove").
		NewFunctionBuilder().WithFunc(p.hostLog).Export("log_message").
		Instantiate(ctx)
	if err != nil {
		p.runtime.Close(ctx)
		return nil, fmt.Errorf("instantiate host module: %w", err)
	}

	module, err := p.runtime.Instantiate(ctx, wasmBytes)
	if err != nil {
		p.runtime.Close(ctx)
		return nil, fmt.Errorf("instantiate wasm adapter %s: %w", adapterName, err)
	}
	p.module = module
	return p, nil
}

// Close releases the wasm runtime.
func (p *WasmHandlerProxy) Close(ctx context.Context) error {
	return p.runtime.Close(ctx)
}

func (p *WasmHandlerProxy) HandleMessage(data *proto.GenericDataProto, state *store.IndexerState) error {
	export, ok := exportForEnvelope(data)
	if !ok {
		return NewError("%s wasm adapter does not support data type %s", p.adapterName, data.GetDataType())
	}
	fn := p.module.ExportedFunction(export)
	if fn == nil {
		return NewError("wasm adapter %s does not export %s", p.adapterName, export)
	}

	p.state = state
	defer func() { p.state = nil }()

	err := invoke(state, p.adapterName, func() error {
		ctx := context.Background()
		ptr, size, err := p.writeGuest(ctx, data.GetPayload())
		if err != nil {
			return err
		}
		results, err := fn.Call(ctx, uint64(ptr), uint64(size))
		if err != nil {
			return fmt.Errorf("call %s: %w", export, err)
		}
		if len(results) > 0 && results[0] != 0 {
			return NewError("wasm handler %s returned error %d", export, results[0])
		}
		return nil
	})
	if err != nil {
		return err
	}
	return state.Flush(data.GetBlockHash(), data.GetBlockNumber())
}

func exportForEnvelope(data *proto.GenericDataProto) (string, bool) {
	switch data.GetDataType() {
	case proto.DataType_Block:
		return "handle_block", true
	case proto.DataType_Event:
		return "handle_event", true
	case proto.DataType_Transaction:
		return "handle_transaction", true
	case proto.DataType_Log:
		return "handle_log", true
	default:
		return "", false
	}
}

// writeGuest copies data into guest memory via the guest allocator.
func (p *WasmHandlerProxy) writeGuest(ctx context.Context, data []byte) (uint32, uint32, error) {
	alloc := p.module.ExportedFunction("alloc")
	if alloc == nil {
		return 0, 0, NewError("wasm adapter %s does not export alloc", p.adapterName)
	}
	results, err := alloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, 0, fmt.Errorf("guest alloc: %w", err)
	}
	ptr := uint32(results[0])
	if !p.module.Memory().Write(ptr, data) {
		return 0, 0, NewError("guest alloc returned out-of-range pointer %d", ptr)
	}
	return ptr, uint32(len(data)), nil
}

func (p *WasmHandlerProxy) readGuest(mod wapi.Module, ptr, size uint32) ([]byte, error) {
	data, ok := mod.Memory().Read(ptr, size)
	if !ok {
		return nil, NewError("guest passed out-of-range pointer %d+%d", ptr, size)
	}
	return data, nil
}

// hostStoreGet loads an entity and copies its JSON form into guest
// memory. Returns ptr<<32|len, or 0 when the entity is absent.
func (p *WasmHandlerProxy) hostStoreGet(ctx context.Context, mod wapi.Module, typePtr, typeLen, idPtr, idLen uint32) uint64 {
	entityType, err := p.readGuest(mod, typePtr, typeLen)
	if err != nil {
		return 0
	}
	entityID, err := p.readGuest(mod, idPtr, idLen)
	if err != nil {
		return 0
	}
	entity, err := p.state.Get(string(entityType), string(entityID))
	if err != nil || entity == nil {
		return 0
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return 0
	}

	alloc := mod.ExportedFunction("alloc")
	if alloc == nil {
		return 0
	}
	results, err := alloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0
	}
	ptr := uint32(results[0])
	if !mod.Memory().Write(ptr, data) {
		return 0
	}
	return uint64(ptr)<<32 | uint64(len(data))
}

// hostStoreSave records an entity update from JSON fields.
func (p *WasmHandlerProxy) hostStoreSave(ctx context.Context, mod wapi.Module, typePtr, typeLen, dataPtr, dataLen uint32) uint32 {
	entityType, err := p.readGuest(mod, typePtr, typeLen)
	if err != nil {
		return 1
	}
	raw, err := p.readGuest(mod, dataPtr, dataLen)
	if err != nil {
		return 1
	}
	var entity store.Entity
	if err := json.Unmarshal(raw, &entity); err != nil {
		return 1
	}
	if err := p.state.Save(string(entityType), entity); err != nil {
		return 1
	}
	return 0
}

func (p *WasmHandlerProxy) hostStoreRemove(ctx context.Context, mod wapi.Module, typePtr, typeLen, idPtr, idLen uint32) uint32 {
	entityType, err := p.readGuest(mod, typePtr, typeLen)
	if err != nil {
		return 1
	}
	entityID, err := p.readGuest(mod, idPtr, idLen)
	if err != nil {
		return 1
	}
	p.state.Remove(string(entityType), string(entityID))
	return 0
}

func (p *WasmHandlerProxy) hostLog(ctx context.Context, mod wapi.Module, level, ptr, size uint32) {
	msg, err := p.readGuest(mod, ptr, size)
	if err != nil {
		return
	}
	logger := log.WithComponent(p.adapterName + "-wasm")
	switch level {
	case 0:
		logger.Debug().Msg(string(msg))
	case 1:
		logger.Info().Msg(string(msg))
	case 2:
		logger.Warn().Msg(string(msg))
	default:
		logger.Error().Msg(string(msg))
	}
}
