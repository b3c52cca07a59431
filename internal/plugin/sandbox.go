package plugin

import (
	"context"
	"encoding/binary"
	"errors"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

const (
	defaultMemoryLimitPages = 512 // 512 * 64KiB = 32 MiB, spec §4.5 default memory cap
	guestScratchOffset      = 0   // guest modules reserve page 0 for event I/O
	guestScratchSize        = 1 << 16
)

// wasmProcessor runs one untrusted wasm module inside its own wazero
// runtime. Isolation is per-processor (one Runtime and one linear memory
// each), matching spec §5's "no sharing" policy for plugin resources.
//
// Guest ABI: the module exports a `process` function taking one i32, which
// the host calls with 0 and whose results it ignores. The guest copies the
// encoded Event into its own memory with the `vtp_read_event(ptr, maxLen)
// -> n` host import, does its work, and calls `vtp_write_result(kind, ptr,
// len)` with its response before returning. This keeps the ABI to two host
// calls instead of requiring a guest-side allocator.
type wasmProcessor struct {
	name    string
	perms   PermissionSet
	hooks   []HookPoint
	storage *Storage

	runtime wazero.Runtime
	module  api.Module

	fuelUsed   int64
	fuelBudget int64

	pendingEvent []byte
	result       Action
	resultErr    error
}

// WasmConfig configures one sandboxed processor instance.
type WasmConfig struct {
	Name        string
	Code        []byte
	Permissions PermissionSet
	Hooks       []HookPoint
	FuelBudget  int64 // host-call budget per event; 0 = defaultFuelBudget
}

const defaultFuelBudget = 100000

// NewWasmProcessor compiles and instantiates a wasm module as a sandboxed
// Processor. The module's imports are satisfied by permission-gated host
// functions registered under the "vtp" namespace (spec §4.5 "the host
// enqueues events; the executor processes them bounded by a fuel counter").
func NewWasmProcessor(ctx context.Context, cfg WasmConfig) (Processor, error) {
	rtCfg := wazero.NewRuntimeConfig().
		WithCloseOnContextDone(true).
		WithMemoryLimitPages(defaultMemoryLimitPages)
	rt := wazero.NewRuntimeWithConfig(ctx, rtCfg)

	p := &wasmProcessor{
		name:       cfg.Name,
		perms:      cfg.Permissions,
		hooks:      cfg.Hooks,
		storage:    newStorage(),
		runtime:    rt,
		fuelBudget: cfg.FuelBudget,
	}
	if p.fuelBudget <= 0 {
		p.fuelBudget = defaultFuelBudget
	}

	if err := p.registerHostModule(ctx); err != nil {
		rt.Close(ctx)
		return nil, err
	}

	compiled, err := rt.CompileModule(ctx, cfg.Code)
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(cfg.Name))
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}
	p.module = mod

	return p, nil
}

// registerHostModule wires the "vtp" host import namespace the guest calls
// into. Every permission-gated call checks p.perms before touching any host
// resource; a missing permission makes the call return 0 rather than a Go
// error, since wasm host functions can't propagate typed errors to the
// guest.
func (p *wasmProcessor) registerHostModule(ctx context.Context) error {
	builder := p.runtime.NewHostModuleBuilder("vtp")

	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, ptr, maxLen uint32) uint32 {
			if !p.consumeFuel() {
				return 0
			}
			n := len(p.pendingEvent)
			if n > int(maxLen) {
				n = int(maxLen)
			}
			if !mod.Memory().Write(ptr, p.pendingEvent[:n]) {
				return 0
			}
			return uint32(n)
		}).
		Export("vtp_read_event")

	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, kind uint32, ptr, length uint32) {
			if !p.consumeFuel() {
				p.resultErr = errFuelExhausted
				return
			}
			data, ok := mod.Memory().Read(ptr, length)
			if !ok {
				p.resultErr = errors.New("plugin: guest returned invalid memory range")
				return
			}
			buf := make([]byte, len(data))
			copy(buf, data)
			p.result = Action{Kind: ActionKind(kind), Transformed: buf}
		}).
		Export("vtp_write_result")

	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, keyPtr, keyLen, valPtr, valMax uint32) uint32 {
			if !p.perms.Has(PermStorage) || !p.consumeFuel() {
				return 0
			}
			keyBytes, ok := mod.Memory().Read(keyPtr, keyLen)
			if !ok {
				return 0
			}
			val, err := p.storage.Get(string(keyBytes))
			if err != nil {
				return 0
			}
			n := len(val)
			if n > int(valMax) {
				n = int(valMax)
			}
			if !mod.Memory().Write(valPtr, val[:n]) {
				return 0
			}
			return uint32(n)
		}).
		Export("vtp_storage_get")

	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, keyPtr, keyLen, valPtr, valLen uint32) uint32 {
			if !p.perms.Has(PermStorage) || !p.consumeFuel() {
				return 0
			}
			keyBytes, ok := mod.Memory().Read(keyPtr, keyLen)
			if !ok {
				return 0
			}
			valBytes, ok := mod.Memory().Read(valPtr, valLen)
			if !ok {
				return 0
			}
			if err := p.storage.Set(string(keyBytes), valBytes); err != nil {
				return 0
			}
			return 1
		}).
		Export("vtp_storage_set")

	_, err := builder.Instantiate(ctx)
	return err
}

var errFuelExhausted = errors.New("plugin: fuel budget exhausted")

func (p *wasmProcessor) consumeFuel() bool {
	return atomic.AddInt64(&p.fuelUsed, 1) <= p.fuelBudget
}

func (p *wasmProcessor) Name() string              { return p.name }
func (p *wasmProcessor) Permissions() PermissionSet { return p.perms }
func (p *wasmProcessor) Hooks() []HookPoint         { return p.hooks }

func (p *wasmProcessor) Process(ctx context.Context, ev Event) (Action, error) {
	atomic.StoreInt64(&p.fuelUsed, 0)
	p.pendingEvent = encodeEvent(ev)
	p.result = Action{Kind: Continue}
	p.resultErr = nil

	process := p.module.ExportedFunction("process")
	if process == nil {
		return Action{}, errors.New("plugin: module does not export process()")
	}
	if _, err := process.Call(ctx, 0); err != nil {
		if ctx.Err() != nil {
			return Action{Kind: Continue}, ctx.Err()
		}
		return Action{}, err
	}
	if p.resultErr != nil {
		return Action{}, p.resultErr
	}
	return p.result, nil
}

func (p *wasmProcessor) Close(ctx context.Context) error {
	return p.runtime.Close(ctx)
}

// encodeEvent flattens the fields a guest can act on into a small binary
// payload: [hook:1][isEscape:1][critical:1][dataLen:4][data...].
func encodeEvent(ev Event) []byte {
	buf := make([]byte, 7+len(ev.Data))
	buf[0] = byte(ev.Hook)
	if ev.IsEscape {
		buf[1] = 1
	}
	if ev.Critical {
		buf[2] = 1
	}
	binary.LittleEndian.PutUint32(buf[3:7], uint32(len(ev.Data)))
	copy(buf[7:], ev.Data)
	return buf
}
