package plugin

import "context"

// Processor is one loaded plugin's event handler. Both the native
// (in-process, trusted) and wasm-sandboxed variants implement this same
// interface so the Bridge's dispatch logic never needs to know which kind
// it is talking to.
type Processor interface {
	Name() string
	Permissions() PermissionSet
	Hooks() []HookPoint
	// Process runs one Event through the processor. ctx carries the
	// per-event time budget (spec §4.5 "time budget (default 1000 µs)");
	// implementations must return promptly when ctx is done rather than
	// block past it.
	Process(ctx context.Context, ev Event) (Action, error)
	// Close releases any resources (wasm runtime, etc) held by the
	// processor. Native processors may no-op.
	Close(ctx context.Context) error
}

// NativeFunc is a trusted, in-process processor body. It runs with no
// sandboxing: used for first-party processors shipped alongside the host
// (spec §9 distinguishes a "native in-process variant for trusted
// processors" from the wasm-sandboxed one).
type NativeFunc func(ctx context.Context, ev Event, store *Storage) (Action, error)

type nativeProcessor struct {
	name    string
	perms   PermissionSet
	hooks   []HookPoint
	fn      NativeFunc
	storage *Storage
}

// NewNativeProcessor wraps a Go function as a Processor. Useful for
// first-party processors (e.g. a shell-integration helper) that don't need
// wasm isolation.
func NewNativeProcessor(name string, perms PermissionSet, hooks []HookPoint, fn NativeFunc) Processor {
	return &nativeProcessor{name: name, perms: perms, hooks: hooks, fn: fn, storage: newStorage()}
}

func (p *nativeProcessor) Name() string             { return p.name }
func (p *nativeProcessor) Permissions() PermissionSet { return p.perms }
func (p *nativeProcessor) Hooks() []HookPoint         { return p.hooks }

func (p *nativeProcessor) Process(ctx context.Context, ev Event) (Action, error) {
	return p.fn(ctx, ev, p.storage)
}

func (p *nativeProcessor) Close(ctx context.Context) error { return nil }
