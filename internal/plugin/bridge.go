// Package plugin implements the Plugin Bridge (spec §4.5): a deterministic,
// permission-gated chain of sandboxed processors attached at the Output,
// Input, and Command-lifecycle hook points, each executed on its own
// goroutine under a fuel/time budget and tracked for health so a
// misbehaving plugin degrades to Continue instead of taking the terminal
// down with it.
package plugin

import (
	"context"
	"errors"
	"sync"
	"time"
)

const defaultTimeBudget = 1000 * time.Microsecond

var (
	ErrUnknownPlugin  = errors.New("plugin: unknown plugin name")
	ErrPluginDisabled = errors.New("plugin: disabled")
)

// pluginSlot owns one processor's lifecycle state, health record, and
// executor goroutine. The executor is the only goroutine that ever calls
// Processor.Process, so a wasm module's single-threaded assumptions hold.
type pluginSlot struct {
	proc       Processor
	health     *Health
	timeBudget time.Duration
	queue      *jobQueue
	stopCh     chan struct{}

	mu    sync.Mutex
	state LifecycleState
}

func newPluginSlot(proc Processor, timeBudget time.Duration, queueCapacity int) *pluginSlot {
	if timeBudget <= 0 {
		timeBudget = defaultTimeBudget
	}
	s := &pluginSlot{
		proc:       proc,
		health:     newHealth(),
		timeBudget: timeBudget,
		queue:      newJobQueue(queueCapacity),
		stopCh:     make(chan struct{}),
		state:      Ready,
	}
	go s.run()
	return s
}

func (s *pluginSlot) run() {
	for {
		select {
		case <-s.stopCh:
			return
		case <-s.queue.notify:
		}
		for {
			j, ok := s.queue.Pop()
			if !ok {
				break
			}
			j.result <- s.execute(j.ev)
		}
	}
}

// execute runs one Event through the processor under its time budget,
// updating lifecycle state and health bookkeeping around the call (spec
// §4.5 "Health & recovery", "State machine").
func (s *pluginSlot) execute(ev Event) jobResult {
	s.mu.Lock()
	if s.health.IsDisabled() {
		s.state = Disabled
		s.mu.Unlock()
		return jobResult{action: Action{Kind: Continue}, err: ErrPluginDisabled}
	}
	s.state = Processing
	s.mu.Unlock()

	cctx, cancel := context.WithTimeout(context.Background(), s.timeBudget)
	action, err := s.proc.Process(cctx, ev)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if cctx.Err() == context.DeadlineExceeded {
		// Epoch/time-budget interrupt: treat as Continue, do not count
		// against health (spec §5 "Cancellation/timeouts").
		s.health.RecordTimeout()
		s.state = Ready
		return jobResult{action: Action{Kind: Continue}}
	}
	if err != nil {
		if s.health.RecordError() {
			s.state = Disabled
		} else {
			s.state = Ready
		}
		return jobResult{action: Action{Kind: Continue}, err: err}
	}
	s.health.RecordSuccess()
	s.state = Ready
	return jobResult{action: action}
}

// dispatch enqueues ev and blocks for its result. Used by runChain, which
// needs each processor's Action before deciding what the next processor in
// the chain sees.
func (s *pluginSlot) dispatch(ctx context.Context, ev Event) (Action, error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if !state.CanAcceptEvents() {
		return Action{Kind: Continue}, ErrPluginDisabled
	}

	resultCh := make(chan jobResult, 1)
	s.queue.Push(job{ev: ev, result: resultCh})

	select {
	case r := <-resultCh:
		return r.action, r.err
	case <-ctx.Done():
		return Action{Kind: Continue}, ctx.Err()
	}
}

func (s *pluginSlot) stateSnapshot() LifecycleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *pluginSlot) close(ctx context.Context) error {
	close(s.stopCh)
	return s.proc.Close(ctx)
}

// Bridge owns every registered plugin and routes Output/Input/Command
// events through their chains in registration order.
type Bridge struct {
	mu         sync.RWMutex
	order      []string
	slots      map[string]*pluginSlot
	queueCap   int
	timeBudget time.Duration
}

// NewBridge creates an empty Bridge. queueCap and timeBudget configure
// every plugin registered afterward; pass 0 for spec defaults (1000-event
// queue, 1000µs time budget).
func NewBridge(queueCap int, timeBudget time.Duration) *Bridge {
	return &Bridge{
		slots:      make(map[string]*pluginSlot),
		queueCap:   queueCap,
		timeBudget: timeBudget,
	}
}

// Register loads a Processor and makes it Ready to receive events. Per
// spec's lifecycle state machine, a Processor reaching Register has
// already been validated and instantiated by its constructor (NewWasmProcessor
// compiles+instantiates the module, NewNativeProcessor has nothing to
// instantiate), so Register's job is solely the Ready transition and
// bridge bookkeeping.
func (b *Bridge) Register(proc Processor) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	name := proc.Name()
	if _, exists := b.slots[name]; exists {
		return errors.New("plugin: " + name + " already registered")
	}
	b.slots[name] = newPluginSlot(proc, b.timeBudget, b.queueCap)
	b.order = append(b.order, name)
	return nil
}

func (b *Bridge) orderedSlots() []*pluginSlot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*pluginSlot, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.slots[name])
	}
	return out
}

// DispatchOutput runs data through every registered Output-hooked processor.
func (b *Bridge) DispatchOutput(ctx context.Context, data []byte, isEscape bool) ChainResult {
	return runChain(ctx, b.orderedSlots(), Event{Hook: HookOutput, Data: data, IsEscape: isEscape, Critical: isEscape})
}

// DispatchInput runs data through every registered Input-hooked processor.
func (b *Bridge) DispatchInput(ctx context.Context, data []byte) ChainResult {
	return runChain(ctx, b.orderedSlots(), Event{Hook: HookInput, Data: data})
}

// DispatchCommandStarted notifies Command-hooked processors of OSC 133 B/C.
func (b *Bridge) DispatchCommandStarted(ctx context.Context, command string) ChainResult {
	return runChain(ctx, b.orderedSlots(), Event{Hook: HookCommand, Phase: CommandStarted, Command: command, Critical: true})
}

// DispatchCommandFinished notifies Command-hooked processors of OSC 133 D.
func (b *Bridge) DispatchCommandFinished(ctx context.Context, command string, exitCode int, duration time.Duration) ChainResult {
	return runChain(ctx, b.orderedSlots(), Event{
		Hook: HookCommand, Phase: CommandFinished, Command: command,
		ExitCode: exitCode, Duration: duration.Nanoseconds(), Critical: true,
	})
}

// Disable manually disables a plugin; it stops accepting events until
// Enable is called.
func (b *Bridge) Disable(name string) error {
	b.mu.RLock()
	slot, ok := b.slots[name]
	b.mu.RUnlock()
	if !ok {
		return ErrUnknownPlugin
	}
	slot.health.Disable()
	slot.mu.Lock()
	slot.state = Disabled
	slot.mu.Unlock()
	return nil
}

// Enable resets a plugin's health streak and returns it to Ready (spec
// §4.5 "a manual re-enable resets the counter").
func (b *Bridge) Enable(name string) error {
	b.mu.RLock()
	slot, ok := b.slots[name]
	b.mu.RUnlock()
	if !ok {
		return ErrUnknownPlugin
	}
	slot.health.Reenable()
	slot.mu.Lock()
	slot.state = Ready
	slot.mu.Unlock()
	return nil
}

// Health reports a plugin's current error/timeout counters.
func (b *Bridge) Health(name string) (HealthSnapshot, bool) {
	b.mu.RLock()
	slot, ok := b.slots[name]
	b.mu.RUnlock()
	if !ok {
		return HealthSnapshot{}, false
	}
	return slot.health.Snapshot(), true
}

// State reports a plugin's current lifecycle state.
func (b *Bridge) State(name string) (LifecycleState, bool) {
	b.mu.RLock()
	slot, ok := b.slots[name]
	b.mu.RUnlock()
	if !ok {
		return Unloaded, false
	}
	return slot.stateSnapshot(), true
}

// Unregister stops a plugin's executor and releases its resources.
func (b *Bridge) Unregister(ctx context.Context, name string) error {
	b.mu.Lock()
	slot, ok := b.slots[name]
	if ok {
		delete(b.slots, name)
		for i, n := range b.order {
			if n == name {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
	b.mu.Unlock()
	if !ok {
		return ErrUnknownPlugin
	}
	return slot.close(ctx)
}

// Close stops every plugin's executor and releases all resources.
func (b *Bridge) Close(ctx context.Context) error {
	b.mu.Lock()
	slots := b.slots
	b.slots = make(map[string]*pluginSlot)
	b.order = nil
	b.mu.Unlock()

	var firstErr error
	for _, slot := range slots {
		if err := slot.close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
