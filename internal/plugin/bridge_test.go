package plugin

import (
	"context"
	"errors"
	"testing"
	"time"
)

// minimalEchoWasmModule is a hand-assembled wasm binary (no external wasm
// toolchain available in this build) exporting a single process(i32)
// function. Its body calls the vtp_read_event/vtp_write_result host imports
// and resolves with a Continue action, exercising wasmProcessor (spec §9's
// "sandboxed module processor" variant) end to end through the real wazero
// runtime.
var minimalEchoWasmModule = []byte{
	// \0asm, version 1
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type section: (i32,i32)->i32 ; (i32,i32,i32)->() ; (i32)->()
	0x01, 0x11, 0x03,
	0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	0x60, 0x03, 0x7f, 0x7f, 0x7f, 0x00,
	0x60, 0x01, 0x7f, 0x00,
	// import section: vtp.vtp_read_event (type 0), vtp.vtp_write_result (type 1)
	0x02, 0x2d, 0x02,
	0x03, 0x76, 0x74, 0x70, 0x0e, 0x76, 0x74, 0x70, 0x5f, 0x72, 0x65, 0x61, 0x64, 0x5f, 0x65, 0x76, 0x65, 0x6e, 0x74, 0x00, 0x00,
	0x03, 0x76, 0x74, 0x70, 0x10, 0x76, 0x74, 0x70, 0x5f, 0x77, 0x72, 0x69, 0x74, 0x65, 0x5f, 0x72, 0x65, 0x73, 0x75, 0x6c, 0x74, 0x00, 0x01,
	// function section: one function of type 2 ("process")
	0x03, 0x02, 0x01, 0x02,
	// memory section: one page, min only
	0x05, 0x03, 0x01, 0x00, 0x01,
	// export section: memory, process
	0x07, 0x14, 0x02,
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
	0x07, 0x70, 0x72, 0x6f, 0x63, 0x65, 0x73, 0x73, 0x00, 0x02,
	// code section: process body — read_event(0,0); drop; write_result(0,0,0)
	0x0a, 0x13, 0x01,
	0x11, 0x00,
	0x41, 0x00, 0x41, 0x00, 0x10, 0x00, 0x1a,
	0x41, 0x00, 0x41, 0x00, 0x41, 0x00, 0x10, 0x01,
	0x0b,
}

func newEchoWasmProcessor(t *testing.T, name string, hooks []HookPoint) Processor {
	t.Helper()
	proc, err := NewWasmProcessor(context.Background(), WasmConfig{
		Name:        name,
		Code:        minimalEchoWasmModule,
		Permissions: NewPermissionSet(),
		Hooks:       hooks,
	})
	if err != nil {
		t.Fatalf("NewWasmProcessor failed: %v", err)
	}
	return proc
}

func TestWasmProcessorRunsSandboxedModule(t *testing.T) {
	ctx := context.Background()
	proc := newEchoWasmProcessor(t, "echo", []HookPoint{HookOutput})
	defer proc.Close(ctx)

	action, err := proc.Process(ctx, Event{Hook: HookOutput, Data: []byte("hi")})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if action.Kind != Continue {
		t.Errorf("expected Continue, got %v", action.Kind)
	}
}

func TestWasmProcessorRunsThroughBridge(t *testing.T) {
	b := NewBridge(0, 0)
	defer b.Close(context.Background())

	proc := newEchoWasmProcessor(t, "wasm-echo", []HookPoint{HookOutput})
	if err := b.Register(proc); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	res := b.DispatchOutput(context.Background(), []byte("passthrough"), false)
	if string(res.Data) != "passthrough" {
		t.Errorf("expected a Continue-only wasm processor to leave data untouched, got %q", res.Data)
	}
}

func upperCaseProcessor(name string) Processor {
	return NewNativeProcessor(name, NewPermissionSet(PermTerminalWrite), []HookPoint{HookOutput},
		func(ctx context.Context, ev Event, store *Storage) (Action, error) {
			out := make([]byte, len(ev.Data))
			for i, b := range ev.Data {
				if b >= 'a' && b <= 'z' {
					b -= 'a' - 'A'
				}
				out[i] = b
			}
			return Action{Kind: Transform, Transformed: out}, nil
		})
}

func TestChainTransformsChain(t *testing.T) {
	b := NewBridge(0, 0)
	defer b.Close(context.Background())

	if err := b.Register(upperCaseProcessor("upper")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	// Second processor reverses, to prove the second sees the first's output.
	reverse := NewNativeProcessor("reverse", NewPermissionSet(PermTerminalWrite), []HookPoint{HookOutput},
		func(ctx context.Context, ev Event, store *Storage) (Action, error) {
			out := make([]byte, len(ev.Data))
			for i, b := range ev.Data {
				out[len(out)-1-i] = b
			}
			return Action{Kind: Transform, Transformed: out}, nil
		})
	if err := b.Register(reverse); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	res := b.DispatchOutput(context.Background(), []byte("abc"), false)
	if string(res.Data) != "CBA" {
		t.Errorf("expected chained transform CBA, got %q", res.Data)
	}
}

func TestChainConsumeStopsProcessing(t *testing.T) {
	b := NewBridge(0, 0)
	defer b.Close(context.Background())

	consumed := false
	b.Register(NewNativeProcessor("gate", NewPermissionSet(), []HookPoint{HookOutput},
		func(ctx context.Context, ev Event, store *Storage) (Action, error) {
			return Action{Kind: Consume}, nil
		}))
	b.Register(NewNativeProcessor("never", NewPermissionSet(PermTerminalWrite), []HookPoint{HookOutput},
		func(ctx context.Context, ev Event, store *Storage) (Action, error) {
			consumed = true
			return Action{Kind: Continue}, nil
		}))

	res := b.DispatchOutput(context.Background(), []byte("x"), false)
	if !res.Consumed {
		t.Error("expected chain result to report Consumed")
	}
	if consumed {
		t.Error("expected the second processor to never run after Consume")
	}
}

func TestTransformRequiresPermission(t *testing.T) {
	b := NewBridge(0, 0)
	defer b.Close(context.Background())

	b.Register(NewNativeProcessor("no-perm", NewPermissionSet(), []HookPoint{HookOutput},
		func(ctx context.Context, ev Event, store *Storage) (Action, error) {
			return Action{Kind: Transform, Transformed: []byte("hijacked")}, nil
		}))

	res := b.DispatchOutput(context.Background(), []byte("original"), false)
	if string(res.Data) != "original" {
		t.Errorf("expected unprivileged Transform to be ignored, got %q", res.Data)
	}
}

func TestHealthAutoDisablesAfterConsecutiveErrors(t *testing.T) {
	b := NewBridge(0, 0)
	defer b.Close(context.Background())

	failing := NewNativeProcessor("flaky", NewPermissionSet(), []HookPoint{HookInput},
		func(ctx context.Context, ev Event, store *Storage) (Action, error) {
			return Action{}, errors.New("boom")
		})
	b.Register(failing)

	for i := 0; i < defaultMaxConsecutiveErrors; i++ {
		b.DispatchInput(context.Background(), []byte("x"))
	}

	state, ok := b.State("flaky")
	if !ok {
		t.Fatal("expected plugin to be registered")
	}
	if state != Disabled {
		t.Errorf("expected plugin disabled after %d consecutive errors, got state %v", defaultMaxConsecutiveErrors, state)
	}

	health, _ := b.Health("flaky")
	if !health.Disabled || health.TotalErrors != defaultMaxConsecutiveErrors {
		t.Errorf("unexpected health snapshot: %+v", health)
	}

	if err := b.Enable("flaky"); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	state, _ = b.State("flaky")
	if state != Ready {
		t.Errorf("expected plugin Ready after manual re-enable, got %v", state)
	}
	health, _ = b.Health("flaky")
	if health.ConsecutiveErrors != 0 {
		t.Errorf("expected re-enable to reset the consecutive-error streak, got %d", health.ConsecutiveErrors)
	}
}

func TestDisabledPluginRejectsEvents(t *testing.T) {
	b := NewBridge(0, 0)
	defer b.Close(context.Background())

	ran := false
	b.Register(NewNativeProcessor("p", NewPermissionSet(), []HookPoint{HookInput},
		func(ctx context.Context, ev Event, store *Storage) (Action, error) {
			ran = true
			return Action{Kind: Continue}, nil
		}))
	b.Disable("p")

	b.DispatchInput(context.Background(), []byte("x"))
	if ran {
		t.Error("expected a disabled plugin to never run")
	}
}

func TestTimeBudgetInterruptTreatedAsContinue(t *testing.T) {
	b := NewBridge(0, time.Microsecond)
	defer b.Close(context.Background())

	b.Register(NewNativeProcessor("slow", NewPermissionSet(), []HookPoint{HookInput},
		func(ctx context.Context, ev Event, store *Storage) (Action, error) {
			<-ctx.Done()
			return Action{Kind: Consume}, ctx.Err()
		}))

	res := b.DispatchInput(context.Background(), []byte("x"))
	if res.Consumed {
		t.Error("expected a timed-out processor's action to be discarded (treated as Continue)")
	}
	health, _ := b.Health("slow")
	if health.Timeouts == 0 {
		t.Error("expected the timeout to be counted")
	}
	if health.TotalErrors != 0 {
		t.Error("expected a timeout to not count as a health error")
	}
}

func TestStorageQuotas(t *testing.T) {
	s := newStorage()
	if err := s.Set(string(make([]byte, 257)), []byte("v")); err != ErrKeyTooLong {
		t.Errorf("expected ErrKeyTooLong, got %v", err)
	}
	if err := s.Set("k", make([]byte, 64*1024+1)); err != ErrValueTooLarge {
		t.Errorf("expected ErrValueTooLarge, got %v", err)
	}
	if _, err := s.Get("missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("expected Set to succeed: %v", err)
	}
	got, err := s.Get("k")
	if err != nil || string(got) != "v" {
		t.Errorf("expected round-tripped value %q, got %q err %v", "v", got, err)
	}
}

func TestQueueDropsOldestNonCritical(t *testing.T) {
	q := newJobQueue(2)
	r1 := make(chan jobResult, 1)
	r2 := make(chan jobResult, 1)
	r3 := make(chan jobResult, 1)

	q.Push(job{ev: Event{Data: []byte("1")}, result: r1})
	q.Push(job{ev: Event{Data: []byte("2")}, result: r2})
	q.Push(job{ev: Event{Data: []byte("3")}, result: r3})

	select {
	case res := <-r1:
		if res.action.Kind != Continue {
			t.Errorf("expected dropped job to resolve to Continue, got %v", res.action.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("expected the oldest non-critical job to be dropped and resolved immediately")
	}
	if q.Len() != 2 {
		t.Errorf("expected queue to retain 2 jobs after drop, got %d", q.Len())
	}
}
