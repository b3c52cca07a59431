package plugin

import "context"

// ChainResult is what running an Event through a chain of processors
// produced: the bytes to use going forward (possibly transformed), plus any
// side-effect actions the chain wants the host to carry out.
type ChainResult struct {
	// Data is the event payload after every Transform in the chain has been
	// applied in order; equal to the original payload if nothing
	// transformed it.
	Data []byte
	// Consumed is true if some processor returned Consume, meaning the
	// event must not be delivered further (e.g. not forwarded to the real
	// PTY/output sink).
	Consumed bool
	// EmittedInput/EmittedCommands/Annotations collect every side-effect
	// action produced along the chain, in processor order.
	EmittedInput    [][]byte
	EmittedCommands []Action
	Annotations     []Action
}

// runChain drives one Event through processors in registration order (spec
// §4.5 "Order of processors is deterministic (registration order)"). The
// first Consume stops the chain; Transform results chain into the next
// processor's view of the data.
func runChain(ctx context.Context, processors []*pluginSlot, ev Event) ChainResult {
	result := ChainResult{Data: ev.Data}

	for _, slot := range processors {
		if !slot.stateSnapshot().CanAcceptEvents() {
			continue
		}
		if !hooksContain(slot.proc.Hooks(), ev.Hook) {
			continue
		}

		stepEvent := ev
		stepEvent.Data = result.Data

		action, err := slot.dispatch(ctx, stepEvent)
		if err != nil {
			continue // health bookkeeping already applied by dispatch
		}

		switch action.Kind {
		case Consume:
			result.Consumed = true
			return result
		case Transform:
			if slot.proc.Permissions().Has(PermTerminalWrite) {
				result.Data = action.Transformed
			}
		case EmitInput:
			if slot.proc.Permissions().Has(PermTerminalWrite) {
				result.EmittedInput = append(result.EmittedInput, action.InputBytes)
			}
		case EmitCommand:
			if slot.proc.Permissions().Has(PermTerminalCommand) {
				result.EmittedCommands = append(result.EmittedCommands, action)
			}
		case Annotate:
			if slot.proc.Permissions().Has(PermTerminalRead) {
				result.Annotations = append(result.Annotations, action)
			}
		case Continue:
			// no-op, chain proceeds unchanged
		}
	}

	return result
}

func hooksContain(hooks []HookPoint, h HookPoint) bool {
	for _, x := range hooks {
		if x == h {
			return true
		}
	}
	return false
}
