package plugin

import "sync"

const defaultMaxConsecutiveErrors = 10

// Health tracks a plugin's error history (spec §4.5 "Health & recovery").
// A plugin auto-disables once ConsecutiveErrors reaches MaxConsecutiveErrors;
// any success resets ConsecutiveErrors back to zero.
type Health struct {
	mu                   sync.Mutex
	ConsecutiveErrors    int
	TotalErrors          int
	Disabled             bool
	MaxConsecutiveErrors int
	Timeouts             int
}

func newHealth() *Health {
	return &Health{MaxConsecutiveErrors: defaultMaxConsecutiveErrors}
}

// RecordSuccess resets the consecutive-error streak.
func (h *Health) RecordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ConsecutiveErrors = 0
}

// RecordError increments both counters and auto-disables the plugin once
// the consecutive streak reaches MaxConsecutiveErrors. Returns true if this
// call caused the plugin to become disabled.
func (h *Health) RecordError() (justDisabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ConsecutiveErrors++
	h.TotalErrors++
	if !h.Disabled && h.ConsecutiveErrors >= h.MaxConsecutiveErrors {
		h.Disabled = true
		return true
	}
	return false
}

// RecordTimeout counts a fuel/epoch interrupt; per spec §5 it is treated as
// if the plugin returned Continue, not as an error against the health
// counters (a slow plugin isn't necessarily a buggy one).
func (h *Health) RecordTimeout() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Timeouts++
}

// Reenable clears Disabled and resets the consecutive-error streak (spec
// §4.5 "a manual re-enable resets the counter").
func (h *Health) Reenable() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Disabled = false
	h.ConsecutiveErrors = 0
}

// Disable forces the plugin into the disabled state regardless of its
// error streak (a manual Bridge.Disable call).
func (h *Health) Disable() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Disabled = true
}

func (h *Health) IsDisabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Disabled
}

// HealthSnapshot is a point-in-time, mutex-free copy of Health safe to hand
// to callers outside the bridge.
type HealthSnapshot struct {
	ConsecutiveErrors    int
	TotalErrors          int
	Disabled             bool
	MaxConsecutiveErrors int
	Timeouts             int
}

func (h *Health) Snapshot() HealthSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HealthSnapshot{
		ConsecutiveErrors:    h.ConsecutiveErrors,
		TotalErrors:          h.TotalErrors,
		Disabled:             h.Disabled,
		MaxConsecutiveErrors: h.MaxConsecutiveErrors,
		Timeouts:             h.Timeouts,
	}
}
