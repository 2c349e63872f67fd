package foreign

import "sync/atomic"

// Cell wraps an owned reactive cell handle. The typed wrappers in package
// observe sit on top of it; Cell itself deals in untyped values.
type Cell struct {
	core     Core
	raw      RawCell
	writable bool
	released atomic.Bool
}

func wrapCell(core Core, info RawCellInfo) *Cell {
	return &Cell{core: core, raw: info.Handle, writable: info.Writable}
}

// Writable reports whether the cell accepts writes (binding vs computed).
func (c *Cell) Writable() bool {
	return c.writable
}

// Read returns a synchronous snapshot of the cell's value.
func (c *Cell) Read() (any, error) {
	if c.released.Load() {
		return nil, ErrReleased
	}
	return c.core.ReadCell(c.raw)
}

// Write pushes a value through the cell.
func (c *Cell) Write(value any) error {
	if c.released.Load() {
		return ErrReleased
	}
	if !c.writable {
		return ErrReadOnly
	}
	return c.core.WriteCell(c.raw, value)
}

// Watch subscribes fn to the cell and returns a guard that cancels the
// subscription exactly once. Notifications may arrive on any goroutine;
// callers that touch widget state must remarshal (see observe.ObserveOn).
func (c *Cell) Watch(fn WatchFunc) (*Guard, error) {
	if c.released.Load() {
		return nil, ErrReleased
	}
	id, err := c.core.Watch(c.raw, fn)
	if err != nil {
		return nil, err
	}
	core := c.core
	return NewGuard(func() { core.Unwatch(id) }), nil
}

// Release releases the cell handle. Idempotent; active watches should be
// released first, but the core tolerates the reverse order.
func (c *Cell) Release() {
	if !c.released.CompareAndSwap(false, true) {
		return
	}
	core, raw := c.core, c.raw
	release(func() { core.ReleaseCell(raw) })
}

// Action wraps a repeatable foreign closure (button taps, submit
// callbacks). Invoke may be called any number of times until Release.
type Action struct {
	core     Core
	raw      RawClosure
	released atomic.Bool
}

func wrapAction(core Core, raw RawClosure) *Action {
	return &Action{core: core, raw: raw}
}

// Invoke executes the foreign closure.
func (a *Action) Invoke(args ...any) error {
	if a.released.Load() {
		return ErrReleased
	}
	return a.core.InvokeAction(a.raw, args...)
}

// Release releases the foreign closure. Idempotent.
func (a *Action) Release() {
	if !a.released.CompareAndSwap(false, true) {
		return
	}
	core, raw := a.core, a.raw
	release(func() { core.DropClosure(raw) })
}

// HookRef wraps a one-shot lifecycle closure. Over its lifetime it either
// fires exactly once or is dropped exactly once, never both and never
// neither: firing hands the stored closure to the core for execution,
// dropping releases it unexecuted. The two paths race safely; whichever
// transition wins, the other becomes a no-op.
type HookRef struct {
	// Event is the lifecycle transition this hook is bound to.
	Event HookEvent

	core Core
	raw  RawClosure

	// state: 0 armed, 1 fired, 2 dropped
	state atomic.Int32
}

const (
	hookArmed int32 = iota
	hookFired
	hookDropped
)

func wrapHook(core Core, raw RawHook) *HookRef {
	return &HookRef{Event: raw.Event, core: core, raw: raw.Closure}
}

// Fire consumes the closure and hands it to the core for execution.
// Returns false when the hook already fired or was dropped.
func (h *HookRef) Fire() bool {
	if !h.state.CompareAndSwap(hookArmed, hookFired) {
		return false
	}
	if err := h.core.FireHook(h.raw); err != nil {
		// The closure is spent either way; report and move on.
		reportHookError(h, err)
	}
	return true
}

// Drop releases the closure without executing it. No-op after Fire or a
// previous Drop, so registering Drop into a disposal chain alongside
// lifecycle-driven Fire is always safe.
func (h *HookRef) Drop() {
	if !h.state.CompareAndSwap(hookArmed, hookDropped) {
		return
	}
	core, raw := h.core, h.raw
	release(func() { core.DropClosure(raw) })
}

// Fired reports whether the hook has fired.
func (h *HookRef) Fired() bool {
	return h.state.Load() == hookFired
}

// Dropped reports whether the hook was dropped unexecuted.
func (h *HookRef) Dropped() bool {
	return h.state.Load() == hookDropped
}
