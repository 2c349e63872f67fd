// Package foreign defines the boundary to the external reactive core and
// the ownership protocol for the opaque handles that cross it.
//
// The core owns all reactive state and the view tree; this side only holds
// handles. Every handle is single-owner: a view handle is consumed by
// exactly one extraction or released exactly once if never rendered, and
// every extracted sub-handle (cell, action, hook closure, environment)
// carries its own release primitive. The wrapper types in this package
// ([View], [Cell], [Action], [HookRef], [Environment], [Guard]) enforce
// those rules with single-word state transitions so double release is
// always a safe no-op, even under teardown races.
package foreign

import (
	"errors"

	"github.com/go-drift/viewbridge/pkg/animation"
)

// TypeID is the stable opaque tag identifying which concrete view variant
// a handle represents. The set of IDs is known only to the core; hosts
// register renderers for the IDs they support and fall back for the rest.
type TypeID string

// Raw handle values minted by the foreign core. They are opaque; the only
// valid operations are the ones on [Core].
type (
	// RawView references one foreign view-tree node.
	RawView uint64
	// RawCell references a reactive cell (binding or computed).
	RawCell uint64
	// RawClosure references a foreign closure (action or lifecycle hook).
	RawClosure uint64
	// RawEnv references an ambient environment scope.
	RawEnv uint64
)

// WatchID identifies one active cell subscription inside the core.
type WatchID uint64

// WatchFunc receives cell change notifications. The value and its
// animation metadata always arrive together as one notification; the core
// may invoke the callback on any goroutine it chooses.
type WatchFunc func(value any, meta animation.Metadata)

// HookEvent is the lifecycle transition a one-shot hook is bound to.
type HookEvent int

const (
	// HookAppear fires when the owning widget is first attached.
	HookAppear HookEvent = iota
	// HookDisappear fires when the owning widget is detached.
	HookDisappear
)

func (e HookEvent) String() string {
	if e == HookAppear {
		return "appear"
	}
	return "disappear"
}

// RawNode is the force-extraction result produced by [Core.Extract]:
// the typed payload of a view plus its named opaque sub-handles.
// Extraction consumes the outer view handle.
type RawNode struct {
	// Props holds the plain typed payload fields.
	Props map[string]any
	// Children are the content sub-handles in document order.
	Children []RawView
	// Cells are the reactive sub-handles by field name.
	Cells map[string]RawCellInfo
	// Actions are repeatable closure sub-handles by field name.
	Actions map[string]RawClosure
	// Hooks are one-shot lifecycle closures with their bound transitions.
	Hooks []RawHook
}

// RawCellInfo pairs a cell handle with its mutability.
type RawCellInfo struct {
	Handle RawCell
	// Writable distinguishes bindings (read-write) from computed
	// (read-only) cells.
	Writable bool
}

// RawHook pairs a one-shot closure with the transition it is bound to.
type RawHook struct {
	Event   HookEvent
	Closure RawClosure
}

// Core is the surface the foreign reactive core must expose. All methods
// are synchronous cross-boundary calls except that Watch callbacks are
// pushed asynchronously from whatever context the core chooses.
type Core interface {
	// Version returns the core's ABI version as a semver string ("v1.2.0").
	Version() string

	// TypeOf reads a view handle's TypeID without consuming it.
	TypeOf(v RawView) (TypeID, error)
	// Extract destructures a view into its payload and sub-handles,
	// consuming the view handle. The handle is retired even when Extract
	// fails; the caller must not release it afterwards.
	Extract(v RawView) (*RawNode, error)
	// ReleaseView releases a view handle that will never be extracted.
	ReleaseView(v RawView)

	// ReadCell returns a synchronous snapshot of a cell's value.
	ReadCell(c RawCell) (any, error)
	// WriteCell pushes a value through a writable cell.
	WriteCell(c RawCell, value any) error
	// Watch subscribes to a cell. Notifications for one cell are delivered
	// in the core's write order; no cross-cell ordering is guaranteed.
	Watch(c RawCell, fn WatchFunc) (WatchID, error)
	// Unwatch cancels a subscription. Safe to call while a notification
	// for the same subscription is in flight.
	Unwatch(id WatchID)
	// ReleaseCell releases a cell handle.
	ReleaseCell(c RawCell)

	// CloneEnv creates an independently owned copy of an environment.
	CloneEnv(e RawEnv) (RawEnv, error)
	// ReleaseEnv releases an environment scope.
	ReleaseEnv(e RawEnv)

	// InvokeAction invokes a repeatable foreign closure.
	InvokeAction(c RawClosure, args ...any) error
	// FireHook consumes and executes a one-shot foreign closure.
	FireHook(c RawClosure) error
	// DropClosure releases a foreign closure without executing it.
	DropClosure(c RawClosure)
}

// ErrConsumed is returned when a view handle is extracted a second time.
var ErrConsumed = errors.New("foreign: view handle already consumed")

// ErrReleased is returned when an operation is attempted on a handle that
// has already been released.
var ErrReleased = errors.New("foreign: handle already released")

// ErrReadOnly is returned when writing through a computed (read-only) cell.
var ErrReadOnly = errors.New("foreign: cell is read-only")
