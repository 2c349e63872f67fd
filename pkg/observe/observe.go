// Package observe provides typed wrappers over foreign reactive cells.
//
// [Binding] is read-write, [Computed] is read-only; both deliver change
// notifications as a single (value, metadata) pair per change, preserving
// the foreign core's per-cell write order. Callbacks arrive on whatever
// goroutine the core chooses; wrap them with [ObserveOn] before touching
// widget state.
//
// Every Observe call returns a [Watcher] owning exactly one subscription.
// Watchers must be released independently, typically by registering
// Watcher.Release into the owning widget's disposal chain. Releasing twice
// is a no-op, and a release racing an in-flight notification drops
// callbacks that have not started rather than crashing.
package observe

import (
	"fmt"
	"sync/atomic"

	"github.com/go-drift/viewbridge/pkg/animation"
	"github.com/go-drift/viewbridge/pkg/errors"
	"github.com/go-drift/viewbridge/pkg/foreign"
)

// Watcher represents one active cell subscription. Release cancels it
// exactly once; it is the WatcherGuard of the bridge contract.
type Watcher struct {
	guard    *foreign.Guard
	detached atomic.Bool
}

// Release cancels the subscription. Safe to call repeatedly and
// concurrently with a pending notification for the same subscription:
// notifications that have not yet entered their callback are dropped,
// while one already past that check may still complete against the
// detached widget.
func (w *Watcher) Release() {
	if w == nil {
		return
	}
	w.detached.Store(true)
	w.guard.Release()
}

// Released reports whether the watcher has been released.
func (w *Watcher) Released() bool {
	return w.detached.Load()
}

// Binding is a read-write wrapper over a foreign reactive cell.
//
// Absent a foreign-side transformation (such as range clamping), Current
// immediately after Set(v) returns v.
type Binding[T any] struct {
	cell *foreign.Cell
	name string
}

// Bind wraps a writable cell. Wrapping a read-only cell is an error;
// use [Compute] for those.
func Bind[T any](cell *foreign.Cell, name string) (*Binding[T], error) {
	if cell == nil {
		return nil, fmt.Errorf("observe: no cell for binding %q", name)
	}
	if !cell.Writable() {
		return nil, fmt.Errorf("observe: cell %q is read-only, not a binding", name)
	}
	return &Binding[T]{cell: cell, name: name}, nil
}

// Current returns a synchronous snapshot of the cell. Read or type
// failures are reported and yield the zero value.
func (b *Binding[T]) Current() T {
	return readCell[T](b.cell, b.name)
}

// Set writes v through to the foreign cell.
func (b *Binding[T]) Set(v T) error {
	return b.cell.Write(v)
}

// Observe subscribes fn to the cell and returns its watcher. fn receives
// each change with its animation metadata, in foreign write order, on an
// arbitrary goroutine.
func (b *Binding[T]) Observe(fn func(T, animation.Metadata)) (*Watcher, error) {
	return watchCell(b.cell, b.name, fn)
}

// Computed is a read-only wrapper over a derived foreign cell. Multiple
// Computed wrappers may sit on the same cell; each owns its own watcher
// and must be released independently.
type Computed[T any] struct {
	cell *foreign.Cell
	name string
}

// Compute wraps a cell observe-only. Works for writable cells too; the
// write surface is simply not exposed.
func Compute[T any](cell *foreign.Cell, name string) (*Computed[T], error) {
	if cell == nil {
		return nil, fmt.Errorf("observe: no cell for computed %q", name)
	}
	return &Computed[T]{cell: cell, name: name}, nil
}

// Current returns a synchronous snapshot of the cell.
func (c *Computed[T]) Current() T {
	return readCell[T](c.cell, c.name)
}

// Observe subscribes fn to the cell and returns its watcher.
func (c *Computed[T]) Observe(fn func(T, animation.Metadata)) (*Watcher, error) {
	return watchCell(c.cell, c.name, fn)
}

// ObserveOn wraps a notification callback so its body runs on the context
// provided by dispatch, typically the platform's UI-affinity dispatcher.
// Ordering is preserved as long as dispatch itself is ordered.
func ObserveOn[T any](dispatch func(func()), fn func(T, animation.Metadata)) func(T, animation.Metadata) {
	if dispatch == nil {
		return fn
	}
	return func(value T, meta animation.Metadata) {
		dispatch(func() { fn(value, meta) })
	}
}

func readCell[T any](cell *foreign.Cell, name string) T {
	var zero T
	raw, err := cell.Read()
	if err != nil {
		errors.Report(&errors.BridgeError{
			Op:   "observe.Current",
			Kind: errors.KindObserve,
			Err:  err,
		})
		return zero
	}
	value, ok := raw.(T)
	if !ok {
		errors.Report(&errors.BridgeError{
			Op:   "observe.Current",
			Kind: errors.KindObserve,
			Err:  fmt.Errorf("cell %q holds %T, want %T", name, raw, zero),
		})
		return zero
	}
	return value
}

func watchCell[T any](cell *foreign.Cell, name string, fn func(T, animation.Metadata)) (*Watcher, error) {
	watcher := &Watcher{}
	guard, err := cell.Watch(func(raw any, meta animation.Metadata) {
		// A release racing this delivery drops the callback.
		if watcher.detached.Load() {
			return
		}
		value, ok := raw.(T)
		if !ok {
			var zero T
			errors.Report(&errors.BridgeError{
				Op:   "observe.notify",
				Kind: errors.KindObserve,
				Err:  fmt.Errorf("cell %q notified %T, want %T", name, raw, zero),
			})
			return
		}
		fn(value, meta)
	})
	if err != nil {
		return nil, err
	}
	watcher.guard = guard
	return watcher, nil
}
