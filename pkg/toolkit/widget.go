package toolkit

import "sync"

// Sizing classifies how a widget participates in layout along each axis:
// whether it stretches to fill available space or hugs its content.
// Decorators forward their child's classification unchanged unless they
// semantically change sizing.
type Sizing struct {
	GrowH bool
	GrowV bool
}

// LifecycleEvent is an attach/detach transition signaled by the platform.
type LifecycleEvent int

const (
	// Attached means the widget entered the live native hierarchy.
	Attached LifecycleEvent = iota
	// Detached means the widget left the live native hierarchy.
	Detached
)

func (e LifecycleEvent) String() string {
	if e == Attached {
		return "attached"
	}
	return "detached"
}

// Widget is the bridge's view of one native widget instance. Platform
// toolkits embed [WidgetBase] to satisfy it.
type Widget interface {
	// Disposal returns the widget's exclusively owned disposal chain.
	Disposal() *DisposalChain
	// Sizing returns the widget's layout-stretch classification.
	Sizing() Sizing
	// OnLifecycle registers a handler for attach/detach transitions and
	// returns its removal function.
	OnLifecycle(fn func(LifecycleEvent)) (remove func())
}

// WidgetBase implements the Widget contract for embedding in platform
// widget types. The platform glue calls NotifyAttached/NotifyDetached from
// its native lifecycle signals and Destroy at teardown.
type WidgetBase struct {
	mu       sync.Mutex
	sizing   Sizing
	handlers map[int]func(LifecycleEvent)
	nextID   int
	attached bool
	chain    DisposalChain
}

// Disposal returns the widget's disposal chain.
func (w *WidgetBase) Disposal() *DisposalChain {
	return &w.chain
}

// Sizing returns the current layout-stretch classification.
func (w *WidgetBase) Sizing() Sizing {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sizing
}

// SetSizing sets the layout-stretch classification.
func (w *WidgetBase) SetSizing(s Sizing) {
	w.mu.Lock()
	w.sizing = s
	w.mu.Unlock()
}

// IsAttached reports whether the widget is in the live hierarchy.
func (w *WidgetBase) IsAttached() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.attached
}

// OnLifecycle registers a handler for attach/detach transitions.
// Returns a function that removes the handler; removing twice is a no-op.
func (w *WidgetBase) OnLifecycle(fn func(LifecycleEvent)) (remove func()) {
	if fn == nil {
		return func() {}
	}
	w.mu.Lock()
	if w.handlers == nil {
		w.handlers = make(map[int]func(LifecycleEvent))
	}
	id := w.nextID
	w.nextID++
	w.handlers[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.handlers, id)
		w.mu.Unlock()
	}
}

// NotifyAttached signals that the widget entered the native hierarchy.
// Redundant signals (already attached) are ignored.
func (w *WidgetBase) NotifyAttached() {
	w.notify(Attached)
}

// NotifyDetached signals that the widget left the native hierarchy.
func (w *WidgetBase) NotifyDetached() {
	w.notify(Detached)
}

func (w *WidgetBase) notify(event LifecycleEvent) {
	w.mu.Lock()
	attached := event == Attached
	if w.attached == attached {
		w.mu.Unlock()
		return
	}
	w.attached = attached
	handlers := make([]func(LifecycleEvent), 0, len(w.handlers))
	for _, fn := range w.handlers {
		handlers = append(handlers, fn)
	}
	w.mu.Unlock()

	for _, fn := range handlers {
		fn(event)
	}
}

// Destroy tears the widget down: detaches it if still attached, then runs
// the disposal chain. Tolerates being called more than once.
func (w *WidgetBase) Destroy() {
	w.NotifyDetached()
	w.chain.Dispose()
}
