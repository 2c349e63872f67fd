package testing

import (
	"sync"

	"github.com/go-drift/viewbridge/pkg/foreign"
	"github.com/go-drift/viewbridge/pkg/toolkit"
)

// FakeWidget is a recording stand-in for a native widget. It remembers
// every property application so tests can assert on delivery order and
// animated values.
type FakeWidget struct {
	toolkit.WidgetBase

	// Type is the view variant this widget was rendered from.
	Type foreign.TypeID

	mu       sync.Mutex
	applied  []PropChange
	children []toolkit.Widget
}

// PropChange records one property application.
type PropChange struct {
	Prop  string
	Value any
}

// NewFakeWidget creates a widget tagged with its variant.
func NewFakeWidget(id foreign.TypeID) *FakeWidget {
	return &FakeWidget{Type: id}
}

// ApplyProp records a property application.
func (w *FakeWidget) ApplyProp(prop string, value any) {
	w.mu.Lock()
	w.applied = append(w.applied, PropChange{Prop: prop, Value: value})
	w.mu.Unlock()
}

// Applied returns a copy of all recorded property applications.
func (w *FakeWidget) Applied() []PropChange {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]PropChange, len(w.applied))
	copy(out, w.applied)
	return out
}

// AppliedValues returns the recorded values for one property, in order.
func (w *FakeWidget) AppliedValues(prop string) []any {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []any
	for _, change := range w.applied {
		if change.Prop == prop {
			out = append(out, change.Value)
		}
	}
	return out
}

// AddChild records a child widget.
func (w *FakeWidget) AddChild(child toolkit.Widget) {
	w.mu.Lock()
	w.children = append(w.children, child)
	w.mu.Unlock()
}

// Children returns the recorded children.
func (w *FakeWidget) Children() []toolkit.Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]toolkit.Widget, len(w.children))
	copy(out, w.children)
	return out
}

// Depth returns the depth of the widget tree rooted here, counting
// leaves as 1.
func (w *FakeWidget) Depth() int {
	w.mu.Lock()
	children := make([]toolkit.Widget, len(w.children))
	copy(children, w.children)
	w.mu.Unlock()

	max := 0
	for _, child := range children {
		if fake, ok := child.(*FakeWidget); ok {
			if d := fake.Depth(); d > max {
				max = d
			}
		} else {
			if max < 1 {
				max = 1
			}
		}
	}
	return max + 1
}
