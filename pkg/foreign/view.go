package foreign

import "sync/atomic"

// View wraps a single-owner view handle. Over its lifetime it transitions
// exactly once: either Extract consumes it into a [Node], or Release
// retires it unrendered. Both transitions are safe under concurrent calls;
// the loser of the race becomes a no-op (or ErrConsumed/ErrReleased for
// Extract).
type View struct {
	core Core
	raw  RawView

	// state: 0 live, 1 consumed, 2 released
	state atomic.Int32
}

const (
	viewLive int32 = iota
	viewConsumed
	viewReleased
)

// WrapView takes ownership of a raw view handle minted by the core.
func WrapView(core Core, raw RawView) *View {
	return &View{core: core, raw: raw}
}

// TypeID reads the view's variant tag without consuming the handle.
func (v *View) TypeID() (TypeID, error) {
	if v.state.Load() != viewLive {
		return "", ErrConsumed
	}
	return v.core.TypeOf(v.raw)
}

// Extract force-extracts the view into its payload and owned sub-handle
// wrappers, consuming the handle. The handle is retired even when the
// foreign side fails mid-extraction, so a failed Extract needs no
// compensating Release.
func (v *View) Extract() (*Node, error) {
	if !v.state.CompareAndSwap(viewLive, viewConsumed) {
		return nil, ErrConsumed
	}
	raw, err := v.core.Extract(v.raw)
	if err != nil {
		return nil, err
	}
	return wrapNode(v.core, raw), nil
}

// Release retires the handle without rendering it. No-op after Extract or
// a previous Release. The call is marshalled onto the release coordinator.
func (v *View) Release() {
	if !v.state.CompareAndSwap(viewLive, viewReleased) {
		return
	}
	core, raw := v.core, v.raw
	release(func() { core.ReleaseView(raw) })
}

// Consumed reports whether the handle has been extracted.
func (v *View) Consumed() bool {
	return v.state.Load() == viewConsumed
}

// Node is the owned result of extracting a view: plain payload fields plus
// wrapper objects for every sub-handle. The renderer that extracted the
// view owns all of them and must register one release per sub-handle into
// the produced widget's disposal chain; [Node.Releases] enumerates them.
type Node struct {
	// Props holds the plain typed payload fields.
	Props map[string]any
	// Children are the content sub-views in document order.
	Children []*View
	// Cells are the reactive sub-handles by field name.
	Cells map[string]*Cell
	// Actions are repeatable foreign callbacks by field name.
	Actions map[string]*Action
	// Hooks are one-shot lifecycle closures.
	Hooks []*HookRef
}

func wrapNode(core Core, raw *RawNode) *Node {
	node := &Node{
		Props:   raw.Props,
		Cells:   make(map[string]*Cell, len(raw.Cells)),
		Actions: make(map[string]*Action, len(raw.Actions)),
	}
	for _, child := range raw.Children {
		node.Children = append(node.Children, WrapView(core, child))
	}
	for name, info := range raw.Cells {
		node.Cells[name] = wrapCell(core, info)
	}
	for name, closure := range raw.Actions {
		node.Actions[name] = wrapAction(core, closure)
	}
	for _, hook := range raw.Hooks {
		node.Hooks = append(node.Hooks, wrapHook(core, hook))
	}
	return node
}

// Cell returns the named cell, or nil when the foreign side did not
// provide the field. Absent optional sub-handles are expected, not errors.
func (n *Node) Cell(name string) *Cell {
	return n.Cells[name]
}

// Action returns the named action, or nil when absent.
func (n *Node) Action(name string) *Action {
	return n.Actions[name]
}

// Prop returns a payload field, typed. The second result is false when the
// field is absent or holds a different type.
func Prop[T any](n *Node, name string) (T, bool) {
	value, ok := n.Props[name].(T)
	return value, ok
}

// Releases enumerates one release action per owned sub-handle: every
// child view, cell, action, and the drop path of every hook. All of them
// are exactly-once, so registering the whole set into a disposal chain is
// safe even for sub-handles that were consumed during rendering.
func (n *Node) Releases() []func() {
	actions := make([]func(), 0,
		len(n.Children)+len(n.Cells)+len(n.Actions)+len(n.Hooks))
	for _, child := range n.Children {
		actions = append(actions, child.Release)
	}
	for _, cell := range n.Cells {
		actions = append(actions, cell.Release)
	}
	for _, action := range n.Actions {
		actions = append(actions, action.Release)
	}
	for _, hook := range n.Hooks {
		actions = append(actions, hook.Drop)
	}
	return actions
}

// ReleaseAll immediately releases every owned sub-handle. Used when a
// renderer fails after extraction and the node will never reach a widget.
func (n *Node) ReleaseAll() {
	for _, releaseFn := range n.Releases() {
		releaseFn()
	}
}
