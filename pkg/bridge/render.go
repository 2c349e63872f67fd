package bridge

import (
	"fmt"
	"time"

	"github.com/go-drift/viewbridge/pkg/errors"
	"github.com/go-drift/viewbridge/pkg/foreign"
	"github.com/go-drift/viewbridge/pkg/toolkit"
)

// Render renders a foreign view tree rooted at root into a native widget.
// It never fails for per-subtree problems: unknown variants, foreign
// extraction failures, and renderer panics all degrade to a diagnostic
// placeholder for that subtree while the rest of the pass continues. The
// returned error is non-nil only for unusable arguments.
func Render(ctx *Context, root *foreign.View, env *foreign.Environment) (toolkit.Widget, error) {
	if ctx == nil || ctx.Registry == nil {
		return nil, fmt.Errorf("bridge: render without a registry")
	}
	return ctx.Registry.Render(ctx, root, env)
}

// Render dispatches one view through the registry. The first call seals
// the registry; reads afterwards are concurrent-safe.
func (r *Registry) Render(ctx *Context, view *foreign.View, env *foreign.Environment) (toolkit.Widget, error) {
	r.sealed.Store(true)
	if view == nil {
		return nil, fmt.Errorf("bridge: render of nil view")
	}

	id, err := view.TypeID()
	if err != nil {
		view.Release()
		report("bridge.Render", errors.KindDispatch, "", err)
		return newPlaceholder(ctx.Config.Placeholder, "", "unreadable type id"), nil
	}

	e, ok := r.lookup(id)
	if !ok {
		// The handle will never be rendered; release it explicitly.
		view.Release()
		report("bridge.Render", errors.KindDispatch, string(id),
			fmt.Errorf("no renderer registered for %q", id))
		return newPlaceholder(ctx.Config.Placeholder, id, "unknown view variant"), nil
	}

	node, err := view.Extract()
	if err != nil {
		// Extraction retires the handle even on failure; isolate the
		// subtree instead of propagating a crash through the pass.
		report("bridge.Render", errors.KindExtract, string(id), err)
		return newPlaceholder(ctx.Config.Placeholder, id, "extraction failed"), nil
	}

	w, err := r.invoke(ctx, e, id, node, env)
	if err != nil || w == nil {
		node.ReleaseAll()
		if err != nil {
			report("bridge.Render", errors.KindDispatch, string(id), err)
		}
		return newPlaceholder(ctx.Config.Placeholder, id, "renderer failed"), nil
	}

	wireNode(w, node)
	return w, nil
}

// invoke runs the renderer with panic isolation.
func (r *Registry) invoke(ctx *Context, e entry, id foreign.TypeID, node *foreign.Node, env *foreign.Environment) (w toolkit.Widget, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			errors.ReportPanic(&errors.PanicError{
				Op:         "bridge.render." + string(id),
				Value:      rec,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			})
			w = nil
			err = fmt.Errorf("renderer for %q panicked: %v", id, rec)
		}
	}()

	if e.decorate != nil {
		if len(node.Children) != 1 {
			return nil, fmt.Errorf("decorator %q expects exactly one child, got %d", id, len(node.Children))
		}
		child, childErr := r.Render(ctx, node.Children[0], env)
		if childErr != nil {
			return nil, childErr
		}
		w, err = e.decorate(ctx, node, env, child)
		if err != nil {
			child.Disposal().Dispose()
			return nil, err
		}
		// Composite ownership: the decorator tears its child down with it.
		w.Disposal().Add(child.Disposal().Dispose)
		// Decorators forward the child's layout-stretch classification
		// unless registered with an explicit override.
		if setter, ok := w.(interface{ SetSizing(toolkit.Sizing) }); ok {
			if e.sizing != nil {
				setter.SetSizing(*e.sizing)
			} else {
				setter.SetSizing(child.Sizing())
			}
		}
		return w, nil
	}

	return e.render(ctx, node, env)
}

// wireNode attaches a rendered node's resources to its widget: lifecycle
// hooks bind to the attach/detach signal, and one release action per
// owned sub-handle goes into the disposal chain. Sub-handles consumed
// during rendering (recursively rendered children, fired hooks) make
// their chain entries no-ops; the exactly-once transitions live in the
// wrappers themselves.
func wireNode(w toolkit.Widget, node *foreign.Node) {
	for _, hook := range node.Hooks {
		bindHook(w, hook)
	}
	w.Disposal().AddAll(node.Releases())
}

func report(op string, kind errors.ErrorKind, typeID string, err error) {
	errors.Report(&errors.BridgeError{
		Op:     op,
		Kind:   kind,
		TypeID: typeID,
		Err:    err,
	})
}
