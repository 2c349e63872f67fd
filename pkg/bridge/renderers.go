package bridge

import (
	"github.com/go-drift/viewbridge/pkg/animation"
	"github.com/go-drift/viewbridge/pkg/errors"
	"github.com/go-drift/viewbridge/pkg/foreign"
	"github.com/go-drift/viewbridge/pkg/observe"
	"github.com/go-drift/viewbridge/pkg/toolkit"
)

// Renderer strategies. Most per-variant renderers are one of four shapes;
// these constructors collapse that duplication while keeping the
// one-TypeID-one-behavior contract. The registry's decorator tier is the
// fourth shape (RegisterDecorator).

// ValueRenderer builds a stateless widget from the node's plain payload.
// Use it for variants with no children, cells, or actions of interest.
func ValueRenderer(build func(ctx *Context, node *foreign.Node) (toolkit.Widget, error)) RenderFunc {
	return func(ctx *Context, node *foreign.Node, env *foreign.Environment) (toolkit.Widget, error) {
		return build(ctx, node)
	}
}

// ContainerRenderer renders every child through the registry first, then
// builds the container around them. Each constructed child's disposal is
// chained into the container's own, so tearing down the container tears
// down the whole subtree.
func ContainerRenderer(build func(ctx *Context, node *foreign.Node, env *foreign.Environment, children []toolkit.Widget) (toolkit.Widget, error)) RenderFunc {
	return func(ctx *Context, node *foreign.Node, env *foreign.Environment) (toolkit.Widget, error) {
		children := make([]toolkit.Widget, 0, len(node.Children))
		for _, childView := range node.Children {
			child, err := ctx.Registry.Render(ctx, childView, env)
			if err != nil {
				continue
			}
			children = append(children, child)
		}
		w, err := build(ctx, node, env, children)
		if err != nil {
			for _, child := range children {
				child.Disposal().Dispose()
			}
			return nil, err
		}
		chain := w.Disposal()
		for _, child := range children {
			chain.Add(child.Disposal().Dispose)
		}
		return w, nil
	}
}

// BoundRenderer builds an editable control backed by a read-write cell.
// build receives the typed binding (nil when the foreign side did not
// provide the field; the feature is simply skipped). apply receives each
// subsequent change, remarshalled onto the UI context, with its animation
// metadata; the returned widget owns the watcher through its disposal
// chain.
func BoundRenderer[T any](cellName string, build func(ctx *Context, node *foreign.Node, binding *observe.Binding[T]) (toolkit.Widget, error), apply func(w toolkit.Widget, value T, meta animation.Metadata)) RenderFunc {
	return func(ctx *Context, node *foreign.Node, env *foreign.Environment) (toolkit.Widget, error) {
		cell := node.Cell(cellName)
		if cell == nil {
			return build(ctx, node, nil)
		}
		binding, err := observe.Bind[T](cell, cellName)
		if err != nil {
			return nil, err
		}
		w, err := build(ctx, node, binding)
		if err != nil {
			return nil, err
		}
		if apply != nil {
			observeInto(ctx, w, func(fn func(T, animation.Metadata)) (*observe.Watcher, error) {
				return binding.Observe(fn)
			}, apply)
		}
		return w, nil
	}
}

// ObservedRenderer builds a widget driven by a read-only derived cell.
// Same shape as BoundRenderer without the write surface.
func ObservedRenderer[T any](cellName string, build func(ctx *Context, node *foreign.Node, computed *observe.Computed[T]) (toolkit.Widget, error), apply func(w toolkit.Widget, value T, meta animation.Metadata)) RenderFunc {
	return func(ctx *Context, node *foreign.Node, env *foreign.Environment) (toolkit.Widget, error) {
		cell := node.Cell(cellName)
		if cell == nil {
			return build(ctx, node, nil)
		}
		computed, err := observe.Compute[T](cell, cellName)
		if err != nil {
			return nil, err
		}
		w, err := build(ctx, node, computed)
		if err != nil {
			return nil, err
		}
		if apply != nil {
			observeInto(ctx, w, func(fn func(T, animation.Metadata)) (*observe.Watcher, error) {
				return computed.Observe(fn)
			}, apply)
		}
		return w, nil
	}
}

func observeInto[T any](ctx *Context, w toolkit.Widget, subscribe func(func(T, animation.Metadata)) (*observe.Watcher, error), apply func(toolkit.Widget, T, animation.Metadata)) {
	watcher, err := subscribe(observe.ObserveOn(ctx.dispatch(), func(value T, meta animation.Metadata) {
		apply(w, value, ctx.normalizeMeta(meta))
	}))
	if err != nil {
		errors.Report(&errors.BridgeError{
			Op:   "bridge.observe",
			Kind: errors.KindObserve,
			Err:  err,
		})
		return
	}
	w.Disposal().AddReleasable(watcher)
}

// normalizeMeta fills the configured default duration into curve metadata
// that arrived without one.
func (c *Context) normalizeMeta(meta animation.Metadata) animation.Metadata {
	switch meta.Kind {
	case animation.KindLinear, animation.KindEaseIn, animation.KindEaseOut, animation.KindEaseInOut:
		if meta.Duration == 0 {
			meta.Duration = c.Config.Animation.DefaultDuration.Std()
		}
	}
	return meta
}

// AnimatedApply adapts a float property setter into a (value, metadata)
// apply callback routed through the widget's animator, so metadata-none
// changes apply synchronously and animated changes retarget in place.
func AnimatedApply(animator *animation.Animator, prop string, set func(float64)) func(toolkit.Widget, float64, animation.Metadata) {
	return func(_ toolkit.Widget, value float64, meta animation.Metadata) {
		animator.Animate(prop, value, meta, set)
	}
}
