package bridge

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/viewbridge/pkg/animation"
	"github.com/go-drift/viewbridge/pkg/config"
	"github.com/go-drift/viewbridge/pkg/foreign"
	"github.com/go-drift/viewbridge/pkg/observe"
	vbtest "github.com/go-drift/viewbridge/pkg/testing"
	"github.com/go-drift/viewbridge/pkg/toolkit"
)

func newTestContext(core *vbtest.FakeCore) *Context {
	return NewContext(core, NewRegistry(), config.Default())
}

func registerLeaf(t *testing.T, ctx *Context, id foreign.TypeID) {
	t.Helper()
	err := ctx.Registry.Register(id, ValueRenderer(func(_ *Context, _ *foreign.Node) (toolkit.Widget, error) {
		return vbtest.NewFakeWidget(id), nil
	}))
	require.NoError(t, err)
}

func registerContainer(t *testing.T, ctx *Context, id foreign.TypeID) {
	t.Helper()
	err := ctx.Registry.Register(id, ContainerRenderer(func(_ *Context, _ *foreign.Node, _ *foreign.Environment, children []toolkit.Widget) (toolkit.Widget, error) {
		w := vbtest.NewFakeWidget(id)
		for _, child := range children {
			w.AddChild(child)
		}
		return w, nil
	}))
	require.NoError(t, err)
}

func TestRegistry_RejectsDuplicateAndNil(t *testing.T) {
	reg := NewRegistry()
	require.Error(t, reg.Register("x", nil))
	require.NoError(t, reg.Register("x", ValueRenderer(func(*Context, *foreign.Node) (toolkit.Widget, error) {
		return vbtest.NewFakeWidget("x"), nil
	})))
	require.Error(t, reg.Register("x", ValueRenderer(func(*Context, *foreign.Node) (toolkit.Widget, error) {
		return vbtest.NewFakeWidget("x"), nil
	})))
	assert.True(t, reg.Has("x"))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_SealsOnFirstRender(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	registerLeaf(t, ctx, "label")

	root := foreign.WrapView(core, core.MintView(vbtest.ViewSpec{Type: "label"}))
	_, err := Render(ctx, root, nil)
	require.NoError(t, err)

	err = ctx.Registry.Register("late", ValueRenderer(func(*Context, *foreign.Node) (toolkit.Widget, error) {
		return vbtest.NewFakeWidget("late"), nil
	}))
	require.Error(t, err)
	assert.False(t, ctx.Registry.Has("late"))
}

func TestRender_DispatchesByTypeID(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	registerContainer(t, ctx, "column")
	registerLeaf(t, ctx, "label")
	registerLeaf(t, ctx, "image")

	root := core.MintView(vbtest.ViewSpec{
		Type: "column",
		Children: []foreign.RawView{
			core.MintView(vbtest.ViewSpec{Type: "label"}),
			core.MintView(vbtest.ViewSpec{Type: "image"}),
		},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)

	fake := w.(*vbtest.FakeWidget)
	assert.Equal(t, foreign.TypeID("column"), fake.Type)
	children := fake.Children()
	require.Len(t, children, 2)
	assert.Equal(t, foreign.TypeID("label"), children[0].(*vbtest.FakeWidget).Type)
	assert.Equal(t, foreign.TypeID("image"), children[1].(*vbtest.FakeWidget).Type)

	fake.Destroy()
	assert.Empty(t, core.Leaks())
}

func TestRender_UnknownVariantBecomesPlaceholder(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	registerContainer(t, ctx, "column")
	registerLeaf(t, ctx, "label")

	root := core.MintView(vbtest.ViewSpec{
		Type: "column",
		Children: []foreign.RawView{
			core.MintView(vbtest.ViewSpec{Type: "label"}),
			core.MintView(vbtest.ViewSpec{Type: "holo-gauge"}),
		},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err, "unknown variants are non-fatal")

	children := w.(*vbtest.FakeWidget).Children()
	require.Len(t, children, 2)
	placeholder, ok := children[1].(*Placeholder)
	require.True(t, ok)
	assert.Equal(t, foreign.TypeID("holo-gauge"), placeholder.TypeID)
	assert.Equal(t, "unknown view variant", placeholder.Reason)
	assert.NotNil(t, placeholder.Label())

	w.(*vbtest.FakeWidget).Destroy()
	assert.Empty(t, core.Leaks(), "the unrendered handle is released, not leaked")
}

func TestRender_ExtractionFailureIsolatesSubtree(t *testing.T) {
	core := vbtest.NewFakeCore()
	core.FailExtract("flaky")
	ctx := newTestContext(core)
	registerContainer(t, ctx, "column")
	registerLeaf(t, ctx, "label")
	registerLeaf(t, ctx, "flaky")

	root := core.MintView(vbtest.ViewSpec{
		Type: "column",
		Children: []foreign.RawView{
			core.MintView(vbtest.ViewSpec{
				Type:  "flaky",
				Cells: map[string]foreign.RawCell{"value": core.MintCell(0, true)},
			}),
			core.MintView(vbtest.ViewSpec{Type: "label"}),
		},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)

	children := w.(*vbtest.FakeWidget).Children()
	require.Len(t, children, 2)
	placeholder, ok := children[0].(*Placeholder)
	require.True(t, ok)
	assert.Equal(t, "extraction failed", placeholder.Reason)
	assert.Equal(t, foreign.TypeID("label"), children[1].(*vbtest.FakeWidget).Type, "siblings render normally")

	w.(*vbtest.FakeWidget).Destroy()
	assert.Empty(t, core.Leaks())
}

func TestRender_PanickingRendererBecomesPlaceholder(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	require.NoError(t, ctx.Registry.Register("boom", ValueRenderer(func(*Context, *foreign.Node) (toolkit.Widget, error) {
		panic("widget construction failed")
	})))

	root := core.MintView(vbtest.ViewSpec{
		Type:    "boom",
		Cells:   map[string]foreign.RawCell{"value": core.MintCell(0, true)},
		Actions: map[string]foreign.RawClosure{"onTap": core.MintClosure(nil)},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err, "a panicking renderer must not take down the pass")

	placeholder, ok := w.(*Placeholder)
	require.True(t, ok)
	assert.Equal(t, "renderer failed", placeholder.Reason)
	assert.Empty(t, core.Leaks(), "extracted sub-handles are released when the renderer fails")
}

func TestRender_FailingRendererReleasesNode(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	require.NoError(t, ctx.Registry.Register("broken", ValueRenderer(func(*Context, *foreign.Node) (toolkit.Widget, error) {
		return nil, errors.New("no native counterpart")
	})))

	root := core.MintView(vbtest.ViewSpec{
		Type:  "broken",
		Cells: map[string]foreign.RawCell{"value": core.MintCell(0, true)},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)
	assert.IsType(t, &Placeholder{}, w)
	assert.Empty(t, core.Leaks())
}

func TestRender_NilArguments(t *testing.T) {
	_, err := Render(nil, nil, nil)
	require.Error(t, err)

	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	_, err = Render(ctx, nil, nil)
	require.Error(t, err)
}

func TestRender_NestedContainersBuildFullTree(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	registerContainer(t, ctx, "A")
	registerContainer(t, ctx, "B")
	registerLeaf(t, ctx, "leaf")

	root := core.MintView(vbtest.ViewSpec{
		Type: "A",
		Children: []foreign.RawView{
			core.MintView(vbtest.ViewSpec{
				Type: "B",
				Children: []foreign.RawView{
					core.MintView(vbtest.ViewSpec{Type: "leaf"}),
				},
			}),
		},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)

	fake := w.(*vbtest.FakeWidget)
	assert.Equal(t, 3, fake.Depth())
	assert.GreaterOrEqual(t, fake.Disposal().Len(), 2,
		"root chain owns at least the child teardown and the child handle release")

	fake.Destroy()
	fake.Destroy()
	assert.Empty(t, core.Leaks(), "repeated teardown still releases everything exactly once")
}

func TestRegisterDecorator_ForwardsChildSizing(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	require.NoError(t, ctx.Registry.Register("grow-leaf", ValueRenderer(func(*Context, *foreign.Node) (toolkit.Widget, error) {
		w := vbtest.NewFakeWidget("grow-leaf")
		w.SetSizing(toolkit.Sizing{GrowH: true, GrowV: true})
		return w, nil
	})))
	require.NoError(t, ctx.Registry.RegisterDecorator("padding", func(_ *Context, _ *foreign.Node, _ *foreign.Environment, child toolkit.Widget) (toolkit.Widget, error) {
		w := vbtest.NewFakeWidget("padding")
		w.AddChild(child)
		return w, nil
	}))

	root := core.MintView(vbtest.ViewSpec{
		Type:     "padding",
		Children: []foreign.RawView{core.MintView(vbtest.ViewSpec{Type: "grow-leaf"})},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)
	assert.Equal(t, toolkit.Sizing{GrowH: true, GrowV: true}, w.Sizing(),
		"decorator inherits the child's classification")

	w.(*vbtest.FakeWidget).Destroy()
	assert.Empty(t, core.Leaks())
}

func TestRegisterDecorator_WithSizingOverrides(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	require.NoError(t, ctx.Registry.Register("grow-leaf", ValueRenderer(func(*Context, *foreign.Node) (toolkit.Widget, error) {
		w := vbtest.NewFakeWidget("grow-leaf")
		w.SetSizing(toolkit.Sizing{GrowH: true, GrowV: true})
		return w, nil
	})))
	require.NoError(t, ctx.Registry.RegisterDecorator("scroll", func(_ *Context, _ *foreign.Node, _ *foreign.Environment, child toolkit.Widget) (toolkit.Widget, error) {
		w := vbtest.NewFakeWidget("scroll")
		w.AddChild(child)
		return w, nil
	}, WithSizing(toolkit.Sizing{GrowH: true})))

	root := core.MintView(vbtest.ViewSpec{
		Type:     "scroll",
		Children: []foreign.RawView{core.MintView(vbtest.ViewSpec{Type: "grow-leaf"})},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)
	assert.Equal(t, toolkit.Sizing{GrowH: true}, w.Sizing())
}

func TestRegisterDecorator_RequiresExactlyOneChild(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	require.NoError(t, ctx.Registry.RegisterDecorator("padding", func(_ *Context, _ *foreign.Node, _ *foreign.Environment, child toolkit.Widget) (toolkit.Widget, error) {
		return child, nil
	}))

	root := core.MintView(vbtest.ViewSpec{Type: "padding"})
	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)

	placeholder, ok := w.(*Placeholder)
	require.True(t, ok)
	assert.Equal(t, "renderer failed", placeholder.Reason)
	assert.Empty(t, core.Leaks())
}

func TestAppearHook_FiresExactlyOnceAcrossCycles(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	registerLeaf(t, ctx, "card")

	closure := core.MintClosure(nil)
	root := core.MintView(vbtest.ViewSpec{
		Type:  "card",
		Hooks: []foreign.RawHook{{Event: foreign.HookAppear, Closure: closure}},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)
	fake := w.(*vbtest.FakeWidget)

	for n := 0; n < 5; n++ {
		fake.NotifyAttached()
		fake.NotifyDetached()
	}
	assert.Equal(t, 1, core.InvokeCount(closure), "appear hook fires on the first attach only")

	fake.Destroy()
	assert.Empty(t, core.Leaks(), "a fired hook is not dropped again at teardown")
}

func TestDisappearHook_FiresOnDetach(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	registerLeaf(t, ctx, "card")

	closure := core.MintClosure(nil)
	root := core.MintView(vbtest.ViewSpec{
		Type:  "card",
		Hooks: []foreign.RawHook{{Event: foreign.HookDisappear, Closure: closure}},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)
	fake := w.(*vbtest.FakeWidget)

	fake.NotifyAttached()
	assert.Equal(t, 0, core.InvokeCount(closure))
	fake.NotifyDetached()
	assert.Equal(t, 1, core.InvokeCount(closure))

	fake.Destroy()
	assert.Empty(t, core.Leaks())
}

func TestHook_DroppedWhenNeverTriggered(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)
	registerLeaf(t, ctx, "card")

	closure := core.MintClosure(nil)
	root := core.MintView(vbtest.ViewSpec{
		Type:  "card",
		Hooks: []foreign.RawHook{{Event: foreign.HookAppear, Closure: closure}},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)

	w.(*vbtest.FakeWidget).Destroy()
	assert.Equal(t, 0, core.InvokeCount(closure), "never-attached hook does not execute")
	assert.Equal(t, 1, core.Retirements(uint64(closure)), "dropped exactly once")
}

func TestBoundRenderer_ObservesOnUIContext(t *testing.T) {
	tester := vbtest.NewTester(t)
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)

	require.NoError(t, ctx.Registry.Register("slider", BoundRenderer(
		"value",
		func(_ *Context, _ *foreign.Node, binding *observe.Binding[float64]) (toolkit.Widget, error) {
			w := vbtest.NewFakeWidget("slider")
			if binding != nil {
				w.ApplyProp("value", binding.Current())
			}
			return w, nil
		},
		func(w toolkit.Widget, value float64, _ animation.Metadata) {
			w.(*vbtest.FakeWidget).ApplyProp("value", value)
		},
	)))

	cell := core.MintCell(0.25, true)
	root := core.MintView(vbtest.ViewSpec{
		Type:  "slider",
		Cells: map[string]foreign.RawCell{"value": cell},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)
	fake := w.(*vbtest.FakeWidget)
	assert.Equal(t, []any{0.25}, fake.AppliedValues("value"))

	core.Push(cell, 0.5, animation.Immediate())
	core.Push(cell, 0.75, animation.Immediate())
	assert.Equal(t, []any{0.25}, fake.AppliedValues("value"), "changes wait for the UI context")

	tester.Flush()
	assert.Equal(t, []any{0.25, 0.5, 0.75}, fake.AppliedValues("value"), "delivered in write order")

	fake.Destroy()
	core.Push(cell, 0.9, animation.Immediate())
	tester.Flush()
	assert.Equal(t, []any{0.25, 0.5, 0.75}, fake.AppliedValues("value"), "no deliveries after teardown")
	assert.Empty(t, core.Leaks())
}

func TestBoundRenderer_MissingCellSkipsFeature(t *testing.T) {
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)

	var sawNil bool
	require.NoError(t, ctx.Registry.Register("slider", BoundRenderer(
		"value",
		func(_ *Context, _ *foreign.Node, binding *observe.Binding[float64]) (toolkit.Widget, error) {
			sawNil = binding == nil
			return vbtest.NewFakeWidget("slider"), nil
		},
		nil,
	)))

	root := core.MintView(vbtest.ViewSpec{Type: "slider"})
	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)
	assert.True(t, sawNil, "absent optional cell builds without the feature")
	assert.IsType(t, &vbtest.FakeWidget{}, w)
}

func TestObservedRenderer_AnimatedChangesInterpolate(t *testing.T) {
	tester := vbtest.NewTester(t)
	core := vbtest.NewFakeCore()
	ctx := newTestContext(core)

	animator := animation.NewAnimator()
	var last float64
	require.NoError(t, ctx.Registry.Register("gauge", ObservedRenderer(
		"level",
		func(_ *Context, _ *foreign.Node, computed *observe.Computed[float64]) (toolkit.Widget, error) {
			w := vbtest.NewFakeWidget("gauge")
			if computed != nil {
				last = computed.Current()
				animator.Prime("level", last, func(v float64) { last = v })
				w.Disposal().Add(animator.CancelAll)
			}
			return w, nil
		},
		AnimatedApply(animator, "level", func(v float64) { last = v }),
	)))

	cell := core.MintCell(0.0, false)
	root := core.MintView(vbtest.ViewSpec{
		Type:  "gauge",
		Cells: map[string]foreign.RawCell{"level": cell},
	})

	w, err := Render(ctx, foreign.WrapView(core, root), nil)
	require.NoError(t, err)

	core.Push(cell, 1.0, animation.Curved(animation.KindLinear, 100*time.Millisecond))
	tester.Flush()
	tester.Pump(50*time.Millisecond, 5)
	assert.Greater(t, last, 0.0)
	assert.Less(t, last, 1.0, "animated change interpolates instead of jumping")

	tester.Pump(100*time.Millisecond, 10)
	assert.Equal(t, 1.0, last)

	w.(*vbtest.FakeWidget).Destroy()
	assert.False(t, animation.HasActiveTickers(), "teardown cancels in-flight animations")
	assert.Empty(t, core.Leaks())
}

func TestNormalizeMeta_FillsDefaultDuration(t *testing.T) {
	ctx := newTestContext(vbtest.NewFakeCore())

	curved := ctx.normalizeMeta(animation.Curved(animation.KindEaseOut, 0))
	assert.Equal(t, 200*time.Millisecond, curved.Duration)

	explicit := ctx.normalizeMeta(animation.Curved(animation.KindEaseOut, time.Second))
	assert.Equal(t, time.Second, explicit.Duration)

	spring := ctx.normalizeMeta(animation.Spring(170, 26))
	assert.Equal(t, time.Duration(0), spring.Duration)

	none := ctx.normalizeMeta(animation.Immediate())
	assert.True(t, none.IsNone())
}

func TestPlaceholder_LabelDisabled(t *testing.T) {
	cfg := config.PlaceholderConfig{Label: false}
	p := newPlaceholder(cfg, "gauge", "unknown view variant")
	assert.Nil(t, p.Label())
	assert.Equal(t, toolkit.Sizing{}, p.Sizing(), "placeholders hug their content")
}

func TestPlaceholder_LabelRaster(t *testing.T) {
	cfg := config.Default().Placeholder
	p := newPlaceholder(cfg, "gauge", "unknown view variant")
	img := p.Label()
	require.NotNil(t, img)
	assert.False(t, img.Bounds().Empty())
}
