// Package bridge renders a foreign reactive view tree into native widgets.
//
// The host registers one renderer per view variant during startup, then
// calls [Render] with a root handle and environment. The registry resolves
// each handle's TypeID to its renderer; renderers extract the handle
// through the ownership protocol in package foreign, recurse into children
// through the registry, wire observation subscriptions to live widget
// properties, and every acquired resource ends up in the produced widget's
// disposal chain.
//
// Unknown variants are non-fatal: the foreign core may ship variants newer
// than this host's registry, and those render as diagnostic placeholders
// while the rest of the tree proceeds.
package bridge

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-drift/viewbridge/pkg/config"
	"github.com/go-drift/viewbridge/pkg/errors"
	"github.com/go-drift/viewbridge/pkg/foreign"
	"github.com/go-drift/viewbridge/pkg/toolkit"
)

// Context carries what renderers need: the foreign core, the registry for
// recursion, bridge configuration, and the UI-affinity dispatcher.
type Context struct {
	Core     foreign.Core
	Registry *Registry
	Config   config.Config
	// Dispatch marshals a callback onto the platform UI context. When nil,
	// the package-level toolkit dispatcher is used.
	Dispatch func(func())
}

// NewContext creates a render context. Connect-level version checking is
// the caller's responsibility (foreign.Connect).
func NewContext(core foreign.Core, registry *Registry, cfg config.Config) *Context {
	return &Context{Core: core, Registry: registry, Config: cfg}
}

func (c *Context) dispatch() func(func()) {
	if c.Dispatch != nil {
		return c.Dispatch
	}
	return func(fn func()) {
		if !toolkit.Dispatch(fn) {
			fn()
		}
	}
}

// RenderFunc is a content renderer: it produces a new widget for a view
// variant from its extracted node.
type RenderFunc func(ctx *Context, node *foreign.Node, env *foreign.Environment) (toolkit.Widget, error)

// DecorateFunc is a metadata/decorator renderer: it wraps the already-
// produced child widget with a side effect or visual transform.
type DecorateFunc func(ctx *Context, node *foreign.Node, env *foreign.Environment, child toolkit.Widget) (toolkit.Widget, error)

type entry struct {
	render   RenderFunc
	decorate DecorateFunc
	// sizing overrides the forwarded child classification for decorators
	// that semantically change sizing.
	sizing *toolkit.Sizing
}

// DecoratorOption configures a decorator registration.
type DecoratorOption func(*entry)

// WithSizing makes a decorator override the child's layout-stretch
// classification instead of forwarding it.
func WithSizing(s toolkit.Sizing) DecoratorOption {
	return func(e *entry) {
		e.sizing = &s
	}
}

// Registry is the total dispatch table from TypeID to renderer. It is
// mutable only before the first Render call; the first dispatch seals it,
// after which lookups are lock-free for readers and registration fails.
type Registry struct {
	mu      sync.RWMutex
	entries map[foreign.TypeID]entry
	sealed  atomic.Bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[foreign.TypeID]entry)}
}

// Register installs a content renderer for a view variant. Must be called
// before the first Render; duplicate and post-seal registrations fail.
func (r *Registry) Register(id foreign.TypeID, fn RenderFunc) error {
	if fn == nil {
		return fmt.Errorf("bridge: nil renderer for %q", id)
	}
	return r.add(id, entry{render: fn})
}

// RegisterDecorator installs a decorator renderer for a view variant. The
// variant's extraction must yield exactly one child; the produced widget
// forwards the child's sizing classification unless WithSizing overrides.
func (r *Registry) RegisterDecorator(id foreign.TypeID, fn DecorateFunc, opts ...DecoratorOption) error {
	if fn == nil {
		return fmt.Errorf("bridge: nil decorator for %q", id)
	}
	e := entry{decorate: fn}
	for _, opt := range opts {
		opt(&e)
	}
	return r.add(id, e)
}

func (r *Registry) add(id foreign.TypeID, e entry) error {
	if r.sealed.Load() {
		err := fmt.Errorf("bridge: registry sealed, cannot register %q after first render", id)
		errors.Report(&errors.BridgeError{
			Op:     "bridge.Register",
			Kind:   errors.KindDispatch,
			TypeID: string(id),
			Err:    err,
		})
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[id]; dup {
		return fmt.Errorf("bridge: renderer for %q already registered", id)
	}
	r.entries[id] = e
	return nil
}

// Has reports whether a renderer is registered for id.
func (r *Registry) Has(id foreign.TypeID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// Len returns the number of registered variants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) lookup(id foreign.TypeID) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}
