package foreign

import "sync/atomic"

// Environment wraps an owned ambient environment scope (theme, installed
// controllers) passed down the view tree. Clones are independently owned:
// releasing a clone never affects its parent and vice versa.
type Environment struct {
	core     Core
	raw      RawEnv
	released atomic.Bool
}

// WrapEnvironment takes ownership of a raw environment handle.
func WrapEnvironment(core Core, raw RawEnv) *Environment {
	return &Environment{core: core, raw: raw}
}

// Clone creates an independently owned child scope. The caller must
// release the clone when the subtree it was created for is torn down.
func (e *Environment) Clone() (*Environment, error) {
	if e.released.Load() {
		return nil, ErrReleased
	}
	raw, err := e.core.CloneEnv(e.raw)
	if err != nil {
		return nil, err
	}
	return WrapEnvironment(e.core, raw), nil
}

// Raw exposes the underlying handle for passing back across the boundary.
func (e *Environment) Raw() RawEnv {
	return e.raw
}

// Release releases the scope. Idempotent.
func (e *Environment) Release() {
	if !e.released.CompareAndSwap(false, true) {
		return
	}
	core, raw := e.core, e.raw
	release(func() { core.ReleaseEnv(raw) })
}
