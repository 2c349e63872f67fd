package bridge

import (
	"github.com/go-drift/viewbridge/pkg/foreign"
	"github.com/go-drift/viewbridge/pkg/toolkit"
)

// bindHook wires a one-shot foreign hook to the widget's attach/detach
// signal. The hook fires on the first occurrence of its bound transition;
// later transitions of the same kind find it already consumed. The drop
// path is registered by wireNode through Node.Releases, so a hook that
// never sees its transition is released exactly once at teardown. Fire
// and drop race safely through the hook's own state machine.
func bindHook(w toolkit.Widget, hook *foreign.HookRef) {
	target := toolkit.Attached
	if hook.Event == foreign.HookDisappear {
		target = toolkit.Detached
	}
	remove := w.OnLifecycle(func(event toolkit.LifecycleEvent) {
		if event == target {
			hook.Fire()
		}
	})
	w.Disposal().Add(remove)
}
