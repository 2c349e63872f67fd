package foreign

import "github.com/go-drift/viewbridge/pkg/errors"

func reportHookError(h *HookRef, err error) {
	errors.Report(&errors.BridgeError{
		Op:   "foreign.HookRef.Fire",
		Kind: errors.KindLifecycle,
		Err:  err,
	})
}
