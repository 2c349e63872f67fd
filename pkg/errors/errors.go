// Package errors provides structured error reporting for the view bridge.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindDispatch indicates a registry lookup or renderer failure.
	KindDispatch
	// KindExtract indicates a foreign-side failure during force-extraction.
	KindExtract
	// KindObserve indicates a reactive cell read, write, or notification failure.
	KindObserve
	// KindAnimation indicates an interpolator failure.
	KindAnimation
	// KindLifecycle indicates a lifecycle hook failure.
	KindLifecycle
	// KindConfig indicates a configuration error.
	KindConfig
	// KindForeign indicates a foreign core boundary error (version, handle state).
	KindForeign
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindDispatch:
		return "dispatch"
	case KindExtract:
		return "extract"
	case KindObserve:
		return "observe"
	case KindAnimation:
		return "animation"
	case KindLifecycle:
		return "lifecycle"
	case KindConfig:
		return "config"
	case KindForeign:
		return "foreign"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// BridgeError represents a structured error in the view bridge.
type BridgeError struct {
	// Op is the operation that failed (e.g., "bridge.Render").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// TypeID is the view variant involved, if applicable.
	TypeID string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BridgeError) Error() string {
	if e.TypeID != "" {
		return fmt.Sprintf("%s [%s] type=%s: %v", e.Op, e.Kind, e.TypeID, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *BridgeError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "bridge.dispatch").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the bridge.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *BridgeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
