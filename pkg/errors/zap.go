package errors

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapHandler is an ErrorHandler that logs through a zap logger.
type ZapHandler struct {
	Logger *zap.Logger
	// Verbose includes stack traces in log output.
	Verbose bool
}

// NewZapHandler creates a handler backed by the given logger.
// A nil logger falls back to a production logger writing to stderr.
func NewZapHandler(logger *zap.Logger, verbose bool) *ZapHandler {
	if logger == nil {
		logger = defaultLogger()
	}
	return &ZapHandler{Logger: logger, Verbose: verbose}
}

// newDefaultHandler builds the handler installed at startup.
func newDefaultHandler() ErrorHandler {
	return NewZapHandler(defaultLogger(), false)
}

func defaultLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.Named("viewbridge")
}

// HandleError logs a BridgeError.
func (h *ZapHandler) HandleError(err *BridgeError) {
	if err == nil || h.Logger == nil {
		return
	}
	fields := []zapcore.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.TypeID != "" {
		fields = append(fields, zap.String("type_id", err.TypeID))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.Logger.Error("bridge error", fields...)
}

// HandlePanic logs a PanicError.
func (h *ZapHandler) HandlePanic(err *PanicError) {
	if err == nil || h.Logger == nil {
		return
	}
	fields := []zapcore.Field{
		zap.String("op", err.Op),
		zap.Any("value", err.Value),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.Logger.Error("recovered panic", fields...)
}
