// Package logger provides the process-wide structured logger for the
// document processing engine. Output is JSON on stdout, one line per
// event, suitable for log shippers.
package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// instance holds the global logger; access goes through Get.
var instance *slog.Logger

// InitError represents logger initialization errors.
type InitError struct {
	Op  string // the operation that failed
	Err error  // the underlying error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("logger: %s failed: %v", e.Op, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Init initializes the global logger with a production JSON handler at
// info level.
func Init() error {
	return InitWithConfig(slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}

// InitWithConfig initializes the logger with custom handler options, for
// environments that want debug level or source locations.
func InitWithConfig(opts slog.HandlerOptions) error {
	handler := slog.NewJSONHandler(os.Stdout, &opts)
	instance = slog.New(handler)
	return nil
}

// Get returns the global logger, initializing a default one on first use
// so early call sites never receive nil.
func Get() *slog.Logger {
	if instance == nil {
		_ = Init()
	}
	return instance
}

// Sync flushes buffered entries when the handler supports it. Safe to
// call repeatedly and on an uninitialized logger.
func Sync() error {
	if instance == nil {
		return nil
	}
	if s, ok := instance.Handler().(interface{ Sync() error }); ok {
		return s.Sync()
	}
	if c, ok := instance.Handler().(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// IsInitialized reports whether Init has run.
func IsInitialized() bool {
	return instance != nil
}
