// Package assert reports precondition violations in the farbot primitives.
//
// Every check here guards a caller contract (unbalanced acquire/release,
// destruction while a thread is still inside an access, a capacity that
// isn't a power of two, ...), never an expected runtime condition. A
// violation is always a programming error on the caller's side, so the
// only two things this package ever does are log a diagnostic and panic.
package assert

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

var logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
	Level: slog.LevelWarn,
}))

// That panics with msg if cond is false, after logging msg and args as a
// structured error record. args follow slog's key-value convention.
func That(cond bool, msg string, args ...any) {
	if cond {
		return
	}
	logger.Error(msg, args...)
	panic(msg)
}
