package runtimemesh

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/runtimemesh/internal/logger"
)

// PreconditionError is the panic value raised when a caller breaks an API
// precondition. These are programming errors; the mesh never recovers
// from them.
type PreconditionError struct {
	Op  string
	Msg string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("runtimemesh: %s: %s", e.Op, e.Msg)
}

// check panics with a PreconditionError when cond is false.
func check(cond bool, op, msg string) {
	if cond {
		return
	}
	logger.Error("precondition failed", zap.String("op", op), zap.String("reason", msg))
	panic(&PreconditionError{Op: op, Msg: msg})
}

// checkf is check with a formatted message.
func checkf(cond bool, op, format string, args ...any) {
	if cond {
		return
	}
	check(false, op, fmt.Sprintf(format, args...))
}
