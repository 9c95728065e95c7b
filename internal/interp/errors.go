package interp

import (
	"errors"
	"fmt"

	"github.com/ztrue/tracerr"

	"nfscript/internal/diag"
	"nfscript/internal/scope"
)

// scopeError maps scope.Tree failures to run-time diagnostics.
func scopeError(err error, line int, name string) error {
	switch {
	case errors.Is(err, scope.ErrFinal):
		return diag.Runtime(diag.RunFinalAssign, line, "cannot assign to final variable %q", name)
	case errors.Is(err, scope.ErrType):
		return diag.WrapRuntime(diag.RunTypeMismatch, line, err)
	case errors.Is(err, scope.ErrNotFound):
		return diag.Runtime(diag.RunUndefinedVariable, line, "undefined variable %q", name)
	}
	return internal(line, err)
}

// internal reports a broken interpreter invariant with a stack trace.
func internal(line int, err error) error {
	return diag.WrapRuntime(diag.RunInternal, line, tracerr.Wrap(err))
}

func internalf(line int, format string, args ...any) error {
	return internal(line, fmt.Errorf(format, args...))
}
