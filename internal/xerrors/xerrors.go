// Package xerrors defines five error kinds: reader, compile, eval,
// identifier-not-bound and user errors. Each is a
// sentinel wrapped with github.com/pkg/errors at the point of detection,
// so the top-level driver can both print a diagnostic with context and
// use errors.Is/errors.As to decide how to recover.
package xerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel kinds. Wrap one of these with errors.Wrap(ErrX, "detail") at
// the point an error is detected; errors.Is(err, ErrX) still matches
// through any number of wraps.
var (
	ErrReader             = errors.New("reader error")
	ErrCompile            = errors.New("compile error")
	ErrEval               = errors.New("evaluation error")
	ErrIdentifierNotBound = errors.New("identifier not bound")
	ErrUser               = errors.New("user error")
)

// Reader wraps a reader-stage error (lexical/syntax error).
func Reader(format string, args ...any) error {
	return errors.Wrap(ErrReader, fmt.Sprintf(format, args...))
}

// Compile wraps a frontend/emitter error.
func Compile(format string, args ...any) error {
	return errors.Wrap(ErrCompile, fmt.Sprintf(format, args...))
}

// Eval wraps a VM-stage error (arity, type, unknown opcode, bad apply
// target).
func Eval(format string, args ...any) error {
	return errors.Wrap(ErrEval, fmt.Sprintf(format, args...))
}

// Unbound wraps an identifier-not-bound error from lookup or set!.
func Unbound(name string) error {
	return errors.Wrapf(ErrIdentifierNotBound, "%s", name)
}

// UserPayload is the argument the `error` builtin was called with,
// carried by a User error so a REPL or test harness can inspect it.
type UserPayload struct {
	Message   string
	Arguments []any
}

// userError pairs ErrUser with its payload while still satisfying
// errors.Is(err, ErrUser) through Unwrap.
type userError struct {
	payload UserPayload
}

func (e *userError) Error() string {
	return e.payload.Message
}

func (e *userError) Unwrap() error {
	return ErrUser
}

// User builds a user-error raised by the `error` host procedure,
// carrying its arguments as payload.
func User(message string, args ...any) error {
	return &userError{payload: UserPayload{Message: message, Arguments: args}}
}

// Payload extracts the UserPayload from err, if it (or something it
// wraps) is a user error.
func Payload(err error) (UserPayload, bool) {
	var ue *userError
	if errors.As(err, &ue) {
		return ue.payload, true
	}
	return UserPayload{}, false
}
