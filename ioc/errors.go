package ioc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Error kinds. Every error returned by the container wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrNotRegistered         = errors.New("service not registered")
	ErrDuplicateRegistration = errors.New("service already registered")
	ErrInvalidRegistration   = errors.New("invalid registration")
	ErrConstruction          = errors.New("construction failed")
	ErrCircularDependency    = errors.New("circular dependency")
)

// Error describes a failed registration or resolution.
//
// Kind is one of the Err* sentinels above. Type is the service the operation
// was about. Chain holds the in-progress resolution path for
// ErrCircularDependency. Err is the underlying cause, if any; it may itself be
// an *Error when a dependency failed further down the graph.
type Error struct {
	Kind  error
	Type  reflect.Type
	Chain []reflect.Type
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("ioc: ")
	b.WriteString(e.Kind.Error())

	switch {
	case len(e.Chain) > 0:
		b.WriteString(": ")
		b.WriteString(formatChain(e.Chain))
	case e.Type != nil:
		fmt.Fprintf(&b, ": %v", e.Type)
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, t reflect.Type, cause error) *Error {
	return &Error{Kind: kind, Type: t, Err: cause}
}

func formatChain(chain []reflect.Type) string {
	parts := make([]string, len(chain))
	for i, t := range chain {
		parts[i] = t.String()
	}
	return strings.Join(parts, " -> ")
}
