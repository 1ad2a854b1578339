package casetable

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedGuard           = errors.New("malformed guard")
	ErrMalformedLiteral         = errors.New("malformed literal")
	ErrUnsupportedParameterKind = errors.New("unsupported parameter kind")
	ErrDuplicateParameter       = errors.New("duplicate parameter")
	ErrTooManyConditions        = errors.New("too many conditions")
)

// Error describes why an analysis failed.
//
// Kind is one of the Err* variables of this package, so that callers can
// test for it using errors.Is.
type Error struct {
	Kind  error
	Guard int    // index of the offending guard, or -1
	Text  string // the offending guard or parameter
	Msg   string
}

func (e *Error) Error() string {
	if e.Guard >= 0 {
		return fmt.Sprintf("%s in guard %d (%q): %s", e.Kind, e.Guard+1, e.Text, e.Msg)
	}
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Text, e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Warning reports an atomic condition that does not take part in the
// decision table since it does not compare exactly one parameter with a
// literal.
type Warning struct {
	Condition AtomicCondition
	Reason    string
}

func (w Warning) String() string {
	return fmt.Sprintf("unresolved condition reference %q in guard %d: %s",
		w.Condition.String(), w.Condition.Guard+1, w.Reason)
}
