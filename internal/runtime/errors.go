package runtime

import "fmt"

// ErrorKind names the built-in Error subclasses a ThrowCompletion may wrap
// (spec §7).
type ErrorKind string

const (
	GenericError    ErrorKind = "Error"
	TypeErrorKind   ErrorKind = "TypeError"
	RangeErrorKind  ErrorKind = "RangeError"
	SyntaxErrorKind ErrorKind = "SyntaxError"
	RefErrorKind    ErrorKind = "ReferenceError"
	URIErrorKind    ErrorKind = "URIError"
	AggregateErrKind ErrorKind = "AggregateError"
)

// ErrorValue is a lightweight, realm-independent representation of a thrown
// language Error, used before a realm is available to construct a full
// Error object (e.g. from within the runtime package itself, which must not
// import realm to avoid a cycle). It is carried as the thrown value itself.
type ErrorValue struct {
	Kind    ErrorKind
	Message string
	Errors  []Value // AggregateError's wrapped errors, if Kind == AggregateErrKind
}

func (e *ErrorValue) TypeOf() string  { return "object" }
func (e *ErrorValue) Display() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }
func (e *ErrorValue) Error() string   { return e.Display() }

func newErrorValue(kind ErrorKind, format string, args ...any) *ErrorValue {
	return &ErrorValue{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewTypeError builds a TypeError ThrowCompletion payload (spec §7: "wrong
// shape, detached buffer, private-name misuse, proxy invariant violation").
func NewTypeError(format string, args ...any) *ErrorValue {
	return newErrorValue(TypeErrorKind, format, args...)
}

// NewRangeError builds a RangeError payload (spec §7: "out-of-bounds index,
// invalid array length, bigint domain").
func NewRangeError(format string, args ...any) *ErrorValue {
	return newErrorValue(RangeErrorKind, format, args...)
}

// NewReferenceError builds a ReferenceError payload (spec §7: "unresolved
// identifier, uninitialised binding").
func NewReferenceError(format string, args ...any) *ErrorValue {
	return newErrorValue(RefErrorKind, format, args...)
}

// NewSyntaxError builds a SyntaxError payload (spec §7: "static errors
// surfaced from the parser").
func NewSyntaxError(format string, args ...any) *ErrorValue {
	return newErrorValue(SyntaxErrorKind, format, args...)
}

// NewAggregateError builds an AggregateError payload wrapping errs (spec §7,
// §4.8 supplemented Promise combinators).
func NewAggregateError(message string, errs []Value) *ErrorValue {
	return &ErrorValue{Kind: AggregateErrKind, Message: message, Errors: errs}
}

// Throw wraps an ErrorValue in a Throw completion — the common case of
// raising one of the built-in error kinds.
func Throw(e *ErrorValue) Completion { return ThrowCompletion(e) }

// AssertionFailure is a host-level bug (spec §7: "Internal invariant
// failures surface as a distinguished host-level exception type ... these
// are bugs, not language errors, and do not produce a ThrowCompletion").
// It is raised via panic, never via Completion, so it cannot be caught by
// language-level try/catch.
type AssertionFailure struct {
	Message string
}

func (a *AssertionFailure) Error() string { return "assertion failed: " + a.Message }

// OutOfRange is a host-level bug for an abstract operation invoked with an
// argument outside its documented domain (spec §7).
type OutOfRange struct {
	Message string
}

func (o *OutOfRange) Error() string { return "out of range: " + o.Message }

// Assert panics with an AssertionFailure if cond is false. Used at points
// the specification states "it is impossible for X to happen here".
func Assert(cond bool, message string) {
	if !cond {
		panic(&AssertionFailure{Message: message})
	}
}
