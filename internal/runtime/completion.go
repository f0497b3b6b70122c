package runtime

// CompletionType is one of the five completion kinds (spec §3, §4.1).
type CompletionType int

const (
	Normal CompletionType = iota
	Break
	Continue
	Return
	Throw
)

func (t CompletionType) String() string {
	switch t {
	case Normal:
		return "normal"
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Return:
		return "return"
	case Throw:
		return "throw"
	default:
		return "unknown"
	}
}

// empty is a sentinel Value used as a Completion's Value when a statement
// produces no value of its own (e.g. a bare `;` or a declaration). It is
// distinct from Undefined so UpdateEmpty can tell "no value yet" apart from
// "the language value undefined".
type emptyValue struct{}

func (emptyValue) TypeOf() string  { return "empty" }
func (emptyValue) Display() string { return "" }

// Empty is the completion-value sentinel (spec §4.1).
var Empty Value = emptyValue{}

// IsEmpty reports whether v is the Empty sentinel.
func IsEmpty(v Value) bool { _, ok := v.(emptyValue); return ok }

// Completion is the uniform result envelope every abstract operation and
// every statement evaluation returns (spec §3, §4.1). Target carries a
// label for Break/Continue; it is "" for an unlabelled break/continue or for
// any other completion type.
type Completion struct {
	Type   CompletionType
	Value  Value
	Target string
}

// NormalCompletion wraps v in a Normal completion.
func NormalCompletion(v Value) Completion { return Completion{Type: Normal, Value: v} }

// ThrowCompletion wraps v (the thrown value — typically an Error object) in
// a Throw completion.
func ThrowCompletion(v Value) Completion { return Completion{Type: Throw, Value: v} }

// BreakCompletion produces a Break completion, optionally labelled.
func BreakCompletion(label string) Completion { return Completion{Type: Break, Value: Empty, Target: label} }

// ContinueCompletion produces a Continue completion, optionally labelled.
func ContinueCompletion(label string) Completion {
	return Completion{Type: Continue, Value: Empty, Target: label}
}

// ReturnCompletion produces a Return completion carrying v.
func ReturnCompletion(v Value) Completion { return Completion{Type: Return, Value: v} }

// IsAbrupt reports whether c is anything other than Normal (spec §3
// "Abrupt completion").
func (c Completion) IsAbrupt() bool { return c.Type != Normal }

// UpdateEmpty returns c with an Empty Value replaced by v; c is returned
// unchanged otherwise (spec §4.1 "UpdateEmpty").
func UpdateEmpty(c Completion, v Value) Completion {
	if IsEmpty(c.Value) {
		c.Value = v
	}
	return c
}

// Q is the abrupt-propagation helper: if c is abrupt, the caller should
// `return c, true` from its own Completion-returning function; otherwise the
// second return value is false and callers proceed using c.Value. Go has no
// non-local return, so Q is expressed as a two-result helper rather than the
// specification's implicit early-return macro; every call site follows the
// idiom:
//
//	v, ab := Q(someOperation())
//	if ab.IsAbrupt() { return ab }
func Q(c Completion) (Value, Completion) {
	if c.IsAbrupt() {
		return nil, c
	}
	return c.Value, Completion{}
}

// X asserts c is Normal and returns its value — used where the
// specification proves no abrupt completion is possible (spec §4.1). It
// panics (an Assert failure, a host-level bug per spec §7) if that proof was
// wrong.
func X(c Completion) Value {
	if c.IsAbrupt() {
		panic(&AssertionFailure{Message: "X: unexpected abrupt completion of type " + c.Type.String()})
	}
	return c.Value
}

// FoldStatementList implements the spec's "StatementList : StatementList
// StatementListItem" evaluation rule: short-circuit on the first abrupt
// completion, otherwise carry the previous Normal value forward into any
// Empty-valued completion (spec §4.1).
func FoldStatementList(eval func(int) Completion, n int) Completion {
	result := NormalCompletion(Empty)
	for i := 0; i < n; i++ {
		c := eval(i)
		c = UpdateEmpty(c, result.Value)
		if c.IsAbrupt() {
			return c
		}
		result = c
	}
	return result
}
