package runtime

// Symbol is a unique value identified by reference, with an optional
// description (spec §3). Two Symbol values are equal only if they are the
// same *Symbol instance.
type Symbol struct {
	Description String
	HasDesc     bool
}

func (s *Symbol) TypeOf() string { return "symbol" }
func (s *Symbol) Display() string {
	if s.HasDesc {
		return "Symbol(" + s.Description.GoString() + ")"
	}
	return "Symbol()"
}

// NewSymbol creates a fresh Symbol with the given description.
func NewSymbol(description string) *Symbol {
	return &Symbol{Description: NewString(description), HasDesc: true}
}

// NewSymbolNoDescription creates a fresh Symbol with no description, as in
// `Symbol()`.
func NewSymbolNoDescription() *Symbol { return &Symbol{} }

// Well-known symbols (spec §4.4's intrinsics bootstrap installs these as
// properties of built-ins; the symbols themselves are process-wide
// constants, one set per agent would be overkill since they carry no
// per-realm state).
var (
	SymbolIterator      = NewSymbol("Symbol.iterator")
	SymbolAsyncIterator = NewSymbol("Symbol.asyncIterator")
	SymbolToStringTag   = NewSymbol("Symbol.toStringTag")
	SymbolToPrimitive   = NewSymbol("Symbol.toPrimitive")
	SymbolHasInstance   = NewSymbol("Symbol.hasInstance")
	SymbolUnscopables   = NewSymbol("Symbol.unscopables")
)
