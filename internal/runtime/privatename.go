package runtime

// PrivateName is a unique, non-string key used for `#x`-style private class
// members (spec §3). It is never exposed to language code; identity, not
// the Description string, is what distinguishes two private names with the
// same spelling declared in different classes.
type PrivateName struct {
	Description string
}

func (p *PrivateName) TypeOf() string  { return "private-name" }
func (p *PrivateName) Display() string { return "#" + p.Description }

// NewPrivateName creates a fresh PrivateName for the given `#name` spelling.
func NewPrivateName(description string) *PrivateName {
	return &PrivateName{Description: description}
}

// PrivateElementKind distinguishes how a private element is installed.
type PrivateElementKind int

const (
	PrivateField PrivateElementKind = iota
	PrivateMethod
	PrivateAccessor
)

// PrivateElement is one entry of an object's PrivateElements list (spec §3).
// Method/accessor closures are shared across instances (installed once per
// class, referenced by every instance); only Value for a field is
// per-instance (spec §9 "Cycles and ownership").
type PrivateElement struct {
	Key    *PrivateName
	Kind   PrivateElementKind
	Value  Value // PrivateField
	Get    Value // PrivateMethod (as Value) or PrivateAccessor getter
	Set    Value // PrivateAccessor setter
	HasGet bool
	HasSet bool
}

// PrivateFieldFind searches elements by identity (spec §3 invariant:
// "Private elements are found by identity, not by name") and returns the
// matching element, or nil if name is not present.
func PrivateFieldFind(elements []*PrivateElement, name *PrivateName) *PrivateElement {
	for _, e := range elements {
		if e.Key == name {
			return e
		}
	}
	return nil
}
