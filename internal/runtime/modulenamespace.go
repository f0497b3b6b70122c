package runtime

// ModuleExportBinding resolves one exported name of a module namespace
// object to its live binding (spec §4.2 "Module Namespace Exotic Objects").
// The evaluator's module records implement this against their environment.
type ModuleExportBinding interface {
	GetBindingValue(name string) (Value, Completion)
}

// NewModuleNamespace builds a non-extensible, null-prototype module
// namespace exotic object exposing exportNames (already resolved and
// deduplicated by the caller's module linking pass) backed by binding for
// live reads (spec §4.2, §4.7 "Module namespace objects expose the
// resolved, deduplicated export names of a module").
func NewModuleNamespace(binding ModuleExportBinding, exportNames []string) *Object {
	o := &Object{Kind: KindModuleNamespace, props: newOrderedProps(), slots: make(map[string]any)}
	o.extensible = false
	names := append([]string(nil), exportNames...)
	sortStrings(names)
	o.SetSlot("Exports", names)
	o.SetSlot("Binding", binding)
	for _, n := range names {
		o.RawDefineOwnProperty(NewString(n), NewDataDescriptor(Undefined, true, true, false))
	}
	o.RawDefineOwnProperty(SymbolToStringTag, NewDataDescriptor(NewString("Module"), false, false, false))
	o.Methods = Methods{
		GetPrototypeOf:    func(*Object) (*Object, Completion) { return nil, Completion{} },
		SetPrototypeOf:    moduleNamespaceSetPrototypeOf,
		IsExtensible:      func(*Object) (bool, Completion) { return false, Completion{} },
		PreventExtensions: func(*Object) (bool, Completion) { return true, Completion{} },
		GetOwnProperty:    OrdinaryGetOwnProperty,
		DefineOwnProperty: moduleNamespaceDefineOwnProperty,
		HasProperty:       OrdinaryHasProperty,
		Get:               moduleNamespaceGet,
		Set:               func(*Object, PropertyKey, Value, Value) (bool, Completion) { return false, Completion{} },
		Delete:            moduleNamespaceDelete,
		OwnPropertyKeys:   OrdinaryOwnPropertyKeys,
	}
	return o
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func moduleNamespaceSetPrototypeOf(o *Object, proto *Object) (bool, Completion) {
	return proto == nil, Completion{}
}

// moduleNamespaceDefineOwnProperty rejects new keys and any change to an
// existing export property (configurable, non-enumerable, accessor,
// non-writable, or a different value); a descriptor compatible with the
// existing property is accepted without modifying it (spec §4.2).
func moduleNamespaceDefineOwnProperty(o *Object, key PropertyKey, desc *PropertyDescriptor) (bool, Completion) {
	current, _ := o.RawGetOwnProperty(key)
	if current == nil {
		return false, Completion{}
	}
	if desc.HasConfigurable && desc.Configurable {
		return false, Completion{}
	}
	if desc.HasEnumerable && !desc.Enumerable {
		return false, Completion{}
	}
	if desc.IsAccessorDescriptor() {
		return false, Completion{}
	}
	if desc.HasWritable && !desc.Writable {
		return false, Completion{}
	}
	if desc.HasValue {
		return SameValue(desc.Value, current.Value), Completion{}
	}
	return true, Completion{}
}

func moduleNamespaceDelete(o *Object, key PropertyKey) (bool, Completion) {
	desc, ok := o.RawGetOwnProperty(key)
	if !ok {
		return true, Completion{}
	}
	if desc.Configurable {
		o.RawDelete(key)
		return true, Completion{}
	}
	return false, Completion{}
}

// moduleNamespaceGet implements [[Get]] by resolving the live binding
// (spec §4.2): reading an export before its module finished evaluating
// observes the Temporal-Dead-Zone ReferenceError the binding itself raises.
func moduleNamespaceGet(o *Object, key PropertyKey, receiver Value) (Value, Completion) {
	s, ok := key.(String)
	if !ok {
		return OrdinaryGet(o, key, receiver)
	}
	if _, has := o.RawGetOwnProperty(key); !has {
		return Undefined, Completion{}
	}
	binding := o.slotBinding()
	return binding.GetBindingValue(s.GoString())
}

func (o *Object) slotBinding() ModuleExportBinding {
	v, _ := o.Slot("Binding")
	return v.(ModuleExportBinding)
}
