package runtime

// ParameterMap abstracts the binding side-table a mapped arguments object
// keeps in sync with a sloppy-mode function's formal parameters (spec §4.2
// "Arguments Exotic Objects"). get/set/has/delete operate on the
// environment-record binding for a given formal parameter name; the
// evaluator supplies the concrete implementation when it builds a mapped
// arguments object for a call.
type ParameterMap struct {
	// names maps argument index -> bound identifier name, only for indices
	// that remain mapped (deleting/redefining the index property
	// unmaps it, per spec).
	names map[uint32]string
	get   func(name string) (Value, Completion)
	set   func(name string, v Value) Completion
}

// NewParameterMap constructs the side-table wiring used by NewMappedArguments.
func NewParameterMap(names map[uint32]string, get func(string) (Value, Completion), set func(string, Value) Completion) *ParameterMap {
	return &ParameterMap{names: names, get: get, set: set}
}

func (m *ParameterMap) unmap(index uint32) { delete(m.names, index) }

// NewUnmappedArguments builds a strict-mode (or arrow-function) arguments
// object: an ordinary object with an own "length" data property, an
// @@iterator alias, and no parameter mapping (spec §4.2).
func NewUnmappedArguments(proto *Object, args []Value, iteratorValue Value) *Object {
	o := NewOrdinaryObject(proto)
	o.Kind = KindArguments
	installArgumentsCommon(o, args, iteratorValue)
	return o
}

// NewMappedArguments builds a sloppy-mode arguments object whose numeric
// index properties stay live-linked to the corresponding formal parameter
// binding until the property is deleted or redefined (spec §4.2 "Arguments
// Exotic Objects": "mapped arguments additionally keep ... in sync with the
// corresponding formal parameter binding, severed on delete or redefine").
func NewMappedArguments(proto *Object, args []Value, iteratorValue Value, pmap *ParameterMap) *Object {
	o := NewOrdinaryObject(proto)
	o.Kind = KindArguments
	installArgumentsCommon(o, args, iteratorValue)
	o.SetSlot("ParameterMap", pmap)
	o.Methods.Get = argumentsGet
	o.Methods.GetOwnProperty = argumentsGetOwnProperty
	o.Methods.DefineOwnProperty = argumentsDefineOwnProperty
	o.Methods.Set = argumentsSet
	o.Methods.Delete = argumentsDelete
	return o
}

func installArgumentsCommon(o *Object, args []Value, iteratorValue Value) {
	for i, v := range args {
		o.RawDefineOwnProperty(NewString(uint32ToString(uint32(i))), NewDataDescriptor(v, true, true, true))
	}
	o.RawDefineOwnProperty(lengthKey, NewDataDescriptor(Number(len(args)), true, false, true))
	o.RawDefineOwnProperty(SymbolIterator, NewDataDescriptor(iteratorValue, true, false, true))
}

func argumentsParameterMap(o *Object) *ParameterMap {
	v, ok := o.Slot("ParameterMap")
	if !ok {
		return nil
	}
	return v.(*ParameterMap)
}

func mappedIndex(o *Object, key PropertyKey) (uint32, string, bool) {
	pmap := argumentsParameterMap(o)
	if pmap == nil {
		return 0, "", false
	}
	s, ok := key.(String)
	if !ok {
		return 0, "", false
	}
	idx, isIndex := ArrayIndex(s)
	if !isIndex {
		return 0, "", false
	}
	name, mapped := pmap.names[idx]
	return idx, name, mapped
}

// argumentsGetOwnProperty implements mapped-arguments [[GetOwnProperty]]:
// the descriptor's Value is resolved from the live binding for mapped
// indices (spec §4.2).
func argumentsGetOwnProperty(o *Object, key PropertyKey) (*PropertyDescriptor, Completion) {
	desc, c := OrdinaryGetOwnProperty(o, key)
	if c.IsAbrupt() || desc == nil {
		return desc, c
	}
	if _, name, mapped := mappedIndex(o, key); mapped {
		pmap := argumentsParameterMap(o)
		v, c := pmap.get(name)
		if c.IsAbrupt() {
			return nil, c
		}
		desc.Value = v
	}
	return desc, Completion{}
}

// argumentsGet implements mapped-arguments [[Get]], reading through the
// parameter map for mapped indices.
func argumentsGet(o *Object, key PropertyKey, receiver Value) (Value, Completion) {
	if _, name, mapped := mappedIndex(o, key); mapped {
		pmap := argumentsParameterMap(o)
		return pmap.get(name)
	}
	return OrdinaryGet(o, key, receiver)
}

// argumentsSet implements mapped-arguments [[Set]], writing through the
// parameter map for mapped indices in addition to the own property.
func argumentsSet(o *Object, key PropertyKey, value Value, receiver Value) (bool, Completion) {
	if recvObj, ok := receiver.(*Object); ok && recvObj == o {
		if _, name, mapped := mappedIndex(o, key); mapped {
			pmap := argumentsParameterMap(o)
			if c := pmap.set(name, value); c.IsAbrupt() {
				return false, c
			}
		}
	}
	return OrdinarySet(o, key, value, receiver)
}

// argumentsDefineOwnProperty implements mapped-arguments [[DefineOwnProperty]]:
// redefining a mapped index severs the mapping (spec §4.2), except that
// redefining only the Value of a mapped index still writes through before
// severing when the descriptor is not itself rejected.
func argumentsDefineOwnProperty(o *Object, key PropertyKey, desc *PropertyDescriptor) (bool, Completion) {
	idx, name, mapped := mappedIndex(o, key)
	isAccessor := desc.IsAccessorDescriptor()
	ok, c := OrdinaryDefineOwnProperty(o, key, desc)
	if c.IsAbrupt() || !ok {
		return ok, c
	}
	if mapped {
		pmap := argumentsParameterMap(o)
		if isAccessor {
			pmap.unmap(idx)
		} else {
			if desc.HasValue {
				if c := pmap.set(name, desc.Value); c.IsAbrupt() {
					return false, c
				}
			}
			if desc.HasWritable && !desc.Writable {
				pmap.unmap(idx)
			}
		}
	}
	return true, Completion{}
}

// argumentsDelete implements mapped-arguments [[Delete]]: a successful
// delete of a mapped index severs the mapping.
func argumentsDelete(o *Object, key PropertyKey) (bool, Completion) {
	idx, _, mapped := mappedIndex(o, key)
	ok, c := OrdinaryDelete(o, key)
	if c.IsAbrupt() {
		return false, c
	}
	if ok && mapped {
		argumentsParameterMap(o).unmap(idx)
	}
	return ok, Completion{}
}
