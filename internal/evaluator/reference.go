package evaluator

import "github.com/cwbudde/goecma/internal/runtime"

// RefKind distinguishes the three reference shapes the evaluator resolves
// identifiers and member accesses to before reading or writing through
// them (spec §3 "Reference Record", generalized here as a plain struct
// rather than a tagged Value since references never escape evaluation).
type RefKind int

const (
	RefEnvironment RefKind = iota
	RefProperty
	RefPrivate
	RefUnresolvable
)

// Reference is the intermediate result of evaluating an expression in
// "reference" position: the left side of an assignment, the operand of
// `typeof`/`delete`/`++`/`--`. GetValue/PutValue perform the dereference
// spec §6's identifier-resolution and property-access operations collapse
// to once a base and key are known.
type Reference struct {
	Kind     RefKind
	Env      runtime.Environment
	Name     string
	Base     runtime.Value
	Key      runtime.PropertyKey
	Strict   bool
	Receiver runtime.Value      // `this` passed to accessors; defaults to Base (differs for `super.prop`)
	Private  *runtime.PrivateName
}

// GetValue implements the reference dereference (spec abstract operation
// GetValue): read through an environment binding or a property access.
func (r Reference) GetValue() runtime.Completion {
	switch r.Kind {
	case RefUnresolvable:
		return runtime.Throw(runtime.NewReferenceError(r.Name + " is not defined"))
	case RefEnvironment:
		v, c := r.Env.GetBindingValue(r.Name, r.Strict)
		if c.IsAbrupt() {
			return c
		}
		return runtime.NormalCompletion(v)
	case RefPrivate:
		return getPrivateReference(r)
	default:
		base := r.Base
		recv := r.Receiver
		if recv == nil {
			recv = base
		}
		o, ok := base.(*runtime.Object)
		if !ok {
			obj, c := runtime.ToObjectValue(base)
			if c.IsAbrupt() {
				return c
			}
			o = obj
		}
		v, c := o.Get_(r.Key, recv)
		if c.IsAbrupt() {
			return c
		}
		return runtime.NormalCompletion(v)
	}
}

// getPrivateReference implements PrivateFieldGet/PrivateMethodOrAccessorGet
// (spec §3): the element is found by PrivateName identity, not by string
// key, so an absent element always means "wrong class", never "missing
// property".
func getPrivateReference(r Reference) runtime.Completion {
	o, ok := r.Base.(*runtime.Object)
	if !ok {
		return runtime.Throw(runtime.NewTypeError("cannot read private member from a non-object"))
	}
	el := runtime.PrivateFieldFind(o.PrivateElements, r.Private)
	if el == nil {
		return runtime.Throw(runtime.NewTypeError("private element is not present on this object"))
	}
	switch el.Kind {
	case runtime.PrivateField:
		return runtime.NormalCompletion(el.Value)
	case runtime.PrivateMethod:
		return runtime.NormalCompletion(el.Get)
	case runtime.PrivateAccessor:
		getter, ok := el.Get.(*runtime.Object)
		if !ok {
			return runtime.Throw(runtime.NewTypeError("private accessor has no getter"))
		}
		return getter.Call(r.Base, nil)
	default:
		return runtime.Throw(runtime.NewTypeError("private element is not present on this object"))
	}
}

// PutValue implements the reference write-back (spec abstract operation
// PutValue). An unresolvable reference in strict mode throws; in sloppy
// mode it creates a property on the global object, matching how an
// undeclared assignment behaves in a script's global environment.
func (r Reference) PutValue(v runtime.Value, globalObject *runtime.Object) runtime.Completion {
	switch r.Kind {
	case RefUnresolvable:
		if r.Strict {
			return runtime.Throw(runtime.NewReferenceError(r.Name + " is not defined"))
		}
		if globalObject == nil {
			return runtime.Throw(runtime.NewReferenceError(r.Name + " is not defined"))
		}
		ok, c := globalObject.Set_(runtime.NewString(r.Name), v, globalObject)
		if c.IsAbrupt() {
			return c
		}
		if !ok {
			return runtime.Throw(runtime.NewTypeError("cannot assign to " + r.Name))
		}
		return runtime.NormalCompletion(runtime.Undefined)
	case RefEnvironment:
		return r.Env.SetMutableBinding(r.Name, v, r.Strict)
	case RefPrivate:
		return putPrivateReference(r, v)
	default:
		base := r.Base
		recv := r.Receiver
		if recv == nil {
			recv = base
		}
		o, ok := base.(*runtime.Object)
		if !ok {
			obj, c := runtime.ToObjectValue(base)
			if c.IsAbrupt() {
				return c
			}
			o = obj
		}
		succeeded, c := o.Set_(r.Key, v, recv)
		if c.IsAbrupt() {
			return c
		}
		if !succeeded && r.Strict {
			return runtime.Throw(runtime.NewTypeError("cannot assign to read only property"))
		}
		return runtime.NormalCompletion(runtime.Undefined)
	}
}

// putPrivateReference implements PrivateFieldSet/PrivateMethodOrAccessorSet.
// Assigning to a private method is always a TypeError (spec "PrivateSet" —
// methods and accessor-less accessors are not writable).
func putPrivateReference(r Reference, v runtime.Value) runtime.Completion {
	o, ok := r.Base.(*runtime.Object)
	if !ok {
		return runtime.Throw(runtime.NewTypeError("cannot write private member to a non-object"))
	}
	el := runtime.PrivateFieldFind(o.PrivateElements, r.Private)
	if el == nil {
		return runtime.Throw(runtime.NewTypeError("private element is not present on this object"))
	}
	switch el.Kind {
	case runtime.PrivateField:
		el.Value = v
		return runtime.NormalCompletion(runtime.Undefined)
	case runtime.PrivateAccessor:
		setter, ok := el.Set.(*runtime.Object)
		if !ok {
			return runtime.Throw(runtime.NewTypeError("private accessor has no setter"))
		}
		return setter.Call(r.Base, []runtime.Value{v})
	default:
		return runtime.Throw(runtime.NewTypeError("cannot assign to private method"))
	}
}

// resolveBinding walks the environment chain starting at env looking for
// name, returning an unresolvable reference if no environment record
// claims it (spec "ResolveBinding").
func resolveBinding(env runtime.Environment, name string, strict bool) (Reference, runtime.Completion) {
	for e := env; e != nil; e = e.Outer() {
		has, c := e.HasBinding(name)
		if c.IsAbrupt() {
			return Reference{}, c
		}
		if has {
			return Reference{Kind: RefEnvironment, Env: e, Name: name, Strict: strict}, runtime.Completion{}
		}
	}
	return Reference{Kind: RefUnresolvable, Name: name, Strict: strict}, runtime.Completion{}
}
