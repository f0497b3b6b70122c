package runtime

// Environment is the uniform interface every environment-record kind
// implements (spec §4.2 "Environment Records"): declarative, object,
// function, global, and module records all satisfy it, so identifier
// resolution (spec §9 "Environment chain walking") can walk the outer
// chain without a type switch at every step.
type Environment interface {
	HasBinding(name string) (bool, Completion)
	CreateMutableBinding(name string, deletable bool) Completion
	CreateImmutableBinding(name string, strict bool) Completion
	InitializeBinding(name string, v Value) Completion
	SetMutableBinding(name string, v Value, strict bool) Completion
	GetBindingValue(name string, strict bool) (Value, Completion)
	DeleteBinding(name string) (bool, Completion)
	HasThisBinding() bool
	HasSuperBinding() bool
	WithBaseObject() *Object
	Outer() Environment
}

type binding struct {
	value       Value
	mutable     bool
	initialized bool
	deletable   bool
	strict      bool
}

// DeclarativeEnvironment backs block scopes, catch clauses, function
// parameter/body scopes, and for-loop per-iteration bindings (spec §4.2).
// It mirrors the teacher's Environment{vars map[string]Value, outer
// *Environment} shape, generalized with the mutability/TDZ bookkeeping
// ECMAScript bindings require that a Pascal scope table does not.
type DeclarativeEnvironment struct {
	bindings map[string]*binding
	outer    Environment
}

// NewDeclarativeEnvironment creates an empty declarative environment
// chained to outer (outer may be nil only for the one environment that
// roots module-top or a detached evaluation).
func NewDeclarativeEnvironment(outer Environment) *DeclarativeEnvironment {
	return &DeclarativeEnvironment{bindings: make(map[string]*binding), outer: outer}
}

func (e *DeclarativeEnvironment) Outer() Environment { return e.outer }

func (e *DeclarativeEnvironment) HasBinding(name string) (bool, Completion) {
	_, ok := e.bindings[name]
	return ok, Completion{}
}

func (e *DeclarativeEnvironment) CreateMutableBinding(name string, deletable bool) Completion {
	e.bindings[name] = &binding{mutable: true, deletable: deletable}
	return Completion{}
}

func (e *DeclarativeEnvironment) CreateImmutableBinding(name string, strict bool) Completion {
	e.bindings[name] = &binding{mutable: false, strict: strict}
	return Completion{}
}

func (e *DeclarativeEnvironment) InitializeBinding(name string, v Value) Completion {
	b, ok := e.bindings[name]
	Assert(ok, "InitializeBinding: binding must already exist")
	b.value = v
	b.initialized = true
	return Completion{}
}

func (e *DeclarativeEnvironment) SetMutableBinding(name string, v Value, strict bool) Completion {
	b, ok := e.bindings[name]
	if !ok {
		if strict {
			return Throw(NewReferenceError("%s is not defined", name))
		}
		e.bindings[name] = &binding{value: v, mutable: true, initialized: true, deletable: true}
		return Completion{}
	}
	if !b.initialized {
		return Throw(NewReferenceError("cannot access %q before initialization", name))
	}
	if !b.mutable {
		if strict || b.strict {
			return Throw(NewTypeError("assignment to constant variable %q", name))
		}
		return Completion{}
	}
	b.value = v
	return Completion{}
}

func (e *DeclarativeEnvironment) GetBindingValue(name string, strict bool) (Value, Completion) {
	b, ok := e.bindings[name]
	if !ok {
		return nil, Throw(NewReferenceError("%s is not defined", name))
	}
	if !b.initialized {
		return nil, Throw(NewReferenceError("cannot access %q before initialization", name))
	}
	return b.value, Completion{}
}

func (e *DeclarativeEnvironment) DeleteBinding(name string) (bool, Completion) {
	b, ok := e.bindings[name]
	if !ok {
		return true, Completion{}
	}
	if !b.deletable {
		return false, Completion{}
	}
	delete(e.bindings, name)
	return true, Completion{}
}

func (e *DeclarativeEnvironment) HasThisBinding() bool  { return false }
func (e *DeclarativeEnvironment) HasSuperBinding() bool { return false }
func (e *DeclarativeEnvironment) WithBaseObject() *Object { return nil }

// ObjectEnvironment backs `with` statements and the global object's var
// scope (spec §4.2 "Object Environment Records"): bindings are properties
// of a backing object rather than entries in a side table.
type ObjectEnvironment struct {
	bindingObject *Object
	isWithStmt    bool
	outer         Environment
}

// NewObjectEnvironment wraps obj as an environment record, optionally in
// "with"-statement mode (which consults @@unscopables).
func NewObjectEnvironment(obj *Object, isWithStmt bool, outer Environment) *ObjectEnvironment {
	return &ObjectEnvironment{bindingObject: obj, isWithStmt: isWithStmt, outer: outer}
}

func (e *ObjectEnvironment) Outer() Environment { return e.outer }

func (e *ObjectEnvironment) HasBinding(name string) (bool, Completion) {
	found, c := e.bindingObject.HasProperty(NewString(name))
	if c.IsAbrupt() || !found || !e.isWithStmt {
		return found, c
	}
	unscopables, c := e.bindingObject.Get_(SymbolUnscopables, e.bindingObject)
	if c.IsAbrupt() {
		return false, c
	}
	if blocker, ok := unscopables.(*Object); ok {
		blocked, c := blocker.Get_(NewString(name), blocker)
		if c.IsAbrupt() {
			return false, c
		}
		if ToBoolean(blocked) {
			return false, Completion{}
		}
	}
	return true, Completion{}
}

func (e *ObjectEnvironment) CreateMutableBinding(name string, deletable bool) Completion {
	_, c := e.bindingObject.DefineOwnProperty(NewString(name), NewDataDescriptor(Undefined, true, true, deletable))
	return c
}

func (e *ObjectEnvironment) CreateImmutableBinding(name string, strict bool) Completion {
	panic(&AssertionFailure{Message: "object environments never create immutable bindings"})
}

func (e *ObjectEnvironment) InitializeBinding(name string, v Value) Completion {
	return e.SetMutableBinding(name, v, false)
}

func (e *ObjectEnvironment) SetMutableBinding(name string, v Value, strict bool) Completion {
	key := NewString(name)
	has, c := e.bindingObject.HasProperty(key)
	if c.IsAbrupt() {
		return c
	}
	if !has && strict {
		return Throw(NewReferenceError("%s is not defined", name))
	}
	ok, c := e.bindingObject.Set_(key, v, e.bindingObject)
	if c.IsAbrupt() {
		return c
	}
	if !ok && strict {
		return Throw(NewTypeError("cannot set property %q", name))
	}
	return Completion{}
}

func (e *ObjectEnvironment) GetBindingValue(name string, strict bool) (Value, Completion) {
	key := NewString(name)
	has, c := e.bindingObject.HasProperty(key)
	if c.IsAbrupt() {
		return nil, c
	}
	if !has {
		if strict {
			return nil, Throw(NewReferenceError("%s is not defined", name))
		}
		return Undefined, Completion{}
	}
	return e.bindingObject.Get_(key, e.bindingObject)
}

func (e *ObjectEnvironment) DeleteBinding(name string) (bool, Completion) {
	return e.bindingObject.Delete_(NewString(name))
}

func (e *ObjectEnvironment) HasThisBinding() bool    { return false }
func (e *ObjectEnvironment) HasSuperBinding() bool   { return false }
func (e *ObjectEnvironment) WithBaseObject() *Object {
	if e.isWithStmt {
		return e.bindingObject
	}
	return nil
}

// ThisBindingStatus tracks a function environment's `this` initialization
// state (spec §4.2): derived-class constructors start Uninitialized until
// `super()` runs.
type ThisBindingStatus int

const (
	ThisLexical ThisBindingStatus = iota
	ThisInitialized
	ThisUninitialized
)

// FunctionEnvironment backs a function call's top-level scope (spec §4.2
// "Function Environment Records"): adds `this`/`super`/new.target handling
// on top of a declarative environment, mirroring the teacher's
// ExecutionContext bundling many call-frame concerns together.
type FunctionEnvironment struct {
	*DeclarativeEnvironment
	thisValue        Value
	thisStatus        ThisBindingStatus
	functionObject    *Object
	newTarget         *Object
	homeObject        *Object
	hasHomeObject     bool
}

// NewFunctionEnvironment creates a function environment for a call to fn.
// thisStatus is ThisLexical for arrow functions (no own `this`).
func NewFunctionEnvironment(outer Environment, fn *Object, newTarget *Object, thisStatus ThisBindingStatus) *FunctionEnvironment {
	return &FunctionEnvironment{
		DeclarativeEnvironment: NewDeclarativeEnvironment(outer),
		thisStatus:             thisStatus,
		functionObject:         fn,
		newTarget:              newTarget,
	}
}

func (e *FunctionEnvironment) BindThisValue(v Value) Completion {
	if e.thisStatus == ThisInitialized {
		return Throw(NewReferenceError("super() called twice"))
	}
	e.thisValue = v
	e.thisStatus = ThisInitialized
	return Completion{}
}

func (e *FunctionEnvironment) GetThisBinding() (Value, Completion) {
	if e.thisStatus == ThisUninitialized {
		return nil, Throw(NewReferenceError("must call super constructor before accessing 'this'"))
	}
	return e.thisValue, Completion{}
}

func (e *FunctionEnvironment) GetSuperBase() (Value, Completion) {
	if !e.hasHomeObject || e.homeObject == nil {
		return Undefined, Completion{}
	}
	return e.homeObject.GetPrototypeOf()
}

func (e *FunctionEnvironment) SetHomeObject(o *Object) {
	e.homeObject, e.hasHomeObject = o, true
}

func (e *FunctionEnvironment) GetNewTarget() *Object { return e.newTarget }

func (e *FunctionEnvironment) HasThisBinding() bool {
	return e.thisStatus != ThisLexical
}

func (e *FunctionEnvironment) HasSuperBinding() bool {
	return e.thisStatus != ThisLexical && e.hasHomeObject
}

// GlobalEnvironment backs the realm's global scope (spec §4.2 "Global
// Environment Records"): a declarative record for let/const/class
// (GlobalDeclarativeRecord) layered over an object record for var/function
// bindings on the global object itself (GlobalObjectRecord), with a
// VarNames set tracking which names are var-declared for shadowing checks.
type GlobalEnvironment struct {
	ObjectRecord    *ObjectEnvironment
	DeclarativeRecord *DeclarativeEnvironment
	VarNames        map[string]bool
	globalThis      Value
}

// NewGlobalEnvironment creates the realm's global environment over
// globalObject, with globalThisValue normally globalObject itself (the
// specification allows a distinct globalThis, used by some host
// embeddings).
func NewGlobalEnvironment(globalObject *Object, globalThisValue Value) *GlobalEnvironment {
	return &GlobalEnvironment{
		ObjectRecord:      NewObjectEnvironment(globalObject, false, nil),
		DeclarativeRecord: NewDeclarativeEnvironment(nil),
		VarNames:          make(map[string]bool),
		globalThis:        globalThisValue,
	}
}

func (e *GlobalEnvironment) Outer() Environment { return nil }

func (e *GlobalEnvironment) HasBinding(name string) (bool, Completion) {
	if ok, _ := e.DeclarativeRecord.HasBinding(name); ok {
		return true, Completion{}
	}
	return e.ObjectRecord.HasBinding(name)
}

func (e *GlobalEnvironment) CreateMutableBinding(name string, deletable bool) Completion {
	if ok, _ := e.DeclarativeRecord.HasBinding(name); ok {
		return Throw(NewTypeError("identifier %q has already been declared", name))
	}
	return e.DeclarativeRecord.CreateMutableBinding(name, deletable)
}

func (e *GlobalEnvironment) CreateImmutableBinding(name string, strict bool) Completion {
	return e.DeclarativeRecord.CreateImmutableBinding(name, strict)
}

func (e *GlobalEnvironment) InitializeBinding(name string, v Value) Completion {
	if ok, _ := e.DeclarativeRecord.HasBinding(name); ok {
		return e.DeclarativeRecord.InitializeBinding(name, v)
	}
	return e.ObjectRecord.InitializeBinding(name, v)
}

func (e *GlobalEnvironment) SetMutableBinding(name string, v Value, strict bool) Completion {
	if ok, _ := e.DeclarativeRecord.HasBinding(name); ok {
		return e.DeclarativeRecord.SetMutableBinding(name, v, strict)
	}
	return e.ObjectRecord.SetMutableBinding(name, v, strict)
}

func (e *GlobalEnvironment) GetBindingValue(name string, strict bool) (Value, Completion) {
	if ok, _ := e.DeclarativeRecord.HasBinding(name); ok {
		return e.DeclarativeRecord.GetBindingValue(name, strict)
	}
	return e.ObjectRecord.GetBindingValue(name, strict)
}

func (e *GlobalEnvironment) DeleteBinding(name string) (bool, Completion) {
	if ok, _ := e.DeclarativeRecord.HasBinding(name); ok {
		return false, Completion{} // declarative global bindings are never deletable
	}
	if e.VarNames[name] {
		ok, c := e.ObjectRecord.DeleteBinding(name)
		if c.IsAbrupt() {
			return false, c
		}
		if ok {
			delete(e.VarNames, name)
		}
		return ok, Completion{}
	}
	return e.ObjectRecord.DeleteBinding(name)
}

func (e *GlobalEnvironment) HasThisBinding() bool    { return true }
func (e *GlobalEnvironment) HasSuperBinding() bool    { return false }
func (e *GlobalEnvironment) WithBaseObject() *Object { return nil }
func (e *GlobalEnvironment) GetThisBinding() Value   { return e.globalThis }

// HasVarDeclaration/HasLexicalDeclaration/HasRestrictedGlobalProperty and
// CreateGlobalVarBinding/CreateGlobalFunctionBinding implement the
// remainder of spec §4.2's Global Environment Record contract, used by
// global-code variable instantiation (spec §4.5).

func (e *GlobalEnvironment) HasVarDeclaration(name string) bool { return e.VarNames[name] }

func (e *GlobalEnvironment) HasLexicalDeclaration(name string) bool {
	ok, _ := e.DeclarativeRecord.HasBinding(name)
	return ok
}

func (e *GlobalEnvironment) HasRestrictedGlobalProperty(name string) (bool, Completion) {
	existing, c := e.ObjectRecord.bindingObject.GetOwnProperty(NewString(name))
	if c.IsAbrupt() {
		return false, c
	}
	if existing == nil {
		return false, Completion{}
	}
	return !existing.Configurable, Completion{}
}

func (e *GlobalEnvironment) CreateGlobalVarBinding(name string, deletable bool) Completion {
	obj := e.ObjectRecord.bindingObject
	hasProperty, c := obj.HasProperty(NewString(name))
	if c.IsAbrupt() {
		return c
	}
	extensible, c := obj.IsExtensible()
	if c.IsAbrupt() {
		return c
	}
	if !hasProperty && extensible {
		if c := e.ObjectRecord.CreateMutableBinding(name, deletable); c.IsAbrupt() {
			return c
		}
		if c := e.ObjectRecord.InitializeBinding(name, Undefined); c.IsAbrupt() {
			return c
		}
	}
	e.VarNames[name] = true
	return Completion{}
}

func (e *GlobalEnvironment) CreateGlobalFunctionBinding(name string, v Value, deletable bool) Completion {
	obj := e.ObjectRecord.bindingObject
	existing, c := obj.GetOwnProperty(NewString(name))
	if c.IsAbrupt() {
		return c
	}
	var desc *PropertyDescriptor
	if existing == nil || existing.Configurable {
		desc = NewDataDescriptor(v, true, true, deletable)
	} else {
		desc = &PropertyDescriptor{Value: v, HasValue: true}
	}
	ok, c := obj.DefineOwnProperty(NewString(name), desc)
	if c.IsAbrupt() {
		return c
	}
	if !ok {
		return Throw(NewTypeError("cannot declare global function %q", name))
	}
	e.VarNames[name] = true
	return Completion{}
}

// ModuleEnvironment backs a module's top-level lexical scope (spec §4.2
// "Module Environment Records"): adds indirect bindings to another module's
// live export on top of a declarative environment.
type ModuleEnvironment struct {
	*DeclarativeEnvironment
	indirect map[string]indirectBinding
}

type indirectBinding struct {
	env  Environment
	name string
}

// NewModuleEnvironment creates a module's top-level environment.
func NewModuleEnvironment(outer Environment) *ModuleEnvironment {
	return &ModuleEnvironment{
		DeclarativeEnvironment: NewDeclarativeEnvironment(outer),
		indirect:               make(map[string]indirectBinding),
	}
}

// CreateImportBinding installs an indirect binding resolving to
// targetEnv's targetName (spec §4.7 "ResolveExport"/module linking).
func (e *ModuleEnvironment) CreateImportBinding(localName string, targetEnv Environment, targetName string) {
	e.indirect[localName] = indirectBinding{env: targetEnv, name: targetName}
}

func (e *ModuleEnvironment) GetBindingValue(name string, strict bool) (Value, Completion) {
	if ib, ok := e.indirect[name]; ok {
		return ib.env.GetBindingValue(ib.name, true)
	}
	return e.DeclarativeEnvironment.GetBindingValue(name, strict)
}

func (e *ModuleEnvironment) HasThisBinding() bool { return true }

func (e *ModuleEnvironment) GetThisBinding() Value { return Undefined }
