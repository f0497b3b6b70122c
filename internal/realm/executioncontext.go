package realm

import "github.com/cwbudde/goecma/internal/runtime"

// ExecutionContext is the frame for one unit of code: a script, a module,
// or a function call (spec §4.2 GLOSSARY "Execution context"; bundled the
// way the teacher's own ExecutionContext gathers call-stack, environment,
// and control-flow concerns into a single struct rather than threading
// them as separate parameters).
type ExecutionContext struct {
	Function          *runtime.Object // nil for script/module top-level contexts
	Realm             *Realm
	ScriptOrModule    any // *module.CyclicModuleRecord, or a script record; opaque here to avoid an import cycle
	LexicalEnvironment runtime.Environment
	VariableEnvironment runtime.Environment
	PrivateEnvironment *PrivateEnvironment

	// CodeEvaluationState is the resumable coroutine handle addressable by
	// Resume (spec §9 "Coroutines": "the codeEvaluationState field ... must
	// hold a resumable handle"). The evaluator package supplies the
	// concrete type; this package only stores and restores it across
	// suspension boundaries.
	CodeEvaluationState any

	// Generator, when non-nil, is the generator/async-function object this
	// context drives (spec §4.5 async/generator state machine).
	Generator *runtime.Object
}

// PrivateEnvironment is a chain of in-scope PrivateName declarations for
// `#x`-style class members (spec §3), looked up by name within the
// current class body's nesting.
type PrivateEnvironment struct {
	Outer *PrivateEnvironment
	Names map[string]*runtime.PrivateName
}

// NewPrivateEnvironment creates a private-name scope nested in outer (outer
// may be nil at the top of a class nest).
func NewPrivateEnvironment(outer *PrivateEnvironment) *PrivateEnvironment {
	return &PrivateEnvironment{Outer: outer, Names: make(map[string]*runtime.PrivateName)}
}

// Resolve looks up name by walking outward through the private-environment
// chain (spec §3 "Private elements are found by identity, not by name" —
// this is the name→identity half of that lookup, used when compiling a
// `#x` reference into the PrivateName it denotes).
func (p *PrivateEnvironment) Resolve(name string) (*runtime.PrivateName, bool) {
	for e := p; e != nil; e = e.Outer {
		if pn, ok := e.Names[name]; ok {
			return pn, true
		}
	}
	return nil, false
}

// ContextStack is the agent's execution-context stack (spec §4.4, GLOSSARY
// "pushed on entry, popped on exit"), implemented as a plain slice the way
// the teacher's CallStack wraps a slice with depth-limit enforcement.
type ContextStack struct {
	frames   []*ExecutionContext
	maxDepth int
}

// NewContextStack creates an empty stack enforcing maxDepth (0 means the
// default used by Agent).
func NewContextStack(maxDepth int) *ContextStack {
	if maxDepth <= 0 {
		maxDepth = 2048
	}
	return &ContextStack{maxDepth: maxDepth}
}

// Push appends ctx as the new running execution context. Returns a
// RangeError completion if the stack is already at its configured depth
// limit (the engine's analogue of a host stack overflow).
func (s *ContextStack) Push(ctx *ExecutionContext) runtime.Completion {
	if len(s.frames) >= s.maxDepth {
		return runtime.Throw(runtime.NewRangeError("call stack size exceeded"))
	}
	s.frames = append(s.frames, ctx)
	return runtime.Completion{}
}

// Pop removes and returns the running execution context.
func (s *ContextStack) Pop() *ExecutionContext {
	if len(s.frames) == 0 {
		return nil
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

// Top returns the running execution context, or nil if the stack is empty.
func (s *ContextStack) Top() *ExecutionContext {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth reports the current stack depth.
func (s *ContextStack) Depth() int { return len(s.frames) }
