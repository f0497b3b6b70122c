// Package evaluator is the re-entrant tree walker (spec §4.5): it drives
// ast.Node trees against the runtime/realm machinery, producing
// runtime.Completion values the way the teacher's own evaluator package
// walks its AST against an ExecutionContext, generalized here to the
// completion-record control-flow protocol ECMAScript statements require.
package evaluator

import (
	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/realm"
	"github.com/cwbudde/goecma/internal/runtime"
)

// Evaluator walks parse trees against one realm. It carries no per-call
// state itself — everything per-evaluation lives in Context — so a single
// Evaluator may drive many concurrent scripts/modules sharing a realm.
type Evaluator struct {
	Realm *realm.Realm
}

// New creates an evaluator bound to r.
func New(r *realm.Realm) *Evaluator { return &Evaluator{Realm: r} }

// Context threads the per-activation state a statement/expression
// evaluation needs: the running execution context, the lexical and
// variable environments currently in scope (they diverge inside a
// `with`/catch/block), strictness, the label set threaded by
// LabeledStatement/BreakableStatement (spec §4.5), and the coroutine
// handle for generator/async bodies (nil in a plain synchronous call).
type Context struct {
	Exec       *realm.ExecutionContext
	Lexical    runtime.Environment
	Variable   runtime.Environment
	Strict     bool
	Labels     []string
	Coroutine  *Coroutine
	HomeObject *runtime.Object
}

// withLabels returns a copy of c with Labels replaced — used by
// LabeledStatement to accumulate a label set and by every other statement
// to reset it to empty before evaluating a non-labelled child.
func (c *Context) withLabels(labels []string) *Context {
	next := *c
	next.Labels = labels
	return &next
}

// withEnv returns a copy of c with a new lexical environment — used
// whenever a statement introduces a declarative environment (blocks,
// catch clauses, for-loop per-iteration bindings).
func (c *Context) withEnv(env runtime.Environment) *Context {
	next := *c
	next.Lexical = env
	return &next
}

// EvalProgram runs a parsed script's top-level statement list in the
// realm's global environment (spec §4.4 "a realm's global environment is
// the running context's Lexical/VariableEnvironment at the top of a
// script"), draining the job queue once the synchronous portion settles
// (spec §5 "the queue drains after each top-level agent entry point").
func (ev *Evaluator) EvalProgram(program *ast.Program) runtime.Completion {
	execCtx := ev.Realm.NewExecutionContext()
	if pushC := ev.Realm.Agent.Contexts.Push(execCtx); pushC.IsAbrupt() {
		return pushC
	}
	defer ev.Realm.Agent.Contexts.Pop()

	c := &Context{
		Exec:     execCtx,
		Lexical:  ev.Realm.GlobalEnv,
		Variable: ev.Realm.GlobalEnv,
	}

	if hc := ev.globalDeclarationInstantiation(c, program.Body); hc.IsAbrupt() {
		return hc
	}

	result := ev.evalStatementList(c, program.Body)
	ev.Realm.Agent.DrainJobs()
	if result.Type == runtime.Normal {
		return result
	}
	if result.Type == runtime.Throw {
		return result
	}
	return runtime.NormalCompletion(runtime.Undefined)
}

// evalStatementList folds a statement list's completions per spec §4.1
// (short-circuit on abrupt, carry forward the last Normal value through
// Empty-valued completions).
func (ev *Evaluator) evalStatementList(c *Context, body []ast.Statement) runtime.Completion {
	return runtime.FoldStatementList(func(i int) runtime.Completion {
		return ev.EvalStatement(c, body[i])
	}, len(body))
}
