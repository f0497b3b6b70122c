package evaluator

import (
	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/realm"
	"github.com/cwbudde/goecma/internal/runtime"
)

// evalAwait implements `await expr` (spec "AwaitExpression: Evaluation"):
// evaluate the operand, coerce it to a promise, and suspend this
// Coroutine until driveAsync resumes it with the settled value (or
// rethrows the rejection reason).
func (ev *Evaluator) evalAwait(c *Context, e *ast.AwaitExpression) runtime.Completion {
	if c.Coroutine == nil {
		return runtime.Throw(runtime.NewSyntaxError("await is only valid inside an async function"))
	}
	vc := ev.EvalExpression(c, e.Argument)
	if vc.IsAbrupt() {
		return vc
	}
	return resumeToCompletion(c.Coroutine.yieldValue(vc.Value))
}

// callAsyncFunction implements AsyncFunctionStart (spec §4.5): runs the
// body on a Coroutine, resolving/rejecting a fresh promise with whatever
// the body eventually returns or throws, and suspending at each `await`
// until the awaited value settles.
func (ev *Evaluator) callAsyncFunction(fn *runtime.Object, data *functionData, thisArg runtime.Value, args []runtime.Value) runtime.Completion {
	capability := ev.Realm.NewPromiseCapability()

	c, bc := ev.buildFunctionContext(fn, data, thisArg, nil)
	if !bc.IsAbrupt() {
		bc = ev.finishFunctionContext(c, data, args)
	}
	if bc.IsAbrupt() {
		capability.Reject(bc.Value)
		return runtime.NormalCompletion(capability.Promise)
	}

	co := newCoroutine()
	c.Coroutine = co
	c.Exec.CodeEvaluationState = co
	co.start(func() runtime.Completion {
		if data.conciseBody != nil {
			return ev.EvalExpression(c, data.conciseBody)
		}
		result := ev.evalStatementList(c, data.body.Body)
		switch result.Type {
		case runtime.Return:
			return runtime.NormalCompletion(result.Value)
		case runtime.Throw:
			return result
		default:
			return runtime.NormalCompletion(runtime.Undefined)
		}
	})

	ev.driveAsync(co, c.Exec, capability, resumeMsg{kind: resumeNext, value: runtime.Undefined})
	return runtime.NormalCompletion(capability.Promise)
}

// driveAsync resumes co once. If the body suspended at an `await` rather
// than finishing, it subscribes to the awaited value's promise so the next
// resumption happens from a PromiseJobs job once that promise settles —
// the recursive call re-enters driveAsync from inside that job's callback,
// one step per await, the same shape AsyncFunctionStart's per-await
// re-entry takes in the specification.
func (ev *Evaluator) driveAsync(co *Coroutine, execCtx *realm.ExecutionContext, capability *realm.PromiseCapability, msg resumeMsg) {
	if pc := ev.Realm.Agent.Contexts.Push(execCtx); pc.IsAbrupt() {
		capability.Reject(pc.Value)
		return
	}
	out := co.doResume(msg)
	ev.Realm.Agent.Contexts.Pop()

	if out.done {
		if out.completion.Type == runtime.Throw {
			capability.Reject(out.completion.Value)
		} else {
			capability.Resolve(out.completion.Value)
		}
		return
	}

	awaited := ev.Realm.CoercePromise(out.value)
	ev.Realm.PromiseThen(awaited,
		func(v runtime.Value) runtime.Completion {
			ev.driveAsync(co, execCtx, capability, resumeMsg{kind: resumeNext, value: v})
			return runtime.NormalCompletion(runtime.Undefined)
		},
		func(v runtime.Value) runtime.Completion {
			ev.driveAsync(co, execCtx, capability, resumeMsg{kind: resumeThrow, value: v})
			return runtime.NormalCompletion(runtime.Undefined)
		},
	)
}
