package evaluator

import (
	"github.com/cwbudde/goecma/ast"
	"github.com/cwbudde/goecma/internal/realm"
	"github.com/cwbudde/goecma/internal/runtime"
)

// newGeneratorObject builds the generator instance returned by calling a
// generator function (spec "GeneratorFunction : [[Call]]" via
// "CreateIteratorFromClosure"), wiring a fresh Coroutine and installing
// next/return/throw as this instance's own methods — their behavior is
// tied to this generator's coroutine, not shared across instances the way
// an ordinary prototype method would be.
func (ev *Evaluator) newGeneratorObject(fn *runtime.Object, data *functionData, thisArg runtime.Value, args []runtime.Value) *runtime.Object {
	protoVal, _ := fn.Get_(runtime.NewString("prototype"), fn)
	proto, ok := protoVal.(*runtime.Object)
	if !ok || proto == nil {
		proto = ev.Realm.Intrinsics["%GeneratorPrototype%"]
	}
	gen := runtime.NewOrdinaryObject(proto)
	gen.Kind = runtime.KindGenerator

	co := newCoroutine()
	c, bc := ev.buildFunctionContext(fn, data, thisArg, nil)
	if !bc.IsAbrupt() {
		bc = ev.finishFunctionContext(c, data, args)
	}
	if bc.IsAbrupt() {
		gen.SetSlot("GeneratorSetupError", bc.Value)
	} else {
		c.Exec.Generator = gen
		c.Exec.CodeEvaluationState = co
		gen.SetSlot("GeneratorContext", c.Exec)
		c.Coroutine = co
		gen.SetSlot("GeneratorBody", func() runtime.Completion {
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
	}
	gen.SetSlot("GeneratorCoroutine", co)

	installMethod(gen, "next", 1, func(_ runtime.Value, callArgs []runtime.Value) runtime.Completion {
		return ev.generatorResume(gen, resumeNext, argOrUndefined(callArgs, 0))
	})
	installMethod(gen, "return", 1, func(_ runtime.Value, callArgs []runtime.Value) runtime.Completion {
		return ev.generatorResume(gen, resumeReturn, argOrUndefined(callArgs, 0))
	})
	installMethod(gen, "throw", 1, func(_ runtime.Value, callArgs []runtime.Value) runtime.Completion {
		return ev.generatorResume(gen, resumeThrow, argOrUndefined(callArgs, 0))
	})
	return gen
}

// generatorResume implements the three driving operations spec
// "GeneratorResume"/"GeneratorResumeAbrupt" collapse into one algorithm
// parameterised on resumeKind: next() resumes normally, return()/throw()
// inject an abrupt completion at the suspension point (or, if the body
// never started, skip straight to completing the generator without
// running any of it).
func (ev *Evaluator) generatorResume(gen *runtime.Object, kind resumeKind, value runtime.Value) runtime.Completion {
	coV, _ := gen.Slot("GeneratorCoroutine")
	co, _ := coV.(*Coroutine)

	if co.state == coroutineCompleted {
		return ev.generatorSettledResult(kind, value)
	}

	if co.state == coroutineSuspendedStart {
		if errV, has := gen.Slot("GeneratorSetupError"); has {
			co.state = coroutineCompleted
			return runtime.ThrowCompletion(errV.(runtime.Value))
		}
		if kind == resumeReturn {
			co.state = coroutineCompleted
			return ev.createIterResultObject(value, true)
		}
		if kind == resumeThrow {
			co.state = coroutineCompleted
			return runtime.ThrowCompletion(value)
		}
		bodyV, _ := gen.Slot("GeneratorBody")
		co.start(bodyV.(func() runtime.Completion))
	}

	execV, _ := gen.Slot("GeneratorContext")
	execCtx := execV.(*realm.ExecutionContext)
	if pc := ev.Realm.Agent.Contexts.Push(execCtx); pc.IsAbrupt() {
		return pc
	}
	out := co.doResume(resumeMsg{kind: kind, value: value})
	ev.Realm.Agent.Contexts.Pop()

	if out.done {
		if out.completion.Type == runtime.Throw {
			return out.completion
		}
		return ev.createIterResultObject(out.completion.Value, true)
	}
	return ev.createIterResultObject(out.value, false)
}

// generatorSettledResult answers next()/return()/throw() on an already
// completed generator: next() and return() both report {done: true}
// (return()'s value passes through), throw() re-raises, matching a
// generator that "remembers" it is finished rather than silently looping.
func (ev *Evaluator) generatorSettledResult(kind resumeKind, value runtime.Value) runtime.Completion {
	if kind == resumeThrow {
		return runtime.ThrowCompletion(value)
	}
	if kind == resumeReturn {
		return ev.createIterResultObject(value, true)
	}
	return ev.createIterResultObject(runtime.Undefined, true)
}

// createIterResultObject implements CreateIterResultObject (spec §4.2).
func (ev *Evaluator) createIterResultObject(value runtime.Value, done bool) runtime.Completion {
	o := runtime.NewOrdinaryObject(ev.Realm.Intrinsics["%Object.prototype%"])
	o.RawDefineOwnProperty(runtime.NewString("value"), runtime.NewDataDescriptor(value, true, true, true))
	o.RawDefineOwnProperty(runtime.NewString("done"), runtime.NewDataDescriptor(runtime.Boolean(done), true, true, true))
	return runtime.NormalCompletion(o)
}

// evalYield implements `yield`/`yield*` (spec "YieldExpression:
// Evaluation"): evaluate the operand, then suspend the running Coroutine,
// handing the value to whichever next()/return()/throw() call is driving
// it and blocking until the next one wakes the body back up.
func (ev *Evaluator) evalYield(c *Context, e *ast.YieldExpression) runtime.Completion {
	if c.Coroutine == nil {
		return runtime.Throw(runtime.NewSyntaxError("yield is only valid inside a generator"))
	}
	var v runtime.Value = runtime.Undefined
	if e.Argument != nil {
		ac := ev.EvalExpression(c, e.Argument)
		if ac.IsAbrupt() {
			return ac
		}
		v = ac.Value
	}
	if e.Delegate {
		return ev.evalYieldDelegate(c, v)
	}
	return resumeToCompletion(c.Coroutine.yieldValue(v))
}

// evalYieldDelegate implements `yield* expr` (spec "YieldExpression:
// yield * AssignmentExpression"): drives expr's iterator to completion,
// forwarding each next()/throw()/return() this generator itself receives
// on to the inner iterator, and yielding every value the inner iterator
// produces as this generator's own.
func (ev *Evaluator) evalYieldDelegate(c *Context, iterable runtime.Value) runtime.Completion {
	iter, ic := runtime.GetIterator(iterable, true)
	if ic.IsAbrupt() {
		return ic
	}
	var sent runtime.Value = runtime.Undefined
	kind := resumeNext
	for {
		methodName := "next"
		switch kind {
		case resumeThrow:
			methodName = "throw"
		case resumeReturn:
			methodName = "return"
		}
		method, gc := iter.Object.Get_(runtime.NewString(methodName), iter.Object)
		if gc.IsAbrupt() {
			return gc
		}
		if runtime.IsUndefined(method) {
			switch kind {
			case resumeThrow:
				runtime.IteratorClose(iter, runtime.Completion{})
				return runtime.Throw(runtime.NewTypeError("iterator does not support throw"))
			case resumeReturn:
				return runtime.ReturnCompletion(sent)
			}
		}
		innerC := runtime.Call(method, iter.Object, []runtime.Value{sent})
		if innerC.IsAbrupt() {
			return innerC
		}
		resultObj, ok := innerC.Value.(*runtime.Object)
		if !ok {
			return runtime.Throw(runtime.NewTypeError("iterator result is not an object"))
		}
		done, dc := runtime.IteratorComplete(resultObj)
		if dc.IsAbrupt() {
			return dc
		}
		val, vc := runtime.IteratorValue(resultObj)
		if vc.IsAbrupt() {
			return vc
		}
		if done {
			if kind == resumeReturn {
				return runtime.ReturnCompletion(val)
			}
			return runtime.NormalCompletion(val)
		}
		msg := c.Coroutine.yieldValue(val)
		sent, kind = msg.value, msg.kind
	}
}

func argOrUndefined(args []runtime.Value, i int) runtime.Value {
	if i >= len(args) {
		return runtime.Undefined
	}
	return args[i]
}

// installMethod attaches a native, non-enumerable, writable/configurable
// method to o — the evaluator's own copy of the realm package's bootstrap
// helper, used for the per-instance next/return/throw a generator/async
// driver installs rather than a shared prototype method.
func installMethod(o *runtime.Object, name string, length int, fn runtime.CallHandler) {
	method := runtime.NewOrdinaryObject(nil)
	method.Kind = runtime.KindFunction
	method.Call = fn
	method.RawDefineOwnProperty(runtime.NewString("length"), runtime.NewDataDescriptor(runtime.Number(length), false, false, true))
	method.RawDefineOwnProperty(runtime.NewString("name"), runtime.NewDataDescriptor(runtime.NewString(name), false, false, true))
	o.RawDefineOwnProperty(runtime.NewString(name), runtime.NewDataDescriptor(method, true, false, true))
}
