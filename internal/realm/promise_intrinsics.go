package realm

import "github.com/cwbudde/goecma/internal/runtime"

// bootstrapPromise wires %Promise.prototype%/%Promise% into in (spec §8.e
// names `.then`; SPEC_FULL.md §4.8 supplements the combinators). Promise
// construction needs live closures over *Realm, so it runs as a second
// pass after bootstrap() returns — NewRealm calls both in order.
func (r *Realm) bootstrapPromise() {
	in := r.Intrinsics
	objectProto := in["%Object.prototype%"]
	funcProto := in["%Function.prototype%"]

	promiseProto := runtime.NewOrdinaryObject(objectProto)
	in["%Promise.prototype%"] = promiseProto

	installMethod(promiseProto, "then", 2, func(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
		p, ok := thisArg.(*runtime.Object)
		if !ok || p.Kind != runtime.KindPromise {
			return runtime.Throw(runtime.NewTypeError("Promise.prototype.then called on a non-Promise"))
		}
		onFulfilled := callableHandlerOf(args, 0)
		onRejected := callableHandlerOf(args, 1)
		return runtime.NormalCompletion(r.PromiseThen(p, onFulfilled, onRejected))
	})
	installMethod(promiseProto, "catch", 1, func(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
		then, _ := promiseProto.Get_(runtime.NewString("then"), promiseProto)
		thenFn := then.(*runtime.Object)
		var onRejected runtime.Value = runtime.Undefined
		if len(args) > 0 {
			onRejected = args[0]
		}
		return thenFn.Call(thisArg, []runtime.Value{runtime.Undefined, onRejected})
	})
	installMethod(promiseProto, "finally", 1, func(thisArg runtime.Value, args []runtime.Value) runtime.Completion {
		p, ok := thisArg.(*runtime.Object)
		if !ok || p.Kind != runtime.KindPromise {
			return runtime.Throw(runtime.NewTypeError("Promise.prototype.finally called on a non-Promise"))
		}
		var onFinally runtime.Value = runtime.Undefined
		if len(args) > 0 {
			onFinally = args[0]
		}
		fn, callable := onFinally.(*runtime.Object)
		runFinally := func() runtime.Completion {
			if !callable || !fn.IsCallable() {
				return runtime.NormalCompletion(runtime.Undefined)
			}
			return fn.Call(runtime.Undefined, nil)
		}
		return runtime.NormalCompletion(r.PromiseThen(p,
			func(v runtime.Value) runtime.Completion {
				if c := runFinally(); c.IsAbrupt() {
					return c
				}
				return runtime.NormalCompletion(v)
			},
			func(v runtime.Value) runtime.Completion {
				if c := runFinally(); c.IsAbrupt() {
					return c
				}
				return runtime.Throw(errorFromValue(v))
			},
		))
	})

	promiseCtor := runtime.NewOrdinaryObject(funcProto)
	promiseCtor.Kind = runtime.KindFunction
	promiseCtor.Construct = func(args []runtime.Value, newTarget *runtime.Object) runtime.Completion {
		if len(args) == 0 {
			return runtime.Throw(runtime.NewTypeError("Promise executor is required"))
		}
		executor, ok := args[0].(*runtime.Object)
		if !ok || !executor.IsCallable() {
			return runtime.Throw(runtime.NewTypeError("Promise resolver is not a function"))
		}
		capability := r.NewPromiseCapability()
		resolveFn := runtime.NewOrdinaryObject(funcProto)
		resolveFn.Kind = runtime.KindFunction
		resolveFn.Call = func(_ runtime.Value, a []runtime.Value) runtime.Completion {
			capability.Resolve(firstArg(a))
			return runtime.NormalCompletion(runtime.Undefined)
		}
		rejectFn := runtime.NewOrdinaryObject(funcProto)
		rejectFn.Kind = runtime.KindFunction
		rejectFn.Call = func(_ runtime.Value, a []runtime.Value) runtime.Completion {
			capability.Reject(firstArg(a))
			return runtime.NormalCompletion(runtime.Undefined)
		}
		if c := executor.Call(runtime.Undefined, []runtime.Value{resolveFn, rejectFn}); c.IsAbrupt() {
			capability.Reject(c.Value)
		}
		return runtime.NormalCompletion(capability.Promise)
	}
	promiseCtor.RawDefineOwnProperty(runtime.NewString("length"), runtime.NewDataDescriptor(runtime.Number(1), false, false, true))
	promiseCtor.RawDefineOwnProperty(runtime.NewString("name"), runtime.NewDataDescriptor(runtime.NewString("Promise"), false, false, true))
	wireConstructorPrototype(promiseCtor, promiseProto)
	in["%Promise%"] = promiseCtor

	installMethod(promiseCtor, "resolve", 1, func(_ runtime.Value, args []runtime.Value) runtime.Completion {
		v := firstArg(args)
		if p, ok := v.(*runtime.Object); ok && p.Kind == runtime.KindPromise {
			return runtime.NormalCompletion(p)
		}
		capability := r.NewPromiseCapability()
		capability.Resolve(v)
		return runtime.NormalCompletion(capability.Promise)
	})
	installMethod(promiseCtor, "reject", 1, func(_ runtime.Value, args []runtime.Value) runtime.Completion {
		capability := r.NewPromiseCapability()
		capability.Reject(firstArg(args))
		return runtime.NormalCompletion(capability.Promise)
	})
	installMethod(promiseCtor, "all", 1, func(_ runtime.Value, args []runtime.Value) runtime.Completion {
		return r.promiseCombinator(args, combinatorAll)
	})
	installMethod(promiseCtor, "allSettled", 1, func(_ runtime.Value, args []runtime.Value) runtime.Completion {
		return r.promiseCombinator(args, combinatorAllSettled)
	})
	installMethod(promiseCtor, "race", 1, func(_ runtime.Value, args []runtime.Value) runtime.Completion {
		return r.promiseCombinator(args, combinatorRace)
	})
	installMethod(promiseCtor, "any", 1, func(_ runtime.Value, args []runtime.Value) runtime.Completion {
		return r.promiseCombinator(args, combinatorAny)
	})
}

func callableHandlerOf(args []runtime.Value, i int) func(runtime.Value) runtime.Completion {
	if i >= len(args) {
		return nil
	}
	fn, ok := args[i].(*runtime.Object)
	if !ok || !fn.IsCallable() {
		return nil
	}
	return func(v runtime.Value) runtime.Completion {
		return fn.Call(runtime.Undefined, []runtime.Value{v})
	}
}

func firstArg(args []runtime.Value) runtime.Value {
	if len(args) == 0 {
		return runtime.Undefined
	}
	return args[0]
}

func errorFromValue(v runtime.Value) *runtime.ErrorValue {
	if e, ok := v.(*runtime.ErrorValue); ok {
		return e
	}
	s, _ := runtime.ToStringValue(v)
	return runtime.NewTypeError(s.GoString())
}

type combinatorKind int

const (
	combinatorAll combinatorKind = iota
	combinatorAllSettled
	combinatorRace
	combinatorAny
)

// promiseCombinator implements Promise.all/allSettled/race/any (SPEC_FULL.md
// §4.8 supplement) over an already-materialised list of promises — the
// iterable-to-list step uses the same iteration protocol as `for-of`.
func (r *Realm) promiseCombinator(args []runtime.Value, kind combinatorKind) runtime.Completion {
	iterable := firstArg(args)
	items, c := runtime.IterableToList(iterable)
	if c.IsAbrupt() {
		return c
	}
	capability := r.NewPromiseCapability()
	n := len(items)
	if n == 0 {
		switch kind {
		case combinatorAll, combinatorAllSettled:
			capability.Resolve(runtime.CreateArrayFromList(nil))
		case combinatorAny:
			capability.Reject(runtime.NewAggregateError("all promises were rejected", nil))
		}
		return runtime.NormalCompletion(capability.Promise)
	}

	results := make([]runtime.Value, n)
	remaining := n
	errors := make([]runtime.Value, n)

	for i, item := range items {
		i := i
		itemPromise := r.coercePromise(item)
		r.PromiseThen(itemPromise,
			func(v runtime.Value) runtime.Completion {
				switch kind {
				case combinatorAll:
					results[i] = v
					remaining--
					if remaining == 0 {
						capability.Resolve(runtime.CreateArrayFromList(results))
					}
				case combinatorAllSettled:
					results[i] = settledResult(r, true, v)
					remaining--
					if remaining == 0 {
						capability.Resolve(runtime.CreateArrayFromList(results))
					}
				case combinatorRace, combinatorAny:
					capability.Resolve(v)
				}
				return runtime.NormalCompletion(runtime.Undefined)
			},
			func(v runtime.Value) runtime.Completion {
				switch kind {
				case combinatorAll:
					capability.Reject(v)
				case combinatorAllSettled:
					results[i] = settledResult(r, false, v)
					remaining--
					if remaining == 0 {
						capability.Resolve(runtime.CreateArrayFromList(results))
					}
				case combinatorRace:
					capability.Reject(v)
				case combinatorAny:
					errors[i] = v
					remaining--
					if remaining == 0 {
						capability.Reject(runtime.NewAggregateError("all promises were rejected", errors))
					}
				}
				return runtime.NormalCompletion(runtime.Undefined)
			},
		)
	}
	return runtime.NormalCompletion(capability.Promise)
}

// CoercePromise wraps v in an already-settled promise unless it is already
// one — exported so callers outside this package (the evaluator's `await`)
// can turn an arbitrary awaited value into something PromiseThen accepts.
func (r *Realm) CoercePromise(v runtime.Value) *runtime.Object { return r.coercePromise(v) }

func (r *Realm) coercePromise(v runtime.Value) *runtime.Object {
	if p, ok := v.(*runtime.Object); ok && p.Kind == runtime.KindPromise {
		return p
	}
	capability := r.NewPromiseCapability()
	capability.Resolve(v)
	return capability.Promise
}

func settledResult(r *Realm, fulfilled bool, v runtime.Value) *runtime.Object {
	o := runtime.NewOrdinaryObject(r.Intrinsics["%Object.prototype%"])
	if fulfilled {
		o.RawDefineOwnProperty(runtime.NewString("status"), runtime.NewDataDescriptor(runtime.NewString("fulfilled"), true, true, true))
		o.RawDefineOwnProperty(runtime.NewString("value"), runtime.NewDataDescriptor(v, true, true, true))
	} else {
		o.RawDefineOwnProperty(runtime.NewString("status"), runtime.NewDataDescriptor(runtime.NewString("rejected"), true, true, true))
		o.RawDefineOwnProperty(runtime.NewString("reason"), runtime.NewDataDescriptor(v, true, true, true))
	}
	return o
}
