package realm

import "github.com/cwbudde/goecma/internal/runtime"

// promiseState is the internal [[PromiseState]] slot value (spec §4.5
// "await x: create a promise capability ... enqueue a job").
type promiseState int

const (
	promisePending promiseState = iota
	promiseFulfilled
	promiseRejected
)

// reaction is one entry of [[PromiseFulfillReactions]]/[[PromiseRejectReactions]]:
// a handler (possibly absent, meaning "pass through") paired with the
// capability of the promise .then returned.
type reaction struct {
	handler    func(runtime.Value) runtime.Completion
	capability *PromiseCapability
}

type promiseData struct {
	state             promiseState
	result            runtime.Value
	fulfillReactions  []reaction
	rejectReactions   []reaction
	isHandled         bool
}

// PromiseCapability bundles a promise with its resolve/reject functions
// (spec "NewPromiseCapability"), the handle `await` and the evaluator's
// async-function machinery hold onto across a suspension.
type PromiseCapability struct {
	Promise *runtime.Object
	Resolve func(runtime.Value)
	Reject  func(runtime.Value)
}

// PromiseResult reports a promise's settled outcome, for callers outside
// this package that need to observe it synchronously after draining the job
// queue (the module linker's simplified top-level-await handling) rather
// than subscribing via PromiseThen. settled is false while still pending.
func (r *Realm) PromiseResult(p *runtime.Object) (settled bool, fulfilled bool, value runtime.Value) {
	data := getPromiseData(p)
	switch data.state {
	case promiseFulfilled:
		return true, true, data.result
	case promiseRejected:
		return true, false, data.result
	default:
		return false, false, nil
	}
}

func getPromiseData(p *runtime.Object) *promiseData {
	if v, ok := p.Slot("PromiseData"); ok {
		return v.(*promiseData)
	}
	return nil
}

// NewPromise creates an unresolved promise with %Promise.prototype% as its
// prototype.
func (r *Realm) NewPromise() *runtime.Object {
	p := runtime.NewOrdinaryObject(r.Intrinsics["%Promise.prototype%"])
	p.Kind = runtime.KindPromise
	p.SetSlot("PromiseData", &promiseData{state: promisePending})
	return p
}

// NewPromiseCapability creates a fresh promise plus its resolve/reject
// closures (spec "NewPromiseCapability"), each idempotent: only the first
// call transitions the promise out of pending.
func (r *Realm) NewPromiseCapability() *PromiseCapability {
	p := r.NewPromise()
	data := getPromiseData(p)
	resolved := false
	capability := &PromiseCapability{Promise: p}
	capability.Resolve = func(v runtime.Value) {
		if resolved {
			return
		}
		resolved = true
		r.resolvePromise(p, data, v)
	}
	capability.Reject = func(v runtime.Value) {
		if resolved {
			return
		}
		resolved = true
		r.rejectPromise(p, data, v)
	}
	return capability
}

// resolvePromise implements the thenable-chasing half of "Promise Resolve
// Thenable Job": if v is itself a thenable object, this promise adopts its
// eventual state instead of fulfilling with the thenable itself.
func (r *Realm) resolvePromise(p *runtime.Object, data *promiseData, v runtime.Value) {
	if obj, ok := v.(*runtime.Object); ok {
		thenVal, c := obj.Get_(runtime.NewString("then"), obj)
		if c.IsAbrupt() {
			r.rejectPromise(p, data, c.Value)
			return
		}
		if then, ok := thenVal.(*runtime.Object); ok && then.IsCallable() {
			r.Agent.Jobs.EnqueuePromiseJob(Job{Realm: r, Run: func() runtime.Completion {
				innerResolve := runtime.NewOrdinaryObject(r.Intrinsics["%Function.prototype%"])
				innerResolve.Kind = runtime.KindFunction
				innerResolve.Call = func(_ runtime.Value, args []runtime.Value) runtime.Completion {
					var av runtime.Value = runtime.Undefined
					if len(args) > 0 {
						av = args[0]
					}
					r.resolvePromise(p, data, av)
					return runtime.NormalCompletion(runtime.Undefined)
				}
				innerReject := runtime.NewOrdinaryObject(r.Intrinsics["%Function.prototype%"])
				innerReject.Kind = runtime.KindFunction
				innerReject.Call = func(_ runtime.Value, args []runtime.Value) runtime.Completion {
					var av runtime.Value = runtime.Undefined
					if len(args) > 0 {
						av = args[0]
					}
					r.rejectPromise(p, data, av)
					return runtime.NormalCompletion(runtime.Undefined)
				}
				return then.Call(obj, []runtime.Value{innerResolve, innerReject})
			}})
			return
		}
	}
	r.fulfillPromise(p, data, v)
}

func (r *Realm) fulfillPromise(p *runtime.Object, data *promiseData, v runtime.Value) {
	if data.state != promisePending {
		return
	}
	data.state = promiseFulfilled
	data.result = v
	reactions := data.fulfillReactions
	data.fulfillReactions, data.rejectReactions = nil, nil
	r.triggerReactions(reactions, v)
}

func (r *Realm) rejectPromise(p *runtime.Object, data *promiseData, v runtime.Value) {
	if data.state != promisePending {
		return
	}
	data.state = promiseRejected
	data.result = v
	reactions := data.rejectReactions
	data.fulfillReactions, data.rejectReactions = nil, nil
	if !data.isHandled {
		r.Host.trackRejection(p, "reject")
	}
	r.triggerReactions(reactions, v)
}

func (r *Realm) triggerReactions(reactions []reaction, v runtime.Value) {
	for _, rx := range reactions {
		rx := rx
		r.Agent.Jobs.EnqueuePromiseJob(Job{Realm: r, Run: func() runtime.Completion {
			return rx.handler(v)
		}})
	}
}

// PromiseThen implements Promise.prototype.then's reaction-registration
// half, shared by the `.then(onFulfilled, onRejected)` native method and by
// `await`'s internal subscription (spec §4.5).
func (r *Realm) PromiseThen(p *runtime.Object, onFulfilled, onRejected func(runtime.Value) runtime.Completion) *runtime.Object {
	data := getPromiseData(p)
	capability := r.NewPromiseCapability()
	if data.state == promiseRejected && !data.isHandled {
		r.Host.trackRejection(p, "handle")
	}
	data.isHandled = true
	fulfillReaction := func(v runtime.Value) runtime.Completion {
		if onFulfilled == nil {
			capability.Resolve(v)
			return runtime.Completion{}
		}
		c := onFulfilled(v)
		if c.IsAbrupt() {
			capability.Reject(c.Value)
			return runtime.Completion{}
		}
		capability.Resolve(c.Value)
		return runtime.Completion{}
	}
	rejectReaction := func(v runtime.Value) runtime.Completion {
		if onRejected == nil {
			capability.Reject(v)
			return runtime.Completion{}
		}
		c := onRejected(v)
		if c.IsAbrupt() {
			capability.Reject(c.Value)
			return runtime.Completion{}
		}
		capability.Resolve(c.Value)
		return runtime.Completion{}
	}
	switch data.state {
	case promisePending:
		data.fulfillReactions = append(data.fulfillReactions, reaction{handler: fulfillReaction, capability: capability})
		data.rejectReactions = append(data.rejectReactions, reaction{handler: rejectReaction, capability: capability})
	case promiseFulfilled:
		v := data.result
		r.Agent.Jobs.EnqueuePromiseJob(Job{Realm: r, Run: func() runtime.Completion { return fulfillReaction(v) }})
	case promiseRejected:
		v := data.result
		r.Agent.Jobs.EnqueuePromiseJob(Job{Realm: r, Run: func() runtime.Completion { return rejectReaction(v) }})
	}
	return capability.Promise
}
