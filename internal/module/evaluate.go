package module

import "github.com/cwbudde/goecma/internal/runtime"

// Evaluate performs InnerModuleEvaluation (spec §4.7): a second Tarjan walk
// over the already-linked graph that executes each module exactly once, in
// dependency order, stamping every member of a strongly connected component
// "evaluated" together once the whole component's bodies have run. A
// module that suspends on a top-level `await` is driven to completion here
// by draining the job queue until its own promise settles before its
// dependents run — a deliberate simplification of the specification's
// PendingAsyncDependencies/AsyncEvaluation bookkeeping (which lets
// independent async subgraphs interleave): this module system never starts
// evaluating a dependent until each of its dependencies has fully settled,
// so observable behavior matches for every graph without genuinely
// concurrent async dependencies.
func Evaluate(entry *CyclicModuleRecord) runtime.Completion {
	if entry.Phase == Evaluated {
		if entry.EvaluationError.IsAbrupt() {
			return entry.EvaluationError
		}
		return runtime.Completion{}
	}
	var stack []*CyclicModuleRecord
	index := 0
	var visit func(rec *CyclicModuleRecord) runtime.Completion
	visit = func(rec *CyclicModuleRecord) runtime.Completion {
		if rec.Phase == Evaluated {
			return rec.EvaluationError
		}
		if rec.Phase == Evaluating {
			return runtime.Completion{}
		}
		rec.Phase = Evaluating
		rec.DFSIndex = index
		rec.DFSAncestorIndex = index
		index++
		stack = append(stack, rec)

		for _, dep := range rec.requestedRecords {
			if c := visit(dep); c.IsAbrupt() {
				return c
			}
			if dep.Phase == Evaluating && dep.DFSAncestorIndex < rec.DFSAncestorIndex {
				rec.DFSAncestorIndex = dep.DFSAncestorIndex
			}
		}

		execErr := rec.executeAndSettle()

		if rec.DFSAncestorIndex == rec.DFSIndex {
			for {
				n := len(stack) - 1
				member := stack[n]
				stack = stack[:n]
				member.Phase = Evaluated
				member.EvaluationError = execErr
				if member == rec {
					break
				}
			}
		}
		return execErr
	}
	return visit(entry)
}

// executeAndSettle runs rec.Execute once and, if it returns a promise still
// pending (a suspended top-level await), drains the realm's job queue until
// it settles — there is nothing else for this single-threaded agent to do
// while a module's own top-level evaluation is in flight.
func (rec *CyclicModuleRecord) executeAndSettle() runtime.Completion {
	if rec.Execute == nil {
		return runtime.Completion{}
	}
	promise := rec.Execute(rec)
	if promise == nil {
		return runtime.Completion{}
	}
	settled, fulfilled, value := rec.Realm.PromiseResult(promise)
	for !settled {
		if rec.Realm.Agent.Jobs.Empty() {
			break
		}
		rec.Realm.Agent.DrainJobs()
		settled, fulfilled, value = rec.Realm.PromiseResult(promise)
	}
	if !settled {
		return runtime.Completion{}
	}
	if !fulfilled {
		return runtime.Throw(errorFromPromiseReason(value))
	}
	return runtime.Completion{}
}

func errorFromPromiseReason(v runtime.Value) *runtime.ErrorValue {
	if e, ok := v.(*runtime.ErrorValue); ok {
		return e
	}
	s, _ := runtime.ToStringValue(v)
	return runtime.NewTypeError("%s", s.GoString())
}
