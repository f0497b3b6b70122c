package realm

import "github.com/cwbudde/goecma/internal/runtime"

// Agent is the GLOSSARY's "self-contained execution environment": owns the
// execution-context stack, job queue, and KeptAlive set, and is never
// shared or mutated across goroutines (spec §9 "Global state": "Construct
// once per isolate; never mutate across agents").
type Agent struct {
	Contexts *ContextStack
	Jobs     *JobQueue
	Features FeatureSet
	Host     *HostCallbacks

	// KeptAlive backs FinalizationRegistry/WeakRef bookkeeping
	// (SPEC_FULL.md §4.8, spec §5 "Shared-resource policy" names
	// KeptAlive without defining the populating operation): a set of
	// objects the agent must not let a collector reclaim yet, cleared at
	// each job-queue drain.
	KeptAlive map[*runtime.Object]bool
}

// NewAgent creates an agent with the given feature set, host callbacks, and
// execution-context depth limit (0 uses ContextStack's default).
func NewAgent(features FeatureSet, host *HostCallbacks, maxDepth int) *Agent {
	return &Agent{
		Contexts:  NewContextStack(maxDepth),
		Jobs:      NewJobQueue(),
		Features:  features,
		Host:      host,
		KeptAlive: make(map[*runtime.Object]bool),
	}
}

// Feature reports whether f is enabled for this agent (spec §6
// "agent.feature(name) is queried at decision points").
func (a *Agent) Feature(f Feature) bool { return a.Features.Has(f) }

// RunningContext returns the currently executing context, or nil if none.
func (a *Agent) RunningContext() *ExecutionContext { return a.Contexts.Top() }

// KeepAlive marks o as not yet collectable (WeakRef/FinalizationRegistry
// target retention).
func (a *Agent) KeepAlive(o *runtime.Object) { a.KeptAlive[o] = true }

// ReleaseKeptAlive drops o from the retained set, typically once its
// FinalizationRegistry cleanup callback has run.
func (a *Agent) ReleaseKeptAlive(o *runtime.Object) { delete(a.KeptAlive, o) }

// DrainJobs drains the job queue (spec §5: "the queue drains after each
// top-level agent entry point"), logging the phase transition.
func (a *Agent) DrainJobs() {
	logger.Debug("draining job queue")
	a.Jobs.Drain()
	clear(a.KeptAlive)
}
