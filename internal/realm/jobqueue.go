package realm

import "github.com/cwbudde/goecma/internal/runtime"

// Job is a pending callback enqueued by Promise resolution or
// FinalizationRegistry cleanup (spec §5 "the job queue is FIFO per queue
// name"). Realm is captured at enqueue time so the job runs with the
// correct execution context pushed (spec §4.5 "a job resumes the context").
type Job struct {
	Realm *Realm
	Run   func() runtime.Completion
}

// JobQueue holds the two standard named queues (spec §5: "the standard
// queues are PromiseJobs and FinalizationCleanup"), each strictly FIFO.
type JobQueue struct {
	promiseJobs         []Job
	finalizationCleanup []Job
}

// NewJobQueue creates an empty job queue.
func NewJobQueue() *JobQueue { return &JobQueue{} }

// EnqueuePromiseJob appends a reaction job to the PromiseJobs queue.
func (q *JobQueue) EnqueuePromiseJob(j Job) {
	q.promiseJobs = append(q.promiseJobs, j)
	logger.Debug("enqueued promise job", "queue", "PromiseJobs", "depth", len(q.promiseJobs))
}

// EnqueueFinalizationCleanup appends a job to the FinalizationCleanup queue.
func (q *JobQueue) EnqueueFinalizationCleanup(j Job) {
	q.finalizationCleanup = append(q.finalizationCleanup, j)
	logger.Debug("enqueued finalization cleanup job", "depth", len(q.finalizationCleanup))
}

// Empty reports whether both queues are drained.
func (q *JobQueue) Empty() bool {
	return len(q.promiseJobs) == 0 && len(q.finalizationCleanup) == 0
}

// Drain runs every queued job to completion, in FIFO order within each
// queue, draining PromiseJobs before FinalizationCleanup on each pass, and
// repeating until both are empty (a job may itself enqueue more jobs; spec
// §5 "the queue drains after each top-level agent entry point"). Every
// uncaught abrupt completion from a job is logged and dropped — per spec
// §4.5, an async function's own internal try/catch around the job body is
// what should have converted it to a settled promise; a job throwing past
// that is a host-level bug, not a language-level event requiring
// propagation back to the driver.
func (q *JobQueue) Drain() {
	for !q.Empty() {
		for len(q.promiseJobs) > 0 {
			j := q.promiseJobs[0]
			q.promiseJobs = q.promiseJobs[1:]
			if c := j.Run(); c.IsAbrupt() {
				logger.Error("uncaught abrupt completion from promise job", "type", c.Type.String())
			}
		}
		for len(q.finalizationCleanup) > 0 {
			j := q.finalizationCleanup[0]
			q.finalizationCleanup = q.finalizationCleanup[1:]
			if c := j.Run(); c.IsAbrupt() {
				logger.Error("uncaught abrupt completion from finalization cleanup job", "type", c.Type.String())
			}
		}
	}
}
