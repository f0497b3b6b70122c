package evaluator

import "github.com/cwbudde/goecma/internal/runtime"

// coroutineState tracks where a generator/async body sits in its own
// suspend/resume cycle (spec §4.5, GLOSSARY "Coroutine": "suspend ... and
// later resume ... at the point of the last suspension").
type coroutineState int

const (
	coroutineSuspendedStart coroutineState = iota
	coroutineExecuting
	coroutineSuspendedYield
	coroutineCompleted
)

// resumeKind selects which driving call woke a suspended body, mirroring
// the three ways GeneratorResume/AsyncGeneratorResume can restart one:
// a plain value, an abrupt Return, or an abrupt Throw injected at the
// suspension point.
type resumeKind int

const (
	resumeNext resumeKind = iota
	resumeReturn
	resumeThrow
)

type resumeMsg struct {
	kind  resumeKind
	value runtime.Value
}

// yieldMsg is what the body goroutine hands back at a suspension point, or
// at the point its body finally runs to completion.
type yieldMsg struct {
	done       bool
	value      runtime.Value
	completion runtime.Completion // meaningful only when done is true
}

// Coroutine drives a generator or async function body on its own
// goroutine, handing control back and forth with the caller over a pair
// of unbuffered channels. No example in the retrieval pack implements
// suspend/resume this way — table-driven state machines and explicit
// continuation structs are more common in languages without goroutines —
// but a rendezvous over two unbuffered channels is the idiomatic Go
// substitute: at most one side is ever actually executing evaluator code,
// the channel handshake just relocates "the point execution left off"
// without the evaluator itself needing to be re-entrant.
type Coroutine struct {
	resume chan resumeMsg
	yield  chan yieldMsg
	state  coroutineState
}

func newCoroutine() *Coroutine {
	return &Coroutine{
		resume: make(chan resumeMsg),
		yield:  make(chan yieldMsg),
		state:  coroutineSuspendedStart,
	}
}

// start launches body on its own goroutine. The goroutine blocks
// immediately on the first resume — body doesn't run a single statement
// until the caller's first doResume — and reports its eventual Completion
// as a final, "done" yieldMsg.
func (co *Coroutine) start(body func() runtime.Completion) {
	go func() {
		<-co.resume
		result := body()
		co.state = coroutineCompleted
		co.yield <- yieldMsg{done: true, completion: result}
	}()
}

// yieldValue suspends the running body at a yield/await point: it hands v
// to whichever doResume call is blocked waiting, then blocks itself until
// the next doResume wakes it. The returned resumeMsg tells the body which
// of next/return/throw — or await's single resumption kind — it woke up
// with.
func (co *Coroutine) yieldValue(v runtime.Value) resumeMsg {
	co.yield <- yieldMsg{done: false, value: v}
	return <-co.resume
}

// doResume drives the body forward one step: wakes it with msg and blocks
// until it either suspends again or completes. Resuming an already
// completed coroutine is a no-op that reports completion again, matching
// a generator's "once done, always done" behavior.
func (co *Coroutine) doResume(msg resumeMsg) yieldMsg {
	if co.state == coroutineCompleted {
		return yieldMsg{done: true, completion: runtime.NormalCompletion(runtime.Undefined)}
	}
	co.state = coroutineExecuting
	co.resume <- msg
	out := <-co.yield
	if !out.done {
		co.state = coroutineSuspendedYield
	}
	return out
}

// resumeToCompletion turns a resumeMsg into the Completion a suspended
// `yield`/`await` expression should observe when it wakes up: a plain
// value normally, or the injected abrupt completion if the body was woken
// via .throw()/.return().
func resumeToCompletion(msg resumeMsg) runtime.Completion {
	switch msg.kind {
	case resumeReturn:
		return runtime.ReturnCompletion(msg.value)
	case resumeThrow:
		return runtime.ThrowCompletion(msg.value)
	default:
		return runtime.NormalCompletion(msg.value)
	}
}
