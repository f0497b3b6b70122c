package realm

import "github.com/cwbudde/goecma/internal/runtime"

// HostCallbacks bundles the embedder-supplied hooks an agent invokes at
// well-defined points (spec §6 "Host callbacks (agent options)"). A nil
// field falls back to the documented default behavior described on each
// hook below, so an embedder only wires what it needs.
type HostCallbacks struct {
	// LoadImportedModule resolves a module specifier relative to referrer
	// (a *ScriptOrModule opaque to this package — the module package
	// supplies the concrete type). The callback may complete synchronously
	// (by invoking `callback` before returning) or asynchronously (by
	// invoking it later, from a job).
	LoadImportedModule func(referrer any, specifier string, hostDefined any, callback func(result runtime.Completion))

	// PromiseRejectionTracker reports a promise's reject/handle transitions
	// (spec §6). Default: no-op.
	PromiseRejectionTracker func(promise *runtime.Object, operation string)

	// HasSourceTextAvailable reports whether fn's original source text can
	// be recovered (spec §6), used by Function.prototype.toString-shaped
	// diagnostics. Default: always false (no source retained).
	HasSourceTextAvailable func(fn *runtime.Object) bool

	// EnsureCanCompileStrings gates dynamic code compilation (`eval`,
	// `Function`) between two realms (spec §6). Default: always permitted.
	EnsureCanCompileStrings func(callerRealm, calleeRealm *Realm) runtime.Completion

	// CleanupFinalizationRegistry runs the cleanup callback for a
	// FinalizationRegistry whose KeptAlive entries became collectable
	// (spec §6; optional). Nothing in this package calls it, so leaving it
	// nil has no effect.
	CleanupFinalizationRegistry func(registry *runtime.Object)

	// GetImportMetaProperties / FinalizeImportMeta populate a module's
	// `import.meta` object (spec §6). Default: no properties.
	GetImportMetaProperties func(moduleRecord any) []runtime.Value
	FinalizeImportMeta      func(importMeta *runtime.Object, moduleRecord any)
}

func (h *HostCallbacks) trackRejection(promise *runtime.Object, operation string) {
	if h != nil && h.PromiseRejectionTracker != nil {
		h.PromiseRejectionTracker(promise, operation)
	}
}

func (h *HostCallbacks) hasSourceTextAvailable(fn *runtime.Object) bool {
	if h != nil && h.HasSourceTextAvailable != nil {
		return h.HasSourceTextAvailable(fn)
	}
	return false
}

func (h *HostCallbacks) ensureCanCompileStrings(caller, callee *Realm) runtime.Completion {
	if h != nil && h.EnsureCanCompileStrings != nil {
		return h.EnsureCanCompileStrings(caller, callee)
	}
	return runtime.Completion{}
}
