package realm

import (
	"testing"

	"github.com/cwbudde/goecma/internal/runtime"
)

func newTestRealmForBuffers(t *testing.T) *Realm {
	t.Helper()
	features, err := NewFeatureSet(nil)
	if err != nil {
		t.Fatalf("NewFeatureSet: %v", err)
	}
	return NewRealm(NewAgent(features, &HostCallbacks{}, 0))
}

func construct(t *testing.T, ctor *runtime.Object, args ...runtime.Value) *runtime.Object {
	t.Helper()
	c := ctor.Construct(args, ctor)
	if c.IsAbrupt() {
		t.Fatalf("construct failed: %+v", c)
	}
	o, ok := c.Value.(*runtime.Object)
	if !ok {
		t.Fatalf("construct did not return an object: %T", c.Value)
	}
	return o
}

func call(t *testing.T, o *runtime.Object, method string, args ...runtime.Value) runtime.Value {
	t.Helper()
	fnVal, c := o.Get_(runtime.NewString(method), o)
	if c.IsAbrupt() {
		t.Fatalf("Get(%q) failed: %+v", method, c)
	}
	fn, ok := fnVal.(*runtime.Object)
	if !ok || !fn.IsCallable() {
		t.Fatalf("%q is not callable: %T", method, fnVal)
	}
	rc := fn.Call(o, args)
	if rc.IsAbrupt() {
		t.Fatalf("%q call failed: %+v", method, rc)
	}
	return rc.Value
}

// TestDataViewRoundTripsBytes exercises the DataView read/write invariant
// through the language-level constructor and methods: writing a value at a
// given offset/endianness and reading it back with the same parameters
// must reproduce the original value exactly.
func TestDataViewRoundTripsBytes(t *testing.T) {
	r := newTestRealmForBuffers(t)
	arrayBufferCtor := r.Intrinsics["%ArrayBuffer%"]
	dataViewCtor := r.Intrinsics["%DataView%"]

	buf := construct(t, arrayBufferCtor, runtime.Number(16))
	view := construct(t, dataViewCtor, buf)

	cases := []struct {
		name         string
		setMethod    string
		getMethod    string
		offset       int
		value        runtime.Value
		littleEndian bool
	}{
		{"Int8", "setInt8", "getInt8", 0, runtime.Number(-42), false},
		{"Uint16 little endian", "setUint16", "getUint16", 2, runtime.Number(0xBEEF), true},
		{"Int32 big endian", "setInt32", "getInt32", 4, runtime.Number(-123456789), false},
		{"Float64", "setFloat64", "getFloat64", 8, runtime.Number(3.25), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			call(t, view, tc.setMethod, runtime.Number(tc.offset), tc.value, runtime.Boolean(tc.littleEndian))
			got := call(t, view, tc.getMethod, runtime.Number(tc.offset), runtime.Boolean(tc.littleEndian))
			n, ok := got.(runtime.Number)
			if !ok {
				t.Fatalf("%s: expected a Number result, got %T", tc.name, got)
			}
			if float64(n) != float64(tc.value.(runtime.Number)) {
				t.Errorf("%s round-trip = %v, want %v", tc.name, n, tc.value)
			}
		})
	}
}

func TestDataViewByteLengthAndBufferAccessors(t *testing.T) {
	r := newTestRealmForBuffers(t)
	buf := construct(t, r.Intrinsics["%ArrayBuffer%"], runtime.Number(8))
	view := construct(t, r.Intrinsics["%DataView%"], buf, runtime.Number(2), runtime.Number(4))

	lengthVal, c := view.Get_(runtime.NewString("byteLength"), view)
	if c.IsAbrupt() {
		t.Fatalf("byteLength getter failed: %+v", c)
	}
	if n, ok := lengthVal.(runtime.Number); !ok || n != 4 {
		t.Errorf("byteLength = %v, want 4", lengthVal)
	}

	bufferVal, c := view.Get_(runtime.NewString("buffer"), view)
	if c.IsAbrupt() {
		t.Fatalf("buffer getter failed: %+v", c)
	}
	if bufferVal != runtime.Value(buf) {
		t.Errorf("buffer accessor did not return the backing ArrayBuffer")
	}
}

func TestInt8ArrayViewsSharedBuffer(t *testing.T) {
	r := newTestRealmForBuffers(t)
	int8ArrayCtor := r.Intrinsics["%Int8Array%"]

	arr := construct(t, int8ArrayCtor, runtime.Number(4))
	lengthVal, c := arr.Get_(runtime.NewString("length"), arr)
	if c.IsAbrupt() || lengthVal != runtime.Value(runtime.Number(4)) {
		t.Fatalf("length = %v, %+v, want 4", lengthVal, c)
	}

	set, c := arr.Set_(runtime.NewString("1"), runtime.Number(7), arr)
	if c.IsAbrupt() || !set {
		t.Fatalf("element write failed: %v %+v", set, c)
	}
	got, c := arr.Get_(runtime.NewString("1"), arr)
	if c.IsAbrupt() {
		t.Fatalf("element read failed: %+v", c)
	}
	if n, ok := got.(runtime.Number); !ok || n != 7 {
		t.Errorf("arr[1] = %v, want 7", got)
	}
}

func TestProxyGetTrapIsReachable(t *testing.T) {
	r := newTestRealmForBuffers(t)
	proxyCtor := r.Intrinsics["%Proxy%"]

	target := runtime.NewOrdinaryObject(r.Intrinsics["%Object.prototype%"])
	target.RawDefineOwnProperty(runtime.NewString("x"), runtime.NewDataDescriptor(runtime.Number(1), true, true, true))

	handler := runtime.NewOrdinaryObject(r.Intrinsics["%Object.prototype%"])
	trapCalled := false
	getTrap := runtime.NewOrdinaryObject(r.Intrinsics["%Function.prototype%"])
	getTrap.Kind = runtime.KindFunction
	getTrap.Call = func(_ runtime.Value, args []runtime.Value) runtime.Completion {
		trapCalled = true
		trapTarget, _ := args[0].(*runtime.Object)
		return trapTarget.Get_(args[1].(runtime.PropertyKey), trapTarget)
	}
	handler.RawDefineOwnProperty(runtime.NewString("get"), runtime.NewDataDescriptor(getTrap, true, true, true))

	p := construct(t, proxyCtor, target, handler)
	v, c := p.Get_(runtime.NewString("x"), p)
	if c.IsAbrupt() {
		t.Fatalf("proxy get failed: %+v", c)
	}
	if !trapCalled {
		t.Errorf("get trap was never invoked")
	}
	if n, ok := v.(runtime.Number); !ok || n != 1 {
		t.Errorf("proxy.x = %v, want 1", v)
	}
}

func TestProxyRevocableRevokesAccess(t *testing.T) {
	r := newTestRealmForBuffers(t)
	proxyCtor := r.Intrinsics["%Proxy%"]

	target := runtime.NewOrdinaryObject(r.Intrinsics["%Object.prototype%"])
	handler := runtime.NewOrdinaryObject(r.Intrinsics["%Object.prototype%"])

	revocableVal, c := proxyCtor.Get_(runtime.NewString("revocable"), proxyCtor)
	if c.IsAbrupt() {
		t.Fatalf("Proxy.revocable lookup failed: %+v", c)
	}
	revocable := revocableVal.(*runtime.Object)
	rc := revocable.Call(runtime.Undefined, []runtime.Value{target, handler})
	if rc.IsAbrupt() {
		t.Fatalf("Proxy.revocable call failed: %+v", rc)
	}
	result := rc.Value.(*runtime.Object)

	proxyVal, _ := result.Get_(runtime.NewString("proxy"), result)
	proxy := proxyVal.(*runtime.Object)
	revokeVal, _ := result.Get_(runtime.NewString("revoke"), result)
	revoke := revokeVal.(*runtime.Object)

	if revoke.Call(runtime.Undefined, nil).IsAbrupt() {
		t.Fatalf("revoke() call itself should not throw")
	}

	_, c = proxy.Get_(runtime.NewString("anything"), proxy)
	if !c.IsAbrupt() {
		t.Errorf("expected a revoked proxy access to throw")
	}
}
