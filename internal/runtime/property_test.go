package runtime

import "testing"

func TestDescriptorClassification(t *testing.T) {
	data := NewDataDescriptor(Number(1), true, true, true)
	if !data.IsDataDescriptor() || data.IsAccessorDescriptor() || data.IsGenericDescriptor() {
		t.Errorf("NewDataDescriptor misclassified: %+v", data)
	}

	accessor := NewAccessorDescriptor(Undefined, Undefined, true, true)
	if !accessor.IsAccessorDescriptor() || accessor.IsDataDescriptor() || accessor.IsGenericDescriptor() {
		t.Errorf("NewAccessorDescriptor misclassified: %+v", accessor)
	}

	generic := &PropertyDescriptor{HasEnumerable: true, Enumerable: true}
	if !generic.IsGenericDescriptor() || generic.IsDataDescriptor() || generic.IsAccessorDescriptor() {
		t.Errorf("bare enumerable-only descriptor misclassified: %+v", generic)
	}
}

func TestValidateAndApplyPropertyDescriptorCreateOnExtensibleObject(t *testing.T) {
	desc := NewDataDescriptor(Number(1), true, true, true)
	if ok := ValidateAndApplyPropertyDescriptor(nil, true, desc, nil); !ok {
		t.Errorf("expected create to succeed on an extensible object")
	}
	if ok := ValidateAndApplyPropertyDescriptor(nil, false, desc, nil); ok {
		t.Errorf("expected create to fail on a non-extensible object")
	}
}

func TestValidateAndApplyPropertyDescriptorRejectsRedefiningNonConfigurable(t *testing.T) {
	current := NewDataDescriptor(Number(1), false, false, false)

	// Flipping configurable to true on a non-configurable property is rejected.
	flip := &PropertyDescriptor{HasConfigurable: true, Configurable: true}
	if ok := ValidateAndApplyPropertyDescriptor(nil, true, flip, current); ok {
		t.Errorf("expected flipping configurable=false->true to be rejected")
	}

	// Changing the value of a non-writable, non-configurable data property is rejected.
	changeValue := NewDataDescriptor(Number(2), false, false, false)
	if ok := ValidateAndApplyPropertyDescriptor(nil, true, changeValue, current); ok {
		t.Errorf("expected changing value of a sealed data property to be rejected")
	}

	// A no-op redefinition (identical value) is accepted.
	same := NewDataDescriptor(Number(1), false, false, false)
	if ok := ValidateAndApplyPropertyDescriptor(nil, true, same, current); !ok {
		t.Errorf("expected a no-op redefinition to be accepted")
	}
}

func TestValidateAndApplyPropertyDescriptorMergesIntoApply(t *testing.T) {
	current := NewDataDescriptor(Number(1), true, true, true)
	var applied *PropertyDescriptor
	desc := &PropertyDescriptor{HasValue: true, Value: Number(99)}

	if ok := ValidateAndApplyPropertyDescriptor(func(d *PropertyDescriptor) { applied = d }, true, desc, current); !ok {
		t.Fatalf("expected merge to succeed")
	}
	if applied == nil {
		t.Fatalf("apply was never called")
	}
	if applied.Value != Number(99) {
		t.Errorf("merged Value = %v, want 99", applied.Value)
	}
	if !applied.Writable || !applied.Enumerable || !applied.Configurable {
		t.Errorf("merge should have carried forward the unspecified fields from current: %+v", applied)
	}
}

func TestEmptyDescriptorIsAlwaysANoOp(t *testing.T) {
	current := NewDataDescriptor(Number(1), false, false, false)
	empty := &PropertyDescriptor{}
	if ok := ValidateAndApplyPropertyDescriptor(nil, true, empty, current); !ok {
		t.Errorf("an empty descriptor must always be accepted as a no-op")
	}
}
