package realm

import "testing"

func TestNewFeatureSetDefaultsEverythingOff(t *testing.T) {
	fs, err := NewFeatureSet(nil)
	if err != nil {
		t.Fatalf("NewFeatureSet(nil): %v", err)
	}
	for f := range allFeatures {
		if fs.Has(f) {
			t.Errorf("feature %q should default to disabled", f)
		}
	}
}

func TestNewFeatureSetEnablesNamedFlags(t *testing.T) {
	fs, err := NewFeatureSet([]string{"top-level-await", "cleanup-some"})
	if err != nil {
		t.Fatalf("NewFeatureSet: %v", err)
	}
	if !fs.Has(FeatureTopLevelAwait) || !fs.Has(FeatureCleanupSome) {
		t.Errorf("requested features should be enabled: %v", fs)
	}
	if fs.Has(FeatureIsUsvString) {
		t.Errorf("unrequested feature should stay disabled")
	}
}

func TestNewFeatureSetRejectsUnknownName(t *testing.T) {
	_, err := NewFeatureSet([]string{"bogus-flag"})
	if err == nil {
		t.Fatalf("expected an error for an unknown flag name")
	}
	var unknown *UnknownFeatureError
	if _, ok := err.(*UnknownFeatureError); !ok {
		t.Errorf("expected *UnknownFeatureError, got %T", err)
	} else {
		unknown = err.(*UnknownFeatureError)
		if unknown.Name != "bogus-flag" {
			t.Errorf("Name = %q, want bogus-flag", unknown.Name)
		}
	}
}
