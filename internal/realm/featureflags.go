package realm

// Feature names the closed set of agent feature flags (spec §6 "A closed
// set {cleanup-some, is-usv-string, ...}; each is a boolean at agent
// construction").
type Feature string

const (
	FeatureCleanupSome          Feature = "cleanup-some"
	FeatureIsUsvString          Feature = "is-usv-string"
	FeatureRegExpMatchIndices   Feature = "regexp-match-indices"
	FeatureTopLevelAwait        Feature = "top-level-await"
	FeatureArrayBufferTransfer  Feature = "array-buffer-transfer"
	FeatureResizableArrayBuffer Feature = "resizable-array-buffer"
)

// allFeatures is the closed set; FeatureSet rejects any name outside it so
// a typo in a config file fails fast rather than silently doing nothing.
var allFeatures = map[Feature]bool{
	FeatureCleanupSome:          true,
	FeatureIsUsvString:          true,
	FeatureRegExpMatchIndices:   true,
	FeatureTopLevelAwait:        true,
	FeatureArrayBufferTransfer:  true,
	FeatureResizableArrayBuffer: true,
}

// FeatureSet holds the boolean value of every feature flag for one agent.
type FeatureSet map[Feature]bool

// NewFeatureSet builds a FeatureSet with every flag false, then enables
// the named ones. It returns an error (rather than panicking) for any name
// outside the closed set, since this is commonly driven by a config file
// (config.AgentOptions, SPEC_FULL.md §4.B).
func NewFeatureSet(enabled []string) (FeatureSet, error) {
	fs := make(FeatureSet, len(allFeatures))
	for f := range allFeatures {
		fs[f] = false
	}
	for _, name := range enabled {
		f := Feature(name)
		if !allFeatures[f] {
			return nil, &UnknownFeatureError{Name: name}
		}
		fs[f] = true
	}
	return fs, nil
}

// UnknownFeatureError reports a feature flag name outside the closed set.
type UnknownFeatureError struct {
	Name string
}

func (e *UnknownFeatureError) Error() string { return "unknown feature flag: " + e.Name }

// Has reports whether feature f is enabled; agent.feature(name) in spec §6.
func (fs FeatureSet) Has(f Feature) bool { return fs[f] }
