// Package config loads the host-facing knobs an embedder sets at agent
// construction time — feature flags, the call-stack depth limit, and log
// level/format — from a YAML file (SPEC_FULL.md §4.B), the same "host
// embeds the engine through a small options struct" shape the teacher's
// own interpreter construction takes, generalized from Go struct literal
// to file-backed config via goccy/go-yaml.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/goecma/internal/realm"
)

// AgentOptions configures one agent+realm pair. Every field is optional;
// the zero value is "no features enabled, default call-stack depth,
// logging discarded".
type AgentOptions struct {
	// Features is a list of names from the closed feature-flag set (spec
	// §6), e.g. "top-level-await", "cleanup-some".
	Features []string `yaml:"features"`

	// MaxCallDepth bounds the execution-context stack (spec §5
	// "call-stack depth limit"); 0 uses ContextStack's built-in default.
	MaxCallDepth int `yaml:"maxCallDepth"`

	// LogLevel is one of "debug", "info", "warn", "error". Empty disables
	// logging (the package-level logger's default discard handler).
	LogLevel string `yaml:"logLevel"`

	// LogFormat is "text" or "json"; ignored when LogLevel is empty.
	LogFormat string `yaml:"logFormat"`
}

// Load reads and parses an AgentOptions YAML file.
func Load(path string) (*AgentOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var opts AgentOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &opts, nil
}

// FeatureSet builds the realm.FeatureSet these options describe.
func (o *AgentOptions) FeatureSet() (realm.FeatureSet, error) {
	return realm.NewFeatureSet(o.Features)
}

// Logger builds the *slog.Logger these options describe, writing to w
// (typically os.Stderr). An empty LogLevel yields a discarding logger,
// matching the package-level default internal/realm starts with.
func (o *AgentOptions) Logger(w io.Writer) (*slog.Logger, error) {
	if o.LogLevel == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}
	level, err := parseLevel(o.LogLevel)
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	switch o.LogFormat {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", o.LogFormat)
	}
}

func parseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}
