package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/goecma/internal/realm"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture config: %v", err)
	}
	return path
}

func TestLoadParsesAllFields(t *testing.T) {
	path := writeConfig(t, `
features:
  - top-level-await
  - cleanup-some
maxCallDepth: 512
logLevel: debug
logFormat: json
`)

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.MaxCallDepth != 512 {
		t.Errorf("MaxCallDepth = %d, want 512", opts.MaxCallDepth)
	}
	if opts.LogLevel != "debug" || opts.LogFormat != "json" {
		t.Errorf("LogLevel/LogFormat = %q/%q, want debug/json", opts.LogLevel, opts.LogFormat)
	}
	if len(opts.Features) != 2 {
		t.Fatalf("Features = %v, want 2 entries", opts.Features)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestFeatureSetRejectsUnknownName(t *testing.T) {
	opts := &AgentOptions{Features: []string{"not-a-real-feature"}}
	if _, err := opts.FeatureSet(); err == nil {
		t.Fatalf("expected an error for an unknown feature name")
	}
}

func TestFeatureSetEnablesRequestedFlags(t *testing.T) {
	opts := &AgentOptions{Features: []string{"top-level-await"}}
	fs, err := opts.FeatureSet()
	if err != nil {
		t.Fatalf("FeatureSet: %v", err)
	}
	if !fs.Has(realm.FeatureTopLevelAwait) {
		t.Errorf("top-level-await should be enabled")
	}
	if fs.Has(realm.FeatureCleanupSome) {
		t.Errorf("cleanup-some should stay disabled")
	}
}

func TestLoggerDiscardsByDefault(t *testing.T) {
	opts := &AgentOptions{}
	var buf bytes.Buffer
	logger, err := opts.Logger(&buf)
	if err != nil {
		t.Fatalf("Logger: %v", err)
	}
	logger.Error("should not be written anywhere visible")
	if buf.Len() != 0 {
		t.Errorf("expected no output for an empty LogLevel, got %q", buf.String())
	}
}

func TestLoggerWritesAtConfiguredLevel(t *testing.T) {
	opts := &AgentOptions{LogLevel: "warn", LogFormat: "text"}
	var buf bytes.Buffer
	logger, err := opts.Logger(&buf)
	if err != nil {
		t.Fatalf("Logger: %v", err)
	}

	logger.Info("dropped below warn threshold")
	if buf.Len() != 0 {
		t.Errorf("info message should be filtered out at warn level, got %q", buf.String())
	}

	logger.Warn("visible at warn threshold")
	if buf.Len() == 0 {
		t.Errorf("warn message should have been written")
	}
}

func TestLoggerRejectsUnknownLevelAndFormat(t *testing.T) {
	if _, err := (&AgentOptions{LogLevel: "verbose"}).Logger(os.Stderr); err == nil {
		t.Errorf("expected an error for an unknown log level")
	}
	if _, err := (&AgentOptions{LogLevel: "info", LogFormat: "xml"}).Logger(os.Stderr); err == nil {
		t.Errorf("expected an error for an unknown log format")
	}
}
