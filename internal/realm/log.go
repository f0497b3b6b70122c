package realm

import (
	"io"
	"log/slog"
)

// logger is the engine's only observability surface (SPEC_FULL.md §4.A):
// job queue draining, promise rejection tracking, module link/evaluate
// phase transitions, and uncaught-throw reporting, wired the way
// joshuapare-hivekit/cmd/hiveexplorer/logger and MacroPower-x/log wrap
// log/slog — a package-level *slog.Logger defaulting to a discarding
// handler until SetLogger installs a real one.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger installs l as the package-level diagnostics logger; a host
// embedding this package's Agent calls this once at startup.
func SetLogger(l *slog.Logger) { logger = l }

// Logger returns the currently installed diagnostics logger.
func Logger() *slog.Logger { return logger }
