package lumo

import (
	"log/slog"

	"github.com/lumo-app/lumo/internal/core"
)

// SetLogger replaces the logger used by the supervisor. The logger should
// already carry any attributes the caller wants; lumo adds none.
//
// If l is nil, the logger resets to slog.Default() with a "component"
// attribute, re-derived on the next use. Call SetLogger(nil) after
// slog.SetDefault() to pick up the change.
//
// SetLogger is safe to call concurrently with other lumo operations, but a
// supervisor running at the time may log a few more records to the previous
// logger. Call it before NewSupervisor for a clean switch.
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
