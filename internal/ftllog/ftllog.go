// Package ftllog gives the parser, resolver, and bundle packages a shared,
// debug-gated logrus.Entry per subsystem, mirroring the teacher's
// per-component *slog.Logger field in runtime/lexer.Lexer (DEVCMD_DEBUG_LEXER
// env-gated level bump) but backed by logrus, matching the rest of the
// retrieval pack's structured-logging convention. The engine never logs at
// Info/Warn by default — only FTL_DEBUG=1 raises the shared logger to
// DebugLevel, so a library consumer that never sets it sees no output.
package ftllog

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	base *logrus.Logger
)

func root() *logrus.Logger {
	once.Do(func() {
		base = logrus.New()
		base.SetOutput(os.Stderr)
		level := logrus.WarnLevel
		if os.Getenv("FTL_DEBUG") != "" {
			level = logrus.DebugLevel
		}
		base.SetLevel(level)
	})
	return base
}

// For returns the package-level logger for a subsystem name ("parser",
// "resolver", "bundle"), pre-tagged with a "component" field.
func For(component string) *logrus.Entry {
	return root().WithField("component", component)
}
