package reactfx

import (
	"io"
	"log"
	"os"
)

// Logger receives diagnostic output from the engine. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// defaultLogger writes to stderr, matching the engine's debug output.
var defaultLogger Logger = log.New(os.Stderr, "", log.LstdFlags)

// DiscardLogger drops everything. Useful in tests and headless tools.
var DiscardLogger Logger = log.New(io.Discard, "", 0)

func loggerOrDefault(l Logger) Logger {
	if l == nil {
		return defaultLogger
	}
	return l
}
