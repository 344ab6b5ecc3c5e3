// Package trace is a minimal, lazily-initialized debug log, generalizing
// the teacher's debug.go (a single env-var gated writer) to tag each line
// with the component emitting it.
package trace

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var state = struct {
	sync.Once
	w   io.WriteCloser
	err error
}{}

func initLog() {
	path := os.Getenv("LINEEDIT_DEBUG")
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		state.err = err
		return
	}
	state.w = f
}

// Logf writes a tagged, timestamped debug line when LINEEDIT_DEBUG names a
// file to create. component is one of "lexer", "render", "history",
// "complete", "config" or similar; it is a no-op otherwise.
func Logf(component, format string, args ...interface{}) {
	state.Do(initLog)
	if state.w == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(state.w, "%s [%s] %s\n", time.Now().Format("15:04:05.000"), component, msg)
}

// Enabled reports whether LINEEDIT_DEBUG names a file the log was able to
// open, so callers can skip building an expensive message when tracing is
// off.
func Enabled() bool {
	state.Do(initLog)
	return state.w != nil
}

// Close releases the underlying file, if one was opened. Safe to call even
// when tracing was never enabled.
func Close() error {
	if state.w == nil {
		return nil
	}
	return state.w.Close()
}
