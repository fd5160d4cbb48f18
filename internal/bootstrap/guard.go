package bootstrap

import (
	"fmt"
	"io"
	"runtime/debug"
)

// Guard is the last-resort handler for the harness goroutine. Deferred at
// the top of main, it turns any panic into a message on w and exit status 1.
// It never tries to recover the run.
//
//	defer bootstrap.Guard(os.Stderr, os.Exit)
func Guard(w io.Writer, exit func(int)) {
	p := recover()
	if p == nil {
		return
	}
	fmt.Fprintf(w, "fatal: %v\n%s", p, debug.Stack())
	exit(1)
}
