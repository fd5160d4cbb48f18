package harness

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the phase a run failed in.
type Kind string

const (
	KindBootstrap     Kind = "bootstrap"
	KindConnection    Kind = "connection"
	KindLoad          Kind = "load"
	KindSerialization Kind = "serialization"
)

// Fault is a failed run. Every fault ends the process with status 1; the
// kind only decides how the error is reported.
type Fault struct {
	Kind Kind
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s failed: %v", f.Kind, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func (f *Fault) Cause() error {
	return f.Err
}

func fault(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Fault{Kind: kind, Err: err}
}

// KindOf returns the kind of the fault in err's chain, or "" if there is
// none.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// ExitCode maps the result of Run to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
