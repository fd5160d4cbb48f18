package loader

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAlreadyLoaded is returned by a second LoadAll call.
	ErrAlreadyLoaded = errors.New("loader: files already loaded")
	// ErrFileTooLarge is returned for files above the configured size limit.
	ErrFileTooLarge = errors.New("loader: file too large")
	// ErrLoadTimeout is returned when LoadAll exceeds its timeout.
	ErrLoadTimeout = errors.New("loader: load timeout")
	// ErrNoStrategy is returned for files no registered framework can load.
	ErrNoStrategy = errors.New("loader: no test framework can load file")
	// ErrMissingGlobal is returned by New when a required global is unset.
	ErrMissingGlobal = errors.New("loader: required global is not defined")
)

// LoadError reports the file that failed a LoadAll call. One failing file
// fails the whole batch.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Cause supports errors.Cause from github.com/pkg/errors.
func (e *LoadError) Cause() error {
	return e.Err
}
