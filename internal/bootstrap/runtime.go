package bootstrap

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/specvital/suite-harness/pkg/parser/tspool"
)

// Runtime initialises the parser grammars in the background. Waiting for it
// is the only suspension point before the harness connects to its caller.
type Runtime struct {
	init  func()
	once  sync.Once
	ready chan struct{}
	err   error
}

// NewRuntime returns a runtime that warms the bundled tree-sitter grammars.
func NewRuntime() *Runtime {
	return newRuntime(tspool.Warm)
}

func newRuntime(init func()) *Runtime {
	return &Runtime{
		init:  init,
		ready: make(chan struct{}),
	}
}

// Start begins initialisation. Later calls do nothing.
func (r *Runtime) Start() {
	r.once.Do(func() {
		go func() {
			defer close(r.ready)
			defer func() {
				if p := recover(); p != nil {
					r.err = errors.Errorf("runtime initialisation panicked: %v", p)
				}
			}()
			r.init()
		}()
	})
}

// Ready is closed once initialisation has finished.
func (r *Runtime) Ready() <-chan struct{} {
	return r.ready
}

// Wait starts the runtime if needed and blocks until it is ready or ctx is
// done.
func (r *Runtime) Wait(ctx context.Context) error {
	r.Start()
	select {
	case <-r.ready:
		return r.err
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for runtime")
	}
}
