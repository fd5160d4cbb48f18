package loader

import (
	"github.com/pkg/errors"
)

// Globals are the host bindings a loader expects to exist before it starts.
// They are inert: nothing reads them for logic, but a loader refuses to start
// without them, the way a framework that touches them during start-up would
// fail with a reference error.
type Globals struct {
	// AppScheme and ResourceScheme name the host's custom URL schemes.
	AppScheme      string
	ResourceScheme string
	// Window is the placeholder for the host window object. It must be
	// non-nil; an empty map is enough.
	Window map[string]any
}

// Validate reports the first missing binding.
func (g Globals) Validate() error {
	switch {
	case g.AppScheme == "":
		return errors.Wrap(ErrMissingGlobal, "AppScheme")
	case g.ResourceScheme == "":
		return errors.Wrap(ErrMissingGlobal, "ResourceScheme")
	case g.Window == nil:
		return errors.Wrap(ErrMissingGlobal, "Window")
	}
	return nil
}

// Module is an installed package found on the host's module search path.
type Module struct {
	Name    string
	Dir     string
	Version string
}

// Resolver finds installed packages by name.
type Resolver interface {
	Resolve(name string) (Module, error)
}
