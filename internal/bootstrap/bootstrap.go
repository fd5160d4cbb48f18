// Package bootstrap prepares the process before any test file is loaded:
// module search paths, the host globals the loader requires, the parser
// runtime, and the fail-fast handler.
package bootstrap

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/specvital/suite-harness/internal/config"
	"github.com/specvital/suite-harness/pkg/loader"
)

const (
	// AppScheme and ResourceScheme are the placeholder scheme names bound
	// into the loader globals.
	AppScheme      = "app"
	ResourceScheme = "app-resource"
)

// Environment is the prepared host state.
type Environment struct {
	// WorkDir is the caller's working directory. Relative test paths are
	// resolved against it.
	WorkDir string
	// SearchPaths are the directories installed packages are looked up in,
	// in order.
	SearchPaths []string
	Globals     loader.Globals
}

// Prepare builds the environment for workdir. An empty workdir means the
// process working directory. The project's own node_modules directories are
// appended after the configured module paths so its installed framework and
// compiler are found.
func Prepare(cfg *config.Config, workdir string) (*Environment, error) {
	if workdir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "getting working directory")
		}
		workdir = wd
	}
	workdir, err := filepath.Abs(workdir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", workdir)
	}

	var paths []string
	if cfg != nil {
		paths = append(paths, cfg.ModulePaths...)
	}
	paths = append(paths,
		filepath.Join(workdir, "node_modules"),
		filepath.Join(workdir, "spec", "node_modules"),
	)

	env := &Environment{
		WorkDir:     workdir,
		SearchPaths: paths,
		Globals:     NewGlobals(),
	}
	if err := env.Globals.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}

// NewGlobals returns the inert placeholder bindings.
func NewGlobals() loader.Globals {
	return loader.Globals{
		AppScheme:      AppScheme,
		ResourceScheme: ResourceScheme,
		Window:         map[string]any{},
	}
}

// Resolver returns a resolver over the environment's search paths.
func (e *Environment) Resolver() *Resolver {
	return NewResolver(e.SearchPaths)
}
