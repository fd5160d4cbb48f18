package bootstrap

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/specvital/suite-harness/pkg/loader"
)

// ErrModuleNotFound is returned when no search path holds a package.
var ErrModuleNotFound = errors.New("module not found")

// Resolver looks packages up in a fixed list of directories, first match
// wins.
type Resolver struct {
	paths []string
}

func NewResolver(paths []string) *Resolver {
	return &Resolver{paths: append([]string(nil), paths...)}
}

type packageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Resolve finds <dir>/<name>/package.json in the search paths.
func (r *Resolver) Resolve(name string) (loader.Module, error) {
	for _, dir := range r.paths {
		moduleDir := filepath.Join(dir, filepath.FromSlash(name))
		manifest := filepath.Join(moduleDir, "package.json")

		buf, err := os.ReadFile(manifest)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return loader.Module{}, errors.Wrapf(err, "reading %s", manifest)
		}

		var pkg packageJSON
		if err := json.Unmarshal(buf, &pkg); err != nil {
			return loader.Module{}, errors.Wrapf(err, "parsing %s", manifest)
		}
		return loader.Module{
			Name:    name,
			Dir:     moduleDir,
			Version: pkg.Version,
		}, nil
	}
	return loader.Module{}, errors.Wrap(ErrModuleNotFound, name)
}
