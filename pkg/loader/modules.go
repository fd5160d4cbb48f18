package loader

import (
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

// hostModules maps file extensions to the packages a JS host would need
// installed to load them: the test framework, plus the compiler for
// TypeScript sources. Go files need nothing from the module path.
var hostModules = map[string][]string{
	".cjs": {"mocha"},
	".js":  {"mocha"},
	".jsx": {"mocha"},
	".mjs": {"mocha"},
	".cts": {"mocha", "typescript"},
	".mts": {"mocha", "typescript"},
	".ts":  {"mocha", "typescript"},
	".tsx": {"mocha", "typescript"},
}

// requiredModules returns the sorted set of packages needed by files.
func requiredModules(files []string) []string {
	seen := map[string]bool{}
	for _, f := range files {
		for _, m := range hostModules[filepath.Ext(f)] {
			seen[m] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// reportModules logs which installed copies of the framework and compiler
// the target project provides. Files are parsed with the bundled grammars
// either way, so a missing package is only worth a warning.
func (l *Loader) reportModules(files []string) {
	if l.options.Resolver == nil {
		return
	}
	for _, name := range requiredModules(files) {
		mod, err := l.options.Resolver.Resolve(name)
		if err != nil {
			l.options.Logger.WithField("module", name).WithError(err).
				Warn("module not installed in target project, using bundled grammar")
			continue
		}
		l.options.Logger.WithFields(logrus.Fields{
			"module":  mod.Name,
			"version": mod.Version,
			"dir":     mod.Dir,
		}).Debug("resolved module")
	}
}
