package caller

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// DefaultExclude keeps installed dependencies out of expanded globs.
var DefaultExclude = []string{"**/node_modules/**", "**/vendor/**"}

// Scope selects test files below BaseDir by include and exclude globs.
// Patterns are matched against slash-separated paths relative to BaseDir.
type Scope struct {
	BaseDir string
	Include []string
	Exclude []string
}

// Contains reports whether path falls inside the scope. Relative paths are
// taken relative to BaseDir.
func (s *Scope) Contains(path string) bool {
	if s == nil {
		return false
	}

	rel, ok := s.rel(path)
	if !ok {
		return false
	}

	if len(s.Include) > 0 && !matchAny(s.Include, rel) {
		return false
	}
	return !matchAny(s.Exclude, rel)
}

func (s *Scope) rel(path string) (string, bool) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.BaseDir, path)
	}
	rel, err := filepath.Rel(filepath.Clean(s.BaseDir), filepath.Clean(path))
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if match, err := doublestar.Match(pattern, rel); err == nil && match {
			return true
		}
	}
	return false
}

// Expand resolves the include patterns to files. Each pattern's matches are
// sorted, patterns keep their order and a path matched twice is listed once.
// A pattern without glob syntax is kept as written even if the file does not
// exist, so the harness reports it.
func (s *Scope) Expand() ([]string, error) {
	seen := map[string]bool{}
	var files []string

	for _, pattern := range s.Include {
		matches, err := s.expand(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

func (s *Scope) expand(pattern string) ([]string, error) {
	pattern = filepath.ToSlash(pattern)
	if !hasMeta(pattern) {
		return []string{filepath.FromSlash(pattern)}, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid glob %q", pattern)
	}

	base, rest := doublestar.SplitPattern(pattern)
	root := filepath.FromSlash(base)
	if !filepath.IsAbs(root) {
		root = filepath.Join(s.BaseDir, root)
	}

	matches, err := doublestar.Glob(os.DirFS(root), rest, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "expanding %q", pattern)
	}
	sort.Strings(matches)

	var files []string
	for _, m := range matches {
		p := filepath.FromSlash(path.Join(base, m))
		if rel, ok := s.rel(p); ok && matchAny(s.Exclude, rel) {
			continue
		}
		files = append(files, p)
	}
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[{`)
}
