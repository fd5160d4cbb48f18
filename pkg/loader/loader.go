// Package loader turns an ordered set of registered test files into a single
// suite tree, the way a test framework's "load all files" step does.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/suite-harness/pkg/domain"
	"github.com/specvital/suite-harness/pkg/parser/strategies"
)

// Loader collects file registrations and loads them exactly once.
//
// Register and LoadAll are meant to be driven by a single goroutine in
// protocol order; the mutex only guards against misuse.
type Loader struct {
	mu      sync.Mutex
	files   []string
	loaded  bool
	globals Globals
	options Options
	stats   Stats

	// inventory holds the parsed files of a successful load.
	inventory domain.Inventory
}

// Stats summarises a completed load.
type Stats struct {
	Files    int
	Suites   int
	Tests    int
	Pending  int
	Duration time.Duration
}

type loadedFile struct {
	file     *domain.TestFile
	strategy strategies.Strategy
}

// New creates a loader. globals must carry every required binding.
func New(globals Globals, opts ...Option) (*Loader, error) {
	if err := globals.Validate(); err != nil {
		return nil, err
	}

	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}
	applyDefaults(&options)

	return &Loader{
		globals: globals,
		options: options,
	}, nil
}

// Register appends path to the files to load. Order of registration is the
// order suites appear in the loaded tree.
func (l *Loader) Register(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return ErrAlreadyLoaded
	}
	l.files = append(l.files, path)
	return nil
}

// Files returns the registered paths in registration order.
func (l *Loader) Files() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	files := make([]string, len(l.files))
	copy(files, l.files)
	return files
}

// Stats returns statistics of the completed load.
func (l *Loader) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Inventory returns the per-file parse results of a successful load in
// registration order. It is empty before LoadAll or after a failed load.
func (l *Loader) Inventory() domain.Inventory {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inventory
}

// LoadAll loads every registered file and returns the root suite. It either
// returns a complete tree or an error; a failing file is reported as a
// *LoadError and no partial tree is produced.
func (l *Loader) LoadAll(ctx context.Context) (*domain.SuiteNode, error) {
	l.mu.Lock()
	if l.loaded {
		l.mu.Unlock()
		return nil, ErrAlreadyLoaded
	}
	l.loaded = true
	files := make([]string, len(l.files))
	copy(files, l.files)
	l.mu.Unlock()

	start := time.Now()
	log := l.options.Logger.WithField("files", len(files))

	ctx, cancel := context.WithTimeout(ctx, l.options.Timeout)
	defer cancel()

	l.reportModules(files)

	loaded, err := l.loadFiles(ctx, files)
	if err != nil {
		log.WithError(err).Debug("load failed")
		return nil, err
	}

	root := assemble(loaded)

	stats := Stats{
		Files:    len(files),
		Tests:    root.CountTests(),
		Duration: time.Since(start),
	}
	root.Walk(func(n *domain.SuiteNode, depth int) bool {
		if depth > 0 {
			stats.Suites++
		}
		return true
	})
	inventory := domain.Inventory{Files: make([]domain.TestFile, 0, len(loaded))}
	for _, lf := range loaded {
		inventory.Files = append(inventory.Files, *lf.file)
	}
	stats.Pending = inventory.CountPending()

	l.mu.Lock()
	l.stats = stats
	l.inventory = inventory
	l.mu.Unlock()

	log.WithFields(logrus.Fields{
		"suites":   stats.Suites,
		"tests":    stats.Tests,
		"pending":  stats.Pending,
		"duration": stats.Duration,
	}).Info("loaded test files")

	return root, nil
}

func (l *Loader) workers(n int) int {
	workers := l.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	if workers > n {
		workers = n
	}
	return workers
}

// loadFiles parses files concurrently. Results and errors land in per-index
// slots so the outcome depends only on registration order; the reported
// error is the one of the earliest registered failing file.
func (l *Loader) loadFiles(ctx context.Context, files []string) ([]loadedFile, error) {
	results := make([]loadedFile, len(files))
	if len(files) == 0 {
		return results, nil
	}

	errs := make([]error, len(files))
	sem := semaphore.NewWeighted(int64(l.workers(len(files))))
	g, gCtx := errgroup.WithContext(ctx)

	for i, path := range files {
		if err := sem.Acquire(gCtx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			// A panicking strategy fails its file like any other load error.
			defer func() {
				if p := recover(); p != nil {
					errs[i] = errors.Errorf("panic loading file: %v\n%s", p, debug.Stack())
				}
			}()
			results[i], errs[i] = l.loadFile(gCtx, path)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &LoadError{Err: ErrLoadTimeout}
		}
		return nil, &LoadError{Err: err}
	}

	for i, err := range errs {
		if err != nil {
			return nil, &LoadError{Path: files[i], Err: err}
		}
	}
	return results, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) (loadedFile, error) {
	if err := ctx.Err(); err != nil {
		return loadedFile{}, err
	}

	source, err := l.readFile(path)
	if err != nil {
		return loadedFile{}, err
	}

	strategy := l.options.Registry.FindStrategy(path, source)
	if strategy == nil {
		return loadedFile{}, ErrNoStrategy
	}

	file, err := strategy.Parse(ctx, source, path)
	if err != nil {
		return loadedFile{}, err
	}
	file.Path = path

	l.options.Logger.WithFields(logrus.Fields{
		"file":      path,
		"framework": strategy.Name(),
		"tests":     file.CountTests(),
	}).Debug("loaded file")

	return loadedFile{file: file, strategy: strategy}, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	full := path
	if l.options.BaseDir != "" && !filepath.IsAbs(path) {
		full = filepath.Join(l.options.BaseDir, path)
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, errors.Wrap(err, "cannot find module")
	}
	if info.IsDir() {
		return nil, errors.Errorf("cannot load directory %s", full)
	}
	if info.Size() > l.options.MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "%d bytes, limit %d", info.Size(), l.options.MaxFileSize)
	}

	source, err := os.ReadFile(full)
	if err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	return source, nil
}
