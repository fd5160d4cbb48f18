package loader

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/specvital/suite-harness/pkg/parser/strategies"
)

const (
	// DefaultTimeout bounds a whole LoadAll call.
	DefaultTimeout = 5 * time.Minute
	// DefaultMaxFileSize is the largest test file that will be loaded (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
	// MaxWorkers is the maximum number of concurrent file parsers.
	MaxWorkers = 1024
)

// Options configures a Loader.
type Options struct {
	// BaseDir resolves relative registered paths. Empty means the process
	// working directory. Registered paths are reported unchanged.
	BaseDir string

	// Logger receives load progress. Defaults to a discarding logger.
	Logger logrus.FieldLogger

	// MaxFileSize is the maximum file size in bytes; larger files fail the load.
	MaxFileSize int64

	// Registry is the strategy registry. If nil, uses strategies.DefaultRegistry().
	Registry *strategies.Registry

	// Resolver reports which installed framework and compiler packages
	// back the files being loaded. Optional.
	Resolver Resolver

	// Timeout is the maximum duration of LoadAll.
	// Zero or negative values use DefaultTimeout.
	Timeout time.Duration

	// Workers specifies the number of concurrent file parsers.
	// Zero or negative values use runtime.GOMAXPROCS(0).
	Workers int
}

// Option is a functional option for configuring a Loader.
type Option func(*Options)

// WithBaseDir sets the directory relative paths are resolved against.
func WithBaseDir(dir string) Option {
	return func(o *Options) {
		o.BaseDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMaxFileSize sets the maximum file size to load.
// Negative values are ignored.
func WithMaxFileSize(size int64) Option {
	return func(o *Options) {
		if size >= 0 {
			o.MaxFileSize = size
		}
	}
}

// WithRegistry sets the strategy registry to use.
func WithRegistry(registry *strategies.Registry) Option {
	return func(o *Options) {
		o.Registry = registry
	}
}

// WithResolver sets the module resolver.
func WithResolver(r Resolver) Option {
	return func(o *Options) {
		o.Resolver = r
	}
}

// WithTimeout sets the load timeout.
// Negative values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithWorkers sets the number of concurrent file parsers.
// Negative values are ignored.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

func applyDefaults(opts *Options) {
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Registry == nil {
		opts.Registry = strategies.DefaultRegistry()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
}
