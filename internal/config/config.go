// Package config holds the harness settings. Values are layered: defaults,
// then a YAML file, then SUITE_HARNESS_* environment variables, then flags.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory when no
// explicit path is given.
const FileName = ".suite-harness.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SUITE_HARNESS_"

const (
	DefaultDialTimeout = 10 * time.Second
	DefaultLoadTimeout = 5 * time.Minute
	DefaultMaxFileSize = 10 * 1024 * 1024
	DefaultLogLevel    = "warning"
)

// Config is the harness configuration.
type Config struct {
	// ModulePaths are searched for installed packages before the working
	// directory's node_modules. Defaults to NODE_PATH.
	ModulePaths []string `yaml:"module_paths"`

	// DialTimeout bounds connecting to the caller's endpoint.
	DialTimeout time.Duration `yaml:"dial_timeout"`

	// LineTimeout bounds the wait for each path line. Zero waits forever,
	// leaving the pace to the caller.
	LineTimeout time.Duration `yaml:"line_timeout"`

	// LoadTimeout bounds loading all registered files.
	LoadTimeout time.Duration `yaml:"load_timeout"`

	// Workers is the number of files parsed concurrently. Zero uses
	// GOMAXPROCS.
	Workers int `yaml:"workers"`

	// MaxFileSize is the largest loadable test file in bytes.
	MaxFileSize int64 `yaml:"max_file_size"`

	// HarnessCommand is the command line the discover command launches.
	// Empty runs this executable's serve command.
	HarnessCommand string `yaml:"harness_command"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DialTimeout: DefaultDialTimeout,
		LoadTimeout: DefaultLoadTimeout,
		MaxFileSize: DefaultMaxFileSize,
		LogLevel:    DefaultLogLevel,
	}
}

// Load builds the configuration for workdir. If path is empty the optional
// FileName in workdir is used; an explicit path must exist.
func Load(path, workdir string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(workdir, FileName)
	}

	buf, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(buf, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
	case explicit || !os.IsNotExist(err):
		return nil, errors.Wrap(err, "reading config")
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(buf []byte, cfg *Config) error {
	if len(bytes.TrimSpace(buf)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

// ApplyEnv overrides fields from SUITE_HARNESS_* variables found by lookup.
// NODE_PATH seeds ModulePaths when nothing else set them.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "MODULE_PATHS"); ok {
		c.ModulePaths = splitPaths(v)
	} else if len(c.ModulePaths) == 0 {
		if v, ok := lookup("NODE_PATH"); ok {
			c.ModulePaths = splitPaths(v)
		}
	}

	durations := map[string]*time.Duration{
		"DIAL_TIMEOUT": &c.DialTimeout,
		"LINE_TIMEOUT": &c.LineTimeout,
		"LOAD_TIMEOUT": &c.LoadTimeout,
	}
	for name, field := range durations {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%s%s", EnvPrefix, name)
		}
		*field = d
	}

	if v, ok := lookup(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%sWORKERS", EnvPrefix)
		}
		c.Workers = n
	}
	if v, ok := lookup(EnvPrefix + "MAX_FILE_SIZE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "%sMAX_FILE_SIZE", EnvPrefix)
		}
		c.MaxFileSize = n
	}
	if v, ok := lookup(EnvPrefix + "HARNESS_COMMAND"); ok {
		c.HarnessCommand = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

// Validate rejects negative limits.
func (c *Config) Validate() error {
	switch {
	case c.DialTimeout < 0:
		return errors.Errorf("dial_timeout must not be negative, got %s", c.DialTimeout)
	case c.LineTimeout < 0:
		return errors.Errorf("line_timeout must not be negative, got %s", c.LineTimeout)
	case c.LoadTimeout < 0:
		return errors.Errorf("load_timeout must not be negative, got %s", c.LoadTimeout)
	case c.Workers < 0:
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	case c.MaxFileSize < 0:
		return errors.Errorf("max_file_size must not be negative, got %d", c.MaxFileSize)
	}
	return nil
}

func splitPaths(v string) []string {
	var paths []string
	for _, p := range filepath.SplitList(v) {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
