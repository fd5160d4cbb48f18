// Package harness runs one discovery: prepare the host, connect to the
// caller, register the streamed test files, load them, and reply with the
// encoded suite tree.
package harness

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/specvital/suite-harness/internal/bootstrap"
	"github.com/specvital/suite-harness/internal/config"
	"github.com/specvital/suite-harness/internal/transport"
	"github.com/specvital/suite-harness/pkg/loader"
	"github.com/specvital/suite-harness/pkg/parser/strategies"
	"github.com/specvital/suite-harness/pkg/suitejson"

	_ "github.com/specvital/suite-harness/pkg/parser/strategies/all"
)

// Options configures a run. Zero values use defaults.
type Options struct {
	Config   *config.Config
	Logger   logrus.FieldLogger
	Registry *strategies.Registry
	Runtime  *bootstrap.Runtime
	// WorkDir defaults to the process working directory.
	WorkDir string
}

// Run performs a single discovery against the caller listening on address.
// On success exactly one reply has been written and the connection closed.
// On failure nothing has been written and the error is a *Fault.
func Run(ctx context.Context, address string, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	rt := opts.Runtime
	if rt == nil {
		rt = bootstrap.NewRuntime()
	}
	rt.Start()

	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	log = log.WithField("run", uuid.NewString())

	env, err := bootstrap.Prepare(cfg, opts.WorkDir)
	if err != nil {
		return fault(KindBootstrap, err)
	}
	log.WithFields(logrus.Fields{
		"workdir":     env.WorkDir,
		"searchPaths": env.SearchPaths,
	}).Debug("prepared environment")

	ld, err := loader.New(env.Globals,
		loader.WithBaseDir(env.WorkDir),
		loader.WithLogger(log),
		loader.WithMaxFileSize(cfg.MaxFileSize),
		loader.WithRegistry(opts.Registry),
		loader.WithResolver(env.Resolver()),
		loader.WithTimeout(cfg.LoadTimeout),
		loader.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return fault(KindBootstrap, err)
	}

	if err := rt.Wait(ctx); err != nil {
		return fault(KindBootstrap, err)
	}

	sess, err := transport.Dial(ctx, address, cfg.DialTimeout,
		transport.WithLineTimeout(cfg.LineTimeout),
		transport.WithLogger(log),
	)
	if err != nil {
		return fault(KindConnection, err)
	}
	log.WithField("address", address).Debug("connected")

	payload, err := discover(ctx, sess, ld)
	if err != nil {
		sess.Close()
		return err
	}

	if err := sess.Respond(payload); err != nil {
		return fault(KindConnection, err)
	}

	stats := ld.Stats()
	log.WithFields(logrus.Fields{
		"files":    stats.Files,
		"suites":   stats.Suites,
		"tests":    stats.Tests,
		"duration": stats.Duration,
	}).Info("discovery complete")
	return nil
}

func discover(ctx context.Context, sess *transport.Session, ld *loader.Loader) ([]byte, error) {
	if _, err := sess.Receive(ctx, ld); err != nil {
		return nil, fault(KindConnection, err)
	}

	root, err := ld.LoadAll(ctx)
	if err != nil {
		return nil, fault(KindLoad, err)
	}

	payload, err := suitejson.Encode(root)
	if err != nil {
		return nil, fault(KindSerialization, err)
	}
	return payload, nil
}
