// Package caller drives the harness from the other side of the protocol:
// it listens on a private socket, launches the harness process with the
// socket address as the final argument, streams the test files and decodes
// the reply.
package caller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/specvital/suite-harness/internal/transport"
	"github.com/specvital/suite-harness/pkg/domain"
	"github.com/specvital/suite-harness/pkg/suitejson"
)

// Options configures Discover.
type Options struct {
	// Command is the harness command line, shell quoted. The socket address
	// is appended as the last argument.
	Command string
	// WorkDir is the harness working directory. Empty inherits ours.
	WorkDir string
	Logger  logrus.FieldLogger
}

// Result is a decoded reply.
type Result struct {
	Root *domain.SuiteNode
	// Raw is the reply exactly as written by the harness.
	Raw []byte
}

// HarnessError reports a harness run that exited unsuccessfully.
type HarnessError struct {
	ExitCode int
	Stderr   string
}

func (e *HarnessError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("harness exited with status %d", e.ExitCode)
	}
	return fmt.Sprintf("harness exited with status %d: %s", e.ExitCode, msg)
}

// Discover runs the harness once for paths.
func Discover(ctx context.Context, paths []string, opts Options) (*Result, error) {
	args, err := shellquote.Split(opts.Command)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing harness command %q", opts.Command)
	}
	if len(args) == 0 {
		return nil, errors.New("empty harness command")
	}

	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	dir, err := os.MkdirTemp("", "suite-harness-")
	if err != nil {
		return nil, errors.Wrap(err, "creating socket directory")
	}
	defer os.RemoveAll(dir)

	address := filepath.Join(dir, uuid.NewString()+".sock")
	ln, err := net.Listen("unix", address)
	if err != nil {
		return nil, errors.Wrapf(err, "listening on %s", address)
	}
	defer ln.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, args[0], append(args[1:], address)...)
	cmd.Dir = opts.WorkDir
	cmd.Stderr = &stderr

	log.WithFields(logrus.Fields{
		"command": shellquote.Join(cmd.Args...),
		"files":   len(paths),
	}).Debug("starting harness")

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting %s", args[0])
	}
	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	conn, err := accept(ctx, ln, exited)
	if err != nil {
		cancel()
		waitErr := <-exited
		if ctx.Err() == nil && waitErr != nil {
			return nil, exitError(waitErr, &stderr)
		}
		return nil, err
	}

	reply, exchangeErr := exchange(conn, paths)
	waitErr := <-exited
	if waitErr != nil {
		return nil, exitError(waitErr, &stderr)
	}
	if exchangeErr != nil {
		return nil, exchangeErr
	}

	if errs := suitejson.Validate(reply); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "harness reply")
	}
	root, err := suitejson.Decode(reply)
	if err != nil {
		return nil, err
	}
	return &Result{Root: root, Raw: reply}, nil
}

// accept waits for the harness to connect, giving up if it exits first.
func accept(ctx context.Context, ln net.Listener, exited chan error) (net.Conn, error) {
	type accepted struct {
		conn net.Conn
		err  error
	}
	ch := make(chan accepted, 1)
	go func() {
		conn, err := ln.Accept()
		ch <- accepted{conn, err}
	}()

	select {
	case a := <-ch:
		if a.err != nil {
			return nil, errors.Wrap(a.err, "accepting harness connection")
		}
		return a.conn, nil
	case err := <-exited:
		exited <- err
		ln.Close()
		if err == nil {
			return nil, errors.New("harness exited without connecting")
		}
		return nil, err
	case <-ctx.Done():
		ln.Close()
		return nil, ctx.Err()
	}
}

// exchange sends the file list and reads the reply until the harness
// closes the connection.
func exchange(conn net.Conn, paths []string) ([]byte, error) {
	defer conn.Close()

	var b strings.Builder
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	b.WriteString(transport.Done)
	b.WriteByte('\n')

	if _, err := io.WriteString(conn, b.String()); err != nil {
		return nil, errors.Wrap(err, "sending file list")
	}
	reply, err := io.ReadAll(conn)
	if err != nil {
		return nil, errors.Wrap(err, "reading reply")
	}
	return reply, nil
}

func exitError(err error, stderr *bytes.Buffer) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &HarnessError{ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
	}
	return errors.Wrap(err, "waiting for harness")
}
