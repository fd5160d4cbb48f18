// Package transport is the harness side of the discovery protocol: connect
// to the caller, read one test file path per line until DONE, and write a
// single reply.
package transport

import (
	"bufio"
	"context"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Done ends the list of paths.
const Done = "DONE"

// MaxLineSize is the longest accepted path line in bytes.
const MaxLineSize = 1024 * 1024

// ErrEarlyDisconnect is returned when the caller closes the connection
// before sending Done.
var ErrEarlyDisconnect = errors.New("connection closed before " + Done)

// Registrar receives each path in arrival order.
type Registrar interface {
	Register(path string) error
}

// RegistrarFunc adapts a function to Registrar.
type RegistrarFunc func(path string) error

func (f RegistrarFunc) Register(path string) error {
	return f(path)
}

// Session is one connection to the caller.
type Session struct {
	conn        net.Conn
	scanner     *bufio.Scanner
	lineTimeout time.Duration
	log         logrus.FieldLogger
}

// Option configures a Session.
type Option func(*Session)

// WithLineTimeout bounds the wait for each line. Zero disables it.
func WithLineTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.lineTimeout = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// Dial connects to address and returns a session on the connection.
func Dial(ctx context.Context, address string, timeout time.Duration, opts ...Option) (*Session, error) {
	network, addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", address)
	}
	return NewSession(conn, opts...), nil
}

// NewSession wraps an established connection.
func NewSession(conn net.Conn, opts ...Option) *Session {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	s := &Session{
		conn:    conn,
		scanner: scanner,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	return s
}

// Receive reads lines and registers every one of them, in order and before
// reading the next, until a line equal to Done. It returns the number of
// registered paths. Trailing carriage returns are dropped, nothing else is
// trimmed, so empty lines are registered as empty paths.
func (s *Session) Receive(ctx context.Context, reg Registrar) (int, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if s.lineTimeout > 0 {
			if err := s.conn.SetReadDeadline(time.Now().Add(s.lineTimeout)); err != nil {
				return count, errors.Wrap(err, "setting read deadline")
			}
		}

		if !s.scanner.Scan() {
			return count, s.scanErr(ctx)
		}

		line := s.scanner.Text()
		if line == Done {
			s.log.WithField("files", count).Debug("received file list")
			return count, nil
		}
		if err := reg.Register(line); err != nil {
			return count, errors.Wrapf(err, "registering %q", line)
		}
		count++
		s.log.WithField("path", line).Debug("registered file")
	}
}

func (s *Session) scanErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.scanner.Err()
	switch {
	case err == nil:
		return ErrEarlyDisconnect
	case errors.Is(err, bufio.ErrTooLong):
		return errors.Wrapf(err, "path line longer than %d bytes", MaxLineSize)
	case errors.Is(err, os.ErrDeadlineExceeded):
		return errors.Wrapf(err, "no path received within %s", s.lineTimeout)
	}
	return errors.Wrap(err, "reading file list")
}

// Respond writes payload in a single write and closes the connection.
func (s *Session) Respond(payload []byte) error {
	_ = s.conn.SetWriteDeadline(time.Time{})
	if _, err := s.conn.Write(payload); err != nil {
		s.conn.Close()
		return errors.Wrap(err, "writing reply")
	}
	return s.Close()
}

// Close closes the connection without replying.
func (s *Session) Close() error {
	if err := s.conn.Close(); err != nil {
		return errors.Wrap(err, "closing connection")
	}
	return nil
}
