package transport

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	paths []string
}

func (r *recorder) Register(path string) error {
	r.paths = append(r.paths, path)
	return nil
}

// pipe returns a session and the caller's end of the connection.
func pipe(t *testing.T, opts ...Option) (*Session, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return NewSession(server, opts...), client
}

func send(conn net.Conn, data string, closeAfter bool) {
	go func() {
		_, _ = io.WriteString(conn, data)
		if closeAfter {
			conn.Close()
		}
	}()
}

func TestParseAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address     string
		wantNetwork string
		wantAddr    string
		wantErr     bool
	}{
		{address: "/tmp/harness.sock", wantNetwork: "unix", wantAddr: "/tmp/harness.sock"},
		{address: "harness.sock", wantNetwork: "unix", wantAddr: "harness.sock"},
		{address: "unix:/tmp/h.sock", wantNetwork: "unix", wantAddr: "/tmp/h.sock"},
		{address: "tcp:localhost:9000", wantNetwork: "tcp", wantAddr: "localhost:9000"},
		{address: "127.0.0.1:9000", wantNetwork: "tcp", wantAddr: "127.0.0.1:9000"},
		{address: "[::1]:9000", wantNetwork: "tcp", wantAddr: "[::1]:9000"},
		{address: "dir/host:9000", wantNetwork: "unix", wantAddr: "dir/host:9000"},
		{address: "", wantErr: true},
		{address: "unix:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			t.Parallel()

			network, addr, err := ParseAddress(tt.address)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNetwork, network)
			assert.Equal(t, tt.wantAddr, addr)
		})
	}
}

func TestReceive_RegistersInOrderUntilDone(t *testing.T) {
	t.Parallel()

	s, client := pipe(t)
	send(client, "b.spec.js\r\na.spec.js\n\nc.spec.ts\nDONE\nignored.js\n", false)

	rec := &recorder{}
	n, err := s.Receive(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"b.spec.js", "a.spec.js", "", "c.spec.ts"}, rec.paths)
}

func TestReceive_OnlyExactDoneStops(t *testing.T) {
	t.Parallel()

	s, client := pipe(t)
	send(client, " DONE\ndone\nDONE \nDONE", true)

	rec := &recorder{}
	_, err := s.Receive(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, []string{" DONE", "done", "DONE "}, rec.paths)
}

func TestReceive_EmptyList(t *testing.T) {
	t.Parallel()

	s, client := pipe(t)
	send(client, "DONE\n", false)

	rec := &recorder{}
	n, err := s.Receive(context.Background(), rec)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, rec.paths)
}

func TestReceive_EarlyDisconnect(t *testing.T) {
	t.Parallel()

	s, client := pipe(t)
	send(client, "a.spec.js\nb.spec.js\n", true)

	rec := &recorder{}
	n, err := s.Receive(context.Background(), rec)
	assert.Equal(t, ErrEarlyDisconnect, err)
	assert.Equal(t, 2, n)
}

func TestReceive_RegisterError(t *testing.T) {
	t.Parallel()

	s, client := pipe(t)
	send(client, "a.spec.js\nb.spec.js\nDONE\n", false)

	fail := errors.New("loader closed")
	reg := RegistrarFunc(func(path string) error {
		if path == "b.spec.js" {
			return fail
		}
		return nil
	})

	n, err := s.Receive(context.Background(), reg)
	assert.Equal(t, 1, n)
	assert.Equal(t, fail, errors.Cause(err))
}

func TestReceive_LineTooLong(t *testing.T) {
	t.Parallel()

	s, client := pipe(t)
	send(client, strings.Repeat("x", MaxLineSize+1)+"\nDONE\n", false)

	_, err := s.Receive(context.Background(), &recorder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longer than")
}

func TestReceive_LineTimeout(t *testing.T) {
	t.Parallel()

	s, client := pipe(t, WithLineTimeout(20*time.Millisecond))
	send(client, "a.spec.js\n", false)

	rec := &recorder{}
	_, err := s.Receive(context.Background(), rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrDeadlineExceeded))
	assert.Equal(t, []string{"a.spec.js"}, rec.paths)
}

func TestReceive_ContextCancelled(t *testing.T) {
	t.Parallel()

	s, _ := pipe(t)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	_, err := s.Receive(ctx, &recorder{})
	assert.Equal(t, context.Canceled, err)
}

func TestRespond_WritesOnceAndCloses(t *testing.T) {
	t.Parallel()

	s, client := pipe(t)

	done := make(chan []byte)
	go func() {
		data, _ := io.ReadAll(client)
		done <- data
	}()

	require.NoError(t, s.Respond([]byte(`{"title": ""}`)))
	assert.Equal(t, `{"title": ""}`, string(<-done))
}

func TestDial_Unix(t *testing.T) {
	t.Parallel()

	dir, err := os.MkdirTemp("", "th")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	sock := filepath.Join(dir, "h.sock")
	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	defer ln.Close()

	reply := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			reply <- err.Error()
			return
		}
		defer conn.Close()
		_, _ = io.WriteString(conn, "x.spec.js\nDONE\n")
		data, _ := io.ReadAll(conn)
		reply <- string(data)
	}()

	s, err := Dial(context.Background(), sock, time.Second)
	require.NoError(t, err)

	rec := &recorder{}
	_, err = s.Receive(context.Background(), rec)
	require.NoError(t, err)
	require.NoError(t, s.Respond([]byte("ok")))

	assert.Equal(t, []string{"x.spec.js"}, rec.paths)
	assert.Equal(t, "ok", <-reply)
}

func TestDial_Refused(t *testing.T) {
	t.Parallel()

	_, err := Dial(context.Background(), filepath.Join(t.TempDir(), "missing.sock"), time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting to")
}
