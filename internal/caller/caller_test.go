package caller

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/suite-harness/internal/harness"
)

const helperEnv = "SUITE_HARNESS_CALLER_HELPER"

// TestMain lets the test binary stand in for the harness process.
func TestMain(m *testing.M) {
	if mode := os.Getenv(helperEnv); mode != "" {
		os.Exit(helper(mode))
	}
	os.Exit(m.Run())
}

func helper(mode string) int {
	address := os.Args[len(os.Args)-1]
	switch mode {
	case "serve":
		err := harness.Run(context.Background(), address, harness.Options{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return harness.ExitCode(err)
	case "crash":
		fmt.Fprintln(os.Stderr, "bootstrap exploded")
		return 1
	}
	return 2
}

func helperCommand(mode string) string {
	return shellquote.Join("env", helperEnv+"="+mode, os.Args[0])
}

func writeSpec(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSpec(t, dir, "test/a.spec.js", "describe('A', () => { it('works', () => {}); });\n")
	writeSpec(t, dir, "calc_test.go", "package calc\n\nimport \"testing\"\n\nfunc TestSum(t *testing.T) {}\n")

	res, err := Discover(context.Background(), []string{"test/a.spec.js", "calc_test.go"}, Options{
		Command: helperCommand("serve"),
		WorkDir: dir,
	})
	require.NoError(t, err)

	require.Len(t, res.Root.Suites, 1)
	assert.Equal(t, "A", res.Root.Suites[0].Title)
	assert.Equal(t, "test/a.spec.js", res.Root.Suites[0].File)
	assert.Equal(t, "A works", res.Root.Suites[0].Tests[0].FullTitle)
	require.Len(t, res.Root.Tests, 1)
	assert.Equal(t, "TestSum", res.Root.Tests[0].Title)
	assert.Contains(t, string(res.Raw), "\n    \"fullTitle\": \"\",\n")
}

func TestDiscover_LoadFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSpec(t, dir, "a.spec.js", "it('ok', () => {});\n")

	_, err := Discover(context.Background(), []string{"a.spec.js", "missing.spec.js"}, Options{
		Command: helperCommand("serve"),
		WorkDir: dir,
	})
	require.Error(t, err)

	var herr *HarnessError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, 1, herr.ExitCode)
	assert.Contains(t, herr.Stderr, "missing.spec.js")
}

func TestDiscover_ExitBeforeConnect(t *testing.T) {
	t.Parallel()

	_, err := Discover(context.Background(), nil, Options{Command: helperCommand("crash")})
	require.Error(t, err)

	var herr *HarnessError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, 1, herr.ExitCode)
	assert.Contains(t, err.Error(), "bootstrap exploded")
}

func TestDiscover_BadCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
		wantErr string
	}{
		{name: "empty", command: "  ", wantErr: "empty harness command"},
		{name: "unterminated quote", command: `harness "serve`, wantErr: "parsing harness command"},
		{name: "not found", command: "/nonexistent/suite-harness serve", wantErr: "starting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Discover(context.Background(), nil, Options{Command: tt.command})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHarnessError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "harness exited with status 1", (&HarnessError{ExitCode: 1}).Error())
	assert.Equal(t, "harness exited with status 1: load failed", (&HarnessError{ExitCode: 1, Stderr: "load failed\n"}).Error())
}
