//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/specvital/suite-harness/internal/bootstrap"
	"github.com/specvital/suite-harness/internal/caller"
	"github.com/specvital/suite-harness/pkg/loader"

	_ "github.com/specvital/suite-harness/pkg/parser/strategies/all"
)

// Loads the matching files in-process, without the socket round trip, and
// prints load statistics.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/scan.go <file or glob>...\n")
		os.Exit(1)
	}

	env, err := bootstrap.Prepare(nil, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap error: %v\n", err)
		os.Exit(1)
	}

	scope := &caller.Scope{BaseDir: env.WorkDir, Include: os.Args[1:], Exclude: caller.DefaultExclude}
	files, err := scope.Expand()
	if err != nil {
		fmt.Fprintf(os.Stderr, "glob error: %v\n", err)
		os.Exit(1)
	}

	l, err := loader.New(env.Globals, loader.WithBaseDir(env.WorkDir), loader.WithResolver(env.Resolver()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "loader error: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		if err := l.Register(f); err != nil {
			fmt.Fprintf(os.Stderr, "register error: %v\n", err)
			os.Exit(1)
		}
	}

	if _, err := l.LoadAll(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "load error: %v\n", err)
		os.Exit(1)
	}

	stats := l.Stats()
	inventory := l.Inventory()
	output := map[string]interface{}{
		"files":      stats.Files,
		"suites":     stats.Suites,
		"tests":      inventory.CountTests(),
		"pending":    inventory.CountPending(),
		"duration":   stats.Duration.String(),
		"frameworks": inventory.CountByFramework(),
	}
	json.NewEncoder(os.Stdout).Encode(output)
}
