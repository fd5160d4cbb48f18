// Command suite-harness discovers the suites and tests declared in a set of
// test files without running them.
//
// The serve command is the harness itself: it connects to the address given
// as its last argument, reads test file paths until DONE and replies with the
// suite tree as JSON. The discover command plays the caller for local use.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/specvital/suite-harness/internal/bootstrap"
	"github.com/specvital/suite-harness/internal/cli"
)

var root = &cobra.Command{
	Use:   "suite-harness",
	Short: "Headless test suite discovery",
}

func main() {
	defer bootstrap.Guard(os.Stderr, os.Exit)

	root.AddCommand(serveCmd, discoverCmd)
	cli.Execute(root)
}
