package main

import (
	"github.com/spf13/cobra"

	"github.com/specvital/suite-harness/internal/cli"
	"github.com/specvital/suite-harness/internal/harness"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags] <address>",
	Short: "Run one discovery for the caller listening on address",
	Long: `Connect to the caller listening on address, read test file paths one per
line until a line reading DONE, load every file and reply with the suite
tree as JSON. Any failure exits with status 1 without replying.

The address is always the last argument. It is a unix socket path, a
host:port, or either one prefixed with unix: or tcp:.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	address := args[len(args)-1]
	return harness.Run(cmd.Context(), address, harness.Options{
		Config: cli.Config(),
		Logger: cli.Logger(),
	})
}
