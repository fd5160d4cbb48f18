package main

import (
	"os"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/specvital/suite-harness/internal/caller"
	"github.com/specvital/suite-harness/internal/cli"
)

var (
	discoverCmd = &cobra.Command{
		Use:   "discover [flags] <file or glob>...",
		Short: "Discover suites in local test files",
		Long: `Expand the given files and globs, run the harness on them and print
the result. By default the harness is this executable's serve command;
harness_command in the config or --command replaces it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDiscover,
	}

	discoverJSON    bool
	discoverCommand string
	discoverExclude []string
)

func init() {
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "print the harness reply instead of a summary")
	discoverCmd.Flags().StringVar(&discoverCommand, "command", "", "harness command line, the socket address is appended")
	discoverCmd.Flags().StringSliceVar(&discoverExclude, "exclude", caller.DefaultExclude, "globs to leave out of expanded patterns")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "getting working directory")
	}

	scope := &caller.Scope{BaseDir: wd, Include: args, Exclude: discoverExclude}
	files, err := scope.Expand()
	if err != nil {
		return err
	}

	command, err := harnessCommand()
	if err != nil {
		return err
	}

	res, err := caller.Discover(cmd.Context(), files, caller.Options{
		Command: command,
		WorkDir: wd,
		Logger:  cli.Logger(),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if discoverJSON {
		_, err := out.Write(append(res.Raw, '\n'))
		return err
	}
	caller.PrintSummary(out, res.Root)
	return nil
}

func harnessCommand() (string, error) {
	if discoverCommand != "" {
		return discoverCommand, nil
	}
	if c := cli.Config().HarnessCommand; c != "" {
		return c, nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "locating harness executable")
	}
	return shellquote.Join(self, "serve"), nil
}
