// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nimbus-build/kickoff/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the kickoff command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kickoff",
		Short: "Package programs behind a self-locating launcher",
		Long: TitleStyle.Render("kickoff") + SubtitleStyle.Render(" - Package programs behind a self-locating launcher") + `

kickoff produces a single executable made of a prebuilt runtime stub
followed by a manifest that describes the program to start. When the
launcher runs, it reads its own manifest, replaces {kickoff.self.path}
and {kickoff.self.dir} with its own location, and replaces itself with
the target program.

` + SubtitleStyle.Render("Examples:") + `
  kickoff create -o ./app -- {kickoff.self.dir}/bin/app --config {kickoff.self.dir}/app.toml
  kickoff create -o ./app --manifest app.cue --target x86_64-pc-windows-gnu
  kickoff inspect ./app
  kickoff targets`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.setVerbose(app.verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default is $HOME/.config/kickoff/config.cue)")

	rootCmd.AddCommand(newCreateCommand(app))
	rootCmd.AddCommand(newInspectCommand(app))
	rootCmd.AddCommand(newTargetsCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the command tree with args and returns the process exit code.
func Run(ctx context.Context, app *App, args []string) types.ExitCode {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	)
	if err == nil {
		return types.ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitFailure
}

// handleError prints errors that were not already rendered by a command.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// Execute runs kickoff with the process arguments and exits with its status.
// This is called by main.main().
func Execute() {
	os.Exit(int(Run(context.Background(), NewApp(Dependencies{}), os.Args[1:])))
}
