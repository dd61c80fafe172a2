// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/nimbus-build/kickoff/internal/config"
	"github.com/nimbus-build/kickoff/internal/issue"
	"github.com/nimbus-build/kickoff/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const logPrefix = "kickoff"

type (
	// ConfigLoader loads configuration and reports the file it came from.
	ConfigLoader func(ctx context.Context, opts config.LoadOptions) (*config.Source, error)

	// App wires CLI services and shared state. All Cobra command handlers
	// receive an App reference; tests build one with NewApp and fake
	// dependencies.
	App struct {
		loadConfig ConfigLoader
		executable func() (string, error)
		stdout     io.Writer
		stderr     io.Writer
		logger     *log.Logger

		// Global flags.
		verbose bool
		cfgFile string

		source *config.Source
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		LoadConfig ConfigLoader
		Executable func() (string, error)
		Stdout     io.Writer
		Stderr     io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.LoadConfig == nil {
		deps.LoadConfig = config.LoadSource
	}
	if deps.Executable == nil {
		deps.Executable = os.Executable
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}

	return &App{
		loadConfig: deps.LoadConfig,
		executable: deps.Executable,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		logger:     log.NewWithOptions(deps.Stderr, log.Options{Prefix: logPrefix}),
	}
}

// config loads the configuration once per App. Verbose mode from the
// config file applies when --verbose was not given.
func (a *App) config(ctx context.Context) (*config.Source, error) {
	if a.source != nil {
		return a.source, nil
	}

	src, err := a.loadConfig(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.cfgFile)})
	if err != nil {
		return nil, err
	}

	if src.Config.UI.Verbose && !a.verbose {
		a.setVerbose(true)
	}
	a.logger.Debug("configuration loaded", "path", src.Path)

	a.source = src
	return src, nil
}

func (a *App) setVerbose(v bool) {
	a.verbose = v
	if v {
		a.logger.SetLevel(log.DebugLevel)
	} else {
		a.logger.SetLevel(log.InfoLevel)
	}
}

// issueStyle maps the configured color scheme to a glamour style.
func (a *App) issueStyle() string {
	if a.source == nil {
		return string(config.ColorSchemeAuto)
	}
	return string(a.source.Config.UI.ColorScheme)
}

// fail renders err with an optional issue catalog entry and returns an
// ExitError that the top-level error handler will not print again.
func (a *App) fail(cmd *cobra.Command, err error, id issue.Id) error {
	svcErr := newServiceError(err, id, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose)+"\n")
	renderServiceError(cmd.ErrOrStderr(), svcErr, a.issueStyle())

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: types.ExitFailure, Err: svcErr}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
