// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/nimbus-build/kickoff/internal/config"
	"github.com/nimbus-build/kickoff/internal/issue"
	"github.com/nimbus-build/kickoff/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `kickoff config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage kickoff configuration",
		Long: `Manage kickoff configuration.

Configuration is stored in:
  - Linux: ~/.config/kickoff/config.cue
  - macOS: ~/Library/Application Support/kickoff/config.cue
  - Windows: %APPDATA%\kickoff\config.cue

Every key can be overridden with a KICKOFF_* environment variable,
for example KICKOFF_OUTPUT_ATOMIC=true or KICKOFF_RUNTIME_DIR=/opt/runtimes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfig(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath(config.LoadOptions{ConfigFilePath: types.FilesystemPath(app.cfgFile)})
			if err != nil {
				return app.fail(cmd, err, 0)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.initConfig(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.config(cmd.Context())
			if err != nil {
				return app.fail(cmd, err, issue.ConfigLoadFailedId)
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(src.Config))
			return nil
		},
	})

	return cfgCmd
}

func (a *App) showConfig(cmd *cobra.Command) error {
	src, err := a.config(cmd.Context())
	if err != nil {
		return a.fail(cmd, err, issue.ConfigLoadFailedId)
	}
	cfg := src.Config
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if src.Path != "" {
		fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), src.Path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	defaultTarget := cfg.DefaultTarget
	if defaultTarget == "" {
		defaultTarget = SubtitleStyle.Render("(host)")
	}
	runtimeDir := string(cfg.RuntimeDir)
	if runtimeDir == "" {
		runtimeDir = SubtitleStyle.Render("(next to the kickoff executable)")
	}

	fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("default_target"), SuccessStyle.Render(defaultTarget))
	fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("runtime_dir"), SuccessStyle.Render(runtimeDir))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", KeyStyle.Render("output"))
	fmt.Fprintf(out, "  mode: %s\n", SuccessStyle.Render(cfg.Output.Mode.String()))
	fmt.Fprintf(out, "  atomic: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", cfg.Output.Atomic)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", KeyStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", SuccessStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(out, "  verbose: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func (a *App) initConfig(cmd *cobra.Command) error {
	path, err := config.FilePath(config.LoadOptions{})
	if err != nil {
		return a.fail(cmd, err, 0)
	}

	if _, statErr := os.Stat(path); statErr == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", WarningStyle.Render("Config file already exists:"), path)
		return nil
	}

	path, err = config.CreateDefaultConfig()
	if err != nil {
		return a.fail(cmd, err, issue.PermissionDeniedId)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("Created"), path)
	return nil
}
