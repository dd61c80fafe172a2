// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/nimbus-build/kickoff/internal/issue"
	"github.com/nimbus-build/kickoff/pkg/platform"

	"github.com/spf13/cobra"
)

func newTargetsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List supported targets and their runtime stub names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.listTargets(cmd)
		},
	}
}

func (a *App) listTargets(cmd *cobra.Command) error {
	src, err := a.config(cmd.Context())
	if err != nil {
		return a.fail(cmd, err, issue.ConfigLoadFailedId)
	}

	// The host may be unsupported; the list is still useful then.
	host, hostErr := platform.Host()
	if hostErr != nil {
		a.logger.Debug("host is not a supported target", "error", hostErr)
	}
	defaultTarget, defErr := src.Config.Target()
	if defErr != nil {
		a.logger.Debug("no default target", "error", defErr)
	}

	targets := platform.Targets()
	width := 0
	for _, t := range targets {
		width = max(width, len(t.Triple))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Targets"))
	for _, t := range targets {
		var marks []string
		if hostErr == nil && t == host {
			marks = append(marks, "host")
		}
		if defErr == nil && t == defaultTarget {
			marks = append(marks, "default")
		}

		line := fmt.Sprintf("  %-*s  %s", width, t.Triple, KeyStyle.Render(t.RuntimeFileName()))
		if len(marks) > 0 {
			line += " " + SuccessStyle.Render("("+strings.Join(marks, ", ")+")")
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
