// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"slices"
	"strings"

	"github.com/nimbus-build/kickoff/internal/issue"
	"github.com/nimbus-build/kickoff/pkg/layout"

	"github.com/spf13/cobra"
)

type (
	// inspectReport is the --json output of `kickoff inspect`.
	inspectReport struct {
		Path     string            `json:"path"`
		Size     int64             `json:"size"`
		Runtime  sectionReport     `json:"runtime"`
		Section  sectionReport     `json:"manifest_section"`
		Argv     []string          `json:"argv"`
		Env      map[string]string `json:"env"`
		Trailing int               `json:"trailer_size"`
	}

	sectionReport struct {
		Offset uint64 `json:"offset"`
		Length uint64 `json:"length"`
	}
)

func newInspectCommand(app *App) *cobra.Command {
	var asJSON bool

	inspectCmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the layout and manifest of a launcher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.inspect(cmd, args[0], asJSON)
		},
	}
	inspectCmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return inspectCmd
}

func (a *App) inspect(cmd *cobra.Command, path string, asJSON bool) error {
	img, err := layout.ReadFile(path)
	if err == nil {
		err = img.Trailer.Verify(img.Size)
	}
	if err != nil {
		id := issue.NotPackagedId
		switch {
		case errors.Is(err, fs.ErrNotExist):
			id = issue.FileNotFoundId
		case errors.Is(err, fs.ErrPermission):
			id = issue.PermissionDeniedId
		case errors.Is(err, layout.ErrInvalidManifestData):
			id = issue.ManifestInvalidId
		}
		return a.fail(cmd, issue.NewErrorContext().
			WithOperation("inspect launcher").
			WithResource(path).
			Wrap(err).
			BuildError(), id)
	}

	a.logger.Debug("read launcher", "path", path, "trailer", img.Trailer.Offset())

	report := inspectReport{
		Path:     path,
		Size:     img.Size,
		Runtime:  sectionReport{Offset: img.Trailer.Runtime.Pos, Length: img.Trailer.Runtime.Len},
		Section:  sectionReport{Offset: img.Trailer.Manifest.Pos, Length: img.Trailer.Manifest.Len},
		Argv:     img.Manifest.Argv,
		Env:      img.Manifest.Env,
		Trailing: layout.TrailerSize,
	}
	if report.Argv == nil {
		report.Argv = []string{}
	}
	if report.Env == nil {
		report.Env = map[string]string{}
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	renderInspectReport(cmd.OutOrStdout(), report)
	return nil
}

func renderInspectReport(w io.Writer, r inspectReport) {
	fmt.Fprintln(w, TitleStyle.Render("Launcher ")+KeyStyle.Render(r.Path))
	fmt.Fprintln(w)

	var layoutLines strings.Builder
	fmt.Fprintf(&layoutLines, "%s %d bytes\n", SubtitleStyle.Render("size:    "), r.Size)
	fmt.Fprintf(&layoutLines, "%s offset %d, %d bytes\n", SubtitleStyle.Render("runtime: "), r.Runtime.Offset, r.Runtime.Length)
	fmt.Fprintf(&layoutLines, "%s offset %d, %d bytes\n", SubtitleStyle.Render("manifest:"), r.Section.Offset, r.Section.Length)
	fmt.Fprintf(&layoutLines, "%s %d bytes", SubtitleStyle.Render("trailer: "), r.Trailing)
	fmt.Fprintln(w, TitleStyle.Render("Layout"))
	fmt.Fprintln(w, sectionStyle.Render(layoutLines.String()))
	fmt.Fprintln(w)

	var argvLines []string
	for i, arg := range r.Argv {
		argvLines = append(argvLines, fmt.Sprintf("%s %q", SubtitleStyle.Render(fmt.Sprintf("[%d]", i)), arg))
	}
	fmt.Fprintln(w, TitleStyle.Render("Argv"))
	fmt.Fprintln(w, sectionStyle.Render(strings.Join(argvLines, "\n")))
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("Env"))
	if len(r.Env) == 0 {
		fmt.Fprintln(w, sectionStyle.Render(SubtitleStyle.Render("(none)")))
		return
	}
	var envLines []string
	for _, key := range slices.Sorted(maps.Keys(r.Env)) {
		envLines = append(envLines, KeyStyle.Render(key)+"="+SuccessStyle.Render(r.Env[key]))
	}
	fmt.Fprintln(w, sectionStyle.Render(strings.Join(envLines, "\n")))
}
