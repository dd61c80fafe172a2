// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nimbus-build/kickoff/internal/config"
	"github.com/nimbus-build/kickoff/internal/issue"
	"github.com/nimbus-build/kickoff/internal/packager"
	"github.com/nimbus-build/kickoff/pkg/manifest"
	"github.com/nimbus-build/kickoff/pkg/platform"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrNoProgram is returned when create is given no program to launch.
	ErrNoProgram = errors.New("no program given: use --manifest, --command or -- PROGRAM [ARGS...]")
	// ErrConflictingSources is returned when more than one program source is given.
	ErrConflictingSources = errors.New("--manifest, --command and -- PROGRAM are mutually exclusive")
	// ErrInvalidEnvFlag is returned for --env values that are not KEY=VALUE.
	ErrInvalidEnvFlag = errors.New("invalid --env value")
	// ErrUnsupportedExpansion is returned when --command uses shell expansions.
	ErrUnsupportedExpansion = errors.New("shell expansions are not supported in --command")
)

// createOptions holds the flags of `kickoff create`.
type createOptions struct {
	output       string
	manifestPath string
	command      string
	env          []string
	target       string
	runtime      string
	mode         string
	atomic       bool
}

func newCreateCommand(app *App) *cobra.Command {
	opts := &createOptions{}

	createCmd := &cobra.Command{
		Use:   "create --output FILE (--manifest FILE | --command CMD | -- PROGRAM [ARGS...])",
		Short: "Create a launcher from a runtime stub and a manifest",
		Long: `Create a launcher: a copy of the runtime stub for the target platform
followed by the manifest describing the program to start.

The program is given by exactly one of:
  --manifest FILE   a .json, .toml or .cue manifest file
  --command CMD     a command line, split into words like a shell would
  -- PROGRAM ARGS   the program and its arguments, after '--'

Arguments and environment values may contain {kickoff.self.path} and
{kickoff.self.dir}, which the launcher replaces with its own location.`,
		Example: `  kickoff create -o ./app -- {kickoff.self.dir}/bin/app --verbose
  kickoff create -o ./app --command "python3 '{kickoff.self.dir}/main.py'" --env PYTHONPATH={kickoff.self.dir}/lib
  kickoff create -o ./app.exe --manifest app.toml --target x86_64-pc-windows-gnu --atomic`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.create(cmd, opts, args)
		},
	}

	flags := createCmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "path of the launcher to create (required)")
	flags.StringVarP(&opts.manifestPath, "manifest", "m", "", "manifest file (.json, .toml or .cue)")
	flags.StringVarP(&opts.command, "command", "c", "", "command line of the program to launch")
	flags.StringArrayVarP(&opts.env, "env", "e", nil, "set an environment variable (KEY=VALUE, can be specified multiple times)")
	flags.StringVarP(&opts.target, "target", "t", "", "target triple (default from config, else the host)")
	flags.StringVar(&opts.runtime, "runtime", "", "runtime stub to use instead of looking it up in the runtime directory")
	flags.StringVar(&opts.mode, "mode", "", "permission bits of the launcher in octal (default from config, 0755)")
	flags.BoolVar(&opts.atomic, "atomic", false, "write to a temporary file and rename it into place")
	_ = createCmd.MarkFlagRequired("output")

	return createCmd
}

func (a *App) create(cmd *cobra.Command, opts *createOptions, args []string) error {
	src, err := a.config(cmd.Context())
	if err != nil {
		return a.fail(cmd, err, issue.ConfigLoadFailedId)
	}
	cfg := src.Config

	m, issueID, err := opts.buildManifest(args)
	if err != nil {
		return a.fail(cmd, err, issueID)
	}

	target, err := opts.resolveTarget(cfg)
	if err != nil {
		return a.fail(cmd, err, issue.UnknownTargetId)
	}

	if err := target.CheckOutputName(filepath.Base(opts.output)); err != nil {
		return a.fail(cmd, err, issue.ReservedOutputNameId)
	}

	pkgOpts, err := opts.packagerOptions(cmd, cfg)
	if err != nil {
		return a.fail(cmd, err, 0)
	}

	runtimePath, err := a.runtimePath(opts, cfg, target)
	if err != nil {
		return a.fail(cmd, err, 0)
	}

	// #nosec G304 -- the runtime stub path is chosen by the user or the config.
	stub, err := os.Open(runtimePath)
	if err != nil {
		id := issue.RuntimeNotFoundId
		if errors.Is(err, fs.ErrPermission) {
			id = issue.PermissionDeniedId
		}
		return a.fail(cmd, issue.NewErrorContext().
			WithOperation("open runtime stub").
			WithResource(runtimePath).
			WithSuggestion("Pass the stub explicitly with --runtime").
			WithSuggestion("Run 'kickoff targets' to see the expected file names").
			Wrap(err).
			BuildError(), id)
	}
	defer func() { _ = stub.Close() }()

	a.logger.Debug("creating launcher",
		"output", opts.output,
		"runtime", runtimePath,
		"target", target,
		"mode", config.OutputMode(pkgOpts.Mode),
		"atomic", pkgOpts.Atomic,
		"argv", m.Argv)

	trailer, err := packager.CreateFile(opts.output, stub, m, pkgOpts)
	if err != nil {
		id := issue.OutputWriteFailedId
		ectx := issue.NewErrorContext().
			WithOperation("create launcher").
			WithResource(opts.output)
		switch {
		case errors.Is(err, manifest.ErrInvalidManifest):
			id = issue.ManifestInvalidId
		case errors.Is(err, fs.ErrPermission):
			id = issue.PermissionDeniedId
		case errors.Is(err, packager.ErrOutputIsStub):
			ectx.WithSuggestion("Pass --atomic or write the launcher to a different --output path")
		}
		return a.fail(cmd, ectx.Wrap(err).BuildError(), id)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
		SuccessStyle.Render("Created"),
		KeyStyle.Render(opts.output),
		SubtitleStyle.Render(fmt.Sprintf("(%s, %d bytes)", target, trailer.Size())))
	return nil
}

// buildManifest assembles the manifest from the single program source and
// the --env flags, which override manifest env entries.
func (o *createOptions) buildManifest(args []string) (*manifest.Manifest, issue.Id, error) {
	sources := 0
	for _, given := range []bool{o.manifestPath != "", o.command != "", len(args) > 0} {
		if given {
			sources++
		}
	}
	switch {
	case sources == 0:
		return nil, 0, ErrNoProgram
	case sources > 1:
		return nil, 0, ErrConflictingSources
	}

	var m *manifest.Manifest
	switch {
	case o.manifestPath != "":
		loaded, err := manifest.Load(o.manifestPath)
		if err != nil {
			id := issue.ManifestInvalidId
			if errors.Is(err, fs.ErrNotExist) {
				id = issue.ManifestNotFoundId
			}
			return nil, id, issue.NewErrorContext().
				WithOperation("load manifest").
				WithResource(o.manifestPath).
				Wrap(err).
				BuildError()
		}
		m = loaded
	case o.command != "":
		argv, err := splitCommand(o.command)
		if err != nil {
			return nil, issue.ManifestInvalidId, fmt.Errorf("parse --command: %w", err)
		}
		m = manifest.New(argv, nil)
	default:
		m = manifest.New(args, nil)
	}

	env, err := parseEnvFlags(o.env)
	if err != nil {
		return nil, 0, err
	}
	if m.Env == nil {
		m.Env = make(map[string]string, len(env))
	}
	for k, v := range env {
		m.Env[k] = v
	}

	if err := m.Validate(); err != nil {
		return nil, issue.ManifestInvalidId, err
	}
	return m, 0, nil
}

func (o *createOptions) resolveTarget(cfg *config.Config) (platform.Target, error) {
	if o.target != "" {
		return platform.Lookup(o.target)
	}
	return cfg.Target()
}

// packagerOptions merges the --mode and --atomic flags over the config.
func (o *createOptions) packagerOptions(cmd *cobra.Command, cfg *config.Config) (packager.Options, error) {
	mode := cfg.Output.Mode
	if cmd.Flags().Changed("mode") {
		parsed, err := strconv.ParseUint(strings.TrimPrefix(o.mode, "0o"), 8, 32)
		if err != nil {
			return packager.Options{}, fmt.Errorf("%w %q: %w", config.ErrInvalidOutputMode, o.mode, err)
		}
		mode = config.OutputMode(parsed)
	}
	if err := mode.Validate(); err != nil {
		return packager.Options{}, err
	}

	atomic := cfg.Output.Atomic
	if cmd.Flags().Changed("atomic") {
		atomic = o.atomic
	}

	return packager.Options{Mode: mode.FileMode(), Atomic: atomic}, nil
}

// runtimePath returns --runtime when given, otherwise the target's stub in
// the configured runtime directory.
func (a *App) runtimePath(o *createOptions, cfg *config.Config, target platform.Target) (string, error) {
	if o.runtime != "" {
		return o.runtime, nil
	}

	exe := ""
	if cfg.RuntimeDir == "" {
		var err error
		if exe, err = a.executable(); err != nil {
			return "", fmt.Errorf("locate kickoff executable: %w", err)
		}
	}
	return filepath.Join(cfg.RuntimeDirFor(exe), target.RuntimeFileName()), nil
}

// parseEnvFlags parses KEY=VALUE pairs. Later pairs win.
func parseEnvFlags(pairs []string) (map[string]string, error) {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w %q (expected KEY=VALUE)", ErrInvalidEnvFlag, pair)
		}
		env[key] = value
	}
	return env, nil
}

// splitCommand splits a command line into words with shell quoting rules,
// removing quotes and backslash escapes. Parameter, command, arithmetic and
// process expansions are rejected rather than expanded.
func splitCommand(line string) ([]string, error) {
	var (
		words   []string
		walkErr error
	)

	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	err := parser.Words(strings.NewReader(line), func(w *syntax.Word) bool {
		syntax.Walk(w, func(node syntax.Node) bool {
			switch node.(type) {
			case *syntax.ParamExp, *syntax.CmdSubst, *syntax.ArithmExp, *syntax.ProcSubst:
				walkErr = fmt.Errorf("%w: %q", ErrUnsupportedExpansion, line[w.Pos().Offset():w.End().Offset()])
				return false
			}
			return true
		})
		if walkErr != nil {
			return false
		}

		fields, err := expand.Fields(nil, w)
		if err != nil {
			walkErr = err
			return false
		}
		words = append(words, fields...)
		return true
	})
	if err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}
	return words, nil
}
