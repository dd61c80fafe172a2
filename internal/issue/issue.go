// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	ManifestNotFoundId
	ManifestInvalidId
	RuntimeNotFoundId
	UnknownTargetId
	ReservedOutputNameId
	NotPackagedId
	ConfigLoadFailedId
	PermissionDeniedId
	OutputWriteFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation pages for this issue type
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# File not found!

A file passed on the command line does not exist.

## Things you can try:
- Check the path for typos
- Use an absolute path if you are running kickoff from another directory`,
	}

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# Manifest file not found!

The file given with ` + "`--manifest`" + ` could not be opened.

## Things you can try:
- Check the path passed to ` + "`--manifest`" + `
- Describe the program inline instead:
~~~
$ kickoff create -o ./app -- /usr/bin/python3 {kickoff.self.dir}/app.py
~~~`,
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Invalid manifest!

The manifest does not describe a program that can be launched.

## Requirements:
- ` + "`argv`" + ` must contain at least the program path
- Environment variable names must be non-empty and must not contain ` + "`=`" + `
- No value may contain a NUL byte

## Example manifest (CUE):
~~~cue
argv: ["{kickoff.self.dir}/bin/app", "--config", "{kickoff.self.dir}/app.toml"]
env: APP_HOME: "{kickoff.self.dir}"
~~~`,
		docLinks: []HttpLink{"https://pkg.go.dev/github.com/nimbus-build/kickoff/pkg/manifest"},
	}

	runtimeNotFoundIssue = &Issue{
		id: RuntimeNotFoundId,
		mdMsg: `
# Runtime stub not found!

kickoff copies a prebuilt ` + "`kickoff-runtime`" + ` executable in front of every launcher,
and none was found for the requested target.

## Things you can try:
- Pass the stub explicitly:
~~~
$ kickoff create --runtime ./kickoff-runtime-x86_64-linux -o ./app -- ./bin/app
~~~
- Set ` + "`runtime_dir`" + ` in your config file (or ` + "`KICKOFF_RUNTIME_DIR`" + `)
- List the expected file names with ` + "`kickoff targets`",
	}

	unknownTargetIssue = &Issue{
		id: UnknownTargetId,
		mdMsg: `
# Unknown target!

The target triple is not one kickoff can build launchers for.

## Things you can try:
- List supported targets:
~~~
$ kickoff targets
~~~
- Check ` + "`default_target`" + ` in your config file`,
	}

	reservedOutputNameIssue = &Issue{
		id: ReservedOutputNameId,
		mdMsg: `
# Reserved output name!

The output file name is a reserved device name on Windows
(such as CON, NUL or COM1) and cannot be created there.

## Things you can try:
- Choose another output name, for example ` + "`con-app.exe`",
	}

	notPackagedIssue = &Issue{
		id: NotPackagedId,
		mdMsg: `
# Not a kickoff launcher!

The file does not end with a kickoff trailer, so it carries no manifest.

## Things you can try:
- Make sure you are inspecting the launcher and not the program it starts
- Recreate the launcher with ` + "`kickoff create`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your configuration file could not be loaded.

## Things you can try:
- Check the config file syntax (CUE format)
- Print the file kickoff reads:
~~~
$ kickoff config path
~~~
- Reset to default configuration:
~~~
$ kickoff config init
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to read the input or write the launcher.

## Things you can try:
- Check file permissions of the runtime stub and the output directory
- Write the launcher to a directory you own`,
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Failed to write the launcher!

The output file could not be written completely.

## Things you can try:
- Check that the disk is not full
- Use ` + "`--atomic`" + ` so a failed write never leaves a truncated launcher behind`,
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():       fileNotFoundIssue,
		manifestNotFoundIssue.Id():   manifestNotFoundIssue,
		manifestInvalidIssue.Id():    manifestInvalidIssue,
		runtimeNotFoundIssue.Id():    runtimeNotFoundIssue,
		unknownTargetIssue.Id():      unknownTargetIssue,
		reservedOutputNameIssue.Id(): reservedOutputNameIssue,
		notPackagedIssue.Id():        notPackagedIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
		outputWriteFailedIssue.Id():  outputWriteFailedIssue,
	}
)

// Values returns every known issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
