// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

// allIds lists every issue Id in declaration order.
var allIds = []Id{
	FileNotFoundId,
	ManifestNotFoundId,
	ManifestInvalidId,
	RuntimeNotFoundId,
	UnknownTargetId,
	ReservedOutputNameId,
	NotPackagedId,
	ConfigLoadFailedId,
	PermissionDeniedId,
	OutputWriteFailedId,
}

// passthroughRender replaces glamour for the duration of a test.
func passthroughRender(t *testing.T) {
	t.Helper()

	originalRender := render
	t.Cleanup(func() { render = originalRender })

	render = func(in string, _ string) (string, error) {
		return in, nil
	}
}

func TestId_Constants(t *testing.T) {
	t.Parallel()

	seen := make(map[Id]bool)
	for _, id := range allIds {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	// IDs start at 1 (iota + 1)
	if FileNotFoundId != 1 {
		t.Errorf("FileNotFoundId = %d, want 1", FileNotFoundId)
	}
}

func TestIssue_Id(t *testing.T) {
	t.Parallel()

	issue := Get(RuntimeNotFoundId)
	if issue == nil {
		t.Fatal("Get(RuntimeNotFoundId) returned nil")
	}

	if issue.Id() != RuntimeNotFoundId {
		t.Errorf("issue.Id() = %d, want %d", issue.Id(), RuntimeNotFoundId)
	}
}

func TestIssue_DocLinks_ReturnsClone(t *testing.T) {
	t.Parallel()

	issue := Get(ManifestInvalidId)
	links := issue.DocLinks()
	if len(links) == 0 {
		t.Fatal("ManifestInvalidId should carry a doc link")
	}

	original := links[0]
	links[0] = "modified"
	if issue.DocLinks()[0] != original {
		t.Error("DocLinks() should return a clone")
	}

	if Get(FileNotFoundId).ExtLinks() != nil {
		t.Error("ExtLinks() should be nil when no links are set")
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{FileNotFoundId, false, "File not found"},
		{ManifestNotFoundId, false, "Manifest file not found"},
		{ManifestInvalidId, false, "Invalid manifest"},
		{RuntimeNotFoundId, false, "Runtime stub not found"},
		{UnknownTargetId, false, "Unknown target"},
		{ReservedOutputNameId, false, "Reserved output name"},
		{NotPackagedId, false, "Not a kickoff launcher"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{PermissionDeniedId, false, "Permission denied"},
		{OutputWriteFailedId, false, "Failed to write the launcher"},
		{Id(9999), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			t.Parallel()

			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}

			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain '%s'", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	t.Parallel()

	issues := Values()
	if len(issues) != len(allIds) {
		t.Fatalf("Values() returned %d issues, want %d", len(issues), len(allIds))
	}

	for i, issue := range issues {
		if issue.Id() != allIds[i] {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, issue.Id(), allIds[i])
		}
		if issue.MarkdownMsg() == "" {
			t.Errorf("Issue %d has empty MarkdownMsg", issue.Id())
		}
	}
}

func TestIssue_Render(t *testing.T) {
	passthroughRender(t)

	rendered, err := Get(NotPackagedId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "kickoff trailer") {
		t.Errorf("Render() output should contain the message, got %q", rendered)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestIssue_Render_WithLinks(t *testing.T) {
	passthroughRender(t)

	testIssue := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test Issue\n\nThis is a test.",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	for _, want := range []string{"See also", "https://docs.example.com", "https://external.example.com"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Render() with links should contain %q", want)
		}
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	for _, issue := range Values() {
		rendered, err := issue.Render("notty")
		if err != nil {
			t.Errorf("Issue %d failed to render: %v", issue.Id(), err)
		}
		if strings.TrimSpace(rendered) == "" {
			t.Errorf("Issue %d rendered to empty string", issue.Id())
		}
	}
}
