package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatCommitMessage(t *testing.T) {
	msg := GeneratedMessage{
		Emoji:   "✨",
		Title:   "add tracing middleware",
		Message: "Propagate request IDs through the handler chain.",
	}
	out := FormatCommitMessage(msg)
	require.Equal(t, "✨ add tracing middleware\n\nPropagate request IDs through the handler chain.", out)
}

func TestFormatCommitMessageWithoutEmojiOrBody(t *testing.T) {
	out := FormatCommitMessage(GeneratedMessage{Title: "fix typo"})
	require.Equal(t, "fix typo", out)
}

func TestFormatCommitMessageWrapsBody(t *testing.T) {
	long := strings.Repeat("word ", 40)
	out := FormatCommitMessage(GeneratedMessage{Title: "t", Message: long})

	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, len(line), 72, "line over 72 columns: %q", line)
	}
	require.Contains(t, out, "word word")
}

func TestFormatCommitMessagePreservesListBreaks(t *testing.T) {
	msg := GeneratedMessage{
		Title:   "t",
		Message: "- first change\n- second change",
	}
	out := FormatCommitMessage(msg)
	require.Contains(t, out, "- first change\n- second change")
}

func TestCloneIsDeep(t *testing.T) {
	original := &CommitContext{
		Branch:        "main",
		RecentCommits: []RecentCommit{{Hash: "abc", Message: "seed"}},
		StagedFiles: []StagedFile{
			{Path: "a.go", Diff: "+x", Analysis: []string{"note"}},
		},
		UnstagedFiles: []string{"b.txt"},
		ProjectMeta:   ProjectMetadata{Dependencies: []string{"dep1"}},
	}

	clone := original.Clone()
	clone.RecentCommits[0].Message = "changed"
	clone.StagedFiles[0].Diff = "changed"
	clone.StagedFiles[0].Analysis[0] = "changed"
	clone.UnstagedFiles[0] = "changed"
	clone.ProjectMeta.Dependencies[0] = "changed"

	require.Equal(t, "seed", original.RecentCommits[0].Message)
	require.Equal(t, "+x", original.StagedFiles[0].Diff)
	require.Equal(t, "note", original.StagedFiles[0].Analysis[0])
	require.Equal(t, "b.txt", original.UnstagedFiles[0])
	require.Equal(t, "dep1", original.ProjectMeta.Dependencies[0])
}

func TestProjectMetadataMerge(t *testing.T) {
	var meta ProjectMetadata
	meta.Merge(ProjectMetadata{Language: "Go", BuildSystem: "go modules", Dependencies: []string{"a"}})
	meta.Merge(ProjectMetadata{Language: "JavaScript", BuildSystem: "npm", Dependencies: []string{"a", "b"}})

	require.Equal(t, "Go, JavaScript", meta.Language)
	require.Equal(t, "go modules", meta.BuildSystem, "first detection wins")
	require.Equal(t, []string{"a", "b"}, meta.Dependencies)
}
