package models

import (
	"strings"
)

// ChangeType classifies how a staged file changed relative to HEAD.
type ChangeType string

const (
	ChangeTypeAdded    ChangeType = "Added"
	ChangeTypeModified ChangeType = "Modified"
	ChangeTypeDeleted  ChangeType = "Deleted"
)

func (c ChangeType) String() string {
	return string(c)
}

// RecentCommit is one entry of the repository's recent history, included in
// the generation context so the model can match the project's message style.
type RecentCommit struct {
	Hash      string `json:"hash"`
	Message   string `json:"message"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
}

// StagedFile is a single staged change: its diff, the change classification,
// and the analyzer annotations derived from the diff.
type StagedFile struct {
	Path            string     `json:"path"`
	ChangeType      ChangeType `json:"change_type"`
	Diff            string     `json:"diff"`
	Analysis        []string   `json:"analysis"`
	ContentExcluded bool       `json:"content_excluded"`
}

// ProjectMetadata describes what kind of project the repository holds, as far
// as the file analyzers can tell from the staged manifests.
type ProjectMetadata struct {
	Language      string   `json:"language,omitempty"`
	Framework     string   `json:"framework,omitempty"`
	Dependencies  []string `json:"dependencies,omitempty"`
	Version       string   `json:"version,omitempty"`
	BuildSystem   string   `json:"build_system,omitempty"`
	TestFramework string   `json:"test_framework,omitempty"`
	Plugins       []string `json:"plugins,omitempty"`
}

// Merge folds metadata detected for one file into the aggregate for the
// whole context. First detection wins for scalar fields; languages are
// concatenated, dependency and plugin lists are unioned.
func (m *ProjectMetadata) Merge(other ProjectMetadata) {
	if other.Language != "" {
		if m.Language == "" {
			m.Language = other.Language
		} else if !strings.Contains(m.Language, other.Language) {
			m.Language += ", " + other.Language
		}
	}
	if m.Framework == "" {
		m.Framework = other.Framework
	}
	if m.Version == "" {
		m.Version = other.Version
	}
	if m.BuildSystem == "" {
		m.BuildSystem = other.BuildSystem
	}
	if m.TestFramework == "" {
		m.TestFramework = other.TestFramework
	}
	m.Dependencies = appendUnique(m.Dependencies, other.Dependencies)
	m.Plugins = appendUnique(m.Plugins, other.Plugins)
}

func appendUnique(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range src {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			dst = append(dst, s)
		}
	}
	return dst
}

// CommitContext is the full snapshot handed to the prompt builder: repository
// facts plus per-file analysis. It is assembled once per generation cycle and
// shrunk in place by the token optimizer; nothing else mutates it.
type CommitContext struct {
	Branch        string          `json:"branch"`
	RecentCommits []RecentCommit  `json:"recent_commits"`
	StagedFiles   []StagedFile    `json:"staged_files"`
	UnstagedFiles []string        `json:"unstaged_files"`
	ProjectMeta   ProjectMetadata `json:"project_metadata"`
	UserName      string          `json:"user_name"`
	UserEmail     string          `json:"user_email"`
}

// Clone returns a deep copy. The optimizer truncates the copy while the
// cached original stays intact for the next regeneration.
func (c *CommitContext) Clone() *CommitContext {
	out := *c
	out.RecentCommits = make([]RecentCommit, len(c.RecentCommits))
	copy(out.RecentCommits, c.RecentCommits)
	out.StagedFiles = make([]StagedFile, len(c.StagedFiles))
	for i, f := range c.StagedFiles {
		f.Analysis = append([]string(nil), f.Analysis...)
		out.StagedFiles[i] = f
	}
	out.UnstagedFiles = append([]string(nil), c.UnstagedFiles...)
	out.ProjectMeta.Dependencies = append([]string(nil), c.ProjectMeta.Dependencies...)
	out.ProjectMeta.Plugins = append([]string(nil), c.ProjectMeta.Plugins...)
	return &out
}

// GeneratedMessage is one commit message candidate produced by the pipeline.
// Candidates are immutable; an edit replaces the entry in the session list.
type GeneratedMessage struct {
	Emoji   string `json:"emoji,omitempty"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// messageWrapWidth is the column the body is wrapped at when rendering the
// final commit message.
const messageWrapWidth = 72

// FormatCommitMessage renders a candidate as the text handed to git: an
// optional emoji prefix, the title, a blank line, and the wrapped body.
func FormatCommitMessage(msg GeneratedMessage) string {
	var b strings.Builder
	if msg.Emoji != "" {
		b.WriteString(msg.Emoji)
		b.WriteString(" ")
	}
	b.WriteString(msg.Title)
	body := strings.TrimSpace(msg.Message)
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(wrapText(body, messageWrapWidth))
	}
	return b.String()
}

// wrapText wraps each paragraph at width columns, preserving existing line
// breaks inside list items and leaving long unbreakable tokens intact.
func wrapText(text string, width int) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if len(line) <= width {
			out = append(out, line)
			continue
		}
		var current strings.Builder
		for _, word := range strings.Fields(line) {
			if current.Len() > 0 && current.Len()+1+len(word) > width {
				out = append(out, current.String())
				current.Reset()
			}
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(word)
		}
		if current.Len() > 0 {
			out = append(out, current.String())
		}
	}
	return strings.Join(out, "\n")
}
