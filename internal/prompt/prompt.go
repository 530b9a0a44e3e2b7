// Package prompt renders the assembled context into the system and user
// prompt pair handed to the provider.
package prompt

import (
	"fmt"
	"strings"

	"github.com/gitscribe/internal/gitmoji"
	"github.com/gitscribe/internal/presets"
	"github.com/gitscribe/pkg/models"
)

// Options carries the stylistic knobs for the system prompt.
type Options struct {
	UseGitmoji   bool
	Preset       string
	Instructions string
}

// CreateSystemPrompt renders the fixed guidance: role, rules, the response
// schema, and the user's stylistic instructions.
func CreateSystemPrompt(opts Options) string {
	var b strings.Builder

	b.WriteString(`You are an expert software engineer writing a commit message for the staged changes described by the user.

Guidelines:
1. The title is at most 50 characters, imperative mood, no trailing period.
2. The body explains what changed and why, wrapped at 72 columns.
3. Describe the change itself, not the process of making it.
4. Group related changes; do not enumerate every file.
5. Match the tone and conventions visible in the recent commit history.
6. Never invent changes that are not in the diff.
`)

	if opts.UseGitmoji {
		b.WriteString("\n7. Choose the single most fitting emoji for the change from this list and return it in the emoji field:\n")
		b.WriteString(gitmoji.PromptList())
	} else {
		b.WriteString("\n7. Leave the emoji field empty.\n")
	}

	preset := presets.Get(opts.Preset)
	if preset.Instructions != "" {
		fmt.Fprintf(&b, "\nStyle (%s): %s\n", preset.Name, preset.Instructions)
	}
	if opts.Instructions != "" {
		fmt.Fprintf(&b, "\nAdditional instructions from the user:\n%s\n", opts.Instructions)
	}

	b.WriteString(`
Respond with a single JSON object and nothing else:
{
  "emoji": "",
  "title": "short imperative summary",
  "message": "body paragraphs explaining the change"
}
`)
	return b.String()
}

// CreateUserPrompt renders the context snapshot. The detail level gates how
// much of it is included: minimal stops at the staged file list, standard
// adds history, analysis, and diffs, detailed adds everything gathered.
func CreateUserPrompt(ctx *models.CommitContext, scores map[string]float32, level DetailLevel) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Branch: %s\n\n", ctx.Branch)

	if level >= DetailStandard && len(ctx.RecentCommits) > 0 {
		b.WriteString("Recent commits:\n")
		for _, c := range ctx.RecentCommits {
			fmt.Fprintf(&b, "  %s %s\n", c.Hash, c.Message)
		}
		b.WriteString("\n")
	}

	b.WriteString("Staged changes:\n")
	for _, f := range ctx.StagedFiles {
		fmt.Fprintf(&b, "  [%s] %s (relevance %.1f)\n", f.ChangeType, f.Path, scores[f.Path])
		if level >= DetailStandard {
			for _, a := range f.Analysis {
				fmt.Fprintf(&b, "    - %s\n", a)
			}
		}
	}
	b.WriteString("\n")

	if level >= DetailDetailed && len(ctx.UnstagedFiles) > 0 {
		b.WriteString("Unstaged files (not part of this commit):\n")
		for _, p := range ctx.UnstagedFiles {
			fmt.Fprintf(&b, "  %s\n", p)
		}
		b.WriteString("\n")
	}

	if level >= DetailStandard {
		if meta := formatMetadata(ctx.ProjectMeta); meta != "" {
			fmt.Fprintf(&b, "Project metadata:\n%s\n", meta)
		}

		b.WriteString("Detailed changes:\n")
		for _, f := range ctx.StagedFiles {
			if f.ContentExcluded {
				fmt.Fprintf(&b, "--- %s: content excluded ---\n", f.Path)
				continue
			}
			fmt.Fprintf(&b, "--- %s ---\n%s\n", f.Path, f.Diff)
		}
	}

	if level >= DetailDetailed && ctx.UserName != "" {
		fmt.Fprintf(&b, "\nAuthor: %s <%s>\n", ctx.UserName, ctx.UserEmail)
	}

	return b.String()
}

func formatMetadata(meta models.ProjectMetadata) string {
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("  %s: %s", label, value))
		}
	}
	add("Language", meta.Language)
	add("Framework", meta.Framework)
	add("Build system", meta.BuildSystem)
	add("Test framework", meta.TestFramework)
	add("Version", meta.Version)
	if len(meta.Dependencies) > 0 {
		add("Dependencies", strings.Join(meta.Dependencies, ", "))
	}
	if len(meta.Plugins) > 0 {
		add("Plugins", strings.Join(meta.Plugins, ", "))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
