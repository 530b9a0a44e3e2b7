// Package gitmoji maps commit types to their emoji prefix.
package gitmoji

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is one emoji with the commit type it represents.
type Entry struct {
	Type        string
	Emoji       string
	Description string
}

var entries = []Entry{
	{"feat", "✨", "Introduce a new feature"},
	{"fix", "🐛", "Fix a bug"},
	{"docs", "📝", "Add or update documentation"},
	{"style", "💄", "Update styling or formatting"},
	{"refactor", "♻️", "Refactor code without behavior change"},
	{"perf", "⚡️", "Improve performance"},
	{"test", "✅", "Add or update tests"},
	{"build", "👷", "Change the build system or dependencies"},
	{"ci", "💚", "Change CI configuration"},
	{"chore", "🔧", "Routine maintenance"},
	{"revert", "⏪", "Revert previous changes"},
	{"security", "🔒", "Fix a security issue"},
	{"deps", "⬆️", "Upgrade dependencies"},
	{"init", "🎉", "Initial commit"},
	{"wip", "🚧", "Work in progress"},
	{"remove", "🔥", "Remove code or files"},
	{"hotfix", "🚑", "Critical hotfix"},
	{"release", "🔖", "Release or version tag"},
}

var byType = func() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Type] = e
	}
	return m
}()

// Lookup returns the emoji for a commit type, or "" when the type is
// unknown.
func Lookup(commitType string) string {
	e, ok := byType[strings.ToLower(commitType)]
	if !ok {
		return ""
	}
	return e.Emoji
}

// Apply prefixes title with the emoji for commitType when one exists.
func Apply(commitType, title string) string {
	emoji := Lookup(commitType)
	if emoji == "" {
		return title
	}
	return emoji + " " + title
}

// List returns all entries sorted by commit type, for the emoji picker.
func List() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// PromptList renders the table the system prompt embeds when gitmoji is
// enabled.
func PromptList() string {
	var b strings.Builder
	for _, e := range List() {
		fmt.Fprintf(&b, "%s - %s: %s\n", e.Emoji, e.Type, e.Description)
	}
	return b.String()
}
