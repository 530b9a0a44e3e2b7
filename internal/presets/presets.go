// Package presets holds the named stylistic instruction strings selectable
// from the CLI and the review UI.
package presets

import (
	"fmt"
	"sort"
	"strings"
)

// Preset is one named instruction style.
type Preset struct {
	Name         string
	Description  string
	Instructions string
}

var library = map[string]Preset{
	"default": {
		Name:         "default",
		Description:  "Standard professional commit style",
		Instructions: "",
	},
	"concise": {
		Name:         "concise",
		Description:  "Short and to the point",
		Instructions: "Keep the message brief. One-line title, body only when strictly necessary, no filler words.",
	},
	"detailed": {
		Name:         "detailed",
		Description:  "Thorough explanation of the change",
		Instructions: "Write a comprehensive body: explain what changed, why it changed, and any follow-up implications. Use bullet points for independent changes.",
	},
	"technical": {
		Name:         "technical",
		Description:  "Precise engineering language",
		Instructions: "Use precise technical terminology. Name the functions, types, and modules affected. Assume the reader knows the codebase.",
	},
	"explanatory": {
		Name:         "explanatory",
		Description:  "Teaches the reader about the change",
		Instructions: "Explain the reasoning behind the change so a newcomer to the project can follow it. Spell out abbreviations on first use.",
	},
	"formal": {
		Name:         "formal",
		Description:  "Formal, report-like register",
		Instructions: "Write in a formal register suitable for an audit trail. Full sentences, no contractions, no humor.",
	},
	"user-focused": {
		Name:         "user-focused",
		Description:  "Describes impact on end users",
		Instructions: "Describe the change in terms of its effect on end users rather than implementation details.",
	},
	"cosmic": {
		Name:         "cosmic",
		Description:  "Grandiose celestial metaphors",
		Instructions: "Frame the change with cosmic grandeur: stars, orbits, and celestial bodies. Keep the title still recognizable as a commit message.",
	},
	"chill": {
		Name:         "chill",
		Description:  "Relaxed conversational tone",
		Instructions: "Keep it casual and friendly, like describing the change to a teammate over coffee. Still accurate, just relaxed.",
	},
}

// Get returns the named preset, falling back to the default preset for
// unknown names.
func Get(name string) Preset {
	if p, ok := library[strings.ToLower(name)]; ok {
		return p
	}
	return library["default"]
}

// Valid reports whether name refers to a preset.
func Valid(name string) bool {
	_, ok := library[strings.ToLower(name)]
	return ok
}

// List returns all presets sorted by name.
func List() []Preset {
	out := make([]Preset, 0, len(library))
	for _, p := range library {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListFormatted renders the preset table for the list-presets command.
func ListFormatted() string {
	var b strings.Builder
	for _, p := range List() {
		fmt.Fprintf(&b, "%-14s %s\n", p.Name, p.Description)
	}
	return b.String()
}
