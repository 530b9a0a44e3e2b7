// Package analyzer turns staged diffs into short human-readable annotations
// ("Modified functions: ...") that enrich the generation context. Analyzers
// are selected by file name and work on diff text only; they never read the
// work tree.
package analyzer

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gitscribe/pkg/models"
)

// Analyzer produces annotations for one staged file.
type Analyzer interface {
	Name() string
	Analyze(path string, file models.StagedFile) []string
}

// Get returns the analyzer for path, falling back to a no-op analyzer for
// unrecognized file types.
func Get(path string) Analyzer {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return goAnalyzer{}
	case ".js", ".jsx", ".ts", ".tsx":
		return jsAnalyzer{}
	case ".py":
		return pyAnalyzer{}
	case ".md", ".markdown":
		return markdownAnalyzer{}
	case ".json":
		return jsonAnalyzer{}
	case ".yaml", ".yml":
		return yamlAnalyzer{}
	default:
		return defaultAnalyzer{}
	}
}

type defaultAnalyzer struct{}

func (defaultAnalyzer) Name() string { return "file" }

func (defaultAnalyzer) Analyze(path string, file models.StagedFile) []string {
	return nil
}

// changedLines yields the content of added and removed lines, without the
// +/- prefix and excluding the file header markers.
func changedLines(diff string) []string {
	var out []string
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
			continue
		}
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			out = append(out, line[1:])
		}
	}
	return out
}

// collectMatches applies re to every changed line and returns the unique
// values of the first capture group, sorted.
func collectMatches(diff string, re *regexp.Regexp) []string {
	seen := make(map[string]struct{})
	for _, line := range changedLines(diff) {
		if m := re.FindStringSubmatch(line); m != nil {
			seen[m[1]] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func annotation(label string, names []string) string {
	return label + ": " + strings.Join(names, ", ")
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func dedupe(names []string) []string {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return sortedKeys(set)
}
