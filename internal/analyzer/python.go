package analyzer

import (
	"regexp"

	"github.com/gitscribe/pkg/models"
)

type pyAnalyzer struct{}

var (
	pyFuncRe   = regexp.MustCompile(`^\s*def\s+(\w+)\s*\(`)
	pyClassRe  = regexp.MustCompile(`^\s*class\s+(\w+)`)
	pyImportRe = regexp.MustCompile(`^\s*(?:from\s+(\S+)\s+import|import\s+(\S+))`)
)

func (pyAnalyzer) Name() string { return "Python source file" }

func (pyAnalyzer) Analyze(path string, file models.StagedFile) []string {
	var out []string
	if funcs := collectMatches(file.Diff, pyFuncRe); len(funcs) > 0 {
		out = append(out, annotation("Modified functions", funcs))
	}
	if classes := collectMatches(file.Diff, pyClassRe); len(classes) > 0 {
		out = append(out, annotation("Modified classes", classes))
	}
	if imports := pyImports(file.Diff); len(imports) > 0 {
		out = append(out, annotation("Changed imports", imports))
	}
	return out
}

// pyImports handles both import forms; the regexp captures the module in
// either group 1 or 2.
func pyImports(diff string) []string {
	seen := make(map[string]struct{})
	for _, line := range changedLines(diff) {
		m := pyImportRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if name == "" {
			name = m[2]
		}
		seen[name] = struct{}{}
	}
	return sortedKeys(seen)
}
