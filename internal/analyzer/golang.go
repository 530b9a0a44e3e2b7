package analyzer

import (
	"regexp"

	"github.com/gitscribe/pkg/models"
)

type goAnalyzer struct{}

var (
	goFuncRe   = regexp.MustCompile(`^\s*func\s+(?:\([^)]+\)\s*)?(\w+)\s*\(`)
	goTypeRe   = regexp.MustCompile(`^\s*type\s+(\w+)\s`)
	goImportRe = regexp.MustCompile(`^\s*(?:import\s+)?"([^"]+)"`)
)

func (goAnalyzer) Name() string { return "Go source file" }

func (goAnalyzer) Analyze(path string, file models.StagedFile) []string {
	var out []string
	if funcs := collectMatches(file.Diff, goFuncRe); len(funcs) > 0 {
		out = append(out, annotation("Modified functions", funcs))
	}
	if types := collectMatches(file.Diff, goTypeRe); len(types) > 0 {
		out = append(out, annotation("Modified types", types))
	}
	if imports := collectMatches(file.Diff, goImportRe); len(imports) > 0 {
		out = append(out, annotation("Changed imports", imports))
	}
	return out
}
