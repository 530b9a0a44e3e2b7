package analyzer

import (
	"regexp"

	"github.com/gitscribe/pkg/models"
)

type jsAnalyzer struct{}

var (
	jsFuncRe  = regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)`)
	jsArrowRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s*)?\(`)
	jsClassRe = regexp.MustCompile(`^\s*(?:export\s+)?class\s+(\w+)`)
	jsHookRe  = regexp.MustCompile(`\b(use[A-Z]\w*)\s*\(`)
)

func (jsAnalyzer) Name() string { return "JavaScript/TypeScript source file" }

func (jsAnalyzer) Analyze(path string, file models.StagedFile) []string {
	var out []string
	funcs := collectMatches(file.Diff, jsFuncRe)
	funcs = append(funcs, collectMatches(file.Diff, jsArrowRe)...)
	if len(funcs) > 0 {
		out = append(out, annotation("Modified functions", dedupe(funcs)))
	}
	if classes := collectMatches(file.Diff, jsClassRe); len(classes) > 0 {
		out = append(out, annotation("Modified classes", classes))
	}
	if hooks := collectMatches(file.Diff, jsHookRe); len(hooks) > 0 {
		out = append(out, annotation("React hooks in play", hooks))
	}
	return out
}
