package analyzer

import (
	"regexp"
	"strings"

	"github.com/gitscribe/pkg/models"
)

type markdownAnalyzer struct{}

var mdHeaderRe = regexp.MustCompile(`^\s*#{1,6}\s+(.+?)\s*$`)

func (markdownAnalyzer) Name() string { return "Markdown document" }

func (markdownAnalyzer) Analyze(path string, file models.StagedFile) []string {
	var out []string
	if headers := collectMatches(file.Diff, mdHeaderRe); len(headers) > 0 {
		out = append(out, annotation("Modified sections", headers))
	}
	for _, line := range changedLines(file.Diff) {
		if strings.Contains(line, "](http") {
			out = append(out, "Links changed")
			break
		}
	}
	return out
}
