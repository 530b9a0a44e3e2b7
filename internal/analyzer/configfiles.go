package analyzer

import (
	"regexp"

	"github.com/gitscribe/pkg/models"
)

type jsonAnalyzer struct{}

var jsonKeyRe = regexp.MustCompile(`^\s*"([^"]+)"\s*:`)

func (jsonAnalyzer) Name() string { return "JSON file" }

func (jsonAnalyzer) Analyze(path string, file models.StagedFile) []string {
	if keys := collectMatches(file.Diff, jsonKeyRe); len(keys) > 0 {
		return []string{annotation("Modified keys", keys)}
	}
	return nil
}

type yamlAnalyzer struct{}

var yamlKeyRe = regexp.MustCompile(`^\s*([A-Za-z_][\w.-]*)\s*:`)

func (yamlAnalyzer) Name() string { return "YAML file" }

func (yamlAnalyzer) Analyze(path string, file models.StagedFile) []string {
	if keys := collectMatches(file.Diff, yamlKeyRe); len(keys) > 0 {
		return []string{annotation("Modified keys", keys)}
	}
	return nil
}
