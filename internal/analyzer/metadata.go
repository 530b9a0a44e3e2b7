package analyzer

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gitscribe/pkg/models"
)

var (
	goModRequireRe = regexp.MustCompile(`^\s*([\w./-]+)\s+v[\w.+-]+`)
	pkgJSONDepRe   = regexp.MustCompile(`^\s*"(@?[\w./-]+)"\s*:\s*"[~^]?[\w.*-]+"`)
	requirementsRe = regexp.MustCompile(`^\s*([\w.-]+)\s*(?:[=<>!~]|$)`)
)

// DetectMetadata inspects staged manifest files and infers project-level
// facts for the prompt: language, build system, frameworks, dependencies.
func DetectMetadata(files []models.StagedFile) models.ProjectMetadata {
	var meta models.ProjectMetadata
	for _, f := range files {
		switch filepath.Base(f.Path) {
		case "go.mod":
			meta.Merge(goModMetadata(f.Diff))
		case "package.json":
			meta.Merge(packageJSONMetadata(f.Diff))
		case "Cargo.toml":
			meta.Merge(models.ProjectMetadata{Language: "Rust", BuildSystem: "cargo"})
		case "requirements.txt", "pyproject.toml", "setup.py":
			meta.Merge(pythonMetadata(f.Diff))
		case "pom.xml":
			meta.Merge(models.ProjectMetadata{Language: "Java", BuildSystem: "maven"})
		case "Makefile":
			meta.Merge(models.ProjectMetadata{BuildSystem: "make"})
		}
	}
	return meta
}

func goModMetadata(diff string) models.ProjectMetadata {
	meta := models.ProjectMetadata{Language: "Go", BuildSystem: "go modules"}
	for _, dep := range collectMatches(diff, goModRequireRe) {
		if !strings.Contains(dep, "/") {
			continue
		}
		meta.Dependencies = append(meta.Dependencies, dep)
		if strings.Contains(dep, "testify") {
			meta.TestFramework = "testify"
		}
	}
	return meta
}

func packageJSONMetadata(diff string) models.ProjectMetadata {
	meta := models.ProjectMetadata{Language: "JavaScript", BuildSystem: "npm"}
	for _, dep := range collectMatches(diff, pkgJSONDepRe) {
		meta.Dependencies = append(meta.Dependencies, dep)
		switch dep {
		case "react", "next":
			meta.Framework = "React"
		case "vue", "nuxt":
			meta.Framework = "Vue"
		case "express":
			meta.Framework = "Express"
		case "jest", "vitest", "mocha":
			meta.TestFramework = dep
		}
	}
	return meta
}

func pythonMetadata(diff string) models.ProjectMetadata {
	meta := models.ProjectMetadata{Language: "Python"}
	for _, dep := range collectMatches(diff, requirementsRe) {
		meta.Dependencies = append(meta.Dependencies, dep)
		switch strings.ToLower(dep) {
		case "django":
			meta.Framework = "Django"
		case "flask":
			meta.Framework = "Flask"
		case "fastapi":
			meta.Framework = "FastAPI"
		case "pytest":
			meta.TestFramework = "pytest"
		}
	}
	return meta
}
