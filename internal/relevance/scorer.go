// Package relevance assigns each staged file a weight used to annotate and
// order the content handed to the prompt builder. Scores never influence the
// token optimizer.
package relevance

import (
	"path/filepath"
	"strings"

	"github.com/gitscribe/pkg/models"
)

// scorer is one independent contribution to a file's total score.
type scorer interface {
	score(f models.StagedFile) float32
}

// fileTypeScorer weights files by extension: source code scores highest,
// unrecognized types fall back to a neutral weight.
type fileTypeScorer struct{}

var fileTypeWeights = map[string]float32{
	".go":   1.0,
	".rs":   1.0,
	".js":   0.9,
	".jsx":  0.9,
	".ts":   0.9,
	".tsx":  0.9,
	".py":   0.8,
	".java": 0.8,
	".c":    0.8,
	".h":    0.8,
	".cpp":  0.8,
	".rb":   0.8,
	".md":   0.6,
	".yaml": 0.6,
	".yml":  0.6,
	".json": 0.6,
	".toml": 0.6,
}

func (fileTypeScorer) score(f models.StagedFile) float32 {
	ext := strings.ToLower(filepath.Ext(f.Path))
	if w, ok := fileTypeWeights[ext]; ok {
		return w
	}
	return 0.5
}

// changeTypeScorer weights modifications above additions above deletions.
type changeTypeScorer struct{}

func (changeTypeScorer) score(f models.StagedFile) float32 {
	switch f.ChangeType {
	case models.ChangeTypeModified:
		return 1.0
	case models.ChangeTypeAdded:
		return 0.9
	case models.ChangeTypeDeleted:
		return 0.7
	default:
		return 0.5
	}
}

var scorers = []scorer{
	fileTypeScorer{},
	changeTypeScorer{},
}

// Score computes the relevance of every staged file in ctx as the sum of the
// independent sub-scores. Pure and deterministic for a given context.
func Score(ctx *models.CommitContext) map[string]float32 {
	out := make(map[string]float32, len(ctx.StagedFiles))
	for _, f := range ctx.StagedFiles {
		var total float32
		for _, s := range scorers {
			total += s.score(f)
		}
		out[f.Path] = total
	}
	return out
}
