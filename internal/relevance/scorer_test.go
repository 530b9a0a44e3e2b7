package relevance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitscribe/pkg/models"
)

func TestScoreDeterministic(t *testing.T) {
	ctx := &models.CommitContext{
		StagedFiles: []models.StagedFile{
			{Path: "internal/server/server.go", ChangeType: models.ChangeTypeModified},
			{Path: "docs/setup.md", ChangeType: models.ChangeTypeAdded},
			{Path: "legacy/old.bin", ChangeType: models.ChangeTypeDeleted},
		},
	}

	first := Score(ctx)
	second := Score(ctx)
	require.Equal(t, first, second)
	require.Len(t, first, 3)
}

func TestScoreChangeTypeOrdering(t *testing.T) {
	score := func(ct models.ChangeType) float32 {
		ctx := &models.CommitContext{
			StagedFiles: []models.StagedFile{{Path: "main.go", ChangeType: ct}},
		}
		return Score(ctx)["main.go"]
	}

	modified := score(models.ChangeTypeModified)
	added := score(models.ChangeTypeAdded)
	deleted := score(models.ChangeTypeDeleted)

	require.Greater(t, modified, added)
	require.Greater(t, added, deleted)
}

func TestScoreFileTypeOrdering(t *testing.T) {
	ctx := &models.CommitContext{
		StagedFiles: []models.StagedFile{
			{Path: "pkg/api.go", ChangeType: models.ChangeTypeModified},
			{Path: "web/app.ts", ChangeType: models.ChangeTypeModified},
			{Path: "assets/logo.bin", ChangeType: models.ChangeTypeModified},
		},
	}

	scores := Score(ctx)
	require.Greater(t, scores["pkg/api.go"], scores["web/app.ts"])
	require.Greater(t, scores["web/app.ts"], scores["assets/logo.bin"])
}
