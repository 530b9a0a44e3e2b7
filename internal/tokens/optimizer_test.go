package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitscribe/pkg/models"
)

// wordCodec tokenizes on whitespace: one token per word. Deterministic and
// offline, so budget arithmetic in tests is exact.
type wordCodec struct {
	words []string
	ids   map[string]int
}

func newWordCodec() *wordCodec {
	return &wordCodec{ids: make(map[string]int)}
}

func (c *wordCodec) Encode(text string) []int {
	var out []int
	for _, w := range strings.Fields(text) {
		id, ok := c.ids[w]
		if !ok {
			id = len(c.words)
			c.words = append(c.words, w)
			c.ids[w] = id
		}
		out = append(out, id)
	}
	return out
}

func (c *wordCodec) Decode(tokens []int) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = c.words[t]
	}
	return strings.Join(parts, " ")
}

// runeCostCodec charges one token per rune, except the truncation marker
// which costs two. Re-encoding a truncated string then exceeds the budget it
// was cut to, which is how marker overhead shows up with a real BPE.
type runeCostCodec struct{}

func (runeCostCodec) Encode(text string) []int {
	var out []int
	for _, r := range text {
		out = append(out, int(r))
		if string(r) == truncationMarker {
			out = append(out, int(r))
		}
	}
	return out
}

func (runeCostCodec) Decode(tokens []int) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteRune(rune(t))
	}
	return b.String()
}

func repeatWords(word string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = word + string(rune('a'+i%26))
	}
	return strings.Join(parts, " ")
}

func sampleContext() *models.CommitContext {
	return &models.CommitContext{
		Branch: "main",
		RecentCommits: []models.RecentCommit{
			{Hash: "aaa111", Message: repeatWords("fix", 10)},
			{Hash: "bbb222", Message: repeatWords("add", 10)},
			{Hash: "ccc333", Message: repeatWords("doc", 10)},
		},
		StagedFiles: []models.StagedFile{
			{Path: "server.go", ChangeType: models.ChangeTypeModified, Diff: repeatWords("line", 200)},
			{Path: "client.go", ChangeType: models.ChangeTypeAdded, Diff: repeatWords("code", 200)},
		},
		UnstagedFiles: []string{"notes.txt", "scratch.md"},
	}
}

func TestTruncate(t *testing.T) {
	o := NewOptimizerWithCodec(newWordCodec())

	require.Equal(t, "one two three", o.Truncate("one two three", 10), "within budget is untouched")
	require.Equal(t, "one two"+truncationMarker, o.Truncate("one two three four", 3))
	require.Equal(t, truncationMarker, o.Truncate("one two three", 1))
	require.Equal(t, "", o.Truncate("one two three", 0))
}

func TestOptimizeIdempotentWithinBudget(t *testing.T) {
	o := NewOptimizerWithCodec(newWordCodec())
	ctx := sampleContext()
	budget := o.TotalTokens(ctx) + 1

	want := ctx.Clone()
	o.Optimize(ctx, budget)
	require.Equal(t, want, ctx, "context within budget must not change")
}

func TestOptimizeBudgetInvariant(t *testing.T) {
	for _, maxTokens := range []int{0, 1, 5, 17, 50, 120, 431} {
		o := NewOptimizerWithCodec(newWordCodec())
		ctx := sampleContext()
		o.Optimize(ctx, maxTokens)

		total := o.TotalTokens(ctx)
		empty := len(ctx.RecentCommits) == 0 && len(ctx.StagedFiles) == 0 && len(ctx.UnstagedFiles) == 0
		if total > maxTokens && !empty {
			t.Fatalf("maxTokens=%d: total %d over budget with non-empty context", maxTokens, total)
		}
	}
}

func TestOptimizeTruncationMarker(t *testing.T) {
	o := NewOptimizerWithCodec(newWordCodec())
	ctx := sampleContext()
	before := ctx.Clone()
	o.Optimize(ctx, 50)

	for i, f := range ctx.StagedFiles {
		if o.Count(f.Diff) < o.Count(before.StagedFiles[i].Diff) {
			require.True(t, strings.HasSuffix(f.Diff, truncationMarker),
				"truncated diff for %s must end with the marker", f.Path)
		}
	}
	for i, c := range ctx.RecentCommits {
		if o.Count(c.Message) < o.Count(before.RecentCommits[i].Message) {
			require.True(t, strings.HasSuffix(c.Message, truncationMarker),
				"truncated commit %s must end with the marker", c.Hash)
		}
	}
}

func TestOptimizeEndToEnd(t *testing.T) {
	o := NewOptimizerWithCodec(newWordCodec())
	ctx := sampleContext()
	o.Optimize(ctx, 50)

	require.LessOrEqual(t, o.TotalTokens(ctx), 50)

	// The most recent commit fits its sub-budget whole.
	require.NotEmpty(t, ctx.RecentCommits)
	require.Equal(t, repeatWords("fix", 10), ctx.RecentCommits[0].Message)

	truncated := false
	for _, f := range ctx.StagedFiles {
		if strings.HasSuffix(f.Diff, truncationMarker) {
			truncated = true
		}
	}
	require.True(t, truncated, "expected at least one staged diff to carry the marker")
}

func TestOptimizeZeroBudgetDropsEverything(t *testing.T) {
	o := NewOptimizerWithCodec(newWordCodec())
	ctx := sampleContext()
	o.Optimize(ctx, 0)

	require.Empty(t, ctx.RecentCommits)
	require.Empty(t, ctx.StagedFiles)
	require.Empty(t, ctx.UnstagedFiles)
}

func TestOptimizeRemovesTailOnMarkerOverhead(t *testing.T) {
	o := NewOptimizerWithCodec(runeCostCodec{})
	ctx := &models.CommitContext{
		RecentCommits: []models.RecentCommit{{Hash: "a", Message: "abcdef"}},
		StagedFiles:   []models.StagedFile{{Path: "x.go", Diff: "ghijkl"}},
		UnstagedFiles: []string{"mnopqr"},
	}

	// Thirds of 9 give each category 3 tokens; every truncated payload
	// re-encodes to 4, so the tail pass must drop the unstaged entry.
	o.Optimize(ctx, 9)

	require.LessOrEqual(t, o.TotalTokens(ctx), 9)
	require.Empty(t, ctx.UnstagedFiles, "unstaged entries are removed first")
	require.Len(t, ctx.StagedFiles, 1)
	require.Len(t, ctx.RecentCommits, 1)
}
