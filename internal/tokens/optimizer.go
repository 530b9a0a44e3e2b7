// Package tokens enforces the token budget on an assembled commit context
// before it is rendered into prompts. Counting uses the cl100k_base encoding,
// the same tokenizer family the chat backends bill against.
package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/gitscribe/pkg/models"
)

// encodingName is the BPE encoding used for all budget accounting.
const encodingName = "cl100k_base"

// truncationMarker is appended to any payload that was cut to fit its
// sub-budget. It encodes to a single token.
const truncationMarker = "…"

// Codec converts text to and from model tokens. The production codec wraps
// tiktoken; tests substitute a deterministic word-level codec.
type Codec interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenCodec struct {
	enc *tiktoken.Tiktoken
}

func (c tiktokenCodec) Encode(text string) []int {
	return c.enc.Encode(text, nil, nil)
}

func (c tiktokenCodec) Decode(tokens []int) string {
	return c.enc.Decode(tokens)
}

// Optimizer shrinks a CommitContext until its total token count fits a hard
// budget. It is the only component allowed to mutate an assembled context.
type Optimizer struct {
	codec Codec
}

// NewOptimizer returns an optimizer backed by the cl100k_base encoding.
func NewOptimizer() (*Optimizer, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("loading %s encoding: %w", encodingName, err)
	}
	return &Optimizer{codec: tiktokenCodec{enc: enc}}, nil
}

// NewOptimizerWithCodec substitutes the token codec; tests use it to keep
// budget arithmetic deterministic.
func NewOptimizerWithCodec(c Codec) *Optimizer {
	return &Optimizer{codec: c}
}

// Count returns the token count of text.
func (o *Optimizer) Count(text string) int {
	return len(o.codec.Encode(text))
}

// Truncate cuts text to at most budget tokens. A string that already fits is
// returned unchanged; otherwise the first budget-1 tokens are kept and the
// truncation marker is appended as the final token.
func (o *Optimizer) Truncate(text string, budget int) string {
	if budget <= 0 {
		return ""
	}
	toks := o.codec.Encode(text)
	if len(toks) <= budget {
		return text
	}
	if budget == 1 {
		return truncationMarker
	}
	return o.codec.Decode(toks[:budget-1]) + truncationMarker
}

// TotalTokens measures the budgeted payloads of a context: recent commit
// messages, staged diffs, and unstaged file names.
func (o *Optimizer) TotalTokens(ctx *models.CommitContext) int {
	total := 0
	for _, c := range ctx.RecentCommits {
		total += o.Count(c.Message)
	}
	for _, f := range ctx.StagedFiles {
		total += o.Count(f.Diff)
	}
	for _, p := range ctx.UnstagedFiles {
		total += o.Count(p)
	}
	return total
}

// Optimize shrinks ctx in place until TotalTokens(ctx) <= maxTokens or all
// three categories are empty. A context already within budget is left
// byte-for-byte unchanged.
//
// The budget is split into equal thirds for commits, staged files, and
// unstaged files, with the division remainder going to the unstaged bucket.
// Within a category, items keep their original order; each is truncated to
// the remaining sub-budget and items reached after the sub-budget is spent
// are dropped. If marker overhead leaves the grand total above budget, whole
// items are removed from the tail, unstaged first, then staged, then commits.
func (o *Optimizer) Optimize(ctx *models.CommitContext, maxTokens int) {
	if o.TotalTokens(ctx) <= maxTokens {
		return
	}

	commitBudget := maxTokens / 3
	stagedBudget := maxTokens / 3
	unstagedBudget := maxTokens - commitBudget - stagedBudget

	ctx.RecentCommits = o.fitCommits(ctx.RecentCommits, commitBudget)
	ctx.StagedFiles = o.fitStagedFiles(ctx.StagedFiles, stagedBudget)
	ctx.UnstagedFiles = o.fitUnstaged(ctx.UnstagedFiles, unstagedBudget)

	for o.TotalTokens(ctx) > maxTokens {
		switch {
		case len(ctx.UnstagedFiles) > 0:
			ctx.UnstagedFiles = ctx.UnstagedFiles[:len(ctx.UnstagedFiles)-1]
		case len(ctx.StagedFiles) > 0:
			ctx.StagedFiles = ctx.StagedFiles[:len(ctx.StagedFiles)-1]
		case len(ctx.RecentCommits) > 0:
			ctx.RecentCommits = ctx.RecentCommits[:len(ctx.RecentCommits)-1]
		default:
			return
		}
	}
}

func (o *Optimizer) fitCommits(commits []models.RecentCommit, budget int) []models.RecentCommit {
	remaining := budget
	kept := make([]models.RecentCommit, 0, len(commits))
	for _, c := range commits {
		if remaining <= 0 {
			break
		}
		c.Message = o.Truncate(c.Message, remaining)
		remaining -= o.Count(c.Message)
		kept = append(kept, c)
	}
	return kept
}

func (o *Optimizer) fitStagedFiles(files []models.StagedFile, budget int) []models.StagedFile {
	remaining := budget
	kept := make([]models.StagedFile, 0, len(files))
	for _, f := range files {
		if remaining <= 0 {
			break
		}
		f.Diff = o.Truncate(f.Diff, remaining)
		remaining -= o.Count(f.Diff)
		kept = append(kept, f)
	}
	return kept
}

func (o *Optimizer) fitUnstaged(paths []string, budget int) []string {
	remaining := budget
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if remaining <= 0 {
			break
		}
		p = o.Truncate(p, remaining)
		remaining -= o.Count(p)
		kept = append(kept, p)
	}
	return kept
}
