// Package session orchestrates one gitscribe invocation: it assembles the
// commit context, runs generations through the pipeline, and performs the
// final commit on behalf of the review UI.
package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gitscribe/internal/analyzer"
	"github.com/gitscribe/internal/gitutil"
	"github.com/gitscribe/internal/llm"
	"github.com/gitscribe/internal/logging"
	"github.com/gitscribe/internal/prompt"
	"github.com/gitscribe/internal/relevance"
	"github.com/gitscribe/internal/tokens"
	"github.com/gitscribe/pkg/models"
)

// Repository is the slice of gitutil the service needs; tests substitute a
// stub.
type Repository interface {
	Facts(ctx context.Context) (*gitutil.Facts, error)
	Commit(ctx context.Context, message string, noVerify bool) error
}

// Options fixes the per-invocation generation settings.
type Options struct {
	UseGitmoji  bool
	Preset      string
	DetailLevel prompt.DetailLevel
	TokenLimit  int
	NoVerify    bool
}

// Service drives generations for one invocation. The assembled context is
// cached so regenerations skip the repository scan; the cache is guarded for
// the render loop reading while a background task refreshes it.
type Service struct {
	repo      Repository
	pipeline  *llm.Pipeline
	optimizer *tokens.Optimizer
	opts      Options

	mu     sync.RWMutex
	cached *models.CommitContext
}

// NewService wires a service around an opened repository and a constructed
// pipeline.
func NewService(repo Repository, pipeline *llm.Pipeline, optimizer *tokens.Optimizer, opts Options) *Service {
	return &Service{
		repo:      repo,
		pipeline:  pipeline,
		optimizer: optimizer,
		opts:      opts,
	}
}

// Context returns the cached commit context, assembling it on first use.
func (s *Service) Context(ctx context.Context) (*models.CommitContext, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	return s.RefreshContext(ctx)
}

// RefreshContext rebuilds the context from repository facts and replaces the
// cache.
func (s *Service) RefreshContext(ctx context.Context) (*models.CommitContext, error) {
	built, err := s.buildContext(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cached = built
	s.mu.Unlock()
	return built, nil
}

func (s *Service) buildContext(ctx context.Context) (*models.CommitContext, error) {
	facts, err := s.repo.Facts(ctx)
	if err != nil {
		return nil, fmt.Errorf("gathering repository facts: %w", err)
	}
	if len(facts.StagedFiles) == 0 {
		return nil, gitutil.ErrNoStagedChanges
	}

	commitCtx := &models.CommitContext{
		Branch:        facts.Branch,
		RecentCommits: facts.RecentCommits,
		StagedFiles:   facts.StagedFiles,
		UnstagedFiles: facts.UnstagedFiles,
		UserName:      facts.UserName,
		UserEmail:     facts.UserEmail,
	}

	for i := range commitCtx.StagedFiles {
		f := &commitCtx.StagedFiles[i]
		if excludedContent(f.Path) {
			f.ContentExcluded = true
			f.Diff = ""
			continue
		}
		f.Analysis = analyzer.Get(f.Path).Analyze(f.Path, *f)
	}
	commitCtx.ProjectMeta = analyzer.DetectMetadata(commitCtx.StagedFiles)

	logging.GetCurrentLogger().Log("context assembled: %d commits, %d staged, %d unstaged",
		len(commitCtx.RecentCommits), len(commitCtx.StagedFiles), len(commitCtx.UnstagedFiles))
	return commitCtx, nil
}

// workingCopy returns a private deep copy of the cached context, assembling
// it on first use. The clone happens under the read lock so a concurrent
// SetUserInfo cannot swap the cache mid-copy.
func (s *Service) workingCopy(ctx context.Context) (*models.CommitContext, error) {
	if _, err := s.Context(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached.Clone(), nil
}

// GenerateMessage runs one full generation cycle: clone the cached context,
// bound it to the token budget, render prompts, and refine. The cached
// context itself is never mutated.
func (s *Service) GenerateMessage(ctx context.Context, instructions string) (models.GeneratedMessage, error) {
	working, err := s.workingCopy(ctx)
	if err != nil {
		return models.GeneratedMessage{}, err
	}
	s.optimizer.Optimize(working, s.tokenLimit())
	scores := relevance.Score(working)

	s.mu.RLock()
	preset := s.opts.Preset
	s.mu.RUnlock()

	systemPrompt := prompt.CreateSystemPrompt(prompt.Options{
		UseGitmoji:   s.opts.UseGitmoji,
		Preset:       preset,
		Instructions: instructions,
	})
	userPrompt := prompt.CreateUserPrompt(working, scores, s.opts.DetailLevel)

	msg, err := llm.Refine[models.GeneratedMessage](ctx, s.pipeline, systemPrompt, userPrompt)
	if err != nil {
		return models.GeneratedMessage{}, err
	}
	if !s.opts.UseGitmoji {
		msg.Emoji = ""
	}
	return msg, nil
}

// PerformCommit records msg as the commit for the staged changes.
func (s *Service) PerformCommit(ctx context.Context, msg models.GeneratedMessage) error {
	text := models.FormatCommitMessage(msg)
	if err := s.repo.Commit(ctx, text, s.opts.NoVerify); err != nil {
		logging.GetCurrentLogger().LogError("commit", err)
		return err
	}
	return nil
}

// SetPreset switches the stylistic preset for subsequent generations.
func (s *Service) SetPreset(name string) {
	s.mu.Lock()
	s.opts.Preset = name
	s.mu.Unlock()
}

// SetUserInfo overrides the author identity for subsequent generation
// cycles. The cache is replaced rather than mutated: snapshots already handed
// out stay immutable, so an orphaned generation can keep reading its copy.
func (s *Service) SetUserInfo(name, email string) {
	s.mu.Lock()
	if s.cached != nil {
		updated := s.cached.Clone()
		updated.UserName = name
		updated.UserEmail = email
		s.cached = updated
	}
	s.mu.Unlock()
}

// Provider names the backend in use, for the status line.
func (s *Service) Provider() string {
	return s.pipeline.Provider.Name()
}

func (s *Service) tokenLimit() int {
	if s.opts.TokenLimit > 0 {
		return s.opts.TokenLimit
	}
	return s.pipeline.Provider.DefaultTokenLimit()
}

// excludedContent reports whether a file's diff must be withheld from
// prompts: credentials and lockfiles add noise or risk without describing
// the change.
func excludedContent(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	switch base {
	case "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "cargo.lock", "go.sum", "composer.lock":
		return true
	}
	if strings.HasPrefix(base, ".env") {
		return true
	}
	switch filepath.Ext(base) {
	case ".pem", ".key", ".p12", ".pfx":
		return true
	}
	return false
}
