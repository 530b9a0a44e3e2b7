// Package gitutil gathers repository facts for the context assembler and
// performs the final commit. Branch, history, and status come from go-git;
// diff text and the commit itself go through the git binary, which owns
// porcelain diff formatting and hook execution.
package gitutil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"

	"github.com/gitscribe/pkg/models"
)

// ErrNotARepository marks an invocation outside a git work tree. Fatal and
// immediate.
var ErrNotARepository = errors.New("not a git repository")

// ErrNoStagedChanges marks an invocation with nothing in the index to
// describe.
var ErrNoStagedChanges = errors.New("no staged changes")

// MaxRecentCommits bounds how much history is collected per context.
const MaxRecentCommits = 10

// Repo wraps an opened repository rooted at Path.
type Repo struct {
	Path string
	repo *git.Repository
}

// Open locates the repository containing path, walking up to the nearest
// .git directory.
func Open(path string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotARepository, path)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return &Repo{Path: path, repo: repo}, nil
}

// Facts is the raw snapshot the context assembler consumes.
type Facts struct {
	Branch        string
	RecentCommits []models.RecentCommit
	StagedFiles   []models.StagedFile
	UnstagedFiles []string
	UserName      string
	UserEmail     string
}

// Facts collects the current branch, recent history, the staged and unstaged
// file sets, and the configured user identity. Staged entries carry their
// cached diff text.
func (r *Repo) Facts(ctx context.Context) (*Facts, error) {
	facts := &Facts{Branch: r.branchName()}

	commits, err := r.recentCommits(MaxRecentCommits)
	if err != nil {
		return nil, fmt.Errorf("reading commit history: %w", err)
	}
	facts.RecentCommits = commits

	if err := r.collectStatus(ctx, facts); err != nil {
		return nil, err
	}

	facts.UserName, facts.UserEmail = r.userIdentity()
	return facts, nil
}

func (r *Repo) branchName() string {
	head, err := r.repo.Head()
	if err != nil {
		// Unborn branch in a fresh repository.
		return "HEAD"
	}
	if head.Name().IsBranch() {
		return head.Name().Short()
	}
	return "HEAD (detached)"
}

func (r *Repo) recentCommits(max int) ([]models.RecentCommit, error) {
	iter, err := r.repo.Log(&git.LogOptions{})
	if err != nil {
		// No HEAD yet means no history, which is fine.
		return nil, nil
	}
	defer iter.Close()

	var out []models.RecentCommit
	for len(out) < max {
		c, err := iter.Next()
		if err != nil {
			break
		}
		out = append(out, models.RecentCommit{
			Hash:      c.Hash.String()[:7],
			Message:   strings.TrimSpace(c.Message),
			Author:    c.Author.Name,
			Timestamp: c.Author.When.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (r *Repo) collectStatus(ctx context.Context, facts *Facts) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}

	paths := make([]string, 0, len(status))
	for path := range status {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		fs := status[path]
		if ct, staged := stagedChangeType(fs.Staging); staged {
			diff, err := r.stagedDiff(ctx, path)
			if err != nil {
				return err
			}
			facts.StagedFiles = append(facts.StagedFiles, models.StagedFile{
				Path:       path,
				ChangeType: ct,
				Diff:       diff,
			})
		}
		if fs.Worktree == git.Untracked || fs.Worktree == git.Modified || fs.Worktree == git.Deleted {
			facts.UnstagedFiles = append(facts.UnstagedFiles, path)
		}
	}
	return nil
}

func stagedChangeType(code git.StatusCode) (models.ChangeType, bool) {
	switch code {
	case git.Added, git.Copied:
		return models.ChangeTypeAdded, true
	case git.Modified, git.Renamed:
		return models.ChangeTypeModified, true
	case git.Deleted:
		return models.ChangeTypeDeleted, true
	default:
		return "", false
	}
}

// stagedDiff returns the cached diff for one path via the git CLI.
func (r *Repo) stagedDiff(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", r.Path, "diff", "--cached", "--", path)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", path, err)
	}
	return string(out), nil
}

func (r *Repo) userIdentity() (string, string) {
	cfg, err := r.repo.ConfigScoped(gitconfig.GlobalScope)
	if err != nil {
		return "", ""
	}
	return cfg.User.Name, cfg.User.Email
}

// Commit records the staged changes with message, running hooks unless
// noVerify is set. Failures carry git's own stderr so the user sees what the
// hook or git itself complained about.
func (r *Repo) Commit(ctx context.Context, message string, noVerify bool) error {
	args := []string{"-C", r.Path, "commit", "-m", message}
	if noVerify {
		args = append(args, "--no-verify")
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git commit failed: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
