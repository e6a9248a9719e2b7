package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	git "gopkg.in/src-d/go-git.v4"
)

// Fetcher keeps a local checkout of a remote repository current.
type Fetcher interface {
	Sync(ctx context.Context, url, dir string) error
}

// GitFetcher clones url into dir on first use and pulls afterwards.
type GitFetcher struct {
	log *slog.Logger
}

// NewGitFetcher creates a GitFetcher.
func NewGitFetcher(logger *slog.Logger) *GitFetcher {
	return &GitFetcher{log: logger.With("adapter", "git")}
}

// Sync implements Fetcher. An already up-to-date checkout is not an error.
func (g *GitFetcher) Sync(ctx context.Context, url, dir string) error {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		g.log.InfoContext(ctx, "cloning corpus", slog.String("url", url), slog.String("dir", dir))
		if _, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{URL: url}); err != nil {
			return fmt.Errorf("clone %s: %w", url, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("stat %s: %w", dir, err)
	}

	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("open %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree %s: %w", dir, err)
	}

	g.log.InfoContext(ctx, "pulling corpus", slog.String("dir", dir))
	err = wt.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		g.log.InfoContext(ctx, "corpus already up to date", slog.String("dir", dir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("pull %s: %w", dir, err)
	}
	return nil
}
