// Package corpus materializes the raw word-list corpus: it syncs a local
// clone of the upstream repository and publishes its content, without the
// git metadata, as the raw input directory of the pipeline.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Materialization stages, used to attribute errors.
const (
	StageFetch = "fetch"
	StageCopy  = "copy"
)

// ErrRepoMissing reports a skipped fetch without a local checkout.
var ErrRepoMissing = errors.New("corpus repository missing")

// Error attributes a materialization failure to a stage.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("corpus: %s: %v", e.Stage, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Config holds materializer settings.
type Config struct {
	RepoURL   string
	RepoDir   string
	OutputDir string
	SkipFetch bool
}

// Result summarizes a materialization.
type Result struct {
	Files    int
	Bytes    int64
	Duration time.Duration
}

// Materializer syncs the corpus repository and replaces the output directory
// with a copy of it.
type Materializer struct {
	fetcher Fetcher
	cfg     Config
	log     *slog.Logger
}

// NewMaterializer creates a Materializer.
func NewMaterializer(logger *slog.Logger, cfg Config, fetcher Fetcher) *Materializer {
	return &Materializer{
		fetcher: fetcher,
		cfg:     cfg,
		log:     logger.With("component", "corpus"),
	}
}

// Run syncs the repository, then swaps in a fresh copy of it as the output
// directory. The copy is assembled next to the output directory and renamed
// into place, so a failure leaves the previous output untouched.
func (m *Materializer) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	if m.cfg.SkipFetch {
		if _, err := os.Stat(m.cfg.RepoDir); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				err = fmt.Errorf("%s: %w", m.cfg.RepoDir, ErrRepoMissing)
			}
			return Result{}, &Error{Stage: StageFetch, Err: err}
		}
		m.log.InfoContext(ctx, "fetch skipped", slog.String("repo_dir", m.cfg.RepoDir))
	} else if err := m.fetcher.Sync(ctx, m.cfg.RepoURL, m.cfg.RepoDir); err != nil {
		return Result{}, &Error{Stage: StageFetch, Err: err}
	}

	res, err := m.replaceOutput(ctx)
	if err != nil {
		return Result{}, &Error{Stage: StageCopy, Err: err}
	}
	res.Duration = time.Since(start)

	m.log.InfoContext(ctx, "corpus materialized",
		slog.String("output_dir", m.cfg.OutputDir),
		slog.Int("files", res.Files),
		slog.Int64("bytes", res.Bytes),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

func (m *Materializer) replaceOutput(ctx context.Context) (res Result, err error) {
	out := filepath.Clean(m.cfg.OutputDir)
	parent := filepath.Dir(out)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return Result{}, fmt.Errorf("create parent of %s: %w", out, err)
	}

	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(out)+".tmp-*")
	if err != nil {
		return Result{}, fmt.Errorf("create staging dir: %w", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(tmp)
		}
	}()

	res, err = copyTree(ctx, m.cfg.RepoDir, tmp)
	if err != nil {
		return Result{}, err
	}
	if err := os.Chmod(tmp, 0o755); err != nil {
		return Result{}, fmt.Errorf("chmod staging dir: %w", err)
	}

	var old string
	if _, statErr := os.Stat(out); statErr == nil {
		old = tmp + ".old"
		if err := os.Rename(out, old); err != nil {
			return Result{}, fmt.Errorf("move aside %s: %w", out, err)
		}
	}
	if err := os.Rename(tmp, out); err != nil {
		if old != "" {
			_ = os.Rename(old, out)
		}
		return Result{}, fmt.Errorf("swap in %s: %w", out, err)
	}
	if old != "" {
		if err := os.RemoveAll(old); err != nil {
			m.log.WarnContext(ctx, "remove previous output", slog.String("path", old), slog.String("error", err.Error()))
		}
	}
	return res, nil
}

// copyTree copies src into dst, skipping the top-level .git directory.
func copyTree(ctx context.Context, src, dst string) (Result, error) {
	var res Result
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if rel == ".git" {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.Type().IsRegular():
			n, err := copyFile(path, target)
			if err != nil {
				return err
			}
			res.Files++
			res.Bytes += n
			return nil
		default:
			return nil
		}
	})
	if err != nil {
		return Result{}, fmt.Errorf("copy %s: %w", src, err)
	}
	return res, nil
}

func copyFile(src, dst string) (n int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	n, err = io.Copy(out, in)
	if err != nil {
		return n, err
	}
	return n, nil
}
