// Package sync reconciles question-pack sources into the question
// catalog. A source is a local directory or a git repository containing
// *.questions files; each file seeds one subject named after the file.
package sync

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pruvi/pruvi/internal/gitsource"
	"github.com/pruvi/pruvi/internal/parser"
	"github.com/pruvi/pruvi/internal/qhash"
	"github.com/pruvi/pruvi/internal/storage"
)

const packExtension = ".questions"

// SourceTypeFor classifies a source path as local or git.
func SourceTypeFor(path string) string {
	if strings.HasSuffix(path, ".git") || strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		return "git"
	}
	return "local"
}

// RunSync iterates over all registered sources and reconciles them.
// Git sources are cloned or pulled under reposDir first.
func RunSync(ctx context.Context, db *storage.DB, reposDir string) error {
	sources, err := db.GetAllSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sources: %w", err)
	}
	if len(sources) == 0 {
		slog.Info("no sources configured; add one with --add-source <path/or/url.git>")
		return nil
	}

	for _, source := range sources {
		slog.Info("syncing source", "id", source.ID, "type", source.Type, "path", source.Path)

		localPath := source.Path
		if source.Type == "git" {
			localPath, err = gitURLToLocalPath(reposDir, source.Path)
			if err != nil {
				slog.Error("could not determine local path for git repo", "url", source.Path, "error", err)
				continue
			}
			if err := gitsource.Sync(ctx, source.Path, localPath); err != nil {
				slog.Error("error syncing git repo", "url", source.Path, "error", err)
				continue
			}
		}

		if err := reconcileDirectory(ctx, db, localPath); err != nil {
			slog.Error("error reconciling source", "path", localPath, "error", err)
			continue
		}
		if err := db.UpdateSourceLastScanned(ctx, source.ID); err != nil {
			slog.Warn("failed to update last scanned for source", "source_id", source.ID, "error", err)
		}
	}
	slog.Info("sync complete")
	return nil
}

// reconcileDirectory walks a directory for question-pack files and
// inserts every unseen question. Questions that disappeared from their
// pack are counted but never deleted: review history may reference them
// and the catalog is append-only from the scheduler's point of view.
func reconcileDirectory(ctx context.Context, db *storage.DB, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), packExtension) {
			return nil
		}
		if err := reconcilePack(ctx, db, path); err != nil {
			slog.Error("error reconciling pack", "path", path, "error", err)
		}
		return nil
	})
}

func reconcilePack(ctx context.Context, db *storage.DB, path string) error {
	slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	subject, err := db.UpsertSubject(ctx, subjectName(slug), slug)
	if err != nil {
		return err
	}

	seeds, err := parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	known, err := db.QuestionHashesBySubject(ctx, subject.ID)
	if err != nil {
		return err
	}

	var inserted int
	found := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		hash := qhash.Hash(seed)
		found[hash] = true
		if known[hash] {
			continue
		}
		if _, err := db.InsertQuestion(ctx, seed, subject.ID, hash); err != nil {
			slog.Error("failed to insert question", "hash", hash, "error", err)
			continue
		}
		inserted++
	}

	var orphaned int
	for hash := range known {
		if !found[hash] {
			orphaned++
		}
	}

	slog.Info("pack reconciled",
		"subject", subject.Slug,
		"parsed", len(seeds),
		"inserted", inserted,
		"orphaned_kept", orphaned,
	)
	return nil
}

func subjectName(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "_", "-"), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}
