// Package deckimport reconciles markdown deck sources into a user's decks.
//
// A source is a local directory or a git URL; every .md file inside becomes
// one deck, identified by its path. Cards are matched across imports by
// content hash: unchanged cards keep their scheduling state, new hashes are
// inserted, and imported cards whose hash no longer appears in the file are
// deleted as orphans. Hand-created cards in the same deck are never touched.
package deckimport

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/recallbox/recallbox/internal/cardhash"
	"github.com/recallbox/recallbox/internal/domain"
	"github.com/recallbox/recallbox/internal/gitsource"
	"github.com/recallbox/recallbox/internal/parser"
	"github.com/recallbox/recallbox/internal/storage"
)

// Importer runs source reconciliation for one user.
type Importer struct {
	db       *storage.DB
	reposDir string
	now      func() time.Time
}

// New creates an importer that keeps git checkouts under reposDir.
func New(db *storage.DB, reposDir string) *Importer {
	return &Importer{db: db, reposDir: reposDir, now: time.Now}
}

// NewWithClock creates an importer with an injected time source.
func NewWithClock(db *storage.DB, reposDir string, now func() time.Time) *Importer {
	return &Importer{db: db, reposDir: reposDir, now: now}
}

// IsGitSource reports whether a source string names a git repository rather
// than a local directory.
func IsGitSource(source string) bool {
	return strings.HasSuffix(source, ".git") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "http://")
}

// Run reconciles all sources into the user's decks. Individual source
// failures are logged and skipped so one broken source cannot block the
// rest.
func (im *Importer) Run(userID string, sources []string) {
	slog.Info("starting deck import", "user", userID, "sources", len(sources))

	for _, source := range sources {
		dir := source
		if IsGitSource(source) {
			localPath, err := gitURLToLocalPath(im.reposDir, source)
			if err != nil {
				slog.Error("error determining local path for git repo", "url", source, "error", err)
				continue
			}
			if err := gitsource.Sync(source, localPath); err != nil {
				slog.Error("error syncing git repo", "url", source, "error", err)
				continue
			}
			dir = localPath
		}
		im.reconcileDir(userID, dir)
	}

	slog.Info("deck import complete", "user", userID)
}

// reconcileDir walks a directory and reconciles every .md file as a deck.
func (im *Importer) reconcileDir(userID, dir string) {
	var files, errs int

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			files++
			if err := im.ReconcileFile(userID, path); err != nil {
				errs++
				slog.Error("failed to reconcile deck file", "path", path, "error", err)
			}
		}
		return nil
	})
	if walkErr != nil {
		slog.Error("error walking source directory", "dir", dir, "error", walkErr)
		return
	}

	slog.Info("source reconciled", "dir", dir, "decks", files, "errors", errs)
}

// ReconcileFile imports one deck file, creating the deck on first sight.
func (im *Importer) ReconcileFile(userID, path string) error {
	parsed, err := parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	deck, err := im.db.FindDeckBySource(userID, path)
	if err == domain.ErrNotFound {
		name := parsed.Title
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		deckID, insertErr := im.db.InsertSourceDeck(userID, name, path)
		if insertErr != nil {
			return insertErr
		}
		deck, err = im.db.GetDeck(userID, deckID)
	}
	if err != nil {
		return err
	}

	existing, err := im.db.ListCardsByDeck(userID, deck.ID)
	if err != nil {
		return err
	}
	byHash := make(map[string]domain.Card, len(existing))
	for _, c := range existing {
		if c.ImportHash != "" {
			byHash[c.ImportHash] = c
		}
	}

	now := im.now()
	found := make(map[string]bool, len(parsed.Cards))
	var inserted int
	for _, pc := range parsed.Cards {
		hash := cardhash.Hash(pc.Front, pc.Back)
		found[hash] = true
		if _, ok := byHash[hash]; ok {
			continue
		}
		if _, err := im.db.InsertImportedCard(userID, deck.ID, pc.Front, pc.Back, hash, now); err != nil {
			return err
		}
		inserted++
	}

	var orphaned int
	for hash, card := range byHash {
		if found[hash] {
			continue
		}
		if err := im.db.DeleteCard(userID, card.ID, now); err != nil {
			slog.Warn("failed to delete orphaned card", "card", card.ID, "error", err)
			continue
		}
		orphaned++
	}

	slog.Info("deck reconciled",
		"path", path,
		"parsed_cards", len(parsed.Cards),
		"inserted", inserted,
		"orphaned_deleted", orphaned,
	)
	return nil
}

// gitURLToLocalPath maps a git URL to a stable checkout directory under
// baseDir.
func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		// scp-like syntax: git@host:user/repo.git
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
