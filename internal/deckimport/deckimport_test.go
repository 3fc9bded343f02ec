package deckimport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/recallbox/recallbox/internal/storage"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestImporter(t *testing.T) (*Importer, *storage.DB) {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWithClock(db, filepath.Join(dir, "repos"), func() time.Time { return testNow }), db
}

func writeDeckFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReconcileFileCreatesDeck(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()
	path := writeDeckFile(t, dir, "spanish.md", "# Spanish Basics\n\nF: hola\nB: hello\n---\nF: adiós\nB: goodbye\n")

	if err := im.ReconcileFile("alice", path); err != nil {
		t.Fatalf("ReconcileFile: %v", err)
	}

	deck, err := db.FindDeckBySource("alice", path)
	if err != nil {
		t.Fatalf("FindDeckBySource: %v", err)
	}
	if deck.Name != "Spanish Basics" {
		t.Errorf("deck name = %q, want Spanish Basics", deck.Name)
	}

	cards, err := db.ListCardsByDeck("alice", deck.ID)
	if err != nil {
		t.Fatalf("ListCardsByDeck: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(cards))
	}
	for _, c := range cards {
		if c.ImportHash == "" {
			t.Errorf("imported card %q has no import hash", c.Front)
		}
	}
}

func TestReconcileFileFallsBackToFilename(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()
	path := writeDeckFile(t, dir, "capitals.md", "F: France\nB: Paris\n")

	if err := im.ReconcileFile("alice", path); err != nil {
		t.Fatalf("ReconcileFile: %v", err)
	}
	deck, err := db.FindDeckBySource("alice", path)
	if err != nil {
		t.Fatalf("FindDeckBySource: %v", err)
	}
	if deck.Name != "capitals" {
		t.Errorf("deck name = %q, want capitals", deck.Name)
	}
}

func TestReconcileFileIsIdempotent(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()
	path := writeDeckFile(t, dir, "deck.md", "F: one\nB: uno\n---\nF: two\nB: dos\n")

	if err := im.ReconcileFile("alice", path); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	if err := im.ReconcileFile("alice", path); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}

	deck, _ := db.FindDeckBySource("alice", path)
	cards, _ := db.ListCardsByDeck("alice", deck.ID)
	if len(cards) != 2 {
		t.Errorf("got %d cards after re-import, want 2", len(cards))
	}
}

func TestReconcileFileRemovesOrphans(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()
	path := writeDeckFile(t, dir, "deck.md", "F: one\nB: uno\n---\nF: two\nB: dos\n")

	if err := im.ReconcileFile("alice", path); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}

	// "two" is removed from the file; "three" appears.
	writeDeckFile(t, dir, "deck.md", "F: one\nB: uno\n---\nF: three\nB: tres\n")
	if err := im.ReconcileFile("alice", path); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}

	deck, _ := db.FindDeckBySource("alice", path)
	cards, _ := db.ListCardsByDeck("alice", deck.ID)
	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(cards))
	}
	fronts := map[string]bool{}
	for _, c := range cards {
		fronts[c.Front] = true
	}
	if !fronts["one"] || !fronts["three"] || fronts["two"] {
		t.Errorf("fronts after reconcile = %v", fronts)
	}
}

func TestReconcileFileKeepsHandCreatedCards(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()
	path := writeDeckFile(t, dir, "deck.md", "F: one\nB: uno\n")

	if err := im.ReconcileFile("alice", path); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	deck, _ := db.FindDeckBySource("alice", path)

	// A card the user added by hand must survive re-imports even though its
	// content is not in the file.
	if _, err := db.InsertCard("alice", deck.ID, "extra", "manual", testNow); err != nil {
		t.Fatalf("InsertCard: %v", err)
	}
	if err := im.ReconcileFile("alice", path); err != nil {
		t.Fatalf("re-reconcile: %v", err)
	}

	cards, _ := db.ListCardsByDeck("alice", deck.ID)
	if len(cards) != 2 {
		t.Errorf("got %d cards, want imported + hand-created", len(cards))
	}
}

func TestIsGitSource(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://github.com/example/decks.git", true},
		{"git@github.com:example/decks.git", true},
		{"https://example.com/decks", true},
		{"/home/user/decks", false},
		{"./decks", false},
	}
	for _, tt := range tests {
		if got := IsGitSource(tt.source); got != tt.want {
			t.Errorf("IsGitSource(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestGitURLToLocalPath(t *testing.T) {
	t.Run("https URL", func(t *testing.T) {
		got, err := gitURLToLocalPath("repos", "https://github.com/example/decks.git")
		if err != nil {
			t.Fatalf("gitURLToLocalPath: %v", err)
		}
		want := filepath.Join("repos", "github.com", "example", "decks")
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("scp-like URL", func(t *testing.T) {
		got, err := gitURLToLocalPath("repos", "git@github.com:example/decks.git")
		if err != nil {
			t.Fatalf("gitURLToLocalPath: %v", err)
		}
		want := filepath.Join("repos", "github.com", "example", "decks")
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("unparseable", func(t *testing.T) {
		if _, err := gitURLToLocalPath("repos", "not a url"); err == nil {
			t.Error("expected error for unparseable URL")
		}
	})
}
