package document

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"workorders/internal/apperr"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), 1<<20, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestStoreSave(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Save(strings.NewReader("hello"), "manual.pdf", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("expected .pdf suffix, got %q", name)
	}

	b, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("expected hello, got %q", b)
	}
}

func TestStoreSave_RejectsExtension(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Save(strings.NewReader("x"), "evil.exe", 1); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestStoreSave_RejectsOversize(t *testing.T) {
	s := newTestStore(t)
	s.MaxSize = 3
	if _, err := s.Save(strings.NewReader("toolong"), "doc.pdf", 7); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestStorePath_RefusesTraversal(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Path("../secrets.pdf"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreRemove_MissingFileIsQuiet(t *testing.T) {
	s := newTestStore(t)
	// must not panic or log an error for a file that is already gone
	s.Remove("nonexistent.pdf")
}
