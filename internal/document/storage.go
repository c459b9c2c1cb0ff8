package document

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"workorders/internal/apperr"
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
}

// Store keeps uploaded reference documents on local disk. Only the bare
// stored filename is persisted in the database, never a full path.
type Store struct {
	Dir     string
	MaxSize int64
	Logger  *slog.Logger
}

func NewStore(dir string, maxSize int64, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir, MaxSize: maxSize, Logger: logger}, nil
}

// Save writes the upload to disk under a fresh uuid-prefixed name and returns
// that name. The caller persists it to the database afterwards; if that step
// fails the file is orphaned, which is tolerated as a housekeeping issue.
func (s *Store) Save(src io.Reader, originalName string, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: file type %q is not allowed", apperr.ErrValidation, ext)
	}
	if s.MaxSize > 0 && size > s.MaxSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", apperr.ErrValidation, s.MaxSize)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		s.Remove(name)
		return "", err
	}
	return name, nil
}

// Remove deletes a stored file. Best effort: a failure is logged and never
// propagated, so a superseded file that refuses to go away cannot fail the
// write that replaced it.
func (s *Store) Remove(name string) {
	if name == "" {
		return
	}
	if err := os.Remove(filepath.Join(s.Dir, filepath.Base(name))); err != nil && !os.IsNotExist(err) {
		s.Logger.Warn("failed to remove stored document", "name", name, "error", err)
	}
}

// Path resolves a stored name to its on-disk location, refusing anything that
// would escape the upload directory.
func (s *Store) Path(name string) (string, error) {
	base := filepath.Base(name)
	if base != name || name == "" || name == "." {
		return "", fmt.Errorf("%w: document", apperr.ErrNotFound)
	}
	p := filepath.Join(s.Dir, base)
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("%w: document", apperr.ErrNotFound)
	}
	return p, nil
}
