// Package fs implements ports.DocumentStore on the local file system.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/bft-labs/anchorpatch/internal/domain"
)

// DocumentFileStore implements ports.DocumentStore using regular files.
type DocumentFileStore struct{}

// NewDocumentFileStore creates a new DocumentFileStore.
func NewDocumentFileStore() *DocumentFileStore {
	return &DocumentFileStore{}
}

// Load reads the whole file at path as UTF-8 text.
func (s *DocumentFileStore) Load(ctx context.Context, path string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.Document{}, domain.NewIOError(path, err)
	}
	if !info.Mode().IsRegular() {
		return domain.Document{}, domain.NewIOError(path, fmt.Errorf("not a regular file"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, domain.NewIOError(path, err)
	}
	if !utf8.Valid(data) {
		return domain.Document{}, domain.NewIOError(path, domain.ErrInvalidEncoding)
	}

	return domain.Document{
		Path: path,
		Text: string(data),
		Mode: info.Mode().Perm(),
	}, nil
}

// Save replaces doc.Path with doc.Text atomically.
// Uses atomic write (write to temp file in the same directory, then rename)
// so a failure never leaves a truncated target behind.
func (s *DocumentFileStore) Save(ctx context.Context, doc domain.Document) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, base := filepath.Split(doc.Path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return domain.NewIOError(doc.Path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.WriteString(doc.Text); err != nil {
		return domain.NewIOError(doc.Path, err)
	}
	if err = tmp.Sync(); err != nil {
		return domain.NewIOError(doc.Path, err)
	}

	mode := doc.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err = tmp.Chmod(mode); err != nil {
		return domain.NewIOError(doc.Path, err)
	}
	if err = tmp.Close(); err != nil {
		return domain.NewIOError(doc.Path, err)
	}

	// Atomic rename
	if err = os.Rename(tmpName, doc.Path); err != nil {
		return domain.NewIOError(doc.Path, err)
	}
	return nil
}
