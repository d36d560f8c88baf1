package ports

import (
	"context"

	"github.com/bft-labs/anchorpatch/internal/domain"
)

// DocumentStore reads and writes target documents.
type DocumentStore interface {
	// Load reads the document at path.
	// Returns an error if the file is missing, unreadable or not UTF-8.
	Load(ctx context.Context, path string) (domain.Document, error)

	// Save replaces the file at doc.Path with doc.Text.
	// The implementation must be atomic: readers observe either the old or the
	// new content, never a partial write.
	Save(ctx context.Context, doc domain.Document) error
}
