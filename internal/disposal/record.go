package disposal

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/pdfmail/pkg/storage"
)

// Record references one artifact to delete.
type Record struct {
	URI string `json:"uri"`
}

// Validate checks that the URI is present and addresses a file in a known scheme.
func (r Record) Validate() error {
	if strings.TrimSpace(r.URI) == "" {
		return fmt.Errorf("%w: empty uri", ErrInvalidRecord)
	}
	u, err := storage.ParseURI(r.URI)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if u.IsRoot() {
		return fmt.Errorf("%w: %s is a scheme root", ErrInvalidRecord, r.URI)
	}
	return nil
}
