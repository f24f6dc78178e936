package artifact

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/dmitrymomot/pdfmail/internal/content"
	"github.com/dmitrymomot/pdfmail/pkg/storage"
)

const fileExt = ".pdf"

// maxNameBytes is the file name limit of common local filesystems.
const maxNameBytes = 255

// Naming selects how artifact paths are derived from an entity.
type Naming string

const (
	// NamingLabel stores {dir}/{label}.pdf. Entities sharing a label
	// overwrite each other's artifact; the last writer wins.
	NamingLabel Naming = "label"
	// NamingID stores {dir}/{id}/{label}.pdf.
	NamingID Naming = "id"
)

// Valid reports whether n is a known strategy.
func (n Naming) Valid() bool {
	return n == NamingLabel || n == NamingID
}

// artifactURI returns where the artifact of e is stored.
func (c Config) artifactURI(e *content.Entity) (storage.URI, error) {
	dir, err := storage.ParseURI(c.OutputDir)
	if err != nil {
		return storage.URI{}, err
	}

	name := FileName(e)
	if c.Naming == NamingID {
		return dir.Join(strconv.FormatInt(e.ID, 10), name), nil
	}
	return dir.Join(name), nil
}

// FileName returns the attachment name for e: its label made safe for
// use as a single path element, plus ".pdf". Labels that sanitize to
// nothing fall back to the entity id. Long labels are cut on a rune
// boundary so the name fits in maxNameBytes.
func FileName(e *content.Entity) string {
	base := truncateBytes(sanitizeLabel(e.Label), maxNameBytes-len(fileExt))
	if base == "" {
		base = strconv.FormatInt(e.ID, 10)
	}
	return base + fileExt
}

func sanitizeLabel(label string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return -1
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, label)

	for strings.Contains(s, "..") {
		s = strings.ReplaceAll(s, "..", "")
	}
	return strings.Trim(s, ". ")
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return strings.TrimRight(s[:cut], ". ")
}
