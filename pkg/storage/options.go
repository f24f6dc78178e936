package storage

import (
	"bytes"
	"io"
	"net/http"
)

// MIMEOctetStream is used when no content type is given and detection fails.
const (
	MIMEOctetStream    = "application/octet-stream"
	mimeDetectionBytes = 512 // http.DetectContentType looks at up to 512 bytes
)

// Option configures Put operations.
type Option func(*putOptions)

type putOptions struct {
	contentType string // Override detected content type
}

// WithContentType sets the content type instead of sniffing it from the data.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

// detectContentType sniffs the MIME type from the first bytes of r and
// returns a reader that still yields the full stream.
func detectContentType(r io.Reader) (string, io.Reader) {
	head := make([]byte, mimeDetectionBytes)
	n, err := io.ReadFull(r, head)
	head = head[:n]
	if n == 0 && err != nil {
		return MIMEOctetStream, bytes.NewReader(nil)
	}

	ct := http.DetectContentType(head)
	if ct == "" {
		ct = MIMEOctetStream
	}
	return ct, io.MultiReader(bytes.NewReader(head), r)
}
