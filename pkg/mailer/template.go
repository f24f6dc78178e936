package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var frontmatterDelimiter = []byte("---")

// Template is a parsed template file: frontmatter metadata plus markdown body.
type Template struct {
	Metadata map[string]any
	Body     string
}

// ParseTemplate splits content into YAML frontmatter and body.
// Content without a leading "---" line is all body.
func ParseTemplate(content []byte) (*Template, error) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))

	rest, ok := bytes.CutPrefix(content, frontmatterDelimiter)
	if !ok {
		return &Template{Metadata: map[string]any{}, Body: string(content)}, nil
	}
	rest = bytes.TrimLeft(rest, "\r\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	// An empty frontmatter block leaves the closing delimiter at the very start.
	var head, body []byte
	if after, found := bytes.CutPrefix(rest, frontmatterDelimiter); found {
		body = after
	} else {
		var found bool
		head, body, found = bytes.Cut(rest, append([]byte("\n"), frontmatterDelimiter...))
		if !found {
			return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
		}
	}

	body = trimOneNewline(body)

	metadata := map[string]any{}
	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return &Template{Metadata: metadata, Body: string(body)}, nil
}

func trimOneNewline(b []byte) []byte {
	if after, ok := bytes.CutPrefix(b, []byte("\r\n")); ok {
		return after
	}
	if after, ok := bytes.CutPrefix(b, []byte("\n")); ok {
		return after
	}
	return b
}
