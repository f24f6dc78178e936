package storage

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// Scheme names a storage area.
type Scheme string

const (
	SchemePublic    Scheme = "public"
	SchemePrivate   Scheme = "private"
	SchemeTemporary Scheme = "temporary"
)

const schemeSeparator = "://"

var knownSchemes = []Scheme{SchemePublic, SchemePrivate, SchemeTemporary}

// Valid reports whether s is one of the known schemes.
func (s Scheme) Valid() bool {
	return slices.Contains(knownSchemes, s)
}

// URI is a parsed stream URI.
// Path is slash-separated, relative, and never contains "..".
// An empty Path addresses the root of the scheme.
type URI struct {
	Scheme Scheme
	Path   string
}

// ParseURI parses raw into a URI.
// It rejects absolute paths and any ".." segment instead of cleaning them away.
func ParseURI(raw string) (URI, error) {
	scheme, p, ok := strings.Cut(raw, schemeSeparator)
	if !ok || scheme == "" {
		return URI{}, fmt.Errorf("%w: %q", ErrInvalidURI, raw)
	}

	s := Scheme(strings.ToLower(scheme))
	if !s.Valid() {
		return URI{}, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}

	if strings.ContainsRune(p, '\\') || strings.ContainsRune(p, 0) {
		return URI{}, fmt.Errorf("%w: %q", ErrInvalidURI, raw)
	}
	if slices.Contains(strings.Split(p, "/"), "..") {
		return URI{}, fmt.Errorf("%w: path traversal in %q", ErrInvalidURI, raw)
	}

	p = strings.Trim(p, "/")
	if p != "" {
		p = path.Clean(p)
	}
	if p == "." {
		p = ""
	}

	return URI{Scheme: s, Path: p}, nil
}

// MustParseURI is like ParseURI but panics on error.
func MustParseURI(raw string) URI {
	u, err := ParseURI(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// String returns the canonical scheme://path form.
func (u URI) String() string {
	return string(u.Scheme) + schemeSeparator + u.Path
}

// Join appends path elements to the URI.
// Elements are joined as-is; callers must sanitize untrusted names first.
func (u URI) Join(elem ...string) URI {
	parts := make([]string, 0, len(elem)+1)
	if u.Path != "" {
		parts = append(parts, u.Path)
	}
	parts = append(parts, elem...)
	return URI{Scheme: u.Scheme, Path: strings.Trim(path.Join(parts...), "/")}
}

// Dir returns the URI of the containing directory.
func (u URI) Dir() URI {
	d := path.Dir(u.Path)
	if d == "." || d == "/" {
		d = ""
	}
	return URI{Scheme: u.Scheme, Path: d}
}

// Base returns the last element of the path.
func (u URI) Base() string {
	if u.Path == "" {
		return ""
	}
	return path.Base(u.Path)
}

// IsRoot reports whether the URI addresses the scheme root.
func (u URI) IsRoot() bool {
	return u.Path == ""
}
