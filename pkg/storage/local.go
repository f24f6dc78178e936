package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalConfig maps schemes to directories on the local filesystem.
type LocalConfig struct {
	PublicDir    string `env:"STORAGE_PUBLIC_DIR" envDefault:"./var/public"`
	PrivateDir   string `env:"STORAGE_PRIVATE_DIR" envDefault:"./var/private"`
	TemporaryDir string `env:"STORAGE_TEMPORARY_DIR"`

	// Modes default to DefaultDirMode and DefaultFileMode.
	DirMode  fs.FileMode
	FileMode fs.FileMode
}

// Default local storage values.
const (
	DefaultDirMode  fs.FileMode = 0o775
	DefaultFileMode fs.FileMode = 0o664
)

const tempFilePattern = ".put-*"

func (c *LocalConfig) applyDefaults() {
	if c.TemporaryDir == "" {
		c.TemporaryDir = filepath.Join(os.TempDir(), "pdfmail")
	}
	if c.DirMode == 0 {
		c.DirMode = DefaultDirMode
	}
	if c.FileMode == 0 {
		c.FileMode = DefaultFileMode
	}
}

func (c *LocalConfig) validate() error {
	if c.PublicDir == "" || c.PrivateDir == "" {
		return fmt.Errorf("%w: public and private directories are required", ErrInvalidConfig)
	}
	return nil
}

// Local implements Storage and Sweeper on the local filesystem.
type Local struct {
	roots    map[Scheme]string
	dirMode  fs.FileMode
	fileMode fs.FileMode
}

// NewLocal creates a local filesystem backend.
// Scheme roots are resolved to absolute paths but not created; use EnsureDir.
func NewLocal(cfg LocalConfig) (*Local, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	roots := make(map[Scheme]string, len(knownSchemes))
	for scheme, dir := range map[Scheme]string{
		SchemePublic:    cfg.PublicDir,
		SchemePrivate:   cfg.PrivateDir,
		SchemeTemporary: cfg.TemporaryDir,
	} {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve %s root: %v", ErrInvalidConfig, scheme, err)
		}
		roots[scheme] = abs
	}

	return &Local{
		roots:    roots,
		dirMode:  cfg.DirMode,
		fileMode: cfg.FileMode,
	}, nil
}

// Path returns the filesystem path that uri resolves to.
func (s *Local) Path(uri string) (string, error) {
	u, err := ParseURI(uri)
	if err != nil {
		return "", err
	}
	return s.resolve(u)
}

// resolve maps a parsed URI onto the filesystem and verifies it stays under its root.
func (s *Local) resolve(u URI) (string, error) {
	root, ok := s.roots[u.Scheme]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, u.Scheme)
	}

	full := filepath.Join(root, filepath.FromSlash(u.Path))
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes %s root", ErrInvalidURI, u.String(), u.Scheme)
	}
	return full, nil
}

// EnsureDir makes sure the directory at uri exists and is writable.
func (s *Local) EnsureDir(ctx context.Context, uri string, flags DirFlag) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := s.Path(uri)
	if err != nil {
		return err
	}

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !flags.Has(CreateDirectory) {
			return fmt.Errorf("%w: %s does not exist", ErrDirectoryUnavailable, uri)
		}
		if err := os.MkdirAll(dir, s.dirMode); err != nil {
			return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	case !info.IsDir():
		return fmt.Errorf("%w: %s is not a directory", ErrDirectoryUnavailable, uri)
	}

	if info.Mode().Perm()&0o200 != 0 {
		return nil
	}
	if !flags.Has(ModifyPermissions) {
		return fmt.Errorf("%w: %s is not writable", ErrDirectoryUnavailable, uri)
	}
	if err := os.Chmod(dir, s.dirMode); err != nil {
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	return nil
}

// Put writes the file through a temporary sibling and renames it into place,
// so concurrent writers to the same uri never interleave bytes.
func (s *Local) Put(ctx context.Context, uri string, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if u.IsRoot() {
		return nil, fmt.Errorf("%w: %q has no file name", ErrInvalidURI, uri)
	}
	full, err := s.resolve(u)
	if err != nil {
		return nil, err
	}

	o := &putOptions{}
	for _, opt := range opts {
		opt(o)
	}
	contentType := o.contentType
	if contentType == "" {
		contentType, r = detectContentType(r)
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, s.dirMode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	tmp, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	written, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if written == 0 {
		return nil, ErrEmptyFile
	}
	if size > 0 && written != size {
		return nil, fmt.Errorf("%w: wrote %d bytes, expected %d", ErrUploadFailed, written, size)
	}

	if err := os.Chmod(tmp.Name(), s.fileMode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return &FileInfo{
		URI:         u.String(),
		ContentType: contentType,
		Size:        written,
	}, nil
}

// Get opens the file at uri.
func (s *Local) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := s.Path(uri)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrAccessDenied, uri)
		}
		return nil, err
	}
	return f, nil
}

// Delete removes the file at uri. A missing file is not an error.
func (s *Local) Delete(ctx context.Context, uri string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u, err := ParseURI(uri)
	if err != nil {
		return err
	}
	if u.IsRoot() {
		return fmt.Errorf("%w: refusing to delete %s root", ErrInvalidURI, u.Scheme)
	}
	full, err := s.resolve(u)
	if err != nil {
		return err
	}

	info, err := os.Lstat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrDeleteFailed, uri)
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

// CleanupOlderThan removes regular files under dirURI modified before now-age.
// Unreadable entries are skipped; a missing directory removes nothing.
func (s *Local) CleanupOlderThan(ctx context.Context, dirURI string, age time.Duration) (int, error) {
	root, err := s.Path(dirURI)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-age)
	removed := 0

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(p); err == nil {
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("%w: %v", ErrCleanupFailed, err)
	}

	return removed, nil
}

var (
	_ Storage = (*Local)(nil)
	_ Sweeper = (*Local)(nil)
)
