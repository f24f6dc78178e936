package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Storage defines the interface for URI-addressed file storage.
type Storage interface {
	// EnsureDir makes sure the directory at uri is usable for writes.
	// Without CreateDirectory a missing directory is an error.
	// Without ModifyPermissions a read-only directory is an error.
	EnsureDir(ctx context.Context, uri string, flags DirFlag) error

	// Put writes data from a reader to uri, replacing any existing file.
	// The size parameter is used for content-length header.
	Put(ctx context.Context, uri string, r io.Reader, size int64, opts ...Option) (*FileInfo, error)

	// Get retrieves a file from storage.
	// The caller is responsible for closing the returned reader.
	Get(ctx context.Context, uri string) (io.ReadCloser, error)

	// Delete removes a file. Deleting a file that does not exist succeeds.
	Delete(ctx context.Context, uri string) error
}

// Sweeper is implemented by backends that can enumerate and expire their own files.
type Sweeper interface {
	// CleanupOlderThan removes regular files under dirURI whose modification
	// time is older than age. It returns the number of removed files.
	CleanupOlderThan(ctx context.Context, dirURI string, age time.Duration) (int, error)
}

// DirFlag controls EnsureDir behaviour.
type DirFlag uint8

const (
	// CreateDirectory creates the directory (and parents) when missing.
	CreateDirectory DirFlag = 1 << iota
	// ModifyPermissions makes an existing read-only directory writable.
	ModifyPermissions
)

// Has reports whether all bits of flag are set.
func (f DirFlag) Has(flag DirFlag) bool {
	return f&flag == flag
}

// FileInfo contains metadata about a stored file.
type FileInfo struct {
	// URI is the canonical stream URI of the file.
	URI string

	// ContentType is the MIME type.
	ContentType string

	// Size is the file size in bytes.
	Size int64
}

// Driver selects a storage backend.
type Driver string

const (
	DriverLocal Driver = "local"
	DriverS3    Driver = "s3"
)

// Config selects and configures the storage backend.
type Config struct {
	Driver Driver `env:"STORAGE_DRIVER" envDefault:"local"`
	Local  LocalConfig
	S3     S3Config
}

// Open builds the backend selected by cfg.Driver.
func Open(cfg Config) (Storage, error) {
	switch cfg.Driver {
	case DriverLocal, "":
		return NewLocal(cfg.Local)
	case DriverS3:
		return NewS3(cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
