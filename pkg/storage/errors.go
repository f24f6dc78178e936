package storage

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Sentinel errors for storage operations.
var (
	// Configuration errors.
	ErrInvalidConfig = errors.New("storage: invalid configuration")
	ErrUnknownDriver = errors.New("storage: unknown driver")

	// URI errors.
	ErrInvalidURI    = errors.New("storage: invalid uri")
	ErrUnknownScheme = errors.New("storage: unknown scheme")

	// File and directory errors.
	ErrEmptyFile            = errors.New("storage: file is empty")
	ErrNotFound             = errors.New("storage: file not found")
	ErrAccessDenied         = errors.New("storage: access denied")
	ErrDirectoryUnavailable = errors.New("storage: directory unavailable")
	ErrUploadFailed         = errors.New("storage: upload failed")
	ErrDeleteFailed         = errors.New("storage: delete failed")
	ErrCleanupFailed        = errors.New("storage: cleanup failed")
)

// wrapS3Error wraps S3 errors with appropriate sentinel errors.
// Uses %v (not %w) for the original error so callers match on sentinels only.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
