package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `env:"S3_BUCKET"`

	// AccessKey is the AWS access key ID (required).
	AccessKey string `env:"S3_ACCESS_KEY"`

	// SecretKey is the AWS secret access key (required).
	SecretKey string `env:"S3_SECRET_KEY"`

	// Endpoint is the custom S3 endpoint URL (optional, for MinIO or other S3-compatible services).
	Endpoint string `env:"S3_ENDPOINT"`

	// Region is the AWS region (default: us-east-1).
	Region string `env:"S3_REGION" envDefault:"us-east-1"`

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `env:"S3_PATH_STYLE"`
}

// DefaultRegion is used when S3Config.Region is empty.
const DefaultRegion = "us-east-1"

func (c *S3Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

func (c *S3Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}

// S3Storage implements Storage using S3-compatible object storage.
// Each scheme is a key prefix: public://a/b.pdf is stored at "public/a/b.pdf".
type S3Storage struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3 creates a new S3Storage with the given configuration.
func NewS3(cfg S3Config) (*S3Storage, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3Storage{
		client: s3.New(s3.Options{}, opts...),
		cfg:    cfg,
	}, nil
}

// objectKey converts a URI into an object key.
func objectKey(u URI) string {
	if u.Path == "" {
		return string(u.Scheme) + "/"
	}
	return string(u.Scheme) + "/" + u.Path
}

// EnsureDir checks that the bucket is reachable and writable.
// Object storage has no directories, so the flags have nothing to create or modify.
func (s *S3Storage) EnsureDir(ctx context.Context, uri string, _ DirFlag) error {
	if _, err := ParseURI(uri); err != nil {
		return err
	}

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.cfg.Bucket),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDirectoryUnavailable, wrapS3Error(err, ErrAccessDenied))
	}
	return nil
}

// Put uploads data from a reader to S3, replacing any existing object.
func (s *S3Storage) Put(ctx context.Context, uri string, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	u, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if u.IsRoot() {
		return nil, fmt.Errorf("%w: %q has no file name", ErrInvalidURI, uri)
	}

	o := &putOptions{}
	for _, opt := range opts {
		opt(o)
	}
	contentType := o.contentType
	if contentType == "" {
		contentType, r = detectContentType(r)
	}

	// PutObject needs a seekable body to compute the payload checksum.
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: read input: %v", ErrUploadFailed, err)
		}
		body = bytes.NewReader(data)
		size = int64(len(data))
	}
	if size == 0 {
		return nil, ErrEmptyFile
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(objectKey(u)),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           aclFor(u.Scheme),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}

	return &FileInfo{
		URI:         u.String(),
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Get retrieves a file from S3.
func (s *S3Storage) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	u, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(objectKey(u)),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrNotFound)
	}

	return output.Body, nil
}

// Delete removes a file from S3. S3 reports success for missing keys;
// a NoSuchKey from compatible servers is treated the same way.
func (s *S3Storage) Delete(ctx context.Context, uri string) error {
	u, err := ParseURI(uri)
	if err != nil {
		return err
	}
	if u.IsRoot() {
		return fmt.Errorf("%w: refusing to delete %s root", ErrInvalidURI, u.Scheme)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(objectKey(u)),
	})
	if err != nil {
		wrapped := wrapS3Error(err, ErrDeleteFailed)
		if isNotFound(wrapped) {
			return nil
		}
		return wrapped
	}

	return nil
}

func aclFor(scheme Scheme) types.ObjectCannedACL {
	if scheme == SchemePublic {
		return types.ObjectCannedACLPublicRead
	}
	return types.ObjectCannedACLPrivate
}

var _ Storage = (*S3Storage)(nil)
