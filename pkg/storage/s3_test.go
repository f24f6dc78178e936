package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

func TestNewS3(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		store, err := NewS3(S3Config{
			Bucket:    "test-bucket",
			AccessKey: "test-access-key",
			SecretKey: "test-secret-key",
		})
		require.NoError(t, err)
		require.NotNil(t, store.client)
		require.Equal(t, DefaultRegion, store.cfg.Region)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		store, err := NewS3(S3Config{})
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.Nil(t, store)
	})
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "public/emailed_pdfs/a b.pdf", objectKey(MustParseURI("public://emailed_pdfs/a b.pdf")))
	require.Equal(t, "private/", objectKey(URI{Scheme: SchemePrivate}))
	require.Equal(t, types.ObjectCannedACLPublicRead, aclFor(SchemePublic))
	require.Equal(t, types.ObjectCannedACLPrivate, aclFor(SchemeTemporary))
}

// mockAPIError implements smithy.APIError for testing.
type mockAPIError struct {
	code    string
	message string
}

func (e *mockAPIError) ErrorCode() string             { return e.code }
func (e *mockAPIError) ErrorMessage() string          { return e.message }
func (e *mockAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultUnknown }
func (e *mockAPIError) Error() string                 { return fmt.Sprintf("%s: %s", e.code, e.message) }

func TestWrapS3Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"NoSuchKey code", &mockAPIError{code: "NoSuchKey"}, ErrNotFound},
		{"NotFound code", &mockAPIError{code: "NotFound"}, ErrNotFound},
		{"AccessDenied code", &mockAPIError{code: "AccessDenied"}, ErrAccessDenied},
		{"Forbidden code", &mockAPIError{code: "Forbidden"}, ErrAccessDenied},
		{"typed NoSuchKey", &types.NoSuchKey{}, ErrNotFound},
		{"other code", &mockAPIError{code: "SlowDown"}, ErrDeleteFailed},
		{"plain error", errors.New("boom"), ErrDeleteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, wrapS3Error(tt.err, ErrDeleteFailed), tt.want)
		})
	}
}

// fakeS3 is a minimal path-style S3 endpoint recording requests.
type fakeS3 struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
	status   map[string]int
}

func newFakeS3(t *testing.T) (*fakeS3, *S3Storage) {
	t.Helper()

	f := &fakeS3{bodies: map[string]string{}, status: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)

	store, err := NewS3(S3Config{
		Bucket:    "artifacts",
		AccessKey: "key",
		SecretKey: "secret",
		Endpoint:  srv.URL,
		PathStyle: true,
	})
	require.NoError(t, err)
	return f, store
}

func (f *fakeS3) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	if code, ok := f.status[r.Method]; ok {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(code)
		if code == http.StatusNotFound && r.Method != http.MethodHead {
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
		}
		return
	}

	switch r.Method {
	case http.MethodPut:
		b, _ := io.ReadAll(r.Body)
		f.bodies[r.URL.Path] = string(b)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.bodies, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (f *fakeS3) fail(method string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[method] = code
}

func (f *fakeS3) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ""
	}
	return f.requests[len(f.requests)-1]
}

func TestS3Storage_Operations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("put uses scheme prefix", func(t *testing.T) {
		t.Parallel()
		f, store := newFakeS3(t)

		info, err := store.Put(ctx, "public://emailed_pdfs/Report.pdf", strings.NewReader("%PDF-1.4 x"), 10,
			WithContentType("application/pdf"))
		require.NoError(t, err)
		require.Equal(t, "public://emailed_pdfs/Report.pdf", info.URI)
		require.Equal(t, "PUT /artifacts/public/emailed_pdfs/Report.pdf", f.last())
	})

	t.Run("ensure dir heads bucket", func(t *testing.T) {
		t.Parallel()
		f, store := newFakeS3(t)

		require.NoError(t, store.EnsureDir(ctx, "public://emailed_pdfs", CreateDirectory))
		require.Equal(t, "HEAD /artifacts", f.last())
	})

	t.Run("ensure dir unreachable bucket", func(t *testing.T) {
		t.Parallel()
		f, store := newFakeS3(t)
		f.fail(http.MethodHead, http.StatusForbidden)

		err := store.EnsureDir(ctx, "public://emailed_pdfs", CreateDirectory)
		require.ErrorIs(t, err, ErrDirectoryUnavailable)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		f, store := newFakeS3(t)

		require.NoError(t, store.Delete(ctx, "public://emailed_pdfs/Report.pdf"))
		require.Equal(t, "DELETE /artifacts/public/emailed_pdfs/Report.pdf", f.last())
	})

	t.Run("delete missing key is success", func(t *testing.T) {
		t.Parallel()
		f, store := newFakeS3(t)
		f.fail(http.MethodDelete, http.StatusNotFound)

		require.NoError(t, store.Delete(ctx, "public://emailed_pdfs/gone.pdf"))
	})

	t.Run("delete rejects invalid uri", func(t *testing.T) {
		t.Parallel()
		_, store := newFakeS3(t)

		require.ErrorIs(t, store.Delete(ctx, "public://../x"), ErrInvalidURI)
		require.ErrorIs(t, store.Delete(ctx, "public://"), ErrInvalidURI)
	})
}
