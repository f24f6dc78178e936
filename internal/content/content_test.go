package content_test

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pdfmail/internal/content"
	"github.com/dmitrymomot/pdfmail/pkg/cache"
	"github.com/dmitrymomot/pdfmail/pkg/pdf"
)

type MockReader struct {
	mock.Mock
}

func (m *MockReader) Get(ctx context.Context, id int64) (*content.Entity, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*content.Entity)
	return e, args.Error(1)
}

func TestEntity(t *testing.T) {
	t.Parallel()

	e := &content.Entity{ID: 42, Label: "Annual Report", Body: "<p>Revenue grew.</p>"}

	var page pdf.Page = e
	require.Equal(t, "Annual Report", page.PrintTitle())
	require.Equal(t, "<p>Revenue grew.</p>", page.PrintBody())
	require.Equal(t, "/content/42", e.URL())
	require.Equal(t, "/content/7", content.ViewURL(7))
}

func TestCached_Get(t *testing.T) {
	t.Parallel()

	entity := &content.Entity{ID: 42, Label: "Annual Report"}
	reader := new(MockReader)
	reader.On("Get", mock.Anything, int64(42)).Return(entity, nil).Once()

	mem := cache.NewMemory[*content.Entity](cache.MemoryConfig{})
	t.Cleanup(func() { _ = mem.Close() })
	cached := content.NewCached(reader, mem, time.Minute)

	for range 3 {
		got, err := cached.Get(context.Background(), 42)
		require.NoError(t, err)
		require.Equal(t, entity, got)
	}
	reader.AssertExpectations(t)
}

func TestCached_NotFoundIsNotCached(t *testing.T) {
	t.Parallel()

	reader := new(MockReader)
	reader.On("Get", mock.Anything, int64(404)).Return(nil, content.ErrNotFound).Twice()

	mem := cache.NewMemory[*content.Entity](cache.MemoryConfig{})
	t.Cleanup(func() { _ = mem.Close() })
	cached := content.NewCached(reader, mem, time.Minute)

	for range 2 {
		_, err := cached.Get(context.Background(), 404)
		require.ErrorIs(t, err, content.ErrNotFound)
	}
	reader.AssertExpectations(t)
}

func TestCached_Invalidate(t *testing.T) {
	t.Parallel()

	reader := new(MockReader)
	reader.On("Get", mock.Anything, int64(1)).Return(&content.Entity{ID: 1, Label: "Draft"}, nil).Once()
	reader.On("Get", mock.Anything, int64(1)).Return(&content.Entity{ID: 1, Label: "Final"}, nil).Once()

	mem := cache.NewMemory[*content.Entity](cache.MemoryConfig{})
	t.Cleanup(func() { _ = mem.Close() })
	cached := content.NewCached(reader, mem, time.Minute)

	got, err := cached.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Draft", got.Label)

	require.NoError(t, cached.Invalidate(context.Background(), 1))

	got, err = cached.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Final", got.Label)
	reader.AssertExpectations(t)
}

type slowReader struct {
	mu    sync.Mutex
	calls int
}

func (r *slowReader) Get(_ context.Context, id int64) (*content.Entity, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	return &content.Entity{ID: id, Label: "Report"}, nil
}

func TestCached_ConcurrentMisses(t *testing.T) {
	t.Parallel()

	reader := &slowReader{}
	mem := cache.NewMemory[*content.Entity](cache.MemoryConfig{})
	t.Cleanup(func() { _ = mem.Close() })
	cached := content.NewCached(reader, mem, time.Minute)

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			e, err := cached.Get(context.Background(), 9)
			if err != nil || e.ID != 9 {
				t.Errorf("unexpected result %v %v", e, err)
			}
		})
	}
	wg.Wait()

	reader.mu.Lock()
	defer reader.mu.Unlock()
	require.Equal(t, 1, reader.calls)
}

func TestCached_ReaderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	reader := new(MockReader)
	reader.On("Get", mock.Anything, int64(3)).Return(nil, boom)

	mem := cache.NewMemory[*content.Entity](cache.MemoryConfig{})
	t.Cleanup(func() { _ = mem.Close() })

	_, err := content.NewCached(reader, mem, time.Minute).Get(context.Background(), 3)
	require.ErrorIs(t, err, boom)
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(content.Migrations(), "*.sql")
	require.NoError(t, err)
	require.Equal(t, []string{"00001_content_items.sql"}, files)

	data, err := fs.ReadFile(content.Migrations(), files[0])
	require.NoError(t, err)
	require.Contains(t, string(data), "-- +goose Up")
	require.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS content_items")
}
