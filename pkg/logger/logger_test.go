package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewWithWriter_Extractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(&buf, Config{Level: "info"}, FromContext(ctxKey{}, "request_id"), nil)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.With(slog.String("component", "artifact")).InfoContext(ctx, "email sent")

	entry := decode(t, &buf)
	assert.Equal(t, "email sent", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "artifact", entry["component"])
}

func TestNewWithWriter_SkipsMissingValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(&buf, Config{}, FromContext(ctxKey{}, "request_id"))
	log.InfoContext(context.Background(), "no request")

	entry := decode(t, &buf)
	assert.NotContains(t, entry, "request_id")
}

func TestNewWithWriter_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(&buf, Config{Level: "warn"})
	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Equal(t, "WARN", decode(t, &buf)["level"])
}

func TestNewWithWriter_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithWriter(&buf, Config{Format: "TEXT"}).Info("plain", slog.String("uri", "public://emailed_pdfs/a.pdf"))
	assert.Contains(t, buf.String(), "msg=plain")
	assert.Contains(t, buf.String(), "uri=public://emailed_pdfs/a.pdf")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

type recordingHandler struct {
	level slog.Level
	msgs  *[]string
	err   error
}

func (h recordingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }
func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	*h.msgs = append(*h.msgs, r.Message)
	return h.err
}
func (h recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestFanout(t *testing.T) {
	t.Parallel()

	var all, errorsOnly []string
	boom := errors.New("sink down")
	h := fanout{
		recordingHandler{level: slog.LevelDebug, msgs: &all},
		recordingHandler{level: slog.LevelError, msgs: &errorsOnly, err: boom},
	}

	log := slog.New(h)
	log.Info("info")
	log.Error("error")

	assert.Equal(t, []string{"info", "error"}, all)
	assert.Equal(t, []string{"error"}, errorsOnly)
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	err := h.Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelError, "x", 0))
	assert.ErrorIs(t, err, boom)
}

func TestNewLogHandlerDecorator_NoExtractors(t *testing.T) {
	t.Parallel()

	base := slog.NewTextHandler(&bytes.Buffer{}, nil)
	assert.Same(t, base, NewLogHandlerDecorator(base, nil))
}

func TestNewSentryHandler_Disabled(t *testing.T) {
	t.Parallel()

	h, err := newSentryHandler(SentryConfig{})
	require.NoError(t, err)
	assert.Nil(t, h)
}
