package internal

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunServer_Lifecycle(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var events []string
	hook := func(name string, err error) func(context.Context) error {
		return func(context.Context) error {
			events = append(events, name)
			return err
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- runServer(runtimeConfig{
			handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "ok")
			}),
			listener:      ln,
			baseCtx:       ctx,
			startupHooks:  []func(context.Context) error{hook("jobs started", nil)},
			shutdownHooks: []func(context.Context) error{hook("jobs stopped", nil), hook("db closed", nil)},
		})
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	require.Equal(t, []string{"jobs started", "jobs stopped", "db closed"}, events)
}

func TestRunServer_StartupHookFails(t *testing.T) {
	t.Parallel()

	startErr := errors.New("river: relation river_job does not exist")
	var closed bool

	err := runServer(runtimeConfig{
		handler:      http.NotFoundHandler(),
		address:      "127.0.0.1:0",
		startupHooks: []func(context.Context) error{func(context.Context) error { return startErr }},
		shutdownHooks: []func(context.Context) error{func(context.Context) error {
			closed = true
			return nil
		}},
	})
	require.ErrorIs(t, err, startErr)
	require.True(t, closed)
}

func TestRunServer_ShutdownHookErrorsJoined(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hookErr := errors.New("pool close failed")
	err = runServer(runtimeConfig{
		handler:       http.NotFoundHandler(),
		listener:      ln,
		baseCtx:       ctx,
		shutdownHooks: []func(context.Context) error{func(context.Context) error { return hookErr }},
	})
	require.ErrorIs(t, err, hookErr)
}

func TestBuildRunConfig(t *testing.T) {
	t.Parallel()

	cfg := buildRunConfig(
		ShutdownTimeout(0),
		StartupHook(nil),
		ShutdownHook(func(context.Context) error { return nil }),
		Logger(nil),
		WithContext(nil), //nolint:staticcheck
	)
	require.Equal(t, defaultShutdownTimeout, cfg.shutdownTimeout)
	require.Empty(t, cfg.startupHooks)
	require.Len(t, cfg.shutdownHooks, 1)
	require.Nil(t, cfg.logger)
	require.Nil(t, cfg.baseCtx)
}
