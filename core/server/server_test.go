package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smcd-ma/portal/core/server"
)

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		srv, err := server.NewFromConfig(server.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, ":8080", srv.Addr())
	})

	t.Run("missing address", func(t *testing.T) {
		_, err := server.NewFromConfig(server.Config{})
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})
}

func TestServer_RunAndShutdown(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(2*time.Second))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	done, err := srv.Start(handler)
	require.NoError(t, err)

	_, err = srv.Start(handler)
	assert.ErrorIs(t, err, server.ErrServerAlreadyRunning)

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	require.NoError(t, srv.Stop())
	assert.NoError(t, <-done)
	assert.ErrorIs(t, srv.Stop(), server.ErrServerNotRunning)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx, http.NotFoundHandler()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.Addr() + "/")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
