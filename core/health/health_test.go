package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smcd-ma/portal/core/handler"
	"github.com/smcd-ma/portal/core/health"
)

func serve(h handler.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.NewAdapter(nil).Handle(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	return w
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	w := serve(health.Liveness)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ALIVE", w.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	tests := []struct {
		name   string
		checks map[string]health.Check
		status int
		want   health.Status
	}{
		{
			name:   "no checks",
			status: http.StatusOK,
			want:   health.Status{Status: "ok"},
		},
		{
			name:   "all up",
			checks: map[string]health.Check{"redis": ok},
			status: http.StatusOK,
			want:   health.Status{Status: "ok", Checks: map[string]string{"redis": "up"}},
		},
		{
			name:   "one down",
			checks: map[string]health.Check{"redis": down, "api": ok},
			status: http.StatusServiceUnavailable,
			want:   health.Status{Status: "unavailable", Checks: map[string]string{"redis": "down", "api": "up"}},
		},
		{
			name:   "timeout",
			checks: map[string]health.Check{"redis": slow},
			status: http.StatusServiceUnavailable,
			want:   health.Status{Status: "unavailable", Checks: map[string]string{"redis": "down"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(health.Readiness(nil, 50*time.Millisecond, tt.checks))
			assert.Equal(t, tt.status, w.Code)

			var got health.Status
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
