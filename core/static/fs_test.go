package static_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/smcd-ma/portal/core/handler"
	"github.com/smcd-ma/portal/core/static"
)

func TestFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"assets/app.css":         {Data: []byte("body{}")},
		"assets/img/logo.svg":    {Data: []byte("<svg/>")},
		"assets/docs/index.html": {Data: []byte("docs")},
	}

	h := handler.NewAdapter(nil).Handle(static.FS(fsys,
		static.WithSubFS("assets"),
		static.WithFSStripPrefix("/assets"),
	))

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/assets/app.css", http.StatusOK, "body{}"},
		{"/assets/img/logo.svg", http.StatusOK, "<svg/>"},
		{"/assets/img/", http.StatusNotFound, ""},
		{"/assets/missing.js", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
				assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestFS_InvalidSubPath(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		static.FS(fstest.MapFS{}, static.WithSubFS("../outside"))
	})
}
