package static

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/smcd-ma/portal/core/handler"
)

type fsConfig struct {
	stripPrefix  string
	subPath      string
	cacheControl string
}

// FSOption configures FS.
type FSOption func(*fsConfig)

// WithFSStripPrefix removes prefix from the URL path before lookup, so
// "/assets/app.css" mounted under "/assets" serves "app.css".
func WithFSStripPrefix(prefix string) FSOption {
	return func(c *fsConfig) {
		c.stripPrefix = prefix
	}
}

// WithSubFS serves files from a subdirectory of the filesystem.
func WithSubFS(path string) FSOption {
	return func(c *fsConfig) {
		c.subPath = path
	}
}

// WithCacheControl sets the Cache-Control header on served assets.
func WithCacheControl(value string) FSOption {
	return func(c *fsConfig) {
		c.cacheControl = value
	}
}

// FS serves files from fsys with directory listing disabled.
// It panics at startup if the sub-path is invalid.
func FS(fsys fs.FS, opts ...FSOption) handler.HandlerFunc {
	cfg := &fsConfig{cacheControl: "public, max-age=3600"}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.subPath != "" {
		sub, err := fs.Sub(fsys, cfg.subPath)
		if err != nil {
			panic("static.FS: invalid sub-path '" + cfg.subPath + "': " + err.Error())
		}
		fsys = sub
	}
	if _, err := fsys.Open("."); err != nil {
		panic("static.FS: filesystem is not accessible: " + err.Error())
	}

	var fileServer http.Handler = http.FileServer(noListing{fs: http.FS(fsys)})
	if cfg.stripPrefix != "" {
		fileServer = http.StripPrefix(cfg.stripPrefix, fileServer)
	}

	return func(ctx *handler.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			if cfg.cacheControl != "" {
				w.Header().Set("Cache-Control", cfg.cacheControl)
			}
			fileServer.ServeHTTP(w, r)
			return nil
		}
	}
}

// noListing hides directories that have no index.html.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(path string) (http.File, error) {
	f, err := n.fs.Open(path)
	if err != nil {
		return nil, err
	}

	s, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if s.IsDir() {
		index := strings.TrimSuffix(path, "/") + "/index.html"
		idx, err := n.fs.Open(index)
		if err != nil {
			_ = f.Close()
			return nil, fs.ErrNotExist
		}
		_ = idx.Close()
	}
	return f, nil
}
