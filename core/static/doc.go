// Package static serves the portal's embedded assets.
//
//	//go:embed assets
//	var assets embed.FS
//
//	r.Get("/assets/*", adapter.Handle(static.FS(assets,
//		static.WithSubFS("assets"),
//		static.WithFSStripPrefix("/assets"),
//	)))
//
// Directory listing is disabled; a directory is served only through its
// index.html.
package static
