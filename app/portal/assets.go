package portal

import "embed"

// htmx is vendored at build time rather than committed.
//go:generate sh -c "mkdir -p assets/vendor && curl -sSfL -o assets/vendor/htmx.min.js https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

//go:embed assets
var assets embed.FS
