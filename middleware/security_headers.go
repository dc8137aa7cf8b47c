package middleware

import (
	"maps"
	"net/http"

	"github.com/smcd-ma/portal/core/handler"
)

// SecurityHeadersConfig configures the security headers middleware.
// Empty fields are not sent.
type SecurityHeadersConfig struct {
	Skip func(ctx *handler.Context) bool

	ContentTypeOptions      string
	FrameOptions            string
	StrictTransportSecurity string
	ContentSecurityPolicy   string
	ReferrerPolicy          string
	PermissionsPolicy       string
	CrossOriginOpenerPolicy string
	CustomHeaders           map[string]string

	// IsDevelopment drops HSTS so local HTTP keeps working.
	IsDevelopment bool
}

var (
	// PortalSecurity suits the server-rendered portal: scripts from self
	// only, inline styles allowed for the templates.
	PortalSecurity = SecurityHeadersConfig{
		ContentTypeOptions:      "nosniff",
		FrameOptions:            "DENY",
		StrictTransportSecurity: "max-age=31536000; includeSubDomains",
		ContentSecurityPolicy:   "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' data:; frame-ancestors 'none'; form-action 'self'",
		ReferrerPolicy:          "strict-origin-when-cross-origin",
		PermissionsPolicy:       "geolocation=(), microphone=(), camera=()",
		CrossOriginOpenerPolicy: "same-origin",
	}

	DevelopmentSecurity = SecurityHeadersConfig{
		ContentTypeOptions: "nosniff",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      true,
	}
)

// SecurityHeaders applies PortalSecurity.
func SecurityHeaders() handler.Middleware {
	return SecurityHeadersWithConfig(PortalSecurity)
}

// SecurityHeadersWithConfig creates a security headers middleware with custom configuration.
func SecurityHeadersWithConfig(cfg SecurityHeadersConfig) handler.Middleware {
	if cfg.IsDevelopment {
		cfg.StrictTransportSecurity = ""
	}

	headers := make(map[string]string)
	set := func(name, value string) {
		if value != "" {
			headers[name] = value
		}
	}
	set("X-Content-Type-Options", cfg.ContentTypeOptions)
	set("X-Frame-Options", cfg.FrameOptions)
	set("Strict-Transport-Security", cfg.StrictTransportSecurity)
	set("Content-Security-Policy", cfg.ContentSecurityPolicy)
	set("Referrer-Policy", cfg.ReferrerPolicy)
	set("Permissions-Policy", cfg.PermissionsPolicy)
	set("Cross-Origin-Opener-Policy", cfg.CrossOriginOpenerPolicy)
	maps.Copy(headers, cfg.CustomHeaders)

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			return withHeaders(next(ctx), func(h http.Header) {
				for key, value := range headers {
					h.Set(key, value)
				}
			})
		}
	}
}
