package portal

import (
	"time"

	"github.com/smcd-ma/portal/core/apiclient"
	"github.com/smcd-ma/portal/core/cookie"
	"github.com/smcd-ma/portal/core/logger"
	"github.com/smcd-ma/portal/core/server"
	"github.com/smcd-ma/portal/core/session"
	"github.com/smcd-ma/portal/integration/database/redis"
)

// Config is the full application configuration.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"smcd-portal"`
	Env     string `env:"APP_ENV" envDefault:"development"`

	Log     logger.Config
	Cookie  cookie.Config
	Session session.Config
	API     apiclient.Config
	Server  server.Config
	Redis   redis.Config

	// GateVerifyTimeout bounds the /auth/me round-trip on protected pages.
	GateVerifyTimeout time.Duration `env:"GATE_VERIFY_TIMEOUT" envDefault:"10s"`
	// GateDeferred shows the loading shell first and verifies on the
	// follow-up htmx request.
	GateDeferred bool `env:"GATE_DEFERRED" envDefault:"false"`

	UploadMaxBytes int64         `env:"UPLOAD_MAX_BYTES" envDefault:"20971520"`
	HealthTimeout  time.Duration `env:"HEALTH_TIMEOUT" envDefault:"2s"`
}

// IsProduction reports whether the app runs with production presets.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
