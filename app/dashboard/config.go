package dashboard

import (
	"github.com/tallyboard/gateway/core/cookie"
	"github.com/tallyboard/gateway/core/logger"
	"github.com/tallyboard/gateway/core/server"
	"github.com/tallyboard/gateway/core/session"
	"github.com/tallyboard/gateway/integration/database/pg"
	"github.com/tallyboard/gateway/integration/database/redis"
)

// Config is the composed application configuration, loaded from the
// environment by config.Load.
type Config struct {
	DB      pg.Config
	Redis   redis.Config
	Cookie  cookie.Config
	Session session.Config
	Server  server.Config
	Log     logger.Config

	AppName string `env:"APP_NAME" envDefault:"tallyboard-gateway"`
	Env     string `env:"APP_ENV" envDefault:"development"`

	// SessionCookie names the signed session cookie.
	SessionCookie string `env:"SESSION_COOKIE_NAME" envDefault:"tb_session"`

	// DeniedPath receives requests rejected by the route policy.
	DeniedPath string `env:"POLICY_DENIED_PATH" envDefault:"/access-denied"`

	// LoginPath serves the sign-in form and receives anonymous visitors.
	LoginPath string `env:"LOGIN_PATH" envDefault:"/login"`
}
