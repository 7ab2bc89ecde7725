package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/tallyboard/gateway/auth"
	"github.com/tallyboard/gateway/core/config"
	"github.com/tallyboard/gateway/core/cookie"
	"github.com/tallyboard/gateway/core/handler"
	"github.com/tallyboard/gateway/core/logger"
	"github.com/tallyboard/gateway/core/session"
	"github.com/tallyboard/gateway/core/sessiontransport"
	"github.com/tallyboard/gateway/middleware"
	"github.com/tallyboard/gateway/tenant"
)

// Authenticator verifies user credentials. Implemented by pg.Accounts in
// production and by fakes in tests.
type Authenticator interface {
	AuthenticateByEmail(ctx context.Context, email, password string) (uuid.UUID, error)
}

// App wires the gateway: cookie-backed sessions, the authentication bridge,
// the company context resolver, and route policy, mounted over the
// dashboard's handlers.
type App struct {
	config    Config
	logger    *slog.Logger
	cookies   *cookie.Manager
	sessions  *session.Manager[tenant.SessionData]
	transport *sessiontransport.Cookie[tenant.SessionData]
	store     session.Store[tenant.SessionData]
	directory tenant.Directory
	resolver  auth.Resolver
	accounts  Authenticator
	policy    *middleware.Chain
	health    []func(context.Context) error
}

// AppOption injects a dependency into the App.
type AppOption func(*App) error

// New loads configuration from the environment and assembles the gateway.
// The directory, resolver, and authenticator have no defaults; wiring code
// provides them (pg-backed in production).
func New(opts ...AppOption) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, opts...)
}

// NewWithConfig assembles the gateway from an already loaded configuration.
func NewWithConfig(cfg Config, opts ...AppOption) (*App, error) {
	if cfg.DeniedPath == "" {
		cfg.DeniedPath = "/access-denied"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}

	app := &App{
		config: cfg,
		logger: logger.New(cfg.Log),
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.directory == nil {
		return nil, errors.New("dashboard: company directory is required")
	}
	if app.resolver == nil {
		return nil, errors.New("dashboard: principal resolver is required")
	}
	if app.accounts == nil {
		return nil, errors.New("dashboard: authenticator is required")
	}

	if app.cookies == nil {
		cm, err := cookie.NewFromConfig(cfg.Cookie)
		if err != nil {
			return nil, err
		}
		app.cookies = cm
	}

	if app.store == nil {
		app.store = session.NewMemoryStore[tenant.SessionData]()
	}

	if app.sessions == nil {
		app.sessions = session.NewFromConfig(cfg.Session, app.store)
	}

	app.transport = sessiontransport.NewCookie(app.sessions, app.cookies, cfg.SessionCookie)

	if app.policy == nil {
		app.policy = DefaultPolicy()
	}

	return app, nil
}

// DefaultPolicy is the rule set shipped with the dashboard: the super-admin
// console outranks the admin console, and the account area just needs a
// login. Everything else is governed by the company resolver, not the
// policy chain.
func DefaultPolicy() *middleware.Chain {
	return middleware.MustNewChain(
		middleware.Rule{Prefix: "/super-admin", Capability: middleware.CapabilitySuperAdmin},
		middleware.Rule{Prefix: "/admin", Capability: middleware.CapabilityAdmin},
		middleware.Rule{Prefix: "/account", Capability: middleware.CapabilityNone},
	)
}

// WithLogger overrides the environment-configured logger.
func WithLogger(log *slog.Logger) AppOption {
	return func(app *App) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = log
		return nil
	}
}

// WithCookieManager overrides the environment-configured cookie manager.
func WithCookieManager(cm *cookie.Manager) AppOption {
	return func(app *App) error {
		if cm == nil {
			return errors.New("cookie manager cannot be nil")
		}
		app.cookies = cm
		return nil
	}
}

// WithSessionStore sets the session persistence backend, normally the
// Redis-backed store.
func WithSessionStore(store session.Store[tenant.SessionData]) AppOption {
	return func(app *App) error {
		if store == nil {
			return errors.New("session store cannot be nil")
		}
		app.store = store
		return nil
	}
}

// WithDirectory sets the company directory.
func WithDirectory(dir tenant.Directory) AppOption {
	return func(app *App) error {
		if dir == nil {
			return errors.New("directory cannot be nil")
		}
		app.directory = dir
		return nil
	}
}

// WithResolver sets the principal resolver.
func WithResolver(r auth.Resolver) AppOption {
	return func(app *App) error {
		if r == nil {
			return errors.New("resolver cannot be nil")
		}
		app.resolver = r
		return nil
	}
}

// WithAuthenticator sets the credential verifier.
func WithAuthenticator(a Authenticator) AppOption {
	return func(app *App) error {
		if a == nil {
			return errors.New("authenticator cannot be nil")
		}
		app.accounts = a
		return nil
	}
}

// WithPolicy overrides the default policy chain.
func WithPolicy(chain *middleware.Chain) AppOption {
	return func(app *App) error {
		if chain == nil {
			return errors.New("policy chain cannot be nil")
		}
		app.policy = chain
		return nil
	}
}

// WithHealthchecks registers dependency probes served on /healthz.
func WithHealthchecks(checks ...func(context.Context) error) AppOption {
	return func(app *App) error {
		app.health = append(app.health, checks...)
		return nil
	}
}

// pipeline is the fixed middleware order. The session must load before the
// principal resolves, the principal must exist before the company resolver
// runs, and policy checks the final shape of the request.
func (a *App) pipeline() []handler.Middleware[*Context] {
	return []handler.Middleware[*Context]{
		middleware.SessionWithConfig(middleware.SessionConfig[*Context, tenant.SessionData]{
			Transport: a.transport,
			Logger:    a.logger,
		}),
		middleware.AuthWithConfig(middleware.AuthConfig[*Context, tenant.SessionData]{
			Resolver: a.resolver,
			Logger:   a.logger,
		}),
		middleware.TenantWithConfig(middleware.TenantConfig[*Context]{
			Directory: a.directory,
			Sessions:  a.sessions,
			Logger:    a.logger,
		}),
		middleware.PolicyWithConfig(middleware.PolicyConfig[*Context]{
			Chain:      a.policy,
			DeniedPath: a.config.DeniedPath,
			Logger:     a.logger,
		}),
	}
}

// Handler mounts the dashboard routes behind the middleware pipeline and
// returns the root http.Handler.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mw := a.pipeline()

	mount := func(pattern string, endpoint handler.HandlerFunc[*Context]) {
		mux.Handle(pattern, handler.Serve(newContext, endpoint, mw...))
	}

	mux.HandleFunc("GET /healthz", a.healthz)

	mount("GET /{$}", a.home)
	mount("GET "+a.config.LoginPath, a.loginForm)
	mount("POST "+a.config.LoginPath, a.login)
	mount("POST /logout", a.logout)
	mount("POST /account/company", a.selectCompany)
	mount("GET "+a.config.DeniedPath, a.accessDenied)
	mount("GET /admin/", a.adminHome)
	mount("GET /super-admin/", a.superAdminHome)
	mount("GET /{company}", a.companyHome)
	mount("GET /{company}/{rest...}", a.companyHome)

	return mux
}

// healthz runs the registered dependency probes outside the middleware
// pipeline so load balancer checks never touch session state.
func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	for _, check := range a.health {
		if err := check(r.Context()); err != nil {
			a.logger.ErrorContext(r.Context(), "healthcheck failed", logger.Error(err))
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
