package sessiontransport

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tallyboard/gateway/core/cookie"
	"github.com/tallyboard/gateway/core/handler"
	"github.com/tallyboard/gateway/core/session"
	"github.com/tallyboard/gateway/pkg/clientip"
)

// DefaultCookieName is the session cookie name used when none is configured.
const DefaultCookieName = "tb_session"

// Cookie provides HTTP cookie-based session transport.
// It stores Session.Token as the cookie value, signed via cookie.Manager.
type Cookie[Data any] struct {
	manager   *session.Manager[Data]
	cookieMgr *cookie.Manager
	name      string
}

// NewCookie creates a new cookie-based session transport.
// An empty name falls back to DefaultCookieName.
func NewCookie[Data any](mgr *session.Manager[Data], cookieMgr *cookie.Manager, name string) *Cookie[Data] {
	if name == "" {
		name = DefaultCookieName
	}
	return &Cookie[Data]{
		manager:   mgr,
		cookieMgr: cookieMgr,
		name:      name,
	}
}

// Load reads the session referenced by the request cookie. A missing,
// tampered, or expired cookie degrades to a fresh anonymous session rather
// than an error, so public pages keep working no matter what the client sent.
func (c *Cookie[Data]) Load(ctx handler.Context) (session.Session[Data], error) {
	token, err := c.cookieMgr.GetSigned(ctx.Request(), c.name)
	if err != nil {
		return c.newAnonymous(ctx)
	}

	sess, err := c.manager.GetByToken(ctx, token)
	if err != nil {
		return c.newAnonymous(ctx)
	}

	return sess, nil
}

// Store persists the session and synchronizes the cookie with it.
// A deleted session clears the cookie instead of rewriting it.
func (c *Cookie[Data]) Store(ctx handler.Context, sess session.Session[Data]) error {
	if err := c.manager.Store(ctx, sess); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			c.cookieMgr.Delete(ctx.ResponseWriter(), c.name)
			return nil
		}
		return err
	}

	return c.writeCookie(ctx, sess)
}

// Authenticate binds the loaded session to userID, rotating the token and
// updating the cookie in one step. Used by the login handler.
func (c *Cookie[Data]) Authenticate(ctx handler.Context, userID uuid.UUID) (session.Session[Data], error) {
	sess, err := c.Load(ctx)
	if err != nil {
		return session.Session[Data]{}, err
	}

	authSess, err := c.manager.Authenticate(ctx, sess, userID)
	if err != nil {
		return session.Session[Data]{}, err
	}

	if err := c.writeCookie(ctx, authSess); err != nil {
		return session.Session[Data]{}, err
	}

	return authSess, nil
}

// Logout destroys the current session and issues a fresh anonymous one.
func (c *Cookie[Data]) Logout(ctx handler.Context) (session.Session[Data], error) {
	sess, err := c.Load(ctx)
	if err != nil {
		return session.Session[Data]{}, err
	}

	anonSess, err := c.manager.Logout(ctx, sess)
	if err != nil {
		return session.Session[Data]{}, err
	}

	if err := c.writeCookie(ctx, anonSess); err != nil {
		return session.Session[Data]{}, err
	}

	return anonSess, nil
}

func (c *Cookie[Data]) newAnonymous(ctx handler.Context) (session.Session[Data], error) {
	return c.manager.New(session.NewSessionParams{
		IP:        clientip.GetIP(ctx.Request()),
		UserAgent: ctx.Request().Header.Get("User-Agent"),
	})
}

func (c *Cookie[Data]) writeCookie(ctx handler.Context, sess session.Session[Data]) error {
	until := time.Until(sess.ExpiresAt)
	if until <= 0 {
		return ErrSessionExpired
	}

	return c.cookieMgr.SetSigned(ctx.ResponseWriter(), c.name, sess.Token,
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
		cookie.WithMaxAge(int(until.Seconds())),
	)
}
