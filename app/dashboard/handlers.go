package dashboard

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/tallyboard/gateway/auth"
	"github.com/tallyboard/gateway/core/handler"
	"github.com/tallyboard/gateway/core/logger"
	"github.com/tallyboard/gateway/core/response"
	"github.com/tallyboard/gateway/middleware"
	"github.com/tallyboard/gateway/tenant"
)

// home routes the bare domain: anonymous visitors go to the login page,
// everyone else lands on their first accessible company.
func (a *App) home(ctx *Context) handler.Response {
	principal, _ := middleware.GetPrincipal(ctx)
	if !principal.IsAuthenticated() {
		return response.RedirectSeeOther(a.config.LoginPath)
	}
	return a.redirectToCompany(ctx, principal)
}

func (a *App) redirectToCompany(ctx *Context, principal auth.Principal) handler.Response {
	companies, err := a.directory.AccessibleCompanies(ctx, principal.UserID, principal.IsSuperAdmin())
	if err != nil {
		a.logger.ErrorContext(ctx, "accessible-company lookup failed", logger.Error(err))
		return response.Error(response.ErrInternalServerError)
	}
	if len(companies) == 0 {
		return response.Text(http.StatusOK, "No companies yet. Ask an administrator to invite you.")
	}
	return response.RedirectSeeOther("/" + companies[0].Slug)
}

func (a *App) loginForm(ctx *Context) handler.Response {
	if sess := middleware.MustGetSession[tenant.SessionData](ctx); sess.IsAuthenticated() {
		return response.RedirectSeeOther("/")
	}
	return response.HTML(http.StatusOK, fmt.Sprintf(loginPage, a.config.LoginPath))
}

// login verifies credentials and binds the session to the user. The
// transport rotates the session token on authentication, and the session
// itself drops any previously selected company, so nothing chosen by the
// prior identity leaks into the new one.
func (a *App) login(ctx *Context) handler.Response {
	r := ctx.Request()
	if err := r.ParseForm(); err != nil {
		return response.Error(response.ErrBadRequest)
	}

	userID, err := a.accounts.AuthenticateByEmail(ctx, r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return response.Error(response.ErrUnauthorized.WithMessage("Invalid email or password"))
		}
		a.logger.ErrorContext(ctx, "credential check failed", logger.Error(err))
		return response.Error(response.ErrInternalServerError)
	}

	sess, err := a.transport.Authenticate(ctx, userID)
	if err != nil {
		a.logger.ErrorContext(ctx, "session authentication failed", logger.Error(err))
		return response.Error(response.ErrInternalServerError)
	}
	middleware.SetSession(ctx, sess)

	return response.RedirectSeeOther("/")
}

// logout destroys the session and replaces it with a fresh anonymous one.
func (a *App) logout(ctx *Context) handler.Response {
	sess, err := a.transport.Logout(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "logout failed", logger.Error(err))
		return response.Error(response.ErrInternalServerError)
	}
	middleware.SetSession(ctx, sess)
	return response.RedirectSeeOther(a.config.LoginPath)
}

// selectCompany is the explicit company switcher.
func (a *App) selectCompany(ctx *Context) handler.Response {
	r := ctx.Request()
	if err := r.ParseForm(); err != nil {
		return response.Error(response.ErrBadRequest)
	}

	companyID, err := uuid.Parse(r.PostFormValue("company_id"))
	if err != nil {
		return response.Error(response.ErrBadRequest.WithMessage("Invalid company id"))
	}

	if err := middleware.SelectCompany(ctx, a.sessions, a.directory, companyID); err != nil {
		if errors.Is(err, tenant.ErrCompanyNotFound) {
			return response.Error(response.ErrForbidden.WithMessage("You do not have access to this company"))
		}
		a.logger.ErrorContext(ctx, "company selection failed", logger.Error(err))
		return response.Error(response.ErrInternalServerError)
	}

	principal, _ := middleware.GetPrincipal(ctx)
	if companies, err := a.directory.AccessibleCompanies(ctx, principal.UserID, principal.IsSuperAdmin()); err == nil {
		for _, c := range companies {
			if c.ID == companyID {
				return response.RedirectSeeOther("/" + c.Slug)
			}
		}
	}
	return response.RedirectSeeOther("/")
}

func (a *App) accessDenied(ctx *Context) handler.Response {
	return response.HTML(http.StatusForbidden, deniedPage)
}

// companyHome serves the company-scoped dashboard area. By the time it
// runs, the tenant middleware has verified access and reconciled the
// session, so an absent company means the slug never resolved.
func (a *App) companyHome(ctx *Context) handler.Response {
	company, ok := middleware.GetCompany(ctx)
	if !ok {
		return response.Error(response.ErrNotFound)
	}
	return response.Text(http.StatusOK, "Reporting dashboard for "+company.Name)
}

func (a *App) adminHome(ctx *Context) handler.Response {
	return response.Text(http.StatusOK, "Administration console")
}

func (a *App) superAdminHome(ctx *Context) handler.Response {
	return response.Text(http.StatusOK, "Super-admin console")
}

const loginPage = `<!doctype html>
<html>
<head><title>Sign in - Tallyboard</title></head>
<body>
  <h1>Sign in</h1>
  <form method="post" action="%s">
    <label>Email <input type="email" name="email" required></label>
    <label>Password <input type="password" name="password" required></label>
    <button type="submit">Sign in</button>
  </form>
</body>
</html>`

const deniedPage = `<!doctype html>
<html>
<head><title>Access denied - Tallyboard</title></head>
<body>
  <h1>Access denied</h1>
  <p>You do not have permission to view that page.</p>
  <p><a href="/">Back to your dashboard</a></p>
</body>
</html>`
