package authclient

import (
	"net/http"
	"time"

	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// Gate is the access-control checkpoint in front of protected routes.
// It depends on the session manager only: a missing session redirects to
// the login route, an authenticated user lacking a required role is sent
// to the forbidden route without touching the session. That second case
// is an authorization check, not an authentication failure, and must
// never trigger the pipeline's invalidation path.
type Gate struct {
	session *SessionManager
	cfg     Config
	Logger  Logger
}

// NewGate returns a gate over the given session manager.
func NewGate(session *SessionManager, cfg Config) *Gate {
	return &Gate{
		session: session,
		cfg:     cfg,
		Logger:  defLogger{},
	}
}

// RequireAuthenticated renders the wrapped handler only for
// authenticated sessions. A hydrating session is resolved first, the
// store read is synchronous, so no protected work runs before the phase
// settled.
func (g *Gate) RequireAuthenticated() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			user, err := g.admit(c)
			if err != nil || user == nil {
				return err
			}

			c.SetContext(WithContext(c.Context(), user))
			return next(c)
		}
	}
}

// RequireAdmin additionally requires the admin role.
func (g *Gate) RequireAdmin() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			user, err := g.admit(c)
			if err != nil || user == nil {
				return err
			}

			if !user.IsAdmin() {
				g.Logger.Info(
					"admin route denied",
					"path", c.OriginalURL(),
					"user", print.MaybePrettyJSON(map[string]any{
						"username": user.Username,
						"role":     user.Role,
					}),
				)
				return c.Redirect(g.cfg.GetForbiddenRoute(), redirectStatus(c))
			}

			c.SetContext(WithContext(c.Context(), user))
			return next(c)
		}
	}
}

// admit resolves the session and returns the user, or performs the
// login redirect and returns nil.
func (g *Gate) admit(c router.Context) (*User, error) {
	if g.session.CurrentPhase() == PhaseHydrating {
		g.session.CheckAuth()
	}

	if !g.session.IsAuthenticated() {
		g.SetRedirect(c)
		return nil, c.Redirect(g.cfg.GetLoginRoute(), redirectStatus(c))
	}

	return g.session.CurrentUser(), nil
}

// SetRedirect remembers the rejected route so a later login can return
// the user where they were headed.
func (g *Gate) SetRedirect(c router.Context) {
	rejectedRoute := g.cfg.GetRejectedRouteKey()

	g.Logger.Info("Setting redirect cookie", "key", rejectedRoute, "path", c.OriginalURL())

	c.Cookie(&router.Cookie{
		Name:     rejectedRoute,
		Value:    c.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// GetRedirect pops the remembered rejected route, falling back to the
// given default.
func (g *Gate) GetRedirect(c router.Context, def ...string) string {
	rejectedRoute := g.cfg.GetRejectedRouteKey()
	r := c.Cookies(rejectedRoute)
	if r == "" {
		if len(def) > 0 {
			return def[0]
		}
		return "/"
	}
	g.cookieDel(c, rejectedRoute)
	return r
}

func (g *Gate) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func redirectStatus(c router.Context) int {
	if c.Method() == string(router.GET) {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
