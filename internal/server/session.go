package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/codebyNJ/AIResearch-Agent/internal/runtime"
	"github.com/codebyNJ/AIResearch-Agent/session"
)

const sessionCookie = "session"

// sessionKey is the echo context key the middleware stores the session under.
const sessionKey = "research_session"

// sessionMiddleware resolves the caller's session from a signed cookie,
// creating a fresh one when the cookie is absent, expired or tampered with.
// Tokens past half their lifetime are re-issued so an active session never
// hard-expires under the user.
func sessionMiddleware(store session.Store, secret []byte, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id string
			var renew bool
			if ck, err := c.Cookie(sessionCookie); err == nil && ck.Value != "" {
				if parsed, exp, err := runtime.ParseSession(ck.Value, secret); err == nil {
					id = parsed
					renew = time.Until(exp) < ttl/2
				}
			}
			sess, err := store.EnsureSession(id, ttl)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
			}
			if sess.ID() != id || renew {
				token, err := runtime.SignSession(sess.ID(), secret, ttl)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
				}
				c.SetCookie(&http.Cookie{
					Name:     sessionCookie,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(ttl),
				})
			}
			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// currentSession returns the session attached by sessionMiddleware.
func currentSession(c echo.Context) session.Session {
	sess, _ := c.Get(sessionKey).(session.Session)
	return sess
}
