// Package middleware provides shared request processing for handlers:
// HTTP Basic authentication, role enforcement and rate limiting.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filmhall/cinema-booking/internal/auth"
)

// userContextKey is where BasicAuth stores the authenticated *auth.User.
const userContextKey = "auth_user"

const basicChallenge = `Basic realm="cinema-booking"`

// BasicAuth authenticates the request against the credential store and puts
// the resulting user into the context. Missing or invalid credentials end
// the request with 401 and a WWW-Authenticate challenge.
func BasicAuth(store auth.CredentialStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, password, ok := c.Request().BasicAuth()
			if !ok {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, basicChallenge)
				return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
			}
			user, ok := store.Authenticate(username, password)
			if !ok {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, basicChallenge)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireRole enforces that the authenticated user holds one of the given
// roles. It assumes BasicAuth ran earlier in the chain.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			for _, role := range roles {
				if user.HasRole(role) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}

// CurrentUser returns the authenticated user stored by BasicAuth.
func CurrentUser(c echo.Context) (*auth.User, bool) {
	user, ok := c.Get(userContextKey).(*auth.User)
	return user, ok
}
