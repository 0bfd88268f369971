package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
)

// Context keys set by Session.
const (
	KeyUser = "user"
	KeyRole = "role"
)

// SessionSource yields the locally persisted session.
type SessionSource interface {
	Current(ctx context.Context) (domain.Session, error)
}

// Session rejects the request unless a session is active and injects its
// user and role into the echo context.
func Session(src SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := src.Current(c.Request().Context())
			switch {
			case errors.Is(err, domain.ErrSessionExpired):
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrSessionExpired.Error())
			case err != nil:
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrMissingToken.Error())
			}

			c.Set(KeyUser, sess.User)
			c.Set(KeyRole, sess.User.Role)

			return next(c)
		}
	}
}

// UserFrom returns the user injected by Session.
func UserFrom(c echo.Context) (domain.User, bool) {
	u, ok := c.Get(KeyUser).(domain.User)
	return u, ok
}
