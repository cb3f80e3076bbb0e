package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AdminMiddleware guards the mutating admin endpoints (rebuild, cache
// flush) with a bearer JWT. With no secret configured the endpoints stay
// open, matching the reference deployment.
type AdminMiddleware struct {
	secret string
	logger *logrus.Logger
}

func NewAdminMiddleware(secret string, logger *logrus.Logger) *AdminMiddleware {
	return &AdminMiddleware{secret: secret, logger: logger}
}

// RequireAdmin creates middleware that validates an HS256 bearer token.
func (m *AdminMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.secret == "" {
				return next(c)
			}

			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			_, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(m.secret), nil
			})
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path}).
						WithError(err).Warn("admin token validation failed")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
			}

			return next(c)
		}
	}
}
