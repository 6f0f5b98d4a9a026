package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tegha-romeo/auth-api/internal/api/metrics"
	"github.com/tegha-romeo/auth-api/internal/core/domain"
	"github.com/tegha-romeo/auth-api/internal/core/ports"
)

const defaultLookupTimeout = 3 * time.Second

// Authenticate validates the bearer token, loads its subject from the user
// store and attaches the user to the request. Every token problem is
// reported as the same 401.
func Authenticate(tokens ports.TokenService, users ports.UserStore, timeout time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return err
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				result := metrics.ResultInvalid
				var te *domain.TokenError
				if errors.As(err, &te) {
					result = te.Kind.String()
				}
				metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
				log.Debug().Str("reason", result).Msg("bearer token rejected")

				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer error="invalid_token"`)
				return domain.ErrInvalidToken
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			user, err := users.FindByEmail(ctx, claims.Subject)
			cancel()

			switch {
			case errors.Is(err, domain.ErrUserNotFound):
				metrics.TokenVerificationsTotal.WithLabelValues(metrics.ResultUnknownUser).Inc()
				log.Debug().Msg("bearer token subject no longer exists")
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer error="invalid_token"`)
				return domain.ErrInvalidToken
			case err != nil:
				metrics.TokenVerificationsTotal.WithLabelValues(metrics.ResultStoreError).Inc()
				return fmt.Errorf("authenticate: %w: %w", domain.ErrStoreUnavailable, err)
			}

			metrics.TokenVerificationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()

			c.Set(UserKey, user)
			c.SetRequest(c.Request().WithContext(WithUser(c.Request().Context(), user)))

			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return token, nil
}
