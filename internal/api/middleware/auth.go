package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moklab/auth-service/internal/api/metrics"
	"github.com/moklab/auth-service/internal/core/domain"
	"github.com/moklab/auth-service/internal/core/ports"
	"github.com/moklab/auth-service/internal/core/token"
)

// PrincipalKey is the echo context key under which Authenticate stores the
// resolved domain.Principal.
const PrincipalKey = "principal"

// Authenticate resolves a bearer token into a request-scoped principal.
//
// The middleware fails open: a missing header, a non-bearer scheme, a token
// that does not decode, or a subject that no longer resolves to an enabled
// account all leave the request anonymous and pass it on. Enforcement is the
// job of RequireRoles; keeping the two apart means token-parsing failures
// never leak detail to the client.
func Authenticate(codec *token.Codec, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Debug().Msg("authorization header does not use the bearer scheme")
				return next(c)
			}

			claims, err := codec.Decode(parts[1])
			if err != nil {
				log.Debug().Err(err).Msg("bearer token rejected")
				metrics.TokenValidationsTotal.WithLabelValues(decodeFailureReason(err)).Inc()
				return next(c)
			}

			user, err := users.FindByUsername(c.Request().Context(), claims.Subject)
			if err != nil {
				log.Debug().Str("subject", claims.Subject).Msg("token subject does not resolve")
				metrics.TokenValidationsTotal.WithLabelValues("unknown_subject").Inc()
				return next(c)
			}
			if !user.Enabled {
				metrics.TokenValidationsTotal.WithLabelValues("disabled_subject").Inc()
				return next(c)
			}

			if token.Validate(claims, user.Username, time.Now().UTC()) && c.Get(PrincipalKey) == nil {
				c.Set(PrincipalKey, domain.NewPrincipal(user))
				metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
			}

			return next(c)
		}
	}
}

func decodeFailureReason(err error) string {
	switch err {
	case token.ErrExpired:
		return "expired"
	case token.ErrSignatureInvalid:
		return "bad_signature"
	default:
		return "malformed"
	}
}
