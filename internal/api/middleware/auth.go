package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/soundstage/soundstage-api/internal/api/metrics"
	"github.com/soundstage/soundstage-api/internal/core/domain"
	"github.com/soundstage/soundstage-api/internal/core/identity"
	"github.com/soundstage/soundstage-api/internal/core/ports"
)

const bearerScheme = "Bearer"

// ParseBearer extracts the token from an Authorization header value. The
// header must be exactly "Bearer <token>": one space, two parts and a
// case-sensitive scheme.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", domain.ErrAuthHeaderMissing
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != bearerScheme {
		return "", domain.ErrAuthHeaderMalformed
	}
	return parts[1], nil
}

// Auth verifies the bearer token and attaches the principal to the request
// context. Handlers behind it read identity with identity.FromContext.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			token, err := ParseBearer(req.Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return err
			}

			p, err := verifier.Verify(token)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				if !errors.Is(err, domain.ErrTokenInvalid) {
					err = fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
				}
				return err
			}

			c.SetRequest(req.WithContext(identity.WithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}

func rejectionReason(err error) string {
	if errors.Is(err, domain.ErrAuthHeaderMissing) {
		return "missing_header"
	}
	return "malformed_header"
}
