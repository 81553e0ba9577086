package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/soundstage/soundstage-api/internal/core/domain"
	"github.com/soundstage/soundstage-api/internal/core/identity"
)

// principal returns the identity attached by the Auth middleware. A route
// registered without the middleware has none and is treated as unauthenticated.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := identity.FromContext(c.Request().Context())
	if !ok {
		return domain.Principal{}, domain.ErrAuthHeaderMissing
	}
	return p, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("Invalid %s", name)
	}
	return id, nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("Invalid payload")
	}
	return c.Validate(req)
}
