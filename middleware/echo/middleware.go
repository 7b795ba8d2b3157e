// Package echomw adapts the vskema request validator to echo.
package echomw

import (
	"github.com/labstack/echo/v4"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/middleware"
)

// Validate checks the JSON body against s and answers rejected requests
// with the validator's status and payload.
func Validate(s vskema.SchemaDefinition, opts ...middleware.Option) echo.MiddlewareFunc {
	v := middleware.New(s, opts...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res, rej := v.Check(c.Request())
			if rej != nil {
				return c.JSON(rej.Status, rej.Body)
			}
			ctx := middleware.WithResult(middleware.WithValue(c.Request().Context(), res.Value), res)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// Value returns the validated body.
func Value(c echo.Context) (any, bool) {
	return middleware.ValueFrom(c.Request().Context())
}

// Result returns the validation result, soft errors included.
func Result(c echo.Context) (vskema.ValidationResult, bool) {
	return middleware.ResultFrom(c.Request().Context())
}
