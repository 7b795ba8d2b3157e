// Package ginmw adapts the vskema request validator to gin.
package ginmw

import (
	"github.com/gin-gonic/gin"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/middleware"
)

// Validate checks the JSON body against s. A rejected request is aborted
// with the validator's status and payload; middleware.WithRejectionHandler
// does not apply here.
func Validate(s vskema.SchemaDefinition, opts ...middleware.Option) gin.HandlerFunc {
	v := middleware.New(s, opts...)
	return func(c *gin.Context) {
		res, rej := v.Check(c.Request)
		if rej != nil {
			c.AbortWithStatusJSON(rej.Status, rej.Body)
			return
		}
		ctx := middleware.WithResult(middleware.WithValue(c.Request.Context(), res.Value), res)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Value returns the validated body.
func Value(c *gin.Context) (any, bool) {
	return middleware.ValueFrom(c.Request.Context())
}

// Result returns the validation result, soft errors included.
func Result(c *gin.Context) (vskema.ValidationResult, bool) {
	return middleware.ResultFrom(c.Request.Context())
}
