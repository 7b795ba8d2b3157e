package middleware

import (
	"context"

	vskema "github.com/reoring/vskema"
)

type valueKey struct{}

type resultKey struct{}

// WithValue stores the validated value in ctx.
func WithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, valueKey{}, v)
}

// ValueFrom returns the validated request value stored by the middleware.
func ValueFrom(ctx context.Context) (any, bool) {
	v := ctx.Value(valueKey{})
	return v, v != nil
}

// WithResult stores the full validation result in ctx.
func WithResult(ctx context.Context, r vskema.ValidationResult) context.Context {
	return context.WithValue(ctx, resultKey{}, r)
}

// ResultFrom returns the validation result, including soft errors, stored by
// the middleware.
func ResultFrom(ctx context.Context) (vskema.ValidationResult, bool) {
	r, ok := ctx.Value(resultKey{}).(vskema.ValidationResult)
	return r, ok
}
