package middleware

import (
	"log/slog"
	"net/http"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/engine"
	"github.com/reoring/vskema/source"
)

// DefaultMaxBodyBytes bounds request bodies unless WithMaxBodyBytes says
// otherwise.
const DefaultMaxBodyBytes = 1 << 20

type config struct {
	engine      *engine.Engine
	async       bool
	validate    []vskema.Option
	decode      []source.Option
	maxBytes    int64
	logger      *slog.Logger
	onRejection RejectionHandler
}

// RejectionHandler writes the response for a rejected request.
type RejectionHandler func(w http.ResponseWriter, r *http.Request, rej *Rejection)

// Option configures the validator.
type Option func(*config)

// WithEngine validates through e instead of engine.Default().
func WithEngine(e *engine.Engine) Option {
	return func(c *config) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithAsync runs the asynchronous pass bound to the request context.
func WithAsync() Option { return func(c *config) { c.async = true } }

// WithValidateOptions passes options such as vskema.WithAbortEarly to every
// validation.
func WithValidateOptions(opts ...vskema.Option) Option {
	return func(c *config) { c.validate = append(c.validate, opts...) }
}

// WithDecodeOptions adds source options. Duplicate keys are always rejected.
func WithDecodeOptions(opts ...source.Option) Option {
	return func(c *config) { c.decode = append(c.decode, opts...) }
}

// WithMaxBodyBytes bounds the request body; n <= 0 removes the bound.
func WithMaxBodyBytes(n int64) Option { return func(c *config) { c.maxBytes = n } }

// WithLogger sets the logger for rejected requests.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRejectionHandler replaces the default JSON responder.
func WithRejectionHandler(h RejectionHandler) Option {
	return func(c *config) {
		if h != nil {
			c.onRejection = h
		}
	}
}
