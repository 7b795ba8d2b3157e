// Package engine validates data against vskema schemas.
//
// Validate runs the synchronous pass: it is pure, deterministic and safe
// for parallel use, and it skips async rules. ValidateAsync and
// ValidateContext run the same walk with async rules enabled; siblings fan
// out concurrently and results are reassembled in declaration order, so both
// passes report errors in the same structural order.
package engine

import (
	"context"
	"log/slog"
	"time"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/rules"
)

// DefaultAsyncTimeout bounds an async rule that declares no TimeoutMs.
const DefaultAsyncTimeout = 5 * time.Second

// Engine holds the collaborators of a validation walk. An Engine is safe for
// concurrent use; its Debouncer is shared by every call made through it and
// keyed by vskema.WithSession, so callers in different sessions never
// supersede each other.
type Engine struct {
	reg     *rules.Registry
	log     *slog.Logger
	deb     *Debouncer
	timeout time.Duration
	obs     Observer
	maxConc int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry sets the rule registry (default rules.Default).
func WithRegistry(r *rules.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.reg = r
		}
	}
}

// WithLogger sets the logger used for skipped rules and transforms.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithDebouncer shares a debouncer between engines.
func WithDebouncer(d *Debouncer) Option {
	return func(e *Engine) {
		if d != nil {
			e.deb = d
		}
	}
}

// WithTimeout sets the async timeout used by rules without TimeoutMs.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithObserver installs an event observer (see the metrics package).
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.obs = o
		}
	}
}

// WithMaxConcurrency bounds the async fan-out of each container. Zero means
// unbounded.
func WithMaxConcurrency(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxConc = n
		}
	}
}

// New returns an engine with the given options applied.
func New(opts ...Option) *Engine {
	e := &Engine{
		reg:     rules.Default,
		log:     slog.Default(),
		deb:     NewDebouncer(),
		timeout: DefaultAsyncTimeout,
		obs:     nopObserver{},
	}
	for _, o := range opts {
		if o != nil {
			o(e)
		}
	}
	return e
}

// Registry returns the engine's rule registry.
func (e *Engine) Registry() *rules.Registry { return e.reg }

// Validate runs the synchronous pass. Async rules are skipped.
func (e *Engine) Validate(s vskema.SchemaDefinition, data any, opts ...vskema.Option) vskema.ValidationResult {
	start := time.Now()
	w := e.newWalker(context.Background(), false, vskema.ApplyOptions(opts...))
	res := w.run(s, data)
	e.obs.ValidationDone(ModeSync, res, time.Since(start))
	return res
}

// ValidateAsync starts the asynchronous pass and returns immediately.
func (e *Engine) ValidateAsync(ctx context.Context, s vskema.SchemaDefinition, data any, opts ...vskema.Option) *Future {
	o := vskema.ApplyOptions(opts...)
	return runFuture(ctx, func(ctx context.Context) vskema.ValidationResult {
		start := time.Now()
		w := e.newWalker(ctx, true, o)
		defer w.close()
		res := w.run(s, data)
		e.obs.ValidationDone(ModeAsync, res, time.Since(start))
		return res
	})
}

// ValidateContext runs the asynchronous pass and waits for it.
func (e *Engine) ValidateContext(ctx context.Context, s vskema.SchemaDefinition, data any, opts ...vskema.Option) (vskema.ValidationResult, error) {
	return e.ValidateAsync(ctx, s, data, opts...).Await()
}

// IsValid reports whether data has no hard errors in the synchronous pass.
func (e *Engine) IsValid(s vskema.SchemaDefinition, data any) bool {
	return e.Validate(s, data).Valid
}

// AssertValid returns the validated value, or *vskema.AssertionError
// carrying every hard error.
func (e *Engine) AssertValid(s vskema.SchemaDefinition, data any, opts ...vskema.Option) (any, error) {
	res := e.Validate(s, data, opts...)
	if !res.Valid {
		return nil, &vskema.AssertionError{HardErrors: res.HardErrors}
	}
	return res.Value, nil
}

var std = New()

// Default returns the engine behind the package-level helpers.
func Default() *Engine { return std }

// Validate runs the synchronous pass on the default engine.
func Validate(s vskema.SchemaDefinition, data any, opts ...vskema.Option) vskema.ValidationResult {
	return std.Validate(s, data, opts...)
}

// ValidateAsync starts the asynchronous pass on the default engine.
func ValidateAsync(ctx context.Context, s vskema.SchemaDefinition, data any, opts ...vskema.Option) *Future {
	return std.ValidateAsync(ctx, s, data, opts...)
}

// ValidateContext runs the asynchronous pass on the default engine and waits.
func ValidateContext(ctx context.Context, s vskema.SchemaDefinition, data any, opts ...vskema.Option) (vskema.ValidationResult, error) {
	return std.ValidateContext(ctx, s, data, opts...)
}

// IsValid reports validity using the default engine.
func IsValid(s vskema.SchemaDefinition, data any) bool { return std.IsValid(s, data) }

// AssertValid validates with the default engine.
func AssertValid(s vskema.SchemaDefinition, data any, opts ...vskema.Option) (any, error) {
	return std.AssertValid(s, data, opts...)
}
