package vskema

// ValidateOptions tunes a single validation call.
type ValidateOptions struct {
	// ErrorMap may replace the whole error object.
	ErrorMap func(ValidationError) ValidationError
	// MessageMap may replace only the message; applied after ErrorMap.
	MessageMap func(ValidationError) string
	// AbortEarly halts the whole walk on the first hard error.
	AbortEarly bool
	// AggregateByField fills ValidationResult.ErrorsByField.
	AggregateByField bool
	// Session scopes debounce keys. Calls in different sessions never
	// supersede each other; the empty session is shared by every call
	// through the same engine.
	Session string
}

// Option configures ValidateOptions.
type Option func(*ValidateOptions)

// WithErrorMap installs a function applied to every error before bucketing.
func WithErrorMap(fn func(ValidationError) ValidationError) Option {
	return func(o *ValidateOptions) { o.ErrorMap = fn }
}

// WithMessageMap installs a function that rewrites only error messages.
func WithMessageMap(fn func(ValidationError) string) Option {
	return func(o *ValidateOptions) { o.MessageMap = fn }
}

// WithAbortEarly stops at the first hard error anywhere in the walk.
func WithAbortEarly() Option { return func(o *ValidateOptions) { o.AbortEarly = true } }

// WithAggregateByField groups hard and soft errors by field in the result.
func WithAggregateByField() Option { return func(o *ValidateOptions) { o.AggregateByField = true } }

// WithSession scopes debouncing to one caller, such as a form or a request.
func WithSession(id string) Option { return func(o *ValidateOptions) { o.Session = id } }

// ApplyOptions folds opts into a ValidateOptions value.
func ApplyOptions(opts ...Option) ValidateOptions {
	var o ValidateOptions
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// MapError runs the configured maps over e. Location and severity are owned
// by the engine, so the mapped error keeps e's Field, PathSegments and
// Severity whatever the map returns.
func (o ValidateOptions) MapError(e ValidationError) ValidationError {
	out := e
	if o.ErrorMap != nil {
		out = o.ErrorMap(e)
	}
	if o.MessageMap != nil {
		out.Message = o.MessageMap(out)
	}
	out.Field = e.Field
	out.PathSegments = e.PathSegments
	out.Severity = e.Severity
	return out
}
