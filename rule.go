package vskema

import "context"

// RuleKind tags which validator handles a rule. Built-in kinds are listed
// below; any other tag is resolved against the custom registry.
type RuleKind string

// String rules.
const (
	RuleMinLength    RuleKind = "minLength"
	RuleMaxLength    RuleKind = "maxLength"
	RuleLength       RuleKind = "length"
	RuleEmail        RuleKind = "email"
	RuleURL          RuleKind = "url"
	RuleUUID         RuleKind = "uuid"
	RulePattern      RuleKind = "pattern"
	RuleStartsWith   RuleKind = "startsWith"
	RuleEndsWith     RuleKind = "endsWith"
	RuleIncludes     RuleKind = "includes"
	RulePhone        RuleKind = "phone"
	RuleIP           RuleKind = "ip"
	RuleAlphanumeric RuleKind = "alphanumeric"
)

// Number rules.
const (
	RuleMin        RuleKind = "min"
	RuleMax        RuleKind = "max"
	RuleInteger    RuleKind = "integer"
	RulePositive   RuleKind = "positive"
	RuleNegative   RuleKind = "negative"
	RuleMultipleOf RuleKind = "multipleOf"
)

// Date rules.
const (
	RuleMinDate RuleKind = "minDate"
	RuleMaxDate RuleKind = "maxDate"
)

// Array rules.
const (
	RuleMinItems RuleKind = "minItems"
	RuleMaxItems RuleKind = "maxItems"
	RuleUnique   RuleKind = "unique"
	RuleUniqueBy RuleKind = "uniqueBy"
)

// Kind-independent rules.
const (
	RuleOneOf        RuleKind = "oneOf"
	RuleEquals       RuleKind = "equals"
	RuleCompareField RuleKind = "compareField"
	RuleRefine       RuleKind = "refine"
	RuleCustom       RuleKind = "custom"
	RuleRefineAsync  RuleKind = "refineAsync"
	RuleCustomAsync  RuleKind = "customAsync"
)

// Refinement is a synchronous predicate attached to a refine rule.
type Refinement func(v any, vc ValidatorContext) bool

// AsyncOutcome is the result of an async rule.
type AsyncOutcome struct {
	Valid   bool
	Message string
}

// AsyncCheck is the long-running predicate attached to an async rule. It
// receives the working value and must honor ctx cancellation.
type AsyncCheck func(ctx context.Context, v any) (AsyncOutcome, error)

// AsyncBool adapts a boolean predicate to AsyncCheck.
func AsyncBool(fn func(ctx context.Context, v any) (bool, error)) AsyncCheck {
	return func(ctx context.Context, v any) (AsyncOutcome, error) {
		ok, err := fn(ctx, v)
		return AsyncOutcome{Valid: ok}, err
	}
}

// ValidationRule is one declared constraint on a field.
type ValidationRule struct {
	Kind       RuleKind       `json:"kind" yaml:"kind"`
	Params     map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Message    string         `json:"message,omitempty" yaml:"message,omitempty"`
	Soft       bool           `json:"soft,omitempty" yaml:"soft,omitempty"`
	Async      bool           `json:"async,omitempty" yaml:"async,omitempty"`
	DebounceMs int            `json:"debounceMs,omitempty" yaml:"debounceMs,omitempty"`
	TimeoutMs  int            `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`

	// Callbacks never serialize.
	Check      Refinement `json:"-" yaml:"-"`
	AsyncCheck AsyncCheck `json:"-" yaml:"-"`
}

// Severity returns the severity errors from this rule carry.
func (r ValidationRule) Severity() Severity { return SeverityOf(r.Soft) }

// Param returns a parameter by name.
func (r ValidationRule) Param(name string) (any, bool) {
	v, ok := r.Params[name]
	return v, ok
}

// Clone returns a copy whose params map is not shared.
func (r ValidationRule) Clone() ValidationRule {
	out := r
	out.Params = cloneMap(r.Params)
	return out
}

// Transform rewrites a value before rules run. Named transforms are resolved
// through the rules registry; Fn, when set, wins and is not serializable.
type Transform struct {
	Name   string         `json:"name" yaml:"name"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`

	Fn func(any) any `json:"-" yaml:"-"`
}

// Clone returns a copy whose params map is not shared.
func (t Transform) Clone() Transform {
	out := t
	out.Params = cloneMap(t.Params)
	return out
}

// Named transforms resolved by the rules registry.
const (
	TransformTrim      = "trim"
	TransformLowercase = "lowercase"
	TransformUppercase = "uppercase"
	TransformNormalize = "normalize"
	TransformTitle     = "title"
	TransformToNumber  = "toNumber"
	TransformToBoolean = "toBoolean"
	TransformToDate    = "toDate"
	TransformCustom    = "custom"
)

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneAny(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
