// Package rules maps rule kinds to validator functions.
//
// Built-in kinds are dispatched through a closed switch over the
// vskema.RuleKind constants. Anything else is looked up in a per-registry
// side table filled with Register / RegisterAsync. Validators are no-ops on
// empty values; presence is the engine's concern.
package rules

import (
	"context"
	"errors"
	"fmt"
	"sync"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/i18n"
)

var (
	// ErrUnknownRule is returned for rule kinds with no validator.
	ErrUnknownRule = errors.New("rules: unknown rule")
	// ErrUnknownTransform is returned for transform names with no function.
	ErrUnknownTransform = errors.New("rules: unknown transform")
	// ErrBadParams is returned when rule params are missing or mistyped.
	ErrBadParams = errors.New("rules: invalid rule params")
)

// Validator checks one value. It returns nil on success.
type Validator func(value any, params map[string]any, vc vskema.ValidatorContext) *vskema.ValidationError

// AsyncValidator is the long-running counterpart of Validator.
type AsyncValidator func(ctx context.Context, value any, params map[string]any, vc vskema.ValidatorContext) (vskema.AsyncOutcome, error)

// TransformFunc rewrites a value before rules run.
type TransformFunc func(value any, params map[string]any) any

type checkFunc func(value any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error)

// Registry holds custom validators and transforms. The zero value is not
// usable; call NewRegistry.
type Registry struct {
	mu         sync.RWMutex
	custom     map[vskema.RuleKind]Validator
	async      map[vskema.RuleKind]AsyncValidator
	transforms map[string]TransformFunc
}

// NewRegistry returns an empty registry. Built-ins are always available.
func NewRegistry() *Registry {
	return &Registry{
		custom:     make(map[vskema.RuleKind]Validator),
		async:      make(map[vskema.RuleKind]AsyncValidator),
		transforms: make(map[string]TransformFunc),
	}
}

// Default is the registry used when an engine is built without one.
var Default = NewRegistry()

// Register adds or replaces a custom validator on Default.
func Register(tag vskema.RuleKind, fn Validator) { Default.Register(tag, fn) }

// RegisterAsync adds or replaces a custom async validator on Default.
func RegisterAsync(tag vskema.RuleKind, fn AsyncValidator) { Default.RegisterAsync(tag, fn) }

// RegisterTransform adds or replaces a named transform on Default.
func RegisterTransform(name string, fn TransformFunc) { Default.RegisterTransform(name, fn) }

// Register adds or replaces a custom validator. Built-in kinds cannot be
// shadowed; registering one only affects params-driven "custom" rules
// naming it.
func (r *Registry) Register(tag vskema.RuleKind, fn Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn == nil {
		delete(r.custom, tag)
		return
	}
	r.custom[tag] = fn
}

// RegisterAsync adds or replaces a custom async validator.
func (r *Registry) RegisterAsync(tag vskema.RuleKind, fn AsyncValidator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn == nil {
		delete(r.async, tag)
		return
	}
	r.async[tag] = fn
}

// RegisterTransform adds or replaces a named transform.
func (r *Registry) RegisterTransform(name string, fn TransformFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn == nil {
		delete(r.transforms, name)
		return
	}
	r.transforms[name] = fn
}

// Resolve looks up built-ins first, then the custom table.
func (r *Registry) Resolve(kind vskema.RuleKind) (Validator, bool) {
	b, ok := r.lookup(kind)
	if !ok {
		return nil, false
	}
	return func(v any, p map[string]any, vc vskema.ValidatorContext) *vskema.ValidationError {
		e, _ := b(v, p, vc)
		return e
	}, true
}

// ResolveAsync looks up async validators. customAsync dispatches on the
// "name" param; other kinds are looked up in the async table directly.
func (r *Registry) ResolveAsync(kind vskema.RuleKind) (AsyncValidator, bool) {
	if kind == vskema.RuleCustomAsync {
		return r.namedAsync, true
	}
	r.mu.RLock()
	fn, ok := r.async[kind]
	r.mu.RUnlock()
	return fn, ok
}

// ResolveTransform looks up built-in transforms first, then custom ones.
func (r *Registry) ResolveTransform(name string) (TransformFunc, bool) {
	if fn, ok := r.builtinTransform(name); ok {
		return fn, true
	}
	r.mu.RLock()
	fn, ok := r.transforms[name]
	r.mu.RUnlock()
	return fn, ok
}

// Run evaluates a synchronous rule. The returned error is located at vc,
// carries the rule's severity and, when set, the rule's message. A non-nil
// Go error means the rule itself is broken (unknown kind, bad params).
func (r *Registry) Run(rule vskema.ValidationRule, value any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var e *vskema.ValidationError
	if rule.Check != nil {
		if !rule.Check(value, vc) {
			e = fail(vc, vskema.CodeCustom, nil, value, nil)
		}
	} else {
		b, ok := r.lookup(rule.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRule, rule.Kind)
		}
		var err error
		if e, err = b(value, rule.Params, vc); err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Kind, err)
		}
	}
	if e == nil {
		return nil, nil
	}
	out := finish(*e, rule, vc)
	return &out, nil
}

// RunAsync evaluates an async rule: the rule's own callback when present,
// otherwise the registered async validator.
func (r *Registry) RunAsync(ctx context.Context, rule vskema.ValidationRule, value any, vc vskema.ValidatorContext) (vskema.AsyncOutcome, error) {
	if rule.AsyncCheck != nil {
		return rule.AsyncCheck(ctx, value)
	}
	fn, ok := r.ResolveAsync(rule.Kind)
	if !ok {
		return vskema.AsyncOutcome{}, fmt.Errorf("%w: %q", ErrUnknownRule, rule.Kind)
	}
	return fn(ctx, value, rule.Params, vc)
}

// ApplyTransform runs t against v. Fn wins over the named transform.
func (r *Registry) ApplyTransform(t vskema.Transform, v any) (any, error) {
	if t.Fn != nil {
		return t.Fn(v), nil
	}
	fn, ok := r.ResolveTransform(t.Name)
	if !ok {
		return v, fmt.Errorf("%w: %q", ErrUnknownTransform, t.Name)
	}
	return fn(v, t.Params), nil
}

func (r *Registry) lookup(kind vskema.RuleKind) (checkFunc, bool) {
	if b := r.builtin(kind); b != nil {
		return b, true
	}
	r.mu.RLock()
	fn, ok := r.custom[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return func(v any, p map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
		return fn(v, p, vc), nil
	}, true
}

// builtin is the closed dispatch over built-in kinds.
func (r *Registry) builtin(kind vskema.RuleKind) checkFunc {
	switch kind {
	case vskema.RuleMinLength:
		return minLength
	case vskema.RuleMaxLength:
		return maxLength
	case vskema.RuleLength:
		return exactLength
	case vskema.RuleEmail:
		return email
	case vskema.RuleURL:
		return validURL
	case vskema.RuleUUID:
		return validUUID
	case vskema.RulePattern:
		return pattern
	case vskema.RuleStartsWith:
		return startsWith
	case vskema.RuleEndsWith:
		return endsWith
	case vskema.RuleIncludes:
		return includes
	case vskema.RulePhone:
		return phone
	case vskema.RuleIP:
		return validIP
	case vskema.RuleAlphanumeric:
		return alphanumeric
	case vskema.RuleMin:
		return minValue
	case vskema.RuleMax:
		return maxValue
	case vskema.RuleInteger:
		return integer
	case vskema.RulePositive:
		return positive
	case vskema.RuleNegative:
		return negative
	case vskema.RuleMultipleOf:
		return multipleOf
	case vskema.RuleMinDate:
		return minDate
	case vskema.RuleMaxDate:
		return maxDate
	case vskema.RuleMinItems:
		return minItems
	case vskema.RuleMaxItems:
		return maxItems
	case vskema.RuleUnique:
		return unique
	case vskema.RuleUniqueBy:
		return uniqueBy
	case vskema.RuleOneOf:
		return oneOf
	case vskema.RuleEquals:
		return equals
	case vskema.RuleCompareField:
		return compareField
	case vskema.RuleRefine:
		// The predicate lives in ValidationRule.Check; without it (for
		// example after a round trip) there is nothing to run.
		return pass
	case vskema.RuleCustom:
		return r.namedCustom
	}
	return nil
}

func pass(any, map[string]any, vskema.ValidatorContext) (*vskema.ValidationError, error) {
	return nil, nil
}

type namedParams struct {
	Name string `mapstructure:"name"`
}

// namedCustom runs the custom validator named by the "name" param, which
// keeps custom rules serializable.
func (r *Registry) namedCustom(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p namedParams
	if err := decodeParams(params, &p, "name"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	fn, ok := r.custom[vskema.RuleKind(p.Name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: custom %q", ErrUnknownRule, p.Name)
	}
	return fn(v, params, vc), nil
}

func (r *Registry) namedAsync(ctx context.Context, v any, params map[string]any, vc vskema.ValidatorContext) (vskema.AsyncOutcome, error) {
	var p namedParams
	if err := decodeParams(params, &p, "name"); err != nil {
		return vskema.AsyncOutcome{}, err
	}
	r.mu.RLock()
	fn, ok := r.async[vskema.RuleKind(p.Name)]
	r.mu.RUnlock()
	if !ok {
		return vskema.AsyncOutcome{}, fmt.Errorf("%w: customAsync %q", ErrUnknownRule, p.Name)
	}
	return fn(ctx, v, params, vc)
}

// fail builds an error at vc with the translated default message.
func fail(vc vskema.ValidatorContext, code string, data map[string]string, received, expected any) *vskema.ValidationError {
	return &vskema.ValidationError{
		Field:    vc.Path,
		Code:     code,
		Message:  i18n.T(code, data),
		Received: received,
		Expected: expected,
	}
}

func finish(e vskema.ValidationError, rule vskema.ValidationRule, vc vskema.ValidatorContext) vskema.ValidationError {
	e.Field = vc.Path
	e.PathSegments = vskema.ParsePath(vc.Path)
	e.Severity = rule.Severity()
	if e.Code == "" {
		e.Code = vskema.CodeCustom
	}
	if rule.Message != "" {
		e.Message = i18n.Interpolate(rule.Message, paramStrings(rule.Params))
	}
	if e.Message == "" {
		e.Message = i18n.T(e.Code, nil)
	}
	return e
}
