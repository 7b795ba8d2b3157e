package dsl

import (
	vskema "github.com/reoring/vskema"
)

// Builder is anything that can produce a field definition. All builders in
// this package are persistent: every method returns a new builder and never
// touches the receiver, so a partially built chain can be shared freely.
type Builder interface {
	Build() vskema.FieldDefinition
}

// Def wraps an existing definition so it can be passed where a Builder is
// expected (for example a schema decoded from JSON).
func Def(fd vskema.FieldDefinition) Builder { return defBuilder{fd: fd.Clone()} }

type defBuilder struct{ fd vskema.FieldDefinition }

func (d defBuilder) Build() vskema.FieldDefinition { return d.fd.Clone() }

// AsyncOption tunes an async rule.
type AsyncOption func(*vskema.ValidationRule)

// Debounce coalesces calls for the same field and rule arriving within ms.
func Debounce(ms int) AsyncOption { return func(r *vskema.ValidationRule) { r.DebounceMs = ms } }

// Timeout bounds the validator's run time; the engine default applies when unset.
func Timeout(ms int) AsyncOption { return func(r *vskema.ValidationRule) { r.TimeoutMs = ms } }

// Message overrides the error message.
func Message(msg string) AsyncOption { return func(r *vskema.ValidationRule) { r.Message = msg } }

// SoftAsync reports failures as soft errors.
func SoftAsync() AsyncOption { return func(r *vskema.ValidationRule) { r.Soft = true } }

// edit returns a modified deep copy of def.
func edit(def vskema.FieldDefinition, fn func(*vskema.FieldDefinition)) vskema.FieldDefinition {
	d := def.Clone()
	fn(&d)
	return d
}

func rule(kind vskema.RuleKind, params map[string]any, msg []string) vskema.ValidationRule {
	r := vskema.ValidationRule{Kind: kind, Params: params}
	if len(msg) > 0 {
		r.Message = msg[0]
	}
	return r
}

func softRule(kind vskema.RuleKind, params map[string]any, msg []string) vskema.ValidationRule {
	r := rule(kind, params, msg)
	r.Soft = true
	return r
}

func addRule(def vskema.FieldDefinition, r vskema.ValidationRule) vskema.FieldDefinition {
	return edit(def, func(d *vskema.FieldDefinition) { d.Rules = append(d.Rules, r) })
}

func addTransform(def vskema.FieldDefinition, t vskema.Transform) vskema.FieldDefinition {
	return edit(def, func(d *vskema.FieldDefinition) { d.Transforms = append(d.Transforms, t) })
}

func setPreprocess(def vskema.FieldDefinition, t vskema.Transform) vskema.FieldDefinition {
	return edit(def, func(d *vskema.FieldDefinition) { d.Preprocess = &t })
}

// softenLast marks the most recently added rule soft.
func softenLast(def vskema.FieldDefinition) vskema.FieldDefinition {
	if len(def.Rules) == 0 {
		return def
	}
	return edit(def, func(d *vskema.FieldDefinition) { d.Rules[len(d.Rules)-1].Soft = true })
}

func asyncRule(kind vskema.RuleKind, params map[string]any, check vskema.AsyncCheck, opts []AsyncOption) vskema.ValidationRule {
	r := vskema.ValidationRule{Kind: kind, Params: params, Async: true, AsyncCheck: check}
	for _, o := range opts {
		if o != nil {
			o(&r)
		}
	}
	return r
}

func named(name string, params map[string]any) map[string]any {
	out := make(map[string]any, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	out["name"] = name
	return out
}

func compareParams(field, op string) map[string]any {
	if op == "" {
		op = "eq"
	}
	return map[string]any{"field": field, "op": op}
}
