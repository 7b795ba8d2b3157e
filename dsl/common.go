package dsl

import (
	vskema "github.com/reoring/vskema"
)

// Presence, transform, refinement and async methods shared by every builder.

// ---- string ----

// Build returns an independent copy of the definition.
func (b StringBuilder) Build() vskema.FieldDefinition { return b.def.Clone() }

func (b StringBuilder) Required() StringBuilder {
	return StringBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Required = true })}
}

func (b StringBuilder) Optional() StringBuilder {
	return StringBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Required = false })}
}

func (b StringBuilder) Nullable() StringBuilder {
	return StringBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nullable = true })}
}

func (b StringBuilder) Nullish() StringBuilder {
	return StringBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nullish = true })}
}

// Default is used when the key is absent from the input.
func (b StringBuilder) Default(v any) StringBuilder {
	return StringBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Default = v })}
}

func (b StringBuilder) Meta(key string, v any) StringBuilder {
	return StringBuilder{edit(b.def, func(d *vskema.FieldDefinition) {
		if d.Metadata == nil {
			d.Metadata = map[string]any{}
		}
		d.Metadata[key] = v
	})}
}

func (b StringBuilder) Transform(t vskema.Transform) StringBuilder { return StringBuilder{addTransform(b.def, t)} }

func (b StringBuilder) TransformFunc(fn func(any) any) StringBuilder {
	return StringBuilder{addTransform(b.def, vskema.Transform{Name: vskema.TransformCustom, Fn: fn})}
}

func (b StringBuilder) Preprocess(t vskema.Transform) StringBuilder { return StringBuilder{setPreprocess(b.def, t)} }

func (b StringBuilder) PreprocessFunc(fn func(any) any) StringBuilder {
	return StringBuilder{setPreprocess(b.def, vskema.Transform{Name: vskema.TransformCustom, Fn: fn})}
}

func (b StringBuilder) Rule(r vskema.ValidationRule) StringBuilder { return StringBuilder{addRule(b.def, r.Clone())} }

// Soft turns the most recently added rule into a warning.
func (b StringBuilder) Soft() StringBuilder { return StringBuilder{softenLast(b.def)} }

func (b StringBuilder) OneOf(values ...any) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleOneOf, map[string]any{"values": values}, nil))}
}

func (b StringBuilder) Equals(v any, msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleEquals, map[string]any{"value": v}, msg))}
}

// CompareField compares with a sibling (or root-relative) field; op is one
// of eq, ne, lt, le, gt, ge.
func (b StringBuilder) CompareField(field, op string, msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleCompareField, compareParams(field, op), msg))}
}

func (b StringBuilder) Refine(fn vskema.Refinement, msg ...string) StringBuilder {
	r := rule(vskema.RuleRefine, nil, msg)
	r.Check = fn
	return StringBuilder{addRule(b.def, r)}
}

func (b StringBuilder) RefineSoft(fn vskema.Refinement, msg ...string) StringBuilder {
	r := softRule(vskema.RuleRefine, nil, msg)
	r.Check = fn
	return StringBuilder{addRule(b.def, r)}
}

// Custom runs the validator registered under name.
func (b StringBuilder) Custom(name string, params map[string]any, msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleCustom, named(name, params), msg))}
}

func (b StringBuilder) RefineAsync(fn vskema.AsyncCheck, opts ...AsyncOption) StringBuilder {
	return StringBuilder{addRule(b.def, asyncRule(vskema.RuleRefineAsync, nil, fn, opts))}
}

// CustomAsync runs the async validator registered under name.
func (b StringBuilder) CustomAsync(name string, params map[string]any, opts ...AsyncOption) StringBuilder {
	return StringBuilder{addRule(b.def, asyncRule(vskema.RuleCustomAsync, named(name, params), nil, opts))}
}

// ---- number ----

// Build returns an independent copy of the definition.
func (b NumberBuilder) Build() vskema.FieldDefinition { return b.def.Clone() }

func (b NumberBuilder) Required() NumberBuilder {
	return NumberBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Required = true })}
}

func (b NumberBuilder) Optional() NumberBuilder {
	return NumberBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Required = false })}
}

func (b NumberBuilder) Nullable() NumberBuilder {
	return NumberBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nullable = true })}
}

func (b NumberBuilder) Nullish() NumberBuilder {
	return NumberBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nullish = true })}
}

// Default is used when the key is absent from the input.
func (b NumberBuilder) Default(v any) NumberBuilder {
	return NumberBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Default = v })}
}

func (b NumberBuilder) Meta(key string, v any) NumberBuilder {
	return NumberBuilder{edit(b.def, func(d *vskema.FieldDefinition) {
		if d.Metadata == nil {
			d.Metadata = map[string]any{}
		}
		d.Metadata[key] = v
	})}
}

func (b NumberBuilder) Transform(t vskema.Transform) NumberBuilder { return NumberBuilder{addTransform(b.def, t)} }

func (b NumberBuilder) TransformFunc(fn func(any) any) NumberBuilder {
	return NumberBuilder{addTransform(b.def, vskema.Transform{Name: vskema.TransformCustom, Fn: fn})}
}

func (b NumberBuilder) Preprocess(t vskema.Transform) NumberBuilder { return NumberBuilder{setPreprocess(b.def, t)} }

func (b NumberBuilder) PreprocessFunc(fn func(any) any) NumberBuilder {
	return NumberBuilder{setPreprocess(b.def, vskema.Transform{Name: vskema.TransformCustom, Fn: fn})}
}

func (b NumberBuilder) Rule(r vskema.ValidationRule) NumberBuilder { return NumberBuilder{addRule(b.def, r.Clone())} }

// Soft turns the most recently added rule into a warning.
func (b NumberBuilder) Soft() NumberBuilder { return NumberBuilder{softenLast(b.def)} }

func (b NumberBuilder) OneOf(values ...any) NumberBuilder {
	return NumberBuilder{addRule(b.def, rule(vskema.RuleOneOf, map[string]any{"values": values}, nil))}
}

func (b NumberBuilder) Equals(v any, msg ...string) NumberBuilder {
	return NumberBuilder{addRule(b.def, rule(vskema.RuleEquals, map[string]any{"value": v}, msg))}
}

// CompareField compares with a sibling (or root-relative) field; op is one
// of eq, ne, lt, le, gt, ge.
func (b NumberBuilder) CompareField(field, op string, msg ...string) NumberBuilder {
	return NumberBuilder{addRule(b.def, rule(vskema.RuleCompareField, compareParams(field, op), msg))}
}

func (b NumberBuilder) Refine(fn vskema.Refinement, msg ...string) NumberBuilder {
	r := rule(vskema.RuleRefine, nil, msg)
	r.Check = fn
	return NumberBuilder{addRule(b.def, r)}
}

func (b NumberBuilder) RefineSoft(fn vskema.Refinement, msg ...string) NumberBuilder {
	r := softRule(vskema.RuleRefine, nil, msg)
	r.Check = fn
	return NumberBuilder{addRule(b.def, r)}
}

// Custom runs the validator registered under name.
func (b NumberBuilder) Custom(name string, params map[string]any, msg ...string) NumberBuilder {
	return NumberBuilder{addRule(b.def, rule(vskema.RuleCustom, named(name, params), msg))}
}

func (b NumberBuilder) RefineAsync(fn vskema.AsyncCheck, opts ...AsyncOption) NumberBuilder {
	return NumberBuilder{addRule(b.def, asyncRule(vskema.RuleRefineAsync, nil, fn, opts))}
}

// CustomAsync runs the async validator registered under name.
func (b NumberBuilder) CustomAsync(name string, params map[string]any, opts ...AsyncOption) NumberBuilder {
	return NumberBuilder{addRule(b.def, asyncRule(vskema.RuleCustomAsync, named(name, params), nil, opts))}
}

// ---- boolean ----

// Build returns an independent copy of the definition.
func (b BooleanBuilder) Build() vskema.FieldDefinition { return b.def.Clone() }

func (b BooleanBuilder) Required() BooleanBuilder {
	return BooleanBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Required = true })}
}

func (b BooleanBuilder) Optional() BooleanBuilder {
	return BooleanBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Required = false })}
}

func (b BooleanBuilder) Nullable() BooleanBuilder {
	return BooleanBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nullable = true })}
}

func (b BooleanBuilder) Nullish() BooleanBuilder {
	return BooleanBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nullish = true })}
}

// Default is used when the key is absent from the input.
func (b BooleanBuilder) Default(v any) BooleanBuilder {
	return BooleanBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Default = v })}
}

func (b BooleanBuilder) Meta(key string, v any) BooleanBuilder {
	return BooleanBuilder{edit(b.def, func(d *vskema.FieldDefinition) {
		if d.Metadata == nil {
			d.Metadata = map[string]any{}
		}
		d.Metadata[key] = v
	})}
}

func (b BooleanBuilder) Transform(t vskema.Transform) BooleanBuilder { return BooleanBuilder{addTransform(b.def, t)} }

func (b BooleanBuilder) TransformFunc(fn func(any) any) BooleanBuilder {
	return BooleanBuilder{addTransform(b.def, vskema.Transform{Name: vskema.TransformCustom, Fn: fn})}
}

func (b BooleanBuilder) Preprocess(t vskema.Transform) BooleanBuilder { return BooleanBuilder{setPreprocess(b.def, t)} }

func (b BooleanBuilder) PreprocessFunc(fn func(any) any) BooleanBuilder {
	return BooleanBuilder{setPreprocess(b.def, vskema.Transform{Name: vskema.TransformCustom, Fn: fn})}
}

func (b BooleanBuilder) Rule(r vskema.ValidationRule) BooleanBuilder { return BooleanBuilder{addRule(b.def, r.Clone())} }

// Soft turns the most recently added rule into a warning.
func (b BooleanBuilder) Soft() BooleanBuilder { return BooleanBuilder{softenLast(b.def)} }

func (b BooleanBuilder) OneOf(values ...any) BooleanBuilder {
	return BooleanBuilder{addRule(b.def, rule(vskema.RuleOneOf, map[string]any{"values": values}, nil))}
}

func (b BooleanBuilder) Equals(v any, msg ...string) BooleanBuilder {
	return BooleanBuilder{addRule(b.def, rule(vskema.RuleEquals, map[string]any{"value": v}, msg))}
}

// CompareField compares with a sibling (or root-relative) field; op is one
// of eq, ne, lt, le, gt, ge.
func (b BooleanBuilder) CompareField(field, op string, msg ...string) BooleanBuilder {
	return BooleanBuilder{addRule(b.def, rule(vskema.RuleCompareField, compareParams(field, op), msg))}
}

func (b BooleanBuilder) Refine(fn vskema.Refinement, msg ...string) BooleanBuilder {
	r := rule(vskema.RuleRefine, nil, msg)
	r.Check = fn
	return BooleanBuilder{addRule(b.def, r)}
}

func (b BooleanBuilder) RefineSoft(fn vskema.Refinement, msg ...string) BooleanBuilder {
	r := softRule(vskema.RuleRefine, nil, msg)
	r.Check = fn
	return BooleanBuilder{addRule(b.def, r)}
}

// Custom runs the validator registered under name.
func (b BooleanBuilder) Custom(name string, params map[string]any, msg ...string) BooleanBuilder {
	return BooleanBuilder{addRule(b.def, rule(vskema.RuleCustom, named(name, params), msg))}
}

func (b BooleanBuilder) RefineAsync(fn vskema.AsyncCheck, opts ...AsyncOption) BooleanBuilder {
	return BooleanBuilder{addRule(b.def, asyncRule(vskema.RuleRefineAsync, nil, fn, opts))}
}

// CustomAsync runs the async validator registered under name.
func (b BooleanBuilder) CustomAsync(name string, params map[string]any, opts ...AsyncOption) BooleanBuilder {
	return BooleanBuilder{addRule(b.def, asyncRule(vskema.RuleCustomAsync, named(name, params), nil, opts))}
}

// ---- date ----

// Build returns an independent copy of the definition.
func (b DateBuilder) Build() vskema.FieldDefinition { return b.def.Clone() }

func (b DateBuilder) Required() DateBuilder {
	return DateBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Required = true })}
}

func (b DateBuilder) Optional() DateBuilder {
	return DateBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Required = false })}
}

func (b DateBuilder) Nullable() DateBuilder {
	return DateBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nullable = true })}
}

func (b DateBuilder) Nullish() DateBuilder {
	return DateBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nullish = true })}
}

// Default is used when the key is absent from the input.
func (b DateBuilder) Default(v any) DateBuilder {
	return DateBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Default = v })}
}

func (b DateBuilder) Meta(key string, v any) DateBuilder {
	return DateBuilder{edit(b.def, func(d *vskema.FieldDefinition) {
		if d.Metadata == nil {
			d.Metadata = map[string]any{}
		}
		d.Metadata[key] = v
	})}
}

func (b DateBuilder) Transform(t vskema.Transform) DateBuilder { return DateBuilder{addTransform(b.def, t)} }

func (b DateBuilder) TransformFunc(fn func(any) any) DateBuilder {
	return DateBuilder{addTransform(b.def, vskema.Transform{Name: vskema.TransformCustom, Fn: fn})}
}

func (b DateBuilder) Preprocess(t vskema.Transform) DateBuilder { return DateBuilder{setPreprocess(b.def, t)} }

func (b DateBuilder) PreprocessFunc(fn func(any) any) DateBuilder {
	return DateBuilder{setPreprocess(b.def, vskema.Transform{Name: vskema.TransformCustom, Fn: fn})}
}

func (b DateBuilder) Rule(r vskema.ValidationRule) DateBuilder { return DateBuilder{addRule(b.def, r.Clone())} }

// Soft turns the most recently added rule into a warning.
func (b DateBuilder) Soft() DateBuilder { return DateBuilder{softenLast(b.def)} }

func (b DateBuilder) OneOf(values ...any) DateBuilder {
	return DateBuilder{addRule(b.def, rule(vskema.RuleOneOf, map[string]any{"values": values}, nil))}
}

func (b DateBuilder) Equals(v any, msg ...string) DateBuilder {
	return DateBuilder{addRule(b.def, rule(vskema.RuleEquals, map[string]any{"value": v}, msg))}
}

// CompareField compares with a sibling (or root-relative) field; op is one
// of eq, ne, lt, le, gt, ge.
func (b DateBuilder) CompareField(field, op string, msg ...string) DateBuilder {
	return DateBuilder{addRule(b.def, rule(vskema.RuleCompareField, compareParams(field, op), msg))}
}

func (b DateBuilder) Refine(fn vskema.Refinement, msg ...string) DateBuilder {
	r := rule(vskema.RuleRefine, nil, msg)
	r.Check = fn
	return DateBuilder{addRule(b.def, r)}
}

func (b DateBuilder) RefineSoft(fn vskema.Refinement, msg ...string) DateBuilder {
	r := softRule(vskema.RuleRefine, nil, msg)
	r.Check = fn
	return DateBuilder{addRule(b.def, r)}
}

// Custom runs the validator registered under name.
func (b DateBuilder) Custom(name string, params map[string]any, msg ...string) DateBuilder {
	return DateBuilder{addRule(b.def, rule(vskema.RuleCustom, named(name, params), msg))}
}

func (b DateBuilder) RefineAsync(fn vskema.AsyncCheck, opts ...AsyncOption) DateBuilder {
	return DateBuilder{addRule(b.def, asyncRule(vskema.RuleRefineAsync, nil, fn, opts))}
}

// CustomAsync runs the async validator registered under name.
func (b DateBuilder) CustomAsync(name string, params map[string]any, opts ...AsyncOption) DateBuilder {
	return DateBuilder{addRule(b.def, asyncRule(vskema.RuleCustomAsync, named(name, params), nil, opts))}
}

// ---- array ----

// Build returns an independent copy of the definition.
func (b ArrayBuilder) Build() vskema.FieldDefinition { return b.def.Clone() }

func (b ArrayBuilder) Required() ArrayBuilder {
	return ArrayBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Required = true })}
}

func (b ArrayBuilder) Optional() ArrayBuilder {
	return ArrayBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Required = false })}
}

func (b ArrayBuilder) Nullable() ArrayBuilder {
	return ArrayBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nullable = true })}
}

func (b ArrayBuilder) Nullish() ArrayBuilder {
	return ArrayBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nullish = true })}
}

// Default is used when the key is absent from the input.
func (b ArrayBuilder) Default(v any) ArrayBuilder {
	return ArrayBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Default = v })}
}

func (b ArrayBuilder) Meta(key string, v any) ArrayBuilder {
	return ArrayBuilder{edit(b.def, func(d *vskema.FieldDefinition) {
		if d.Metadata == nil {
			d.Metadata = map[string]any{}
		}
		d.Metadata[key] = v
	})}
}

func (b ArrayBuilder) Transform(t vskema.Transform) ArrayBuilder { return ArrayBuilder{addTransform(b.def, t)} }

func (b ArrayBuilder) TransformFunc(fn func(any) any) ArrayBuilder {
	return ArrayBuilder{addTransform(b.def, vskema.Transform{Name: vskema.TransformCustom, Fn: fn})}
}

func (b ArrayBuilder) Preprocess(t vskema.Transform) ArrayBuilder { return ArrayBuilder{setPreprocess(b.def, t)} }

func (b ArrayBuilder) PreprocessFunc(fn func(any) any) ArrayBuilder {
	return ArrayBuilder{setPreprocess(b.def, vskema.Transform{Name: vskema.TransformCustom, Fn: fn})}
}

func (b ArrayBuilder) Rule(r vskema.ValidationRule) ArrayBuilder { return ArrayBuilder{addRule(b.def, r.Clone())} }

// Soft turns the most recently added rule into a warning.
func (b ArrayBuilder) Soft() ArrayBuilder { return ArrayBuilder{softenLast(b.def)} }

func (b ArrayBuilder) OneOf(values ...any) ArrayBuilder {
	return ArrayBuilder{addRule(b.def, rule(vskema.RuleOneOf, map[string]any{"values": values}, nil))}
}

func (b ArrayBuilder) Equals(v any, msg ...string) ArrayBuilder {
	return ArrayBuilder{addRule(b.def, rule(vskema.RuleEquals, map[string]any{"value": v}, msg))}
}

// CompareField compares with a sibling (or root-relative) field; op is one
// of eq, ne, lt, le, gt, ge.
func (b ArrayBuilder) CompareField(field, op string, msg ...string) ArrayBuilder {
	return ArrayBuilder{addRule(b.def, rule(vskema.RuleCompareField, compareParams(field, op), msg))}
}

func (b ArrayBuilder) Refine(fn vskema.Refinement, msg ...string) ArrayBuilder {
	r := rule(vskema.RuleRefine, nil, msg)
	r.Check = fn
	return ArrayBuilder{addRule(b.def, r)}
}

func (b ArrayBuilder) RefineSoft(fn vskema.Refinement, msg ...string) ArrayBuilder {
	r := softRule(vskema.RuleRefine, nil, msg)
	r.Check = fn
	return ArrayBuilder{addRule(b.def, r)}
}

// Custom runs the validator registered under name.
func (b ArrayBuilder) Custom(name string, params map[string]any, msg ...string) ArrayBuilder {
	return ArrayBuilder{addRule(b.def, rule(vskema.RuleCustom, named(name, params), msg))}
}

func (b ArrayBuilder) RefineAsync(fn vskema.AsyncCheck, opts ...AsyncOption) ArrayBuilder {
	return ArrayBuilder{addRule(b.def, asyncRule(vskema.RuleRefineAsync, nil, fn, opts))}
}

// CustomAsync runs the async validator registered under name.
func (b ArrayBuilder) CustomAsync(name string, params map[string]any, opts ...AsyncOption) ArrayBuilder {
	return ArrayBuilder{addRule(b.def, asyncRule(vskema.RuleCustomAsync, named(name, params), nil, opts))}
}

// ---- object ----

// Build returns an independent copy of the definition.
func (b ObjectBuilder) Build() vskema.FieldDefinition { return b.def.Clone() }

func (b ObjectBuilder) Required() ObjectBuilder {
	return ObjectBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Required = true })}
}

func (b ObjectBuilder) Optional() ObjectBuilder {
	return ObjectBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Required = false })}
}

func (b ObjectBuilder) Nullable() ObjectBuilder {
	return ObjectBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nullable = true })}
}

func (b ObjectBuilder) Nullish() ObjectBuilder {
	return ObjectBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nullish = true })}
}

// Default is used when the key is absent from the input.
func (b ObjectBuilder) Default(v any) ObjectBuilder {
	return ObjectBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Default = v })}
}

func (b ObjectBuilder) Meta(key string, v any) ObjectBuilder {
	return ObjectBuilder{edit(b.def, func(d *vskema.FieldDefinition) {
		if d.Metadata == nil {
			d.Metadata = map[string]any{}
		}
		d.Metadata[key] = v
	})}
}

func (b ObjectBuilder) Transform(t vskema.Transform) ObjectBuilder { return ObjectBuilder{addTransform(b.def, t)} }

func (b ObjectBuilder) TransformFunc(fn func(any) any) ObjectBuilder {
	return ObjectBuilder{addTransform(b.def, vskema.Transform{Name: vskema.TransformCustom, Fn: fn})}
}

func (b ObjectBuilder) Preprocess(t vskema.Transform) ObjectBuilder { return ObjectBuilder{setPreprocess(b.def, t)} }

func (b ObjectBuilder) PreprocessFunc(fn func(any) any) ObjectBuilder {
	return ObjectBuilder{setPreprocess(b.def, vskema.Transform{Name: vskema.TransformCustom, Fn: fn})}
}

func (b ObjectBuilder) Rule(r vskema.ValidationRule) ObjectBuilder { return ObjectBuilder{addRule(b.def, r.Clone())} }

// Soft turns the most recently added rule into a warning.
func (b ObjectBuilder) Soft() ObjectBuilder { return ObjectBuilder{softenLast(b.def)} }

func (b ObjectBuilder) OneOf(values ...any) ObjectBuilder {
	return ObjectBuilder{addRule(b.def, rule(vskema.RuleOneOf, map[string]any{"values": values}, nil))}
}

func (b ObjectBuilder) Equals(v any, msg ...string) ObjectBuilder {
	return ObjectBuilder{addRule(b.def, rule(vskema.RuleEquals, map[string]any{"value": v}, msg))}
}

// CompareField compares with a sibling (or root-relative) field; op is one
// of eq, ne, lt, le, gt, ge.
func (b ObjectBuilder) CompareField(field, op string, msg ...string) ObjectBuilder {
	return ObjectBuilder{addRule(b.def, rule(vskema.RuleCompareField, compareParams(field, op), msg))}
}

func (b ObjectBuilder) Refine(fn vskema.Refinement, msg ...string) ObjectBuilder {
	r := rule(vskema.RuleRefine, nil, msg)
	r.Check = fn
	return ObjectBuilder{addRule(b.def, r)}
}

func (b ObjectBuilder) RefineSoft(fn vskema.Refinement, msg ...string) ObjectBuilder {
	r := softRule(vskema.RuleRefine, nil, msg)
	r.Check = fn
	return ObjectBuilder{addRule(b.def, r)}
}

// Custom runs the validator registered under name.
func (b ObjectBuilder) Custom(name string, params map[string]any, msg ...string) ObjectBuilder {
	return ObjectBuilder{addRule(b.def, rule(vskema.RuleCustom, named(name, params), msg))}
}

func (b ObjectBuilder) RefineAsync(fn vskema.AsyncCheck, opts ...AsyncOption) ObjectBuilder {
	return ObjectBuilder{addRule(b.def, asyncRule(vskema.RuleRefineAsync, nil, fn, opts))}
}

// CustomAsync runs the async validator registered under name.
func (b ObjectBuilder) CustomAsync(name string, params map[string]any, opts ...AsyncOption) ObjectBuilder {
	return ObjectBuilder{addRule(b.def, asyncRule(vskema.RuleCustomAsync, named(name, params), nil, opts))}
}
