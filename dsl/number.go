package dsl

import (
	vskema "github.com/reoring/vskema"
)

// NumberBuilder builds number fields. Any Go numeric type and json.Number
// satisfy the kind check.
type NumberBuilder struct{ def vskema.FieldDefinition }

// Number starts a number field.
func Number() NumberBuilder { return NumberBuilder{def: vskema.FieldDefinition{Kind: vskema.KindNumber}} }

func (b NumberBuilder) Min(n float64, msg ...string) NumberBuilder {
	return NumberBuilder{addRule(b.def, rule(vskema.RuleMin, map[string]any{"min": n}, msg))}
}

func (b NumberBuilder) Max(n float64, msg ...string) NumberBuilder {
	return NumberBuilder{addRule(b.def, rule(vskema.RuleMax, map[string]any{"max": n}, msg))}
}

// MinSoft is Min reported as a warning.
func (b NumberBuilder) MinSoft(n float64, msg ...string) NumberBuilder {
	return NumberBuilder{addRule(b.def, softRule(vskema.RuleMin, map[string]any{"min": n}, msg))}
}

// MaxSoft is Max reported as a warning.
func (b NumberBuilder) MaxSoft(n float64, msg ...string) NumberBuilder {
	return NumberBuilder{addRule(b.def, softRule(vskema.RuleMax, map[string]any{"max": n}, msg))}
}

func (b NumberBuilder) Int(msg ...string) NumberBuilder {
	return NumberBuilder{addRule(b.def, rule(vskema.RuleInteger, nil, msg))}
}

func (b NumberBuilder) Positive(msg ...string) NumberBuilder {
	return NumberBuilder{addRule(b.def, rule(vskema.RulePositive, nil, msg))}
}

func (b NumberBuilder) Negative(msg ...string) NumberBuilder {
	return NumberBuilder{addRule(b.def, rule(vskema.RuleNegative, nil, msg))}
}

func (b NumberBuilder) MultipleOf(n float64, msg ...string) NumberBuilder {
	return NumberBuilder{addRule(b.def, rule(vskema.RuleMultipleOf, map[string]any{"value": n}, msg))}
}

// Coerce converts numeric strings and booleans before the kind check.
func (b NumberBuilder) Coerce() NumberBuilder {
	return NumberBuilder{setPreprocess(b.def, vskema.Transform{Name: vskema.TransformToNumber})}
}

// BooleanBuilder builds boolean fields.
type BooleanBuilder struct{ def vskema.FieldDefinition }

// Boolean starts a boolean field.
func Boolean() BooleanBuilder {
	return BooleanBuilder{def: vskema.FieldDefinition{Kind: vskema.KindBoolean}}
}

// Coerce converts "true"/"false", "yes"/"no", "1"/"0" and numbers before the kind check.
func (b BooleanBuilder) Coerce() BooleanBuilder {
	return BooleanBuilder{setPreprocess(b.def, vskema.Transform{Name: vskema.TransformToBoolean})}
}
