package dsl

import (
	"time"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/codec"
)

// DateBuilder builds date fields. time.Time values and RFC3339 or
// YYYY-MM-DD strings satisfy the kind check.
type DateBuilder struct{ def vskema.FieldDefinition }

// Date starts a date field.
func Date() DateBuilder { return DateBuilder{def: vskema.FieldDefinition{Kind: vskema.KindDate}} }

// Min rejects dates before t. The bound is stored as a canonical RFC3339
// string so the schema stays serializable.
func (b DateBuilder) Min(t time.Time, msg ...string) DateBuilder {
	return DateBuilder{addRule(b.def, rule(vskema.RuleMinDate, map[string]any{"min": codec.FormatDate(t)}, msg))}
}

// Max rejects dates after t.
func (b DateBuilder) Max(t time.Time, msg ...string) DateBuilder {
	return DateBuilder{addRule(b.def, rule(vskema.RuleMaxDate, map[string]any{"max": codec.FormatDate(t)}, msg))}
}

// Coerce parses strings and Unix milliseconds into time.Time before the kind check.
func (b DateBuilder) Coerce() DateBuilder {
	return DateBuilder{setPreprocess(b.def, vskema.Transform{Name: vskema.TransformToDate})}
}
