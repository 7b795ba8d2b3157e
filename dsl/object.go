package dsl

import (
	vskema "github.com/reoring/vskema"
)

// ObjectBuilder builds object fields and top-level schemas. Fields keep
// declaration order; redeclaring a name replaces it in place. The default
// unknown-key policy is ignore.
type ObjectBuilder struct{ def vskema.FieldDefinition }

// Object starts an object.
func Object() ObjectBuilder {
	return ObjectBuilder{def: vskema.FieldDefinition{Kind: vskema.KindObject, Nested: &vskema.SchemaDefinition{}}}
}

// From starts an object from an existing schema.
func From(s vskema.SchemaDefinition) ObjectBuilder {
	c := s.Clone()
	return ObjectBuilder{def: vskema.FieldDefinition{Kind: vskema.KindObject, Nested: &c}}
}

func (b ObjectBuilder) schema() vskema.SchemaDefinition {
	if b.def.Nested == nil {
		return vskema.SchemaDefinition{}
	}
	return *b.def.Nested
}

func (b ObjectBuilder) withSchema(s vskema.SchemaDefinition) ObjectBuilder {
	return ObjectBuilder{edit(b.def, func(d *vskema.FieldDefinition) { d.Nested = &s })}
}

// Field declares (or redeclares) a field.
func (b ObjectBuilder) Field(name string, fb Builder) ObjectBuilder {
	return b.withSchema(vskema.Extend(b.schema(), vskema.NamedField{Name: name, FieldDefinition: fb.Build()}))
}

// Require marks several declared fields required at once.
func (b ObjectBuilder) Require(names ...string) ObjectBuilder {
	return b.withSchema(vskema.Required(b.schema(), names...))
}

// Strict rejects undeclared keys.
func (b ObjectBuilder) Strict() ObjectBuilder { return b.withSchema(vskema.Strict(b.schema())) }

// Passthrough accepts and keeps undeclared keys.
func (b ObjectBuilder) Passthrough() ObjectBuilder {
	return b.withSchema(vskema.Passthrough(b.schema()))
}

// Strip accepts and drops undeclared keys (the default).
func (b ObjectBuilder) Strip() ObjectBuilder { return b.withSchema(vskema.Ignore(b.schema())) }

// Catchall validates undeclared keys against fb.
func (b ObjectBuilder) Catchall(fb Builder) ObjectBuilder {
	return b.withSchema(vskema.Catchall(b.schema(), fb.Build()))
}

// Schema returns the object's schema for top-level validation.
func (b ObjectBuilder) Schema() vskema.SchemaDefinition { return b.schema().Clone() }
