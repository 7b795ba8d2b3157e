package vskema

// NamedField pairs a field name with its definition. Declaration order is
// significant: engines report errors in this order.
type NamedField struct {
	Name            string `json:"name" yaml:"name"`
	FieldDefinition `yaml:",inline"`
}

// UnknownKeys is the schema-level policy for object keys absent from Fields.
// Catchall is only consulted when Policy is UnknownCatchall.
type UnknownKeys struct {
	Policy   UnknownPolicy    `json:"policy,omitempty" yaml:"policy,omitempty"`
	Catchall *FieldDefinition `json:"catchall,omitempty" yaml:"catchall,omitempty"`
}

// SchemaDefinition is a plain, serializable description of an object shape.
type SchemaDefinition struct {
	Fields  []NamedField `json:"fields" yaml:"fields"`
	Unknown UnknownKeys  `json:"unknownKeys,omitempty" yaml:"unknownKeys,omitempty"`
}

// NewSchema builds a schema from fields in the given order. A later field
// with the same name replaces the earlier one in place.
func NewSchema(fields ...NamedField) SchemaDefinition {
	s := SchemaDefinition{Fields: make([]NamedField, 0, len(fields))}
	for _, f := range fields {
		s = s.with(f.Name, f.FieldDefinition.Clone())
	}
	return s
}

// Policy returns the effective unknown-key policy (ignore when unset).
func (s SchemaDefinition) Policy() UnknownPolicy {
	if s.Unknown.Policy == "" {
		return UnknownIgnore
	}
	return s.Unknown.Policy
}

// Len returns the number of declared fields.
func (s SchemaDefinition) Len() int { return len(s.Fields) }

// Names lists field names in declaration order.
func (s SchemaDefinition) Names() []string {
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		out = append(out, f.Name)
	}
	return out
}

// Lookup returns the definition of name.
func (s SchemaDefinition) Lookup(name string) (FieldDefinition, bool) {
	if i := s.indexOf(name); i >= 0 {
		return s.Fields[i].FieldDefinition, true
	}
	return FieldDefinition{}, false
}

// Has reports whether name is declared.
func (s SchemaDefinition) Has(name string) bool { return s.indexOf(name) >= 0 }

// Clone returns a deep copy.
func (s SchemaDefinition) Clone() SchemaDefinition {
	out := SchemaDefinition{Unknown: UnknownKeys{Policy: s.Unknown.Policy}}
	if s.Fields != nil {
		out.Fields = make([]NamedField, len(s.Fields))
		for i, f := range s.Fields {
			out.Fields[i] = NamedField{Name: f.Name, FieldDefinition: f.FieldDefinition.Clone()}
		}
	}
	if s.Unknown.Catchall != nil {
		c := s.Unknown.Catchall.Clone()
		out.Unknown.Catchall = &c
	}
	return out
}

// HasAsyncRules reports whether any field (recursively) declares an async rule.
func (s SchemaDefinition) HasAsyncRules() bool {
	for _, f := range s.Fields {
		if f.HasAsyncRules() {
			return true
		}
	}
	return s.Unknown.Catchall != nil && s.Unknown.Catchall.HasAsyncRules()
}

func (s SchemaDefinition) indexOf(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// with sets name to def, replacing in place or appending. s.Fields must
// already be owned by the caller.
func (s SchemaDefinition) with(name string, def FieldDefinition) SchemaDefinition {
	if i := s.indexOf(name); i >= 0 {
		s.Fields[i].FieldDefinition = def
		return s
	}
	s.Fields = append(s.Fields, NamedField{Name: name, FieldDefinition: def})
	return s
}
