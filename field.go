package vskema

// FieldDefinition describes one field: its kind, rules, presence flags and,
// for containers, the nested schema or item definition. Values are treated
// as immutable once built; use Clone before changing anything.
type FieldDefinition struct {
	Kind       Kind              `json:"kind" yaml:"kind"`
	Rules      []ValidationRule  `json:"rules,omitempty" yaml:"rules,omitempty"`
	Required   bool              `json:"required,omitempty" yaml:"required,omitempty"`
	Default    any               `json:"default,omitempty" yaml:"default,omitempty"`
	Nested     *SchemaDefinition `json:"schema,omitempty" yaml:"schema,omitempty"`
	Item       *FieldDefinition  `json:"item,omitempty" yaml:"item,omitempty"`
	Nullable   bool              `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Nullish    bool              `json:"nullish,omitempty" yaml:"nullish,omitempty"`
	Transforms []Transform       `json:"transforms,omitempty" yaml:"transforms,omitempty"`
	Preprocess *Transform        `json:"preprocess,omitempty" yaml:"preprocess,omitempty"`
	Metadata   map[string]any    `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Clone returns a deep copy sharing no slices or maps with f.
func (f FieldDefinition) Clone() FieldDefinition {
	out := f
	if f.Rules != nil {
		out.Rules = make([]ValidationRule, len(f.Rules))
		for i, r := range f.Rules {
			out.Rules[i] = r.Clone()
		}
	}
	out.Default = cloneAny(f.Default)
	if f.Nested != nil {
		n := f.Nested.Clone()
		out.Nested = &n
	}
	if f.Item != nil {
		it := f.Item.Clone()
		out.Item = &it
	}
	if f.Transforms != nil {
		out.Transforms = make([]Transform, len(f.Transforms))
		for i, t := range f.Transforms {
			out.Transforms[i] = t.Clone()
		}
	}
	if f.Preprocess != nil {
		p := f.Preprocess.Clone()
		out.Preprocess = &p
	}
	out.Metadata = cloneMap(f.Metadata)
	return out
}

// AllowsNil reports whether null is a legal value for f.
func (f FieldDefinition) AllowsNil() bool { return f.Nullable || f.Nullish }

// AcceptsNil reports whether a nil value satisfies f. Nullable admits only an
// explicit null; Nullish also admits an absent key.
func (f FieldDefinition) AcceptsNil(present bool) bool {
	return f.Nullish || (f.Nullable && present)
}

// HasAsyncRules reports whether f or any descendant declares an async rule.
func (f FieldDefinition) HasAsyncRules() bool {
	for _, r := range f.Rules {
		if r.Async {
			return true
		}
	}
	if f.Nested != nil && f.Nested.HasAsyncRules() {
		return true
	}
	if f.Item != nil && f.Item.HasAsyncRules() {
		return true
	}
	return false
}
