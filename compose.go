package vskema

// Composition operators. Every operator works on deep clones; inputs are
// never modified.

// Merge returns the field union of a and b. On a name collision b's
// definition replaces a's in place; b's new fields follow in b's order.
// The result takes b's unknown-key policy.
func Merge(a, b SchemaDefinition) SchemaDefinition {
	out := a.Clone()
	for _, f := range b.Fields {
		out = out.with(f.Name, f.FieldDefinition.Clone())
	}
	bu := b.Clone().Unknown
	out.Unknown = bu
	return out
}

// Extend is Merge(base, NewSchema(fields...)) keeping base's unknown policy.
func Extend(base SchemaDefinition, fields ...NamedField) SchemaDefinition {
	extra := NewSchema(fields...)
	extra.Unknown = base.Clone().Unknown
	return Merge(base, extra)
}

// Pick keeps only the named fields, in base's order. Names not declared in
// base are ignored.
func Pick(base SchemaDefinition, keys ...string) SchemaDefinition {
	want := keySet(keys)
	return filterFields(base, func(name string) bool { return want[name] })
}

// Omit drops the named fields. Names not declared in base are ignored.
func Omit(base SchemaDefinition, keys ...string) SchemaDefinition {
	drop := keySet(keys)
	return filterFields(base, func(name string) bool { return !drop[name] })
}

// Partial marks every top-level field optional. Rules are unchanged.
func Partial(base SchemaDefinition) SchemaDefinition {
	out := base.Clone()
	for i := range out.Fields {
		out.Fields[i].Required = false
	}
	return out
}

// DeepPartial is Partial applied recursively to the nested schema of every
// object field. Array items and the catchall definition are left untouched.
func DeepPartial(base SchemaDefinition) SchemaDefinition {
	out := Partial(base)
	for i := range out.Fields {
		f := &out.Fields[i]
		if f.Kind == KindObject && f.Nested != nil {
			n := DeepPartial(*f.Nested)
			f.Nested = &n
		}
	}
	return out
}

// Required marks the named fields required; other fields are untouched.
func Required(base SchemaDefinition, keys ...string) SchemaDefinition {
	return setRequired(base, keys, true)
}

// Optional marks the named fields optional; other fields are untouched.
func Optional(base SchemaDefinition, keys ...string) SchemaDefinition {
	return setRequired(base, keys, false)
}

// Passthrough accepts and keeps undeclared keys.
func Passthrough(base SchemaDefinition) SchemaDefinition {
	return withPolicy(base, UnknownPassthrough, nil)
}

// Strict rejects every undeclared key with UNKNOWN_KEY.
func Strict(base SchemaDefinition) SchemaDefinition {
	return withPolicy(base, UnknownStrict, nil)
}

// Catchall validates every undeclared key's value against def.
func Catchall(base SchemaDefinition, def FieldDefinition) SchemaDefinition {
	c := def.Clone()
	return withPolicy(base, UnknownCatchall, &c)
}

// Ignore restores the default policy: undeclared keys are accepted and dropped
// from the output value.
func Ignore(base SchemaDefinition) SchemaDefinition {
	return withPolicy(base, UnknownIgnore, nil)
}

func withPolicy(base SchemaDefinition, p UnknownPolicy, catchall *FieldDefinition) SchemaDefinition {
	out := base.Clone()
	out.Unknown = UnknownKeys{Policy: p, Catchall: catchall}
	return out
}

func setRequired(base SchemaDefinition, keys []string, req bool) SchemaDefinition {
	want := keySet(keys)
	out := base.Clone()
	for i := range out.Fields {
		if want[out.Fields[i].Name] {
			out.Fields[i].Required = req
		}
	}
	return out
}

func filterFields(base SchemaDefinition, keep func(string) bool) SchemaDefinition {
	src := base.Clone()
	out := SchemaDefinition{Fields: make([]NamedField, 0, len(src.Fields)), Unknown: src.Unknown}
	for _, f := range src.Fields {
		if keep(f.Name) {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

func keySet(keys []string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
