package jsonschema

import (
	"fmt"
	"math"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/codec"
)

// FromSchema exports s as a root JSON Schema document.
func FromSchema(s vskema.SchemaDefinition) (*Schema, error) {
	out, err := object(s, vskema.RootPath())
	if err != nil {
		return nil, err
	}
	out.SchemaURI = Draft
	return out, nil
}

// FromField exports a single field definition.
func FromField(f vskema.FieldDefinition) (*Schema, error) {
	return field(f, vskema.RootPath())
}

func object(s vskema.SchemaDefinition, at vskema.Path) (*Schema, error) {
	out := &Schema{Type: "object", Properties: make(map[string]*Schema, len(s.Fields))}
	for _, f := range s.Fields {
		fs, err := field(f.FieldDefinition, at.Field(f.Name))
		if err != nil {
			return nil, err
		}
		out.Properties[f.Name] = fs
		if f.Required {
			out.Required = append(out.Required, f.Name)
		}
	}
	switch s.Policy() {
	case vskema.UnknownStrict:
		out.AdditionalProperties = false
	case vskema.UnknownCatchall:
		if s.Unknown.Catchall != nil {
			cs, err := field(*s.Unknown.Catchall, at.Field("*"))
			if err != nil {
				return nil, err
			}
			out.AdditionalProperties = cs
		}
	}
	return out, nil
}

func field(f vskema.FieldDefinition, at vskema.Path) (*Schema, error) {
	var out *Schema
	switch f.Kind {
	case vskema.KindObject:
		nested := vskema.SchemaDefinition{}
		if f.Nested != nil {
			nested = *f.Nested
		}
		o, err := object(nested, at)
		if err != nil {
			return nil, err
		}
		out = o
	case vskema.KindArray:
		out = &Schema{Type: "array"}
		if f.Item != nil {
			it, err := field(*f.Item, at.Index(0))
			if err != nil {
				return nil, err
			}
			out.Items = it
		}
	case vskema.KindString:
		out = &Schema{Type: "string"}
	case vskema.KindNumber:
		out = &Schema{Type: "number"}
	case vskema.KindBoolean:
		out = &Schema{Type: "boolean"}
	case vskema.KindDate:
		out = &Schema{Type: "string", Format: "date-time"}
	case "":
		out = &Schema{}
	default:
		return nil, fmt.Errorf("jsonschema: %s: unsupported kind %q", at, f.Kind)
	}

	for _, r := range f.Rules {
		if r.Soft || r.Async {
			continue
		}
		applyRule(out, r)
	}

	out.Default = f.Default
	if d, ok := f.Metadata["description"].(string); ok {
		out.Description = d
	}
	if f.AllowsNil() {
		if t, ok := out.Type.(string); ok {
			out.Type = []string{t, "null"}
		}
	}
	return out, nil
}

func applyRule(out *Schema, r vskema.ValidationRule) {
	switch r.Kind {
	case vskema.RuleMinLength:
		out.MinLength = intParam(r, "min")
	case vskema.RuleMaxLength:
		out.MaxLength = intParam(r, "max")
	case vskema.RuleLength:
		n := intParam(r, "length")
		out.MinLength, out.MaxLength = n, n
	case vskema.RuleEmail:
		out.Format = "email"
	case vskema.RuleURL:
		out.Format = "uri"
	case vskema.RuleUUID:
		out.Format = "uuid"
	case vskema.RuleIP:
		switch v, _ := codec.Number(param(r, "version")); v {
		case 4:
			out.Format = "ipv4"
		case 6:
			out.Format = "ipv6"
		}
	case vskema.RulePattern:
		if p, ok := param(r, "pattern").(string); ok {
			out.Pattern = p
		}
	case vskema.RuleAlphanumeric:
		out.Pattern = "^[a-zA-Z0-9]+$"
	case vskema.RuleMin:
		out.Minimum = floatParam(r, "min")
	case vskema.RuleMax:
		out.Maximum = floatParam(r, "max")
	case vskema.RuleInteger:
		if out.Type == "number" {
			out.Type = "integer"
		}
	case vskema.RulePositive:
		zero := 0.0
		out.ExclusiveMinimum = &zero
	case vskema.RuleNegative:
		zero := 0.0
		out.ExclusiveMaximum = &zero
	case vskema.RuleMultipleOf:
		out.MultipleOf = floatParam(r, "value")
	case vskema.RuleMinItems:
		out.MinItems = intParam(r, "min")
	case vskema.RuleMaxItems:
		out.MaxItems = intParam(r, "max")
	case vskema.RuleUnique:
		out.UniqueItems = true
	case vskema.RuleOneOf:
		if vs, ok := param(r, "values").([]any); ok {
			out.Enum = vs
		}
	case vskema.RuleEquals:
		out.Const = param(r, "value")
	}
}

func param(r vskema.ValidationRule, name string) any {
	v, _ := r.Param(name)
	return v
}

func floatParam(r vskema.ValidationRule, name string) *float64 {
	f, ok := codec.Number(param(r, name))
	if !ok {
		return nil
	}
	return &f
}

func intParam(r vskema.ValidationRule, name string) *int {
	f, ok := codec.Number(param(r, name))
	if !ok || f < 0 || f != math.Trunc(f) {
		return nil
	}
	n := int(f)
	return &n
}
