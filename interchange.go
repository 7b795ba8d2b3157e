package vskema

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Interchange formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// wireSchema and wireField are the JSON shapes of a schema. They spell out
// every field instead of embedding FieldDefinition, which go-json cannot
// compile once the embedding recurses through Nested.
type wireSchema struct {
	Fields  []wireField `json:"fields"`
	Unknown wireUnknown `json:"unknownKeys,omitempty"`
}

type wireUnknown struct {
	Policy   UnknownPolicy `json:"policy,omitempty"`
	Catchall *wireField    `json:"catchall,omitempty"`
}

type wireField struct {
	Name       string           `json:"name,omitempty"`
	Kind       Kind             `json:"kind"`
	Rules      []ValidationRule `json:"rules,omitempty"`
	Required   bool             `json:"required,omitempty"`
	Default    any              `json:"default,omitempty"`
	Nested     *wireSchema      `json:"schema,omitempty"`
	Item       *wireField       `json:"item,omitempty"`
	Nullable   bool             `json:"nullable,omitempty"`
	Nullish    bool             `json:"nullish,omitempty"`
	Transforms []Transform      `json:"transforms,omitempty"`
	Preprocess *Transform       `json:"preprocess,omitempty"`
	Metadata   map[string]any   `json:"metadata,omitempty"`
}

func toWire(s SchemaDefinition) *wireSchema {
	w := &wireSchema{Unknown: wireUnknown{Policy: s.Unknown.Policy}}
	if s.Fields != nil {
		w.Fields = make([]wireField, len(s.Fields))
		for i, f := range s.Fields {
			w.Fields[i] = toWireField(f.Name, f.FieldDefinition)
		}
	}
	if s.Unknown.Catchall != nil {
		c := toWireField("", *s.Unknown.Catchall)
		w.Unknown.Catchall = &c
	}
	return w
}

func toWireField(name string, f FieldDefinition) wireField {
	w := wireField{
		Name:       name,
		Kind:       f.Kind,
		Rules:      f.Rules,
		Required:   f.Required,
		Default:    f.Default,
		Nullable:   f.Nullable,
		Nullish:    f.Nullish,
		Transforms: f.Transforms,
		Preprocess: f.Preprocess,
		Metadata:   f.Metadata,
	}
	if f.Nested != nil {
		w.Nested = toWire(*f.Nested)
	}
	if f.Item != nil {
		it := toWireField("", *f.Item)
		w.Item = &it
	}
	return w
}

func (w *wireSchema) schema() SchemaDefinition {
	s := SchemaDefinition{Unknown: UnknownKeys{Policy: w.Unknown.Policy}}
	if w.Fields != nil {
		s.Fields = make([]NamedField, len(w.Fields))
		for i, f := range w.Fields {
			s.Fields[i] = NamedField{Name: f.Name, FieldDefinition: f.field()}
		}
	}
	if w.Unknown.Catchall != nil {
		c := w.Unknown.Catchall.field()
		s.Unknown.Catchall = &c
	}
	return s
}

func (w wireField) field() FieldDefinition {
	f := FieldDefinition{
		Kind:       w.Kind,
		Rules:      w.Rules,
		Required:   w.Required,
		Default:    w.Default,
		Nullable:   w.Nullable,
		Nullish:    w.Nullish,
		Transforms: w.Transforms,
		Preprocess: w.Preprocess,
		Metadata:   w.Metadata,
	}
	if w.Nested != nil {
		n := w.Nested.schema()
		f.Nested = &n
	}
	if w.Item != nil {
		it := w.Item.field()
		f.Item = &it
	}
	return f
}

// MarshalJSON lets encoding/json and go-json serialize a schema directly.
func (s SchemaDefinition) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(s))
}

// MarshalJSON serializes a schema. Callback fields (Check, AsyncCheck, Fn)
// are dropped.
func MarshalJSON(s SchemaDefinition) ([]byte, error) {
	return json.MarshalIndent(toWire(s), "", "  ")
}

// UnmarshalJSON parses a schema and checks its kinds.
func UnmarshalJSON(b []byte) (SchemaDefinition, error) {
	var w wireSchema
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return SchemaDefinition{}, fmt.Errorf("vskema: decode schema json: %w", err)
	}
	s := normalizeDecoded(w.schema())
	if err := CheckSchema(s); err != nil {
		return SchemaDefinition{}, err
	}
	return s, nil
}

// MarshalYAML serializes a schema as YAML.
func MarshalYAML(s SchemaDefinition) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("vskema: encode schema yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalYAML parses a YAML schema and checks its kinds.
func UnmarshalYAML(b []byte) (SchemaDefinition, error) {
	var s SchemaDefinition
	if err := yaml.Unmarshal(b, &s); err != nil {
		return SchemaDefinition{}, fmt.Errorf("vskema: decode schema yaml: %w", err)
	}
	s = normalizeDecoded(s)
	if err := CheckSchema(s); err != nil {
		return SchemaDefinition{}, err
	}
	return s, nil
}

// Marshal serializes s in the named format.
func Marshal(s SchemaDefinition, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return MarshalJSON(s)
	case FormatYAML, "yml":
		return MarshalYAML(s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Unmarshal parses b in the named format.
func Unmarshal(b []byte, format string) (SchemaDefinition, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return UnmarshalJSON(b)
	case FormatYAML, "yml":
		return UnmarshalYAML(b)
	default:
		return SchemaDefinition{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// FormatOf guesses the interchange format from a file name.
func FormatOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// CheckSchema reports the first structural problem in s: an unknown kind,
// an empty field name or an unknown unknown-key policy.
func CheckSchema(s SchemaDefinition) error {
	return checkSchema(s, RootPath())
}

func checkSchema(s SchemaDefinition, at Path) error {
	switch s.Unknown.Policy {
	case "", UnknownIgnore, UnknownPassthrough, UnknownStrict, UnknownCatchall:
	default:
		return fmt.Errorf("vskema: %s: unknown key policy %q", describe(at), s.Unknown.Policy)
	}
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("vskema: %s: empty field name", describe(at))
		}
		if err := checkField(f.FieldDefinition, at.Field(f.Name)); err != nil {
			return err
		}
	}
	if s.Unknown.Catchall != nil {
		return checkField(*s.Unknown.Catchall, at.Field("*"))
	}
	return nil
}

func checkField(f FieldDefinition, at Path) error {
	if !f.Kind.Valid() {
		return fmt.Errorf("vskema: %s: unknown kind %q", describe(at), f.Kind)
	}
	if f.Nested != nil {
		if err := checkSchema(*f.Nested, at); err != nil {
			return err
		}
	}
	if f.Item != nil {
		return checkField(*f.Item, at.Index(0))
	}
	return nil
}

func describe(p Path) string {
	if p.IsRoot() {
		return "schema"
	}
	return "field " + p.String()
}

// normalizeDecoded turns json.Number and YAML integer leaves into float64 so decoded params
// and defaults look the same whichever format they came from.
func normalizeDecoded(s SchemaDefinition) SchemaDefinition {
	for i := range s.Fields {
		s.Fields[i].FieldDefinition = normalizeField(s.Fields[i].FieldDefinition)
	}
	if s.Unknown.Catchall != nil {
		c := normalizeField(*s.Unknown.Catchall)
		s.Unknown.Catchall = &c
	}
	return s
}

func normalizeField(f FieldDefinition) FieldDefinition {
	for i := range f.Rules {
		f.Rules[i].Params = numbersToFloat(f.Rules[i].Params).(map[string]any)
	}
	for i := range f.Transforms {
		f.Transforms[i].Params = numbersToFloat(f.Transforms[i].Params).(map[string]any)
	}
	if f.Preprocess != nil {
		f.Preprocess.Params = numbersToFloat(f.Preprocess.Params).(map[string]any)
	}
	f.Default = numbersToFloat(f.Default)
	f.Metadata = numbersToFloat(f.Metadata).(map[string]any)
	if f.Nested != nil {
		n := normalizeDecoded(*f.Nested)
		f.Nested = &n
	}
	if f.Item != nil {
		it := normalizeField(*f.Item)
		f.Item = &it
	}
	return f
}

func numbersToFloat(v any) any {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case map[string]any:
		if t == nil {
			return t
		}
		for k, e := range t {
			t[k] = numbersToFloat(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = numbersToFloat(e)
		}
		return t
	default:
		return v
	}
}
