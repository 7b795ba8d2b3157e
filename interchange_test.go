package vskema_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	vskema "github.com/reoring/vskema"
)

func interchangeSchema() vskema.SchemaDefinition {
	item := vskema.FieldDefinition{Kind: vskema.KindString, Rules: []vskema.ValidationRule{{Kind: vskema.RuleMinLength, Params: map[string]any{"min": float64(2)}}}}
	return vskema.Catchall(vskema.NewSchema(
		vskema.NamedField{Name: "email", FieldDefinition: vskema.FieldDefinition{
			Kind:       vskema.KindString,
			Required:   true,
			Transforms: []vskema.Transform{{Name: vskema.TransformTrim}},
			Rules:      []vskema.ValidationRule{{Kind: vskema.RuleEmail, Message: "bad email"}},
		}},
		vskema.NamedField{Name: "age", FieldDefinition: vskema.FieldDefinition{
			Kind:    vskema.KindNumber,
			Default: float64(18),
			Rules:   []vskema.ValidationRule{{Kind: vskema.RuleMin, Params: map[string]any{"min": float64(21)}, Soft: true}},
		}},
		vskema.NamedField{Name: "tags", FieldDefinition: vskema.FieldDefinition{Kind: vskema.KindArray, Item: &item, Nullable: true}},
	), vskema.FieldDefinition{Kind: vskema.KindBoolean})
}

func TestInterchange_RoundTrip(t *testing.T) {
	s := interchangeSchema()
	for _, format := range []string{vskema.FormatJSON, vskema.FormatYAML} {
		b, err := vskema.Marshal(s, format)
		if err != nil {
			t.Fatalf("%s marshal: %v", format, err)
		}
		got, err := vskema.Unmarshal(b, format)
		if err != nil {
			t.Fatalf("%s unmarshal: %v", format, err)
		}
		if !reflect.DeepEqual(got, s) {
			t.Fatalf("%s round trip mismatch:\n got %+v\nwant %+v", format, got, s)
		}
	}
}

func TestInterchange_YAMLIntegersBecomeFloats(t *testing.T) {
	doc := "fields:\n  - name: age\n    kind: number\n    default: 3\n    rules:\n      - kind: min\n        params: {min: 18}\n"
	s, err := vskema.UnmarshalYAML([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	age, _ := s.Lookup("age")
	if age.Default != float64(3) || age.Rules[0].Params["min"] != float64(18) {
		t.Fatalf("numbers not normalised: %#v %#v", age.Default, age.Rules[0].Params)
	}
}

func TestInterchange_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown kind":   `{"fields":[{"name":"a","kind":"uuid"}]}`,
		"empty name":     `{"fields":[{"name":"","kind":"string"}]}`,
		"unknown policy": `{"fields":[],"unknownKeys":{"policy":"loose"}}`,
		"nested kind":    `{"fields":[{"name":"a","kind":"object","schema":{"fields":[{"name":"b","kind":"int"}]}}]}`,
		"malformed":      `{"fields":`,
	}
	for name, doc := range cases {
		if _, err := vskema.UnmarshalJSON([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	_, err := vskema.UnmarshalJSON([]byte(`{"fields":[{"name":"a","kind":"object","schema":{"fields":[{"name":"b","kind":"int"}]}}]}`))
	if err == nil || !strings.Contains(err.Error(), "field a.b") {
		t.Fatalf("error should name the nested field: %v", err)
	}
}

func TestInterchange_Formats(t *testing.T) {
	if _, err := vskema.Marshal(interchangeSchema(), "toml"); !errors.Is(err, vskema.ErrUnsupportedFormat) {
		t.Fatalf("Marshal toml err = %v", err)
	}
	if _, err := vskema.Unmarshal([]byte("{}"), "toml"); !errors.Is(err, vskema.ErrUnsupportedFormat) {
		t.Fatalf("Unmarshal toml err = %v", err)
	}
	for name, want := range map[string]string{"a.json": vskema.FormatJSON, "a.YAML": vskema.FormatYAML, "a.yml": vskema.FormatYAML, "noext": vskema.FormatJSON} {
		if got := vskema.FormatOf(name); got != want {
			t.Fatalf("FormatOf(%s) = %s", name, got)
		}
	}
}

func TestInterchange_CallbacksAreNotSerialized(t *testing.T) {
	s := vskema.NewSchema(vskema.NamedField{Name: "a", FieldDefinition: vskema.FieldDefinition{
		Kind:  vskema.KindString,
		Rules: []vskema.ValidationRule{{Kind: vskema.RuleRefine, Check: func(any, vskema.ValidatorContext) bool { return true }}},
	}})
	b, err := vskema.MarshalJSON(s)
	if err != nil {
		t.Fatal(err)
	}
	back, err := vskema.UnmarshalJSON(b)
	if err != nil {
		t.Fatal(err)
	}
	f, _ := back.Lookup("a")
	if f.Rules[0].Kind != vskema.RuleRefine || f.Rules[0].Check != nil {
		t.Fatalf("unexpected rule after round trip: %+v", f.Rules[0])
	}
}

func TestInterchange_NestedJSON(t *testing.T) {
	zip := vskema.FieldDefinition{Kind: vskema.KindString, Rules: []vskema.ValidationRule{{Kind: vskema.RuleLength, Params: map[string]any{"length": float64(5)}}}}
	inner := vskema.NewSchema(vskema.NamedField{Name: "zip", FieldDefinition: zip})
	deeper := vskema.Strict(vskema.NewSchema(vskema.NamedField{Name: "addr", FieldDefinition: vskema.FieldDefinition{Kind: vskema.KindObject, Nested: &inner}}))
	s := vskema.NewSchema(
		vskema.NamedField{Name: "home", FieldDefinition: vskema.FieldDefinition{Kind: vskema.KindObject, Nested: &deeper, Required: true}},
		vskema.NamedField{Name: "rows", FieldDefinition: vskema.FieldDefinition{Kind: vskema.KindArray, Item: &vskema.FieldDefinition{Kind: vskema.KindObject, Nested: &inner}}},
	)

	b, err := vskema.MarshalJSON(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"zip"`) {
		t.Fatalf("nested field missing from %s", b)
	}
	got, err := vskema.UnmarshalJSON(b)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, s)
	}

	direct, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if again, err := vskema.UnmarshalJSON(direct); err != nil || !reflect.DeepEqual(again, s) {
		t.Fatalf("json.Marshal output did not round trip: %v", err)
	}
}
