package engine_test

import (
	"errors"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/dsl"
	"github.com/reoring/vskema/engine"
	"github.com/reoring/vskema/internal/logging"
	"github.com/reoring/vskema/rules"
)

func newEngine(opts ...engine.Option) *engine.Engine {
	return engine.New(append([]engine.Option{engine.WithLogger(logging.NewNop())}, opts...)...)
}

func userSchema() vskema.SchemaDefinition {
	return dsl.Object().
		Field("email", dsl.String().Email().Required()).
		Field("age", dsl.Number().Min(18).MinSoft(21, "under 21")).
		Schema()
}

func TestValidate_EmailAgeScenario(t *testing.T) {
	eng := newEngine()

	res := eng.Validate(userSchema(), map[string]any{"email": "a@b.com", "age": 19})
	assert.True(t, res.Valid)
	assert.Empty(t, res.HardErrors)
	require.Len(t, res.SoftErrors, 1)
	assert.Equal(t, "age", res.SoftErrors[0].Field)
	assert.Equal(t, vskema.SeveritySoft, res.SoftErrors[0].Severity)
	assert.Equal(t, vskema.CodeMinValue, res.SoftErrors[0].Code)
	assert.Equal(t, "under 21", res.SoftErrors[0].Message)

	res = eng.Validate(userSchema(), map[string]any{"email": "bad", "age": 19})
	assert.False(t, res.Valid)
	require.Len(t, res.HardErrors, 1)
	assert.Equal(t, "email", res.HardErrors[0].Field)
	assert.Equal(t, vskema.CodeInvalidEmail, res.HardErrors[0].Code)
	assert.Equal(t, vskema.SeverityHard, res.HardErrors[0].Severity)
}

func TestValidate_ResultListsAreNeverNil(t *testing.T) {
	res := newEngine().Validate(userSchema(), map[string]any{"email": "a@b.com", "age": 30})
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":true,"hardErrors":[],"softErrors":[]}`, string(b))
}

func TestValidate_PresenceAndNullability(t *testing.T) {
	eng := newEngine()
	cases := []struct {
		name  string
		field dsl.Builder
		data  map[string]any
		codes []string
	}{
		{"optional absent", dsl.String().MinLength(3), map[string]any{}, nil},
		{"optional empty string skips rules", dsl.String().MinLength(3).Pattern("^x"), map[string]any{"f": ""}, nil},
		{"optional nil", dsl.String().MinLength(3), map[string]any{"f": nil}, nil},
		{"optional empty array", dsl.Array(dsl.String()).MinItems(2), map[string]any{"f": []any{}}, nil},
		{"required absent", dsl.String().Required(), map[string]any{}, []string{vskema.CodeRequired}},
		{"required nil", dsl.String().Required(), map[string]any{"f": nil}, []string{vskema.CodeRequired}},
		{"required empty string", dsl.String().Required(), map[string]any{"f": ""}, []string{vskema.CodeRequired}},
		{"required empty array", dsl.Array(dsl.String()).Required(), map[string]any{"f": []any{}}, []string{vskema.CodeRequired}},
		{"nullable nil", dsl.String().Nullable(), map[string]any{"f": nil}, nil},
		{"required nullable nil", dsl.String().Nullable().Required(), map[string]any{"f": nil}, nil},
		{"required nullable empty string", dsl.String().Nullable().Required(), map[string]any{"f": ""}, []string{vskema.CodeRequired}},
		{"required nullish nil", dsl.String().Nullish().Required(), map[string]any{"f": nil}, nil},
		{"required nullable absent", dsl.String().Nullable().Required(), map[string]any{}, []string{vskema.CodeRequired}},
		{"required nullish absent", dsl.String().Nullish().Required(), map[string]any{}, nil},
		{"empty object is present", dsl.Object().Required(), map[string]any{"f": map[string]any{}}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := dsl.Object().Field("f", tc.field).Schema()
			res := eng.Validate(s, tc.data)
			if tc.codes == nil {
				assert.True(t, res.Valid, "%v", res.HardErrors)
				assert.Empty(t, res.HardErrors)
				return
			}
			assert.Equal(t, tc.codes, res.HardErrors.Codes())
		})
	}
}

func TestValidate_TypeMismatchHalts(t *testing.T) {
	s := dsl.Object().
		Field("age", dsl.Number().Min(18).Required()).
		Field("ok", dsl.Boolean()).
		Field("at", dsl.Date()).
		Schema()

	res := newEngine().Validate(s, map[string]any{"age": "x", "ok": "yes", "at": "yesterday"})
	require.Len(t, res.HardErrors, 3)
	for _, e := range res.HardErrors {
		assert.Equal(t, vskema.CodeInvalidType, e.Code)
	}
	assert.Equal(t, "number", res.HardErrors[0].Expected)
	assert.Equal(t, "expected number", res.HardErrors[0].Message)

	res = newEngine().Validate(s, map[string]any{"age": 20, "ok": true, "at": "2024-05-01"})
	assert.True(t, res.Valid)
}

func TestValidate_TopLevelInput(t *testing.T) {
	eng := newEngine()

	res := eng.Validate(userSchema(), nil)
	assert.Equal(t, []string{vskema.CodeRequired}, res.HardErrors.Codes())

	res = eng.Validate(userSchema(), "not an object")
	require.Len(t, res.HardErrors, 1)
	assert.Equal(t, vskema.CodeInvalidType, res.HardErrors[0].Code)
	assert.Equal(t, "", res.HardErrors[0].Field)
}

func TestValidate_StructInput(t *testing.T) {
	type signup struct {
		Email string `json:"email"`
		Age   int    `json:"age"`
	}
	res := newEngine().Validate(userSchema(), signup{Email: "a@b.com", Age: 17})
	assert.False(t, res.Valid)
	assert.Equal(t, []string{vskema.CodeMinValue}, res.HardErrors.Codes())
	assert.Len(t, res.SoftErrors, 1)
}

func TestValidate_NestedPaths(t *testing.T) {
	s := dsl.Object().
		Field("address", dsl.Object().Field("zip", dsl.String().Pattern(`^\d{3}$`).Required())).
		Field("items", dsl.Array(dsl.Object().Field("sku", dsl.String().Required())).MaxItems(1)).
		Schema()

	res := newEngine().Validate(s, map[string]any{
		"address": map[string]any{"zip": "12"},
		"items":   []any{map[string]any{"sku": "a"}, map[string]any{}},
	})
	require.Len(t, res.HardErrors, 3)

	assert.Equal(t, "address.zip", res.HardErrors[0].Field)
	assert.Equal(t, []any{"address", "zip"}, res.HardErrors[0].PathSegments)
	assert.Equal(t, vskema.CodePattern, res.HardErrors[0].Code)

	// array-level rules run before the items
	assert.Equal(t, "items", res.HardErrors[1].Field)
	assert.Equal(t, vskema.CodeMaxItems, res.HardErrors[1].Code)

	assert.Equal(t, "items[1].sku", res.HardErrors[2].Field)
	assert.Equal(t, []any{"items", 1, "sku"}, res.HardErrors[2].PathSegments)
	assert.Equal(t, vskema.CodeRequired, res.HardErrors[2].Code)
}

func TestValidate_UnknownKeyPolicies(t *testing.T) {
	eng := newEngine()
	base := dsl.Object().Field("name", dsl.String())
	data := map[string]any{"name": "x", "zeta": 1, "alpha": "a"}

	res := eng.Validate(base.Schema(), data)
	assert.True(t, res.Valid)
	assert.Equal(t, map[string]any{"name": "x"}, res.Value)

	res = eng.Validate(base.Passthrough().Schema(), data)
	assert.True(t, res.Valid)
	assert.Equal(t, data, res.Value)

	res = eng.Validate(base.Strict().Schema(), data)
	assert.Equal(t, []string{vskema.CodeUnknownKey, vskema.CodeUnknownKey}, res.HardErrors.Codes())
	assert.Equal(t, "alpha", res.HardErrors[0].Field)
	assert.Equal(t, "zeta", res.HardErrors[1].Field)

	res = eng.Validate(base.Catchall(dsl.Number()).Schema(), data)
	require.Len(t, res.HardErrors, 1)
	assert.Equal(t, "alpha", res.HardErrors[0].Field)
	assert.Equal(t, vskema.CodeInvalidType, res.HardErrors[0].Code)
}

func TestValidate_NestedStrict(t *testing.T) {
	s := dsl.Object().Field("meta", dsl.Object().Field("id", dsl.String()).Strict()).Schema()
	res := newEngine().Validate(s, map[string]any{"meta": map[string]any{"id": "1", "x": true}})
	require.Len(t, res.HardErrors, 1)
	assert.Equal(t, "meta.x", res.HardErrors[0].Field)
	assert.Equal(t, vskema.CodeUnknownKey, res.HardErrors[0].Code)
}

func TestValidate_KeysWithPathSyntax(t *testing.T) {
	s := dsl.Object().
		Field("meta", dsl.Object().Field("id", dsl.String()).Strict()).
		Catchall(dsl.Number()).
		Schema()
	res := newEngine().Validate(s, map[string]any{
		"meta": map[string]any{"id": "1", "x.y": true},
		"a[0]": "str",
	})
	require.Len(t, res.HardErrors, 2)
	assert.Equal(t, `meta["x.y"]`, res.HardErrors[0].Field)
	assert.Equal(t, `["a[0]"]`, res.HardErrors[1].Field)
	for _, e := range res.HardErrors {
		assert.Equal(t, vskema.ParsePath(e.Field), e.PathSegments)
	}
}

func TestValidate_TransformsDefaultsAndValue(t *testing.T) {
	s := dsl.Object().
		Field("email", dsl.String().Trim().ToLower().Email().Required()).
		Field("role", dsl.String().Default("user").OneOf("user", "admin")).
		Field("n", dsl.Number().Coerce().Min(5)).
		Schema()

	res := newEngine().Validate(s, map[string]any{"email": "  A@B.COM ", "n": "7"})
	assert.True(t, res.Valid, "%v", res.HardErrors)
	assert.Equal(t, map[string]any{"email": "a@b.com", "role": "user", "n": 7.0}, res.Value)
}

func TestValidate_AbortEarly(t *testing.T) {
	s := dsl.Object().
		Field("s", dsl.String().MinLength(10).Soft()).
		Field("a", dsl.String().MinLength(5)).
		Field("b", dsl.Number().Max(1)).
		Field("c", dsl.String().Email()).
		Schema()
	data := map[string]any{"s": "short", "a": "ab", "b": 5, "c": "bad"}
	eng := newEngine()

	res := eng.Validate(s, data)
	assert.GreaterOrEqual(t, len(res.HardErrors), 2)

	res = eng.Validate(s, data, vskema.WithAbortEarly())
	require.Len(t, res.HardErrors, 1)
	assert.Equal(t, "a", res.HardErrors[0].Field)
	assert.Len(t, res.SoftErrors, 1, "soft errors collected before the abort are kept")
}

func TestValidate_PartitionLaw(t *testing.T) {
	eng := newEngine()
	inputs := []map[string]any{
		{"email": "a@b.com", "age": 30},
		{"email": "a@b.com", "age": 19},
		{"email": "bad", "age": 19},
		{"age": 3},
		{},
	}
	for _, in := range inputs {
		res := eng.Validate(userSchema(), in)
		assert.Equal(t, len(res.HardErrors) == 0, res.Valid)
		for _, e := range res.HardErrors {
			assert.Equal(t, vskema.SeverityHard, e.Severity)
		}
		for _, e := range res.SoftErrors {
			assert.Equal(t, vskema.SeveritySoft, e.Severity)
		}
	}
}

func TestValidate_Determinism(t *testing.T) {
	eng := newEngine()
	s := dsl.Object().
		Field("email", dsl.String().Email().MaxLength(3).Required()).
		Field("age", dsl.Number().Int().Min(18).MinSoft(21)).
		Field("tags", dsl.Array(dsl.String().MinLength(2)).Unique()).
		Field("address", dsl.Object().Field("zip", dsl.String().Length(5)).Strict()).
		Schema()
	data := map[string]any{
		"email":   "nope",
		"age":     17.5,
		"tags":    []any{"a", "a", "bb"},
		"address": map[string]any{"zip": "1", "b": 1, "a": 2},
	}
	render := func() string {
		b, err := json.Marshal(eng.Validate(s, data, vskema.WithAggregateByField()))
		require.NoError(t, err)
		return string(b)
	}
	want := render()

	for range 100 {
		assert.Equal(t, want, render())
	}

	var wg sync.WaitGroup
	got := make([]string, 100)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, _ := json.Marshal(eng.Validate(s, data, vskema.WithAggregateByField()))
			got[i] = string(b)
		}()
	}
	wg.Wait()
	for _, g := range got {
		assert.Equal(t, want, g)
	}
}

func TestValidate_RoundTrip(t *testing.T) {
	s := dsl.Object().
		Field("email", dsl.String().Trim().Email().Required()).
		Field("age", dsl.Number().Min(18).MinSoft(21, "under {min}")).
		Field("role", dsl.String().Enum("user", "admin").Default("user")).
		Field("tags", dsl.Array(dsl.String().Pattern("^[a-z]+$")).MaxItems(2)).
		Field("confirm", dsl.String().CompareField("email", "eq")).
		Field("address", dsl.Object().Field("zip", dsl.String().Length(3)).Strict()).
		Catchall(dsl.Number().Positive()).
		Schema()

	inputs := []map[string]any{
		{"email": " a@b.com ", "age": 19, "confirm": "a@b.com", "tags": []any{"ok"}},
		{"email": "bad", "age": 3, "confirm": "x", "tags": []any{"1", "b", "c"}, "extra": -1},
		{"address": map[string]any{"zip": "1234", "x": 1}},
	}

	eng := newEngine()
	render := func(s vskema.SchemaDefinition, in map[string]any) string {
		b, err := json.Marshal(eng.Validate(s, in))
		require.NoError(t, err)
		return string(b)
	}

	jb, err := vskema.MarshalJSON(s)
	require.NoError(t, err)
	fromJSON, err := vskema.UnmarshalJSON(jb)
	require.NoError(t, err)

	yb, err := vskema.MarshalYAML(s)
	require.NoError(t, err)
	fromYAML, err := vskema.UnmarshalYAML(yb)
	require.NoError(t, err)

	for _, in := range inputs {
		want := render(s, in)
		assert.Equal(t, want, render(fromJSON, in))
		assert.Equal(t, want, render(fromYAML, in))
	}
}

func TestValidate_CompositionLaws(t *testing.T) {
	eng := newEngine()
	s := userSchema()

	picked := vskema.Pick(s, "age")
	assert.True(t, eng.IsValid(picked, map[string]any{"age": 30}))

	assert.True(t, eng.IsValid(vskema.Partial(s), map[string]any{}))

	req := vskema.Required(vskema.Partial(s), "age")
	assert.False(t, eng.IsValid(req, map[string]any{}))
	assert.True(t, eng.IsValid(req, map[string]any{"age": 30}))

	assert.True(t, eng.IsValid(vskema.Omit(s, "email"), map[string]any{"age": 30}))
	assert.False(t, eng.IsValid(vskema.Strict(s), map[string]any{"email": "a@b.com", "x": 1}))
}

func TestValidate_ErrorAndMessageMaps(t *testing.T) {
	eng := newEngine()
	data := map[string]any{"email": "bad", "age": 19}

	res := eng.Validate(userSchema(), data, vskema.WithMessageMap(func(e vskema.ValidationError) string {
		return "x:" + e.Code
	}))
	assert.Equal(t, "x:"+vskema.CodeInvalidEmail, res.HardErrors[0].Message)
	assert.Equal(t, "x:"+vskema.CodeMinValue, res.SoftErrors[0].Message)

	res = eng.Validate(userSchema(), data, vskema.WithErrorMap(func(e vskema.ValidationError) vskema.ValidationError {
		e.Code = "MAPPED"
		e.Field = "elsewhere"
		e.Severity = vskema.SeveritySoft
		return e
	}))
	require.Len(t, res.HardErrors, 1)
	assert.Equal(t, "MAPPED", res.HardErrors[0].Code)
	assert.Equal(t, "email", res.HardErrors[0].Field)
}

func TestValidate_AggregateByField(t *testing.T) {
	res := newEngine().Validate(userSchema(), map[string]any{"email": "bad", "age": 19}, vskema.WithAggregateByField())
	require.NotNil(t, res.ErrorsByField)
	assert.Len(t, res.ErrorsByField["email"], 1)
	assert.Len(t, res.ErrorsByField["age"], 1)
	assert.Equal(t, vskema.SeveritySoft, res.ErrorsByField["age"][0].Severity)

	res = newEngine().Validate(userSchema(), map[string]any{"email": "bad"})
	assert.Nil(t, res.ErrorsByField)
}

func TestValidate_CustomRulesAndUnknownTags(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register("slug", func(v any, params map[string]any, vc vskema.ValidatorContext) *vskema.ValidationError {
		if s, _ := v.(string); s == "ok" {
			return nil
		}
		e := vskema.NewError(vc.Path, "BAD_SLUG", "not a slug", vskema.SeverityHard)
		return &e
	})
	eng := newEngine(engine.WithRegistry(reg))

	s := dsl.Object().
		Field("a", dsl.String().Custom("slug", nil)).
		Field("b", dsl.String().Rule(vskema.ValidationRule{Kind: "slug"})).
		Field("c", dsl.String().Rule(vskema.ValidationRule{Kind: "missing"})).
		Field("d", dsl.String().Refine(func(v any, vc vskema.ValidatorContext) bool {
			other, _ := vc.Sibling("a")
			return v != other
		}, "must differ from a")).
		Schema()

	res := eng.Validate(s, map[string]any{"a": "no", "b": "ok", "c": "anything", "d": "no"})
	assert.Equal(t, []string{"BAD_SLUG", vskema.CodeCustom}, res.HardErrors.Codes())
	assert.Equal(t, "must differ from a", res.HardErrors[1].Message)
}

func TestAssertValid(t *testing.T) {
	eng := newEngine()

	v, err := eng.AssertValid(userSchema(), map[string]any{"email": "a@b.com", "age": 40})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "a@b.com", "age": 40}, v)

	_, err = eng.AssertValid(userSchema(), map[string]any{"email": "bad"})
	var ae *vskema.AssertionError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, []string{vskema.CodeInvalidEmail}, ae.HardErrors.Codes())

	ve, ok := vskema.AsValidationErrors(err)
	require.True(t, ok)
	assert.True(t, ve.Has("email"))
}

func TestPackageHelpers(t *testing.T) {
	assert.True(t, engine.IsValid(userSchema(), map[string]any{"email": "a@b.com"}))
	assert.False(t, engine.Validate(userSchema(), map[string]any{}).Valid)
	assert.Same(t, engine.Default(), engine.Default())
}
