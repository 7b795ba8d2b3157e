package jsonschema_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/dsl"
	"github.com/reoring/vskema/jsonschema"
)

func TestFromSchema(t *testing.T) {
	s := dsl.Object().
		Field("email", dsl.String().Email().MaxLength(100).Required()).
		Field("age", dsl.Number().Int().Min(18).MinSoft(21)).
		Field("role", dsl.String().Enum("admin", "user").Default("user")).
		Field("tags", dsl.Array(dsl.String().MinLength(2)).MaxItems(3).Unique().Nullable()).
		Field("address", dsl.Object().
			Field("zip", dsl.String().Pattern(`^\d{5}$`).Required()).
			Strict()).
		Strict().
		Schema()

	out, err := jsonschema.FromSchema(s)
	require.NoError(t, err)
	b, err := json.Marshal(out)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"email": {"type": "string", "format": "email", "maxLength": 100},
			"age": {"type": "integer", "minimum": 18},
			"role": {"type": "string", "enum": ["admin", "user"], "default": "user"},
			"tags": {
				"type": ["array", "null"],
				"items": {"type": "string", "minLength": 2},
				"maxItems": 3,
				"uniqueItems": true
			},
			"address": {
				"type": "object",
				"properties": {"zip": {"type": "string", "pattern": "^\\d{5}$"}},
				"required": ["zip"],
				"additionalProperties": false
			}
		},
		"required": ["email"],
		"additionalProperties": false
	}`, string(b))
}

func TestFromSchema_CatchallAndAsync(t *testing.T) {
	s := vskema.Catchall(
		dsl.Object().Field("name", dsl.String().CustomAsync("redisUnique", nil)).Schema(),
		dsl.Number().Positive().Build(),
	)

	out, err := jsonschema.FromSchema(s)
	require.NoError(t, err)

	require.Contains(t, out.Properties, "name")
	assert.Equal(t, &jsonschema.Schema{Type: "string"}, out.Properties["name"])

	extra, ok := out.AdditionalProperties.(*jsonschema.Schema)
	require.True(t, ok)
	require.NotNil(t, extra.ExclusiveMinimum)
	assert.Equal(t, 0.0, *extra.ExclusiveMinimum)
}

func TestFromField_UnsupportedKind(t *testing.T) {
	_, err := jsonschema.FromField(vskema.FieldDefinition{Kind: "tuple"})
	assert.Error(t, err)

	out, err := jsonschema.FromField(dsl.Date().Build())
	require.NoError(t, err)
	assert.Equal(t, "date-time", out.Format)
}
