// Package jsonschema converts between vskema schemas and JSON Schema
// (draft 2020-12) documents. FromSchema exports; Import reads JSON Schema
// and Kubernetes OpenAPI v3 (CRD) object schemas back.
//
// Only hard, synchronous, declarative rules are exported. Soft rules,
// refinements, custom and async rules have no JSON Schema counterpart and
// are left out, so the exported document accepts a superset of what the
// engine accepts.
package jsonschema

// Draft is the $schema URI of exported documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is the subset of JSON Schema the exporter emits.
type Schema struct {
	SchemaURI   string `json:"$schema,omitempty"`
	Description string `json:"description,omitempty"`

	// Core. Type is a string or, for nullable fields, a []string.
	Type    any    `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`
	Enum    []any  `json:"enum,omitempty"`
	Const   any    `json:"const,omitempty"`

	// String
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Number
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items       *Schema `json:"items,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`
}
