package source_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/source"
)

func TestDecodeJSON_PlainShapes(t *testing.T) {
	v, err := source.DecodeJSONBytes([]byte(`{"name":"Ada","age":36,"tags":["a",true,null],"address":{"zip":"12345"}}`))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"name":    "Ada",
		"age":     float64(36),
		"tags":    []any{"a", true, nil},
		"address": map[string]any{"zip": "12345"},
	}, v)
}

func TestDecodeJSON_UseNumber(t *testing.T) {
	v, err := source.DecodeJSONBytes([]byte(`{"n":12345678901234567890}`), source.UseNumber())
	require.NoError(t, err)
	assert.Equal(t, json.Number("12345678901234567890"), v.(map[string]any)["n"])
}

func TestDecodeJSON_DuplicateKeys(t *testing.T) {
	doc := []byte(`{"user":{"name":"a","name":"b"}}`)

	v, err := source.DecodeJSONBytes(doc)
	require.NoError(t, err)
	assert.Equal(t, "b", v.(map[string]any)["user"].(map[string]any)["name"], "last key wins by default")

	_, err = source.DecodeJSONBytes(doc, source.RejectDuplicateKeys())
	require.ErrorIs(t, err, source.ErrDuplicateKey)
	var de *source.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "user.name", de.Path)
}

func TestDecodeJSON_DuplicateKeysInArrayItems(t *testing.T) {
	_, err := source.DecodeJSONBytes([]byte(`{"items":[{"sku":"a"},{"sku":"b","sku":"c"}]}`), source.RejectDuplicateKeys())
	var de *source.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "items[1].sku", de.Path)

	// Same key in sibling objects is fine.
	_, err = source.DecodeJSONBytes([]byte(`[{"k":1},{"k":2}]`), source.RejectDuplicateKeys())
	assert.NoError(t, err)
}

func TestDecodeJSON_MaxDepth(t *testing.T) {
	doc := []byte(`{"a":{"b":{"c":1}}}`)

	_, err := source.DecodeJSONBytes(doc, source.WithMaxDepth(3))
	assert.NoError(t, err)

	_, err = source.DecodeJSONBytes(doc, source.WithMaxDepth(2))
	require.ErrorIs(t, err, source.ErrMaxDepth)
	var de *source.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "a.b", de.Path)
}

func TestDecodeJSON_MaxBytes(t *testing.T) {
	doc := `{"name":"` + strings.Repeat("x", 64) + `"}`

	_, err := source.DecodeJSON(strings.NewReader(doc), source.WithMaxBytes(int64(len(doc))))
	assert.NoError(t, err)

	_, err = source.DecodeJSON(strings.NewReader(doc), source.WithMaxBytes(16))
	assert.ErrorIs(t, err, source.ErrMaxBytes)
	assert.NotErrorIs(t, err, source.ErrSyntax)

	// A cap smaller than the first token must not read as an empty body.
	_, err = source.DecodeJSON(strings.NewReader(doc), source.WithMaxBytes(1))
	assert.ErrorIs(t, err, source.ErrMaxBytes)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":     ``,
		"truncated": `{"a":`,
		"trailing":  `{} {}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := source.DecodeJSON(strings.NewReader(doc))
			assert.ErrorIs(t, err, source.ErrSyntax)
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	v, err := source.DecodeYAMLBytes([]byte("name: Ada\nage: 36\ntags: [a, b]\n1: one\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name": "Ada",
		"age":  float64(36),
		"tags": []any{"a", "b"},
		"1":    "one",
	}, v)
}

func TestDecodeYAML_Errors(t *testing.T) {
	_, err := source.DecodeYAMLBytes([]byte("a: 1\na: 2\n"))
	assert.ErrorIs(t, err, source.ErrDuplicateKey)

	_, err = source.DecodeYAMLBytes([]byte("a:\n  b:\n    c: 1\n"), source.WithMaxDepth(2))
	assert.ErrorIs(t, err, source.ErrMaxDepth)

	_, err = source.DecodeYAMLBytes(nil)
	assert.ErrorIs(t, err, source.ErrSyntax)
}

func TestDecode_Formats(t *testing.T) {
	_, err := source.Decode(strings.NewReader("{}"), "toml")
	assert.ErrorIs(t, err, vskema.ErrUnsupportedFormat)

	dir := t.TempDir()
	for name, body := range map[string]string{"in.json": `{"a":1}`, "in.yaml": "a: 1\n"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		v, err := source.DecodeFile(p)
		require.NoError(t, err, name)
		assert.Equal(t, map[string]any{"a": float64(1)}, v, name)
	}
}
