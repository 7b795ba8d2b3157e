package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/dsl"
	"github.com/reoring/vskema/engine"
	"github.com/reoring/vskema/internal/logging"
	"github.com/reoring/vskema/metrics"
	"github.com/reoring/vskema/remote"
	"github.com/reoring/vskema/rules"

	backend "github.com/redis/go-redis/v9"
)

func execute(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestValidate_ValidDocument(t *testing.T) {
	code, out, errOut := execute(t, "", "validate", "--schema", "testdata/user.yaml", "testdata/valid.json")
	require.Equal(t, 0, code, errOut)

	var env vskema.Envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, vskema.StatusSuccess, env.Status)
	assert.Equal(t, map[string]any{"email": "ada@example.com", "age": float64(19)}, env.Data)
	assert.Empty(t, env.Errors)
	require.Len(t, env.Validation.SoftValidations, 1)
	assert.Equal(t, "under 21", env.Validation.SoftValidations[0].Message)
}

func TestValidate_InvalidDocument(t *testing.T) {
	code, out, _ := execute(t, "", "validate", "-s", "testdata/user.yaml", "testdata/invalid.json")
	require.Equal(t, 1, code)

	var env vskema.Envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, vskema.StatusValidationError, env.Status)
	assert.Nil(t, env.Data)

	codes := make([]string, 0, len(env.Errors))
	for _, e := range env.Errors {
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []string{vskema.CodeInvalidEmail, vskema.CodeMinValue, vskema.CodeUnknownKey}, codes)
}

func TestValidate_Flags(t *testing.T) {
	t.Run("abort early", func(t *testing.T) {
		code, out, _ := execute(t, "", "validate", "-s", "testdata/user.yaml", "--abort-early", "testdata/invalid.json")
		require.Equal(t, 1, code)
		var env vskema.Envelope
		require.NoError(t, json.Unmarshal([]byte(out), &env))
		assert.Len(t, env.Errors, 1)
	})

	t.Run("by field from stdin", func(t *testing.T) {
		code, out, _ := execute(t, `{"email":"nope"}`, "validate", "-s", "testdata/user.yaml", "--by-field")
		require.Equal(t, 1, code)
		var res vskema.ValidationResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.False(t, res.Valid)
		assert.Contains(t, res.ErrorsByField, "email")
	})

	t.Run("yaml data on stdin", func(t *testing.T) {
		code, _, errOut := execute(t, "email: a@b.co\nage: 30\n", "validate", "-s", "testdata/user.yaml", "--data-format", "yaml", "-")
		assert.Equal(t, 0, code, errOut)
	})

	t.Run("async", func(t *testing.T) {
		code, _, errOut := execute(t, "", "validate", "-s", "testdata/user.yaml", "--async", "--timeout", "1s", "testdata/valid.json")
		assert.Equal(t, 0, code, errOut)
	})
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string][]string{
		"missing schema flag": {"validate", "testdata/valid.json"},
		"broken schema":       {"validate", "-s", "testdata/broken.yaml", "testdata/valid.json"},
		"missing data":        {"validate", "-s", "testdata/user.yaml", "testdata/nope.json"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			code, _, errOut := execute(t, "", args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, errOut, "Error:")
		})
	}

	code, _, _ := execute(t, `{"email":"a@b.co","email":"c@d.co"}`, "validate", "-s", "testdata/user.yaml")
	assert.Equal(t, 2, code, "duplicate keys are rejected")
}

func TestValidate_RedisUnique(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, remote.Claim(context.Background(), client, "emails", "taken@example.com"))

	s := dsl.Object().
		Field("email", dsl.String().Email().CustomAsync(remote.TagUnique, map[string]any{"set": "emails"})).
		Schema()
	b, err := vskema.MarshalJSON(s)
	require.NoError(t, err)
	schemaPath := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, b, 0o600))

	url := "redis://" + mr.Addr() + "/0"
	code, _, errOut := execute(t, `{"email":"free@example.com"}`, "validate", "-s", schemaPath, "--async", "--redis-url", url)
	assert.Equal(t, 0, code, errOut)

	code, out, _ := execute(t, `{"email":"taken@example.com"}`, "validate", "-s", schemaPath, "--async", "--redis-url", url)
	require.Equal(t, 1, code)
	assert.Contains(t, out, vskema.CodeAsyncFailed)

	code, _, errOut = execute(t, `{}`, "validate", "-s", schemaPath, "--redis-url", "not a url")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "redis url")
}

func TestConvert(t *testing.T) {
	code, out, errOut := execute(t, "", "convert", "testdata/user.yaml")
	require.Equal(t, 0, code, errOut)

	s, err := vskema.UnmarshalJSON([]byte(out))
	require.NoError(t, err)
	want, err := loadSchema("testdata/user.yaml")
	require.NoError(t, err)
	assert.Equal(t, want, s)

	dst := filepath.Join(t.TempDir(), "user.yml")
	jsonPath := filepath.Join(t.TempDir(), "user.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(out), 0o600))
	code, _, errOut = execute(t, "", "convert", jsonPath, "-o", dst)
	require.Equal(t, 0, code, errOut)

	back, err := loadSchema(dst)
	require.NoError(t, err)
	assert.Equal(t, want, back)

	code, _, _ = execute(t, "", "convert", "testdata/user.yaml", "--to", "toml")
	assert.Equal(t, 2, code)
}

func TestConvert_JSONSchema(t *testing.T) {
	code, out, errOut := execute(t, "", "convert", "testdata/user.yaml", "--to", "jsonschema")
	require.Equal(t, 0, code, errOut)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.Equal(t, []any{"email"}, doc["required"])
	props := doc["properties"].(map[string]any)
	assert.Equal(t, float64(18), props["age"].(map[string]any)["minimum"])
}

func TestCheck(t *testing.T) {
	code, out, _ := execute(t, "", "check", "testdata/user.yaml")
	assert.Equal(t, 0, code)
	assert.Equal(t, "ok testdata/user.yaml\n", out)

	code, _, _ = execute(t, "", "check", "testdata/user.yaml", "testdata/broken.yaml")
	assert.Equal(t, 2, code)
}

func TestVersion(t *testing.T) {
	code, out, _ := execute(t, "", "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "vskema dev\n", out)
}

func TestServer(t *testing.T) {
	s, err := loadSchema("testdata/user.yaml")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	obs := metrics.New("vskema")
	reg.MustRegister(obs)
	rt := &runtime{
		log:    logging.NewNop(),
		reg:    rules.NewRegistry(),
		closer: func() error { return nil },
	}
	rt.eng = engine.New(engine.WithRegistry(rt.reg), engine.WithLogger(rt.log), engine.WithObserver(obs))

	srv := httptest.NewServer(newServer(rt, s, reg, serveOptions{maxBody: 1024}))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/validate", "application/json", strings.NewReader(`{"email":"ada@example.com","age":30}`))
	require.NoError(t, err)
	var env vskema.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, vskema.StatusSuccess, env.Status)

	resp, err = http.Post(srv.URL+"/validate", "application/json", strings.NewReader(`{"age":30}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Contains(t, body.String(), `vskema_validations_total{mode="sync",result="valid"} 1`)
	assert.Contains(t, body.String(), `vskema_validations_total{mode="sync",result="invalid"} 1`)
}

func TestImport(t *testing.T) {
	code, out, errOut := execute(t, "", "import", "testdata/widget-crd.yaml", "--kind", "Widget", "--to", "json")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "warning: selector")

	s, err := vskema.UnmarshalJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"replicas"}, s.Names())
	f, _ := s.Lookup("replicas")
	assert.True(t, f.Required)

	code, _, _ = execute(t, "", "import", "testdata/widget-crd.yaml", "--kind", "Gadget")
	assert.Equal(t, 2, code)
}
