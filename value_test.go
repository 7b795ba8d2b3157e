package vskema_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	vskema "github.com/reoring/vskema"
)

type address struct {
	Zip  string `json:"zip"`
	City string `json:"city,omitempty"`
}

type signup struct {
	Email   string    `json:"email"`
	Age     int       `json:"age"`
	Address *address  `json:"address"`
	Tags    []string  `json:"tags"`
	Joined  time.Time `json:"-"`
}

func TestPlain_Structs(t *testing.T) {
	got, err := vskema.Plain(signup{Email: "a@b.co", Age: 30, Address: &address{Zip: "123"}, Tags: []string{"x"}})
	if err != nil {
		t.Fatal(err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("want map, got %T", got)
	}
	if m["email"] != "a@b.co" {
		t.Fatalf("email = %#v", m["email"])
	}
	if _, ok := m["Joined"]; ok {
		t.Fatalf("json:\"-\" field leaked")
	}
	addr := m["address"].(map[string]any)
	if addr["zip"] != "123" {
		t.Fatalf("address = %#v", addr)
	}
	if _, ok := addr["city"]; ok {
		t.Fatalf("omitempty ignored")
	}
}

func TestPlain_TypedContainers(t *testing.T) {
	got, err := vskema.Plain(map[string][]int{"ids": {1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"ids": []any{1, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Plain = %#v", got)
	}

	src := map[string]any{"nested": map[string]any{"a": 1}}
	cp, _ := vskema.Plain(src)
	cp.(map[string]any)["nested"].(map[string]any)["a"] = 2
	if src["nested"].(map[string]any)["a"] != 1 {
		t.Fatalf("Plain must deep copy")
	}

	var nilPtr *address
	if v, err := vskema.Plain(nilPtr); v != nil || err != nil {
		t.Fatalf("nil pointer = %#v, %v", v, err)
	}
	if _, err := vskema.Plain(make(chan int)); err == nil {
		t.Fatalf("channels cannot be normalised")
	}
}

func TestPresence(t *testing.T) {
	cases := []struct {
		v              any
		missing, empty bool
	}{
		{nil, true, true},
		{"", true, true},
		{"x", false, false},
		{[]any{}, true, true},
		{[]string{}, true, true},
		{map[string]any{}, false, true},
		{0, false, false},
		{false, false, false},
	}
	for _, tc := range cases {
		if got := vskema.IsMissing(tc.v); got != tc.missing {
			t.Fatalf("IsMissing(%#v) = %v", tc.v, got)
		}
		if got := vskema.IsEmpty(tc.v); got != tc.empty {
			t.Fatalf("IsEmpty(%#v) = %v", tc.v, got)
		}
	}
}

func TestValidatorContext_Lookup(t *testing.T) {
	root := map[string]any{
		"password": "secret",
		"items":    []any{map[string]any{"sku": "a"}},
		"typed":    map[string]int{"n": 3},
	}
	vc := vskema.NewValidatorContext(vskema.RootPath().Field("confirm"), root, root)

	if v, ok := vc.Sibling("password"); !ok || v != "secret" {
		t.Fatalf("Sibling = %v, %v", v, ok)
	}
	if v, ok := vc.Lookup("items[0].sku"); !ok || v != "a" {
		t.Fatalf("Lookup = %v, %v", v, ok)
	}
	if v, ok := vc.Lookup("typed.n"); !ok || v != 3 {
		t.Fatalf("reflective Lookup = %v, %v", v, ok)
	}
	for _, p := range []string{"items[1]", "missing", "password.x"} {
		if _, ok := vc.Lookup(p); ok {
			t.Fatalf("Lookup(%s) should fail", p)
		}
	}
	if vc.Path != "confirm" || !reflect.DeepEqual(vc.Segments, []any{"confirm"}) {
		t.Fatalf("context location = %q %v", vc.Path, vc.Segments)
	}
}

type mailer interface{ Send(to string) error }

type fakeMailer struct{ sent []string }

func (f *fakeMailer) Send(to string) error { f.sent = append(f.sent, to); return nil }

func TestServices(t *testing.T) {
	ctx := context.Background()
	if _, err := vskema.RequireService[mailer](ctx); !errors.Is(err, vskema.ErrServiceUnavailable) {
		t.Fatalf("err = %v", err)
	}

	m := &fakeMailer{}
	ctx = vskema.WithService[mailer](ctx, m)
	got, err := vskema.RequireService[mailer](ctx)
	if err != nil || got != m {
		t.Fatalf("RequireService = %v, %v", got, err)
	}
	if _, ok := vskema.Service[*fakeMailer](ctx); ok {
		t.Fatalf("services are keyed by the requested type")
	}
}

func TestResultAndEnvelope(t *testing.T) {
	hard := []vskema.ValidationError{vskema.NewError("email", vskema.CodeRequired, "required", vskema.SeverityHard)}
	soft := []vskema.ValidationError{vskema.NewError("age", vskema.CodeMinValue, "under 21", vskema.SeveritySoft)}

	r := vskema.NewResult(hard, soft, true, nil)
	if r.Valid || r.Err() == nil {
		t.Fatalf("hard errors make the result invalid")
	}
	if len(r.ErrorsByField["email"]) != 1 || len(r.ErrorsByField["age"]) != 1 {
		t.Fatalf("ErrorsByField = %v", r.ErrorsByField)
	}
	if got := r.All().Codes(); !reflect.DeepEqual(got, []string{vskema.CodeRequired, vskema.CodeMinValue}) {
		t.Fatalf("All = %v", got)
	}

	env := vskema.ToEnvelope(r, nil)
	if env.Status != vskema.StatusValidationError || env.Msg != "Validation failed" || len(env.Errors) != 1 {
		t.Fatalf("envelope = %+v", env)
	}
	if len(env.Validation.SoftValidations) != 1 {
		t.Fatalf("soft bucket = %v", env.Validation.SoftValidations)
	}

	ok := vskema.NewResult(nil, nil, false, map[string]any{})
	if !ok.Valid || ok.Err() != nil || ok.HardErrors == nil || ok.SoftErrors == nil || ok.ErrorsByField != nil {
		t.Fatalf("valid result = %+v", ok)
	}
	env = vskema.ToEnvelope(ok, map[string]any{"a": 1})
	if env.Status != vskema.StatusSuccess || env.Msg != "Validation successful" || env.Errors == nil {
		t.Fatalf("envelope = %+v", env)
	}
}
