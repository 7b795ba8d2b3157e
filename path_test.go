package vskema_test

import (
	"reflect"
	"testing"

	vskema "github.com/reoring/vskema"
)

func TestPath_String(t *testing.T) {
	cases := []struct {
		p    vskema.Path
		want string
	}{
		{vskema.RootPath(), ""},
		{vskema.RootPath().Field("email"), "email"},
		{vskema.RootPath().Field("address").Field("zip"), "address.zip"},
		{vskema.RootPath().Field("items").Index(2).Field("sku"), "items[2].sku"},
		{vskema.RootPath().Index(0).Index(1), "[0][1]"},
		{vskema.RootPath().Field("meta").Field("x.y"), `meta["x.y"]`},
		{vskema.RootPath().Field("a[0]").Field("b"), `["a[0]"].b`},
	}
	for _, tc := range cases {
		if got := tc.p.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestPath_ChainSafe(t *testing.T) {
	base := vskema.RootPath().Field("items")
	a := base.Index(0)
	b := base.Index(1)
	if a.String() != "items[0]" || b.String() != "items[1]" {
		t.Fatalf("siblings share storage: %q %q", a, b)
	}
	if !vskema.RootPath().IsRoot() || base.IsRoot() {
		t.Fatalf("IsRoot mismatch")
	}
}

func TestParsePath(t *testing.T) {
	got := vskema.ParsePath("items[2].tags[0]")
	want := []any{"items", 2, "tags", 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParsePath = %#v, want %#v", got, want)
	}
	if len(vskema.ParsePath("")) != 0 {
		t.Fatalf("empty path should have no segments")
	}
	if s := vskema.PathFrom("a.b[3]").String(); s != "a.b[3]" {
		t.Fatalf("PathFrom round trip = %q", s)
	}
}

func TestPath_Error(t *testing.T) {
	e := vskema.RootPath().Field("items").Index(1).Error(vskema.CodeRequired, "required", vskema.SeverityHard)
	if e.Field != "items[1]" || !reflect.DeepEqual(e.PathSegments, []any{"items", 1}) {
		t.Fatalf("unexpected error location: %+v", e)
	}
}

func TestPath_QuotedKeysRoundTrip(t *testing.T) {
	for _, key := range []string{"x.y", "a[0]", `say "hi"`, "", "]"} {
		p := vskema.RootPath().Field("m").Field(key).Index(2)
		want := []any{"m", key, 2}
		if got := vskema.ParsePath(p.String()); !reflect.DeepEqual(got, want) {
			t.Fatalf("ParsePath(%q) = %#v, want %#v", p.String(), got, want)
		}
	}
}
