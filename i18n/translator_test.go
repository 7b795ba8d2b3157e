package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("INVALID_EMAIL", nil); msg != "invalid email address" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("INVALID_EMAIL", nil); msg == "invalid email address" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_Interpolation(t *testing.T) {
	if msg := T("MIN_VALUE", map[string]string{"min": "18"}); msg != "must be at least 18" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if msg := Interpolate("{a} and {b}", map[string]string{"a": "x"}); msg != "x and {b}" {
		t.Fatalf("unexpected interpolation: %q", msg)
	}
}

func TestTranslator_UnknownCodeFallsBackToCode(t *testing.T) {
	if msg := T("SOMETHING_ELSE", nil); msg != "SOMETHING_ELSE" {
		t.Fatalf("expected code back, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "custom:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("REQUIRED", nil); msg != "custom:REQUIRED" {
		t.Fatalf("custom translator not used: %q", msg)
	}
}
