package rules

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	vskema "github.com/reoring/vskema"
)

var (
	// Phone number regex - international format with optional country code
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

	alphanumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

	patternCache sync.Map // string -> *regexp.Regexp
)

type lengthParams struct {
	Min    int `mapstructure:"min"`
	Max    int `mapstructure:"max"`
	Length int `mapstructure:"length"`
}

type textParams struct {
	Pattern   string `mapstructure:"pattern"`
	Flags     string `mapstructure:"flags"`
	Prefix    string `mapstructure:"prefix"`
	Suffix    string `mapstructure:"suffix"`
	Substring string `mapstructure:"substring"`
	Version   int    `mapstructure:"version"`
}

// str returns v as a non-empty string.
func str(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

func minLength(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p lengthParams
	if err := decodeParams(params, &p, "min"); err != nil {
		return nil, err
	}
	s, ok := str(v)
	if !ok || utf8.RuneCountInString(s) >= p.Min {
		return nil, nil
	}
	return fail(vc, vskema.CodeMinLength, map[string]string{"min": fmtNum(float64(p.Min))}, v, p.Min), nil
}

func maxLength(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p lengthParams
	if err := decodeParams(params, &p, "max"); err != nil {
		return nil, err
	}
	s, ok := str(v)
	if !ok || utf8.RuneCountInString(s) <= p.Max {
		return nil, nil
	}
	return fail(vc, vskema.CodeMaxLength, map[string]string{"max": fmtNum(float64(p.Max))}, v, p.Max), nil
}

func exactLength(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p lengthParams
	if err := decodeParams(params, &p, "length"); err != nil {
		return nil, err
	}
	s, ok := str(v)
	if !ok || utf8.RuneCountInString(s) == p.Length {
		return nil, nil
	}
	return fail(vc, vskema.CodeLength, map[string]string{"length": fmtNum(float64(p.Length))}, v, p.Length), nil
}

// email accepts a bare RFC 5322 address whose domain has at least one dot.
func email(v any, _ map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	s, ok := str(v)
	if !ok || isEmail(s) {
		return nil, nil
	}
	return fail(vc, vskema.CodeInvalidEmail, nil, v, "email"), nil
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	local, domain, found := strings.Cut(addr.Address, "@")
	if !found || local == "" {
		return false
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

func validURL(v any, _ map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	s, ok := str(v)
	if !ok {
		return nil, nil
	}
	if u, err := url.ParseRequestURI(s); err == nil && u.Scheme != "" && u.Host != "" {
		return nil, nil
	}
	return fail(vc, vskema.CodeInvalidURL, nil, v, "url"), nil
}

func validUUID(v any, _ map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	s, ok := str(v)
	if !ok {
		return nil, nil
	}
	// uuid.Parse also accepts urn and braced forms; only the canonical
	// 36-character layout is valid here.
	if len(s) == 36 && s[8] == '-' && s[13] == '-' && s[18] == '-' && s[23] == '-' {
		if _, err := uuid.Parse(s); err == nil {
			return nil, nil
		}
	}
	return fail(vc, vskema.CodeInvalidUUID, nil, v, "uuid"), nil
}

func pattern(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p textParams
	if err := decodeParams(params, &p, "pattern"); err != nil {
		return nil, err
	}
	re, err := compilePattern(p.Pattern, p.Flags)
	if err != nil {
		return nil, err
	}
	s, ok := str(v)
	if !ok || re.MatchString(s) {
		return nil, nil
	}
	return fail(vc, vskema.CodePattern, map[string]string{"pattern": p.Pattern}, v, p.Pattern), nil
}

func compilePattern(expr, flags string) (*regexp.Regexp, error) {
	var prefix strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			prefix.WriteRune(f)
		}
	}
	if prefix.Len() > 0 {
		expr = "(?" + prefix.String() + ")" + expr
	}
	if re, ok := patternCache.Load(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	patternCache.Store(expr, re)
	return re, nil
}

func startsWith(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p textParams
	if err := decodeParams(params, &p, "prefix"); err != nil {
		return nil, err
	}
	s, ok := str(v)
	if !ok || strings.HasPrefix(s, p.Prefix) {
		return nil, nil
	}
	return fail(vc, vskema.CodeStartsWith, map[string]string{"prefix": p.Prefix}, v, p.Prefix), nil
}

func endsWith(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p textParams
	if err := decodeParams(params, &p, "suffix"); err != nil {
		return nil, err
	}
	s, ok := str(v)
	if !ok || strings.HasSuffix(s, p.Suffix) {
		return nil, nil
	}
	return fail(vc, vskema.CodeEndsWith, map[string]string{"suffix": p.Suffix}, v, p.Suffix), nil
}

func includes(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p textParams
	if err := decodeParams(params, &p, "substring"); err != nil {
		return nil, err
	}
	s, ok := str(v)
	if !ok || strings.Contains(s, p.Substring) {
		return nil, nil
	}
	return fail(vc, vskema.CodeIncludes, map[string]string{"substring": p.Substring}, v, p.Substring), nil
}

// phone accepts E.164 numbers; spaces and dashes are ignored.
func phone(v any, _ map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	s, ok := str(v)
	if !ok {
		return nil, nil
	}
	cleaned := strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), "-", "")
	if len(cleaned) >= 7 && phoneRegex.MatchString(cleaned) {
		return nil, nil
	}
	return fail(vc, vskema.CodeInvalidPhone, nil, v, "phone"), nil
}

func validIP(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p textParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	s, ok := str(v)
	if !ok {
		return nil, nil
	}
	ip := net.ParseIP(s)
	valid := ip != nil
	switch p.Version {
	case 4:
		valid = valid && ip.To4() != nil
	case 6:
		valid = valid && ip.To4() == nil
	}
	if valid {
		return nil, nil
	}
	expected := "ip"
	if p.Version != 0 {
		expected = "ipv" + fmtNum(float64(p.Version))
	}
	return fail(vc, vskema.CodeInvalidIP, nil, v, expected), nil
}

func alphanumeric(v any, _ map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	s, ok := str(v)
	if !ok || alphanumericRegex.MatchString(s) {
		return nil, nil
	}
	return fail(vc, vskema.CodeAlphanumeric, nil, v, "alphanumeric"), nil
}
