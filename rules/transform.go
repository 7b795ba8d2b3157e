package rules

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/codec"
)

type normalizeParams struct {
	Form string `mapstructure:"form"`
	Lang string `mapstructure:"lang"`
}

// builtinTransform resolves the named built-in transforms. String
// transforms leave non-strings untouched; coercions leave values they cannot
// convert untouched so the kind check reports them.
func (r *Registry) builtinTransform(name string) (TransformFunc, bool) {
	switch name {
	case vskema.TransformTrim:
		return onString(strings.TrimSpace), true
	case vskema.TransformLowercase:
		return onString(strings.ToLower), true
	case vskema.TransformUppercase:
		return onString(strings.ToUpper), true
	case vskema.TransformNormalize:
		return normalize, true
	case vskema.TransformTitle:
		return title, true
	case vskema.TransformToNumber:
		return func(v any, _ map[string]any) any {
			if f, ok := codec.ToNumber(v); ok {
				return f
			}
			return v
		}, true
	case vskema.TransformToBoolean:
		return func(v any, _ map[string]any) any {
			if b, ok := codec.ToBoolean(v); ok {
				return b
			}
			return v
		}, true
	case vskema.TransformToDate:
		return func(v any, _ map[string]any) any {
			if d, ok := codec.ToDate(v); ok {
				return d
			}
			return v
		}, true
	case vskema.TransformCustom:
		return r.namedTransform, true
	}
	return nil, false
}

func onString(fn func(string) string) TransformFunc {
	return func(v any, _ map[string]any) any {
		if s, ok := v.(string); ok {
			return fn(s)
		}
		return v
	}
}

func normalize(v any, params map[string]any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	var p normalizeParams
	_ = decodeParams(params, &p)
	switch strings.ToUpper(p.Form) {
	case "NFD":
		return norm.NFD.String(s)
	case "NFKC":
		return norm.NFKC.String(s)
	case "NFKD":
		return norm.NFKD.String(s)
	default:
		return norm.NFC.String(s)
	}
}

func title(v any, params map[string]any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	var p normalizeParams
	_ = decodeParams(params, &p)
	tag := language.Und
	if p.Lang != "" {
		if t, err := language.Parse(p.Lang); err == nil {
			tag = t
		}
	}
	return cases.Title(tag).String(s)
}

// namedTransform runs the transform registered under the "name" param.
func (r *Registry) namedTransform(v any, params map[string]any) any {
	var p namedParams
	if err := decodeParams(params, &p, "name"); err != nil {
		return v
	}
	r.mu.RLock()
	fn, ok := r.transforms[p.Name]
	r.mu.RUnlock()
	if !ok {
		return v
	}
	return fn(v, params)
}
