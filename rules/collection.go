package rules

import (
	"reflect"

	vskema "github.com/reoring/vskema"
)

type itemsParams struct {
	Min int    `mapstructure:"min"`
	Max int    `mapstructure:"max"`
	Key string `mapstructure:"key"`
}

type choiceParams struct {
	Values []any `mapstructure:"values"`
	Value  any   `mapstructure:"value"`
}

type compareParams struct {
	Field string `mapstructure:"field"`
	Op    string `mapstructure:"op"`
}

// items returns the elements of a non-empty slice or array.
func items(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, len(s) > 0
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, len(out) > 0
}

func minItems(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p itemsParams
	if err := decodeParams(params, &p, "min"); err != nil {
		return nil, err
	}
	xs, ok := items(v)
	if !ok || len(xs) >= p.Min {
		return nil, nil
	}
	return fail(vc, vskema.CodeMinItems, map[string]string{"min": fmtNum(float64(p.Min))}, len(xs), p.Min), nil
}

func maxItems(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p itemsParams
	if err := decodeParams(params, &p, "max"); err != nil {
		return nil, err
	}
	xs, ok := items(v)
	if !ok || len(xs) <= p.Max {
		return nil, nil
	}
	return fail(vc, vskema.CodeMaxItems, map[string]string{"max": fmtNum(float64(p.Max))}, len(xs), p.Max), nil
}

// unique reports the first repeated element.
func unique(v any, _ map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	xs, ok := items(v)
	if !ok {
		return nil, nil
	}
	seen := make(map[string]int, len(xs))
	for i, x := range xs {
		k := keyOf(x)
		if j, dup := seen[k]; dup {
			return fail(vc, vskema.CodeDuplicate, nil, x, map[string]any{"first": j, "dup": i}), nil
		}
		seen[k] = i
	}
	return nil, nil
}

// uniqueBy ensures elements have unique values at the relative path in the
// "key" param (e.g. "sku" or "meta.id"). Elements without the key are
// skipped.
func uniqueBy(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p itemsParams
	if err := decodeParams(params, &p, "key"); err != nil {
		return nil, err
	}
	xs, ok := items(v)
	if !ok {
		return nil, nil
	}
	segs := vskema.ParsePath(p.Key)
	seen := make(map[string]int, len(xs))
	for i, x := range xs {
		kv, ok := vskema.ValueAt(x, segs)
		if !ok {
			continue
		}
		k := keyOf(kv)
		if j, dup := seen[k]; dup {
			return fail(vc, vskema.CodeDuplicate, map[string]string{"key": p.Key}, kv,
				map[string]any{"key": p.Key, "first": j, "dup": i}), nil
		}
		seen[k] = i
	}
	return nil, nil
}

func oneOf(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p choiceParams
	if err := decodeParams(params, &p, "values"); err != nil {
		return nil, err
	}
	if vskema.IsEmpty(v) {
		return nil, nil
	}
	k := keyOf(v)
	for _, want := range p.Values {
		if keyOf(want) == k {
			return nil, nil
		}
	}
	return fail(vc, vskema.CodeInvalidEnum, map[string]string{"values": display(p.Values)}, v, p.Values), nil
}

func equals(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p choiceParams
	if err := decodeParams(params, &p, "value"); err != nil {
		return nil, err
	}
	if vskema.IsEmpty(v) || compare(v, Eq, p.Value) {
		return nil, nil
	}
	return fail(vc, vskema.CodeNotEqual, map[string]string{"value": display(p.Value)}, v, p.Value), nil
}

// compareField compares the value with another field. The "field" param is
// resolved against the parent object first, then against the root. A
// missing or empty counterpart is not an error here.
func compareField(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p compareParams
	if err := decodeParams(params, &p, "field"); err != nil {
		return nil, err
	}
	op, ok := ParseOp(p.Op)
	if !ok {
		return nil, ErrBadParams
	}
	if vskema.IsEmpty(v) {
		return nil, nil
	}
	other, found := vskema.ValueAt(vc.Parent, vskema.ParsePath(p.Field))
	if !found {
		other, found = vc.Lookup(p.Field)
	}
	if !found || vskema.IsEmpty(other) {
		return nil, nil
	}
	if compare(v, op, other) {
		return nil, nil
	}
	return fail(vc, vskema.CodeFieldCompare, map[string]string{"op": opWords[op], "field": p.Field}, v,
		map[string]any{"field": p.Field, "op": op.String()}), nil
}
