package vskema

import "reflect"

// ValidatorContext is the position being validated. Engines allocate a new
// one per recursion level; validators must treat it as read-only.
type ValidatorContext struct {
	Path     string // dotted/bracket path of the value
	Segments []any  // Path split into keys and indexes
	Root     any    // entire top-level input (working values)
	Parent   any    // immediate container, nil at the top level
}

// NewValidatorContext builds a context for path p.
func NewValidatorContext(p Path, root, parent any) ValidatorContext {
	return ValidatorContext{Path: p.String(), Segments: p.Segments(), Root: root, Parent: parent}
}

// Lookup resolves a dotted/bracket path against Root.
func (vc ValidatorContext) Lookup(path string) (any, bool) {
	return ValueAt(vc.Root, ParsePath(path))
}

// Sibling returns the value of key in the immediate parent object.
func (vc ValidatorContext) Sibling(key string) (any, bool) {
	return ValueAt(vc.Parent, []any{key})
}

// ValueAt walks v by segments. Plain maps and slices are handled directly;
// other maps, slices, arrays and pointers go through reflection.
func ValueAt(v any, segs []any) (any, bool) {
	cur := v
	for _, seg := range segs {
		switch c := cur.(type) {
		case map[string]any:
			k, ok := seg.(string)
			if !ok {
				return nil, false
			}
			nv, ok := c[k]
			if !ok {
				return nil, false
			}
			cur = nv
			continue
		case []any:
			i, ok := seg.(int)
			if !ok || i < 0 || i >= len(c) {
				return nil, false
			}
			cur = c[i]
			continue
		}
		nv, ok := reflectStep(cur, seg)
		if !ok {
			return nil, false
		}
		cur = nv
	}
	return cur, true
}

func reflectStep(cur any, seg any) (any, bool) {
	rv := reflect.ValueOf(cur)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		k, ok := seg.(string)
		if !ok || rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Slice, reflect.Array:
		i, ok := seg.(int)
		if !ok || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	default:
		return nil, false
	}
}
