package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/codec"
)

// ErrNotFound is returned by ImportYAML when no document matches.
var ErrNotFound = errors.New("jsonschema: no matching document")

// Diag collects non-fatal findings of an import: keywords that were dropped
// and references that could not be resolved.
type Diag struct {
	Warnings []string
}

func (d *Diag) warnf(at vskema.Path, f string, a ...any) {
	msg := fmt.Sprintf(f, a...)
	if s := at.String(); s != "" {
		msg = s + ": " + msg
	}
	d.Warnings = append(d.Warnings, msg)
}

// Import compiles a JSON Schema or OpenAPI v3 object schema into a vskema
// schema. doc is either raw JSON or an already decoded map. A Kubernetes
// CRD or a {"openAPIV3Schema": ...} wrapper is unwrapped first.
//
// Properties become fields in name order. Local "#/$defs/..." references are
// expanded; anything else is reported in the returned Diag and skipped.
func Import(doc any) (vskema.SchemaDefinition, *Diag, error) {
	d := &Diag{}
	var root map[string]any
	switch t := doc.(type) {
	case []byte:
		if err := json.Unmarshal(t, &root); err != nil {
			return vskema.SchemaDefinition{}, d, fmt.Errorf("jsonschema: invalid JSON: %w", err)
		}
	case map[string]any:
		root = t
	case nil:
		return vskema.SchemaDefinition{}, d, errors.New("jsonschema: nil document")
	default:
		return vskema.SchemaDefinition{}, d, fmt.Errorf("jsonschema: unsupported document type %T", doc)
	}
	if root == nil {
		return vskema.SchemaDefinition{}, d, errors.New("jsonschema: document is not an object")
	}

	if spec, ok := root["openAPIV3Schema"].(map[string]any); ok {
		root = spec
	} else if crd := unwrapCRD(root); crd != nil {
		root = crd
	}
	if t, _ := root["type"].(string); t != "" && t != "object" {
		return vskema.SchemaDefinition{}, d, fmt.Errorf("jsonschema: root type %q is not an object", t)
	}

	im := &importer{diag: d}
	im.defs, _ = root["$defs"].(map[string]any)
	s, err := im.object(root, vskema.RootPath())
	if err != nil {
		return vskema.SchemaDefinition{}, d, err
	}
	return s, d, nil
}

// ImportYAML scans a multi-document YAML stream and imports the first
// document matching kind. For CustomResourceDefinitions kind is compared to
// spec.names.kind; an empty kind takes the first document.
func ImportYAML(data []byte, kind string) (vskema.SchemaDefinition, *Diag, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return vskema.SchemaDefinition{}, &Diag{}, fmt.Errorf("jsonschema: invalid YAML: %w", err)
		}
		m, ok := stringKeys(node).(map[string]any)
		if !ok {
			continue
		}
		if kind == "" || crdKind(m) == kind {
			return Import(m)
		}
	}
	return vskema.SchemaDefinition{}, &Diag{}, fmt.Errorf("%w: kind %q", ErrNotFound, kind)
}

func crdKind(m map[string]any) string {
	if k, _ := m["kind"].(string); k != "CustomResourceDefinition" {
		return ""
	}
	spec, _ := m["spec"].(map[string]any)
	names, _ := spec["names"].(map[string]any)
	k, _ := names["kind"].(string)
	return k
}

// unwrapCRD returns spec.versions[].schema.openAPIV3Schema, preferring a
// served version, or the legacy spec.validation.openAPIV3Schema.
func unwrapCRD(root map[string]any) map[string]any {
	spec, ok := root["spec"].(map[string]any)
	if !ok {
		return nil
	}
	var first map[string]any
	vers, _ := spec["versions"].([]any)
	for _, v := range vers {
		vm, _ := v.(map[string]any)
		sch, _ := vm["schema"].(map[string]any)
		oas, ok := sch["openAPIV3Schema"].(map[string]any)
		if !ok {
			continue
		}
		if served, ok := vm["served"].(bool); !ok || served {
			return oas
		}
		if first == nil {
			first = oas
		}
	}
	if first != nil {
		return first
	}
	if val, ok := spec["validation"].(map[string]any); ok {
		if oas, ok := val["openAPIV3Schema"].(map[string]any); ok {
			return oas
		}
	}
	return nil
}

// stringKeys converts yaml.v3 map[any]any nodes to map[string]any and
// integers to float64, the shapes a JSON document decodes to.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = stringKeys(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = stringKeys(e)
		}
		return out
	case []any:
		for i := range t {
			t[i] = stringKeys(t[i])
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	}
	return v
}

type importer struct {
	diag *Diag
	defs map[string]any
	// refs being expanded, for cycle detection
	active []string
}

func (im *importer) resolve(node map[string]any, at vskema.Path) (map[string]any, bool) {
	ref, ok := node["$ref"].(string)
	if !ok {
		return node, true
	}
	key, ok := strings.CutPrefix(ref, "#/$defs/")
	if !ok {
		im.diag.warnf(at, "$ref %q not supported (local $defs only)", ref)
		return nil, false
	}
	base, ok := im.defs[key].(map[string]any)
	if !ok {
		im.diag.warnf(at, "$ref to unknown $defs/%s", key)
		return nil, false
	}
	for _, a := range im.active {
		if a == key {
			im.diag.warnf(at, "cyclic $ref at $defs/%s", key)
			return nil, false
		}
	}
	// Sibling keywords win over the referenced definition.
	merged := make(map[string]any, len(base)+len(node))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range node {
		if k != "$ref" {
			merged[k] = v
		}
	}
	if _, nested := merged["$ref"].(string); nested {
		im.active = append(im.active, key)
		defer func() { im.active = im.active[:len(im.active)-1] }()
		return im.resolve(merged, at)
	}
	return merged, true
}

func (im *importer) object(node map[string]any, at vskema.Path) (vskema.SchemaDefinition, error) {
	var s vskema.SchemaDefinition
	props, _ := node["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	required := map[string]bool{}
	if req, ok := node["required"].([]any); ok {
		for _, r := range req {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	for _, name := range names {
		ps, ok := props[name].(map[string]any)
		if !ok {
			im.diag.warnf(at.Field(name), "property schema is not an object")
			continue
		}
		f, ok, err := im.field(ps, at.Field(name))
		if err != nil {
			return s, err
		}
		if !ok {
			continue
		}
		f.Required = required[name]
		s.Fields = append(s.Fields, vskema.NamedField{Name: name, FieldDefinition: f})
	}
	for name := range required {
		if _, ok := props[name]; !ok {
			im.diag.warnf(at, "required property %q is not declared", name)
		}
	}

	if preserve, _ := node["x-kubernetes-preserve-unknown-fields"].(bool); preserve {
		s.Unknown.Policy = vskema.UnknownPassthrough
	}
	switch ap := node["additionalProperties"].(type) {
	case bool:
		if ap {
			s.Unknown.Policy = vskema.UnknownPassthrough
		} else {
			s.Unknown.Policy = vskema.UnknownStrict
		}
	case map[string]any:
		c, ok, err := im.field(ap, at.Field("*"))
		if err != nil {
			return s, err
		}
		if ok {
			s.Unknown = vskema.UnknownKeys{Policy: vskema.UnknownCatchall, Catchall: &c}
		}
	}
	return s, nil
}

// field imports one property. ok is false when the property had to be
// skipped; the reason is recorded in the diagnostics.
func (im *importer) field(node map[string]any, at vskema.Path) (vskema.FieldDefinition, bool, error) {
	node, ok := im.resolve(node, at)
	if !ok {
		return vskema.FieldDefinition{}, false, nil
	}
	for _, kw := range []string{"oneOf", "anyOf", "allOf", "not", "if"} {
		if _, ok := node[kw]; ok {
			im.diag.warnf(at, "%s is not supported, keyword ignored", kw)
		}
	}

	var f vskema.FieldDefinition
	typ, nullable := schemaType(node)
	if n, _ := node["nullable"].(bool); n {
		nullable = true
	}
	f.Nullable = nullable

	switch typ {
	case "object":
		f.Kind = vskema.KindObject
		nested, err := im.object(node, at)
		if err != nil {
			return f, false, err
		}
		f.Nested = &nested
	case "array":
		f.Kind = vskema.KindArray
		if items, ok := node["items"].(map[string]any); ok {
			it, ok, err := im.field(items, at.Index(0))
			if err != nil {
				return f, false, err
			}
			if ok {
				f.Item = &it
			}
		}
	case "string":
		f.Kind = vskema.KindString
		if fm, _ := node["format"].(string); fm == "date-time" || fm == "date" {
			f.Kind = vskema.KindDate
		}
	case "number":
		f.Kind = vskema.KindNumber
	case "integer":
		f.Kind = vskema.KindNumber
		f.Rules = append(f.Rules, vskema.ValidationRule{Kind: vskema.RuleInteger})
	case "boolean":
		f.Kind = vskema.KindBoolean
	case "":
		im.diag.warnf(at, "no type declared, property skipped")
		return f, false, nil
	default:
		return f, false, fmt.Errorf("jsonschema: %s: unsupported type %q", at, typ)
	}

	f.Rules = append(f.Rules, im.rules(node, f.Kind, at)...)
	if def, ok := node["default"]; ok {
		f.Default = def
	}
	if desc, ok := node["description"].(string); ok && desc != "" {
		f.Metadata = map[string]any{"description": desc}
	}
	return f, true, nil
}

// schemaType reads "type", which may be a string or a list containing "null".
func schemaType(node map[string]any) (string, bool) {
	switch t := node["type"].(type) {
	case string:
		return t, false
	case []any:
		var typ string
		nullable := false
		for _, e := range t {
			s, _ := e.(string)
			if s == "null" {
				nullable = true
			} else if typ == "" {
				typ = s
			}
		}
		return typ, nullable
	}
	if _, ok := node["properties"]; ok {
		return "object", false
	}
	return "", false
}

func (im *importer) rules(node map[string]any, kind vskema.Kind, at vskema.Path) []vskema.ValidationRule {
	var out []vskema.ValidationRule
	add := func(k vskema.RuleKind, params map[string]any) {
		out = append(out, vskema.ValidationRule{Kind: k, Params: params})
	}
	num := func(key string) (float64, bool) { return codec.Number(node[key]) }

	switch kind {
	case vskema.KindString:
		if n, ok := num("minLength"); ok {
			add(vskema.RuleMinLength, map[string]any{"min": n})
		}
		if n, ok := num("maxLength"); ok {
			add(vskema.RuleMaxLength, map[string]any{"max": n})
		}
		if p, ok := node["pattern"].(string); ok {
			add(vskema.RulePattern, map[string]any{"pattern": p})
		}
		switch fm, _ := node["format"].(string); fm {
		case "":
		case "email":
			add(vskema.RuleEmail, nil)
		case "uri", "url":
			add(vskema.RuleURL, nil)
		case "uuid":
			add(vskema.RuleUUID, nil)
		case "ipv4":
			add(vskema.RuleIP, map[string]any{"version": float64(4)})
		case "ipv6":
			add(vskema.RuleIP, map[string]any{"version": float64(6)})
		default:
			im.diag.warnf(at, "format %q ignored", fm)
		}
	case vskema.KindNumber:
		if n, ok := num("minimum"); ok {
			add(vskema.RuleMin, map[string]any{"min": n})
		}
		if n, ok := num("maximum"); ok {
			add(vskema.RuleMax, map[string]any{"max": n})
		}
		if n, ok := num("exclusiveMinimum"); ok {
			if n == 0 {
				add(vskema.RulePositive, nil)
			} else {
				im.diag.warnf(at, "exclusiveMinimum %v imported as minimum", n)
				add(vskema.RuleMin, map[string]any{"min": n})
			}
		}
		if n, ok := num("exclusiveMaximum"); ok {
			if n == 0 {
				add(vskema.RuleNegative, nil)
			} else {
				im.diag.warnf(at, "exclusiveMaximum %v imported as maximum", n)
				add(vskema.RuleMax, map[string]any{"max": n})
			}
		}
		if n, ok := num("multipleOf"); ok {
			add(vskema.RuleMultipleOf, map[string]any{"value": n})
		}
	case vskema.KindArray:
		if n, ok := num("minItems"); ok {
			add(vskema.RuleMinItems, map[string]any{"min": n})
		}
		if n, ok := num("maxItems"); ok {
			add(vskema.RuleMaxItems, map[string]any{"max": n})
		}
		unique, _ := node["uniqueItems"].(bool)
		if lt, _ := node["x-kubernetes-list-type"].(string); unique || lt == "set" {
			add(vskema.RuleUnique, nil)
		}
	}
	if vs, ok := node["enum"].([]any); ok {
		add(vskema.RuleOneOf, map[string]any{"values": vs})
	}
	if c, ok := node["const"]; ok {
		add(vskema.RuleEquals, map[string]any{"value": c})
	}
	return out
}
