package dsl

import (
	"regexp"
	"strings"

	vskema "github.com/reoring/vskema"
)

// StringBuilder builds string fields.
type StringBuilder struct{ def vskema.FieldDefinition }

// String starts a string field.
func String() StringBuilder { return StringBuilder{def: vskema.FieldDefinition{Kind: vskema.KindString}} }

func (b StringBuilder) MinLength(n int, msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleMinLength, map[string]any{"min": n}, msg))}
}

func (b StringBuilder) MaxLength(n int, msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleMaxLength, map[string]any{"max": n}, msg))}
}

func (b StringBuilder) Length(n int, msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleLength, map[string]any{"length": n}, msg))}
}

// NonEmpty is MinLength(1). Prefer Required when "" should count as missing.
func (b StringBuilder) NonEmpty(msg ...string) StringBuilder { return b.MinLength(1, msg...) }

func (b StringBuilder) Email(msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleEmail, nil, msg))}
}

func (b StringBuilder) URL(msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleURL, nil, msg))}
}

func (b StringBuilder) UUID(msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleUUID, nil, msg))}
}

func (b StringBuilder) Phone(msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RulePhone, nil, msg))}
}

func (b StringBuilder) IP(msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleIP, nil, msg))}
}

func (b StringBuilder) IPv4(msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleIP, map[string]any{"version": 4}, msg))}
}

func (b StringBuilder) IPv6(msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleIP, map[string]any{"version": 6}, msg))}
}

func (b StringBuilder) Alphanumeric(msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleAlphanumeric, nil, msg))}
}

// Pattern requires a match of the RE2 expression expr.
func (b StringBuilder) Pattern(expr string, msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RulePattern, map[string]any{"pattern": expr}, msg))}
}

// Regex is Pattern for an already compiled expression.
func (b StringBuilder) Regex(re *regexp.Regexp, msg ...string) StringBuilder {
	return b.Pattern(re.String(), msg...)
}

func (b StringBuilder) StartsWith(prefix string, msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleStartsWith, map[string]any{"prefix": prefix}, msg))}
}

func (b StringBuilder) EndsWith(suffix string, msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleEndsWith, map[string]any{"suffix": suffix}, msg))}
}

func (b StringBuilder) Includes(sub string, msg ...string) StringBuilder {
	return StringBuilder{addRule(b.def, rule(vskema.RuleIncludes, map[string]any{"substring": sub}, msg))}
}

// Enum restricts the value to the given strings.
func (b StringBuilder) Enum(values ...string) StringBuilder {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return b.OneOf(vs...)
}

func (b StringBuilder) Trim() StringBuilder {
	return StringBuilder{addTransform(b.def, vskema.Transform{Name: vskema.TransformTrim})}
}

func (b StringBuilder) ToLower() StringBuilder {
	return StringBuilder{addTransform(b.def, vskema.Transform{Name: vskema.TransformLowercase})}
}

func (b StringBuilder) ToUpper() StringBuilder {
	return StringBuilder{addTransform(b.def, vskema.Transform{Name: vskema.TransformUppercase})}
}

// Normalize applies Unicode normalization; form defaults to NFC.
func (b StringBuilder) Normalize(form ...string) StringBuilder {
	t := vskema.Transform{Name: vskema.TransformNormalize}
	if len(form) > 0 {
		t.Params = map[string]any{"form": strings.ToUpper(form[0])}
	}
	return StringBuilder{addTransform(b.def, t)}
}

// Title title-cases words, optionally for a BCP 47 language.
func (b StringBuilder) Title(lang ...string) StringBuilder {
	t := vskema.Transform{Name: vskema.TransformTitle}
	if len(lang) > 0 {
		t.Params = map[string]any{"lang": lang[0]}
	}
	return StringBuilder{addTransform(b.def, t)}
}
