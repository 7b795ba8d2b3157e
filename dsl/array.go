package dsl

import (
	vskema "github.com/reoring/vskema"
)

// ArrayBuilder builds array fields. Item rules run per element at
// field[i]; the rules below run once on the whole array.
type ArrayBuilder struct{ def vskema.FieldDefinition }

// Array starts an array field whose elements follow item. A nil item
// accepts any elements.
func Array(item Builder) ArrayBuilder {
	def := vskema.FieldDefinition{Kind: vskema.KindArray}
	if item != nil {
		it := item.Build()
		def.Item = &it
	}
	return ArrayBuilder{def: def}
}

func (b ArrayBuilder) MinItems(n int, msg ...string) ArrayBuilder {
	return ArrayBuilder{addRule(b.def, rule(vskema.RuleMinItems, map[string]any{"min": n}, msg))}
}

func (b ArrayBuilder) MaxItems(n int, msg ...string) ArrayBuilder {
	return ArrayBuilder{addRule(b.def, rule(vskema.RuleMaxItems, map[string]any{"max": n}, msg))}
}

// NonEmpty is MinItems(1).
func (b ArrayBuilder) NonEmpty(msg ...string) ArrayBuilder { return b.MinItems(1, msg...) }

func (b ArrayBuilder) Unique(msg ...string) ArrayBuilder {
	return ArrayBuilder{addRule(b.def, rule(vskema.RuleUnique, nil, msg))}
}

// UniqueBy requires distinct values at key (a relative path such as "sku").
func (b ArrayBuilder) UniqueBy(key string, msg ...string) ArrayBuilder {
	return ArrayBuilder{addRule(b.def, rule(vskema.RuleUniqueBy, map[string]any{"key": key}, msg))}
}
