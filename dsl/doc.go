// Package dsl provides fluent builders for vskema schemas.
//
// Overview
//   - Primitives: String(), Number(), Boolean(), Date().
//   - Containers: Array(item) and Object().Field(name, builder).
//   - Presence: Required/Optional/Nullable/Nullish/Default on every builder.
//   - Rules: kind-specific methods (Email, Min, MinItems, ...) plus Refine, Custom,
//     OneOf, Equals and CompareField everywhere. Soft() turns the last rule into a warning.
//   - Async: RefineAsync(fn, Debounce(ms), Timeout(ms)) and CustomAsync(name, params).
//
// Builders are persistent values. Each call returns a new builder over a
// deep-cloned definition, so a base chain can be reused:
//
//	base := dsl.String().Trim().MaxLength(64)
//	name := base.Required()      // base is unchanged
//	nick := base.Optional().Soft()
//
// Example (quickstart)
//
//	s := dsl.Object().
//		Field("email", dsl.String().Email().Required()).
//		Field("age", dsl.Number().Min(18).MinSoft(21, "under 21")).
//		Field("tags", dsl.Array(dsl.String().MinLength(2)).MaxItems(5).Unique()).
//		Strict().
//		Schema()
package dsl
