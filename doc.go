package vskema

// Package vskema provides:
//
// - A plain, serializable schema model (SchemaDefinition / FieldDefinition / ValidationRule)
// - A stable error model split into hard and soft errors (field path, code, message, severity)
// - Pure composition operators: Merge, Extend, Pick, Omit, Partial, DeepPartial, Required, Optional,
//   Passthrough, Strict, Catchall
// - JSON and YAML interchange with a round-trip guarantee for callback-free schemas
//
// Design policy:
// - Keep the data model in the root package; validators live in rules/, builders in dsl/,
//   the sync and async walks in engine/, and the CLI under cmd/vskema.
// - Schemas are values. Builders and operators hand out deep clones.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := dsl.Object().
//		Field("email", dsl.String().Email().Required()).
//		Field("age", dsl.Number().Min(18).MinSoft(21, "under 21")).
//		Schema()
//
//	res := engine.Validate(s, input)
//	env := vskema.ToEnvelope(res, input)
