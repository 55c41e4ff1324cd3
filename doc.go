// Package gospec provides schema-driven processing of loosely typed entities:
//
// - Coerce raw values to declared types, Validate values against declared constraints,
// Conform (coerce then validate), and Present (project for display)
// - Errors as values: failures become *FieldError placed at the failing field or
// element, so a result has the same shape as its input
// - Nested schemas, sequences and sets of schemas, and one-of unions, to any depth
// - Entity-level specs (the "*" group) for derived fields and cross-field rules
// - MergeSchemas to compose schema fragments
//
// Design policy:
// - Keep only public APIs in the root package; supporting packages live under rules/,
// source/, schemadoc/ and i18n/, and the CLI under cmd/gospec.
// - Schemas are immutable configuration and safe to share between goroutines.
// - A malformed schema is a programming error: NewSchema/Check report it, and
// processing panics with *ConfigError.
//
// Typical usage:
//
//	point := gospec.MustSchema(map[string]gospec.Spec{
//		"x": {Type: gospec.TypeInt},
//		"y": {Type: gospec.TypeInt},
//	})
//	out := gospec.Conform(point, gospec.Entity{"x": "1", "y": "bad"})
//	if gospec.HasError(out) {
//		fmt.Println(gospec.MessageSeq(out)) // [y can't coerce "bad" to integer]
//	}
package gospec
