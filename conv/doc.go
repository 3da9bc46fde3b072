// Package conv provides the converter building blocks for stagehand.
//
// Overview
//   - Primitives: String/StringOf/Bool/Float/Int/Number/Decimal/Any/Literal.
//   - Composites: ListOf(elem), MapOf(elem) and EnumOf(values...).
//   - Records: RecordOf[T]().Field(Required(...)).Field(Optional(...)).MustBuild().
//   - Unions: Discriminated(field, Tagged(...)...) and FirstMatch(Variant(...)...).
//   - Wrappers: Nullable, Pointer, Transform, Reader and Unreplayable.
//
// Every converter is immutable once built. Faults are reported as
// stagehand.Issues whose Path is the dotted in-memory field path.
//
// File layout (roles)
//   - primitives.go: scalar converters.
//   - composite.go: ListOf/MapOf.
//   - enum.go: EnumOf and Literal.
//   - record.go: FieldSpec and the record builder.
//   - union.go: Discriminated and FirstMatch.
//   - wrap.go: Nullable/Pointer/Transform/Reader/Unreplayable.
package conv
