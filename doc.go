// Package stagehand is the conversion core of the Stagehand client.
//
// It provides:
//
// - Converter[T], a bidirectional translator between wire JSON (wire.Value) and typed Go values
// - Coerce (wire to typed) and Dump (typed to wire) entry points with call-scoped state
// - A stable error model via Issues (dotted field path, code, message)
// - A retry-eligible hint returned from Dump for request bodies that must not be replayed
//
// Converters live under conv/, streaming decoding under stream/ and sse/.
//
// Typical usage:
//
//	act := conv.RecordOf[Action]().
//		Field(conv.Required("description", func(a *Action) *string { return &a.Description }, conv.String())).
//		Field(conv.Optional("method", func(a *Action) **string { return &a.Method }, conv.String())).
//		MustBuild()
//	a, err := stagehand.CoerceJSON(ctx, act, body)
//	w, retryable, err := stagehand.Dump(ctx, act, a)
package stagehand
