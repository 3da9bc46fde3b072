package stagehand

import (
	"context"
	"errors"

	"github.com/invopop/jsonschema"

	"github.com/browserbase/stagehand-go/wire"
)

// Converter translates between wire values and T.
//
// Implementations are immutable after construction and safe for concurrent
// use; all per-call state lives in the CoerceState/DumpState arguments.
type Converter[T any] interface {
	// Coerce converts a wire value into T, reporting faults as Issues at
	// the state's current path.
	Coerce(s *CoerceState, v wire.Value) (T, error)
	// Dump converts T into a wire value.
	Dump(s *DumpState, v T) (wire.Value, error)
	// JSONSchema describes the accepted wire shape.
	JSONSchema() *jsonschema.Schema
}

// Coerce converts v into T using c. A nil ctx is treated as
// context.Background.
func Coerce[T any](ctx context.Context, c Converter[T], v wire.Value) (T, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	return c.Coerce(NewCoerceState(ctx), v)
}

// CoerceJSON decodes data as JSON and converts it into T using c.
func CoerceJSON[T any](ctx context.Context, c Converter[T], data []byte, opts ...wire.DecodeOpt) (T, error) {
	var zero T
	v, err := ParseJSON(data, opts...)
	if err != nil {
		return zero, err
	}
	return Coerce(ctx, c, v)
}

// Dump converts v into a wire value using c. The boolean reports whether the
// result is safe to resend automatically.
func Dump[T any](ctx context.Context, c Converter[T], v T) (wire.Value, bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s := NewDumpState(ctx)
	out, err := c.Dump(s, v)
	if err != nil {
		return nil, false, err
	}
	return out, s.RetryEligible(), nil
}

// DumpJSON is Dump followed by JSON encoding.
func DumpJSON[T any](ctx context.Context, c Converter[T], v T) ([]byte, bool, error) {
	out, retry, err := Dump(ctx, c, v)
	if err != nil {
		return nil, false, err
	}
	b, err := wire.Marshal(out)
	if err != nil {
		return nil, false, err
	}
	return b, retry, nil
}

// ParseJSON decodes data into a wire value. Malformed input is reported as
// Issues with code parse_error or duplicate_key.
func ParseJSON(data []byte, opts ...wire.DecodeOpt) (wire.Value, error) {
	v, err := wire.DecodeBytes(data, opts...)
	if err != nil {
		return nil, toIssues(err)
	}
	return v, nil
}

func toIssues(err error) Issues {
	var de *wire.DecodeError
	if errors.As(err, &de) {
		return Issues{{Path: de.Path, Code: de.Code, Message: de.Err.Error(), Cause: err}}
	}
	return Issues{{Code: CodeParseError, Message: err.Error(), Cause: err}}
}
