package conv

import (
	"fmt"
	"strings"

	js "github.com/invopop/jsonschema"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/wire"
)

// EnumOf converts JSON strings restricted to values. The literal set is
// captured here and never re-derived.
func EnumOf[T ~string](values ...T) stagehand.Converter[T] {
	e := enumConverter[T]{
		values: append([]T(nil), values...),
		set:    make(map[T]struct{}, len(values)),
	}
	for _, v := range values {
		e.set[v] = struct{}{}
	}
	return e
}

// Literal converts exactly the string lit.
func Literal(lit string) stagehand.Converter[string] { return EnumOf(lit) }

type enumConverter[T ~string] struct {
	values []T
	set    map[T]struct{}
}

func (e enumConverter[T]) Coerce(s *stagehand.CoerceState, v wire.Value) (T, error) {
	str, ok := v.(wire.String)
	if !ok {
		return "", s.TypeMismatch("string", wire.KindOf(v).String())
	}
	return e.check(&s.Trail, T(str))
}

func (e enumConverter[T]) Dump(s *stagehand.DumpState, v T) (wire.Value, error) {
	if _, err := e.check(&s.Trail, v); err != nil {
		return nil, err
	}
	return wire.String(v), nil
}

func (e enumConverter[T]) check(t *stagehand.Trail, v T) (T, error) {
	if _, ok := e.set[v]; ok {
		return v, nil
	}
	allowed := e.allowed()
	msg := fmt.Sprintf("value %q not in [%s]", string(v), strings.Join(allowed, ", "))
	it := t.Issue(stagehand.CodeInvalidEnum, msg, "value", string(v), "allowed", allowed)
	it.Hint = "allowed: " + strings.Join(allowed, ", ")
	return "", stagehand.Issues{it}
}

func (e enumConverter[T]) allowed() []string {
	out := make([]string, len(e.values))
	for i, v := range e.values {
		out[i] = string(v)
	}
	return out
}

func (e enumConverter[T]) JSONSchema() *js.Schema {
	out := &js.Schema{Type: "string"}
	for _, v := range e.values {
		out.Enum = append(out.Enum, string(v))
	}
	if len(e.values) == 1 {
		out.Const = string(e.values[0])
	}
	return out
}
