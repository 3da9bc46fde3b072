package conv

import (
	"io"
	"strings"

	js "github.com/invopop/jsonschema"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/wire"
)

// nullAware is implemented by converters that give JSON null a meaning.
type nullAware interface{ acceptsNull() bool }

func acceptsNull(c any) bool {
	n, ok := c.(nullAware)
	return ok && n.acceptsNull()
}

// Nullable accepts JSON null as a nil pointer in addition to what c accepts.
// An optional record field using it distinguishes absent from null.
func Nullable[T any](c stagehand.Converter[T]) stagehand.Converter[*T] {
	return nullable[T]{inner: c}
}

type nullable[T any] struct{ inner stagehand.Converter[T] }

func (nullable[T]) acceptsNull() bool { return true }

func (n nullable[T]) Coerce(s *stagehand.CoerceState, v wire.Value) (*T, error) {
	if wire.IsNull(v) {
		return nil, nil
	}
	x, err := n.inner.Coerce(s, v)
	if err != nil {
		return nil, err
	}
	return &x, nil
}

func (n nullable[T]) Dump(s *stagehand.DumpState, v *T) (wire.Value, error) {
	if v == nil {
		return wire.Null{}, nil
	}
	return n.inner.Dump(s, *v)
}

func (n nullable[T]) JSONSchema() *js.Schema {
	return &js.Schema{AnyOf: []*js.Schema{n.inner.JSONSchema(), {Type: "null"}}}
}

// Pointer adapts c to *T. Dumping a nil pointer is an invalid_type fault.
func Pointer[T any](c stagehand.Converter[T]) stagehand.Converter[*T] {
	return funcs[*T]{
		coerce: func(s *stagehand.CoerceState, v wire.Value) (*T, error) {
			x, err := c.Coerce(s, v)
			if err != nil {
				return nil, err
			}
			return &x, nil
		},
		dump: func(s *stagehand.DumpState, v *T) (wire.Value, error) {
			if v == nil {
				return nil, s.Fail(stagehand.CodeInvalidType, "nil pointer")
			}
			return c.Dump(s, *v)
		},
		schema: c.JSONSchema,
	}
}

// Transform maps a converter over A to one over B. Errors returned by in and
// out become invalid_type issues at the current path unless they already are
// Issues. A transformed Nullable converter still accepts null.
func Transform[A, B any](c stagehand.Converter[A], in func(A) (B, error), out func(B) (A, error)) stagehand.Converter[B] {
	f := funcs[B]{
		coerce: func(s *stagehand.CoerceState, v wire.Value) (B, error) {
			var zero B
			a, err := c.Coerce(s, v)
			if err != nil {
				return zero, err
			}
			b, err := in(a)
			if err != nil {
				return zero, asIssue(&s.Trail, err)
			}
			return b, nil
		},
		dump: func(s *stagehand.DumpState, v B) (wire.Value, error) {
			a, err := out(v)
			if err != nil {
				return nil, asIssue(&s.Trail, err)
			}
			return c.Dump(s, a)
		},
		schema: c.JSONSchema,
	}
	if acceptsNull(c) {
		return nullFuncs[B]{f}
	}
	return f
}

// nullFuncs keeps the null handling of a transformed Nullable converter.
type nullFuncs[T any] struct{ funcs[T] }

func (nullFuncs[T]) acceptsNull() bool { return true }

func asIssue(t *stagehand.Trail, err error) error {
	if _, ok := stagehand.AsIssues(err); ok {
		return err
	}
	it := t.Issue(stagehand.CodeInvalidType, err.Error())
	it.Cause = err
	return stagehand.Issues{it}
}

// Unreplayable marks every value dumped through c as unsafe to resend.
func Unreplayable[T any](c stagehand.Converter[T]) stagehand.Converter[T] {
	return funcs[T]{
		coerce: c.Coerce,
		dump: func(s *stagehand.DumpState, v T) (wire.Value, error) {
			s.MarkUnreplayable()
			return c.Dump(s, v)
		},
		schema: c.JSONSchema,
	}
}

// Reader converts stream bodies. Dump drains the reader into a JSON string,
// so the result can never be replayed from the same value.
func Reader() stagehand.Converter[io.Reader] {
	return funcs[io.Reader]{
		coerce: func(s *stagehand.CoerceState, v wire.Value) (io.Reader, error) {
			str, ok := v.(wire.String)
			if !ok {
				return nil, s.TypeMismatch("string", wire.KindOf(v).String())
			}
			return strings.NewReader(string(str)), nil
		},
		dump: func(s *stagehand.DumpState, r io.Reader) (wire.Value, error) {
			s.MarkUnreplayable()
			if r == nil {
				return wire.Null{}, nil
			}
			b, err := io.ReadAll(r)
			if err != nil {
				it := s.Issue(stagehand.CodeInvalidType, "read body: "+err.Error())
				it.Cause = err
				return nil, stagehand.Issues{it}
			}
			return wire.String(b), nil
		},
		schema: func() *js.Schema { return &js.Schema{Type: "string", ContentEncoding: "binary"} },
	}
}
