package conv

import (
	"errors"
	"fmt"
	"strings"

	js "github.com/invopop/jsonschema"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/wire"
)

// errTypeMismatch marks a case whose Go type does not match the value being
// dumped.
var errTypeMismatch = errors.New("conv: variant type mismatch")

// Case is one variant of a union over T.
type Case[T any] struct {
	tag    string
	coerce func(*stagehand.CoerceState, wire.Value) (T, error)
	dump   func(*stagehand.DumpState, T) (wire.Value, error)
	schema func() *js.Schema
}

// Tagged declares a variant of a discriminated union selected by tag.
func Tagged[T, V any](tag string, c stagehand.Converter[V]) Case[T] {
	cs := Variant[T](c)
	cs.tag = tag
	return cs
}

// Variant declares a variant of a first-match union. V must be assignable
// to T.
func Variant[T, V any](c stagehand.Converter[V]) Case[T] {
	var zero V
	if z := any(zero); z != nil {
		if _, ok := z.(T); !ok {
			panic(fmt.Sprintf("conv: variant type %T is not assignable to the union type", zero))
		}
	}
	return Case[T]{
		coerce: func(s *stagehand.CoerceState, v wire.Value) (T, error) {
			var out T
			x, err := c.Coerce(s, v)
			if err != nil {
				return out, err
			}
			out, _ = any(x).(T)
			return out, nil
		},
		dump: func(s *stagehand.DumpState, v T) (wire.Value, error) {
			x, ok := any(v).(V)
			if !ok {
				return nil, errTypeMismatch
			}
			return c.Dump(s, x)
		},
		schema: c.JSONSchema,
	}
}

// Discriminated builds a union resolved by the string value of field.
// Missing or unknown discriminator values are schema_mismatch faults.
func Discriminated[T any](field string, cases ...Case[T]) stagehand.Converter[T] {
	u := &discriminated[T]{field: field, cases: cases, byTag: make(map[string]int, len(cases))}
	for i, c := range cases {
		if c.tag == "" {
			panic("conv: Discriminated requires Tagged cases")
		}
		if _, dup := u.byTag[c.tag]; dup {
			panic("conv: duplicate discriminator value " + c.tag)
		}
		u.byTag[c.tag] = i
	}
	return u
}

type discriminated[T any] struct {
	field string
	cases []Case[T]
	byTag map[string]int
}

func (u *discriminated[T]) Coerce(s *stagehand.CoerceState, v wire.Value) (T, error) {
	var zero T
	obj, ok := v.(*wire.Object)
	if !ok {
		return zero, s.TypeMismatch("object", wire.KindOf(v).String())
	}
	raw, _ := obj.Get(u.field)
	tag, _ := raw.(wire.String)
	if tag == "" {
		s.PushField(u.field)
		it := s.Issue(stagehand.CodeSchemaMismatch, "", "field", u.field)
		s.Pop()
		it.Hint = "discriminator missing"
		return zero, stagehand.Issues{it}
	}
	i, ok := u.byTag[string(tag)]
	if !ok {
		s.PushField(u.field)
		it := s.Issue(stagehand.CodeSchemaMismatch, "", "value", string(tag), "allowed", u.tags())
		s.Pop()
		it.Hint = "unknown variant: '" + string(tag) + "'"
		return zero, stagehand.Issues{it}
	}
	out, err := u.cases[i].coerce(s, v)
	if err != nil {
		return zero, err
	}
	// Dynamic cases may drop the discriminator; keep it so Dump can route.
	if o, ok := any(out).(*wire.Object); ok {
		if _, present := o.Get(u.field); !present {
			if tagged, ok := any(withLeadingKey(o, u.field, tag)).(T); ok {
				out = tagged
			}
		}
	}
	return out, nil
}

func (u *discriminated[T]) Dump(s *stagehand.DumpState, v T) (wire.Value, error) {
	cases := u.cases
	if o, ok := any(v).(*wire.Object); ok {
		raw, _ := o.Get(u.field)
		if tag, ok := raw.(wire.String); ok {
			if i, known := u.byTag[string(tag)]; known {
				cases = u.cases[i : i+1]
			}
		}
	}
	var lastErr error
	for _, c := range cases {
		scratch := s.Fork()
		w, err := c.dump(scratch, v)
		if errors.Is(err, errTypeMismatch) {
			continue
		}
		if err != nil {
			lastErr = err
			continue
		}
		obj, ok := w.(*wire.Object)
		if !ok {
			lastErr = s.TypeMismatch("object", wire.KindOf(w).String())
			continue
		}
		if got, present := obj.Get(u.field); present {
			if got != wire.String(c.tag) {
				continue
			}
		} else {
			obj = withLeadingKey(obj, u.field, wire.String(c.tag))
		}
		s.Join(scratch)
		return obj, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, s.Fail(stagehand.CodeSchemaMismatch, fmt.Sprintf("no variant accepts %T", v))
}

func (u *discriminated[T]) tags() []string {
	out := make([]string, len(u.cases))
	for i, c := range u.cases {
		out[i] = c.tag
	}
	return out
}

func (u *discriminated[T]) JSONSchema() *js.Schema {
	out := &js.Schema{}
	for _, c := range u.cases {
		vs := c.schema()
		if vs.Properties != nil {
			vs.Properties.Set(u.field, &js.Schema{Type: "string", Const: c.tag})
			if !containsString(vs.Required, u.field) {
				vs.Required = append(vs.Required, u.field)
			}
		}
		out.OneOf = append(out.OneOf, vs)
	}
	return out
}

// FirstMatch builds a union that tries cases in declared order. The first
// case that coerces without fault wins, so a looser case shadows the narrower
// ones declared after it.
func FirstMatch[T any](cases ...Case[T]) stagehand.Converter[T] {
	return &firstMatch[T]{cases: cases}
}

type firstMatch[T any] struct {
	cases []Case[T]
}

func (u *firstMatch[T]) Coerce(s *stagehand.CoerceState, v wire.Value) (T, error) {
	var zero T
	var tried stagehand.Issues
	for _, c := range u.cases {
		out, err := c.coerce(s.Fork(), v)
		if err == nil {
			return out, nil
		}
		iss, ok := stagehand.AsIssues(err)
		if !ok {
			return zero, err
		}
		tried = append(tried, iss...)
	}
	it := s.Issue(stagehand.CodeSchemaMismatch, "", "variants", len(u.cases))
	it.Cause = tried
	it.Hint = summarize(tried)
	return zero, stagehand.Issues{it}
}

func (u *firstMatch[T]) Dump(s *stagehand.DumpState, v T) (wire.Value, error) {
	var lastErr error
	for _, c := range u.cases {
		scratch := s.Fork()
		w, err := c.dump(scratch, v)
		if errors.Is(err, errTypeMismatch) {
			continue
		}
		if err != nil {
			lastErr = err
			continue
		}
		s.Join(scratch)
		return w, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, s.Fail(stagehand.CodeSchemaMismatch, fmt.Sprintf("no variant accepts %T", v))
}

func (u *firstMatch[T]) JSONSchema() *js.Schema {
	out := &js.Schema{}
	for _, c := range u.cases {
		out.AnyOf = append(out.AnyOf, c.schema())
	}
	return out
}

func withLeadingKey(obj *wire.Object, key string, v wire.Value) *wire.Object {
	out := wire.NewObject().Set(key, v)
	for k, el := range obj.All() {
		out.Set(k, el)
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func summarize(iss stagehand.Issues) string {
	parts := make([]string, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		if p == "" {
			p = "<root>"
		}
		parts = append(parts, it.Code+" at "+p)
	}
	return strings.Join(parts, "; ")
}
