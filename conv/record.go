package conv

import (
	"errors"
	"fmt"

	js "github.com/invopop/jsonschema"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/wire"
)

// FieldSpec describes one field of a record type T.
type FieldSpec[T any] struct {
	name     string
	wireName string
	required bool
	nullable bool
	coerce   func(s *stagehand.CoerceState, dst *T, v wire.Value) error
	// dump reports ok=false when an optional field holds no value.
	dump   func(s *stagehand.DumpState, src *T) (w wire.Value, ok bool, err error)
	schema func() *js.Schema
}

// Wire sets the JSON key of the field when it differs from its name.
func (f *FieldSpec[T]) Wire(name string) *FieldSpec[T] {
	f.wireName = name
	return f
}

// Name returns the in-memory field name.
func (f *FieldSpec[T]) Name() string { return f.name }

// WireName returns the JSON key of the field.
func (f *FieldSpec[T]) WireName() string { return f.wireName }

// IsRequired reports whether the field must be present on coerce.
func (f *FieldSpec[T]) IsRequired() bool { return f.required }

// Required declares a field that must be present. get returns the address of
// the field inside the record.
func Required[T, F any](name string, get func(*T) *F, c stagehand.Converter[F]) *FieldSpec[T] {
	return &FieldSpec[T]{
		name:     name,
		wireName: name,
		required: true,
		nullable: acceptsNull(c),
		coerce: func(s *stagehand.CoerceState, dst *T, v wire.Value) error {
			x, err := c.Coerce(s, v)
			if err != nil {
				return err
			}
			*get(dst) = x
			return nil
		},
		dump: func(s *stagehand.DumpState, src *T) (wire.Value, bool, error) {
			w, err := c.Dump(s, *get(src))
			return w, err == nil, err
		},
		schema: c.JSONSchema,
	}
}

// Optional declares a field that may be absent. The record holds it as a
// pointer; nil means absent and is never emitted on dump.
func Optional[T, F any](name string, get func(*T) **F, c stagehand.Converter[F]) *FieldSpec[T] {
	return &FieldSpec[T]{
		name:     name,
		wireName: name,
		nullable: acceptsNull(c),
		coerce: func(s *stagehand.CoerceState, dst *T, v wire.Value) error {
			x, err := c.Coerce(s, v)
			if err != nil {
				return err
			}
			*get(dst) = &x
			return nil
		},
		dump: func(s *stagehand.DumpState, src *T) (wire.Value, bool, error) {
			p := *get(src)
			if p == nil {
				return nil, false, nil
			}
			w, err := c.Dump(s, *p)
			return w, err == nil, err
		},
		schema: c.JSONSchema,
	}
}

// FieldFunc declares a field through accessor closures. get reports whether
// the record holds a value; a required field without one fails to dump.
func FieldFunc[T, F any](name string, required bool, c stagehand.Converter[F], set func(*T, F), get func(*T) (F, bool)) *FieldSpec[T] {
	return &FieldSpec[T]{
		name:     name,
		wireName: name,
		required: required,
		nullable: acceptsNull(c),
		coerce: func(s *stagehand.CoerceState, dst *T, v wire.Value) error {
			x, err := c.Coerce(s, v)
			if err != nil {
				return err
			}
			set(dst, x)
			return nil
		},
		dump: func(s *stagehand.DumpState, src *T) (wire.Value, bool, error) {
			x, ok := get(src)
			if !ok {
				if required {
					return nil, false, s.Fail(stagehand.CodeRequired, "", "field", name)
				}
				return nil, false, nil
			}
			w, err := c.Dump(s, x)
			return w, err == nil, err
		},
		schema: c.JSONSchema,
	}
}

// RecordBuilder collects the fields of a record converter.
type RecordBuilder[T any] struct {
	fields []*FieldSpec[T]
	err    error
}

// RecordOf starts a record converter for T.
func RecordOf[T any]() *RecordBuilder[T] { return &RecordBuilder[T]{} }

// Field appends a field. Declaration order is the dump order.
func (b *RecordBuilder[T]) Field(f *FieldSpec[T]) *RecordBuilder[T] {
	if f == nil {
		b.err = errors.Join(b.err, errors.New("conv: nil field"))
		return b
	}
	b.fields = append(b.fields, f)
	return b
}

// Build validates the field list and returns the record converter.
func (b *RecordBuilder[T]) Build() (*Record[T], error) {
	if b.err != nil {
		return nil, b.err
	}
	names := make(map[string]struct{}, len(b.fields))
	wires := make(map[string]struct{}, len(b.fields))
	for _, f := range b.fields {
		if f.name == "" || f.wireName == "" {
			return nil, errors.New("conv: field name must not be empty")
		}
		if _, dup := names[f.name]; dup {
			return nil, fmt.Errorf("conv: duplicate field %q", f.name)
		}
		if _, dup := wires[f.wireName]; dup {
			return nil, fmt.Errorf("conv: duplicate wire name %q", f.wireName)
		}
		names[f.name] = struct{}{}
		wires[f.wireName] = struct{}{}
	}
	return &Record[T]{fields: append([]*FieldSpec[T](nil), b.fields...)}, nil
}

// MustBuild is like Build but panics on error.
func (b *RecordBuilder[T]) MustBuild() *Record[T] {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}

// Record converts JSON objects to T through an explicit field list. Unknown
// wire keys are ignored.
type Record[T any] struct {
	fields []*FieldSpec[T]
}

// Fields returns the declared fields in order.
func (r *Record[T]) Fields() []*FieldSpec[T] { return append([]*FieldSpec[T](nil), r.fields...) }

func (r *Record[T]) Coerce(s *stagehand.CoerceState, v wire.Value) (T, error) {
	var out T
	obj, ok := v.(*wire.Object)
	if !ok {
		return out, s.TypeMismatch("object", wire.KindOf(v).String())
	}
	for _, f := range r.fields {
		w, present := obj.Get(f.wireName)
		if present && wire.IsNull(w) && !f.required && !f.nullable {
			present = false
		}
		s.PushField(f.name)
		if !present {
			if f.required {
				it := s.Issue(stagehand.CodeRequired, "", "field", f.name)
				s.Pop()
				return out, stagehand.Issues{it}
			}
			s.Pop()
			continue
		}
		err := f.coerce(s, &out, w)
		s.Pop()
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func (r *Record[T]) Dump(s *stagehand.DumpState, v T) (wire.Value, error) {
	out := wire.NewObject()
	for _, f := range r.fields {
		s.PushField(f.name)
		w, ok, err := f.dump(s, &v)
		s.Pop()
		if err != nil {
			return nil, err
		}
		if ok {
			out.Set(f.wireName, w)
		}
	}
	return out, nil
}

func (r *Record[T]) JSONSchema() *js.Schema {
	out := &js.Schema{Type: "object", Properties: js.NewProperties()}
	for _, f := range r.fields {
		out.Properties.Set(f.wireName, f.schema())
		if f.required {
			out.Required = append(out.Required, f.wireName)
		}
	}
	return out
}
