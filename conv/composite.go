package conv

import (
	js "github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/wire"
)

// ListOf converts JSON arrays element-wise through elem, preserving order.
// The first element fault aborts the conversion.
func ListOf[T any](elem stagehand.Converter[T]) stagehand.Converter[[]T] {
	return listConverter[T]{elem: elem}
}

type listConverter[T any] struct{ elem stagehand.Converter[T] }

func (l listConverter[T]) Coerce(s *stagehand.CoerceState, v wire.Value) ([]T, error) {
	list, ok := v.(wire.List)
	if !ok {
		return nil, s.TypeMismatch("array", wire.KindOf(v).String())
	}
	out := make([]T, 0, len(list))
	for i, el := range list {
		s.PushIndex(i)
		x, err := l.elem.Coerce(s, el)
		s.Pop()
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func (l listConverter[T]) Dump(s *stagehand.DumpState, v []T) (wire.Value, error) {
	out := make(wire.List, 0, len(v))
	for i, el := range v {
		s.PushIndex(i)
		w, err := l.elem.Dump(s, el)
		s.Pop()
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func (l listConverter[T]) JSONSchema() *js.Schema {
	return &js.Schema{Type: "array", Items: l.elem.JSONSchema()}
}

// MapOf converts JSON objects with homogeneous values. Keys keep the order of
// the source document on coerce and insertion order on dump.
func MapOf[T any](elem stagehand.Converter[T]) stagehand.Converter[*orderedmap.OrderedMap[string, T]] {
	return mapConverter[T]{elem: elem}
}

type mapConverter[T any] struct{ elem stagehand.Converter[T] }

func (m mapConverter[T]) Coerce(s *stagehand.CoerceState, v wire.Value) (*orderedmap.OrderedMap[string, T], error) {
	obj, ok := v.(*wire.Object)
	if !ok {
		return nil, s.TypeMismatch("object", wire.KindOf(v).String())
	}
	out := orderedmap.New[string, T]()
	for k, el := range obj.All() {
		s.PushKey(k)
		x, err := m.elem.Coerce(s, el)
		s.Pop()
		if err != nil {
			return nil, err
		}
		out.Set(k, x)
	}
	return out, nil
}

func (m mapConverter[T]) Dump(s *stagehand.DumpState, v *orderedmap.OrderedMap[string, T]) (wire.Value, error) {
	out := wire.NewObject()
	if v == nil {
		return out, nil
	}
	for p := v.Oldest(); p != nil; p = p.Next() {
		s.PushKey(p.Key)
		w, err := m.elem.Dump(s, p.Value)
		s.Pop()
		if err != nil {
			return nil, err
		}
		out.Set(p.Key, w)
	}
	return out, nil
}

func (m mapConverter[T]) JSONSchema() *js.Schema {
	return &js.Schema{Type: "object", AdditionalProperties: m.elem.JSONSchema()}
}
