package schemafile

import (
	"fmt"
	"strings"

	js "github.com/invopop/jsonschema"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/conv"
	"github.com/browserbase/stagehand-go/wire"
)

func expected(kind string, v wire.Value) error {
	return fmt.Errorf("expected %s, got %s", kind, wire.KindOf(v))
}

// scalar lifts a typed converter to wire.Value by checking the dynamic kind.
func scalar[A any](c stagehand.Converter[A], kind string, to func(A) wire.Value, from func(wire.Value) (A, bool)) stagehand.Converter[wire.Value] {
	return conv.Transform(c,
		func(a A) (wire.Value, error) { return to(a), nil },
		func(v wire.Value) (A, error) {
			a, ok := from(v)
			if !ok {
				return a, expected(kind, v)
			}
			return a, nil
		})
}

func stringValue() stagehand.Converter[wire.Value] {
	return scalar(conv.String(), "string",
		func(s string) wire.Value { return wire.String(s) },
		func(v wire.Value) (string, bool) { s, ok := v.(wire.String); return string(s), ok })
}

func boolValue() stagehand.Converter[wire.Value] {
	return scalar(conv.Bool(), "boolean",
		func(b bool) wire.Value { return wire.Bool(b) },
		func(v wire.Value) (bool, bool) { b, ok := v.(wire.Bool); return bool(b), ok })
}

func numberValue() stagehand.Converter[wire.Value] {
	return scalar(conv.Number(), "number",
		func(n wire.Number) wire.Value { return n },
		func(v wire.Value) (wire.Number, bool) { n, ok := v.(wire.Number); return n, ok })
}

func integerValue() stagehand.Converter[wire.Value] {
	return scalar(conv.Int(), "integer",
		func(i int64) wire.Value { return wire.Int(i) },
		func(v wire.Value) (int64, bool) {
			n, ok := v.(wire.Number)
			if !ok {
				return 0, false
			}
			d, err := n.Decimal()
			if err != nil || !d.IsInteger() || !d.BigInt().IsInt64() {
				return 0, false
			}
			return d.IntPart(), true
		})
}

func nullValue() stagehand.Converter[wire.Value] { return valueEnum{values: wire.List{wire.Null{}}} }

// nullableValue accepts null in addition to what c accepts.
func nullableValue(c stagehand.Converter[wire.Value]) stagehand.Converter[wire.Value] {
	return conv.Transform(conv.Nullable(c),
		func(p *wire.Value) (wire.Value, error) {
			if p == nil {
				return wire.Null{}, nil
			}
			return *p, nil
		},
		func(v wire.Value) (*wire.Value, error) {
			if wire.IsNull(v) {
				return nil, nil
			}
			return &v, nil
		})
}

// valueEnum restricts values to a fixed list of arbitrary JSON literals.
type valueEnum struct{ values wire.List }

func (e valueEnum) check(t *stagehand.Trail, v wire.Value) (wire.Value, error) {
	for _, allowed := range e.values {
		if wire.Equal(allowed, v) {
			return v, nil
		}
	}
	lits := make([]string, len(e.values))
	for i, x := range e.values {
		b, _ := wire.Marshal(x)
		lits[i] = string(b)
	}
	got, _ := wire.Marshal(v)
	it := t.Issue(stagehand.CodeInvalidEnum, fmt.Sprintf("value %s not in [%s]", got, strings.Join(lits, ", ")), "value", string(got), "allowed", lits)
	return nil, stagehand.Issues{it}
}

func (e valueEnum) Coerce(s *stagehand.CoerceState, v wire.Value) (wire.Value, error) {
	return e.check(&s.Trail, v)
}

func (e valueEnum) Dump(s *stagehand.DumpState, v wire.Value) (wire.Value, error) {
	return e.check(&s.Trail, v)
}

func (e valueEnum) JSONSchema() *js.Schema {
	out := &js.Schema{}
	for _, v := range e.values {
		out.Enum = append(out.Enum, v)
	}
	return out
}

// refConverter points at a $defs entry. Its target is bound once the entry
// has been built, which allows recursive descriptors.
type refConverter struct {
	name   string
	target stagehand.Converter[wire.Value]
}

func (r *refConverter) Coerce(s *stagehand.CoerceState, v wire.Value) (wire.Value, error) {
	return r.target.Coerce(s, v)
}

func (r *refConverter) Dump(s *stagehand.DumpState, v wire.Value) (wire.Value, error) {
	return r.target.Dump(s, v)
}

func (r *refConverter) JSONSchema() *js.Schema { return &js.Schema{Ref: "#/$defs/" + r.name} }

func defName(ref string) (string, error) {
	for _, p := range []string{"#/$defs/", "#/definitions/"} {
		if name, ok := strings.CutPrefix(ref, p); ok && name != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("$ref %q not supported (local $defs only)", ref)
}

func (im *importer) ref(ref, at string) (stagehand.Converter[wire.Value], error) {
	name, err := defName(ref)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %s: %w", at, err)
	}
	if _, ok := im.defs[name]; !ok {
		return nil, fmt.Errorf("schemafile: %s: $ref to unknown $defs/%s", at, name)
	}
	r, ok := im.refs[name]
	if !ok {
		r = &refConverter{name: name}
		im.refs[name] = r
	}
	return r, nil
}

// resolveRefs builds every referenced definition until no reference is left
// unbound. Building a definition may reference further definitions.
func (im *importer) resolveRefs() error {
	for {
		var pending *refConverter
		for _, r := range im.refs {
			if r.target == nil {
				pending = r
				break
			}
		}
		if pending == nil {
			return nil
		}
		c, err := im.build(im.defs[pending.name], "#/$defs/"+pending.name)
		if err != nil {
			return err
		}
		if c == stagehand.Converter[wire.Value](pending) {
			return fmt.Errorf("schemafile: $defs/%s refers to itself", pending.name)
		}
		pending.target = c
	}
}
