package schemafile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/conv"
	"github.com/browserbase/stagehand-go/wire"
)

// Import builds a converter from a decoded descriptor document.
func Import(doc wire.Value, opts Options) (stagehand.Converter[wire.Value], Diag, error) {
	d := &simpleDiag{}
	root, ok := doc.(*wire.Object)
	if !ok {
		return nil, d, errors.New("schemafile: document root must be an object")
	}
	im := &importer{d: d, opts: opts, defs: map[string]*wire.Object{}, refs: map[string]*refConverter{}}
	if err := im.collectDefs(root); err != nil {
		return nil, d, err
	}
	target, at := root, "#"
	if opts.Root != "" {
		def, ok := im.defs[opts.Root]
		if !ok {
			return nil, d, fmt.Errorf("schemafile: $defs/%s not found", opts.Root)
		}
		target, at = def, "#/$defs/"+opts.Root
	}
	c, err := im.build(target, at)
	if err != nil {
		return nil, d, err
	}
	if err := im.resolveRefs(); err != nil {
		return nil, d, err
	}
	return c, d, nil
}

type importer struct {
	d    *simpleDiag
	opts Options
	defs map[string]*wire.Object
	refs map[string]*refConverter
}

// keywords the builder understands or deliberately ignores.
var knownKeywords = map[string]bool{
	"type": true, "properties": true, "required": true, "additionalProperties": true,
	"items": true, "enum": true, "const": true, "nullable": true, "oneOf": true,
	"anyOf": true, "discriminator": true, "x-wire-name": true, "$ref": true,
	"$defs": true, "definitions": true, "$schema": true, "$id": true,
	"title": true, "description": true, "default": true, "examples": true, "format": true,
}

func (im *importer) collectDefs(root *wire.Object) error {
	for _, key := range []string{"$defs", "definitions"} {
		raw, ok := root.Get(key)
		if !ok {
			continue
		}
		defs, ok := raw.(*wire.Object)
		if !ok {
			return fmt.Errorf("schemafile: %s must be an object", key)
		}
		for name, v := range defs.All() {
			s, ok := v.(*wire.Object)
			if !ok {
				return fmt.Errorf("schemafile: %s/%s must be an object", key, name)
			}
			im.defs[name] = s
		}
	}
	return nil
}

func (im *importer) warnf(at, f string, a ...any) error {
	msg := at + ": " + fmt.Sprintf(f, a...)
	if im.opts.StrictKeywords {
		return errors.New("schemafile: " + msg)
	}
	im.d.warnf("%s", msg)
	return nil
}

func (im *importer) build(s *wire.Object, at string) (stagehand.Converter[wire.Value], error) {
	for k := range s.All() {
		if !knownKeywords[k] && !strings.HasPrefix(k, "x-") {
			if err := im.warnf(at, "keyword %q ignored", k); err != nil {
				return nil, err
			}
		}
	}
	if raw, ok := s.Get("$ref"); ok {
		ref, _ := raw.(wire.String)
		return im.ref(string(ref), at)
	}

	types, err := typeList(s, at)
	if err != nil {
		return nil, err
	}
	nullable := boolKeyword(s, "nullable")
	var base []string
	for _, t := range types {
		if t == "null" {
			nullable = true
			continue
		}
		base = append(base, t)
	}

	var c stagehand.Converter[wire.Value]
	switch {
	case s.Has("oneOf") || s.Has("anyOf"):
		c, err = im.union(s, at)
	case s.Has("enum") || s.Has("const"):
		c, err = im.enum(s, at)
	case len(base) > 1:
		err = im.warnf(at, "multiple types %v resolved first-match", base)
		if err == nil {
			cases := make([]conv.Case[wire.Value], 0, len(base))
			for _, t := range base {
				tc, terr := im.typed(t, s, at)
				if terr != nil {
					return nil, terr
				}
				cases = append(cases, conv.Variant[wire.Value](tc))
			}
			c = conv.FirstMatch(cases...)
		}
	case len(base) == 1:
		c, err = im.typed(base[0], s, at)
	case s.Has("properties") || s.Has("additionalProperties"):
		c, err = im.typed("object", s, at)
	case s.Has("items"):
		c, err = im.typed("array", s, at)
	case len(types) == 1:
		// only "null"
		return nullValue(), nil
	default:
		c = conv.Any()
	}
	if err != nil {
		return nil, err
	}
	if nullable {
		c = nullableValue(c)
	}
	return c, nil
}

func typeList(s *wire.Object, at string) ([]string, error) {
	raw, ok := s.Get("type")
	if !ok {
		return nil, nil
	}
	switch t := raw.(type) {
	case wire.String:
		return []string{string(t)}, nil
	case wire.List:
		out := make([]string, 0, len(t))
		for _, el := range t {
			str, ok := el.(wire.String)
			if !ok {
				return nil, fmt.Errorf("schemafile: %s: type entries must be strings", at)
			}
			out = append(out, string(str))
		}
		return out, nil
	}
	return nil, fmt.Errorf("schemafile: %s: type must be a string or a list", at)
}

func boolKeyword(s *wire.Object, key string) bool {
	raw, _ := s.Get(key)
	b, _ := raw.(wire.Bool)
	return bool(b)
}

func (im *importer) typed(t string, s *wire.Object, at string) (stagehand.Converter[wire.Value], error) {
	switch t {
	case "string":
		return stringValue(), nil
	case "boolean":
		return boolValue(), nil
	case "number":
		return numberValue(), nil
	case "integer":
		return integerValue(), nil
	case "array":
		return im.array(s, at)
	case "object":
		return im.object(s, at)
	}
	return nil, fmt.Errorf("schemafile: %s: unknown type %q", at, t)
}

func (im *importer) array(s *wire.Object, at string) (stagehand.Converter[wire.Value], error) {
	elem := conv.Any()
	if raw, ok := s.Get("items"); ok {
		items, ok := raw.(*wire.Object)
		if !ok {
			return nil, fmt.Errorf("schemafile: %s/items must be a single schema", at)
		}
		c, err := im.build(items, at+"/items")
		if err != nil {
			return nil, err
		}
		elem = c
	}
	return conv.Transform(conv.ListOf(elem),
		func(xs []wire.Value) (wire.Value, error) { return wire.List(xs), nil },
		func(v wire.Value) ([]wire.Value, error) {
			l, ok := v.(wire.List)
			if !ok {
				return nil, expected("array", v)
			}
			return l, nil
		}), nil
}

// objectValue is the in-memory form of a described object: an ordered wire
// object keyed by property names.
type objectValue struct{ obj *wire.Object }

func (im *importer) object(s *wire.Object, at string) (stagehand.Converter[wire.Value], error) {
	raw, hasProps := s.Get("properties")
	if !hasProps {
		return im.mapOf(s, at)
	}
	props, ok := raw.(*wire.Object)
	if !ok {
		return nil, fmt.Errorf("schemafile: %s/properties must be an object", at)
	}
	if ap, ok := s.Get("additionalProperties"); ok && ap != wire.Bool(false) {
		if err := im.warnf(at, "additionalProperties ignored next to properties"); err != nil {
			return nil, err
		}
	}
	required, err := requiredSet(s, at)
	if err != nil {
		return nil, err
	}

	rb := conv.RecordOf[objectValue]()
	for name, pv := range props.All() {
		ps, ok := pv.(*wire.Object)
		if !ok {
			return nil, fmt.Errorf("schemafile: %s/properties/%s must be an object", at, name)
		}
		c, err := im.build(ps, at+"/properties/"+name)
		if err != nil {
			return nil, err
		}
		f := conv.FieldFunc(name, required[name], c,
			func(o *objectValue, v wire.Value) {
				if o.obj == nil {
					o.obj = wire.NewObject()
				}
				o.obj.Set(name, v)
			},
			func(o *objectValue) (wire.Value, bool) { return o.obj.Get(name) })
		if wn, ok := ps.Get("x-wire-name"); ok {
			str, ok := wn.(wire.String)
			if !ok || str == "" {
				return nil, fmt.Errorf("schemafile: %s/properties/%s: x-wire-name must be a non-empty string", at, name)
			}
			f.Wire(string(str))
		}
		delete(required, name)
		rb.Field(f)
	}
	for name := range required {
		if err := im.warnf(at, "required property %q is not declared", name); err != nil {
			return nil, err
		}
	}
	rec, err := rb.Build()
	if err != nil {
		return nil, fmt.Errorf("schemafile: %s: %w", at, err)
	}
	return conv.Transform[objectValue, wire.Value](rec,
		func(o objectValue) (wire.Value, error) {
			if o.obj == nil {
				return wire.NewObject(), nil
			}
			return o.obj, nil
		},
		func(v wire.Value) (objectValue, error) {
			obj, ok := v.(*wire.Object)
			if !ok {
				return objectValue{}, expected("object", v)
			}
			return objectValue{obj: obj}, nil
		}), nil
}

func requiredSet(s *wire.Object, at string) (map[string]bool, error) {
	out := map[string]bool{}
	raw, ok := s.Get("required")
	if !ok {
		return out, nil
	}
	list, ok := raw.(wire.List)
	if !ok {
		return nil, fmt.Errorf("schemafile: %s/required must be a list", at)
	}
	for _, el := range list {
		str, ok := el.(wire.String)
		if !ok {
			return nil, fmt.Errorf("schemafile: %s/required entries must be strings", at)
		}
		out[string(str)] = true
	}
	return out, nil
}

func (im *importer) mapOf(s *wire.Object, at string) (stagehand.Converter[wire.Value], error) {
	elem := conv.Any()
	if raw, ok := s.Get("additionalProperties"); ok {
		switch ap := raw.(type) {
		case *wire.Object:
			c, err := im.build(ap, at+"/additionalProperties")
			if err != nil {
				return nil, err
			}
			elem = c
		case wire.Bool:
			if !ap {
				if err := im.warnf(at, "additionalProperties: false without properties accepts only {}"); err != nil {
					return nil, err
				}
			}
		}
	}
	return conv.Transform(conv.MapOf(elem),
		func(m *orderedmap.OrderedMap[string, wire.Value]) (wire.Value, error) {
			obj := wire.NewObject()
			for p := m.Oldest(); p != nil; p = p.Next() {
				obj.Set(p.Key, p.Value)
			}
			return obj, nil
		},
		func(v wire.Value) (*orderedmap.OrderedMap[string, wire.Value], error) {
			obj, ok := v.(*wire.Object)
			if !ok {
				return nil, expected("object", v)
			}
			m := orderedmap.New[string, wire.Value]()
			for k, el := range obj.All() {
				m.Set(k, el)
			}
			return m, nil
		}), nil
}

func (im *importer) union(s *wire.Object, at string) (stagehand.Converter[wire.Value], error) {
	key := "oneOf"
	raw, ok := s.Get(key)
	if !ok {
		key = "anyOf"
		raw, _ = s.Get(key)
	}
	list, ok := raw.(wire.List)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("schemafile: %s/%s must be a non-empty list", at, key)
	}
	if disc, ok := s.Get("discriminator"); ok {
		return im.discriminated(disc, list, at+"/"+key)
	}
	cases := make([]conv.Case[wire.Value], 0, len(list))
	for i, el := range list {
		vs, ok := el.(*wire.Object)
		if !ok {
			return nil, fmt.Errorf("schemafile: %s/%s/%d must be an object", at, key, i)
		}
		c, err := im.build(vs, at+"/"+key+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		cases = append(cases, conv.Variant[wire.Value](c))
	}
	return conv.FirstMatch(cases...), nil
}

func (im *importer) discriminated(raw wire.Value, variants wire.List, at string) (stagehand.Converter[wire.Value], error) {
	disc, ok := raw.(*wire.Object)
	if !ok {
		return nil, fmt.Errorf("schemafile: %s: discriminator must be an object", at)
	}
	pn, _ := disc.Get("propertyName")
	prop, _ := pn.(wire.String)
	if prop == "" {
		return nil, fmt.Errorf("schemafile: %s: discriminator.propertyName is required", at)
	}
	var cases []conv.Case[wire.Value]
	if mraw, ok := disc.Get("mapping"); ok {
		mapping, ok := mraw.(*wire.Object)
		if !ok {
			return nil, fmt.Errorf("schemafile: %s: discriminator.mapping must be an object", at)
		}
		for tag, ref := range mapping.All() {
			rs, _ := ref.(wire.String)
			c, err := im.ref(string(rs), at+"/mapping/"+tag)
			if err != nil {
				return nil, err
			}
			cases = append(cases, conv.Tagged[wire.Value](tag, c))
		}
		return conv.Discriminated(string(prop), cases...), nil
	}
	for i, el := range variants {
		vs, ok := el.(*wire.Object)
		if !ok {
			return nil, fmt.Errorf("schemafile: %s/%d must be an object", at, i)
		}
		vat := at + "/" + strconv.Itoa(i)
		tag, err := im.tagOf(vs, string(prop), vat)
		if err != nil {
			return nil, err
		}
		c, err := im.build(vs, vat)
		if err != nil {
			return nil, err
		}
		cases = append(cases, conv.Tagged[wire.Value](tag, c))
	}
	return conv.Discriminated(string(prop), cases...), nil
}

// tagOf finds the discriminator value declared by a variant through const or
// a single-valued enum on the discriminator property.
func (im *importer) tagOf(vs *wire.Object, prop, at string) (string, error) {
	if raw, ok := vs.Get("$ref"); ok {
		ref, _ := raw.(wire.String)
		name, err := defName(string(ref))
		if err != nil {
			return "", fmt.Errorf("schemafile: %s: %w", at, err)
		}
		def, ok := im.defs[name]
		if !ok {
			return "", fmt.Errorf("schemafile: %s: $defs/%s not found", at, name)
		}
		vs = def
	}
	praw, _ := vs.Get("properties")
	props, _ := praw.(*wire.Object)
	ps, _ := props.Get(prop)
	pso, _ := ps.(*wire.Object)
	if c, ok := pso.Get("const"); ok {
		if s, ok := c.(wire.String); ok {
			return string(s), nil
		}
	}
	if e, ok := pso.Get("enum"); ok {
		if l, ok := e.(wire.List); ok && len(l) == 1 {
			if s, ok := l[0].(wire.String); ok {
				return string(s), nil
			}
		}
	}
	return "", fmt.Errorf("schemafile: %s: cannot infer discriminator value for %q", at, prop)
}

func (im *importer) enum(s *wire.Object, at string) (stagehand.Converter[wire.Value], error) {
	var values wire.List
	if raw, ok := s.Get("const"); ok {
		values = wire.List{raw}
	} else {
		raw, _ := s.Get("enum")
		l, ok := raw.(wire.List)
		if !ok || len(l) == 0 {
			return nil, fmt.Errorf("schemafile: %s: enum must be a non-empty list", at)
		}
		values = l
	}
	strs := make([]string, 0, len(values))
	for _, v := range values {
		str, ok := v.(wire.String)
		if !ok {
			return valueEnum{values: values}, nil
		}
		strs = append(strs, string(str))
	}
	return conv.Transform(conv.EnumOf(strs...),
		func(v string) (wire.Value, error) { return wire.String(v), nil },
		func(v wire.Value) (string, error) {
			str, ok := v.(wire.String)
			if !ok {
				return "", expected("string", v)
			}
			return string(str), nil
		}), nil
}
