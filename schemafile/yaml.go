package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/wire"
)

// ImportYAML imports the first YAML document in data. JSON is accepted as well
// since it is a subset of YAML.
func ImportYAML(data []byte, opts Options) (stagehand.Converter[wire.Value], Diag, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var node yaml.Node
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &simpleDiag{}, errors.New("schemafile: empty document")
		}
		return nil, &simpleDiag{}, err
	}
	doc, err := nodeToValue(&node)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	return Import(doc, opts)
}

// ImportJSON imports a JSON descriptor document.
func ImportJSON(data []byte, opts Options) (stagehand.Converter[wire.Value], Diag, error) {
	doc, err := wire.DecodeBytes(data, wire.DecodeOpt{StrictKeys: true})
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	return Import(doc, opts)
}

// nodeToValue converts a YAML node tree into a wire value, keeping mapping
// key order.
func nodeToValue(n *yaml.Node) (wire.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return wire.Null{}, nil
		}
		return nodeToValue(n.Content[0])
	case yaml.AliasNode:
		return nodeToValue(n.Alias)
	case yaml.MappingNode:
		obj := wire.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("schemafile: line %d: non-scalar mapping key", k.Line)
			}
			if obj.Has(k.Value) {
				return nil, fmt.Errorf("schemafile: line %d: duplicate key %q", k.Line, k.Value)
			}
			val, err := nodeToValue(v)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		list := make(wire.List, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := nodeToValue(c)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return wire.Null{}, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return wire.Bool(b), nil
		case "!!int":
			var i int64
			if err := n.Decode(&i); err != nil {
				return nil, err
			}
			return wire.Int(i), nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return nil, err
			}
			return wire.Float(f), nil
		default:
			return wire.String(n.Value), nil
		}
	}
	return nil, fmt.Errorf("schemafile: line %d: unsupported YAML node", n.Line)
}
