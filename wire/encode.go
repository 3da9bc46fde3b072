package wire

import (
	"bytes"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
)

// Marshal renders v as compact JSON. Object keys keep insertion order and a
// nil Value renders as null.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes v as compact JSON to w.
func Encode(w io.Writer, v Value) error {
	b, err := Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch x := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		if x {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		if x == "" || x[0] == '"' || !j.Valid([]byte(x)) {
			return fmt.Errorf("wire: invalid number literal %q", string(x))
		}
		buf.WriteString(string(x))
	case String:
		return writeString(buf, string(x))
	case List:
		buf.WriteByte('[')
		for i, el := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, el); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Object:
		buf.WriteByte('{')
		i := 0
		for k, el := range x.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, el); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := j.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
