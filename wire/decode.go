package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	j "github.com/goccy/go-json"

	eng "github.com/browserbase/stagehand-go/internal/engine"
)

// Decode error codes. They match the issue codes of the conversion layer.
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
)

// DecodeOpt configures JSON decoding. The zero value accepts duplicate keys
// (last wins) and applies no depth or size limits.
type DecodeOpt struct {
	// StrictKeys rejects objects that repeat a key.
	StrictKeys bool
	// MaxDepth limits container nesting when > 0.
	MaxDepth int
	// MaxBytes limits the input size when > 0.
	MaxBytes int64
}

// DecodeError describes malformed or rejected input.
type DecodeError struct {
	Code string
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("wire: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("wire: %s at %s: %v", e.Code, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var (
	errTooLarge      = errors.New("input exceeds max bytes")
	errTrailingData  = errors.New("unexpected data after top-level value")
	errUnexpectedEnd = errors.New("unexpected end of input")
	errMalformed     = errors.New("malformed JSON")
)

// Decode reads exactly one JSON value from r. The whole input is checked
// against the JSON grammar before any value is built.
func Decode(r io.Reader, opts ...DecodeOpt) (Value, error) {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.MaxBytes > 0 {
		r = &cappedReader{r: r, max: opt.MaxBytes}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Code: CodeParseError, Err: err}
	}
	if err := validate(data); err != nil {
		return nil, &DecodeError{Code: CodeParseError, Err: err}
	}
	pol := eng.DupLastWins
	if opt.StrictKeys {
		pol = eng.DupError
	}
	src := eng.WrapWithEnforcement(eng.NewBytes(data), eng.EnforceOptions{OnDuplicate: pol, MaxDepth: opt.MaxDepth})
	v, err := readValue(src, nil)
	if err != nil {
		return nil, toDecodeError(err)
	}
	if _, err := src.NextToken(); err == nil {
		return nil, &DecodeError{Code: CodeParseError, Err: errTrailingData}
	} else if !errors.Is(err, io.EOF) {
		return nil, toDecodeError(err)
	}
	return v, nil
}

// validate rejects input that is not exactly one well-formed JSON value. The
// token stream alone does not check separators, so "[1 2]" or "{"a":1,}"
// would otherwise decode.
func validate(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errUnexpectedEnd
	}
	if j.Valid(data) {
		return nil
	}
	var scratch any
	if err := j.Unmarshal(data, &scratch); err != nil {
		return err
	}
	return errMalformed
}

// DecodeBytes decodes b as a single JSON value.
func DecodeBytes(b []byte, opts ...DecodeOpt) (Value, error) {
	return Decode(bytes.NewReader(b), opts...)
}

// DecodeString decodes s as a single JSON value.
func DecodeString(s string, opts ...DecodeOpt) (Value, error) {
	return Decode(strings.NewReader(s), opts...)
}

// readValue builds a Value from the token stream. first is an already
// consumed token, or nil.
func readValue(src eng.TokenSource, first *eng.Token) (Value, error) {
	var tok eng.Token
	if first != nil {
		tok = *first
	} else {
		t, err := src.NextToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errUnexpectedEnd
			}
			return nil, err
		}
		tok = t
	}
	switch tok.Kind {
	case eng.KindNull:
		return Null{}, nil
	case eng.KindBool:
		return Bool(tok.Bool), nil
	case eng.KindNumber:
		return Number(tok.Number), nil
	case eng.KindString:
		return String(tok.String), nil
	case eng.KindBeginArray:
		list := List{}
		for {
			t, err := src.NextToken()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil, errUnexpectedEnd
				}
				return nil, err
			}
			if t.Kind == eng.KindEndArray {
				return list, nil
			}
			el, err := readValue(src, &t)
			if err != nil {
				return nil, err
			}
			list = append(list, el)
		}
	case eng.KindBeginObject:
		obj := NewObject()
		for {
			t, err := src.NextToken()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil, errUnexpectedEnd
				}
				return nil, err
			}
			if t.Kind == eng.KindEndObject {
				return obj, nil
			}
			if t.Kind != eng.KindKey {
				return nil, eng.ErrUnexpectedToken
			}
			el, err := readValue(src, nil)
			if err != nil {
				return nil, err
			}
			obj.Set(t.String, el)
		}
	}
	return nil, eng.ErrUnexpectedToken
}

func toDecodeError(err error) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &DecodeError{Code: ie.Code, Path: ie.Path, Err: errors.New(ie.Message)}
	}
	return &DecodeError{Code: CodeParseError, Err: err}
}

// cappedReader fails once more than max bytes have been read.
type cappedReader struct {
	r   io.Reader
	n   int64
	max int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.n > c.max {
		return 0, errTooLarge
	}
	return n, err
}
