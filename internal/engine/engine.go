package engine

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
)

// Kind represents token kinds produced by a TokenSource.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token is a single JSON token. Numbers are kept as their literal text.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
}

// TokenSource is the minimal pull interface the wire decoder consumes.
// NextToken returns io.EOF once the input is exhausted.
type TokenSource interface {
	NextToken() (Token, error)
}

// ErrUnexpectedToken reports a token that cannot appear at the current position.
var ErrUnexpectedToken = errors.New("engine: unexpected token")

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

// goJSONSource adapts a goccy/go-json Decoder to TokenSource, telling object
// keys apart from string values.
type goJSONSource struct {
	dec   *j.Decoder
	stack []frame
}

// NewReader returns a TokenSource reading JSON from r.
func NewReader(r io.Reader) TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &goJSONSource{dec: dec}
}

// NewBytes returns a TokenSource over b.
func NewBytes(b []byte) TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *goJSONSource) NextToken() (Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return Token{Kind: KindBeginObject}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return Token{Kind: KindBeginArray}, nil
		case '}':
			s.pop()
			s.valueDone()
			return Token{Kind: KindEndObject}, nil
		case ']':
			s.pop()
			s.valueDone()
			return Token{Kind: KindEndArray}, nil
		}
		return Token{}, ErrUnexpectedToken
	case string:
		if n := len(s.stack); n > 0 && s.stack[n-1].kind == kindObject && s.stack[n-1].expectingKey {
			s.stack[n-1].expectingKey = false
			return Token{Kind: KindKey, String: v}, nil
		}
		s.valueDone()
		return Token{Kind: KindString, String: v}, nil
	case j.Number:
		s.valueDone()
		return Token{Kind: KindNumber, Number: string(v)}, nil
	case float64:
		s.valueDone()
		return Token{Kind: KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64)}, nil
	case bool:
		s.valueDone()
		return Token{Kind: KindBool, Bool: v}, nil
	case nil:
		s.valueDone()
		return Token{Kind: KindNull}, nil
	}
	return Token{}, ErrUnexpectedToken
}

func (s *goJSONSource) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
}

// valueDone flips the enclosing object back to expecting a key.
func (s *goJSONSource) valueDone() {
	if n := len(s.stack); n > 0 && s.stack[n-1].kind == kindObject {
		s.stack[n-1].expectingKey = true
	}
}
