package engine

import (
	"strconv"
)

// DuplicatePolicy selects how repeated object keys are handled.
type DuplicatePolicy int

const (
	DupLastWins DuplicatePolicy = iota
	DupError
)

// EnforceOptions controls runtime enforcement. Zero values disable a check.
type EnforceOptions struct {
	OnDuplicate DuplicatePolicy
	MaxDepth    int
}

// IssueError is returned when enforcement rejects the input.
type IssueError struct {
	Code    string
	Path    string
	Message string
}

func (e IssueError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Message + " at " + e.Path
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy and maximum nesting depth while tokens stream through.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	if opt.OnDuplicate == DupLastWins && opt.MaxDepth <= 0 {
		return inner
	}
	return &enforcingSource{inner: inner, opt: opt}
}

type enforceFrame struct {
	kind      containerKind
	keys      map[string]struct{}
	path      string
	nextIndex int
	lastKey   string
}

type enforcingSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []enforceFrame
}

func (e *enforcingSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		path := e.childPath()
		if e.opt.MaxDepth > 0 && len(e.stack)+1 > e.opt.MaxDepth {
			return Token{}, IssueError{Code: "parse_error", Path: path, Message: "max depth exceeded"}
		}
		f := enforceFrame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f.kind = kindObject
			f.keys = make(map[string]struct{})
		}
		e.stack = append(e.stack, f)
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate == DupError {
				return Token{}, IssueError{Code: "duplicate_key", Path: joinPath(top.path, tok.String), Message: "key '" + tok.String + "' duplicated"}
			}
			top.keys[tok.String] = struct{}{}
			top.lastKey = tok.String
		}
	default:
		e.childPath()
	}
	return tok, nil
}

// childPath returns the path of the value about to start and advances array
// indexes.
func (e *enforcingSource) childPath() string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.kind == kindArray {
		p := top.path + "[" + strconv.Itoa(top.nextIndex) + "]"
		top.nextIndex++
		return p
	}
	return joinPath(top.path, top.lastKey)
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
