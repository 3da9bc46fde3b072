package stagehand

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/browserbase/stagehand-go/i18n"
)

// Trail records the field path of the value currently being converted.
// Converters push a segment before recursing and pop it afterwards.
type Trail struct {
	segs []string
}

// PushField appends a field segment.
func (t *Trail) PushField(name string) { t.segs = append(t.segs, "."+name) }

// PushIndex appends a list index segment.
func (t *Trail) PushIndex(i int) { t.segs = append(t.segs, "["+strconv.Itoa(i)+"]") }

// PushKey appends a map key segment. Keys that would not read back as a
// single field, such as "a.b" or "", are rendered quoted: ["a.b"].
func (t *Trail) PushKey(key string) {
	if plainKey(key) {
		t.PushField(key)
		return
	}
	t.segs = append(t.segs, "["+strconv.Quote(key)+"]")
}

func plainKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// Pop removes the last segment.
func (t *Trail) Pop() {
	if n := len(t.segs); n > 0 {
		t.segs = t.segs[:n-1]
	}
}

// Path renders the trail, e.g. options.model.apiKey or items[2].name.
// The root renders as the empty string.
func (t *Trail) Path() string {
	return strings.TrimPrefix(strings.Join(t.segs, ""), ".")
}

// Issue creates an Issue at the current path. kv are key/value pairs stored in
// Params.
func (t *Trail) Issue(code, msg string, kv ...any) Issue {
	var m map[string]any
	if len(kv) > 1 {
		m = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	if msg == "" {
		msg = i18n.T(code, nil)
	}
	return Issue{Path: t.Path(), Code: code, Message: msg, Params: m}
}

// Fail returns a single-issue Issues at the current path.
func (t *Trail) Fail(code, msg string, kv ...any) Issues {
	return Issues{t.Issue(code, msg, kv...)}
}

// TypeMismatch reports an invalid_type issue for a value of kind got where
// expected was required.
func (t *Trail) TypeMismatch(expected, got string) Issues {
	it := t.Issue(CodeInvalidType, i18n.T(CodeInvalidType, map[string]string{"expected": expected}), "expected", expected, "got", got)
	return Issues{it}
}

func (t *Trail) snapshot() []string { return append([]string(nil), t.segs...) }

// CoerceState is the call-scoped state of one wire to typed conversion.
type CoerceState struct {
	Trail
	ctx context.Context
}

// NewCoerceState returns a fresh state rooted at the empty path.
func NewCoerceState(ctx context.Context) *CoerceState {
	if ctx == nil {
		ctx = context.Background()
	}
	return &CoerceState{ctx: ctx}
}

// Context returns the context of the enclosing call.
func (s *CoerceState) Context() context.Context { return s.ctx }

// DumpState is the call-scoped state of one typed to wire conversion. It
// carries the retry-eligible flag, which starts true and can only be cleared.
type DumpState struct {
	Trail
	ctx      context.Context
	noReplay bool
}

// NewDumpState returns a fresh, retry-eligible state rooted at the empty path.
func NewDumpState(ctx context.Context) *DumpState {
	if ctx == nil {
		ctx = context.Background()
	}
	return &DumpState{ctx: ctx}
}

// Context returns the context of the enclosing call.
func (s *DumpState) Context() context.Context { return s.ctx }

// MarkUnreplayable clears the retry-eligible flag. It cannot be set again.
func (s *DumpState) MarkUnreplayable() { s.noReplay = true }

// RetryEligible reports whether the dumped value is safe to resend.
func (s *DumpState) RetryEligible() bool { return !s.noReplay }

// Fork returns a scratch state at the same path. Use Join to adopt its flag
// once the tentative dump is kept.
func (s *DumpState) Fork() *DumpState {
	return &DumpState{Trail: Trail{segs: s.snapshot()}, ctx: s.ctx}
}

// Join folds the retry flag of a forked state into s.
func (s *DumpState) Join(child *DumpState) {
	if child.noReplay {
		s.noReplay = true
	}
}

// Fork returns a scratch coerce state at the same path.
func (s *CoerceState) Fork() *CoerceState {
	return &CoerceState{Trail: Trail{segs: s.snapshot()}, ctx: s.ctx}
}
