package stagehand_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/invopop/jsonschema"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/wire"
)

// echoString is a stub converter that accepts wire strings only and marks
// values starting with "stream:" as unreplayable.
type echoString struct{}

func (echoString) Coerce(s *stagehand.CoerceState, v wire.Value) (string, error) {
	str, ok := v.(wire.String)
	if !ok {
		return "", s.TypeMismatch("string", wire.KindOf(v).String())
	}
	return string(str), nil
}

func (echoString) Dump(s *stagehand.DumpState, v string) (wire.Value, error) {
	if strings.HasPrefix(v, "stream:") {
		s.MarkUnreplayable()
	}
	return wire.String(v), nil
}

func (echoString) JSONSchema() *jsonschema.Schema { return &jsonschema.Schema{Type: "string"} }

func TestCoerceJSON_DelegatesToConverter(t *testing.T) {
	got, err := stagehand.CoerceJSON[string](context.Background(), echoString{}, []byte(`"hi"`))
	if err != nil || got != "hi" {
		t.Fatalf("got %q, %v", got, err)
	}
	_, err = stagehand.CoerceJSON[string](context.Background(), echoString{}, []byte(`42`))
	iss, ok := stagehand.AsIssues(err)
	if !ok || iss[0].Code != stagehand.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %v", err)
	}
	if iss[0].Params["expected"] != "string" || iss[0].Params["got"] != "number" {
		t.Fatalf("unexpected params: %v", iss[0].Params)
	}
}

func TestCoerceJSON_ParseErrors(t *testing.T) {
	_, err := stagehand.CoerceJSON[string](context.Background(), echoString{}, []byte(`{"a":`))
	iss, ok := stagehand.AsIssues(err)
	if !ok || iss[0].Code != stagehand.CodeParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
	_, err = stagehand.CoerceJSON[string](context.Background(), echoString{}, []byte(`{"a":1,"a":2}`), wire.DecodeOpt{StrictKeys: true})
	iss, ok = stagehand.AsIssues(err)
	if !ok || iss[0].Code != stagehand.CodeDuplicateKey || iss[0].Path != "a" {
		t.Fatalf("expected duplicate_key at a, got %v", err)
	}
}

func TestDump_RetryEligibleFlag(t *testing.T) {
	ctx := context.Background()
	_, retry, err := stagehand.Dump[string](ctx, echoString{}, "plain")
	if err != nil || !retry {
		t.Fatalf("plain value should be retry-eligible: %v %v", retry, err)
	}
	b, retry, err := stagehand.DumpJSON[string](ctx, echoString{}, "stream:body")
	if err != nil || retry {
		t.Fatalf("stream value should clear the flag: %v %v", retry, err)
	}
	if string(b) != `"stream:body"` {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestCoerce_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := stagehand.Coerce[string](ctx, echoString{}, wire.String("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCoerceAndDump_NilContext(t *testing.T) {
	var ctx context.Context
	if got, err := stagehand.Coerce[string](ctx, echoString{}, wire.String("x")); err != nil || got != "x" {
		t.Fatalf("coerce with nil context: %q %v", got, err)
	}
	if _, err := stagehand.CoerceJSON[string](ctx, echoString{}, []byte(`"y"`)); err != nil {
		t.Fatalf("coerce json with nil context: %v", err)
	}
	b, retry, err := stagehand.DumpJSON[string](ctx, echoString{}, "z")
	if err != nil || !retry || string(b) != `"z"` {
		t.Fatalf("dump with nil context: %s %v %v", b, retry, err)
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := stagehand.Issues{
		{Path: "", Code: stagehand.CodeInvalidType},
		{Path: "items[2]", Code: stagehand.CodeRequired},
		{Path: "options.model", Code: stagehand.CodeInvalidEnum},
		{Path: "d", Code: stagehand.CodeSchemaMismatch},
	}
	want := "invalid_type at <root>; required at items[2]; invalid_enum at options.model; ... (total 4)"
	if s := iss.Error(); s != want {
		t.Fatalf("unexpected summary: %q", s)
	}
}

func TestTrail_Paths(t *testing.T) {
	s := stagehand.NewCoerceState(context.Background())
	s.PushField("options")
	s.PushField("model")
	s.PushField("apiKey")
	if p := s.Path(); p != "options.model.apiKey" {
		t.Fatalf("unexpected path %q", p)
	}
	s.Pop()
	s.Pop()
	s.Pop()
	s.PushField("items")
	s.PushIndex(2)
	s.PushField("name")
	if p := s.Path(); p != "items[2].name" {
		t.Fatalf("unexpected path %q", p)
	}
}

func TestDumpState_ForkJoin(t *testing.T) {
	s := stagehand.NewDumpState(context.Background())
	scratch := s.Fork()
	scratch.MarkUnreplayable()
	if !s.RetryEligible() {
		t.Fatalf("fork must not affect parent before Join")
	}
	s.Join(scratch)
	if s.RetryEligible() {
		t.Fatalf("Join should clear the parent flag")
	}
	s.Join(s.Fork())
	if s.RetryEligible() {
		t.Fatalf("flag must never be set again")
	}
}
