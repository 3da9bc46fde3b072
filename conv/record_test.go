package conv_test

import (
	"context"
	"strings"
	"testing"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/conv"
	"github.com/browserbase/stagehand-go/wire"
)

type action struct {
	Description string
	Selector    string
	Arguments   *[]string
	Method      *string
}

func actionConverter() *conv.Record[action] {
	return conv.RecordOf[action]().
		Field(conv.Required("description", func(a *action) *string { return &a.Description }, conv.String())).
		Field(conv.Required("selector", func(a *action) *string { return &a.Selector }, conv.String())).
		Field(conv.Optional("arguments", func(a *action) **[]string { return &a.Arguments }, conv.ListOf(conv.String()))).
		Field(conv.Optional("method", func(a *action) **string { return &a.Method }, conv.String())).
		MustBuild()
}

func TestRecord_RequiredMissing(t *testing.T) {
	_, err := stagehand.CoerceJSON(context.Background(), actionConverter(), []byte(`{}`))
	iss, ok := stagehand.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Code != stagehand.CodeRequired || iss[0].Path != "description" {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}

func TestRecord_OptionalAbsent(t *testing.T) {
	a, err := stagehand.CoerceJSON(context.Background(), actionConverter(), []byte(`{"description":"d","selector":"s","extra":1}`))
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if a.Description != "d" || a.Selector != "s" {
		t.Fatalf("unexpected record: %+v", a)
	}
	if a.Arguments != nil || a.Method != nil {
		t.Fatalf("optional fields must stay absent: %+v", a)
	}
}

func TestRecord_DumpDeclarationOrderAndOmission(t *testing.T) {
	m := "click"
	b, _, err := stagehand.DumpJSON(context.Background(), actionConverter(), action{Description: "d", Selector: "s", Method: &m})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if string(b) != `{"description":"d","selector":"s","method":"click"}` {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := "fill"
	args := []string{"a", "b"}
	in := action{Description: "d", Selector: "#q", Arguments: &args, Method: &m}
	w, retry, err := stagehand.Dump(ctx, actionConverter(), in)
	if err != nil || !retry {
		t.Fatalf("dump: %v retry=%v", err, retry)
	}
	got, err := stagehand.Coerce(ctx, actionConverter(), w)
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if got.Description != in.Description || got.Selector != in.Selector || *got.Method != m || strings.Join(*got.Arguments, ",") != "a,b" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

type modelConfig struct {
	Name   string
	APIKey *string
}

type options struct {
	Model   modelConfig
	Timeout *int64
}

type request struct {
	Options options
}

func TestRecord_NestedPathUsesFieldNames(t *testing.T) {
	model := conv.RecordOf[modelConfig]().
		Field(conv.Required("name", func(m *modelConfig) *string { return &m.Name }, conv.String()).Wire("modelName")).
		Field(conv.Optional("apiKey", func(m *modelConfig) **string { return &m.APIKey }, conv.String()).Wire("api_key")).
		MustBuild()
	opts := conv.RecordOf[options]().
		Field(conv.Required("model", func(o *options) *modelConfig { return &o.Model }, model)).
		Field(conv.Optional("timeout", func(o *options) **int64 { return &o.Timeout }, conv.Int())).
		MustBuild()
	req := conv.RecordOf[request]().
		Field(conv.Required("options", func(r *request) *options { return &r.Options }, opts)).
		MustBuild()

	_, err := stagehand.CoerceJSON(context.Background(), req, []byte(`{"options":{"model":{"modelName":"m","api_key":7}}}`))
	iss, ok := stagehand.AsIssues(err)
	if !ok || iss[0].Path != "options.model.apiKey" {
		t.Fatalf("unexpected issues: %v", err)
	}

	got, err := stagehand.CoerceJSON(context.Background(), req, []byte(`{"options":{"model":{"modelName":"m","api_key":"k"},"timeout":null}}`))
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if got.Options.Model.Name != "m" || *got.Options.Model.APIKey != "k" || got.Options.Timeout != nil {
		t.Fatalf("unexpected value: %+v", got)
	}
	b, _, err := stagehand.DumpJSON(context.Background(), req, got)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if string(b) != `{"options":{"model":{"modelName":"m","api_key":"k"}}}` {
		t.Fatalf("unexpected json: %s", b)
	}
}

type patch struct {
	Title **string
}

func TestRecord_NullableOptionalKeepsNull(t *testing.T) {
	c := conv.RecordOf[patch]().
		Field(conv.Optional("title", func(p *patch) ***string { return &p.Title }, conv.Nullable(conv.String()))).
		MustBuild()
	ctx := context.Background()

	p, err := stagehand.CoerceJSON(ctx, c, []byte(`{"title":null}`))
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if p.Title == nil || *p.Title != nil {
		t.Fatalf("null should be present and nil: %+v", p)
	}
	b, _, _ := stagehand.DumpJSON(ctx, c, p)
	if string(b) != `{"title":null}` {
		t.Fatalf("unexpected json: %s", b)
	}

	p, _ = stagehand.CoerceJSON(ctx, c, []byte(`{}`))
	if p.Title != nil {
		t.Fatalf("absent should stay nil")
	}
	b, _, _ = stagehand.DumpJSON(ctx, c, p)
	if string(b) != `{}` {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestRecord_FieldFunc(t *testing.T) {
	type bag struct{ m map[string]string }
	c := conv.RecordOf[bag]().
		Field(conv.FieldFunc("url", false, conv.String(),
			func(b *bag, v string) {
				if b.m == nil {
					b.m = map[string]string{}
				}
				b.m["url"] = v
			},
			func(b *bag) (string, bool) { v, ok := b.m["url"]; return v, ok })).
		MustBuild()
	ctx := context.Background()
	got, err := stagehand.Coerce(ctx, c, wire.NewObject().Set("url", wire.String("https://example.com")))
	if err != nil || got.m["url"] != "https://example.com" {
		t.Fatalf("coerce: %+v %v", got, err)
	}
	b, _, _ := stagehand.DumpJSON(ctx, c, bag{})
	if string(b) != `{}` {
		t.Fatalf("unset optional must be omitted: %s", b)
	}
}

func TestRecord_BuildRejectsDuplicates(t *testing.T) {
	_, err := conv.RecordOf[action]().
		Field(conv.Required("description", func(a *action) *string { return &a.Description }, conv.String())).
		Field(conv.Required("selector", func(a *action) *string { return &a.Selector }, conv.String()).Wire("description")).
		Build()
	if err == nil {
		t.Fatalf("expected duplicate wire name error")
	}
}

func TestRecord_NotAnObject(t *testing.T) {
	if _, err := stagehand.CoerceJSON(context.Background(), actionConverter(), []byte(`[]`)); codeOf(t, err) != stagehand.CodeInvalidType {
		t.Fatalf("expected invalid_type")
	}
}
