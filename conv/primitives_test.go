package conv_test

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/conv"
	"github.com/browserbase/stagehand-go/wire"
)

func mustWire(t *testing.T, s string) wire.Value {
	t.Helper()
	v, err := wire.DecodeString(s)
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	iss, ok := stagehand.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got %v", err)
	}
	return iss[0].Code
}

// roundTrip checks coerce(dump(x)) == x.
func roundTrip[T comparable](t *testing.T, c stagehand.Converter[T], x T) {
	t.Helper()
	ctx := context.Background()
	w, _, err := stagehand.Dump(ctx, c, x)
	if err != nil {
		t.Fatalf("dump %v: %v", x, err)
	}
	got, err := stagehand.Coerce(ctx, c, w)
	if err != nil {
		t.Fatalf("coerce %v: %v", w, err)
	}
	if got != x {
		t.Fatalf("round trip mismatch: %v != %v", got, x)
	}
}

type modelName string

func TestPrimitives_RoundTrip(t *testing.T) {
	roundTrip(t, conv.String(), "hello")
	roundTrip(t, conv.StringOf[modelName](), modelName("gpt-4o"))
	roundTrip(t, conv.Bool(), true)
	roundTrip(t, conv.Float(), 3.25)
	roundTrip(t, conv.Int(), int64(-42))
	roundTrip(t, conv.Int(), int64(math.MaxInt64))
	roundTrip(t, conv.Number(), wire.Number("12345678901234567890"))
	roundTrip(t, conv.Literal("running"), "running")
}

func TestPrimitives_TypeMismatch(t *testing.T) {
	ctx := context.Background()
	if _, err := stagehand.Coerce(ctx, conv.String(), wire.Number("1")); codeOf(t, err) != stagehand.CodeInvalidType {
		t.Fatalf("string from number should fail")
	}
	if _, err := stagehand.Coerce(ctx, conv.Bool(), wire.String("true")); codeOf(t, err) != stagehand.CodeInvalidType {
		t.Fatalf("bool from string should fail")
	}
	if _, err := stagehand.Coerce(ctx, conv.Float(), wire.Null{}); codeOf(t, err) != stagehand.CodeInvalidType {
		t.Fatalf("float from null should fail")
	}
	if _, _, err := stagehand.Dump(ctx, conv.Float(), math.NaN()); codeOf(t, err) != stagehand.CodeInvalidType {
		t.Fatalf("NaN dump should fail")
	}
}

func TestInt_FractionsAndOverflow(t *testing.T) {
	ctx := context.Background()
	got, err := stagehand.Coerce(ctx, conv.Int(), wire.Number("1e2"))
	if err != nil || got != 100 {
		t.Fatalf("1e2: got %d, %v", got, err)
	}
	if _, err := stagehand.Coerce(ctx, conv.Int(), wire.Number("1.5")); codeOf(t, err) != stagehand.CodeInvalidType {
		t.Fatalf("1.5 should be rejected")
	}
	if _, err := stagehand.Coerce(ctx, conv.Int(), wire.Number("9223372036854775808")); codeOf(t, err) != stagehand.CodeOverflow {
		t.Fatalf("MaxInt64+1 should overflow")
	}
	if _, err := stagehand.Coerce(ctx, conv.Float(), wire.Number("1e400")); codeOf(t, err) != stagehand.CodeOverflow {
		t.Fatalf("1e400 should overflow float64")
	}
}

func TestDecimal_KeepsPrecision(t *testing.T) {
	ctx := context.Background()
	d, err := stagehand.Coerce(ctx, conv.Decimal(), wire.Number("0.1000000000000000000001"))
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if !d.Equal(decimal.RequireFromString("0.1000000000000000000001")) {
		t.Fatalf("precision lost: %s", d)
	}
	w, _, err := stagehand.Dump(ctx, conv.Decimal(), d)
	if err != nil || w != wire.Number("0.1000000000000000000001") {
		t.Fatalf("dump: %v %v", w, err)
	}
}

func TestAny_PassesThrough(t *testing.T) {
	ctx := context.Background()
	in := mustWire(t, `{"b":[1,{"c":null}],"a":"x"}`)
	got, err := stagehand.Coerce(ctx, conv.Any(), in)
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if got != in {
		t.Fatalf("Any must return the same value")
	}
	w, _, err := stagehand.Dump(ctx, conv.Any(), got)
	if err != nil || !wire.Equal(w, in) {
		t.Fatalf("dump: %v %v", w, err)
	}
	if w, _, _ := stagehand.Dump[wire.Value](ctx, conv.Any(), nil); !wire.IsNull(w) {
		t.Fatalf("nil should dump as null")
	}
}

func TestLiteral_RejectsOthers(t *testing.T) {
	if _, err := stagehand.Coerce(context.Background(), conv.Literal("running"), wire.String("finished")); codeOf(t, err) != stagehand.CodeInvalidEnum {
		t.Fatalf("expected invalid_enum")
	}
}
