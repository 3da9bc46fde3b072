package stagehand_test

import (
	"context"
	"testing"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/events"
)

var (
	logFrame    = []byte(`{"status":"running","message":"clicked the login button"}`)
	systemFrame = []byte(`{"status":"finished","result":{"ok":true,"items":[1,2,3]}}`)
	logEnvelope = []byte(`{"id":"evt_1","type":"log","data":{"status":"running","message":"clicked the login button"}}`)
)

// Bare log frames match the system variant, which is declared first.
func Benchmark_FirstMatch_LogFrame(b *testing.B) {
	ctx := context.Background()
	c := events.DataConverter()
	b.ReportAllocs()
	b.SetBytes(int64(len(logFrame)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := stagehand.CoerceJSON(ctx, c, logFrame); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Envelope_LogEvent(b *testing.B) {
	ctx := context.Background()
	c := events.EnvelopeConverter()
	b.ReportAllocs()
	b.SetBytes(int64(len(logEnvelope)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := stagehand.CoerceJSON(ctx, c, logEnvelope); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_FirstMatch_SystemEvent(b *testing.B) {
	ctx := context.Background()
	c := events.DataConverter()
	b.ReportAllocs()
	b.SetBytes(int64(len(systemFrame)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := stagehand.CoerceJSON(ctx, c, systemFrame); err != nil {
			b.Fatal(err)
		}
	}
}
