package events_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/events"
	"github.com/browserbase/stagehand-go/wire"
)

func TestData_SystemVariant(t *testing.T) {
	d, err := stagehand.CoerceJSON(context.Background(), events.DataConverter(), []byte(`{"status":"finished","result":{"ok":true}}`))
	require.NoError(t, err)

	sys, ok := d.(*events.SystemEvent)
	require.True(t, ok, "expected *SystemEvent, got %T", d)
	assert.Equal(t, events.StatusFinished, sys.Status)
	assert.Nil(t, sys.Error)
	require.NotNil(t, sys.Result)
	obj, ok := (*sys.Result).(*wire.Object)
	require.True(t, ok)
	v, _ := obj.Get("ok")
	assert.Equal(t, wire.Bool(true), v)
}

func TestData_SystemDeclaredFirstShadowsLog(t *testing.T) {
	d, err := stagehand.CoerceJSON(context.Background(), events.DataConverter(), []byte(`{"status":"running","message":"clicked"}`))
	require.NoError(t, err)

	sys, ok := d.(*events.SystemEvent)
	require.True(t, ok, "expected *SystemEvent, got %T", d)
	assert.Equal(t, events.StatusRunning, sys.Status)
}

func TestData_LogVariantAfterSystemFails(t *testing.T) {
	// an unknown status fails the system case and the log case is tried next
	_, err := stagehand.CoerceJSON(context.Background(), events.DataConverter(), []byte(`{"status":"paused","message":"m"}`))
	iss, ok := stagehand.AsIssues(err)
	require.True(t, ok)
	tried := iss[0].Cause.(stagehand.Issues)
	require.Len(t, tried, 2)
	assert.Equal(t, stagehand.CodeInvalidEnum, tried[0].Code)
	assert.Equal(t, "status", tried[0].Path)
	assert.Equal(t, stagehand.CodeInvalidEnum, tried[1].Code)
}

func TestData_RunningWithoutMessageIsSystem(t *testing.T) {
	d, err := stagehand.CoerceJSON(context.Background(), events.DataConverter(), []byte(`{"status":"running"}`))
	require.NoError(t, err)
	sys, ok := d.(*events.SystemEvent)
	require.True(t, ok)
	assert.Equal(t, events.StatusRunning, sys.Status)
}

func TestData_UnknownStatus(t *testing.T) {
	_, err := stagehand.CoerceJSON(context.Background(), events.DataConverter(), []byte(`{"status":"should-not-appear"}`))
	iss, ok := stagehand.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, stagehand.CodeSchemaMismatch, iss[0].Code)
	assert.True(t, iss[0].Cause.(stagehand.Issues).HasCode(stagehand.CodeInvalidEnum))
}

func TestData_DumpRoundTrip(t *testing.T) {
	ctx := context.Background()
	msg := "boom"
	in := &events.SystemEvent{Status: events.StatusError, Error: &msg}
	w, retry, err := stagehand.Dump(ctx, events.DataConverter(), in)
	require.NoError(t, err)
	assert.True(t, retry)
	back, err := stagehand.Coerce(ctx, events.DataConverter(), w)
	require.NoError(t, err)
	assert.Equal(t, events.Data(in), back)

	b, _, err := stagehand.DumpJSON(ctx, events.DataConverter(), events.Data(&events.LogEvent{Status: "running", Message: "hello"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"hello","status":"running"}`, string(b))
}

func TestEnvelope(t *testing.T) {
	env, err := stagehand.CoerceJSON(context.Background(), events.EnvelopeConverter(),
		[]byte(`{"id":"evt_1","type":"log","data":{"status":"running","message":"navigated"}}`))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", env.ID)
	assert.Equal(t, events.KindLog, env.Type)
	assert.IsType(t, &events.LogEvent{}, env.Data)

	b, _, err := stagehand.DumpJSON(context.Background(), events.EnvelopeConverter(), env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"evt_1","type":"log","data":{"message":"navigated","status":"running"}}`, string(b))
}

func TestEnvelope_TypeSelectsData(t *testing.T) {
	ctx := context.Background()
	env, err := stagehand.CoerceJSON(ctx, events.EnvelopeConverter(),
		[]byte(`{"id":"1","type":"system","data":{"status":"running","message":"m"}}`))
	require.NoError(t, err)
	assert.IsType(t, &events.SystemEvent{}, env.Data)

	_, err = stagehand.CoerceJSON(ctx, events.EnvelopeConverter(),
		[]byte(`{"id":"2","type":"log","data":{"status":"starting"}}`))
	iss, ok := stagehand.AsIssues(err)
	require.True(t, ok, "expected issues, got %v", err)
	assert.Equal(t, stagehand.CodeRequired, iss[0].Code)
	assert.Equal(t, "data.message", iss[0].Path)

	_, err = stagehand.CoerceJSON(ctx, events.EnvelopeConverter(), []byte(`{"id":"3","type":"log"}`))
	iss, ok = stagehand.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, stagehand.CodeRequired, iss[0].Code)
	assert.Equal(t, "data", iss[0].Path)
}

func TestEnvelope_DumpRejectsMismatchedData(t *testing.T) {
	_, _, err := stagehand.Dump(context.Background(), events.EnvelopeConverter(), events.Envelope{
		ID:   "1",
		Type: events.KindSystem,
		Data: &events.LogEvent{Status: "running", Message: "m"},
	})
	iss, ok := stagehand.AsIssues(err)
	require.True(t, ok, "expected issues, got %v", err)
	assert.Equal(t, stagehand.CodeSchemaMismatch, iss[0].Code)
	assert.Equal(t, "data", iss[0].Path)
}
