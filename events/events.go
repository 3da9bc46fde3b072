// Package events defines the decoded shapes of the streaming feed.
//
// Each data frame carries either a system event (lifecycle status with an
// optional error or result) or a log line emitted while the task is running.
package events

import (
	"fmt"
	"sync"

	js "github.com/invopop/jsonschema"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/conv"
	"github.com/browserbase/stagehand-go/wire"
)

// Status is the lifecycle status of a streamed task.
type Status string

const (
	StatusStarting  Status = "starting"
	StatusConnected Status = "connected"
	StatusRunning   Status = "running"
	StatusFinished  Status = "finished"
	StatusError     Status = "error"
)

// Statuses lists every known Status in lifecycle order.
var Statuses = []Status{StatusStarting, StatusConnected, StatusRunning, StatusFinished, StatusError}

// Data is a decoded event payload: *SystemEvent or *LogEvent.
type Data interface {
	isData()
}

// SystemEvent reports a lifecycle transition.
type SystemEvent struct {
	Status Status
	Error  *string
	Result *wire.Value
}

// LogEvent is a log line. Its status is always running.
type LogEvent struct {
	Status  string
	Message string
}

func (*SystemEvent) isData() {}
func (*LogEvent) isData()    {}

// Kind of an Envelope.
type Kind string

const (
	KindSystem Kind = "system"
	KindLog    Kind = "log"
)

// Envelope wraps a payload with its event id and kind.
type Envelope struct {
	ID   string
	Type Kind
	Data Data
}

var systemConverter = sync.OnceValue(func() stagehand.Converter[*SystemEvent] {
	return conv.Pointer(conv.RecordOf[SystemEvent]().
		Field(conv.Required("status", func(e *SystemEvent) *Status { return &e.Status }, conv.EnumOf(Statuses...))).
		Field(conv.Optional("error", func(e *SystemEvent) **string { return &e.Error }, conv.String())).
		Field(conv.Optional("result", func(e *SystemEvent) **wire.Value { return &e.Result }, conv.Any())).
		MustBuild())
})

var logConverter = sync.OnceValue(func() stagehand.Converter[*LogEvent] {
	return conv.Pointer(conv.RecordOf[LogEvent]().
		Field(conv.Required("message", func(e *LogEvent) *string { return &e.Message }, conv.String())).
		Field(conv.Required("status", func(e *LogEvent) *string { return &e.Status }, conv.Literal(string(StatusRunning)))).
		MustBuild())
})

// SystemConverter converts system event payloads.
func SystemConverter() stagehand.Converter[*SystemEvent] { return systemConverter() }

// LogConverter converts log event payloads.
func LogConverter() stagehand.Converter[*LogEvent] { return logConverter() }

// Variants are tried in declared order: system, then log. The system shape
// ignores unknown keys, so a bare payload resolves to *SystemEvent whenever
// its status is known; use EnvelopeConverter when the kind travels with it.
var dataConverter = sync.OnceValue(func() stagehand.Converter[Data] {
	return conv.FirstMatch(
		conv.Variant[Data](SystemConverter()),
		conv.Variant[Data](LogConverter()),
	)
})

// DataConverter converts a frame payload into *SystemEvent or *LogEvent.
func DataConverter() stagehand.Converter[Data] { return dataConverter() }

var envelopeConverter = sync.OnceValue(func() stagehand.Converter[Envelope] {
	return &envelope{
		header: conv.RecordOf[Envelope]().
			Field(conv.Required("id", func(e *Envelope) *string { return &e.ID }, conv.String())).
			Field(conv.Required("type", func(e *Envelope) *Kind { return &e.Type }, conv.EnumOf(KindSystem, KindLog))).
			MustBuild(),
		byKind: map[Kind]stagehand.Converter[Data]{
			KindSystem: asData(SystemConverter()),
			KindLog:    asData(LogConverter()),
		},
	}
})

// EnvelopeConverter converts {id, type, data} event records. The type field
// selects the converter used for data, and dumping rejects an envelope whose
// data does not match its type.
func EnvelopeConverter() stagehand.Converter[Envelope] { return envelopeConverter() }

func asData[V Data](c stagehand.Converter[V]) stagehand.Converter[Data] {
	return conv.Transform(c,
		func(v V) (Data, error) { return v, nil },
		func(d Data) (V, error) {
			v, ok := d.(V)
			if !ok {
				var zero V
				return zero, fmt.Errorf("events: %T is not %T", d, zero)
			}
			return v, nil
		})
}

func kindOf(d Data) Kind {
	switch d.(type) {
	case *SystemEvent:
		return KindSystem
	case *LogEvent:
		return KindLog
	}
	return ""
}

const dataField = "data"

type envelope struct {
	header *conv.Record[Envelope]
	byKind map[Kind]stagehand.Converter[Data]
}

func (e *envelope) Coerce(s *stagehand.CoerceState, v wire.Value) (Envelope, error) {
	env, err := e.header.Coerce(s, v)
	if err != nil {
		return Envelope{}, err
	}
	raw, ok := v.(*wire.Object).Get(dataField)
	s.PushField(dataField)
	defer s.Pop()
	if !ok {
		return Envelope{}, s.Fail(stagehand.CodeRequired, "", "field", dataField)
	}
	d, err := e.byKind[env.Type].Coerce(s, raw)
	if err != nil {
		return Envelope{}, err
	}
	env.Data = d
	return env, nil
}

func (e *envelope) Dump(s *stagehand.DumpState, v Envelope) (wire.Value, error) {
	w, err := e.header.Dump(s, v)
	if err != nil {
		return nil, err
	}
	s.PushField(dataField)
	defer s.Pop()
	if v.Data == nil {
		return nil, s.Fail(stagehand.CodeRequired, "", "field", dataField)
	}
	if got := kindOf(v.Data); got != v.Type {
		it := s.Issue(stagehand.CodeSchemaMismatch, fmt.Sprintf("data is %T but type is %q", v.Data, v.Type), "type", string(v.Type))
		it.Hint = "data must match the envelope type"
		return nil, stagehand.Issues{it}
	}
	d, err := e.byKind[v.Type].Dump(s, v.Data)
	if err != nil {
		return nil, err
	}
	return w.(*wire.Object).Set(dataField, d), nil
}

func (e *envelope) JSONSchema() *js.Schema {
	out := e.header.JSONSchema()
	out.Properties.Set(dataField, &js.Schema{AnyOf: []*js.Schema{
		SystemConverter().JSONSchema(),
		LogConverter().JSONSchema(),
	}})
	out.Required = append(out.Required, dataField)
	return out
}
