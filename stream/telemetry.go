package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
)

const instrumentationName = "github.com/browserbase/stagehand-go/stream"

// Frame outcomes.
const (
	outcomeValue    = "value"
	outcomeSkipped  = "skipped"
	outcomeSentinel = "sentinel"
	outcomeInvalid  = "invalid"
)

// Tracing attribute keys
var (
	attrFrames = attribute.Key("stagehand.stream.frames")
	attrValues = attribute.Key("stagehand.stream.values")
	attrResult = attribute.Key("stagehand.stream.result")
)

// Metrics counts pulled frames and terminal stream results. One Metrics may
// be shared by any number of streams.
type Metrics struct {
	frames  *prometheus.CounterVec
	results *prometheus.CounterVec
}

// NewMetrics creates stream collectors and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		frames: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stagehand",
			Subsystem: "stream",
			Name:      "frames_total",
			Help:      "Frames pulled from event feeds by outcome.",
		}, []string{"outcome"}),
		results: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stagehand",
			Subsystem: "stream",
			Name:      "results_total",
			Help:      "Streams that reached a terminal state by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) frame(outcome string) {
	if m != nil {
		m.frames.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) result(r string) {
	if m != nil {
		m.results.WithLabelValues(r).Inc()
	}
}
