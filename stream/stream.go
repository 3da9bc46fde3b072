package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/wire"
)

// Sentinel payload prefixes.
const (
	sentinelFinished = "finished"
	sentinelError    = "error"
)

type state int

const (
	stateAwaitingFirstFrame state = iota
	stateStreaming
	stateDone
	stateFailed
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateAwaitingFirstFrame:
		return "awaiting_first_frame"
	case stateStreaming:
		return "streaming"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	case stateClosed:
		return "closed"
	}
	return "unknown"
}

// Option configures a Stream.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	decode  wire.DecodeOpt
	tracer  trace.TracerProvider
	metrics *Metrics
}

func (o *options) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.tracer == nil {
		o.tracer = otel.GetTracerProvider()
	}
}

// WithLogger sets the logger used for skipped frames, drains and failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDecodeOpt sets the JSON decoding options applied to each payload.
func WithDecodeOpt(d wire.DecodeOpt) Option {
	return func(o *options) { o.decode = d }
}

// WithTracerProvider sets the provider of the span that covers the stream's
// lifetime. The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracer = tp }
}

// WithMetrics records frame outcomes and terminal results into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// Stream is a single-consumer iterator over the values decoded from a feed.
// Close may be called from any goroutine.
type Stream[T any] struct {
	src    FrameSource
	conv   stagehand.Converter[T]
	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger
	decode wire.DecodeOpt

	state   state
	current T
	err     error

	span    trace.Span
	metrics *Metrics
	frames  atomic.Int64
	values  atomic.Int64

	closed     atomic.Bool
	closeOnce  sync.Once
	finishOnce sync.Once
}

// Open starts decoding src through c. No frame is pulled until Next.
func Open[T any](ctx context.Context, src FrameSource, c stagehand.Converter[T], opts ...Option) *Stream[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.applyDefaults()
	ctx, span := o.tracer.Tracer(instrumentationName).Start(ctx, "stagehand.stream")
	inner, cancel := context.WithCancel(ctx)
	return &Stream[T]{
		src:     src,
		conv:    c,
		ctx:     inner,
		cancel:  cancel,
		log:     o.logger.With(slog.String("component", "stream")),
		decode:  o.decode,
		span:    span,
		metrics: o.metrics,
	}
}

// Next advances to the next decoded value. It returns false once the feed
// has completed, failed or the stream was closed.
func (s *Stream[T]) Next() bool {
	if s.terminal() {
		return false
	}
	for {
		f, err := s.src.Next(s.ctx)
		if s.closed.Load() {
			s.state = stateClosed
			s.finish("closed", nil)
			return false
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.state = stateDone
				s.finish("done", nil)
				return false
			}
			return s.fail(fmt.Errorf("stream: read frame: %w", err))
		}
		s.frames.Add(1)
		s.state = stateStreaming

		if !f.HasData && f.Data == "" {
			s.metrics.frame(outcomeSkipped)
			continue
		}
		switch {
		case strings.HasPrefix(f.Data, sentinelFinished):
			s.metrics.frame(outcomeSentinel)
			s.state = stateDone
			s.drain()
			s.finish("done", nil)
			return false
		case strings.HasPrefix(f.Data, sentinelError):
			s.metrics.frame(outcomeSentinel)
			ue := newUpstreamError(f.Data)
			s.log.Warn("upstream error", slog.String("message", ue.Message))
			return s.fail(ue)
		}
		// Sentinels end the feed whatever the event name; other named
		// events carry no payload for T.
		if f.Event != "" {
			s.metrics.frame(outcomeSkipped)
			s.log.Debug("skipping named event", slog.String("event", f.Event), slog.String("id", f.ID))
			continue
		}

		v, err := stagehand.ParseJSON([]byte(f.Data), s.decode)
		if err != nil {
			s.metrics.frame(outcomeInvalid)
			return s.fail(err)
		}
		x, err := s.conv.Coerce(stagehand.NewCoerceState(s.ctx), v)
		if err != nil {
			s.metrics.frame(outcomeInvalid)
			return s.fail(err)
		}
		s.metrics.frame(outcomeValue)
		s.values.Add(1)
		s.current = x
		return true
	}
}

// Current returns the value decoded by the last successful Next.
func (s *Stream[T]) Current() T { return s.current }

// Err returns the fault that terminated the stream, if any. Natural
// completion and Close both leave it nil.
func (s *Stream[T]) Err() error { return s.err }

// Close stops the stream. Any in-progress pull is canceled and the source is
// closed when it implements io.Closer. Calling Close again, or after the
// feed completed, has no further effect.
func (s *Stream[T]) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.cancel()
		s.finish("closed", nil)
		if c, ok := s.src.(io.Closer); ok {
			err = c.Close()
		}
	})
	return err
}

// All returns the remaining values as a range-over-func sequence. A terminal
// fault is yielded once as the final pair. Breaking out of the loop closes
// the stream.
func (s *Stream[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.current, nil) {
				return
			}
		}
		if s.err != nil {
			var zero T
			yield(zero, s.err)
		}
	}
}

func (s *Stream[T]) terminal() bool {
	if s.closed.Load() && s.state < stateDone {
		s.state = stateClosed
	}
	return s.state >= stateDone
}

func (s *Stream[T]) fail(err error) bool {
	prev := s.state
	s.state = stateFailed
	s.err = err
	var zero T
	s.current = zero
	s.log.Debug("stream failed", slog.String("from", prev.String()), slog.Int64("frames", s.frames.Load()), slog.Any("error", err))
	s.finish("failed", err)
	return false
}

// finish records the terminal result once and ends the stream span.
func (s *Stream[T]) finish(result string, err error) {
	s.finishOnce.Do(func() {
		s.metrics.result(result)
		s.span.SetAttributes(
			attrResult.String(result),
			attrFrames.Int64(s.frames.Load()),
			attrValues.Int64(s.values.Load()),
		)
		if err != nil {
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, err.Error())
		}
		s.span.End()
	})
}

// drain pulls and discards frames until the source is exhausted so the
// transport is not left with unread data.
func (s *Stream[T]) drain() {
	n := 0
	for {
		_, err := s.src.Next(s.ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && !s.closed.Load() {
				s.log.Debug("drain stopped", slog.Int("discarded", n), slog.Any("error", err))
			}
			break
		}
		s.metrics.frame(outcomeSkipped)
		n++
	}
	if n > 0 {
		s.log.Debug("discarded frames after completion", slog.Int("discarded", n))
	}
}
