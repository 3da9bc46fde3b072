// Package stream decodes a server-sent event feed into a lazy, cancelable
// sequence of typed values.
//
// Usage:
//
//	st := stream.Open(ctx, src, events.DataConverter())
//	defer st.Close()
//	for st.Next() {
//	    ev := st.Current()
//	    // handle ev
//	}
//	if err := st.Err(); err != nil {
//	    // *stream.UpstreamError, stagehand.Issues or a transport error
//	}
package stream

import (
	"context"
	"io"
	"time"
)

// Frame is one server-sent event record.
type Frame struct {
	Event string
	Data  string
	ID    string
	Retry time.Duration
	// HasData reports whether the record carried at least one data line.
	HasData bool
}

// FrameSource yields frames in arrival order. Next returns io.EOF once the
// feed is exhausted and must return promptly when ctx is canceled.
//
//go:generate mockgen -package=stream_test -destination=mock_frame_source_test.go github.com/browserbase/stagehand-go/stream FrameSource
type FrameSource interface {
	Next(ctx context.Context) (Frame, error)
}

// FrameSourceFunc adapts a function to FrameSource.
type FrameSourceFunc func(ctx context.Context) (Frame, error)

func (f FrameSourceFunc) Next(ctx context.Context) (Frame, error) { return f(ctx) }

// Frames returns a FrameSource over a fixed list of frames.
func Frames(frames ...Frame) FrameSource {
	return &sliceSource{frames: frames}
}

type sliceSource struct {
	frames []Frame
	pos    int
}

func (s *sliceSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if s.pos >= len(s.frames) {
		return Frame{}, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}
