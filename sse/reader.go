// Package sse parses text/event-stream bodies into stream frames.
package sse

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/browserbase/stagehand-go/stream"
)

const maxLine = 1024 * 1024 // 1MB max line

// Reader is a stream.FrameSource over an event-stream body.
type Reader struct {
	body    io.Reader
	scanner *bufio.Scanner
	first   bool
	lastID  string
}

// NewReader returns a Reader over r. If r is an io.Closer, Close closes it.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{body: r, scanner: scanner, first: true}
}

// Next returns the next dispatched frame, or io.EOF at the end of the body.
// The id field persists across frames until the server changes it.
func (r *Reader) Next(ctx context.Context) (stream.Frame, error) {
	var (
		f       stream.Frame
		pending bool
		data    strings.Builder
	)
	for r.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stream.Frame{}, err
		}
		line := r.scanner.Text()
		if r.first {
			line = strings.TrimPrefix(line, "\ufeff")
			r.first = false
		}

		// Blank line dispatches the event
		if line == "" {
			if pending {
				return r.dispatch(f, &data), nil
			}
			continue
		}
		// Comment
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			f.Event = value
		case "data":
			if f.HasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			f.HasData = true
		case "id":
			if !strings.ContainsRune(value, 0) {
				r.lastID = value
			}
		case "retry":
			ms, err := strconv.ParseUint(value, 10, 63)
			if err != nil {
				continue
			}
			f.Retry = time.Duration(ms) * time.Millisecond
		default:
			continue
		}
		pending = true
	}
	if err := r.scanner.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stream.Frame{}, ctxErr
		}
		return stream.Frame{}, fmt.Errorf("sse: reading stream: %w", err)
	}
	if pending && f.HasData {
		return r.dispatch(f, &data), nil
	}
	return stream.Frame{}, io.EOF
}

func (r *Reader) dispatch(f stream.Frame, data *strings.Builder) stream.Frame {
	f.Data = data.String()
	f.ID = r.lastID
	return f
}

// Close closes the underlying body when it is an io.Closer.
func (r *Reader) Close() error {
	if c, ok := r.body.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
