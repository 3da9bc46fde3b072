package stream

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// UpstreamError is raised when the feed carries an error sentinel frame.
type UpstreamError struct {
	// Message is the human-readable message derived from the payload.
	Message string
	// Raw is the payload text exactly as received.
	Raw string
	// Body is the indented JSON body, empty when none could be found.
	Body string
}

func (e *UpstreamError) Error() string { return "stream: upstream error: " + e.Message }

// newUpstreamError parses the raw sentinel payload as JSON. The payload is
// tried verbatim first; when that is not JSON the body following the sentinel
// prefix is used. Without any JSON body the raw text becomes the message.
func newUpstreamError(raw string) *UpstreamError {
	e := &UpstreamError{Message: raw, Raw: raw}
	body := raw
	if !gjson.Valid(body) {
		body = strings.TrimSpace(strings.TrimPrefix(raw, sentinelError))
		body = strings.TrimLeft(body, ":")
		body = strings.TrimSpace(body)
		if !gjson.Valid(body) {
			return e
		}
	}
	e.Body = string(pretty.Pretty([]byte(body)))
	for _, key := range []string{"message", "error.message", "error"} {
		if r := gjson.Get(body, key); r.Type == gjson.String && r.Str != "" {
			e.Message = r.Str
			return e
		}
	}
	e.Message = string(pretty.Ugly([]byte(body)))
	return e
}
