// Package codec holds converters that map wire scalars onto richer Go types.
package codec

import (
	"time"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/conv"
)

// TimeRFC3339 converts between RFC3339 strings and time.Time. Dumped times
// are normalized to UTC.
func TimeRFC3339() stagehand.Converter[time.Time] {
	return conv.Transform(conv.String(), parseRFC3339, func(t time.Time) (string, error) {
		return formatRFC3339Canonical(t), nil
	})
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
