package stagehand

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeInvalidEnum    = "invalid_enum"
	CodeSchemaMismatch = "schema_mismatch"
	CodeParseError     = "parse_error"
	CodeOverflow       = "overflow"
	CodeDuplicateKey   = "duplicate_key"
)

// Issue represents a single conversion fault.
type Issue struct {
	Path    string // Dotted field path (for example: options.model.apiKey or items[2]).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected shape, etc.
	Cause   error  // Optional: underlying error; per-variant Issues for union mismatches.
	// Params carries structured parameters (e.g., {"value":"x", "allowed":[...]})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of conversion faults that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		p := it.Path
		if p == "" {
			p = "<root>"
		}
		// e.g. required at options.model
		fmt.Fprintf(b, "%s at %s", it.Code, p)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes of the contained issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// HasCode reports whether any issue carries code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
