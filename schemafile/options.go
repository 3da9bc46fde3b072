// Package schemafile builds converters over wire.Value from JSON Schema style
// descriptor documents written in YAML or JSON.
//
// Supported keywords: type (object, array, string, number, integer, boolean,
// null), properties, required, additionalProperties (as a homogeneous map),
// items, enum, const, nullable, oneOf/anyOf (first match in declared order),
// discriminator (propertyName and mapping), x-wire-name and local $ref into
// $defs or definitions. Anything else is reported as a Diag warning.
package schemafile

import "fmt"

// Options controls import behavior.
type Options struct {
	// Root names the $defs entry to import. Empty imports the document root.
	Root string
	// StrictKeywords turns unsupported keyword warnings into errors.
	StrictKeywords bool
}

// Diag carries non-fatal warnings produced during import.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
