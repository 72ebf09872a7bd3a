// Package diagnostics collects per-declaration processing messages for one
// document pass and applies the fail/silent severity policy.
package diagnostics

import (
	"slices"
	"sort"

	"bennypowers.dev/cssremap/internal/log"
	"bennypowers.dev/cssremap/internal/sourcemap"
)

// Severity of a diagnostic
type Severity int

const (
	// SeverityWarning is the default for per-declaration failures
	SeverityWarning Severity = iota
	// SeverityError is used when failures are escalated
	SeverityError
)

// Diagnostic is a structured processing message: a stable label plus
// optional human-readable detail, anchored to a generated-CSS position
type Diagnostic struct {
	Label    string
	Detail   string
	Severity Severity
	Position sourcemap.Position
}

func (d Diagnostic) String() string {
	if d.Detail == "" {
		return d.Label
	}
	return d.Label + ": " + d.Detail
}

// Collector accumulates diagnostics for one document pass.
// fail escalates everything to error severity; silent without fail
// suppresses collection entirely.
type Collector struct {
	fail   bool
	silent bool
	diags  []Diagnostic
}

// NewCollector creates a collector with the given severity policy
func NewCollector(fail, silent bool) *Collector {
	return &Collector{fail: fail, silent: silent}
}

// Add records one diagnostic unless the collector is silenced
func (c *Collector) Add(label, detail string, pos sourcemap.Position) {
	if c.silent && !c.fail {
		return
	}
	severity := SeverityWarning
	if c.fail {
		severity = SeverityError
	}
	c.diags = append(c.diags, Diagnostic{
		Label:    label,
		Detail:   detail,
		Severity: severity,
		Position: pos,
	})
}

// All returns the collected diagnostics ordered by source position, so
// reporting stays deterministic regardless of processing order
func (c *Collector) All() []Diagnostic {
	out := slices.Clone(c.diags)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Position, out[j].Position
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return pi.Column < pj.Column
	})
	return out
}

// Report logs every collected diagnostic through the shared logger
func (c *Collector) Report() {
	for _, d := range c.All() {
		if d.Severity == SeverityError {
			log.Error("%d:%d %s", d.Position.Line, d.Position.Column, d)
		} else {
			log.Warn("%d:%d %s", d.Position.Line, d.Position.Column, d)
		}
	}
}
