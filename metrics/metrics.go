// Package metrics counts reconciliation and relay work. The server exposes
// the Prometheus collector on /metrics; the CLI uses the no-op variant.
package metrics

import "time"

// Recorder receives one call per completed operation.
type Recorder interface {
	// RecordBatch counts the outcome of one batch application.
	RecordBatch(event string, created, updated, unchanged, misses, invalid int)
	// RecordRoster counts rows added to and removed from the table.
	RecordRoster(added, removed int)
	// RecordRelay observes one relay solve. result is "ok", "no_solution" or "error".
	RecordRelay(kind, result string, took time.Duration)
}

// Nop discards everything.
type Nop struct{}

var _ Recorder = Nop{}

// NewNop returns a Recorder that does nothing.
func NewNop() Nop { return Nop{} }

func (Nop) RecordBatch(string, int, int, int, int, int) {}
func (Nop) RecordRoster(int, int)                       {}
func (Nop) RecordRelay(string, string, time.Duration)   {}
