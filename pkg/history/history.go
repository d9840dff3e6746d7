// Package history persists every accepted inbound message for audit and
// replay. History is a best-effort side channel: a failed write is logged
// and counted by the caller but never blocks or reorders chat delivery.
package history

import "errors"

// Recorder is an append-only sink for accepted inbound messages.
type Recorder interface {
	// Record appends one entry: the origin endpoint in "ip:port" form and
	// the raw message exactly as received.
	Record(origin, raw string) error
	Close() error
}

// Multi fans Record out to several sinks. One failing sink does not stop the
// others; all errors are joined in the return value.
type Multi []Recorder

func (m Multi) Record(origin, raw string) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(origin, raw); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every record. Used when history is disabled.
type Nop struct{}

func (Nop) Record(string, string) error { return nil }
func (Nop) Close() error                { return nil }

// Compile-time checks: every sink implements Recorder.
var (
	_ Recorder = (*FileLog)(nil)
	_ Recorder = (*SQLiteLog)(nil)
	_ Recorder = Multi(nil)
	_ Recorder = Nop{}
)
