// Package trace implements the optional debug trace side channel for the
// parser and interpreter. A trace is never part of the evaluation contract:
// Parse and Interpret behave identically whether or not a Writer is
// attached.
package trace

import (
	"fmt"
	"os"

	"github.com/dekarrin/rezi"
)

// Event is one recorded step of parsing or interpretation.
type Event struct {
	Source string // "parser" or "interpreter"
	Rule   string // e.g. "flush-literal", "collapse", "dispatch:C"
	Pos    int    // 1-indexed character position
	Detail string
}

// Writer appends rezi-encoded Events to a backing file. The zero Writer is
// not usable; construct with Open.
type Writer struct {
	f *os.File
}

// Open creates (truncating) the trace file at path.
func Open(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %q: %w", path, err)
	}
	return &Writer{f: f}, nil
}

// Emit appends one event to the trace file. Errors are returned rather than
// panicking so a tracing failure never takes down the interpreter.
func (w *Writer) Emit(ev Event) error {
	if w == nil {
		return nil
	}
	enc := rezi.EncBinary(ev)
	if _, err := w.f.Write(enc); err != nil {
		return fmt.Errorf("trace: write event: %w", err)
	}
	return nil
}

// Close flushes and closes the backing file.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	return w.f.Close()
}

// MarshalBinary implements encoding.BinaryMarshaler so Event can be passed
// directly to rezi.EncBinary.
func (e Event) MarshalBinary() ([]byte, error) {
	return rezi.Enc(struct {
		Source string
		Rule   string
		Pos    int
		Detail string
	}{e.Source, e.Rule, e.Pos, e.Detail})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for reading a
// previously written trace back.
func (e *Event) UnmarshalBinary(data []byte) error {
	var raw struct {
		Source string
		Rule   string
		Pos    int
		Detail string
	}
	if _, err := rezi.Dec(data, &raw); err != nil {
		return err
	}
	e.Source, e.Rule, e.Pos, e.Detail = raw.Source, raw.Rule, raw.Pos, raw.Detail
	return nil
}

// ReadAll decodes every event appended to the rezi stream at path.
func ReadAll(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trace: read %q: %w", path, err)
	}

	var events []Event
	for len(data) > 0 {
		var ev Event
		n, err := rezi.DecBinary(data, &ev)
		if err != nil {
			return nil, fmt.Errorf("trace: decode event: %w", err)
		}
		events = append(events, ev)
		data = data[n:]
	}
	return events, nil
}
