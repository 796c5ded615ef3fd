package lockstep

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TraceEntry is one recorded dispatch in a trace.
type TraceEntry[T any] struct {
	Stamp Stamp `yaml:"stamp"`
	Value T     `yaml:"value"`
}

// Trace is a recorded, stamp-ordered sequence of dispatches. Traces are the
// interchange format for replaying captured streams through a synchronizer,
// either directly or via a FileSource.
type Trace[T any] struct {
	Entries []TraceEntry[T] `yaml:"entries"`
}

// DecodeTrace parses a YAML trace and verifies that its stamps are
// non-decreasing. Out-of-order entries fail with ErrOutOfOrderStamp.
func DecodeTrace[T any](data []byte) (Trace[T], error) {
	var tr Trace[T]
	if err := yaml.Unmarshal(data, &tr); err != nil {
		return Trace[T]{}, fmt.Errorf("decode trace: %w", err)
	}
	for i := 1; i < len(tr.Entries); i++ {
		if tr.Entries[i].Stamp < tr.Entries[i-1].Stamp {
			return Trace[T]{}, fmt.Errorf("trace entry %d stamped %d behind %d: %w",
				i, tr.Entries[i].Stamp, tr.Entries[i-1].Stamp, ErrOutOfOrderStamp)
		}
	}
	return tr, nil
}

// Encode serializes the trace as YAML.
func (tr Trace[T]) Encode() ([]byte, error) {
	data, err := yaml.Marshal(tr)
	if err != nil {
		return nil, fmt.Errorf("encode trace: %w", err)
	}
	return data, nil
}

// Dispatches converts the trace entries to dispatches in order.
func (tr Trace[T]) Dispatches() []Dispatch[T] {
	ds := make([]Dispatch[T], len(tr.Entries))
	for i, e := range tr.Entries {
		ds[i] = NewDispatch(e.Stamp, e.Value)
	}
	return ds
}

// TraceFrom records a sequence of dispatches as a trace.
func TraceFrom[T any](ds []Dispatch[T]) Trace[T] {
	entries := make([]TraceEntry[T], len(ds))
	for i, d := range ds {
		entries[i] = TraceEntry[T]{Stamp: d.Stamp, Value: d.Value}
	}
	return Trace[T]{Entries: entries}
}
