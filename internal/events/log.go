package events

import (
	"fmt"
	"io"
	"sync"
)

// Observer is called for every appended event while the log lock is held,
// so observers see events in log order. Observers must not append.
type Observer func(Event)

// Log is the single serialising point of a run. Appends are linearised and
// each event is rendered to the trace writer inside the same critical section.
type Log struct {
	mu        sync.Mutex
	events    []Event
	trace     io.Writer
	observers []Observer
	closed    bool
}

// NewLog creates an empty log. A nil trace discards the textual rendering.
func NewLog(trace io.Writer) *Log {
	if trace == nil {
		trace = io.Discard
	}
	return &Log{
		events: make([]Event, 0, 64),
		trace:  trace,
	}
}

// Subscribe registers an observer for subsequent appends
func (l *Log) Subscribe(fn Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// Append adds e to the end of the log. Appending after SimulationEnded is a
// programming error.
func (l *Log) Append(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		panic(fmt.Sprintf("events: append of %s after simulation ended", e.Type))
	}
	if e.Items != nil {
		e.Items = e.Items.Clone()
	}
	l.events = append(l.events, e)
	fmt.Fprintln(l.trace, e.String())
	for _, fn := range l.observers {
		fn(e)
	}
	if e.Type == EventSimulationEnded {
		l.closed = true
	}
}

// Events returns a copy of the log in append order
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Event, len(l.events))
	for i, e := range l.events {
		if e.Items != nil {
			e.Items = e.Items.Clone()
		}
		out[i] = e
	}
	return out
}

// Len returns the number of appended events
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Closed reports whether SimulationEnded has been appended
func (l *Log) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
