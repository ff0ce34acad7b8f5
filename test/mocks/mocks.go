// Package mocks provides mock implementations for testing the analysis
// pipeline.
package mocks

import (
	"sync"

	"github.com/Nikhil-sh2112/azure-webapp/internal/events"
)

// =============================================================================
// Line Source Mocks
// =============================================================================

// MockSource is a configurable line source. It satisfies
// logsource.Source.
type MockSource struct {
	mu    sync.Mutex
	lines []string
	err   error
	calls int
}

// NewMockSource creates a mock source serving the given lines.
func NewMockSource(lines []string) *MockSource {
	return &MockSource{lines: lines}
}

// Lines returns the configured lines or the configured error.
func (m *MockSource) Lines() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]string, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

// SetError makes subsequent Lines calls fail.
func (m *MockSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetLines replaces the served lines.
func (m *MockSource) SetLines(lines []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = lines
}

// Calls returns how many times Lines has been invoked.
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// =============================================================================
// Event Recorder
// =============================================================================

// EventRecorder captures every event published on a bus.
type EventRecorder struct {
	mu     sync.Mutex
	events []*events.Event
}

// NewEventRecorder attaches a recorder to the bus as its global handler.
func NewEventRecorder(bus *events.EventBus) *EventRecorder {
	r := &EventRecorder{}
	bus.SetGlobalHandler(r.record)
	return r
}

func (r *EventRecorder) record(e *events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a snapshot of the recorded events.
func (r *EventRecorder) Events() []*events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// CountByType returns how many recorded events carry the given type.
func (r *EventRecorder) CountByType(t events.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}
