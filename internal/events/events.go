// Package events provides a small in-process event bus used to notify
// subscribers about analysis lifecycle and flagged anomalies.
package events

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Nikhil-sh2112/azure-webapp/internal/models"
)

// EventType defines the type of event.
type EventType string

const (
	// Analysis lifecycle events
	EventAnalysisStarted   EventType = "analysis:started"
	EventAnalysisCompleted EventType = "analysis:completed"
	EventAnalysisFailed    EventType = "analysis:failed"

	// Detection events
	EventAnomalyDetected EventType = "anomaly:detected"

	// System events
	EventSystemError   EventType = "system:error"
	EventSystemWarning EventType = "system:warning"
)

// Event represents a single bus event.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp int64       `json:"timestamp"` // Nanosecond precision
	Data      interface{} `json:"data"`
}

// EventHandler is a function that handles events.
type EventHandler func(event *Event)

// EventBus distributes events to subscribers. Dispatch is synchronous:
// handlers run on the emitting goroutine, so they must be cheap.
type EventBus struct {
	handlers      map[EventType][]EventHandler
	globalHandler EventHandler
	mu            sync.RWMutex

	// Incremented under the read lock; must stay atomic.
	eventsEmitted atomic.Uint64
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

// SetGlobalHandler sets a handler that receives all events.
func (eb *EventBus) SetGlobalHandler(handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.globalHandler = handler
}

// Subscribe adds a handler for a specific event type.
func (eb *EventBus) Subscribe(eventType EventType, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
}

// Unsubscribe removes all handlers for a specific event type.
func (eb *EventBus) Unsubscribe(eventType EventType) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	delete(eb.handlers, eventType)
}

// Emit dispatches an event to all registered handlers.
func (eb *EventBus) Emit(eventType EventType, data interface{}) {
	event := &Event{
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		Data:      data,
	}

	eb.mu.RLock()
	defer eb.mu.RUnlock()

	eb.eventsEmitted.Add(1)

	if eb.globalHandler != nil {
		eb.globalHandler(event)
	}
	if handlers, ok := eb.handlers[event.Type]; ok {
		for _, handler := range handlers {
			handler(event)
		}
	}
}

// EventsEmitted returns the number of events dispatched so far.
func (eb *EventBus) EventsEmitted() uint64 {
	return eb.eventsEmitted.Load()
}

// Helper functions for common event types

// EmitAnalysisStarted signals that an analysis run has begun.
func (eb *EventBus) EmitAnalysisStarted(runID string, lines int) {
	eb.Emit(EventAnalysisStarted, map[string]interface{}{
		"run_id": runID,
		"lines":  lines,
	})
}

// EmitAnalysisCompleted publishes a finished report.
func (eb *EventBus) EmitAnalysisCompleted(report *models.AnalysisReport) {
	eb.Emit(EventAnalysisCompleted, report)
}

// EmitAnalysisFailed signals a failed run.
func (eb *EventBus) EmitAnalysisFailed(runID string, err error) {
	eb.Emit(EventAnalysisFailed, map[string]interface{}{
		"run_id": runID,
		"error":  err.Error(),
	})
}

// EmitAnomalyDetected publishes a single flagged record.
func (eb *EventBus) EmitAnomalyDetected(runID string, record *models.ScoredRecord) {
	eb.Emit(EventAnomalyDetected, map[string]interface{}{
		"run_id": runID,
		"record": record,
	})
}

// EmitError publishes a system error event.
func (eb *EventBus) EmitError(err error, context string) {
	eb.Emit(EventSystemError, map[string]interface{}{
		"error":   err.Error(),
		"context": context,
	})
}

// EmitWarning publishes a system warning event.
func (eb *EventBus) EmitWarning(message, context string) {
	eb.Emit(EventSystemWarning, map[string]interface{}{
		"message": message,
		"context": context,
	})
}

// JSON returns the JSON representation of an event.
func (e *Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}
