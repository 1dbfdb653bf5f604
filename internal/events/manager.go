package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventType represents different event types
type EventType string

const (
	ReviewStarted   EventType = "REVIEW_STARTED"
	ReviewCompleted EventType = "REVIEW_COMPLETED"
	AlertRaised     EventType = "ALERT_RAISED"
	TickerErrored   EventType = "TICKER_ERRORED"
	SnapshotSaved   EventType = "SNAPSHOT_SAVED"
	ReportWritten   EventType = "REPORT_WRITTEN"
	ErrorOccurred   EventType = "ERROR_OCCURRED"
)

// Event represents a system event. The manager stamps id and timestamp
// at emission time — the scoring core itself never touches the clock.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}

// Manager handles event emission and logging
type Manager struct {
	log zerolog.Logger
}

// NewManager creates a new event manager
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		log: log.With().Str("service", "events").Logger(),
	}
}

// Emit emits an event
func (m *Manager) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Module:    module,
	}

	// Log event
	eventJSON, _ := json.Marshal(event)
	m.log.Info().
		Str("event_type", string(eventType)).
		Str("module", module).
		RawJSON("event", eventJSON).
		Msg("Event emitted")
}

// EmitError emits an error event
func (m *Manager) EmitError(module string, err error, context map[string]interface{}) {
	data := map[string]interface{}{
		"error":   err.Error(),
		"context": context,
	}
	m.Emit(ErrorOccurred, module, data)
}
