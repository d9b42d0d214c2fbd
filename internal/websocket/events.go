package websocket

import (
	"log"
	"time"

	"github.com/agent-roster/backend/internal/roster"
	"github.com/agent-roster/backend/internal/storage/models"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastMonthLoaded sends a month.loaded event with the fresh summary.
func (b *EventBroadcaster) BroadcastMonthLoaded(year int, month time.Month, summary roster.MonthSummary) {
	payload := MonthLoadedPayload{
		Year:               year,
		Month:              int(month),
		DistinctEventCount: summary.DistinctEventCount,
		OccupiedDayCount:   summary.OccupiedDayCount,
		DistinctLocations:  summary.DistinctLocations,
	}

	msg := NewMessage(TypeMonthLoaded, payload)
	b.broadcast(msg)
}

// BroadcastMonthLoadError sends a month.load_error event.
func (b *EventBroadcaster) BroadcastMonthLoadError(year int, month time.Month, err error) {
	payload := MonthLoadErrorPayload{
		Year:    year,
		Month:   int(month),
		Error:   "load_error",
		Message: err.Error(),
	}

	msg := NewMessage(TypeMonthLoadError, payload)
	b.broadcast(msg)
}

// BroadcastOverrideSaved sends an override.saved event after the scheduling
// service has accepted the write.
func (b *EventBroadcaster) BroadcastOverrideSaved(date string, isAvailable bool) {
	payload := OverrideSavedPayload{
		Date:        date,
		IsAvailable: isAvailable,
	}

	msg := NewMessage(TypeOverrideSaved, payload)
	b.broadcast(msg)
}

// BroadcastPreferencesUpdated sends a preferences.updated event.
func (b *EventBroadcaster) BroadcastPreferencesUpdated(pref models.AgentPreference) {
	payload := PreferencesUpdatedPayload{
		MaxEventsPerWeek:  pref.MaxEventsPerWeek,
		MaxEventsPerMonth: pref.MaxEventsPerMonth,
	}

	msg := NewMessage(TypePreferencesUpdated, payload)
	b.broadcast(msg)
}

// BroadcastNotification sends a notification to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	payload := NotificationPayload{
		Level:       level,
		Title:       title,
		Message:     message,
		Dismissible: true,
	}

	msg := NewMessage(TypeNotification, payload)
	b.broadcast(msg)
}

// broadcast sends a message to all connected clients.
func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Printf("Error encoding WebSocket message: %v", err)
		return
	}

	b.hub.Broadcast(data)
}
