package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeMonthLoaded        MessageType = "month.loaded"
	TypeMonthLoadError     MessageType = "month.load_error"
	TypeOverrideSaved      MessageType = "override.saved"
	TypePreferencesUpdated MessageType = "preferences.updated"
	TypeNotification       MessageType = "notification"

	// Client -> Server command types
	TypePing MessageType = "ping"

	// Server -> Client response types
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// MonthLoadedPayload is the payload for month.loaded events.
type MonthLoadedPayload struct {
	Year               int      `json:"year"`
	Month              int      `json:"month"`
	DistinctEventCount int      `json:"distinct_event_count"`
	OccupiedDayCount   int      `json:"occupied_day_count"`
	DistinctLocations  []string `json:"distinct_locations"`
}

// MonthLoadErrorPayload is the payload for month.load_error events.
type MonthLoadErrorPayload struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// OverrideSavedPayload is the payload for override.saved events.
type OverrideSavedPayload struct {
	Date        string `json:"date"`
	IsAvailable bool   `json:"is_available"`
}

// PreferencesUpdatedPayload is the payload for preferences.updated events.
type PreferencesUpdatedPayload struct {
	MaxEventsPerWeek  int `json:"max_events_per_week"`
	MaxEventsPerMonth int `json:"max_events_per_month"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level       string `json:"level"` // info, warning, error, success
	Title       string `json:"title"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
