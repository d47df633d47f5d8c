package models

import "time"

// ProcessingMode is the peer-assigned operating tier, derived from the
// device's battery and network state.
type ProcessingMode string

const (
	ModeHigh     ProcessingMode = "high"
	ModeMedium   ProcessingMode = "medium"
	ModeLow      ProcessingMode = "low"
	ModeCritical ProcessingMode = "critical"
)

// EventType classifies a safety event.
type EventType string

const (
	EventFall           EventType = "fall"
	EventCrash          EventType = "crash"
	EventRedZone        EventType = "red_zone"
	EventDistress       EventType = "distress"
	EventLowBattery     EventType = "low_battery"
	EventConnectionLost EventType = "connection_lost"
)

// Severity grades a safety event.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// TripStatus mirrors the peer's view of the active monitoring trip. It is
// replaced wholesale by trip_status frames and patched in place by
// safety_alert and battery_update frames.
type TripStatus struct {
	TripID           string         `json:"trip_id"`
	IsActive         bool           `json:"is_active"`
	CurrentLocation  *GeoPoint      `json:"current_location"`
	SafetyEvents     []SafetyEvent  `json:"safety_events"`
	BatteryLevel     int            `json:"battery_level"`
	ProcessingMode   ProcessingMode `json:"processing_mode"`
	ConnectionStatus string         `json:"connection_status"`
}

// SafetyEvent is a single alert raised during a trip. Events are immutable
// once created; Acknowledged is the only field that changes afterwards, and
// only through the local acknowledge command.
type SafetyEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Severity     Severity  `json:"severity"`
	Message      string    `json:"message"`
	Location     *GeoPoint `json:"location,omitempty"`
	Timestamp    string    `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
}

// NewSafetyEvent creates an unacknowledged event stamped with the current time.
func NewSafetyEvent(id string, eventType EventType, severity Severity, message string, location *GeoPoint) SafetyEvent {
	return SafetyEvent{
		ID:        id,
		Type:      eventType,
		Severity:  severity,
		Message:   message,
		Location:  location,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}
