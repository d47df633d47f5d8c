package models

import "encoding/json"

// Frame type discriminants exchanged with the analysis service.
const (
	// client -> peer
	TypeConnect          = "connect"
	TypeLocationUpdate   = "location_update"
	TypeSensorData       = "sensor_data"
	TypeStartTrip        = "start_trip"
	TypeStopTrip         = "stop_trip"
	TypeAcknowledgeAlert = "acknowledge_alert"

	// peer -> client
	TypeSafetyAnalysis = "safety_analysis"
	TypeTripStatus     = "trip_status"
	TypeSafetyAlert    = "safety_alert"
	TypeBatteryUpdate  = "battery_update"
)

// Frame is one inbound message envelope; Payload is decoded once the
// discriminant is known.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Envelope is the outbound counterpart of Frame.
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ConnectFrame announces the session after the channel opens. The peer
// expects its fields at the top level rather than nested in a payload.
type ConnectFrame struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
}

// LocationUpdatePayload carries one geolocation fix.
type LocationUpdatePayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp string  `json:"timestamp"`
}

// SensorDataPayload carries one IMU sample. All three vectors are always
// present on the wire.
type SensorDataPayload struct {
	Accelerometer Vector3 `json:"accelerometer"`
	Gyroscope     Vector3 `json:"gyroscope"`
	Magnetometer  Vector3 `json:"magnetometer"`
	Timestamp     string  `json:"timestamp"`
}

// TripControlPayload carries the timestamp for start_trip/stop_trip.
type TripControlPayload struct {
	Timestamp string `json:"timestamp"`
}

// AcknowledgeAlertPayload identifies the event being acknowledged.
type AcknowledgeAlertPayload struct {
	AlertID string `json:"alert_id"`
}

// BatteryUpdatePayload is the narrow battery patch pushed by the peer.
type BatteryUpdatePayload struct {
	Level int            `json:"level"`
	Mode  ProcessingMode `json:"mode"`
}
