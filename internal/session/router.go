package session

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/aryy8/yatriguard/internal/models"
)

// Router classifies inbound frames by their type discriminant and applies
// each to the store as exactly one mutation. Malformed or unrecognized
// frames are logged and dropped; a bad frame from the peer must never take
// the session down or leave state half-applied.
type Router struct {
	store *Store
}

// NewRouter creates a router writing into store.
func NewRouter(store *Store) *Router {
	return &Router{store: store}
}

// Handle decodes and applies one inbound frame.
func (r *Router) Handle(data []byte) {
	var frame models.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		logrus.Warnf("Dropping malformed frame: %v", err)
		return
	}

	switch frame.Type {
	case models.TypeSafetyAnalysis:
		var analysis models.SafetyAnalysis
		if err := json.Unmarshal(frame.Payload, &analysis); err != nil {
			logrus.Warnf("Dropping safety_analysis with bad payload: %v", err)
			return
		}
		r.store.SetAnalysis(&analysis)

	case models.TypeTripStatus:
		var trip models.TripStatus
		if err := json.Unmarshal(frame.Payload, &trip); err != nil {
			logrus.Warnf("Dropping trip_status with bad payload: %v", err)
			return
		}
		r.store.SetTrip(&trip)

	case models.TypeSafetyAlert:
		var event models.SafetyEvent
		if err := json.Unmarshal(frame.Payload, &event); err != nil {
			logrus.Warnf("Dropping safety_alert with bad payload: %v", err)
			return
		}
		if !r.store.AppendEvent(event) {
			logrus.Debugf("Ignoring safety_alert %s: no active trip status", event.ID)
			return
		}
		logrus.Warnf("Safety alert: %s (%s) - %s", event.Type, event.Severity, event.Message)

	case models.TypeBatteryUpdate:
		var battery models.BatteryUpdatePayload
		if err := json.Unmarshal(frame.Payload, &battery); err != nil {
			logrus.Warnf("Dropping battery_update with bad payload: %v", err)
			return
		}
		if !r.store.SetBattery(battery.Level, battery.Mode) {
			logrus.Debugf("Ignoring battery_update: no active trip status")
		}

	default:
		logrus.Debugf("Ignoring unknown frame type %q", frame.Type)
	}
}
