package session

import (
	"time"

	"github.com/aryy8/yatriguard/internal/models"
)

// Commander builds and transmits the typed client commands. Every command is
// a guarded no-op unless the session is connected, and every command is
// timestamped at the moment of send rather than at data acquisition.
type Commander struct {
	client *Client
	store  *Store
}

// NewCommander creates a commander sending through client.
func NewCommander(client *Client, store *Store) *Commander {
	return &Commander{client: client, store: store}
}

func (c *Commander) connected() bool {
	return c.store.Connection().Phase == PhaseConnected
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// SendLocation forwards one geolocation fix.
func (c *Commander) SendLocation(fix models.LocationFix) {
	if !c.connected() {
		return
	}
	c.client.Send(models.Envelope{
		Type: models.TypeLocationUpdate,
		Payload: models.LocationUpdatePayload{
			Latitude:  fix.Lat,
			Longitude: fix.Lng,
			Timestamp: now(),
		},
	})
}

// SendSensorSample forwards one IMU sample. A missing magnetometer is sent
// as a zero vector, matching what the peer expects.
func (c *Commander) SendSensorSample(sample models.SensorSample) {
	if !c.connected() {
		return
	}
	magnetometer := models.Vector3{}
	if sample.Magnetometer != nil {
		magnetometer = *sample.Magnetometer
	}
	c.client.Send(models.Envelope{
		Type: models.TypeSensorData,
		Payload: models.SensorDataPayload{
			Accelerometer: sample.Accelerometer,
			Gyroscope:     sample.Gyroscope,
			Magnetometer:  magnetometer,
			Timestamp:     now(),
		},
	})
}

// StartTrip asks the peer to begin trip monitoring.
func (c *Commander) StartTrip() {
	if !c.connected() {
		return
	}
	c.client.Send(models.Envelope{
		Type:    models.TypeStartTrip,
		Payload: models.TripControlPayload{Timestamp: now()},
	})
}

// StopTrip asks the peer to end trip monitoring.
func (c *Commander) StopTrip() {
	if !c.connected() {
		return
	}
	c.client.Send(models.Envelope{
		Type:    models.TypeStopTrip,
		Payload: models.TripControlPayload{Timestamp: now()},
	})
}

// AcknowledgeAlert marks a safety event as seen. The local flag is flipped
// optimistically once the frame is on the wire; there is no rollback if the
// peer rejects it, and the peer's next trip_status refresh wins regardless.
func (c *Commander) AcknowledgeAlert(eventID string) {
	if !c.connected() {
		return
	}
	sent := c.client.Send(models.Envelope{
		Type:    models.TypeAcknowledgeAlert,
		Payload: models.AcknowledgeAlertPayload{AlertID: eventID},
	})
	if sent {
		c.store.AcknowledgeEvent(eventID)
	}
}
