package session

import (
	"testing"
	"time"

	"github.com/aryy8/yatriguard/internal/models"
)

func TestCommands_DroppedWhileDisconnected(t *testing.T) {
	client, store := newTestClient(19448) // nothing listening, never connected
	commander := NewCommander(client, store)
	store.SetTrip(sampleTrip())

	// None of these may panic, send, or surface an error.
	commander.SendLocation(models.LocationFix{Lat: 1, Lng: 2})
	commander.SendSensorSample(models.SensorSample{})
	commander.StartTrip()
	commander.StopTrip()
	commander.AcknowledgeAlert("e1")

	snap := store.Snapshot()
	if snap.LastError != "" {
		t.Errorf("dropped sends must not surface errors, got %q", snap.LastError)
	}
	if snap.Trip.SafetyEvents[0].Acknowledged {
		t.Error("acknowledge while disconnected must not flip the local flag")
	}
}

func TestCommands_DroppedInEveryNonConnectedPhase(t *testing.T) {
	client, store := newTestClient(19448)
	commander := NewCommander(client, store)

	for _, phase := range []Phase{PhaseDisconnected, PhaseConnecting, PhaseRetrying, PhaseFailed} {
		store.SetConnection(ConnectionState{Phase: phase})
		commander.SendLocation(models.LocationFix{Lat: 1, Lng: 2})
		commander.StartTrip()
	}
	// Nothing to assert beyond the absence of panics and errors; there is no
	// connection that could have transmitted anything.
	if snap := store.Snapshot(); snap.LastError != "" {
		t.Errorf("unexpected error surfaced: %q", snap.LastError)
	}
}

func TestCommands_SensorSampleDefaultsMagnetometer(t *testing.T) {
	server, stop := startPeer(t, 19449)
	defer stop()

	client, store := newTestClient(19449)
	commander := NewCommander(client, store)
	client.Connect()
	waitFor(t, 2*time.Second, "connected phase", func() bool {
		return store.Connection().Phase == PhaseConnected
	})

	commander.SendSensorSample(models.SensorSample{
		Accelerometer: models.Vector3{X: 0.1, Y: 0.2, Z: 9.8},
		Gyroscope:     models.Vector3{X: 0.01},
		// Magnetometer deliberately absent.
	})

	waitFor(t, 2*time.Second, "sensor payload at the peer", func() bool {
		return server.LastSensor("test-user") != nil
	})

	sensor := server.LastSensor("test-user")
	if sensor.Magnetometer != (models.Vector3{}) {
		t.Errorf("missing magnetometer must go out as a zero vector, got %+v", sensor.Magnetometer)
	}
	if sensor.Accelerometer.Z != 9.8 {
		t.Errorf("accelerometer not forwarded: %+v", sensor.Accelerometer)
	}
	if sensor.Timestamp == "" {
		t.Error("samples must be timestamped at send time")
	}

	client.Disconnect()
}
