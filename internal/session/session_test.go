package session

import (
	"testing"
	"time"

	"github.com/aryy8/yatriguard/internal/models"
	"github.com/aryy8/yatriguard/internal/score"
)

func TestSession_EndToEnd(t *testing.T) {
	server, stop := startPeer(t, 19451)
	defer stop()

	sess := New(Config{ServerURL: "ws://127.0.0.1:19451", UserID: "u1"})
	defer sess.Close()

	frames := sess.Frames()
	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range frames {
			received++
		}
	}()

	sess.Connect()
	waitFor(t, 2*time.Second, "connected phase", func() bool {
		return sess.Snapshot().Connection.Phase == PhaseConnected
	})
	waitFor(t, 2*time.Second, "initial trip status", func() bool {
		return sess.Snapshot().Trip != nil
	})

	sess.StartTrip()
	waitFor(t, 2*time.Second, "active trip", func() bool {
		trip := sess.Snapshot().Trip
		return trip != nil && trip.IsActive
	})
	baseline := sess.Snapshot().Trip

	// A fix inside the military zone must come back flagged.
	sess.SendLocation(models.LocationFix{Lat: 26.9124, Lng: 75.7873})
	waitFor(t, 2*time.Second, "red zone analysis", func() bool {
		analysis := sess.Snapshot().Analysis
		return analysis != nil && analysis.DetectionResults.RedZoneDetection.IsRedZone
	})

	analysis := sess.Snapshot().Analysis
	if analysis.IsSafe {
		t.Error("red zone analysis should not be safe")
	}
	if got := score.Score(analysis); got >= 40 {
		t.Errorf("red zone score should be well into the danger bands, got %v", got)
	}

	// The battery patch must touch only the battery fields.
	if !server.PushBatteryUpdate("u1", 40, models.ModeLow) {
		t.Fatal("battery push failed")
	}
	waitFor(t, 2*time.Second, "battery patch", func() bool {
		trip := sess.Snapshot().Trip
		return trip != nil && trip.BatteryLevel == 40
	})
	trip := sess.Snapshot().Trip
	if trip.ProcessingMode != models.ModeLow {
		t.Errorf("expected processing mode low, got %s", trip.ProcessingMode)
	}
	if trip.TripID != baseline.TripID || trip.IsActive != baseline.IsActive {
		t.Error("battery patch changed unrelated trip fields")
	}

	// A pushed alert appends to the event sequence.
	eventsBefore := len(trip.SafetyEvents)
	ok := server.PushFrame("u1", []byte(`{
		"type": "safety_alert",
		"payload": {"id": "alert-1", "type": "distress", "severity": "medium", "message": "Unusual behavior detected", "timestamp": "t", "acknowledged": false}
	}`))
	if !ok {
		t.Fatal("alert push failed")
	}
	waitFor(t, 2*time.Second, "appended alert", func() bool {
		trip := sess.Snapshot().Trip
		return trip != nil && len(trip.SafetyEvents) == eventsBefore+1
	})

	// Optimistic local acknowledgment.
	sess.AcknowledgeAlert("alert-1")
	waitFor(t, 2*time.Second, "acknowledged alert", func() bool {
		trip := sess.Snapshot().Trip
		for _, event := range trip.SafetyEvents {
			if event.ID == "alert-1" {
				return event.Acknowledged
			}
		}
		return false
	})

	sess.Disconnect()
	snap := sess.Snapshot()
	if snap.Connection.Phase != PhaseDisconnected || snap.Trip != nil || snap.Analysis != nil {
		t.Errorf("disconnect must clear the session view: %+v", snap.Connection)
	}

	sess.Close()
	<-done
	if received == 0 {
		t.Error("frame tap observed no inbound frames")
	}
}

func TestSession_CommandsBeforeConnectAreSilent(t *testing.T) {
	sess := New(Config{ServerURL: "ws://127.0.0.1:19452", UserID: "u2"})
	defer sess.Close()

	sess.SendLocation(models.LocationFix{Lat: 1, Lng: 1})
	sess.SendSensorSample(models.SensorSample{})
	sess.StartTrip()
	sess.StopTrip()
	sess.AcknowledgeAlert("nope")

	snap := sess.Snapshot()
	if snap.Connection.Phase != PhaseDisconnected || snap.LastError != "" {
		t.Errorf("commands before connect must leave the session untouched: %+v", snap)
	}
}

func TestSession_URLDerivation(t *testing.T) {
	sess := New(Config{ServerURL: "ws://example.com:8000/", UserID: "traveler-7"})
	defer sess.Close()
	if got := sess.URL(); got != "ws://example.com:8000/ws/traveler-7" {
		t.Errorf("unexpected endpoint %q", got)
	}
}
