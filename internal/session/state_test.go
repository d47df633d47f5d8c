package session

import (
	"testing"

	"github.com/aryy8/yatriguard/internal/models"
)

func sampleTrip() *models.TripStatus {
	return &models.TripStatus{
		TripID:   "trip-1",
		IsActive: true,
		CurrentLocation: &models.GeoPoint{
			Lat: 26.9, Lng: 75.78, Timestamp: "2026-08-30T12:00:00Z",
		},
		SafetyEvents:     []models.SafetyEvent{{ID: "e1", Type: models.EventFall, Severity: models.SeverityHigh}},
		BatteryLevel:     85,
		ProcessingMode:   models.ModeHigh,
		ConnectionStatus: "connected",
	}
}

func TestStore_BatteryPatchWithoutTripIsNoOp(t *testing.T) {
	store := NewStore()
	if store.SetBattery(40, models.ModeLow) {
		t.Error("battery patch without a trip should report no-op")
	}
	if store.Snapshot().Trip != nil {
		t.Error("battery patch must never fabricate a trip")
	}
}

func TestStore_AppendEventWithoutTripIsNoOp(t *testing.T) {
	store := NewStore()
	if store.AppendEvent(models.SafetyEvent{ID: "e1"}) {
		t.Error("append without a trip should report no-op")
	}
	if store.Snapshot().Trip != nil {
		t.Error("alert patch must never fabricate a trip")
	}
}

func TestStore_BatteryPatchTouchesOnlyBatteryFields(t *testing.T) {
	store := NewStore()
	store.SetTrip(sampleTrip())

	if !store.SetBattery(40, models.ModeLow) {
		t.Fatal("expected patch to apply")
	}

	trip := store.Snapshot().Trip
	if trip.BatteryLevel != 40 || trip.ProcessingMode != models.ModeLow {
		t.Errorf("patch not applied: level=%d mode=%s", trip.BatteryLevel, trip.ProcessingMode)
	}
	if trip.TripID != "trip-1" || !trip.IsActive || len(trip.SafetyEvents) != 1 ||
		trip.CurrentLocation == nil || trip.CurrentLocation.Lat != 26.9 {
		t.Error("patch mutated fields other than battery level and processing mode")
	}
}

func TestStore_AppendEventExtendsSequenceOnly(t *testing.T) {
	store := NewStore()
	store.SetTrip(sampleTrip())

	if !store.AppendEvent(models.SafetyEvent{ID: "e2", Type: models.EventRedZone}) {
		t.Fatal("expected append to apply")
	}

	trip := store.Snapshot().Trip
	if len(trip.SafetyEvents) != 2 {
		t.Fatalf("expected 2 events, got %d", len(trip.SafetyEvents))
	}
	if trip.SafetyEvents[0].ID != "e1" || trip.SafetyEvents[1].ID != "e2" {
		t.Error("events must keep arrival order")
	}
	if trip.BatteryLevel != 85 || trip.TripID != "trip-1" {
		t.Error("append mutated fields other than the event sequence")
	}
}

func TestStore_AcknowledgeEvent(t *testing.T) {
	store := NewStore()
	store.SetTrip(sampleTrip())

	if !store.AcknowledgeEvent("e1") {
		t.Fatal("expected acknowledgment to apply")
	}
	if !store.Snapshot().Trip.SafetyEvents[0].Acknowledged {
		t.Error("event not acknowledged")
	}
	if store.AcknowledgeEvent("missing") {
		t.Error("acknowledging an unknown event should report false")
	}
}

func TestStore_TripReplaceWinsOverLocalAck(t *testing.T) {
	store := NewStore()
	store.SetTrip(sampleTrip())
	store.AcknowledgeEvent("e1")

	// Peer refresh carries the event unacknowledged; the peer's copy wins.
	store.SetTrip(sampleTrip())
	if store.Snapshot().Trip.SafetyEvents[0].Acknowledged {
		t.Error("peer trip_status replace should overwrite the local flag")
	}
}

func TestStore_ClearDropsMirroredState(t *testing.T) {
	store := NewStore()
	store.SetAnalysis(&models.SafetyAnalysis{OverallRiskScore: 3})
	store.SetTrip(sampleTrip())
	store.SetError("boom")

	store.Clear()

	snap := store.Snapshot()
	if snap.Analysis != nil || snap.Trip != nil || snap.LastError != "" {
		t.Errorf("clear left state behind: %+v", snap)
	}
}

func TestStore_SnapshotIsolatedFromLaterMutations(t *testing.T) {
	store := NewStore()
	store.SetTrip(sampleTrip())

	snap := store.Snapshot()
	store.AppendEvent(models.SafetyEvent{ID: "e2"})
	store.AcknowledgeEvent("e1")

	if len(snap.Trip.SafetyEvents) != 1 {
		t.Error("snapshot saw an append that happened after it was taken")
	}
	if snap.Trip.SafetyEvents[0].Acknowledged {
		t.Error("snapshot saw an acknowledgment that happened after it was taken")
	}
}
