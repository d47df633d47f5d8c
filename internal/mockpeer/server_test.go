package mockpeer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aryy8/yatriguard/internal/models"
)

func TestAnalyze_RedZone(t *testing.T) {
	// Military zone center from the demo geography.
	analysis := Analyze(26.9124, 75.7873)

	redZone := analysis.DetectionResults.RedZoneDetection
	if !redZone.IsRedZone || redZone.ZoneName != "Military Zone" {
		t.Fatalf("expected military red zone, got %+v", redZone)
	}
	if analysis.IsSafe {
		t.Error("red zone location must not be safe")
	}
	if analysis.RiskLevel != models.RiskVeryHigh {
		t.Errorf("expected very_high risk, got %s", analysis.RiskLevel)
	}
	if analysis.EnhancedAnalysis == nil || len(analysis.EnhancedAnalysis.AreaAlerts) == 0 {
		t.Error("red zone analysis should carry an area alert")
	}
}

func TestAnalyze_SafeArea(t *testing.T) {
	analysis := Analyze(26.9300, 75.8100)

	if analysis.DetectionResults.RedZoneDetection.IsRedZone {
		t.Error("hotel district should not be a red zone")
	}
	if !analysis.IsSafe {
		t.Errorf("hotel district should be safe, risk %v", analysis.OverallRiskScore)
	}
	enhanced := analysis.EnhancedAnalysis
	if enhanced == nil || enhanced.NearestArea == nil || enhanced.NearestArea.Name != "Hotel District" {
		t.Errorf("expected Hotel District as nearest area, got %+v", enhanced)
	}
	if enhanced.CrimeBreakdown == nil {
		t.Error("expected a crime breakdown")
	}
	if len(enhanced.SafetyRecommendations) == 0 {
		t.Error("expected safety recommendations")
	}
}

func TestHaversine(t *testing.T) {
	if d := haversineKm(26.9, 75.78, 26.9, 75.78); d != 0 {
		t.Errorf("zero distance expected, got %v", d)
	}
	// One degree of latitude is roughly 111 km.
	if d := haversineKm(26.0, 75.78, 27.0, 75.78); d < 110 || d > 112 {
		t.Errorf("expected ~111km, got %v", d)
	}
}

func startServer(t *testing.T, port int) (*Server, context.CancelFunc) {
	t.Helper()
	server := NewServer(Config{Host: "127.0.0.1", Port: port})
	ctx, cancel := context.WithCancel(context.Background())
	go server.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
		if err == nil {
			resp.Body.Close()
			return server, cancel
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("server did not start")
	return nil, nil
}

func dialUser(t *testing.T, port int, userID string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://127.0.0.1:%d/ws/%s", port, userID), nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) models.Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read frame: %v", err)
	}
	var frame models.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("failed to decode frame: %v", err)
	}
	return frame
}

func TestServer_ConnectFlow(t *testing.T) {
	server, stop := startServer(t, 19461)
	defer stop()

	conn := dialUser(t, 19461, "u1")
	defer conn.Close()

	// Session announce is answered with the current trip status.
	conn.WriteJSON(models.ConnectFrame{Type: models.TypeConnect, UserID: "u1", Timestamp: "t"})
	frame := readFrame(t, conn)
	if frame.Type != models.TypeTripStatus {
		t.Fatalf("expected trip_status, got %s", frame.Type)
	}

	var trip models.TripStatus
	if err := json.Unmarshal(frame.Payload, &trip); err != nil {
		t.Fatal(err)
	}
	if trip.IsActive {
		t.Error("trip should not be active before start_trip")
	}
	if trip.BatteryLevel != 100 {
		t.Errorf("fresh user should report full battery, got %d", trip.BatteryLevel)
	}

	conn.WriteJSON(models.Envelope{Type: models.TypeStartTrip, Payload: models.TripControlPayload{Timestamp: "t"}})
	frame = readFrame(t, conn)
	if frame.Type != models.TypeTripStatus {
		t.Fatalf("expected trip_status, got %s", frame.Type)
	}
	json.Unmarshal(frame.Payload, &trip)
	if !trip.IsActive {
		t.Error("trip should be active after start_trip")
	}

	if server.GetStats().Connected != 1 {
		t.Errorf("expected 1 connected, got %d", server.GetStats().Connected)
	}
}

func TestServer_CrashSampleRaisesAlert(t *testing.T) {
	_, stop := startServer(t, 19462)
	defer stop()

	conn := dialUser(t, 19462, "u2")
	defer conn.Close()

	conn.WriteJSON(models.Envelope{
		Type: models.TypeSensorData,
		Payload: models.SensorDataPayload{
			Accelerometer: models.Vector3{X: 45, Y: 20, Z: 10},
			Timestamp:     "t",
		},
	})

	frame := readFrame(t, conn)
	if frame.Type != models.TypeSafetyAlert {
		t.Fatalf("expected safety_alert, got %s", frame.Type)
	}
	var event models.SafetyEvent
	if err := json.Unmarshal(frame.Payload, &event); err != nil {
		t.Fatal(err)
	}
	if event.Type != models.EventCrash || event.Severity != models.SeverityCritical {
		t.Errorf("expected critical crash event, got %+v", event)
	}
	if event.ID == "" || event.Timestamp == "" {
		t.Error("event must carry an id and timestamp")
	}
}

func TestServer_RedZoneLocationPushesAnalysisAlertAndStatus(t *testing.T) {
	_, stop := startServer(t, 19463)
	defer stop()

	conn := dialUser(t, 19463, "u3")
	defer conn.Close()

	conn.WriteJSON(models.Envelope{
		Type:    models.TypeLocationUpdate,
		Payload: models.LocationUpdatePayload{Latitude: 26.9124, Longitude: 75.7873, Timestamp: "t"},
	})

	types := map[string]bool{}
	for i := 0; i < 3; i++ {
		types[readFrame(t, conn).Type] = true
	}
	for _, want := range []string{models.TypeSafetyAnalysis, models.TypeSafetyAlert, models.TypeTripStatus} {
		if !types[want] {
			t.Errorf("expected a %s frame, got %v", want, types)
		}
	}
}

func TestServer_PushBatteryUpdate(t *testing.T) {
	server, stop := startServer(t, 19464)
	defer stop()

	if server.PushBatteryUpdate("ghost", 40, models.ModeLow) {
		t.Error("push to unknown user should fail")
	}

	conn := dialUser(t, 19464, "u4")
	defer conn.Close()

	// The connection registers asynchronously relative to the dial.
	deadline := time.Now().Add(2 * time.Second)
	for !server.PushBatteryUpdate("u4", 40, models.ModeLow) {
		if time.Now().After(deadline) {
			t.Fatal("push to connected user never succeeded")
		}
		time.Sleep(5 * time.Millisecond)
	}

	frame := readFrame(t, conn)
	if frame.Type != models.TypeBatteryUpdate {
		t.Fatalf("expected battery_update, got %s", frame.Type)
	}
	var battery models.BatteryUpdatePayload
	if err := json.Unmarshal(frame.Payload, &battery); err != nil {
		t.Fatal(err)
	}
	if battery.Level != 40 || battery.Mode != models.ModeLow {
		t.Errorf("unexpected payload: %+v", battery)
	}
}

func TestServer_StartBlocksUntilCancelThenReturnsNil(t *testing.T) {
	server := NewServer(Config{Host: "127.0.0.1", Port: 19465})
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://127.0.0.1:19465/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Start must still be blocked while the server is serving.
	select {
	case err := <-errCh:
		t.Fatalf("Start returned early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	conn := dialUser(t, 19465, "u5")
	defer conn.Close()

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Start should return nil after cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}

	// Counters stay readable for the post-shutdown summary.
	if server.GetStats().Connected != 0 {
		t.Errorf("expected 0 connected after shutdown, got %d", server.GetStats().Connected)
	}
}
