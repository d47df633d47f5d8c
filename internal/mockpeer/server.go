// Package mockpeer is a local stand-in for the YatriGuard analysis service.
// It speaks the same websocket protocol as the real backend but replaces the
// detection models with a small rule-based analyzer, which makes it useful
// for offline development and for end-to-end tests of the client session.
package mockpeer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/aryy8/yatriguard/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local development tool
	},
}

// Config holds the mock peer configuration.
type Config struct {
	Host string
	Port int
	// BatteryDrain, when positive, pushes a battery_update with one percent
	// less charge at this interval while a trip is active.
	BatteryDrain time.Duration
}

// Stats holds server counters.
type Stats struct {
	Connected      int
	FramesReceived int
	AlertsSent     int
}

// Server is the mock analysis service.
type Server struct {
	config Config
	server *http.Server

	mu    sync.Mutex
	users map[string]*userState
	stats Stats
}

// userState is the per-user session the real backend keeps in memory.
type userState struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	tripActive   bool
	lastLocation *models.GeoPoint
	lastSensor   *models.SensorDataPayload
	events       []models.SafetyEvent
	battery      int
	mode         models.ProcessingMode
}

// NewServer creates a mock peer.
func NewServer(config Config) *Server {
	return &Server{
		config: config,
		users:  make(map[string]*userState),
	}
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleRoot)

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Mock analysis service listening on %s", s.Address())
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	if s.config.BatteryDrain > 0 {
		go s.drainBatteries(ctx)
	}

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown closes all client connections and stops the server.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	for _, user := range s.users {
		if user.conn != nil {
			user.conn.Close()
		}
	}
	s.users = make(map[string]*userState)
	s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Address returns the websocket base address.
func (s *Server) Address() string {
	return fmt.Sprintf("ws://%s:%d", s.config.Host, s.config.Port)
}

// GetStats returns current counters.
func (s *Server) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service":  "yatriguard-mockpeer",
		"endpoint": "/ws/{userId}",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/ws/")
	if userID == "" || strings.Contains(userID, "/") {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("Failed to upgrade connection: %v", err)
		return
	}

	s.mu.Lock()
	user, ok := s.users[userID]
	if !ok {
		user = &userState{battery: 100, mode: models.ModeHigh}
		s.users[userID] = user
	}
	user.conn = conn
	s.stats.Connected++
	s.mu.Unlock()

	logrus.Infof("User %s connected from %s", userID, r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		if user.conn == conn {
			user.conn = nil
		}
		s.stats.Connected--
		s.mu.Unlock()
		conn.Close()
		logrus.Infof("User %s disconnected", userID)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.handleFrame(userID, user, data)
	}
}

func (s *Server) handleFrame(userID string, user *userState, data []byte) {
	s.mu.Lock()
	s.stats.FramesReceived++
	s.mu.Unlock()

	var frame models.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		logrus.Warnf("Bad frame from %s: %v", userID, err)
		return
	}

	switch frame.Type {
	case models.TypeConnect:
		s.sendTripStatus(userID, user)

	case models.TypeLocationUpdate:
		var loc models.LocationUpdatePayload
		if err := json.Unmarshal(frame.Payload, &loc); err != nil {
			return
		}
		s.mu.Lock()
		user.lastLocation = &models.GeoPoint{
			Lat:       loc.Latitude,
			Lng:       loc.Longitude,
			Timestamp: loc.Timestamp,
		}
		s.mu.Unlock()

		analysis := Analyze(loc.Latitude, loc.Longitude)
		s.send(user, models.Envelope{Type: models.TypeSafetyAnalysis, Payload: analysis})
		if analysis.DetectionResults.RedZoneDetection.IsRedZone {
			s.raiseAlert(userID, user, models.EventRedZone, models.SeverityHigh,
				fmt.Sprintf("Entered red zone: %s", analysis.DetectionResults.RedZoneDetection.ZoneName))
		}
		s.sendTripStatus(userID, user)

	case models.TypeSensorData:
		var sample models.SensorDataPayload
		if err := json.Unmarshal(frame.Payload, &sample); err != nil {
			return
		}
		s.mu.Lock()
		user.lastSensor = &sample
		s.mu.Unlock()
		s.classifyMotion(userID, user, sample)

	case models.TypeStartTrip:
		s.mu.Lock()
		user.tripActive = true
		s.mu.Unlock()
		logrus.Infof("Trip monitoring started for %s", userID)
		s.sendTripStatus(userID, user)

	case models.TypeStopTrip:
		s.mu.Lock()
		user.tripActive = false
		s.mu.Unlock()
		logrus.Infof("Trip monitoring stopped for %s", userID)
		s.sendTripStatus(userID, user)

	case models.TypeAcknowledgeAlert:
		var ack models.AcknowledgeAlertPayload
		if err := json.Unmarshal(frame.Payload, &ack); err != nil {
			return
		}
		s.mu.Lock()
		for i := range user.events {
			if user.events[i].ID == ack.AlertID {
				user.events[i].Acknowledged = true
				break
			}
		}
		s.mu.Unlock()

	default:
		logrus.Warnf("Unknown frame type %q from %s", frame.Type, userID)
	}
}

// classifyMotion applies the crude thresholds the real detectors replace:
// sustained acceleration far above gravity reads as a crash, a shorter spike
// as a fall.
func (s *Server) classifyMotion(userID string, user *userState, sample models.SensorDataPayload) {
	a := sample.Accelerometer
	magnitude := math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)

	switch {
	case magnitude > 40:
		s.raiseAlert(userID, user, models.EventCrash, models.SeverityCritical, "Potential crash detected")
	case magnitude > 25:
		s.raiseAlert(userID, user, models.EventFall, models.SeverityHigh, "Potential fall detected")
	}
}

func (s *Server) raiseAlert(userID string, user *userState, eventType models.EventType, severity models.Severity, message string) {
	s.mu.Lock()
	event := models.NewSafetyEvent(uuid.NewString(), eventType, severity, message, user.lastLocation)
	user.events = append(user.events, event)
	s.stats.AlertsSent++
	s.mu.Unlock()

	logrus.Warnf("Safety event for %s: %s - %s", userID, eventType, message)
	s.send(user, models.Envelope{Type: models.TypeSafetyAlert, Payload: event})
}

func (s *Server) sendTripStatus(userID string, user *userState) {
	s.mu.Lock()
	trip := models.TripStatus{
		TripID:           userID,
		IsActive:         user.tripActive,
		CurrentLocation:  user.lastLocation,
		SafetyEvents:     append([]models.SafetyEvent(nil), user.events...),
		BatteryLevel:     user.battery,
		ProcessingMode:   user.mode,
		ConnectionStatus: "connected",
	}
	s.mu.Unlock()

	s.send(user, models.Envelope{Type: models.TypeTripStatus, Payload: trip})
}

// PushBatteryUpdate sends a battery_update patch to a connected user, as the
// real backend does when the device reports charge changes.
func (s *Server) PushBatteryUpdate(userID string, level int, mode models.ProcessingMode) bool {
	s.mu.Lock()
	user, ok := s.users[userID]
	if ok {
		user.battery = level
		user.mode = mode
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	return s.send(user, models.Envelope{
		Type:    models.TypeBatteryUpdate,
		Payload: models.BatteryUpdatePayload{Level: level, Mode: mode},
	})
}

// LastSensor returns the most recent sensor payload received from a user,
// or nil if none arrived yet.
func (s *Server) LastSensor(userID string) *models.SensorDataPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok || user.lastSensor == nil {
		return nil
	}
	sensor := *user.lastSensor
	return &sensor
}

// PushFrame sends an arbitrary raw frame to a connected user. Tests use it
// to exercise the client's router directly.
func (s *Server) PushFrame(userID string, data []byte) bool {
	s.mu.Lock()
	user, ok := s.users[userID]
	s.mu.Unlock()
	if !ok || user.conn == nil {
		return false
	}
	user.writeMu.Lock()
	defer user.writeMu.Unlock()
	return user.conn.WriteMessage(websocket.TextMessage, data) == nil
}

func (s *Server) send(user *userState, envelope models.Envelope) bool {
	s.mu.Lock()
	conn := user.conn
	s.mu.Unlock()
	if conn == nil {
		return false
	}
	user.writeMu.Lock()
	defer user.writeMu.Unlock()
	if err := conn.WriteJSON(envelope); err != nil {
		logrus.Warnf("Failed to send %s: %v", envelope.Type, err)
		return false
	}
	return true
}

// drainBatteries ticks charge down for users with an active trip, shifting
// the processing mode as the level drops.
func (s *Server) drainBatteries(ctx context.Context) {
	ticker := time.NewTicker(s.config.BatteryDrain)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			targets := make(map[string]*userState)
			for id, user := range s.users {
				if user.tripActive && user.conn != nil && user.battery > 0 {
					user.battery--
					user.mode = modeForBattery(user.battery)
					targets[id] = user
				}
			}
			s.mu.Unlock()

			for _, user := range targets {
				s.mu.Lock()
				level, mode := user.battery, user.mode
				s.mu.Unlock()
				s.send(user, models.Envelope{
					Type:    models.TypeBatteryUpdate,
					Payload: models.BatteryUpdatePayload{Level: level, Mode: mode},
				})
			}
		}
	}
}

func modeForBattery(level int) models.ProcessingMode {
	switch {
	case level > 60:
		return models.ModeHigh
	case level > 30:
		return models.ModeMedium
	case level > 10:
		return models.ModeLow
	default:
		return models.ModeCritical
	}
}
