package session

import "github.com/aryy8/yatriguard/internal/models"

const tapBufferSize = 100

// Config holds the parameters for one monitoring session.
type Config struct {
	// ServerURL is the peer's base URL, e.g. "ws://localhost:8000".
	ServerURL string
	// UserID is the opaque identifier announced to the peer.
	UserID string
}

// Session is the single object exposed to presentation code: a read-only
// state snapshot plus the lifecycle and command entry points. It composes
// the store, router, reconnection controller, and command encoder.
type Session struct {
	store     *Store
	client    *Client
	commander *Commander
	tap       *FrameTap
}

// New assembles a session. Nothing connects until Connect is called.
func New(cfg Config) *Session {
	store := NewStore()
	router := NewRouter(store)
	tap := NewFrameTap(tapBufferSize)
	client := NewClient(cfg.ServerURL, cfg.UserID, store, router, tap)
	return &Session{
		store:     store,
		client:    client,
		commander: NewCommander(client, store),
		tap:       tap,
	}
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	return s.store.Snapshot()
}

// Connect opens the channel to the peer; no-op if already open or in flight.
func (s *Session) Connect() {
	s.client.Connect()
}

// Disconnect closes the channel and clears the mirrored state.
func (s *Session) Disconnect() {
	s.client.Disconnect()
}

// Reconnect resets the retry budget and connects; it is the way out of the
// terminal failed phase.
func (s *Session) Reconnect() {
	s.client.Reconnect()
}

// Close tears the session down and releases the frame tap.
func (s *Session) Close() {
	s.client.Disconnect()
	s.tap.Close()
}

// Frames returns a channel observing every inbound frame, for recording or
// live display. Subscribe before connecting to see the full stream.
func (s *Session) Frames() <-chan []byte {
	return s.tap.Subscribe()
}

// URL returns the derived websocket endpoint, for diagnostics.
func (s *Session) URL() string {
	return s.client.URL()
}

// SendLocation forwards one geolocation fix; dropped unless connected.
func (s *Session) SendLocation(fix models.LocationFix) {
	s.commander.SendLocation(fix)
}

// SendSensorSample forwards one IMU sample; dropped unless connected.
func (s *Session) SendSensorSample(sample models.SensorSample) {
	s.commander.SendSensorSample(sample)
}

// StartTrip begins trip monitoring; dropped unless connected.
func (s *Session) StartTrip() {
	s.commander.StartTrip()
}

// StopTrip ends trip monitoring; dropped unless connected.
func (s *Session) StopTrip() {
	s.commander.StopTrip()
}

// AcknowledgeAlert marks a safety event as seen; dropped unless connected.
func (s *Session) AcknowledgeAlert(eventID string) {
	s.commander.AcknowledgeAlert(eventID)
}
