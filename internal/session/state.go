// Package session implements the connection lifecycle and message
// synchronization layer of the YatriGuard client: the websocket channel to
// the analysis service, bounded-backoff reconnection, inbound frame routing,
// and the locally mirrored safety state.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/aryy8/yatriguard/internal/models"
)

// Phase is the connection lifecycle state.
type Phase int

const (
	PhaseDisconnected Phase = iota
	PhaseConnecting
	PhaseConnected
	PhaseRetrying
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseDisconnected:
		return "disconnected"
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseRetrying:
		return "retrying"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ConnectionState is the connection phase plus retry metadata. Attempt and
// NextDelay are meaningful only while Phase is PhaseRetrying.
type ConnectionState struct {
	Phase     Phase
	Attempt   int
	NextDelay time.Duration
}

// Snapshot is a read-only view of the session handed to presentation code.
// Analysis and Trip are nil until the peer has pushed them.
type Snapshot struct {
	Connection ConnectionState
	Analysis   *models.SafetyAnalysis
	Trip       *models.TripStatus
	LastError  string
}

// Store holds the locally mirrored session state. All mutation goes through
// its methods; readers take snapshots. Mutations come from exactly two
// places, the message router and the connection controller.
type Store struct {
	mu         sync.RWMutex
	connection ConnectionState
	analysis   *models.SafetyAnalysis
	trip       *models.TripStatus
	lastError  string
}

// NewStore creates an empty store in the disconnected phase.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a consistent copy of the current state. The trip's event
// slice is copied so later appends and acknowledgments never show through.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Connection: s.connection,
		Analysis:   s.analysis,
		LastError:  s.lastError,
	}
	if s.trip != nil {
		trip := *s.trip
		trip.SafetyEvents = append([]models.SafetyEvent(nil), s.trip.SafetyEvents...)
		snap.Trip = &trip
	}
	return snap
}

// Connection returns just the current connection state.
func (s *Store) Connection() ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connection
}

// SetConnection replaces the connection state.
func (s *Store) SetConnection(state ConnectionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connection = state
}

// SetError replaces the user-visible error message; empty clears it.
func (s *Store) SetError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = message
}

// SetAnalysis replaces the safety analysis wholesale.
func (s *Store) SetAnalysis(analysis *models.SafetyAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = analysis
}

// SetTrip replaces the trip status wholesale. The peer's copy wins over any
// local patches, including optimistic acknowledgments.
func (s *Store) SetTrip(trip *models.TripStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trip = trip
}

// AppendEvent appends one safety event to the current trip, leaving every
// other trip field untouched. A patch with no trip to patch is a no-op; it
// must never fabricate a trip.
func (s *Store) AppendEvent(event models.SafetyEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trip == nil {
		return false
	}
	s.trip.SafetyEvents = append(s.trip.SafetyEvents, event)
	return true
}

// SetBattery patches the battery level and processing mode of the current
// trip, leaving every other field untouched. No-op without a trip.
func (s *Store) SetBattery(level int, mode models.ProcessingMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trip == nil {
		return false
	}
	s.trip.BatteryLevel = level
	s.trip.ProcessingMode = mode
	return true
}

// AcknowledgeEvent flips the acknowledged flag of the named event. This is
// the optimistic local half of alert acknowledgment; the peer's next
// trip_status refresh is authoritative either way.
func (s *Store) AcknowledgeEvent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trip == nil {
		return false
	}
	for i := range s.trip.SafetyEvents {
		if s.trip.SafetyEvents[i].ID == id {
			s.trip.SafetyEvents[i].Acknowledged = true
			return true
		}
	}
	return false
}

// Clear drops the mirrored analysis, trip, and error on manual disconnect or
// teardown. The connection state is left to the controller.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = nil
	s.trip = nil
	s.lastError = ""
}
