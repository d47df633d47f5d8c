// Package scenario defines scripted trips for the simulator: a starting
// position and a sequence of timed phases describing what the traveler is
// doing.
package scenario

import "time"

// Activity is what the traveler is doing during a phase. It drives both the
// movement model and the IMU sample shape.
type Activity string

const (
	ActivityStationary Activity = "stationary"
	ActivityWalking    Activity = "walking"
	ActivityDriving    Activity = "driving"
	ActivityFall       Activity = "fall"
	ActivityCrash      Activity = "crash"
)

// Scenario is one scripted trip.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Start       Start   `yaml:"start"`
	Phases      []Phase `yaml:"phases"`
}

// Start is the initial position.
type Start struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// Phase is a time-bounded stage of the trip.
type Phase struct {
	Name       string   `yaml:"name"`
	Duration   string   `yaml:"duration"` // e.g. "30s", "5m"
	Activity   Activity `yaml:"activity"`
	SpeedKmh   float64  `yaml:"speed_kmh,omitempty"`
	HeadingDeg float64  `yaml:"heading_deg,omitempty"`
}

// ParseDuration parses a phase duration. Empty is treated as zero.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// TotalDuration sums the phase durations. Unparseable phases count as zero.
func (s *Scenario) TotalDuration() time.Duration {
	var total time.Duration
	for _, phase := range s.Phases {
		d, err := ParseDuration(phase.Duration)
		if err != nil {
			continue
		}
		total += d
	}
	return total
}

// PhaseAt returns the phase active at the given elapsed time, or nil once
// the scenario has run out.
func (s *Scenario) PhaseAt(elapsed time.Duration) *Phase {
	var offset time.Duration
	for i := range s.Phases {
		d, err := ParseDuration(s.Phases[i].Duration)
		if err != nil {
			continue
		}
		if elapsed < offset+d {
			return &s.Phases[i]
		}
		offset += d
	}
	return nil
}
