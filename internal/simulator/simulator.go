// Package simulator plays a trip scenario, producing the location fixes and
// IMU samples a real device would. It stands in for the sensor and
// geolocation producers during development and tests.
package simulator

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/aryy8/yatriguard/internal/models"
	"github.com/aryy8/yatriguard/internal/scenario"
)

// Sink receives produced samples. *session.Session satisfies it.
type Sink interface {
	SendLocation(models.LocationFix)
	SendSensorSample(models.SensorSample)
}

// Config holds simulator timing parameters.
type Config struct {
	Seed             int64
	SampleInterval   time.Duration // IMU sample cadence
	LocationInterval time.Duration // geolocation fix cadence
}

// Simulator walks one scenario from start to finish.
type Simulator struct {
	scen   *scenario.Scenario
	config Config
	rng    *rand.Rand

	lat, lng float64
}

// New creates a simulator positioned at the scenario's start.
func New(scen *scenario.Scenario, config Config) *Simulator {
	if config.SampleInterval <= 0 {
		config.SampleInterval = 500 * time.Millisecond
	}
	if config.LocationInterval <= 0 {
		config.LocationInterval = 2 * time.Second
	}
	return &Simulator{
		scen:   scen,
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
		lat:    scen.Start.Lat,
		lng:    scen.Start.Lng,
	}
}

// Position returns the current simulated position.
func (s *Simulator) Position() models.LocationFix {
	return models.LocationFix{Lat: s.lat, Lng: s.lng}
}

// Run plays the scenario into sink until it finishes or ctx is cancelled.
// An initial location fix is emitted immediately so the peer can analyze the
// starting position.
func (s *Simulator) Run(ctx context.Context, sink Sink) error {
	sink.SendLocation(s.Position())

	ticker := time.NewTicker(s.config.SampleInterval)
	defer ticker.Stop()

	start := time.Now()
	lastFix := start

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(start)
			phase := s.scen.PhaseAt(elapsed)
			if phase == nil {
				return nil
			}

			s.advance(phase, s.config.SampleInterval)
			sink.SendSensorSample(s.sample(phase, elapsed.Seconds()))

			if now.Sub(lastFix) >= s.config.LocationInterval {
				lastFix = now
				sink.SendLocation(s.Position())
			}
		}
	}
}

// advance moves the position along the phase heading for one tick.
func (s *Simulator) advance(phase *scenario.Phase, dt time.Duration) {
	if phase.SpeedKmh <= 0 {
		return
	}
	km := phase.SpeedKmh * dt.Hours()
	heading := phase.HeadingDeg * math.Pi / 180

	// 1 degree latitude is ~111.32 km; longitude shrinks with latitude.
	s.lat += km * math.Cos(heading) / 111.32
	s.lng += km * math.Sin(heading) / (111.32 * math.Cos(s.lat*math.Pi/180))
}
