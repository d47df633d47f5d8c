package simulator

import (
	"math"

	"github.com/aryy8/yatriguard/internal/models"
	"github.com/aryy8/yatriguard/internal/scenario"
)

const gravity = 9.81

// sample produces one IMU reading shaped by the current activity. Impact
// activities drop the magnetometer, as real devices often do mid-event.
func (s *Simulator) sample(phase *scenario.Phase, elapsed float64) models.SensorSample {
	switch phase.Activity {
	case scenario.ActivityWalking:
		// Step oscillation at roughly 2 Hz on the vertical axis.
		bounce := 1.5 * math.Sin(2*math.Pi*2*elapsed)
		return models.SensorSample{
			Accelerometer: models.Vector3{
				X: s.noise(0.3),
				Y: s.noise(0.3),
				Z: gravity + bounce + s.noise(0.3),
			},
			Gyroscope:    s.jitter(0.15),
			Magnetometer: s.magnetometer(),
		}

	case scenario.ActivityDriving:
		return models.SensorSample{
			Accelerometer: models.Vector3{
				X: s.noise(0.8),
				Y: s.noise(0.8),
				Z: gravity + s.noise(0.4),
			},
			Gyroscope:    s.jitter(0.05),
			Magnetometer: s.magnetometer(),
		}

	case scenario.ActivityFall:
		return models.SensorSample{
			Accelerometer: models.Vector3{
				X: 18 + s.noise(3),
				Y: s.noise(5),
				Z: 22 + s.noise(3),
			},
			Gyroscope: s.jitter(4),
		}

	case scenario.ActivityCrash:
		return models.SensorSample{
			Accelerometer: models.Vector3{
				X: 45 + s.noise(5),
				Y: 20 + s.noise(5),
				Z: gravity + s.noise(5),
			},
			Gyroscope: s.jitter(8),
		}

	default: // stationary
		return models.SensorSample{
			Accelerometer: models.Vector3{
				X: s.noise(0.05),
				Y: s.noise(0.05),
				Z: gravity + s.noise(0.05),
			},
			Gyroscope:    s.jitter(0.02),
			Magnetometer: s.magnetometer(),
		}
	}
}

func (s *Simulator) noise(stddev float64) float64 {
	return s.rng.NormFloat64() * stddev
}

func (s *Simulator) jitter(stddev float64) models.Vector3 {
	return models.Vector3{
		X: s.noise(stddev),
		Y: s.noise(stddev),
		Z: s.noise(stddev),
	}
}

// magnetometer approximates the local geomagnetic field in microtesla.
func (s *Simulator) magnetometer() *models.Vector3 {
	return &models.Vector3{
		X: 32 + s.noise(0.5),
		Y: 4 + s.noise(0.5),
		Z: -38 + s.noise(0.5),
	}
}
