package models

// Vector3 is a 3-axis sensor reading.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// SensorSample is one normalized IMU sample from the device. Magnetometer is
// optional; devices without one leave it nil and the encoder substitutes a
// zero vector on the wire.
type SensorSample struct {
	Accelerometer Vector3
	Gyroscope     Vector3
	Magnetometer  *Vector3
}

// LocationFix is one position from the geolocation producer.
type LocationFix struct {
	Lat float64
	Lng float64
}

// SensorCapability reports whether the motion-sensor producer can deliver
// samples at all.
type SensorCapability struct {
	Supported         bool
	PermissionGranted bool
}
