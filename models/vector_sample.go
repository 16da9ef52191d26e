package models

// Vector3 is a three-axis reading as delivered by the armband.
type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// VectorSample holds one accelerometer (g) or gyroscope (deg/s) reading.
// SystemMs is the host wall clock, in Unix milliseconds, captured when the
// callback arrived.
type VectorSample struct {
	Timestamp uint64  `json:"timestamp"`
	Vector    Vector3 `json:"vector"`
	SystemMs  int64   `json:"system_ms"`
}

// CSVHeader is shared by the gyroscope and accelerometer files.
func (VectorSample) CSVHeader() []string {
	return []string{"myot", "myox", "myoy", "myoz", "myost"}
}

func (s *VectorSample) CSVRow() []string {
	return []string{
		utoa64(s.Timestamp),
		f32toa(s.Vector.X),
		f32toa(s.Vector.Y),
		f32toa(s.Vector.Z),
		itoa64(s.SystemMs),
	}
}
