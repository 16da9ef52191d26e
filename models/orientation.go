package models

import "math"

// Quaternion is the armband's orientation estimate. It is assumed to be
// unit length and is never renormalized.
type Quaternion struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

// IdentityQuaternion is the zero rotation.
var IdentityQuaternion = Quaternion{W: 1}

// EulerAngles are aerospace-sequence angles in radians.
type EulerAngles struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Euler converts q to roll, pitch and yaw.
func (q Quaternion) Euler() EulerAngles {
	return ToEuler(float64(q.X), float64(q.Y), float64(q.Z), float64(q.W))
}

// ToEuler converts the unit quaternion (x, y, z, w) to roll, pitch and yaw.
// The asin argument is clamped to [-1, 1] so rounding at the poles cannot
// produce NaN.
func ToEuler(x, y, z, w float64) EulerAngles {
	roll := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	pitch := math.Asin(clamp(2*(w*y-z*x), -1, 1))
	yaw := math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return EulerAngles{Roll: roll, Pitch: pitch, Yaw: yaw}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// OrientationSample holds one orientation reading.
type OrientationSample struct {
	Timestamp  uint64     `json:"timestamp"`
	Quaternion Quaternion `json:"quaternion"`
}

func (OrientationSample) CSVHeader() []string {
	return []string{"timestamp", "x", "y", "z", "w"}
}

func (s *OrientationSample) CSVRow() []string {
	return []string{
		utoa64(s.Timestamp),
		f32toa(s.Quaternion.X),
		f32toa(s.Quaternion.Y),
		f32toa(s.Quaternion.Z),
		f32toa(s.Quaternion.W),
	}
}

// Euler derives the Euler row for this sample.
func (s *OrientationSample) Euler() EulerSample {
	return EulerSample{Timestamp: s.Timestamp, Angles: s.Quaternion.Euler()}
}

// EulerSample is the derived Euler-angle row of an orientation reading.
type EulerSample struct {
	Timestamp uint64      `json:"timestamp"`
	Angles    EulerAngles `json:"angles"`
}

func (EulerSample) CSVHeader() []string {
	return []string{"timestamp", "roll", "pitch", "yaw"}
}

func (s *EulerSample) CSVRow() []string {
	return []string{
		utoa64(s.Timestamp),
		f64toa(s.Angles.Roll),
		f64toa(s.Angles.Pitch),
		f64toa(s.Angles.Yaw),
	}
}
