package models

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEuler_Identity(t *testing.T) {
	e := IdentityQuaternion.Euler()
	assert.Equal(t, 0.0, e.Roll)
	assert.Equal(t, 0.0, e.Pitch)
	assert.Equal(t, 0.0, e.Yaw)
}

func TestToEuler_SingleAxisRotations(t *testing.T) {
	half := math.Pi / 4 // half of a 90° rotation
	s, c := math.Sin(half), math.Cos(half)

	tests := []struct {
		name             string
		x, y, z, w       float64
		roll, pitch, yaw float64
	}{
		{"roll 90", s, 0, 0, c, math.Pi / 2, 0, 0},
		{"yaw 90", 0, 0, s, c, 0, 0, math.Pi / 2},
		{"pitch 45", 0, math.Sin(math.Pi / 8), 0, math.Cos(math.Pi / 8), 0, math.Pi / 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ToEuler(tt.x, tt.y, tt.z, tt.w)
			assert.InDelta(t, tt.roll, e.Roll, 1e-9)
			assert.InDelta(t, tt.pitch, e.Pitch, 1e-9)
			assert.InDelta(t, tt.yaw, e.Yaw, 1e-9)
		})
	}
}

func TestToEuler_PolesAreClamped(t *testing.T) {
	// 2(wy - zx) is exactly 1 here and slightly above 1 for the scaled case.
	s := math.Sqrt(0.5)
	for _, q := range [][4]float64{
		{0, s, 0, s},
		{0, -s, 0, s},
		{0, s * 1.0000001, 0, s * 1.0000001},
		{0, -s * 1.0000001, 0, s * 1.0000001},
	} {
		e := ToEuler(q[0], q[1], q[2], q[3])
		require.False(t, math.IsNaN(e.Pitch), "pitch NaN for %v", q)
		assert.InDelta(t, math.Pi/2, math.Abs(e.Pitch), 1e-12)
	}
}

func TestToEuler_PitchRangeForRandomUnitQuaternions(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		x, y, z, w := r.NormFloat64(), r.NormFloat64(), r.NormFloat64(), r.NormFloat64()
		n := math.Sqrt(x*x + y*y + z*z + w*w)
		e := ToEuler(x/n, y/n, z/n, w/n)
		require.False(t, math.IsNaN(e.Pitch))
		require.GreaterOrEqual(t, e.Pitch, -math.Pi/2)
		require.LessOrEqual(t, e.Pitch, math.Pi/2)
	}
}

func TestOrientationSample_Rows(t *testing.T) {
	s := OrientationSample{Timestamp: 42, Quaternion: IdentityQuaternion}
	assert.Equal(t, []string{"42", "0", "0", "0", "1"}, s.CSVRow())

	e := s.Euler()
	assert.Equal(t, []string{"42", "0", "0", "0"}, e.CSVRow())
	assert.Len(t, e.CSVHeader(), len(e.CSVRow()))
}
