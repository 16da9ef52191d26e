package controller

import "emg-logger/models"

// SampleStore keeps the latest value of every channel. Each update
// overwrites the previous value; nothing is queued. The zero value is an
// empty store.
//
// It is owned by a single goroutine (the one pumping the hub) and does no
// locking.
type SampleStore struct {
	emg    models.EmgSample
	accel  models.VectorSample
	gyro   models.VectorSample
	orient models.OrientationSample
}

func NewSampleStore() *SampleStore {
	return &SampleStore{}
}

func (s *SampleStore) UpdateEMG(ts uint64, values [models.EMGChannels]int8) {
	s.emg = models.EmgSample{Timestamp: ts, Values: values}
}

// UpdateAccelerometer stores a reading with the host wall-clock time (Unix ms)
// at which it arrived.
func (s *SampleStore) UpdateAccelerometer(ts uint64, v models.Vector3, systemMs int64) {
	s.accel = models.VectorSample{Timestamp: ts, Vector: v, SystemMs: systemMs}
}

func (s *SampleStore) UpdateGyroscope(ts uint64, v models.Vector3, systemMs int64) {
	s.gyro = models.VectorSample{Timestamp: ts, Vector: v, SystemMs: systemMs}
}

func (s *SampleStore) UpdateOrientation(ts uint64, q models.Quaternion) {
	s.orient = models.OrientationSample{Timestamp: ts, Quaternion: q}
}

// Reset zero-fills one channel.
func (s *SampleStore) Reset(ch models.Channel) {
	switch ch {
	case models.ChannelEMG:
		s.emg = models.EmgSample{}
	case models.ChannelAccelerometer:
		s.accel = models.VectorSample{}
	case models.ChannelGyroscope:
		s.gyro = models.VectorSample{}
	case models.ChannelOrientation:
		s.orient = models.OrientationSample{}
	}
}

func (s *SampleStore) EMG() models.EmgSample                 { return s.emg }
func (s *SampleStore) Accelerometer() models.VectorSample    { return s.accel }
func (s *SampleStore) Gyroscope() models.VectorSample        { return s.gyro }
func (s *SampleStore) Orientation() models.OrientationSample { return s.orient }

// Snapshot returns every latest value plus the Euler angles of the current
// orientation.
func (s *SampleStore) Snapshot() models.FusedRecord {
	return models.FusedRecord{
		EMG:           s.emg,
		Accelerometer: s.accel,
		Gyroscope:     s.gyro,
		Orientation:   s.orient,
		Euler:         s.orient.Quaternion.Euler(),
	}
}
