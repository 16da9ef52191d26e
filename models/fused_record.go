package models

// FusedRecord is a snapshot of the latest value of every channel.
// The session controller writes one of these per snapshot interval.
type FusedRecord struct {
	EMG           EmgSample         `json:"emg"`
	Accelerometer VectorSample      `json:"accelerometer"`
	Gyroscope     VectorSample      `json:"gyroscope"`
	Orientation   OrientationSample `json:"orientation"`
	Euler         EulerAngles       `json:"euler"`
}

// CSVHeader returns the fused CSV header: the EMG block followed by each
// IMU block with its own device timestamp.
func (FusedRecord) CSVHeader() []string {
	h := EmgSample{}.CSVHeader()
	h = append(h, "timestamp_accelerometer", "accelerometer-x", "accelerometer-y", "accelerometer-z")
	h = append(h, "timestamp_gyro", "gyro-x", "gyro-y", "gyro-z")
	h = append(h, "timestamp_orientation", "orientation-x", "orientation-y", "orientation-z", "orientation-w")
	h = append(h, "roll", "pitch", "yaw")
	return h
}

// CSVRow returns a single fused row.
func (f *FusedRecord) CSVRow() []string {
	row := f.EMG.CSVRow()

	a := f.Accelerometer
	row = append(row, utoa64(a.Timestamp), f32toa(a.Vector.X), f32toa(a.Vector.Y), f32toa(a.Vector.Z))

	g := f.Gyroscope
	row = append(row, utoa64(g.Timestamp), f32toa(g.Vector.X), f32toa(g.Vector.Y), f32toa(g.Vector.Z))

	o := f.Orientation
	row = append(row, utoa64(o.Timestamp),
		f32toa(o.Quaternion.X), f32toa(o.Quaternion.Y), f32toa(o.Quaternion.Z), f32toa(o.Quaternion.W))

	row = append(row, f64toa(f.Euler.Roll), f64toa(f.Euler.Pitch), f64toa(f.Euler.Yaw))
	return row
}
