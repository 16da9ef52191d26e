package views

import "emg-logger/models"

// Stream identifies one log file of a session. Orientation has two streams,
// the raw quaternion and its derived Euler angles.
type Stream int

const (
	StreamEMG Stream = iota
	StreamGyroscope
	StreamAccelerometer
	StreamOrientation
	StreamOrientationEuler
	StreamFused
)

// SessionStreams are the files opened for every session, in open order.
// StreamFused is opened only when fused snapshots are enabled.
var SessionStreams = []Stream{
	StreamEMG,
	StreamGyroscope,
	StreamAccelerometer,
	StreamOrientation,
	StreamOrientationEuler,
}

// AllStreams lists every stream in file order.
var AllStreams = append(append([]Stream(nil), SessionStreams...), StreamFused)

var streamPrefixes = map[Stream]string{
	StreamEMG:              "emg",
	StreamGyroscope:        "gyro",
	StreamAccelerometer:    "accelerometer",
	StreamOrientation:      "orientation",
	StreamOrientationEuler: "orientationEuler",
	StreamFused:            "allData",
}

// String returns the file-name prefix of the stream.
func (s Stream) String() string {
	if n, ok := streamPrefixes[s]; ok {
		return n
	}
	return "unknown"
}

// SchemaColumns is the header row of each stream, taken from the model
// that produces its rows. Gyroscope and accelerometer share one header.
var SchemaColumns = map[Stream][]string{
	StreamEMG:              models.EmgSample{}.CSVHeader(),
	StreamGyroscope:        models.VectorSample{}.CSVHeader(),
	StreamAccelerometer:    models.VectorSample{}.CSVHeader(),
	StreamOrientation:      models.OrientationSample{}.CSVHeader(),
	StreamOrientationEuler: models.EulerSample{}.CSVHeader(),
	StreamFused:            models.FusedRecord{}.CSVHeader(),
}

// LazyHeader reports whether the stream's header is deferred to its first
// row. The vector streams only get a header once data actually arrives.
func (s Stream) LazyHeader() bool {
	return s == StreamGyroscope || s == StreamAccelerometer
}
