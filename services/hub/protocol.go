package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"emg-logger/models"
)

// wireEvent is one line of the bridge protocol, e.g.
//
//	{"type":"emg","timestamp":1200,"emg":[1,-2,3,0,0,5,-7,2]}
//	{"type":"orientation","timestamp":1200,"quat":[0,0,0,1]}
//	{"type":"gyroscope","timestamp":1200,"vec":[0.5,-1,12]}
type wireEvent struct {
	Type      string    `json:"type"`
	Timestamp uint64    `json:"timestamp"`
	Name      string    `json:"name,omitempty"`
	EMG       []int     `json:"emg,omitempty"`
	Quat      []float32 `json:"quat,omitempty"`
	Vec       []float32 `json:"vec,omitempty"`
	Pose      string    `json:"pose,omitempty"`
}

var errEmptyLine = errors.New("empty line")

// DecodeLine parses one bridge line into an Event.
func DecodeLine(line []byte) (Event, error) {
	if len(line) == 0 {
		return Event{}, errEmptyLine
	}

	var w wireEvent
	if err := json.Unmarshal(line, &w); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}

	ev := Event{Timestamp: w.Timestamp}
	switch w.Type {
	case "paired":
		ev.Type = EventPaired
		ev.Name = w.Name
	case "connect":
		ev.Type = EventConnect
		ev.Name = w.Name
	case "disconnect":
		ev.Type = EventDisconnect
	case "emg":
		ev.Type = EventEMG
		if len(w.EMG) != models.EMGChannels {
			return Event{}, fmt.Errorf("emg event has %d values, want %d", len(w.EMG), models.EMGChannels)
		}
		for i, v := range w.EMG {
			if v < math.MinInt8 || v > math.MaxInt8 {
				return Event{}, fmt.Errorf("emg value %d out of range", v)
			}
			ev.EMG[i] = int8(v)
		}
	case "orientation":
		ev.Type = EventOrientation
		if len(w.Quat) != 4 {
			return Event{}, fmt.Errorf("orientation event has %d values, want 4", len(w.Quat))
		}
		ev.Quaternion = models.Quaternion{X: w.Quat[0], Y: w.Quat[1], Z: w.Quat[2], W: w.Quat[3]}
	case "accelerometer", "gyroscope":
		ev.Type = EventAccelerometer
		if w.Type == "gyroscope" {
			ev.Type = EventGyroscope
		}
		if len(w.Vec) != 3 {
			return Event{}, fmt.Errorf("%s event has %d values, want 3", w.Type, len(w.Vec))
		}
		ev.Vector = models.Vector3{X: w.Vec[0], Y: w.Vec[1], Z: w.Vec[2]}
	case "pose":
		ev.Type = EventPose
		ev.Pose = w.Pose
	default:
		return Event{}, fmt.Errorf("unknown event type %q", w.Type)
	}
	return ev, nil
}
