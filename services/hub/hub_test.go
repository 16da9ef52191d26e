package hub

import (
	"bytes"
	"time"

	"emg-logger/models"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// recorder is a Listener that keeps every callback it receives.
type recorder struct {
	events []Event
	devs   []Device
}

func (r *recorder) add(dev Device, ev Event) {
	r.events = append(r.events, ev)
	r.devs = append(r.devs, dev)
}

func (r *recorder) OnConnect(dev Device, ts uint64) {
	r.add(dev, Event{Type: EventConnect, Timestamp: ts})
}

func (r *recorder) OnDisconnect(dev Device, ts uint64) {
	r.add(dev, Event{Type: EventDisconnect, Timestamp: ts})
}

func (r *recorder) OnEmg(dev Device, ts uint64, emg [models.EMGChannels]int8) {
	r.add(dev, Event{Type: EventEMG, Timestamp: ts, EMG: emg})
}

func (r *recorder) OnOrientation(dev Device, ts uint64, q models.Quaternion) {
	r.add(dev, Event{Type: EventOrientation, Timestamp: ts, Quaternion: q})
}

func (r *recorder) OnAccelerometer(dev Device, ts uint64, v models.Vector3) {
	r.add(dev, Event{Type: EventAccelerometer, Timestamp: ts, Vector: v})
}

func (r *recorder) OnGyroscope(dev Device, ts uint64, v models.Vector3) {
	r.add(dev, Event{Type: EventGyroscope, Timestamp: ts, Vector: v})
}

func (r *recorder) OnPose(dev Device, ts uint64, pose string) {
	r.add(dev, Event{Type: EventPose, Timestamp: ts, Pose: pose})
}

func (r *recorder) count(t EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) ofType(t EventType) []Event {
	var out []Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// noPose forwards to a recorder but does not implement PoseListener.
type noPose struct{ r *recorder }

func (n noPose) OnConnect(dev Device, ts uint64)    { n.r.OnConnect(dev, ts) }
func (n noPose) OnDisconnect(dev Device, ts uint64) { n.r.OnDisconnect(dev, ts) }
func (n noPose) OnEmg(dev Device, ts uint64, emg [models.EMGChannels]int8) {
	n.r.OnEmg(dev, ts, emg)
}
func (n noPose) OnOrientation(dev Device, ts uint64, q models.Quaternion) {
	n.r.OnOrientation(dev, ts, q)
}
func (n noPose) OnAccelerometer(dev Device, ts uint64, v models.Vector3) {
	n.r.OnAccelerometer(dev, ts, v)
}
func (n noPose) OnGyroscope(dev Device, ts uint64, v models.Vector3) {
	n.r.OnGyroscope(dev, ts, v)
}

// fakePort is an in-memory serial port. Reads return (0, nil) once the
// input is drained, like a real port whose read timed out.
type fakePort struct {
	in       bytes.Buffer
	out      bytes.Buffer
	timeouts []time.Duration
	closed   int
	readErr  error
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.readErr != nil {
		return 0, p.readErr
	}
	if p.in.Len() == 0 {
		return 0, nil
	}
	return p.in.Read(b)
}

func (p *fakePort) Write(b []byte) (int, error) { return p.out.Write(b) }

func (p *fakePort) Close() error {
	p.closed++
	return nil
}

func (p *fakePort) SetReadTimeout(d time.Duration) error {
	p.timeouts = append(p.timeouts, d)
	return nil
}
