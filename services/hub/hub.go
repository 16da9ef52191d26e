// Package hub delivers armband events to listeners. A Hub owns the device
// connection; its Run method pumps pending events and invokes every
// registered Listener synchronously on the caller's goroutine.
package hub

import (
	"context"
	"errors"
	"time"

	"emg-logger/models"
)

var (
	// ErrDeviceNotFound is returned when no armband pairs within the wait budget.
	ErrDeviceNotFound = errors.New("unable to find a device")
	// ErrClosed is returned by operations on a closed hub.
	ErrClosed = errors.New("hub closed")
)

// Device is a paired armband.
type Device interface {
	Name() string
	SetStreamEMG(enabled bool) error
}

// Listener receives device callbacks. Timestamps are the device clock in
// microseconds.
type Listener interface {
	OnConnect(dev Device, ts uint64)
	OnDisconnect(dev Device, ts uint64)
	OnEmg(dev Device, ts uint64, emg [models.EMGChannels]int8)
	OnOrientation(dev Device, ts uint64, q models.Quaternion)
	OnAccelerometer(dev Device, ts uint64, accel models.Vector3)
	OnGyroscope(dev Device, ts uint64, gyro models.Vector3)
}

// PoseListener is implemented by listeners that also want pose events.
type PoseListener interface {
	OnPose(dev Device, ts uint64, pose string)
}

// Hub is a source of device events.
type Hub interface {
	// WaitForDevice blocks until a device pairs or timeout elapses.
	WaitForDevice(ctx context.Context, timeout time.Duration) (Device, error)
	AddListener(l Listener)
	// Run delivers pending events for at most budget and returns.
	Run(ctx context.Context, budget time.Duration) error
	Close() error
}

// EventType tags a decoded Event.
type EventType int

const (
	EventPaired EventType = iota
	EventConnect
	EventDisconnect
	EventEMG
	EventOrientation
	EventAccelerometer
	EventGyroscope
	EventPose
)

var eventNames = map[EventType]string{
	EventPaired:        "paired",
	EventConnect:       "connect",
	EventDisconnect:    "disconnect",
	EventEMG:           "emg",
	EventOrientation:   "orientation",
	EventAccelerometer: "accelerometer",
	EventGyroscope:     "gyroscope",
	EventPose:          "pose",
}

func (t EventType) String() string {
	if n, ok := eventNames[t]; ok {
		return n
	}
	return "unknown"
}

// Event is one decoded device callback. Only the field matching Type is set.
type Event struct {
	Type       EventType
	Timestamp  uint64
	Name       string
	EMG        [models.EMGChannels]int8
	Quaternion models.Quaternion
	Vector     models.Vector3
	Pose       string
}

// dispatcher fans events out to listeners in registration order.
type dispatcher struct {
	listeners []Listener
}

func (d *dispatcher) AddListener(l Listener) {
	d.listeners = append(d.listeners, l)
}

func (d *dispatcher) dispatch(dev Device, ev Event) {
	for _, l := range d.listeners {
		switch ev.Type {
		case EventConnect:
			l.OnConnect(dev, ev.Timestamp)
		case EventDisconnect:
			l.OnDisconnect(dev, ev.Timestamp)
		case EventEMG:
			l.OnEmg(dev, ev.Timestamp, ev.EMG)
		case EventOrientation:
			l.OnOrientation(dev, ev.Timestamp, ev.Quaternion)
		case EventAccelerometer:
			l.OnAccelerometer(dev, ev.Timestamp, ev.Vector)
		case EventGyroscope:
			l.OnGyroscope(dev, ev.Timestamp, ev.Vector)
		case EventPose:
			if pl, ok := l.(PoseListener); ok {
				pl.OnPose(dev, ev.Timestamp, ev.Pose)
			}
		}
	}
}
