package controller

import (
	"emg-logger/models"
	"emg-logger/services/hub"
	"emg-logger/utils"
	"emg-logger/views"
)

// Listener turns hub callbacks into sample-store updates and session rows.
type Listener struct {
	session *SessionController
	store   *SampleStore
	clock   utils.Clock
}

var (
	_ hub.Listener     = (*Listener)(nil)
	_ hub.PoseListener = (*Listener)(nil)
)

// NewListener opens the first session. The device is already connected when
// the listener is registered, so no connect event will announce it.
func NewListener(session *SessionController, store *SampleStore, clock utils.Clock) *Listener {
	session.Open()
	return &Listener{session: session, store: store, clock: clock}
}

func (l *Listener) OnConnect(dev hub.Device, ts uint64) {
	utils.L().Info("device connected  (name=%s, ts=%d)", dev.Name(), ts)
	l.session.OnConnect()
	if err := dev.SetStreamEMG(true); err != nil {
		utils.L().Warn("enable emg streaming: %v", err)
	}
}

func (l *Listener) OnDisconnect(dev hub.Device, ts uint64) {
	utils.L().Info("device disconnected  (name=%s, ts=%d)", dev.Name(), ts)
	l.session.OnDisconnect()
}

func (l *Listener) OnEmg(_ hub.Device, ts uint64, emg [models.EMGChannels]int8) {
	l.store.UpdateEMG(ts, emg)
	s := l.store.EMG()
	l.session.Append(views.StreamEMG, s.CSVRow())
}

// OnOrientation writes the raw quaternion row and its Euler-angle row.
func (l *Listener) OnOrientation(_ hub.Device, ts uint64, q models.Quaternion) {
	l.store.UpdateOrientation(ts, q)
	s := l.store.Orientation()
	l.session.Append(views.StreamOrientation, s.CSVRow())

	e := s.Euler()
	l.session.Append(views.StreamOrientationEuler, e.CSVRow())
}

func (l *Listener) OnAccelerometer(_ hub.Device, ts uint64, accel models.Vector3) {
	l.store.UpdateAccelerometer(ts, accel, utils.UnixMilli(l.clock))
	s := l.store.Accelerometer()
	l.session.Append(views.StreamAccelerometer, s.CSVRow())
}

func (l *Listener) OnGyroscope(_ hub.Device, ts uint64, gyro models.Vector3) {
	l.store.UpdateGyroscope(ts, gyro, utils.UnixMilli(l.clock))
	s := l.store.Gyroscope()
	l.session.Append(views.StreamGyroscope, s.CSVRow())
}

func (l *Listener) OnPose(dev hub.Device, ts uint64, pose string) {
	utils.L().Info("pose %s  (name=%s, ts=%d)", pose, dev.Name(), ts)
}
