package hub

import (
	"context"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/num/quat"

	"emg-logger/models"
	"emg-logger/utils"
)

const simDeviceName = "sim-armband"

var simPoses = []string{"rest", "fist", "waveIn", "waveOut", "fingersSpread", "doubleTap"}

// Rotation axis of the simulated arm, unit length.
var simAxis = models.Vector3{X: 1.0 / 3, Y: 2.0 / 3, Z: 2.0 / 3}

type simDevice struct {
	streamEMG bool
}

func (d *simDevice) Name() string { return simDeviceName }

func (d *simDevice) SetStreamEMG(enabled bool) error {
	d.streamEMG = enabled
	return nil
}

// SimHub synthesizes an armband: EMG noise bursts while EMG streaming is on,
// and an arm rotating at a constant rate about a fixed axis. Time comes from
// the injected clock, so a MockClock makes the stream fully deterministic.
type SimHub struct {
	dispatcher

	cfg   utils.SimulationConfig
	clock utils.Clock
	rng   *rand.Rand
	dev   *simDevice

	start     time.Time
	emgPeriod time.Duration
	imuPeriod time.Duration
	cycle     time.Duration

	// offsets from start of the next due event of each kind
	nextEMG   time.Duration
	nextIMU   time.Duration
	nextCycle time.Duration

	orient quat.Number
	step   quat.Number
	omega  models.Vector3 // deg/s

	poses  int
	events uint64
	closed bool
}

// NewSimHub returns a simulated hub. Rates that are not positive fall back
// to 200 Hz EMG and 50 Hz IMU.
func NewSimHub(cfg utils.SimulationConfig, clock utils.Clock) *SimHub {
	if cfg.EMGRateHz <= 0 {
		cfg.EMGRateHz = 200
	}
	if cfg.IMURateHz <= 0 {
		cfg.IMURateHz = 50
	}

	h := &SimHub{
		cfg:       cfg,
		clock:     clock,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		emgPeriod: time.Second / time.Duration(cfg.EMGRateHz),
		imuPeriod: time.Second / time.Duration(cfg.IMURateHz),
		orient:    quat.Number{Real: 1},
	}
	if cfg.ReconnectEveryS > 0 {
		h.cycle = time.Duration(cfg.ReconnectEveryS) * time.Second
	}

	rate := cfg.AngularRateDegS
	h.omega = models.Vector3{
		X: float32(float64(simAxis.X) * rate),
		Y: float32(float64(simAxis.Y) * rate),
		Z: float32(float64(simAxis.Z) * rate),
	}

	// Rotation over one IMU period: exp of half the angle about the axis.
	half := rate * math.Pi / 180 * h.imuPeriod.Seconds() / 2
	h.step = quat.Exp(quat.Scale(half, quat.Number{
		Imag: float64(simAxis.X),
		Jmag: float64(simAxis.Y),
		Kmag: float64(simAxis.Z),
	}))
	return h
}

// WaitForDevice pairs the simulated armband immediately.
func (h *SimHub) WaitForDevice(ctx context.Context, _ time.Duration) (Device, error) {
	if h.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h.dev == nil {
		h.dev = &simDevice{}
		h.start = h.clock.Now()
		h.nextEMG = h.emgPeriod
		h.nextIMU = h.imuPeriod
		h.nextCycle = h.cycle
		utils.L().Info("simulated armband paired  (emg=%dHz, imu=%dHz, reconnect_every=%s)",
			h.cfg.EMGRateHz, h.cfg.IMURateHz, h.cycle)
	}
	return h.dev, nil
}

// Run emits every event due up to the end of budget, sleeping on the clock
// between events.
func (h *SimHub) Run(ctx context.Context, budget time.Duration) error {
	if h.closed {
		return ErrClosed
	}
	if h.dev == nil {
		return ErrDeviceNotFound
	}

	deadline := h.clock.Now().Add(budget)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := h.clock.Now()
		h.emitDue(now.Sub(h.start))
		if !now.Before(deadline) {
			return nil
		}

		wait := deadline.Sub(now)
		if next, _ := h.nextEvent(); h.start.Add(next).Sub(now) < wait {
			wait = h.start.Add(next).Sub(now)
		}
		h.clock.Sleep(wait)
	}
}

// Close stops the simulator.
func (h *SimHub) Close() error {
	if !h.closed {
		h.closed = true
		utils.L().Info("simulated hub stopped  (events=%d)", h.events)
	}
	return nil
}

// Events returns the number of events dispatched so far.
func (h *SimHub) Events() uint64 { return h.events }

type simEventKind int

const (
	simEMG simEventKind = iota
	simIMU
	simCycle
)

func (h *SimHub) nextEvent() (time.Duration, simEventKind) {
	at, kind := h.nextEMG, simEMG
	if h.nextIMU < at {
		at, kind = h.nextIMU, simIMU
	}
	if h.cycle > 0 && h.nextCycle < at {
		at, kind = h.nextCycle, simCycle
	}
	return at, kind
}

func (h *SimHub) emitDue(elapsed time.Duration) {
	for {
		at, kind := h.nextEvent()
		if at > elapsed {
			return
		}
		ts := uint64(at / time.Microsecond)
		switch kind {
		case simEMG:
			if h.dev.streamEMG {
				h.emit(Event{Type: EventEMG, Timestamp: ts, EMG: h.emgValues(at)})
			}
			h.nextEMG += h.emgPeriod
		case simIMU:
			h.emitIMU(ts)
			h.nextIMU += h.imuPeriod
		case simCycle:
			h.emitCycle(ts)
			h.nextCycle += h.cycle
		}
	}
}

func (h *SimHub) emit(ev Event) {
	h.events++
	h.dispatch(h.dev, ev)
}

// emgValues produces Gaussian noise whose amplitude swells and fades every
// two seconds, roughly a muscle contracting and relaxing.
func (h *SimHub) emgValues(at time.Duration) [models.EMGChannels]int8 {
	amp := 4 + 60*math.Abs(math.Sin(math.Pi*at.Seconds()/2))
	var out [models.EMGChannels]int8
	for i := range out {
		v := math.Round(h.rng.NormFloat64() * amp)
		out[i] = int8(math.Max(-128, math.Min(127, v)))
	}
	return out
}

func (h *SimHub) emitIMU(ts uint64) {
	h.orient = quat.Mul(h.orient, h.step)
	h.orient = quat.Scale(1/quat.Abs(h.orient), h.orient)
	q := h.orient

	h.emit(Event{Type: EventOrientation, Timestamp: ts, Quaternion: models.Quaternion{
		X: float32(q.Imag), Y: float32(q.Jmag), Z: float32(q.Kmag), W: float32(q.Real),
	}})

	// gravity (1 g along world z) seen from the device frame
	g := quat.Mul(quat.Mul(quat.Conj(q), quat.Number{Kmag: 1}), q)
	h.emit(Event{Type: EventAccelerometer, Timestamp: ts, Vector: models.Vector3{
		X: float32(g.Imag + h.noise(0.01)),
		Y: float32(g.Jmag + h.noise(0.01)),
		Z: float32(g.Kmag + h.noise(0.01)),
	}})

	h.emit(Event{Type: EventGyroscope, Timestamp: ts, Vector: models.Vector3{
		X: h.omega.X + float32(h.noise(0.2)),
		Y: h.omega.Y + float32(h.noise(0.2)),
		Z: h.omega.Z + float32(h.noise(0.2)),
	}})
}

func (h *SimHub) noise(sigma float64) float64 {
	return h.rng.NormFloat64() * sigma
}

// emitCycle drops and re-establishes the link. The armband stops streaming
// EMG on disconnect, so a listener has to re-enable it on connect.
func (h *SimHub) emitCycle(ts uint64) {
	h.emit(Event{Type: EventDisconnect, Timestamp: ts})
	h.dev.streamEMG = false
	h.emit(Event{Type: EventConnect, Timestamp: ts})
	if h.cfg.PoseOnReconnect {
		h.emit(Event{Type: EventPose, Timestamp: ts, Pose: simPoses[h.poses%len(simPoses)]})
		h.poses++
	}
}
