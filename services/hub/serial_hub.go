package hub

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"emg-logger/utils"
)

const (
	serialReadSize   = 4096
	maxPartialLine   = 64 * 1024
	waitPollInterval = 10 * time.Millisecond
	defaultDevice    = "armband"
)

type serialDevice struct {
	hub  *SerialHub
	name string
}

func (d *serialDevice) Name() string { return d.name }

// SetStreamEMG asks the bridge to start or stop EMG streaming.
func (d *serialDevice) SetStreamEMG(enabled bool) error {
	cmd := "stream emg off\n"
	if enabled {
		cmd = "stream emg on\n"
	}
	return d.hub.write(cmd)
}

// SerialHub reads newline-delimited JSON events from an armband bridge on a
// serial line. Data events that arrive before the bridge reports a paired
// or connected device are discarded.
type SerialHub struct {
	dispatcher

	port  SerialPorter
	clock utils.Clock
	dev   *serialDevice

	readBuf     []byte
	partial     []byte
	readTimeout time.Duration

	lines     uint64
	malformed uint64
	closed    bool
}

// OpenSerialHub opens the configured serial port.
func OpenSerialHub(cfg utils.DeviceConfig, clock utils.Clock) (*SerialHub, error) {
	opts := PortOptions{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
	}
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(cfg.SerialPort, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.SerialPort, err)
	}
	utils.L().Info("serial port opened  (port=%s, baud=%d)", cfg.SerialPort, mode.BaudRate)
	return NewSerialHub(port, clock), nil
}

// NewSerialHub wraps an already open port.
func NewSerialHub(port SerialPorter, clock utils.Clock) *SerialHub {
	return &SerialHub{
		port:    port,
		clock:   clock,
		readBuf: make([]byte, serialReadSize),
	}
}

// WaitForDevice reads events until the bridge reports a device or timeout
// elapses.
func (h *SerialHub) WaitForDevice(ctx context.Context, timeout time.Duration) (Device, error) {
	if h.closed {
		return nil, ErrClosed
	}

	deadline := h.clock.Now().Add(timeout)
	for h.dev == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !h.clock.Now().Before(deadline) {
			return nil, ErrDeviceNotFound
		}
		n, err := h.pump(ctx, waitPollInterval)
		if err != nil {
			return nil, err
		}
		if n == 0 && h.dev == nil {
			h.clock.Sleep(waitPollInterval)
		}
	}
	return h.dev, nil
}

// Run dispatches events until a read returns no data or budget elapses.
func (h *SerialHub) Run(ctx context.Context, budget time.Duration) error {
	if h.closed {
		return ErrClosed
	}
	_, err := h.pump(ctx, budget)
	return err
}

// Close closes the port.
func (h *SerialHub) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	utils.L().Info("serial hub closed  (lines=%d, malformed=%d)", h.lines, h.malformed)
	return h.port.Close()
}

// Malformed returns the number of lines that failed to decode.
func (h *SerialHub) Malformed() uint64 { return h.malformed }

func (h *SerialHub) write(cmd string) error {
	if h.closed {
		return ErrClosed
	}
	if _, err := io.WriteString(h.port, cmd); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}

func (h *SerialHub) pump(ctx context.Context, budget time.Duration) (int, error) {
	h.setReadTimeout(budget)

	deadline := h.clock.Now().Add(budget)
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := h.port.Read(h.readBuf)
		if n > 0 {
			total += n
			h.feed(h.readBuf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			return total, fmt.Errorf("serial read: %w", err)
		}
		if n == 0 || !h.clock.Now().Before(deadline) {
			return total, nil
		}
	}
}

func (h *SerialHub) setReadTimeout(d time.Duration) {
	tp, ok := h.port.(TimeoutSerialPorter)
	if !ok || d == h.readTimeout {
		return
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	if err := tp.SetReadTimeout(d); err != nil {
		utils.L().Warn("serial: set read timeout: %v", err)
		return
	}
	h.readTimeout = d
}

// feed splits data into lines, keeping an unterminated tail for the next read.
func (h *SerialHub) feed(data []byte) {
	h.partial = append(h.partial, data...)
	for {
		i := bytes.IndexByte(h.partial, '\n')
		if i < 0 {
			break
		}
		h.handleLine(bytes.TrimSpace(h.partial[:i]))
		h.partial = h.partial[i+1:]
	}
	if len(h.partial) > maxPartialLine {
		utils.L().Warn("serial: discarding %d bytes without a line break", len(h.partial))
		h.partial = h.partial[:0]
	}
	if len(h.partial) == 0 {
		h.partial = nil
	}
}

func (h *SerialHub) handleLine(line []byte) {
	if len(line) == 0 {
		return
	}
	h.lines++

	ev, err := DecodeLine(line)
	if err != nil {
		h.malformed++
		utils.L().Warn("serial: skipping line %q: %v", line, err)
		return
	}

	switch ev.Type {
	case EventPaired, EventConnect:
		if h.dev == nil {
			name := ev.Name
			if name == "" {
				name = defaultDevice
			}
			h.dev = &serialDevice{hub: h, name: name}
			utils.L().Info("armband paired  (name=%s)", name)
		} else if ev.Name != "" {
			h.dev.name = ev.Name
		}
		if ev.Type == EventPaired {
			return
		}
	}

	if h.dev == nil {
		utils.L().Debug("serial: dropping %s event before pairing", ev.Type)
		return
	}
	h.dispatch(h.dev, ev)
}
