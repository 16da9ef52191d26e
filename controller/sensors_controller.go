package controller

import (
	"fmt"

	"emg-logger/services/hub"
	"emg-logger/utils"
)

// NewHub builds the hub for the configured device driver.
func NewHub(cfg *utils.Config, clock utils.Clock) (hub.Hub, error) {
	switch cfg.Device.Driver {
	case utils.DriverSimulated:
		utils.L().Info("device driver: simulated  (seed=%d)", cfg.Simulation.Seed)
		return hub.NewSimHub(cfg.Simulation, clock), nil
	case utils.DriverSerial:
		h, err := hub.OpenSerialHub(cfg.Device, clock)
		if err != nil {
			return nil, err
		}
		utils.L().Info("device driver: serial  (port=%s)", cfg.Device.SerialPort)
		return h, nil
	default:
		return nil, fmt.Errorf("unknown device driver %q", cfg.Device.Driver)
	}
}
