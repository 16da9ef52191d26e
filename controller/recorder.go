package controller

import (
	"context"
	"fmt"
	"time"

	"emg-logger/services/hub"
	"emg-logger/utils"
)

// Record waits for the armband, starts EMG streaming and pumps hub events
// into session files until ctx is cancelled or the configured duration has
// elapsed on clock. The session is closed before Record returns.
func Record(ctx context.Context, cfg *utils.Config, h hub.Hub, clock utils.Clock) error {
	dev, err := h.WaitForDevice(ctx, cfg.WaitTimeout())
	if err != nil {
		return fmt.Errorf("wait for device: %w", err)
	}
	if err := dev.SetStreamEMG(true); err != nil {
		return fmt.Errorf("enable emg streaming: %w", err)
	}

	store := NewSampleStore()
	session := NewSessionController(cfg.Storage, clock, store, dev.Name())
	session.SetStatsInterval(time.Duration(cfg.Logging.StatsEvery) * time.Second)
	listener := NewListener(session, store, clock)
	defer session.Close()
	h.AddListener(listener)

	var stopAt time.Time
	if d := cfg.Simulation.DurationSeconds; d > 0 {
		stopAt = clock.Now().Add(time.Duration(d) * time.Second)
		utils.L().Info("recording will auto-stop after %ds", d)
	}

	budget := cfg.PollInterval()
	utils.L().Info("recording from %s  (poll=%s)", dev.Name(), budget)
	for {
		if !stopAt.IsZero() && !clock.Now().Before(stopAt) {
			return nil
		}
		if err := h.Run(ctx, budget); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("hub run: %w", err)
		}
		session.Tick(clock.Now())
	}
}
