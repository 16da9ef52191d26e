package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"emg-logger/controller"
	"emg-logger/services/hub"
	"emg-logger/utils"
)

func runRecord(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := utils.LoadConfig(path, cmd.Flags())
	if err != nil {
		return err
	}

	logger := utils.InitLogger(cfg.LogOptions())
	defer logger.Close()

	utils.L().Info("═══════════════════════════════════════════════════")
	utils.L().Info("  EMG-Logger  ·  armband EMG / IMU recorder")
	utils.L().Info("  GOMAXPROCS=%d  ·  PID=%d", runtime.GOMAXPROCS(0), os.Getpid())
	utils.L().Info("═══════════════════════════════════════════════════")

	if !filepath.IsAbs(cfg.Storage.BaseDir) {
		abs, _ := filepath.Abs(cfg.Storage.BaseDir)
		cfg.Storage.BaseDir = abs
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := utils.RealClock{}
	h, err := controller.NewHub(cfg, clock)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	err = controller.Record(ctx, cfg, h, clock)
	if errors.Is(err, hub.ErrDeviceNotFound) {
		return fmt.Errorf("unable to find a device within %s: %w", cfg.WaitTimeout(), err)
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		utils.L().Info("interrupted, session files closed")
	}

	fmt.Println("\n✓ EMG-Logger finished. Sessions at:", cfg.Storage.BaseDir)
	return nil
}

func runInit(cmd *cobra.Command, _ []string) error {
	printOnly, _ := cmd.Flags().GetBool("print")
	output, _ := cmd.Flags().GetString("output")
	overwrite, _ := cmd.Flags().GetBool("yes")

	cfg := utils.DefaultConfig()
	if printOnly {
		return utils.WriteConfig(cmd.OutOrStdout(), cfg)
	}
	if err := utils.DumpConfig(cfg, output, overwrite); err != nil {
		return err
	}
	utils.L().Info("configuration written to %s", output)
	return nil
}
