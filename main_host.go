//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nanoterm/app"
	"nanoterm/config"
	"nanoterm/hal"
	"nanoterm/internal/buildinfo"
	"nanoterm/internal/logx"
)

func main() {
	var (
		cfgPath string
		pty     bool
		window  bool
		mirror  bool
		hz      int
		ticks   uint64
	)
	flag.StringVar(&cfgPath, "config", "", "YAML config file.")
	flag.BoolVar(&pty, "pty", false, "Serve the console on a pseudo-terminal instead of stdin/stdout.")
	flag.BoolVar(&window, "window", false, "Mirror the console in a desktop window (needs cgo).")
	flag.BoolVar(&mirror, "mirror", false, "Render the console into the in-memory display.")
	flag.IntVar(&hz, "headless-hz", 0, "Tick rate without a window (0 = config value).")
	flag.Uint64Var(&ticks, "ticks", 0, "Stop after N ticks without a window (0 = run forever).")
	flag.Parse()

	if err := run(cfgPath, pty, window, mirror, hz, ticks); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgPath string, pty, window, mirror bool, hz int, ticks uint64) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	cfg.Host.PTY = cfg.Host.PTY || pty
	cfg.Host.Window = cfg.Host.Window || window
	cfg.Host.Mirror = cfg.Host.Mirror || mirror
	if hz > 0 {
		cfg.Host.Hz = hz
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logPath := logx.Init(logx.Options{
		Level: cfg.Log.Level,
		Mode:  cfg.Log.Mode,
		File:  cfg.Log.File,
	})
	defer logx.Sync()
	logx.L().Infow("starting", "version", buildinfo.Short(), "log", logPath, "pty", cfg.Host.PTY, "window", cfg.Host.Window)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := hal.New(hal.HostConfig{
		PTY:         cfg.Host.PTY,
		Display:     cfg.Host.Mirror || cfg.Host.Window,
		Width:       cfg.Host.Width,
		Height:      cfg.Host.Height,
		OnInterrupt: stop,
	})
	if err != nil {
		return err
	}

	newApp := func(h hal.HAL) (func() error, error) {
		sys, err := app.New(ctx, h, cfg, logx.L())
		if err != nil {
			return nil, err
		}
		return sys.Step, nil
	}

	if cfg.Host.Window {
		return hal.RunWindow(h, newApp)
	}
	return hal.RunHeadless(ctx, h, newApp, hal.HeadlessConfig{Hz: cfg.Host.Hz, Ticks: ticks})
}
