// Package main is the entry point for the macropad firmware simulator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MJD19994/macropad/internal/config"
	"github.com/MJD19994/macropad/internal/controller"
	"github.com/MJD19994/macropad/internal/device"
	"github.com/MJD19994/macropad/internal/device/sim"
	"github.com/MJD19994/macropad/internal/game"
	"github.com/MJD19994/macropad/internal/logging"
	"github.com/MJD19994/macropad/internal/macro"
	"github.com/MJD19994/macropad/internal/profile"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "macropad.toml", "Path to configuration file")
		profilesDir = flag.String("profiles", "", "Profile folder (overrides config)")
		logLevel    = flag.String("log-level", "", "Log level (overrides config)")
		gameScript  = flag.String("game", "", "Lua game script (overrides config)")
		dumpIndex   = flag.Int("dump-profile", -1, "Print profile N as descriptor JSON and exit")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("macropad %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *profilesDir != "" {
		cfg.ProfilesDir = *profilesDir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *gameScript != "" {
		cfg.GameScript = *gameScript
	}

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Prefix: "macropad",
	})
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	// Load profiles once; malformed files are skipped inside the loader.
	// Zero profiles is not fatal here: the controller shows the halt
	// screen, which is the device's deliberate empty-registry behavior.
	loader := profile.NewLoader(logger.WithComponent("loader"))
	profiles, err := loader.LoadDir(cfg.ProfilesDir)
	if err != nil && !errors.Is(err, profile.ErrNoProfiles) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	registry := profile.NewRegistry(profiles)
	if registry.Count() > 0 {
		registry.Append(profile.GameProfile(cfg.GameName))
	}

	if *dumpIndex >= 0 {
		return dumpProfile(registry, *dumpIndex)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pad, err := sim.New(cancel, sim.WithSlotWidth(cfg.SlotWidth))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating simulator: %v\n", err)
		return 1
	}
	defer pad.Close()

	forward, err := newForwardOutput(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	trace := device.NewTrace(forward)
	trace.OnCall(pad.Log)

	var gameOpts []game.RunnerOption
	gameOpts = append(gameOpts, game.WithRunnerLogger(logger.WithComponent("game")))
	if cfg.GameScript != "" {
		src, err := os.ReadFile(cfg.GameScript)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading game script: %v\n", err)
			return 1
		}
		gameOpts = append(gameOpts, game.WithScript(string(src)))
	}
	runner := game.NewRunner(pad, pad, trace, gameOpts...)

	interp := macro.New(trace, macro.WithLogger(logger.WithComponent("macro")))
	ctrl := controller.New(registry, interp, trace, pad, pad, runner,
		controller.WithGameKey(cfg.GameKey),
		controller.WithLogger(logger.WithComponent("controller")),
		controller.WithMenuSurface(pad.MenuSurface()),
	)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// dumpProfile prints one loaded profile back as descriptor JSON.
func dumpProfile(registry *profile.Registry, index int) int {
	if index >= registry.Count() {
		fmt.Fprintf(os.Stderr, "Error: profile index %d out of range (%d loaded)\n",
			index, registry.Count())
		return 1
	}
	data, err := profile.Marshal(registry.Get(index))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}
