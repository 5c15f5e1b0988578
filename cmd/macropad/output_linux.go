//go:build linux

package main

import (
	"github.com/MJD19994/macropad/internal/config"
	"github.com/MJD19994/macropad/internal/device"
	"github.com/MJD19994/macropad/internal/device/uinput"
	"github.com/MJD19994/macropad/internal/logging"
)

// newForwardOutput builds the optional real output sink behind the trace.
func newForwardOutput(cfg config.Config, log *logging.Logger) (device.Output, error) {
	if cfg.Output != config.OutputUinput {
		return nil, nil
	}
	return uinput.New(log.WithComponent("uinput"))
}
