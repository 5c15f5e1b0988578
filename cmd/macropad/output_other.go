//go:build !linux

package main

import (
	"fmt"

	"github.com/MJD19994/macropad/internal/config"
	"github.com/MJD19994/macropad/internal/device"
	"github.com/MJD19994/macropad/internal/logging"
)

// newForwardOutput builds the optional real output sink behind the trace.
func newForwardOutput(cfg config.Config, _ *logging.Logger) (device.Output, error) {
	if cfg.Output == config.OutputUinput {
		return nil, fmt.Errorf("uinput output requires Linux")
	}
	return nil, nil
}
