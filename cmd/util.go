package main

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	cellhasher "github.com/lukewrightmain/cellhahser-scripts"
	"github.com/lukewrightmain/cellhahser-scripts/adb"
	"github.com/lukewrightmain/cellhahser-scripts/internal/config"
)

func newRunner() *adb.Runner {
	path := rootAdbPath
	if path == "" {
		path = config.String(cellhasher.EnvAdbPath, cellhasher.DefaultAdbPath)
	}
	return adb.NewRunner(path, config.Duration(cellhasher.EnvAdbTimeout, 0))
}

// resolveDevices picks the target serials: --devices flag, then the devices
// env var, then whatever `adb devices` reports.
func resolveDevices(ctx context.Context, runner *adb.Runner) ([]string, error) {
	if fields := strings.Fields(rootDevices); len(fields) > 0 {
		return fields, nil
	}
	if devices := config.Devices(cellhasher.EnvDevices); len(devices) > 0 {
		return devices, nil
	}
	log.Info().Msg("env devices is empty, asking adb for connected devices")
	devices, err := runner.ListDevices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list connected devices")
	}
	if len(devices) == 0 {
		return nil, errors.New("no devices configured and none connected")
	}
	return devices, nil
}
