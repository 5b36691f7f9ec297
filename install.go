package cellhasher

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lukewrightmain/cellhahser-scripts/adb"
	"github.com/lukewrightmain/cellhahser-scripts/release"
)

// Bridge runs one adb command against a device. *adb.Runner satisfies it.
type Bridge interface {
	Run(ctx context.Context, serial string, args ...string) (adb.Result, error)
}

// InstallConfig parameterizes a fleet install run. Zero values fall back to
// the Acurast defaults.
type InstallConfig struct {
	Bridge     Bridge
	Devices    []string
	Endpoint   string
	Marker     string
	Extension  string
	ScratchDir string
	Recorder   RunRecorder
}

// RunInstall drives the full install flow: resolve the latest matching
// release asset, download it to scratch, install it on every device
// concurrently, aggregate the outcomes, and remove the artifact. Resolution
// and download failures abort before any device is touched; per-device
// failures never abort the batch.
func RunInstall(ctx context.Context, cfg InstallConfig) (Summary, error) {
	if cfg.Bridge == nil {
		return Summary{}, errors.New("install: bridge cannot be nil")
	}
	if len(cfg.Devices) == 0 {
		return Summary{}, errors.New("install: no devices configured")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultReleaseEndpoint
	}
	if cfg.Marker == "" {
		cfg.Marker = AssetMarker
	}
	if cfg.Extension == "" {
		cfg.Extension = AssetExtension
	}
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = os.TempDir()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = NopRecorder{}
	}

	client := release.NewClient(cfg.Endpoint)
	asset, err := client.LatestAsset(ctx, release.NameMatcher(cfg.Marker, cfg.Extension))
	if err != nil {
		return Summary{}, err
	}
	artifact, err := client.Download(ctx, asset, cfg.ScratchDir)
	if err != nil {
		return Summary{}, err
	}
	defer removeArtifact(artifact.Path)

	log.Info().
		Int("devices", len(cfg.Devices)).
		Str("apk", asset.Name).
		Msg("installing on fleet")
	results := RunAcrossFleet(ctx, cfg.Devices, InstallOp(cfg.Bridge, artifact.Path))
	outcomes, summary := Aggregate(results)
	summary.Log()

	if err := recorder.RecordRun(ctx, asset.Name, outcomes); err != nil {
		log.Error().Err(err).Msg("record run history failed")
	}
	return summary, nil
}

// InstallOp returns the per-device operation that installs the downloaded
// APK with install -r. The device counts as a success when the exit code is
// zero or stdout carries the Success marker; some adb builds report success
// only in text.
func InstallOp(bridge Bridge, apkPath string) Operation {
	return func(ctx context.Context, serial string) Outcome {
		res, err := bridge.Run(ctx, serial, "install", "-r", apkPath)
		if err != nil {
			if errors.Is(err, adb.ErrTimeout) {
				return Outcome{DeviceSerial: serial, Status: StatusTimeout, Message: err.Error()}
			}
			return Outcome{DeviceSerial: serial, Status: StatusError, Message: err.Error()}
		}
		if res.ExitCode == 0 || strings.Contains(res.Stdout, installSuccessMarker) {
			return Outcome{DeviceSerial: serial, Status: StatusSuccess, Message: strings.TrimSpace(res.Stdout)}
		}
		msg := strings.TrimSpace(res.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(res.Stdout)
		}
		return Outcome{DeviceSerial: serial, Status: StatusFailure, Message: msg}
	}
}

// removeArtifact deletes the downloaded artifact once all device operations
// have finished. An already-missing file is not an error.
func removeArtifact(path string) {
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("cleanup downloaded artifact failed")
		}
		return
	}
	log.Info().Str("path", path).Msg("removed downloaded artifact")
}
