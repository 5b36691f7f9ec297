package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lukewrightmain/cellhahser-scripts/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "cellhasher",
	Short: "Device-fleet helpers for Cellhasher-managed Android phones",
	Long: `cellhasher drives adb across the configured device fleet: batch
Acurast Lite install/update and Termux SSH provisioning. The adb binary and
the device list come from the environment the host app exports (adb_path,
devices), overridable per invocation with flags.`,
}

var (
	rootAdbPath string
	rootDevices string
)

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	rootCmd.PersistentFlags().StringVar(&rootAdbPath, "adb", "", "adb executable path, overrides env adb_path")
	rootCmd.PersistentFlags().StringVar(&rootDevices, "devices", "", "space-separated device serials, overrides env devices")
	rootCmd.AddCommand(
		newInstallCmd(),
		newSetupSSHCmd(),
	)
	_ = config.Ensure()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("cellhasher command failed")
	}
}
