package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cellhasher "github.com/lukewrightmain/cellhahser-scripts"
	"github.com/lukewrightmain/cellhahser-scripts/internal/config"
	"github.com/lukewrightmain/cellhahser-scripts/internal/history"
)

func newInstallCmd() *cobra.Command {
	var (
		endpoint    string
		historyPath string
	)
	cmd := &cobra.Command{
		Use:   "install-acurast",
		Short: "Install or update Acurast Lite on every configured device",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := newRunner()
			devices, err := resolveDevices(ctx, runner)
			if err != nil {
				return err
			}

			var recorder cellhasher.RunRecorder
			dbPath := historyPath
			if dbPath == "" {
				dbPath = config.String(cellhasher.EnvRunHistoryDB, "")
			}
			if dbPath != "" {
				store, err := history.Open(dbPath)
				if err != nil {
					return err
				}
				defer store.Close()
				recorder = store
			}

			relEndpoint := endpoint
			if relEndpoint == "" {
				relEndpoint = config.String(cellhasher.EnvReleaseEndpoint, cellhasher.DefaultReleaseEndpoint)
			}

			summary, err := cellhasher.RunInstall(ctx, cellhasher.InstallConfig{
				Bridge:   runner,
				Devices:  devices,
				Endpoint: relEndpoint,
				Recorder: recorder,
			})
			if err != nil {
				return err
			}
			if summary.Succeeded < summary.Total {
				log.Warn().
					Int("succeeded", summary.Succeeded).
					Int("devices", summary.Total).
					Msg("some devices did not install cleanly, see the lines above")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "release listing endpoint, overrides env RELEASE_ENDPOINT")
	cmd.Flags().StringVar(&historyPath, "history-db", "", "sqlite file for run history, overrides env RUN_HISTORY_DB")
	return cmd
}
