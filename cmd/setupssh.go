package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cellhasher "github.com/lukewrightmain/cellhahser-scripts"
	"github.com/lukewrightmain/cellhahser-scripts/adb"
	"github.com/lukewrightmain/cellhahser-scripts/provision"
)

func newSetupSSHCmd() *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:   "setup-ssh",
		Short: "Install and start OpenSSH inside Termux on one device",
		Long: `setup-ssh pushes a provisioning script to the device and runs it by
driving the Termux UI with injected keystrokes. The SSH password is taken
from env TERMUX_SSH_PASSWORD and never printed. Exit status: 0 triggered,
2 missing input, 3 Termux not installed.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runSetupSSH(cmd.Context(), device); err != nil {
				log.Error().Err(err).Msg("termux ssh setup failed")
				os.Exit(provision.ExitCode(err))
			}
		},
	}
	cmd.Flags().StringVar(&device, "device", "", "device serial, defaults to the first configured device")
	return cmd
}

func runSetupSSH(ctx context.Context, device string) error {
	runner := newRunner()
	if device == "" {
		devices, err := resolveDevices(ctx, runner)
		if err != nil {
			return errors.Wrap(provision.ErrMissingInput, err.Error())
		}
		device = devices[0]
	}
	secret := os.Getenv(cellhasher.EnvTermuxPassword)
	return provision.NewDriver(runner).Setup(ctx, device, secret)
}

var _ provision.Bridge = (*adb.Runner)(nil)
