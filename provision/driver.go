package provision

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lukewrightmain/cellhahser-scripts/adb"
)

// Bridge runs one adb command against a device. *adb.Runner satisfies it.
type Bridge interface {
	Run(ctx context.Context, serial string, args ...string) (adb.Result, error)
}

// Settle delays let the device UI catch up between injection steps.
const (
	stopSettle   = time.Second
	launchSettle = 4 * time.Second
	typeSettle   = 500 * time.Millisecond
)

// Driver pushes the rendered provisioning script to one device and triggers
// it through the Termux UI. There is no feedback channel for the triggered
// script: the best-effort steps may silently miss, and success only means
// the sequence was injected.
type Driver struct {
	bridge     Bridge
	scratchDir string
	sleep      func(time.Duration)
}

// NewDriver builds a driver writing its scratch script to the system temp
// directory.
func NewDriver(bridge Bridge) *Driver {
	return &Driver{bridge: bridge, scratchDir: os.TempDir(), sleep: time.Sleep}
}

// step is one bridge invocation in the trigger sequence. Fatal steps abort
// the flow on failure; the rest are logged and skipped past. The settle
// delay always runs, even after a failed step.
type step struct {
	name   string
	fatal  bool
	settle time.Duration
	args   []string
}

// Setup renders the script and walks the trigger sequence on one device:
// stop Termux, push + chmod the script, relaunch Termux, type the invoking
// command, press enter. The returned error maps to an exit status via
// ExitCode; preconditions are checked before the device is mutated.
func (d *Driver) Setup(ctx context.Context, serial, secret string) error {
	if strings.TrimSpace(serial) == "" {
		return errors.Wrap(ErrMissingInput, "no device serial provided")
	}
	script, err := RenderScript(secret)
	if err != nil {
		return err
	}

	installed, err := d.targetInstalled(ctx, serial)
	if err != nil {
		return errors.Wrap(err, "query installed packages")
	}
	if !installed {
		return errors.Wrapf(ErrTargetNotInstalled, "device %s", serial)
	}

	localPath, err := d.writeScript(script)
	if err != nil {
		return err
	}
	log.Info().Str("serial", serial).Str("script", localPath).Msg("provisioning termux ssh")

	// input text has no space key: spaces are encoded as %s.
	typed := "bash%s" + RemoteScriptPath
	steps := []step{
		{name: "force-stop termux", settle: stopSettle, args: []string{"shell", "am", "force-stop", TermuxPackage}},
		{name: "push script", fatal: true, args: []string{"push", localPath, RemoteScriptPath}},
		{name: "chmod script", fatal: true, args: []string{"shell", "chmod", "755", RemoteScriptPath}},
		{name: "launch termux", settle: launchSettle, args: []string{"shell", "am", "start", "-n", TermuxActivity}},
		{name: "type command", settle: typeSettle, args: []string{"shell", "input", "text", typed}},
		{name: "press enter", args: []string{"shell", "input", "keyevent", "66"}},
	}
	for _, st := range steps {
		if err := d.runStep(ctx, serial, st); err != nil {
			if st.fatal {
				return errors.Wrap(err, st.name)
			}
			log.Warn().Err(err).Str("serial", serial).Str("step", st.name).Msg("best-effort step failed, continuing")
		}
		if st.settle > 0 {
			d.sleep(st.settle)
		}
	}
	log.Info().Str("serial", serial).Msg("setup triggered; watch the termux session for output")
	return nil
}

func (d *Driver) runStep(ctx context.Context, serial string, st step) error {
	res, err := d.bridge.Run(ctx, serial, st.args...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		msg := strings.TrimSpace(res.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(res.Stdout)
		}
		return errors.Errorf("exit %d: %s", res.ExitCode, msg)
	}
	return nil
}

func (d *Driver) targetInstalled(ctx context.Context, serial string) (bool, error) {
	res, err := d.bridge.Run(ctx, serial, "shell", "pm", "list", "packages", TermuxPackage)
	if err != nil {
		return false, err
	}
	return strings.Contains(res.Stdout, TermuxPackage), nil
}

// writeScript stores the rendered script in the scratch dir for adb push.
// The local copy is intentionally left behind so the exact pushed content
// can be inspected after a run.
func (d *Driver) writeScript(script string) (string, error) {
	f, err := os.CreateTemp(d.scratchDir, "setup_ssh-*.sh")
	if err != nil {
		return "", errors.Wrap(err, "create local script file")
	}
	if _, err := f.WriteString(script); err != nil {
		f.Close()
		return "", errors.Wrap(err, "write local script file")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "close local script file")
	}
	return f.Name(), nil
}
