// Package adb invokes the external adb executable against specific devices
// and captures its output. The binary is treated as opaque: callers decide
// what an exit code means.
package adb

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrTimeout marks an invocation killed by the configured deadline.
var ErrTimeout = errors.New("adb invocation timed out")

// Result captures one completed adb invocation. A non-zero exit code is not
// an error at this layer.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes adb commands. Safe for concurrent use; each call spawns
// its own process.
type Runner struct {
	path    string
	timeout time.Duration
}

// NewRunner wraps the adb executable at path. timeout bounds each
// invocation; zero means calls block until the device responds.
func NewRunner(path string, timeout time.Duration) *Runner {
	return &Runner{path: path, timeout: timeout}
}

// Run executes `adb -s serial args...` and captures its output. It returns
// an error only when the process could not run to completion (missing
// binary, killed by deadline); a non-zero exit is reported via Result.
func (r *Runner) Run(ctx context.Context, serial string, args ...string) (Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	argv := append([]string{"-s", serial}, args...)
	log.Info().Str("serial", serial).Str("cmd", r.path+" "+strings.Join(argv, " ")).Msg("adb exec")
	return r.exec(ctx, argv)
}

func (r *Runner) exec(ctx context.Context, argv []string) (Result, error) {
	cmd := exec.CommandContext(ctx, r.path, argv...)
	hideConsoleWindow(cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}
	// A deadline kill also surfaces as an ExitError, so check the context
	// before classifying the exit.
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return res, errors.Wrapf(ErrTimeout, "%s %s", r.path, strings.Join(argv, " "))
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, errors.Wrapf(err, "run %s", r.path)
}

// ListDevices parses `adb devices` and returns the serials in ready state.
// Used as a fallback when the host app supplies no device list.
func (r *Runner) ListDevices(ctx context.Context) ([]string, error) {
	res, err := r.exec(ctx, []string{"devices"})
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, errors.Errorf("adb devices: exit %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	var serials []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 || fields[1] != "device" {
			continue
		}
		serials = append(serials, fields[0])
	}
	return serials, nil
}
