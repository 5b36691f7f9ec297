// Package provision sets up OpenSSH inside Termux on a single device. The
// script is pushed over adb and triggered through simulated keyboard input,
// because Termux exposes no remote-exec channel.
package provision

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/alessio/shellescape"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// TermuxPackage is the target app, checked and force-stopped before push.
	TermuxPackage = "com.termux"
	// TermuxActivity is the entry point relaunched before input injection.
	TermuxActivity = "com.termux/.app.TermuxActivity"
	// RemoteScriptPath is the fixed on-device destination of the script.
	// Overwritten on every run.
	RemoteScriptPath = "/data/local/tmp/setup_ssh.sh"
)

var (
	// ErrMissingInput reports absent required input (device or password).
	ErrMissingInput = errors.New("required input missing")
	// ErrTargetNotInstalled reports that Termux is absent on the device.
	ErrTargetNotInstalled = errors.New("termux is not installed on the device")
)

// ExitCode maps a Setup error to the process exit status: 0 success,
// 2 missing input, 3 Termux not installed, 1 anything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrMissingInput):
		return 2
	case errors.Is(err, ErrTargetNotInstalled):
		return 3
	default:
		return 1
	}
}

// The script runs inside Termux's own bash. Termux's passwd prompts twice,
// hence the doubled printf line.
var scriptTemplate = template.Must(template.New("setup_ssh").Parse(`#!/data/data/com.termux/files/usr/bin/bash
set -e

TERMUX_SSH_PASSWORD={{.Password}}

if command -v sshd >/dev/null 2>&1; then
  echo "OpenSSH already installed (sshd found)"
else
  pkg update -y
  pkg install -y openssh
fi

if [ -n "$TERMUX_SSH_PASSWORD" ]; then
  printf '%s\n%s\n' "$TERMUX_SSH_PASSWORD" "$TERMUX_SSH_PASSWORD" | passwd
fi

if ! pgrep -x sshd >/dev/null 2>&1; then
  sshd
fi

echo "Termux SSH ready"
`))

// RenderScript renders the provisioning script with the password quoted so
// the remote shell cannot interpret it as syntax, whatever it contains. It
// fails before anything is written when the password is empty or blank.
func RenderScript(secret string) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.Wrap(ErrMissingInput, "ssh password is empty")
	}
	var buf bytes.Buffer
	data := struct{ Password string }{Password: shellescape.Quote(secret)}
	if err := scriptTemplate.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "render provisioning script")
	}
	script := buf.String()
	log.Debug().Str("script", redactSecret(script, secret)).Msg("rendered provisioning script")
	return script, nil
}

// redactSecret masks the quoted password so diagnostics never carry it in
// the clear.
func redactSecret(script, secret string) string {
	return strings.ReplaceAll(script, shellescape.Quote(secret), "'******'")
}
