package provision

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// parseShellWord consumes one POSIX shell word starting at script[start],
// returning the word's value after quote removal and the index just past
// it. It understands single quotes, double quotes, and backslash escapes,
// which covers everything shell-safe quoting can emit.
func parseShellWord(t *testing.T, script string, start int) (string, int) {
	t.Helper()
	var b strings.Builder
	i := start
	for i < len(script) {
		switch c := script[i]; c {
		case '\'':
			end := strings.IndexByte(script[i+1:], '\'')
			if end < 0 {
				t.Fatalf("unterminated single quote at %d in %q", i, script)
			}
			b.WriteString(script[i+1 : i+1+end])
			i += end + 2
		case '"':
			i++
			for i < len(script) && script[i] != '"' {
				if script[i] == '\\' && i+1 < len(script) {
					i++
				}
				b.WriteByte(script[i])
				i++
			}
			if i >= len(script) {
				t.Fatalf("unterminated double quote in %q", script)
			}
			i++
		case '\\':
			if i+1 >= len(script) {
				t.Fatalf("trailing backslash in %q", script)
			}
			b.WriteByte(script[i+1])
			i += 2
		case '\n', ' ', '\t':
			return b.String(), i
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), i
}

// passwordValue shell-parses the TERMUX_SSH_PASSWORD assignment out of the
// rendered script.
func passwordValue(t *testing.T, script string) string {
	t.Helper()
	const prefix = "\nTERMUX_SSH_PASSWORD="
	start := strings.Index(script, prefix)
	if start < 0 {
		t.Fatalf("no password assignment in script:\n%s", script)
	}
	value, _ := parseShellWord(t, script, start+len(prefix))
	return value
}

// The secret must survive shell parsing byte for byte, whatever it
// contains: quotes, whitespace, metacharacters.
func TestRenderScriptRoundTripQuoting(t *testing.T) {
	secrets := []string{
		`it's a "test"`,
		"plain",
		"sp ace & ; | $(boom) `tick`",
		"ends with '",
	}
	for _, secret := range secrets {
		script, err := RenderScript(secret)
		if err != nil {
			t.Fatalf("RenderScript(%q): %v", secret, err)
		}
		if got := passwordValue(t, script); got != secret {
			t.Errorf("round trip of %q produced %q", secret, got)
		}
	}
}

func TestRenderScriptEmptySecret(t *testing.T) {
	for _, secret := range []string{"", "   ", "\t\n"} {
		if _, err := RenderScript(secret); !errors.Is(err, ErrMissingInput) {
			t.Errorf("RenderScript(%q) err = %v, want ErrMissingInput", secret, err)
		}
	}
}

func TestRenderScriptSkeleton(t *testing.T) {
	script, err := RenderScript("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"#!/data/data/com.termux/files/usr/bin/bash",
		"command -v sshd",
		"pkg update -y",
		"pkg install -y openssh",
		"| passwd",
		"pgrep -x sshd",
		"Termux SSH ready",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q", want)
		}
	}
}

func TestRenderScriptRedactsLogOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	secret := `sup3r "secret" pw`
	if _, err := RenderScript(secret); err != nil {
		t.Fatal(err)
	}
	logged := buf.String()
	if strings.Contains(logged, "sup3r") {
		t.Error("rendered-script log carries the secret in the clear")
	}
	if !strings.Contains(logged, "******") {
		t.Error("rendered-script log missing the redaction mask")
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{ErrMissingInput, 2},
		{ErrTargetNotInstalled, 3},
		{errors.New("push failed"), 1},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
