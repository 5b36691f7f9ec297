//go:build !windows

package adb

import "os/exec"

func hideConsoleWindow(cmd *exec.Cmd) {}
