//go:build windows

package terminal

import "os/exec"

// signalFrom always reports no signal on Windows: kill uses the OS
// terminate primitive directly rather than POSIX signals.
func signalFrom(ps *exec.ProcessState) (string, bool) {
	return "", false
}
