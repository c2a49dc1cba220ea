//go:build !windows

package terminal

import (
	"fmt"
	"os/exec"
	"syscall"
)

// signalFrom reports the terminating signal, if any, carried by ps.
func signalFrom(ps *exec.ProcessState) (string, bool) {
	status, ok := ps.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() {
		return "", false
	}
	return signalName(status.Signal()), true
}

// signalName maps a POSIX signal to its canonical name, falling back to
// "signal N" for anything not in the well-known set.
func signalName(sig syscall.Signal) string {
	switch sig {
	case syscall.SIGHUP:
		return "SIGHUP"
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGKILL:
		return "SIGKILL"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return fmt.Sprintf("signal %d", int(sig))
	}
}
