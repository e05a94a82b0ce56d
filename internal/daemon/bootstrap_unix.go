//go:build !windows

package daemon

import "syscall"

// detachAttr detaches the child from the controlling terminal.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setsid: true,
	}
}
