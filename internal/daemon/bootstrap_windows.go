//go:build windows

package daemon

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// detachAttr detaches the child from the parent console.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
		HideWindow:    true,
	}
}
