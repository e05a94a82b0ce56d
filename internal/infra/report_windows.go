//go:build windows

package infra

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var procMessageBox = user32.NewProc("MessageBoxW")

const (
	mbOK            = 0x00000000
	mbIconError     = 0x00000010
	mbSetForeground = 0x00010000
)

// notifyUser raises a message box. MessageBoxW blocks until dismissed, so it
// runs on its own goroutine; the enforcement loop must not stall on a dialog.
func notifyUser(caption, text string) {
	captionPtr, err := windows.UTF16PtrFromString(caption)
	if err != nil {
		return
	}
	textPtr, err := windows.UTF16PtrFromString(text)
	if err != nil {
		return
	}

	go procMessageBox.Call(
		0,
		uintptr(unsafe.Pointer(textPtr)),
		uintptr(unsafe.Pointer(captionPtr)),
		uintptr(mbOK|mbIconError|mbSetForeground),
	)
}
