//go:build linux

package infra

import "golang.design/x/hotkey"

// X11 names: alt is Mod1, super is Mod4.
var modifiersByName = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.Mod1,
	"win":   hotkey.Mod4,
	"super": hotkey.Mod4,
}
