//go:build windows

package infra

import "golang.design/x/hotkey"

var modifiersByName = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.ModAlt,
	"win":   hotkey.ModWin,
	"super": hotkey.ModWin,
}
