//go:build darwin

package infra

import "golang.design/x/hotkey"

var modifiersByName = map[string]hotkey.Modifier{
	"ctrl":   hotkey.ModCtrl,
	"shift":  hotkey.ModShift,
	"alt":    hotkey.ModOption,
	"option": hotkey.ModOption,
	"cmd":    hotkey.ModCmd,
	"super":  hotkey.ModCmd,
}
