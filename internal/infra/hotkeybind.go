package infra

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// Binding describes a parsed global hotkey.
// Construct only via ParseBinding to guarantee invariant consistency.
type Binding struct {
	mods       []hotkey.Modifier
	key        hotkey.Key
	normalized string
}

// Modifiers returns the modifier set.
func (b Binding) Modifiers() []hotkey.Modifier { return b.mods }

// Key returns the key code.
func (b Binding) Key() hotkey.Key { return b.key }

// Normalized returns the canonical human-readable binding string.
func (b Binding) Normalized() string { return b.normalized }

var keysByName = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
}

// ParseBinding parses a combination like "ctrl+alt+d". The last token is the
// key (a letter or digit); everything before it must be a modifier. At least
// one modifier is required - an unmodified global hotkey would swallow plain
// typing system-wide.
func ParseBinding(combo string) (Binding, error) {
	tokens := strings.Split(strings.ToLower(combo), "+")
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return Binding{}, fmt.Errorf("hotkey %q: empty token", combo)
		}
		parts = append(parts, tok)
	}
	if len(parts) < 2 {
		return Binding{}, fmt.Errorf("hotkey %q: need at least one modifier and a key", combo)
	}

	keyName := parts[len(parts)-1]
	key, ok := keysByName[keyName]
	if !ok {
		return Binding{}, fmt.Errorf("hotkey %q: unsupported key %q (use a letter or digit)", combo, keyName)
	}

	mods := make([]hotkey.Modifier, 0, len(parts)-1)
	names := make([]string, 0, len(parts)-1)
	seen := make(map[string]bool)
	for _, name := range parts[:len(parts)-1] {
		mod, ok := modifiersByName[name]
		if !ok {
			return Binding{}, fmt.Errorf("hotkey %q: unknown modifier %q", combo, name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		mods = append(mods, mod)
		names = append(names, name)
	}

	return Binding{
		mods:       mods,
		key:        key,
		normalized: strings.Join(append(names, keyName), "+"),
	}, nil
}
