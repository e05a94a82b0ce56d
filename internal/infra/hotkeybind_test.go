package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseBindingValid covers the accepted combination shapes.
func TestParseBindingValid(t *testing.T) {
	cases := []struct {
		combo      string
		normalized string
		mods       int
	}{
		{"ctrl+alt+d", "ctrl+alt+d", 2},
		{"CTRL+ALT+D", "ctrl+alt+d", 2},
		{" ctrl + alt + d ", "ctrl+alt+d", 2},
		{"shift+5", "shift+5", 1},
		{"ctrl+shift+alt+r", "ctrl+shift+alt+r", 3},
		{"ctrl+ctrl+d", "ctrl+d", 1}, // duplicate modifiers collapse
	}

	for _, tc := range cases {
		t.Run(tc.combo, func(t *testing.T) {
			b, err := ParseBinding(tc.combo)
			require.NoError(t, err)
			assert.Equal(t, tc.normalized, b.Normalized())
			assert.Len(t, b.Modifiers(), tc.mods)
		})
	}
}

// TestParseBindingInvalid covers the rejected shapes.
func TestParseBindingInvalid(t *testing.T) {
	cases := []struct {
		name  string
		combo string
	}{
		{"empty", ""},
		{"key only", "d"},
		{"no key", "ctrl+"},
		{"empty token", "ctrl++d"},
		{"unknown modifier", "hyper+d"},
		{"unsupported key", "ctrl+f13"},
		{"modifier as key", "ctrl+shift"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseBinding(tc.combo)
			assert.Error(t, err)
		})
	}
}
