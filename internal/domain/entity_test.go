package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayModeEqual(t *testing.T) {
	base := DisplayMode{Width: 3840, Height: 2160, ColorDepthBits: 32, RefreshRateHz: 120}

	assert.True(t, base.Equal(base))
	assert.False(t, base.Equal(DisplayMode{Width: 1920, Height: 2160, ColorDepthBits: 32, RefreshRateHz: 120}))
	assert.False(t, base.Equal(DisplayMode{Width: 3840, Height: 1080, ColorDepthBits: 32, RefreshRateHz: 120}))
	assert.False(t, base.Equal(DisplayMode{Width: 3840, Height: 2160, ColorDepthBits: 24, RefreshRateHz: 120}))
	assert.False(t, base.Equal(DisplayMode{Width: 3840, Height: 2160, ColorDepthBits: 32, RefreshRateHz: 119}))
}

func TestDisplayModeString(t *testing.T) {
	mode := DisplayMode{Width: 3840, Height: 2160, ColorDepthBits: 32, RefreshRateHz: 120}
	assert.Equal(t, "3840x2160@120Hz 32bpp", mode.String())
}

func TestObservationFailed(t *testing.T) {
	assert.False(t, Observation{Mode: DisplayMode{Width: 1}}.Failed())
	assert.True(t, Observation{ReadErr: errors.New("boom")}.Failed())
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("root cause")

	var err error = &ReadError{Cause: cause}
	assert.ErrorIs(t, err, cause)

	err = &ApplyError{Reason: "rejected", Cause: cause}
	assert.ErrorIs(t, err, cause)
}
