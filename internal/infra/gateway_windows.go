//go:build windows

// Package infra implements infrastructure concerns (display gateway, hotkey,
// instance lock, reporting).
package infra

import (
	"context"
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/resguard/resguard/internal/domain"
)

var (
	user32                    = windows.NewLazySystemDLL("user32.dll")
	procEnumDisplaySettings   = user32.NewProc("EnumDisplaySettingsW")
	procChangeDisplaySettings = user32.NewProc("ChangeDisplaySettingsW")
)

// ENUM_CURRENT_SETTINGS
const enumCurrentSettings = 0xFFFFFFFF

// DEVMODE dmFields bits for the values we drive.
const (
	dmBitsPerPel       = 0x00040000
	dmPelsWidth        = 0x00080000
	dmPelsHeight       = 0x00100000
	dmDisplayFrequency = 0x00400000
)

// ChangeDisplaySettings results.
const (
	dispChangeSuccessful = 0
	dispChangeRestart    = 1
	dispChangeFailed     = -1
	dispChangeBadMode    = -2
	dispChangeNotUpdated = -3
	dispChangeBadFlags   = -4
	dispChangeBadParam   = -5
)

// devMode mirrors the display layout of the Win32 DEVMODEW structure.
type devMode struct {
	DeviceName         [32]uint16
	SpecVersion        uint16
	DriverVersion      uint16
	Size               uint16
	DriverExtra        uint16
	Fields             uint32
	PositionX          int32
	PositionY          int32
	DisplayOrientation uint32
	DisplayFixedOutput uint32
	Color              int16
	Duplex             int16
	YResolution        int16
	TTOption           int16
	Collate            int16
	FormName           [32]uint16
	LogPixels          uint16
	BitsPerPel         uint32
	PelsWidth          uint32
	PelsHeight         uint32
	DisplayFlags       uint32
	DisplayFrequency   uint32
	ICMMethod          uint32
	ICMIntent          uint32
	MediaType          uint32
	DitherType         uint32
	Reserved1          uint32
	Reserved2          uint32
	PanningWidth       uint32
	PanningHeight      uint32
}

// Win32Gateway drives the primary display through
// EnumDisplaySettingsW / ChangeDisplaySettingsW.
type Win32Gateway struct {
	logger *zap.Logger
}

// NewGateway creates the platform display gateway (Windows implementation).
func NewGateway(logger *zap.Logger) (domain.ModeGateway, error) {
	return &Win32Gateway{logger: logger}, nil
}

// Read queries the primary display's current mode.
func (g *Win32Gateway) Read(ctx context.Context) (domain.DisplayMode, error) {
	var dm devMode
	dm.Size = uint16(unsafe.Sizeof(dm))

	ret, _, _ := procEnumDisplaySettings.Call(
		0, // NULL device = primary display
		uintptr(uint32(enumCurrentSettings)),
		uintptr(unsafe.Pointer(&dm)),
	)
	if ret == 0 {
		return domain.DisplayMode{}, &domain.ReadError{
			Cause: fmt.Errorf("EnumDisplaySettingsW returned FALSE"),
		}
	}

	return domain.DisplayMode{
		Width:          uint(dm.PelsWidth),
		Height:         uint(dm.PelsHeight),
		ColorDepthBits: uint(dm.BitsPerPel),
		RefreshRateHz:  uint(dm.DisplayFrequency),
	}, nil
}

// Apply sets the primary display mode. The OS treats re-applying the active
// mode as a successful no-op, which satisfies the idempotence contract.
func (g *Win32Gateway) Apply(ctx context.Context, mode domain.DisplayMode) error {
	var dm devMode
	dm.Size = uint16(unsafe.Sizeof(dm))
	dm.Fields = dmPelsWidth | dmPelsHeight | dmBitsPerPel | dmDisplayFrequency
	dm.PelsWidth = uint32(mode.Width)
	dm.PelsHeight = uint32(mode.Height)
	dm.BitsPerPel = uint32(mode.ColorDepthBits)
	dm.DisplayFrequency = uint32(mode.RefreshRateHz)

	ret, _, _ := procChangeDisplaySettings.Call(
		uintptr(unsafe.Pointer(&dm)),
		0, // dynamic change, not persisted to the registry
	)

	result := int32(ret)
	if result == dispChangeSuccessful {
		g.logger.Debug("ChangeDisplaySettingsW succeeded", zap.String("mode", mode.String()))
		return nil
	}
	return &domain.ApplyError{Reason: changeResultText(result)}
}

func changeResultText(result int32) string {
	switch result {
	case dispChangeRestart:
		return "mode change requires a restart (DISP_CHANGE_RESTART)"
	case dispChangeFailed:
		return "display driver rejected the mode (DISP_CHANGE_FAILED)"
	case dispChangeBadMode:
		return "mode not supported by this display (DISP_CHANGE_BADMODE)"
	case dispChangeNotUpdated:
		return "settings could not be written (DISP_CHANGE_NOTUPDATED)"
	case dispChangeBadFlags:
		return "invalid flags (DISP_CHANGE_BADFLAGS)"
	case dispChangeBadParam:
		return "invalid parameter (DISP_CHANGE_BADPARAM)"
	default:
		return fmt.Sprintf("ChangeDisplaySettingsW returned %d", result)
	}
}
