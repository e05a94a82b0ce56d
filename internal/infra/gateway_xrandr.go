//go:build linux

// Package infra implements infrastructure concerns (display gateway, hotkey,
// instance lock, reporting).
package infra

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/resguard/resguard/internal/domain"
)

// XrandrGateway drives the primary X11 output through xrandr.
//
// Color depth is a property of the X server, not of an output: it is read
// from xdpyinfo and cannot be changed at runtime, so Apply only drives
// geometry and refresh rate. Configs on Linux should set color_depth to the
// server's depth (usually 24).
type XrandrGateway struct {
	logger   *zap.Logger
	xrandr   string
	xdpyinfo string // empty when not installed; depth then defaults to 24
}

// NewGateway creates the platform display gateway (Linux implementation).
func NewGateway(logger *zap.Logger) (domain.ModeGateway, error) {
	xrandr, err := exec.LookPath("xrandr")
	if err != nil {
		return nil, fmt.Errorf("xrandr not found in PATH: %w", err)
	}

	xdpyinfo, err := exec.LookPath("xdpyinfo")
	if err != nil {
		logger.Warn("xdpyinfo not found, color depth will be reported as 24")
		xdpyinfo = ""
	}

	logger.Info("display gateway ready", zap.String("xrandr", xrandr))
	return &XrandrGateway{logger: logger, xrandr: xrandr, xdpyinfo: xdpyinfo}, nil
}

// Read parses the connected primary output's active mode from xrandr --query.
func (g *XrandrGateway) Read(ctx context.Context) (domain.DisplayMode, error) {
	out, err := exec.CommandContext(ctx, g.xrandr, "--query").Output()
	if err != nil {
		return domain.DisplayMode{}, &domain.ReadError{
			Cause: fmt.Errorf("xrandr --query: %w", err),
		}
	}

	_, mode, err := parseXrandrQuery(string(out))
	if err != nil {
		return domain.DisplayMode{}, &domain.ReadError{Cause: err}
	}

	mode.ColorDepthBits = g.readDepth(ctx)
	return mode, nil
}

// Apply switches the primary output to the requested geometry and rate.
func (g *XrandrGateway) Apply(ctx context.Context, mode domain.DisplayMode) error {
	out, err := exec.CommandContext(ctx, g.xrandr, "--query").Output()
	if err != nil {
		return &domain.ApplyError{Reason: "could not determine output", Cause: err}
	}
	output, _, err := parseXrandrQuery(string(out))
	if err != nil {
		return &domain.ApplyError{Reason: "could not determine output", Cause: err}
	}

	args := []string{
		"--output", output,
		"--mode", fmt.Sprintf("%dx%d", mode.Width, mode.Height),
		"--rate", strconv.FormatUint(uint64(mode.RefreshRateHz), 10),
	}
	g.logger.Debug("running xrandr", zap.Strings("args", args))

	combined, err := exec.CommandContext(ctx, g.xrandr, args...).CombinedOutput()
	if err != nil {
		return &domain.ApplyError{
			Reason: strings.TrimSpace(string(combined)),
			Cause:  err,
		}
	}
	return nil
}

// readDepth parses "depth of root window: 24 planes" from xdpyinfo.
func (g *XrandrGateway) readDepth(ctx context.Context) uint {
	const fallback = 24
	if g.xdpyinfo == "" {
		return fallback
	}

	out, err := exec.CommandContext(ctx, g.xdpyinfo).Output()
	if err != nil {
		g.logger.Debug("xdpyinfo failed, using fallback depth", zap.Error(err))
		return fallback
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "depth of root window:") {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, "depth of root window:"))
		if len(fields) == 0 {
			break
		}
		if depth, err := strconv.ParseUint(fields[0], 10, 32); err == nil {
			return uint(depth)
		}
	}
	return fallback
}

// parseXrandrQuery extracts the connected primary output name and its active
// mode from xrandr --query output. Falls back to the first connected output
// when none is marked primary.
func parseXrandrQuery(out string) (string, domain.DisplayMode, error) {
	lines := strings.Split(out, "\n")

	output := ""
	for _, line := range lines {
		if strings.HasPrefix(line, " ") || !strings.Contains(line, " connected") {
			continue
		}
		name := strings.Fields(line)[0]
		if strings.Contains(line, " connected primary") {
			output = name
			break
		}
		if output == "" {
			output = name
		}
	}
	if output == "" {
		return "", domain.DisplayMode{}, fmt.Errorf("no connected output in xrandr output")
	}

	inSection := false
	for _, line := range lines {
		if !strings.HasPrefix(line, " ") {
			inSection = strings.HasPrefix(line, output+" ")
			continue
		}
		if !inSection {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.Contains(fields[0], "x") {
			continue
		}

		// Rate tokens look like "119.88*+" where '*' marks the active rate.
		for _, tok := range fields[1:] {
			if !strings.Contains(tok, "*") {
				continue
			}
			rate, err := strconv.ParseFloat(strings.TrimRight(tok, "*+"), 64)
			if err != nil {
				continue
			}
			wh := strings.SplitN(fields[0], "x", 2)
			w, werr := strconv.ParseUint(wh[0], 10, 32)
			h, herr := strconv.ParseUint(wh[1], 10, 32)
			if werr != nil || herr != nil {
				continue
			}
			return output, domain.DisplayMode{
				Width:         uint(w),
				Height:        uint(h),
				RefreshRateHz: uint(math.Round(rate)),
			}, nil
		}
	}

	return "", domain.DisplayMode{}, fmt.Errorf("no active mode for output %s", output)
}
