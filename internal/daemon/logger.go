package daemon

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Foreground gets a console encoder on
// stdout; the detached background daemon has no terminal and logs JSON to a
// file under the user cache dir.
func NewLogger(background bool) (*zap.Logger, error) {
	if !background {
		return newConsoleLogger(), nil
	}
	return newFileLogger()
}

func newConsoleLogger() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stdout),
		zap.NewAtomicLevelAt(zapcore.InfoLevel),
	)
	return zap.New(core)
}

func newFileLogger() (*zap.Logger, error) {
	logPath := backgroundLogPath()

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{logPath}
	cfg.ErrorOutputPaths = []string{logPath}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		// Fall back to stderr rather than running blind.
		return zap.NewProduction()
	}
	return logger, nil
}

// backgroundLogPath returns <UserCacheDir>/resguard/resguard.log, falling
// back to the temp dir when no cache dir is available.
func backgroundLogPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "resguard")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return filepath.Join(os.TempDir(), "resguard.log")
	}
	return filepath.Join(dir, "resguard.log")
}
