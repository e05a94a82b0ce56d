package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/resguard/resguard/internal/domain"
)

// InstanceLock is a pidfile-based single-instance guard. Two enforcement
// loops fighting over the same display would defeat the whole debounce
// policy, so a second instance refuses to start while the first is alive.
// A pidfile left behind by a crashed process is detected via PID liveness
// and silently taken over.
type InstanceLock struct {
	path string
}

// NewInstanceLock creates the guard at the default pidfile location.
func NewInstanceLock() *InstanceLock {
	return &InstanceLock{path: filepath.Join(os.TempDir(), "resguard.pid")}
}

// NewInstanceLockAt creates the guard at a specific path (for testing).
func NewInstanceLockAt(path string) *InstanceLock {
	return &InstanceLock{path: path}
}

// Path returns the pidfile location.
func (l *InstanceLock) Path() string {
	return l.path
}

// Acquire claims the pidfile for this process. Returns ErrAlreadyRunning
// when a live process already owns it.
func (l *InstanceLock) Acquire() error {
	if pid, ok := l.RunningPID(); ok && pid != os.Getpid() {
		return domain.ErrAlreadyRunning
	}
	return l.writePID(os.Getpid())
}

// Release removes the pidfile if this process owns it.
func (l *InstanceLock) Release() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && pid != os.Getpid() {
		// Someone else took over (e.g. after we were presumed dead); leave it.
		return nil
	}
	return os.Remove(l.path)
}

// RunningPID reports the PID recorded in the pidfile, and whether that
// process is currently alive.
func (l *InstanceLock) RunningPID() (int, bool) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	alive, err := process.PidExists(int32(pid))
	if err != nil || !alive {
		return pid, false
	}
	return pid, true
}

// writePID writes the pidfile atomically (temp file + rename).
func (l *InstanceLock) writePID(pid int) error {
	tmpPath := fmt.Sprintf("%s.%d.tmp", l.path, pid)
	if err := os.WriteFile(tmpPath, []byte(strconv.Itoa(pid)), 0600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
