package infra

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resguard/resguard/internal/domain"
)

func testLock(t *testing.T) *InstanceLock {
	t.Helper()
	return NewInstanceLockAt(filepath.Join(t.TempDir(), "resguard.pid"))
}

// TestInstanceLockAcquireRelease verifies the basic claim/clear cycle.
func TestInstanceLockAcquireRelease(t *testing.T) {
	lock := testLock(t)

	require.NoError(t, lock.Acquire())

	pid, alive := lock.RunningPID()
	assert.Equal(t, os.Getpid(), pid)
	assert.True(t, alive)

	require.NoError(t, lock.Release())
	_, alive = lock.RunningPID()
	assert.False(t, alive)
}

// TestInstanceLockReacquireByOwner verifies Acquire is idempotent for the
// owning process.
func TestInstanceLockReacquireByOwner(t *testing.T) {
	lock := testLock(t)

	require.NoError(t, lock.Acquire())
	assert.NoError(t, lock.Acquire())
}

// TestInstanceLockStalePidfile verifies a pidfile from a dead process is
// taken over silently.
func TestInstanceLockStalePidfile(t *testing.T) {
	lock := testLock(t)

	// A PID that cannot be alive: beyond the default pid_max on every
	// platform we run on.
	require.NoError(t, os.WriteFile(lock.Path(), []byte("99999999"), 0600))

	require.NoError(t, lock.Acquire())
	pid, alive := lock.RunningPID()
	assert.Equal(t, os.Getpid(), pid)
	assert.True(t, alive)
}

// TestInstanceLockLiveProcessRejected verifies a second instance is refused
// while the recorded PID is alive.
func TestInstanceLockLiveProcessRejected(t *testing.T) {
	lock := testLock(t)

	// PID 1 is always alive on unix; os.Getppid is always alive everywhere.
	otherPID := os.Getppid()
	require.NoError(t, os.WriteFile(lock.Path(), []byte(strconv.Itoa(otherPID)), 0600))

	err := lock.Acquire()
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)
}

// TestInstanceLockReleaseNotOwner verifies Release leaves someone else's
// pidfile alone.
func TestInstanceLockReleaseNotOwner(t *testing.T) {
	lock := testLock(t)

	otherPID := os.Getppid()
	require.NoError(t, os.WriteFile(lock.Path(), []byte(strconv.Itoa(otherPID)), 0600))

	require.NoError(t, lock.Release())
	data, err := os.ReadFile(lock.Path())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(otherPID), string(data))
}

// TestInstanceLockGarbagePidfile verifies unparseable content is treated as
// no instance.
func TestInstanceLockGarbagePidfile(t *testing.T) {
	lock := testLock(t)

	require.NoError(t, os.WriteFile(lock.Path(), []byte("not-a-pid"), 0600))

	_, alive := lock.RunningPID()
	assert.False(t, alive)
	assert.NoError(t, lock.Acquire())
}
