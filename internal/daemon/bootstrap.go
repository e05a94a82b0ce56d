package daemon

import (
	"os"
	"os/exec"
)

// SpawnBackground re-execs the current binary as a detached child running
// the hidden "daemon" command, then returns the child PID. The child owns
// the enforcement loop; the parent is expected to exit immediately.
func SpawnBackground(configPath string) (int, error) {
	executable, err := os.Executable()
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(executable, spawnArgs(configPath)...)
	cmd.SysProcAttr = detachAttr()

	// Fully detached: the child logs to a file, not to this terminal.
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	pid := cmd.Process.Pid
	return pid, cmd.Process.Release()
}

// spawnArgs builds the child argv. The explicit --config forward matters:
// the child may start in a different working directory, so the search-path
// fallback could resolve a different file than the parent saw.
func spawnArgs(configPath string) []string {
	args := []string{"daemon"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	return args
}
