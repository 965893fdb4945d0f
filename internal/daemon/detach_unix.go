//go:build !windows

package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
)

// DetachedEnv marks a process started by Detach
const DetachedEnv = "MINTCLIP_DETACHED"

// Detach re-runs the executable with args in a new session, output appended
// to logDir/mintclip_daemon.log, and returns the child's pid.
func Detach(args []string, logDir string, logger *zap.Logger) (int, error) {
	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}

	if err := os.MkdirAll(logDir, 0700); err != nil {
		return 0, fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile := filepath.Join(logDir, "mintclip_daemon.log")
	logF, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer logF.Close()

	// drop --detach so the child runs in the foreground
	filtered := make([]string, 0, len(args))
	for _, arg := range args {
		if arg != "--detach" && arg != "--detach=true" {
			filtered = append(filtered, arg)
		}
	}

	cmd := exec.Command(executable, filtered...)
	cmd.Stdout = logF
	cmd.Stderr = logF
	cmd.Stdin = nil
	cmd.Env = append(os.Environ(), DetachedEnv+"=1")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon process: %w", err)
	}
	pid := cmd.Process.Pid

	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("failed to release daemon process: %w", err)
	}

	logger.Info("Daemon started in background",
		zap.Int("pid", pid),
		zap.String("log_file", logFile),
		zap.Strings("args", filtered))
	return pid, nil
}
