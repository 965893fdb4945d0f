//go:build windows

package daemon

import (
	"errors"

	"go.uber.org/zap"
)

// DetachedEnv marks a process started by Detach
const DetachedEnv = "MINTCLIP_DETACHED"

// Detach is not supported on Windows; start mintclip from the Startup folder
// instead.
func Detach([]string, string, *zap.Logger) (int, error) {
	return 0, errors.New("detaching is not supported on Windows")
}
