package daemon

import (
	"sync/atomic"

	"github.com/berrythewa/mintclip/internal/panel"

	"go.uber.org/zap"
)

// logSurface stands in for the window in headless mode
type logSurface struct {
	logger  *zap.Logger
	visible atomic.Bool
}

func newLogSurface(logger *zap.Logger) *logSurface {
	return &logSurface{logger: logger}
}

func (s *logSurface) Render(v panel.View) {
	s.logger.Debug("Panel view updated",
		zap.Int("pinned", len(v.Pinned)),
		zap.Int("recent", len(v.Recent)))
}

func (s *logSurface) ShowFeedback(fb panel.Feedback) {
	if fb.Error {
		s.logger.Warn(fb.Message)
		return
	}
	s.logger.Info(fb.Message)
}

func (s *logSurface) HideFeedback() {}

func (s *logSurface) Show()         { s.visible.Store(true) }
func (s *logSurface) Hide()         { s.visible.Store(false) }
func (s *logSurface) Visible() bool { return s.visible.Load() }
