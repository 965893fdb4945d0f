package clipboard

import (
	"context"
	"strings"
	"time"

	"github.com/berrythewa/mintclip/internal/types"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often the monitor reads the clipboard
const DefaultPollInterval = 500 * time.Millisecond

// Recorder receives new clipboard content
type Recorder interface {
	Add(content string, kind types.ContentKind) (types.HistoryList, error)
}

// Monitor polls a Reader and records text and images that changed since the
// previous poll.
type Monitor struct {
	reader   Reader
	recorder Recorder
	interval time.Duration
	logger   *zap.Logger

	lastText  string
	lastImage string
	// errors already reported, so a missing clipboard does not flood the log
	seenErrs map[string]struct{}
}

// NewMonitor creates a monitor. A zero interval means DefaultPollInterval.
func NewMonitor(reader Reader, recorder Recorder, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		reader:   reader,
		recorder: recorder,
		interval: interval,
		logger:   logger,
		seenErrs: make(map[string]struct{}),
	}
}

// Run polls until ctx is done
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("Starting clipboard monitor", zap.Duration("interval", m.interval))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Clipboard monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			m.poll()
		}
	}
}

func (m *Monitor) poll() {
	text, err := m.reader.ReadText()
	if err != nil {
		m.reportOnce("Error reading clipboard text", err)
	} else if text != m.lastText && strings.TrimSpace(text) != "" {
		m.lastText = text
		m.record(text, types.KindText)
	}

	img, err := m.reader.ReadImage()
	if err != nil {
		m.reportOnce("Error reading clipboard image", err)
		return
	}
	if len(img) == 0 {
		return
	}
	url := types.EncodeImage("image/png", img)
	if url != m.lastImage {
		m.lastImage = url
		m.record(url, types.KindImage)
	}
}

func (m *Monitor) record(content string, kind types.ContentKind) {
	m.logger.Debug("New clipboard content detected",
		zap.String("kind", string(kind)), zap.Int("size", len(content)))

	if _, err := m.recorder.Add(content, kind); err != nil {
		m.logger.Error("Failed to record clipboard content", zap.Error(err))
	}
}

func (m *Monitor) reportOnce(msg string, err error) {
	key := msg + ": " + err.Error()
	if _, ok := m.seenErrs[key]; ok {
		return
	}
	m.seenErrs[key] = struct{}{}
	m.logger.Warn(msg, zap.Error(err))
}
