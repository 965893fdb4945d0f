// Package clipboard reads and writes the system clipboard and watches it for
// new content.
package clipboard

import (
	"errors"

	"go.uber.org/zap"
)

// ErrUnsupported is returned by backends that cannot handle a format
var ErrUnsupported = errors.New("clipboard format not supported by backend")

// Reader reads the current clipboard contents. Empty results mean the format
// is not present.
type Reader interface {
	ReadText() (string, error)
	// ReadImage returns PNG bytes
	ReadImage() ([]byte, error)
}

// Writer replaces the clipboard contents
type Writer interface {
	WriteText(text string) error
	// WriteImage takes PNG bytes
	WriteImage(png []byte) error
}

// Clipboard is a full clipboard backend
type Clipboard interface {
	Reader
	Writer
	Name() string
}

// NewSystem picks the best available backend: the native one with text and
// image support, then the text-only command-line one, then headless.
func NewSystem(logger *zap.Logger) Clipboard {
	if logger == nil {
		logger = zap.NewNop()
	}

	native, err := newNativeClipboard()
	if err == nil {
		logger.Debug("Using clipboard backend", zap.String("backend", native.Name()))
		return native
	}
	logger.Warn("Native clipboard unavailable, trying command-line tools", zap.Error(err))

	if text := NewAtottoClipboard(); text.Available() {
		logger.Warn("Clipboard images are not supported by this backend",
			zap.String("backend", text.Name()))
		return text
	}

	logger.Warn("No clipboard access, running headless")
	return NewHeadless()
}
