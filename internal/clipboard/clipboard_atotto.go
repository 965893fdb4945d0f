package clipboard

import (
	"fmt"

	atottoClip "github.com/atotto/clipboard"
)

// AtottoClipboard shells out to xclip, xsel or wl-clipboard through
// atotto/clipboard. It only supports text content.
type AtottoClipboard struct{}

// NewAtottoClipboard returns a new Atotto-based clipboard implementation
func NewAtottoClipboard() *AtottoClipboard {
	return &AtottoClipboard{}
}

// Available reports whether a clipboard utility was found on PATH
func (c *AtottoClipboard) Available() bool {
	return !atottoClip.Unsupported
}

func (c *AtottoClipboard) Name() string { return "atotto" }

func (c *AtottoClipboard) ReadText() (string, error) {
	text, err := atottoClip.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

func (c *AtottoClipboard) ReadImage() ([]byte, error) {
	return nil, nil
}

func (c *AtottoClipboard) WriteText(text string) error {
	if err := atottoClip.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

func (c *AtottoClipboard) WriteImage([]byte) error {
	return fmt.Errorf("image write: %w", ErrUnsupported)
}
