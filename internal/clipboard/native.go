package clipboard

import (
	"fmt"

	"golang.design/x/clipboard"
)

// nativeClipboard uses golang.design/x/clipboard and supports PNG images
type nativeClipboard struct{}

func newNativeClipboard() (*nativeClipboard, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	return &nativeClipboard{}, nil
}

func (c *nativeClipboard) Name() string { return "native" }

func (c *nativeClipboard) ReadText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (c *nativeClipboard) ReadImage() ([]byte, error) {
	return clipboard.Read(clipboard.FmtImage), nil
}

func (c *nativeClipboard) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (c *nativeClipboard) WriteImage(png []byte) error {
	if len(png) == 0 {
		return fmt.Errorf("empty image")
	}
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}
