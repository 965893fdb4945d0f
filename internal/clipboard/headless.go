package clipboard

import "sync"

// Headless is an in-process clipboard used when no display is available.
// Writes are kept in memory and returned by later reads.
type Headless struct {
	mu    sync.Mutex
	text  string
	image []byte
}

func NewHeadless() *Headless {
	return &Headless{}
}

func (h *Headless) Name() string { return "headless" }

func (h *Headless) ReadText() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text, nil
}

func (h *Headless) ReadImage() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.image, nil
}

func (h *Headless) WriteText(text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.text, h.image = text, nil
	return nil
}

func (h *Headless) WriteImage(png []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.text, h.image = "", append([]byte(nil), png...)
	return nil
}
