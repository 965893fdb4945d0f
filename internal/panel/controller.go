// Package panel turns history changes and user gestures into panel views.
package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/berrythewa/mintclip/internal/clipboard"
	"github.com/berrythewa/mintclip/internal/history"
	"github.com/berrythewa/mintclip/internal/paste"
	"github.com/berrythewa/mintclip/internal/types"

	"go.uber.org/zap"
)

const (
	DefaultPasteDelay       = 100 * time.Millisecond
	DefaultFeedbackDuration = 2 * time.Second
)

// ErrUnknownEntry is returned by Copy for an id not in the history
var ErrUnknownEntry = errors.New("unknown history entry")

// HistoryStore is the subset of the history store the panel drives
type HistoryStore interface {
	GetAll() types.HistoryList
	TogglePin(id int64) (types.HistoryList, error)
	Remove(id int64) (types.HistoryList, error)
	Clear() (types.HistoryList, error)
}

// Renderer draws views. Implementations must be safe to call from any
// goroutine and must not call back into the controller synchronously.
type Renderer interface {
	Render(View)
	ShowFeedback(Feedback)
	HideFeedback()
}

// Visibility shows and hides the panel surface
type Visibility interface {
	Show()
	Hide()
	Visible() bool
}

// Timer is the handle returned by Options.AfterFunc
type Timer interface {
	Stop() bool
}

// Options configures a Controller
type Options struct {
	PreviewLength    int
	PasteDelay       time.Duration
	FeedbackDuration time.Duration
	Logger           *zap.Logger
	// AfterFunc defaults to time.AfterFunc
	AfterFunc func(d time.Duration, f func()) Timer
}

// Controller mediates between the store, the clipboard and the panel surface
type Controller struct {
	store      HistoryStore
	renderer   Renderer
	writer     clipboard.Writer
	paster     paste.Paster
	visibility Visibility
	opts       Options
	logger     *zap.Logger

	mu            sync.Mutex
	list          types.HistoryList
	view          View
	feedbackTimer Timer
	feedbackGen   uint64
}

// NewController wires a controller. Call Refresh or Run to draw the first view.
func NewController(store HistoryStore, renderer Renderer, writer clipboard.Writer, paster paste.Paster, visibility Visibility, opts Options) *Controller {
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = DefaultPreviewLength
	}
	if opts.PasteDelay <= 0 {
		opts.PasteDelay = DefaultPasteDelay
	}
	if opts.FeedbackDuration <= 0 {
		opts.FeedbackDuration = DefaultFeedbackDuration
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	if paster == nil {
		paster = paste.NopPaster{}
	}
	return &Controller{
		store:      store,
		renderer:   renderer,
		writer:     writer,
		paster:     paster,
		visibility: visibility,
		opts:       opts,
		logger:     opts.Logger,
		view:       View{Empty: true},
	}
}

// Render redraws the panel from list
func (c *Controller) Render(list types.HistoryList) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderLocked(list)
}

func (c *Controller) renderLocked(list types.HistoryList) {
	c.list = list.Clone()
	c.view = BuildView(c.list, c.opts.PreviewLength, c.logger)
	c.renderer.Render(c.view)
}

// View returns the last rendered view
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Copy puts the entry back on the clipboard, hides the panel and pastes it
// into the previously focused window after a short delay.
func (c *Controller) Copy(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.list.Find(id)
	if !ok {
		entry, ok = c.store.GetAll().Find(id)
	}
	if !ok {
		c.logger.Debug("Copy requested for unknown entry", zap.Int64("id", id))
		c.feedbackLocked(copyFailed)
		return fmt.Errorf("failed to copy entry %d: %w", id, ErrUnknownEntry)
	}

	if err := c.write(entry); err != nil {
		c.logger.Error("Failed to copy to clipboard", zap.Int64("id", id), zap.Error(err))
		c.feedbackLocked(copyFailed)
		return fmt.Errorf("failed to copy entry %d: %w", id, err)
	}

	c.visibility.Hide()
	c.opts.AfterFunc(c.opts.PasteDelay, func() {
		if err := c.paster.Paste(ctx); err != nil {
			c.logger.Debug("Auto-paste failed", zap.Error(err))
		}
	})

	if entry.Kind == types.KindImage {
		c.feedbackLocked(imagePasted)
	} else {
		c.feedbackLocked(textPasted)
	}
	return nil
}

func (c *Controller) write(entry types.Entry) error {
	if entry.Kind == types.KindImage {
		_, data, err := types.DecodeImage(entry.Content)
		if err != nil {
			return err
		}
		return c.writer.WriteImage(data)
	}
	return c.writer.WriteText(entry.Content)
}

// TogglePin flips the pin flag of id
func (c *Controller) TogglePin(id int64) error {
	return c.mutate("toggle pin", func() (types.HistoryList, error) { return c.store.TogglePin(id) })
}

// Delete removes id from the history
func (c *Controller) Delete(id int64) error {
	return c.mutate("delete", func() (types.HistoryList, error) { return c.store.Remove(id) })
}

// ClearAll empties the history, pinned entries included
func (c *Controller) ClearAll() error {
	return c.mutate("clear", c.store.Clear)
}

func (c *Controller) mutate(op string, fn func() (types.HistoryList, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := fn()
	if err != nil {
		c.logger.Error("History update failed", zap.String("op", op), zap.Error(err))
		c.feedbackLocked(Feedback{Message: "Failed to " + op + "!", Error: true})
		return err
	}
	c.renderLocked(list)
	return nil
}

// OnCleared drops the local view after the store was cleared elsewhere
func (c *Controller) OnCleared() {
	c.Render(nil)
}

// Refresh re-reads the store and redraws
func (c *Controller) Refresh() {
	c.Render(c.store.GetAll())
}

// Show refreshes the view and shows the panel
func (c *Controller) Show() {
	c.Refresh()
	c.visibility.Show()
}

// Dismiss hides the panel without touching the history
func (c *Controller) Dismiss() {
	c.visibility.Hide()
}

// Toggle shows a hidden panel and hides a visible one
func (c *Controller) Toggle() {
	if c.visibility.Visible() {
		c.Dismiss()
		return
	}
	c.Show()
}

// Run applies store events until ctx is done or events is closed
func (c *Controller) Run(ctx context.Context, events <-chan history.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.logger.Debug("Panel event", zap.Stringer("kind", ev.Kind))
			switch ev.Kind {
			case history.EventUpdated:
				c.Render(ev.List)
			case history.EventCleared:
				c.OnCleared()
			case history.EventRefresh:
				c.Refresh()
			}
		}
	}
}

// feedbackLocked shows fb and schedules its dismissal. A newer banner
// cancels the pending dismissal of an older one.
func (c *Controller) feedbackLocked(fb Feedback) {
	if c.feedbackTimer != nil {
		c.feedbackTimer.Stop()
	}
	c.feedbackGen++
	gen := c.feedbackGen

	c.renderer.ShowFeedback(fb)
	c.feedbackTimer = c.opts.AfterFunc(c.opts.FeedbackDuration, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.feedbackGen == gen {
			c.feedbackTimer = nil
			c.renderer.HideFeedback()
		}
	})
}
