// Package gui hosts the fyne panel window and the system tray.
package gui

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/berrythewa/mintclip/internal/gui/theme"
	"github.com/berrythewa/mintclip/internal/gui/views"
	"github.com/berrythewa/mintclip/internal/panel"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"
)

// AppID identifies the application to fyne preferences and the tray
const AppID = "com.berrythewa.mintclip"

// Options configures the panel window
type Options struct {
	Width  float32
	Height float32
}

// Actions are the user gestures the window and tray forward to the panel
// controller and the store. Unset actions are ignored.
type Actions struct {
	Copy         func(id int64)
	TogglePin    func(id int64)
	Delete       func(id int64)
	ClearAll     func()
	Dismiss      func()
	ShowPanel    func()
	ClearHistory func()
}

// App represents the main GUI application
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	view    *views.PanelView
	logger  *zap.Logger

	mu      sync.RWMutex
	actions Actions
	visible atomic.Bool
}

// NewApp creates the fyne application and the hidden panel window
func NewApp(opts Options, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 360, 480
	}

	fyneApp := app.NewWithID(AppID)
	fyneApp.Settings().SetTheme(theme.NewMintTheme())

	a := &App{
		fyneApp: fyneApp,
		logger:  logger,
	}

	if drv, ok := fyneApp.Driver().(desktop.Driver); ok {
		a.window = drv.CreateSplashWindow()
	} else {
		a.window = fyneApp.NewWindow("Mintclip")
	}
	a.setupMainWindow(opts)
	a.setupTray()

	return a
}

// SetActions installs the gesture handlers
func (a *App) SetActions(actions Actions) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = actions
}

func (a *App) action() Actions {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.actions
}

// setupMainWindow configures the borderless panel window
func (a *App) setupMainWindow(opts Options) {
	a.view = views.NewPanelView(views.Callbacks{
		Copy:      func(id int64) { callID(a.action().Copy, id) },
		TogglePin: func(id int64) { callID(a.action().TogglePin, id) },
		Delete:    func(id int64) { callID(a.action().Delete, id) },
		ClearAll:  func() { call(a.action().ClearAll) },
		Close:     func() { a.dismiss() },
	})

	a.window.SetContent(a.view.Content())
	a.window.Resize(fyne.NewSize(opts.Width, opts.Height))
	a.window.SetFixedSize(true)
	a.window.CenterOnScreen()

	// closing the panel only hides it; quitting goes through the tray
	a.window.SetCloseIntercept(a.dismiss)

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			a.dismiss()
		}
	})

	hideOnFocusLoss(a.fyneApp.Lifecycle(), a.Visible, a.dismiss)
}

// hideOnFocusLoss dismisses a visible panel when the app leaves the
// foreground. The panel is the only window, so that means it lost focus.
func hideOnFocusLoss(lc fyne.Lifecycle, visible func() bool, dismiss func()) {
	lc.SetOnExitedForeground(func() {
		if visible() {
			dismiss()
		}
	})
}

// setupTray adds the system tray menu when the driver supports one
func (a *App) setupTray() {
	desk, ok := a.fyneApp.(desktop.App)
	if !ok {
		a.logger.Warn("System tray not supported, use `mintclip toggle` to open the panel")
		return
	}

	menu := fyne.NewMenu("Mintclip",
		fyne.NewMenuItem("Show Clipboard", func() { call(a.action().ShowPanel) }),
		fyne.NewMenuItem("Clear History", func() { call(a.action().ClearHistory) }),
	)
	desk.SetSystemTrayMenu(menu)
}

func (a *App) dismiss() {
	if f := a.action().Dismiss; f != nil {
		f()
		return
	}
	a.Hide()
}

// Run blocks running the fyne event loop until ctx is done or the user quits
// from the tray. Must be called from the main goroutine.
func (a *App) Run(ctx context.Context) {
	stop := context.AfterFunc(ctx, func() {
		fyne.Do(a.fyneApp.Quit)
	})
	defer stop()

	a.logger.Info("Panel ready")
	a.fyneApp.Run()
}

// Render implements panel.Renderer
func (a *App) Render(view panel.View) {
	fyne.Do(func() { a.view.Update(view) })
}

// ShowFeedback implements panel.Renderer
func (a *App) ShowFeedback(fb panel.Feedback) {
	fyne.Do(func() { a.view.ShowFeedback(fb) })
}

// HideFeedback implements panel.Renderer
func (a *App) HideFeedback() {
	fyne.Do(a.view.HideFeedback)
}

// Show implements panel.Visibility
func (a *App) Show() {
	a.visible.Store(true)
	fyne.Do(func() {
		a.window.Show()
		a.window.RequestFocus()
	})
}

// Hide implements panel.Visibility
func (a *App) Hide() {
	a.visible.Store(false)
	fyne.Do(a.window.Hide)
}

// Visible implements panel.Visibility
func (a *App) Visible() bool {
	return a.visible.Load()
}

func call(f func()) {
	if f != nil {
		f()
	}
}

func callID(f func(int64), id int64) {
	if f != nil {
		f(id)
	}
}

var (
	_ panel.Renderer   = (*App)(nil)
	_ panel.Visibility = (*App)(nil)
)
