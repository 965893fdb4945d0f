// Package daemon wires storage, history, clipboard, panel and IPC into the
// running application.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/berrythewa/mintclip/internal/clipboard"
	"github.com/berrythewa/mintclip/internal/config"
	"github.com/berrythewa/mintclip/internal/gui"
	"github.com/berrythewa/mintclip/internal/history"
	"github.com/berrythewa/mintclip/internal/ipc"
	"github.com/berrythewa/mintclip/internal/panel"
	"github.com/berrythewa/mintclip/internal/paste"
	"github.com/berrythewa/mintclip/internal/storage"

	"go.uber.org/zap"
)

// Options selects how the daemon runs
type Options struct {
	// Headless runs without a window or tray; the panel is driven over IPC
	// only and renders to the log.
	Headless bool
}

// surface is the panel renderer plus its visibility
type surface interface {
	panel.Renderer
	panel.Visibility
}

// Daemon owns every long-lived component
type Daemon struct {
	cfg    *config.Config
	logger *zap.Logger

	kv      storage.KV
	store   *history.Store
	clip    clipboard.Clipboard
	monitor *clipboard.Monitor
	surface surface
	ui      *gui.App
	panel   *panel.Controller

	stopOnce sync.Once
	stop     context.CancelFunc
}

// New builds the daemon. The database is opened here so a second instance
// fails fast on the file lock.
func New(cfg *config.Config, logger *zap.Logger, opts Options) (*Daemon, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.SystemPaths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("failed to create data directories: %w", err)
	}

	kv, err := storage.NewBoltStorage(storage.StorageConfig{
		DBPath:            cfg.Storage.DBPath,
		CompressThreshold: cfg.Storage.CompressThreshold,
		Logger:            logger.Named("storage"),
	})
	if err != nil {
		return nil, err
	}

	clip := clipboard.NewSystem(logger.Named("clipboard"))

	var (
		surf   surface
		ui     *gui.App
		paster paste.Paster = paste.NopPaster{}
	)
	if opts.Headless {
		surf = newLogSurface(logger.Named("panel"))
	} else {
		ui = gui.NewApp(gui.Options{
			Width:  float32(cfg.Panel.Width),
			Height: float32(cfg.Panel.Height),
		}, logger.Named("gui"))
		surf = ui
		if cfg.Paste.Enabled {
			paster = paste.NewCommandPaster(cfg.Paste.Commands, logger.Named("paste"))
		}
	}

	d, err := assemble(cfg, logger, kv, clip, paster, surf)
	if err != nil {
		kv.Close()
		return nil, err
	}
	d.ui = ui
	return d, nil
}

// assemble wires the components that do not depend on a display
func assemble(cfg *config.Config, logger *zap.Logger, kv storage.KV, clip clipboard.Clipboard, paster paste.Paster, surf surface) (*Daemon, error) {
	store := history.NewStore(kv, history.Options{
		MaxUnpinned: cfg.Storage.MaxUnpinned,
		Logger:      logger.Named("history"),
	})
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	ctrl := panel.NewController(store, surf, clip, paster, surf, panel.Options{
		PreviewLength:    cfg.Panel.PreviewLength,
		PasteDelay:       cfg.Panel.PasteDelay(),
		FeedbackDuration: cfg.Panel.FeedbackDuration(),
		Logger:           logger.Named("panel"),
	})

	return &Daemon{
		cfg:     cfg,
		logger:  logger,
		kv:      kv,
		store:   store,
		clip:    clip,
		monitor: clipboard.NewMonitor(clip, store, cfg.PollInterval(), logger.Named("monitor")),
		surface: surf,
		panel:   ctrl,
	}, nil
}

// Store exposes the history store
func (d *Daemon) Store() *history.Store {
	return d.store
}

// Run blocks until ctx is done, the user quits from the tray, or a quit
// request arrives over IPC. With a window it must run on the main goroutine.
func (d *Daemon) Run(ctx context.Context) error {
	socket := d.cfg.IPC.SocketPath
	if resp, err := ipc.SendRequest(socket, &ipc.Request{Command: ipc.CmdPing}); err == nil && resp.Status == ipc.StatusOK {
		d.kv.Close()
		return ipc.ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	d.stop = cancel
	defer cancel()

	events, unsubscribe := d.store.Events().Subscribe()
	defer unsubscribe()

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(3)
	go func() {
		defer wg.Done()
		d.panel.Run(ctx, events)
	}()
	go func() {
		defer wg.Done()
		d.monitor.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := ipc.ListenAndServe(ctx, socket, d.Handle, d.logger.Named("ipc")); err != nil {
			errCh <- err
			cancel()
		}
	}()

	// first paint goes through the panel's event loop
	d.store.Events().Publish(history.Event{Kind: history.EventRefresh})
	d.logger.Info("Mintclip running",
		zap.Bool("headless", d.ui == nil),
		zap.String("clipboard", d.clip.Name()),
		zap.Int("entries", len(d.store.GetAll())))

	if d.ui != nil {
		d.installActions(ctx)
		d.ui.Run(ctx)
		cancel()
	} else {
		<-ctx.Done()
	}

	wg.Wait()
	d.logger.Info("Mintclip stopped")

	var runErr error
	select {
	case runErr = <-errCh:
	default:
	}
	if err := d.kv.Close(); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to close storage: %w", err))
	}
	return runErr
}

// Stop asks a running daemon to shut down
func (d *Daemon) Stop() {
	d.stopOnce.Do(func() {
		if d.stop != nil {
			d.stop()
		}
	})
}

// installActions routes window and tray gestures. Store writes happen off
// the fyne event loop.
func (d *Daemon) installActions(ctx context.Context) {
	d.ui.SetActions(gui.Actions{
		Copy: func(id int64) {
			go func() {
				if err := d.panel.Copy(ctx, id); err != nil {
					d.logger.Debug("Copy gesture failed", zap.Int64("id", id), zap.Error(err))
				}
			}()
		},
		TogglePin: func(id int64) { go d.panel.TogglePin(id) },
		Delete:    func(id int64) { go d.panel.Delete(id) },
		ClearAll:  func() { go d.panel.ClearAll() },
		Dismiss:   d.panel.Dismiss,
		ShowPanel: func() { go d.panel.Show() },
		ClearHistory: func() {
			go func() {
				if _, err := d.store.Clear(); err != nil {
					d.logger.Error("Failed to clear history from tray", zap.Error(err))
				}
			}()
		},
	})
}
