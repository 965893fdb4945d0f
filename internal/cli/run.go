package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/berrythewa/mintclip/internal/daemon"
	"github.com/berrythewa/mintclip/internal/ipc"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd(s *state) *cobra.Command {
	var (
		headless bool
		detach   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the clipboard daemon",
		Long: `Run the clipboard daemon with its tray icon and popup panel.

Examples:
  mintclip run               # Run in the foreground
  mintclip run --detach      # Run in the background, logging to the data dir
  mintclip run --headless    # Record history without any window`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runDaemon(cmd, headless, detach)
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "run without the panel and tray")
	cmd.Flags().BoolVar(&detach, "detach", false, "run in the background")
	return cmd
}

func (s *state) runDaemon(cmd *cobra.Command, headless, detach bool) error {
	if detach && os.Getenv(daemon.DetachedEnv) == "" {
		pid, err := daemon.Detach(os.Args[1:], s.cfg.SystemPaths.LogDir, s.logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mintclip started in background (pid %d)\n", pid)
		return nil
	}

	if err := s.cfg.SystemPaths.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create data directories: %w", err)
	}

	// the database lock would only time out, so ask the socket first
	if resp, err := ipc.SendRequest(s.cfg.IPC.SocketPath, &ipc.Request{Command: ipc.CmdPing}); err == nil && resp.Err() == nil {
		return fmt.Errorf("mintclip is already running (socket %s)", s.cfg.IPC.SocketPath)
	}

	d, err := daemon.New(s.cfg, s.logger, daemon.Options{Headless: headless})
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("Starting mintclip",
		zap.String("version", Version),
		zap.String("config", s.cfg.SystemPaths.ConfigFile),
		zap.String("db", s.cfg.Storage.DBPath))

	if err := d.Run(ctx); err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			return fmt.Errorf("mintclip is already running (socket %s)", s.cfg.IPC.SocketPath)
		}
		return err
	}
	return nil
}
