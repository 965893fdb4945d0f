package cli

import (
	"fmt"
	"os"

	"github.com/berrythewa/mintclip/internal/common"
	"github.com/berrythewa/mintclip/internal/config"
	"github.com/berrythewa/mintclip/internal/ipc"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version information, set by main
var (
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "none"
)

// SetVersionInfo allows setting version info from outside
func SetVersionInfo(v, bt, c string) {
	Version = v
	BuildTime = bt
	Commit = c
}

// state is shared by the commands of one root command
type state struct {
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the mintclip command tree
func NewRootCmd() *cobra.Command {
	s := &state{}

	root := &cobra.Command{
		Use:   "mintclip",
		Short: "Mintclip is a clipboard history manager",
		Long: `Mintclip keeps a history of everything you copy, text and images,
and shows it in a small popup panel. Pick an entry to put it back on the
clipboard and paste it into the focused window.

Running mintclip without any commands starts the daemon in the foreground.
The other commands talk to a running daemon over its control socket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.logger != nil {
				_ = s.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runDaemon(cmd, false, false)
		},
	}

	root.PersistentFlags().StringVar(&s.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/mintclip/config.yaml)")
	root.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newRunCmd(s),
		newToggleCmd(s),
		newShowCmd(s),
		newHideCmd(s),
		newHistoryCmd(s),
		newStatusCmd(s),
		newQuitCmd(s),
		newConfigCmd(s),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (s *state) setup() error {
	cfg, err := config.Load(s.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if s.logLevel != "" {
		cfg.LogLevel = s.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := common.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	s.cfg = cfg
	s.logger = logger
	return nil
}

// call sends one request to the running daemon
func (s *state) call(command string, args map[string]any) (*ipc.Response, error) {
	socket := s.cfg.IPC.SocketPath
	s.logger.Debug("Sending IPC request", zap.String("command", command), zap.String("socket", socket))

	resp, err := ipc.SendRequest(socket, &ipc.Request{Command: command, Args: args})
	if err != nil {
		return nil, fmt.Errorf("mintclip is not running (socket %s): %w", socket, err)
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return resp, nil
}
