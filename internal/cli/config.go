package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/berrythewa/mintclip/internal/config"
)

func newConfigCmd(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage Mintclip configuration",
		Long: `Manage Mintclip configuration:
  • Initialize a configuration file with defaults
  • Show the effective configuration
  • Print where configuration and data live`,
	}

	cmd.AddCommand(
		newConfigInitCmd(s),
		newConfigShowCmd(s),
		newConfigPathCmd(s),
	)
	return cmd
}

func newConfigInitCmd(s *state) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := s.cfg.SystemPaths.ConfigFile

			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("configuration already exists at %s\nUse --force to overwrite or 'mintclip config show' to view it", configPath)
			}

			cfg := config.DefaultConfig()
			cfg.SystemPaths = s.cfg.SystemPaths
			cfg.Storage.DBPath = s.cfg.SystemPaths.DBFile
			cfg.IPC.SocketPath = s.cfg.SystemPaths.SocketPath

			s.logger.Info("Initializing configuration", zap.String("config_path", configPath))
			if err := cfg.Save(configPath); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration initialized at: %s\n", configPath)
			fmt.Fprintf(out, "✓ Database path: %s\n", cfg.Storage.DBPath)
			fmt.Fprintln(out, "\nTo start the daemon, run: mintclip run --detach")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration")
	return cmd
}

func newConfigShowCmd(s *state) *cobra.Command {
	var outFormat string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch outFormat {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(s.cfg)
			case "yaml", "":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(s.cfg)
			default:
				return fmt.Errorf("unsupported format %q (use yaml or json)", outFormat)
			}
		},
	}

	cmd.Flags().StringVarP(&outFormat, "format", "o", "yaml", "output format (yaml, json)")
	return cmd
}

func newConfigPathCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print configuration and data locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := s.cfg.SystemPaths
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s\n", p.ConfigFile)
			fmt.Fprintf(out, "Data dir:    %s\n", p.DataDir)
			fmt.Fprintf(out, "Database:    %s\n", s.cfg.Storage.DBPath)
			fmt.Fprintf(out, "Log dir:     %s\n", p.LogDir)
			fmt.Fprintf(out, "Socket:      %s\n", s.cfg.IPC.SocketPath)
			return nil
		},
	}
}
