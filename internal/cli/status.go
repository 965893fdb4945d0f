package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/berrythewa/mintclip/internal/daemon"
	"github.com/berrythewa/mintclip/internal/ipc"
	"github.com/berrythewa/mintclip/pkg/format"

	"github.com/spf13/cobra"
)

func newStatusCmd(s *state) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the daemon is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := s.call(ipc.CmdPing, nil)
			if err != nil {
				return err
			}
			var st daemon.Status
			if err := resp.Decode(&st); err != nil {
				return fmt.Errorf("invalid response: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}

			mode := "panel"
			if st.Headless {
				mode = "headless"
			}
			fmt.Fprintln(out, format.FormatStatus("Mintclip is running", [][2]string{
				{"Mode", mode},
				{"Clipboard", st.Clipboard},
				{"Entries", strconv.Itoa(st.Entries)},
				{"Pinned", strconv.Itoa(st.Pinned)},
				{"Panel visible", strconv.FormatBool(st.PanelVisible)},
				{"Database", fmt.Sprintf("%s (%s)", st.DBPath, format.FormatSize(st.DBSize))},
				{"Socket", s.cfg.IPC.SocketPath},
			}, format.DefaultOptions()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output status as JSON")
	return cmd
}

func newQuitCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:     "quit",
		Aliases: []string{"stop"},
		Short:   "Stop the running daemon",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := s.call(ipc.CmdQuit, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Mintclip stopped")
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Mintclip")
			fmt.Fprintf(out, "Version:    %s\n", Version)
			fmt.Fprintf(out, "Build Time: %s\n", BuildTime)
			fmt.Fprintf(out, "Commit:     %s\n", Commit)
		},
	}
}
