package cli

import (
	"fmt"

	"github.com/berrythewa/mintclip/internal/daemon"
	"github.com/berrythewa/mintclip/internal/ipc"

	"github.com/spf13/cobra"
)

func newToggleCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Show the panel if hidden, hide it otherwise",
		Long: `Toggle the popup panel of the running daemon.

Bind this to a global shortcut in your desktop environment, e.g.
  Super+V  ->  mintclip toggle`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.panelCommand(cmd, ipc.CmdPanelToggle)
		},
	}
}

func newShowCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.panelCommand(cmd, ipc.CmdPanelShow)
		},
	}
}

func newHideCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "hide",
		Short: "Hide the panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.panelCommand(cmd, ipc.CmdPanelHide)
		},
	}
}

func (s *state) panelCommand(cmd *cobra.Command, command string) error {
	resp, err := s.call(command, nil)
	if err != nil {
		return err
	}
	var st daemon.PanelState
	if err := resp.Decode(&st); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	if st.Visible {
		fmt.Fprintln(cmd.OutOrStdout(), "Panel shown")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Panel hidden")
	}
	return nil
}
