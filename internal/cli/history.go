package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/berrythewa/mintclip/internal/ipc"
	"github.com/berrythewa/mintclip/internal/types"
	"github.com/berrythewa/mintclip/pkg/format"

	"github.com/spf13/cobra"
)

func newHistoryCmd(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage clipboard history",
		Long: `Manage the clipboard history of the running daemon:
  • List entries, pinned first
  • Pin or unpin an entry
  • Delete an entry or clear the whole history`,
	}

	cmd.AddCommand(
		newHistoryListCmd(s),
		newHistoryPinCmd(s),
		newHistoryDeleteCmd(s),
		newHistoryClearCmd(s),
	)
	return cmd
}

func newHistoryListCmd(s *state) *cobra.Command {
	var (
		limit    int
		asJSON   bool
		compact  bool
		noColors bool
		noIcons  bool
		maxLines int
		maxWidth int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clipboard history",
		Long: `List clipboard history entries in panel order.

Examples:
  mintclip history list              # Show every entry
  mintclip history list -n 5         # Show the first 5 entries
  mintclip history list --compact    # One line per entry
  mintclip history list --json       # Raw entries for scripting`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var reqArgs map[string]any
			if limit > 0 {
				reqArgs = map[string]any{"limit": limit}
			}
			resp, err := s.call(ipc.CmdHistoryList, reqArgs)
			if err != nil {
				return err
			}
			var list types.HistoryList
			if err := resp.Decode(&list); err != nil {
				return fmt.Errorf("invalid response: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			opts := format.DefaultOptions()
			if compact {
				opts = format.CompactOptions()
			}
			if noColors {
				opts.UseColors = false
			}
			if noIcons {
				opts.UseIcons = false
			}
			if cmd.Flags().Changed("max-lines") {
				opts.MaxLines = maxLines
			}
			if cmd.Flags().Changed("max-width") {
				opts.MaxWidth = maxWidth
			}
			fmt.Fprintln(out, format.FormatList(list, opts))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of entries to show (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output history as JSON")
	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "use compact single-line format")
	cmd.Flags().BoolVar(&noColors, "no-colors", false, "disable colored output")
	cmd.Flags().BoolVar(&noIcons, "no-icons", false, "disable icons in output")
	cmd.Flags().IntVar(&maxLines, "max-lines", 10, "maximum lines to show per entry (0 = no limit)")
	cmd.Flags().IntVar(&maxWidth, "max-width", 80, "maximum width per line (0 = no limit)")
	return cmd
}

func newHistoryPinCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin an entry",
		Long: `Flip the pinned flag of an entry. Pinned entries are listed first and
do not count against the history limit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list, err := s.mutate(ipc.CmdHistoryPin, id)
			if err != nil {
				return err
			}
			if e, ok := list.Find(id); ok && e.Pinned {
				fmt.Fprintf(cmd.OutOrStdout(), "Pinned entry %d\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Unpinned entry %d\n", id)
			}
			return nil
		},
	}
}

func newHistoryDeleteCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry, pinned or not",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := s.mutate(ipc.CmdHistoryDelete, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d\n", id)
			return nil
		},
	}
}

func newHistoryClearCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry, pinned ones included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := s.call(ipc.CmdHistoryClear, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}
}

func (s *state) mutate(command string, id int64) (types.HistoryList, error) {
	resp, err := s.call(command, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	var list types.HistoryList
	if err := resp.Decode(&list); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	return list, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q", arg)
	}
	return id, nil
}
