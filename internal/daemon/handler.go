package daemon

import (
	"github.com/berrythewa/mintclip/internal/ipc"
	"github.com/berrythewa/mintclip/internal/types"

	"go.uber.org/zap"
)

// Status is the payload of a ping response
type Status struct {
	Entries      int    `json:"entries"`
	Pinned       int    `json:"pinned"`
	PanelVisible bool   `json:"panel_visible"`
	Clipboard    string `json:"clipboard"`
	Headless     bool   `json:"headless"`
	DBPath       string `json:"db_path,omitempty"`
	DBSize       int64  `json:"db_size"`
}

// dbInfo is implemented by storage backends backed by a file
type dbInfo interface {
	Path() string
	Size() int64
}

// PanelState is the payload of the panel commands
type PanelState struct {
	Visible bool `json:"visible"`
}

// Handle processes incoming IPC requests from the CLI.
func (d *Daemon) Handle(req *ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CmdPing:
		list := d.store.GetAll()
		pinned, _ := list.Partition()
		st := Status{
			Entries:      len(list),
			Pinned:       len(pinned),
			PanelVisible: d.surface.Visible(),
			Clipboard:    d.clip.Name(),
			Headless:     d.ui == nil,
		}
		if db, ok := d.kv.(dbInfo); ok {
			st.DBPath = db.Path()
			st.DBSize = db.Size()
		}
		return ipc.OK(st)

	case ipc.CmdPanelShow:
		d.panel.Show()
		return ipc.OK(PanelState{Visible: d.surface.Visible()})
	case ipc.CmdPanelHide:
		d.panel.Dismiss()
		return ipc.OK(PanelState{Visible: d.surface.Visible()})
	case ipc.CmdPanelToggle:
		d.panel.Toggle()
		return ipc.OK(PanelState{Visible: d.surface.Visible()})

	case ipc.CmdHistoryList:
		list := d.store.GetAll()
		if _, ok := req.Args["limit"]; ok {
			limit, err := req.IntArg("limit")
			if err != nil {
				return ipc.Errorf("invalid limit: %v", err)
			}
			if limit > 0 && int(limit) < len(list) {
				list = list[:limit]
			}
		}
		return ipc.OK(list)

	case ipc.CmdHistoryClear:
		list, err := d.store.Clear()
		if err != nil {
			return ipc.Errorf("%v", err)
		}
		return ipc.OK(list)

	case ipc.CmdHistoryPin:
		return d.mutateEntry(req, d.store.TogglePin)
	case ipc.CmdHistoryDelete:
		return d.mutateEntry(req, d.store.Remove)

	case ipc.CmdQuit:
		d.logger.Info("Quit requested over IPC")
		d.Stop()
		return ipc.OK(nil)

	default:
		return ipc.Errorf("unknown command %q", req.Command)
	}
}

func (d *Daemon) mutateEntry(req *ipc.Request, op func(int64) (types.HistoryList, error)) *ipc.Response {
	id, err := req.IntArg("id")
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	if _, ok := d.store.GetAll().Find(id); !ok {
		return ipc.Errorf("no entry with id %d", id)
	}
	list, err := op(id)
	if err != nil {
		d.logger.Error("IPC history update failed", zap.String("command", req.Command), zap.Error(err))
		return ipc.Errorf("%v", err)
	}
	return ipc.OK(list)
}
