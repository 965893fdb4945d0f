package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/berrythewa/mintclip/internal/clipboard"
	"github.com/berrythewa/mintclip/internal/config"
	"github.com/berrythewa/mintclip/internal/ipc"
	"github.com/berrythewa/mintclip/internal/paste"
	"github.com/berrythewa/mintclip/internal/storage"
	"github.com/berrythewa/mintclip/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testDaemon struct {
	*Daemon
	clip *clipboard.Headless
}

func newTestDaemon(t *testing.T) *testDaemon {
	t.Helper()

	dir, err := os.MkdirTemp("", "mcd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	cfg := config.DefaultConfig()
	cfg.Storage.DBPath = filepath.Join(dir, "history.db")
	cfg.IPC.SocketPath = filepath.Join(dir, "d.sock")
	cfg.PollingInterval = 20

	kv, err := storage.NewBoltStorage(storage.StorageConfig{DBPath: cfg.Storage.DBPath})
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	clip := clipboard.NewHeadless()
	d, err := assemble(cfg, zap.NewNop(), kv, clip, paste.NopPaster{}, newLogSurface(zap.NewNop()))
	require.NoError(t, err)
	return &testDaemon{Daemon: d, clip: clip}
}

func decodeList(t *testing.T, resp *ipc.Response) types.HistoryList {
	t.Helper()
	require.NoError(t, resp.Err())
	var list types.HistoryList
	require.NoError(t, resp.Decode(&list))
	return list
}

func TestHandleHistoryCommands(t *testing.T) {
	d := newTestDaemon(t)
	for _, c := range []string{"one", "two", "three"} {
		_, err := d.store.Add(c, types.KindText)
		require.NoError(t, err)
	}

	list := decodeList(t, d.Handle(&ipc.Request{Command: ipc.CmdHistoryList}))
	require.Len(t, list, 3)
	assert.Equal(t, "three", list[0].Content)

	list = decodeList(t, d.Handle(&ipc.Request{Command: ipc.CmdHistoryList, Args: map[string]any{"limit": 2}}))
	assert.Len(t, list, 2)

	target := list[1].ID
	list = decodeList(t, d.Handle(&ipc.Request{Command: ipc.CmdHistoryPin, Args: map[string]any{"id": target}}))
	entry, ok := list.Find(target)
	require.True(t, ok)
	assert.True(t, entry.Pinned)

	list = decodeList(t, d.Handle(&ipc.Request{Command: ipc.CmdHistoryDelete, Args: map[string]any{"id": target}}))
	assert.Len(t, list, 2)

	resp := d.Handle(&ipc.Request{Command: ipc.CmdHistoryDelete, Args: map[string]any{"id": target}})
	assert.Error(t, resp.Err())

	resp = d.Handle(&ipc.Request{Command: ipc.CmdHistoryPin})
	assert.Error(t, resp.Err())

	list = decodeList(t, d.Handle(&ipc.Request{Command: ipc.CmdHistoryClear}))
	assert.Empty(t, list)
	assert.Empty(t, d.store.GetAll())
}

func TestHandlePanelCommands(t *testing.T) {
	d := newTestDaemon(t)

	var state PanelState
	resp := d.Handle(&ipc.Request{Command: ipc.CmdPanelToggle})
	require.NoError(t, resp.Decode(&state))
	assert.True(t, state.Visible)

	resp = d.Handle(&ipc.Request{Command: ipc.CmdPanelHide})
	require.NoError(t, resp.Decode(&state))
	assert.False(t, state.Visible)

	resp = d.Handle(&ipc.Request{Command: ipc.CmdPanelShow})
	require.NoError(t, resp.Decode(&state))
	assert.True(t, state.Visible)

	_, err := d.store.Add("sized", types.KindText)
	require.NoError(t, err)

	var status Status
	resp = d.Handle(&ipc.Request{Command: ipc.CmdPing})
	require.NoError(t, resp.Decode(&status))
	assert.True(t, status.PanelVisible)
	assert.True(t, status.Headless)
	assert.Equal(t, "headless", status.Clipboard)
	assert.Equal(t, d.cfg.Storage.DBPath, status.DBPath)
	assert.Positive(t, status.DBSize)

	assert.Error(t, d.Handle(&ipc.Request{Command: "nope"}).Err())
}

func TestRunHeadless(t *testing.T) {
	d := newTestDaemon(t)
	socket := d.cfg.IPC.SocketPath

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		_, err := ipc.SendRequest(socket, &ipc.Request{Command: ipc.CmdPing})
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	// the monitor records what lands on the clipboard
	require.NoError(t, d.clip.WriteText("copied elsewhere"))
	require.Eventually(t, func() bool {
		resp, err := ipc.SendRequest(socket, &ipc.Request{Command: ipc.CmdHistoryList})
		if err != nil || resp.Err() != nil {
			return false
		}
		var list types.HistoryList
		return resp.Decode(&list) == nil && len(list) == 1 && list[0].Content == "copied elsewhere"
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := ipc.SendRequest(socket, &ipc.Request{Command: ipc.CmdQuit})
	require.NoError(t, err)
	require.NoError(t, resp.Err())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop")
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	first := newTestDaemon(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- first.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	require.Eventually(t, func() bool {
		_, err := ipc.SendRequest(first.cfg.IPC.SocketPath, &ipc.Request{Command: ipc.CmdPing})
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	second := newTestDaemon(t)
	second.cfg.IPC.SocketPath = first.cfg.IPC.SocketPath
	assert.ErrorIs(t, second.Run(context.Background()), ipc.ErrAlreadyRunning)
}
