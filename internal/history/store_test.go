package history

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/berrythewa/mintclip/internal/storage"
	"github.com/berrythewa/mintclip/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	failErr error
	loadErr error
	saves   int
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Load(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (m *memKV) Save(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Close() error { return nil }

// fixedClock always returns the same instant so ids come from the lastID+1 rule
func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	return func() time.Time { return t }
}

func newTestStore(t *testing.T, kv storage.KV) *Store {
	t.Helper()
	s := NewStore(kv, Options{Logger: zap.NewNop(), Now: fixedClock()})
	require.NoError(t, s.Load())
	return s
}

func countUnpinned(l types.HistoryList) int {
	_, unpinned := l.Partition()
	return len(unpinned)
}

func TestAddDedup(t *testing.T) {
	s := newTestStore(t, newMemKV())

	first, err := s.Add("C", types.KindText)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := s.Add("C", types.KindText)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "C", second[0].Content)
	assert.Greater(t, second[0].ID, first[0].ID)
}

func TestAddMovesExistingToFront(t *testing.T) {
	s := newTestStore(t, newMemKV())

	for _, c := range []string{"a", "b", "c"} {
		_, err := s.Add(c, types.KindText)
		require.NoError(t, err)
	}
	list, err := s.Add("a", types.KindText)
	require.NoError(t, err)

	got := make([]string, 0, len(list))
	for _, e := range list {
		got = append(got, e.Content)
	}
	assert.Equal(t, []string{"a", "c", "b"}, got)
}

func TestDedupDropsPin(t *testing.T) {
	s := newTestStore(t, newMemKV())

	list, err := s.Add("keep", types.KindText)
	require.NoError(t, err)
	_, err = s.TogglePin(list[0].ID)
	require.NoError(t, err)

	list, err = s.Add("keep", types.KindText)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Pinned)
}

func TestCapInvariant(t *testing.T) {
	s := NewStore(newMemKV(), Options{MaxUnpinned: 5, Now: fixedClock()})

	for i := 0; i < 12; i++ {
		list, err := s.Add(fmt.Sprintf("item %d", i), types.KindText)
		require.NoError(t, err)
		assert.LessOrEqual(t, countUnpinned(list), 5)
	}

	list := s.GetAll()
	require.Len(t, list, 5)
	assert.Equal(t, "item 11", list[0].Content)
	assert.Equal(t, "item 7", list[4].Content)
}

func TestPinExemption(t *testing.T) {
	s := newTestStore(t, newMemKV())

	list, err := s.Add("pinned", types.KindText)
	require.NoError(t, err)
	list, err = s.TogglePin(list[0].ID)
	require.NoError(t, err)
	pinned := list[0]

	for i := 0; i < 50; i++ {
		_, err := s.Add(fmt.Sprintf("text %d", i), types.KindText)
		require.NoError(t, err)
	}

	got, ok := s.GetAll().Find(pinned.ID)
	require.True(t, ok)
	assert.Equal(t, pinned, got)
}

func TestPinnedGroupedFirst(t *testing.T) {
	s := newTestStore(t, newMemKV())

	for _, c := range []string{"a", "b", "c"} {
		_, err := s.Add(c, types.KindText)
		require.NoError(t, err)
	}
	b := s.GetAll()[1]
	_, err := s.TogglePin(b.ID)
	require.NoError(t, err)

	list, err := s.Add("d", types.KindText)
	require.NoError(t, err)

	seenUnpinned := false
	for _, e := range list {
		if !e.Pinned {
			seenUnpinned = true
			continue
		}
		assert.False(t, seenUnpinned, "pinned entry %q after unpinned", e.Content)
	}
	assert.Equal(t, "b", list[0].Content)
	assert.Equal(t, "d", list[1].Content)
}

func TestClearIsUnconditional(t *testing.T) {
	s := newTestStore(t, newMemKV())

	for i := 0; i < 3; i++ {
		list, err := s.Add(fmt.Sprintf("pin %d", i), types.KindText)
		require.NoError(t, err)
		_, err = s.TogglePin(list[0].ID)
		require.NoError(t, err)
	}
	for i := 0; i < 10; i++ {
		_, err := s.Add(fmt.Sprintf("add %d", i), types.KindText)
		require.NoError(t, err)
	}
	require.Len(t, s.GetAll(), 13)

	list, err := s.Clear()
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, s.GetAll())
}

func TestRemoveAndToggleUnknownID(t *testing.T) {
	kv := newMemKV()
	s := newTestStore(t, kv)

	_, err := s.Add("x", types.KindText)
	require.NoError(t, err)
	saves := kv.saves

	list, err := s.Remove(42)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = s.TogglePin(42)
	require.NoError(t, err)
	assert.False(t, list[0].Pinned)
	assert.Equal(t, saves, kv.saves)

	list, err = s.Remove(list[0].ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRoundTrip(t *testing.T) {
	kv := newMemKV()
	s := newTestStore(t, kv)

	png := types.EncodeImage("image/png", []byte{0x89, 'P', 'N', 'G'})
	inputs := []struct {
		content string
		kind    types.ContentKind
	}{
		{"one", types.KindText},
		{png, types.KindImage},
		{"three", types.KindText},
		{"four", types.KindText},
		{types.EncodeImage("image/png", []byte{1, 2, 3}), types.KindImage},
	}
	for _, in := range inputs {
		_, err := s.Add(in.content, in.kind)
		require.NoError(t, err)
	}
	_, err := s.TogglePin(s.GetAll()[3].ID)
	require.NoError(t, err)
	want := s.GetAll()

	reloaded := newTestStore(t, kv)
	if diff := cmp.Diff(want, reloaded.GetAll()); diff != "" {
		t.Errorf("reloaded history mismatch (-want +got):\n%s", diff)
	}

	// ids keep increasing after a reload
	list, err := reloaded.Add("six", types.KindText)
	require.NoError(t, err)
	for _, e := range want {
		assert.Greater(t, list[0].ID, e.ID)
	}
}

func TestRoundTripThroughBolt(t *testing.T) {
	kv, err := storage.NewBoltStorage(storage.StorageConfig{
		DBPath:            t.TempDir() + "/history.db",
		CompressThreshold: 16,
	})
	require.NoError(t, err)
	defer kv.Close()

	s := newTestStore(t, kv)
	for i := 0; i < 5; i++ {
		_, err := s.Add(fmt.Sprintf("entry number %d", i), types.KindText)
		require.NoError(t, err)
	}

	reloaded := newTestStore(t, kv)
	if diff := cmp.Diff(s.GetAll(), reloaded.GetAll()); diff != "" {
		t.Errorf("reloaded history mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMalformed(t *testing.T) {
	kv := newMemKV()
	kv.data[StorageKey] = []byte(`{not json`)

	s := newTestStore(t, kv)
	assert.Empty(t, s.GetAll())

	_, err := s.Add("fresh", types.KindText)
	require.NoError(t, err)
	assert.Contains(t, string(kv.data[StorageKey]), `"fresh"`)
}

func TestLoadCorruptValueStartsEmpty(t *testing.T) {
	kv := newMemKV()
	kv.loadErr = fmt.Errorf("%w: bad codec", storage.ErrCorrupt)

	s := NewStore(kv, Options{Logger: zap.NewNop()})
	require.NoError(t, s.Load())
	assert.Empty(t, s.GetAll())
}

func TestLoadReadFailureKeepsStoredHistory(t *testing.T) {
	kv := newMemKV()
	s := newTestStore(t, kv)
	for _, c := range []string{"a", "b", "c"} {
		_, err := s.Add(c, types.KindText)
		require.NoError(t, err)
	}

	kv.loadErr = errors.New("input/output error")
	restarted := NewStore(kv, Options{Logger: zap.NewNop()})
	err := restarted.Load()
	assert.ErrorIs(t, err, ErrPersist)
	assert.ErrorContains(t, err, "input/output error")

	kv.loadErr = nil
	reloaded := newTestStore(t, kv)
	assert.Len(t, reloaded.GetAll(), 3)
}

func TestLoadDropsUnknownKinds(t *testing.T) {
	kv := newMemKV()
	kv.data[StorageKey] = []byte(`[{"id":2,"content":"a","kind":"text"},{"id":1,"content":"b","kind":"video"}]`)

	s := newTestStore(t, kv)
	list := s.GetAll()
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Content)
}

func TestPersistFailureKeepsState(t *testing.T) {
	kv := newMemKV()
	s := newTestStore(t, kv)

	list, err := s.Add("stable", types.KindText)
	require.NoError(t, err)
	before := s.GetAll()

	kv.failErr = errors.New("disk full")

	_, err = s.Add("new", types.KindText)
	assert.ErrorIs(t, err, ErrPersist)
	_, err = s.TogglePin(list[0].ID)
	assert.ErrorIs(t, err, ErrPersist)
	_, err = s.Remove(list[0].ID)
	assert.ErrorIs(t, err, ErrPersist)
	_, err = s.Clear()
	assert.ErrorIs(t, err, ErrPersist)

	if diff := cmp.Diff(before, s.GetAll()); diff != "" {
		t.Errorf("state changed after failed writes (-want +got):\n%s", diff)
	}
}

func TestIDsAndTimestamps(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	s := NewStore(newMemKV(), Options{Now: func() time.Time { return now }})

	list, err := s.Add("a", types.KindText)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), list[0].ID)
	assert.Equal(t, "3/5/2024, 2:07:09 PM", list[0].CreatedAt)

	list, err = s.Add("b", types.KindText)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli()+1, list[0].ID)

	now = now.Add(time.Hour)
	list, err = s.Add("c", types.KindText)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), list[0].ID)
}

func TestHelloScenario(t *testing.T) {
	s := newTestStore(t, newMemKV())

	list, err := s.Add("hello", types.KindText)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "hello", list[0].Content)
	assert.False(t, list[0].Pinned)
	firstID := list[0].ID

	list, err = s.Add("hello", types.KindText)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotEqual(t, firstID, list[0].ID)
	helloID := list[0].ID

	list, err = s.TogglePin(helloID)
	require.NoError(t, err)
	assert.True(t, list[0].Pinned)

	for i := 0; i < 49; i++ {
		list, err = s.Add(fmt.Sprintf("text %d", i), types.KindText)
		require.NoError(t, err)
	}
	_, ok := list.Find(helloID)
	assert.True(t, ok)
	assert.Equal(t, 49, countUnpinned(list))

	for i := 49; i < 51; i++ {
		list, err = s.Add(fmt.Sprintf("text %d", i), types.KindText)
		require.NoError(t, err)
	}
	hello, ok := list.Find(helloID)
	require.True(t, ok)
	assert.True(t, hello.Pinned)
	assert.Equal(t, 50, countUnpinned(list))
	assert.Len(t, list, 51)
}

func TestStorePublishesEvents(t *testing.T) {
	s := newTestStore(t, newMemKV())
	events, unsubscribe := s.Events().Subscribe()
	defer unsubscribe()

	_, err := s.Add("a", types.KindText)
	require.NoError(t, err)
	ev := <-events
	assert.Equal(t, EventUpdated, ev.Kind)
	require.Len(t, ev.List, 1)

	_, err = s.Clear()
	require.NoError(t, err)
	ev = <-events
	assert.Equal(t, EventCleared, ev.Kind)
	assert.Empty(t, ev.List)
}
