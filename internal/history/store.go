// Package history keeps the bounded, persistent clipboard history.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/berrythewa/mintclip/internal/storage"
	"github.com/berrythewa/mintclip/internal/types"

	"go.uber.org/zap"
)

const (
	// StorageKey is the only key the store reads and writes
	StorageKey = "clipboardHistory"

	// DefaultMaxUnpinned caps the number of unpinned entries
	DefaultMaxUnpinned = 50

	// TimestampLayout formats Entry.CreatedAt
	TimestampLayout = "1/2/2006, 3:04:05 PM"
)

// ErrPersist wraps every failure to write the history
var ErrPersist = errors.New("failed to persist clipboard history")

// Options configures a Store
type Options struct {
	MaxUnpinned int
	Logger      *zap.Logger
	Broadcaster *Broadcaster
	// Now defaults to time.Now
	Now func() time.Time
}

// Store is the single owner of the clipboard history list
type Store struct {
	mu          sync.Mutex
	kv          storage.KV
	list        types.HistoryList
	lastID      int64
	maxUnpinned int
	logger      *zap.Logger
	events      *Broadcaster
	now         func() time.Time
}

// NewStore creates an empty store writing through kv. Call Load to read the
// persisted list.
func NewStore(kv storage.KV, opts Options) *Store {
	if opts.MaxUnpinned <= 0 {
		opts.MaxUnpinned = DefaultMaxUnpinned
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Broadcaster == nil {
		opts.Broadcaster = NewBroadcaster()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		kv:          kv,
		list:        types.HistoryList{},
		maxUnpinned: opts.MaxUnpinned,
		logger:      opts.Logger,
		events:      opts.Broadcaster,
		now:         opts.Now,
	}
}

// Events returns the broadcaster the store publishes to
func (s *Store) Events() *Broadcaster {
	return s.events
}

// Load replaces the in-memory list with the persisted one. A missing key
// yields an empty list. Malformed data is discarded with a warning and is
// overwritten by the next mutation. Read failures wrap ErrPersist.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.kv.Load(StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.list = types.HistoryList{}
		return nil
	}
	if errors.Is(err, storage.ErrCorrupt) {
		s.logger.Warn("Persisted history corrupt, starting empty", zap.Error(err))
		s.list = types.HistoryList{}
		return nil
	}
	if err != nil {
		// keep the stored list untouched; starting empty would overwrite it
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	var list types.HistoryList
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn("Persisted history malformed, starting empty", zap.Error(err))
		s.list = types.HistoryList{}
		return nil
	}

	clean := make(types.HistoryList, 0, len(list))
	for _, e := range list {
		if !e.Kind.Valid() {
			s.logger.Warn("Dropping entry with unknown kind",
				zap.Int64("id", e.ID), zap.String("kind", string(e.Kind)))
			continue
		}
		clean = append(clean, e)
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}
	s.list = clean

	s.logger.Debug("History loaded", zap.Int("entries", len(clean)))
	return nil
}

// Add records content at the front of the history. An existing entry with the
// same content is replaced, losing its id, timestamp and pin flag.
func (s *Store) Add(content string, kind types.ContentKind) (types.HistoryList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}

	entry := types.Entry{
		ID:        id,
		Content:   content,
		Kind:      kind,
		CreatedAt: now.Format(TimestampLayout),
	}

	next := make(types.HistoryList, 0, len(s.list)+1)
	next = append(next, entry)
	for _, e := range s.list {
		if e.Content != content {
			next = append(next, e)
		}
	}
	next = s.trim(next)

	if err := s.commit(next); err != nil {
		return s.list.Clone(), err
	}
	s.lastID = id

	s.logger.Debug("Added clipboard entry",
		zap.Int64("id", id),
		zap.String("kind", string(kind)),
		zap.Int("size", len(content)))

	out := s.list.Clone()
	s.events.Publish(Event{Kind: EventUpdated, List: out.Clone()})
	return out, nil
}

// Remove deletes the entry with id. Unknown ids leave the list untouched.
func (s *Store) Remove(id int64) (types.HistoryList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(types.HistoryList, 0, len(s.list))
	for _, e := range s.list {
		if e.ID != id {
			next = append(next, e)
		}
	}
	if len(next) == len(s.list) {
		return s.list.Clone(), nil
	}

	if err := s.commit(next); err != nil {
		return s.list.Clone(), err
	}

	out := s.list.Clone()
	s.events.Publish(Event{Kind: EventUpdated, List: out.Clone()})
	return out, nil
}

// TogglePin flips the pin flag of the entry with id in place
func (s *Store) TogglePin(id int64) (types.HistoryList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.list.Clone()
	found := false
	for i := range next {
		if next[i].ID == id {
			next[i].Pinned = !next[i].Pinned
			found = true
			break
		}
	}
	if !found {
		return s.list.Clone(), nil
	}

	if err := s.commit(next); err != nil {
		return s.list.Clone(), err
	}

	out := s.list.Clone()
	s.events.Publish(Event{Kind: EventUpdated, List: out.Clone()})
	return out, nil
}

// Clear removes every entry, pinned ones included
func (s *Store) Clear() (types.HistoryList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(types.HistoryList{}); err != nil {
		return s.list.Clone(), err
	}

	s.logger.Info("Clipboard history cleared")
	s.events.Publish(Event{Kind: EventCleared})
	return types.HistoryList{}, nil
}

// GetAll returns a copy of the current list
func (s *Store) GetAll() types.HistoryList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Clone()
}

// trim regroups pinned entries ahead of unpinned ones and drops the oldest
// unpinned entries beyond the cap.
func (s *Store) trim(list types.HistoryList) types.HistoryList {
	pinned, unpinned := list.Partition()
	if len(unpinned) > s.maxUnpinned {
		s.logger.Debug("Trimming history",
			zap.Int("dropped", len(unpinned)-s.maxUnpinned))
		unpinned = unpinned[:s.maxUnpinned]
	}
	out := make(types.HistoryList, 0, len(pinned)+len(unpinned))
	out = append(out, pinned...)
	return append(out, unpinned...)
}

// commit persists next and only then makes it the current list.
// Callers hold s.mu.
func (s *Store) commit(next types.HistoryList) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("%w: failed to encode history: %v", ErrPersist, err)
	}
	if err := s.kv.Save(StorageKey, data); err != nil {
		s.logger.Error("Failed to persist history", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.list = next
	return nil
}
