package history

import (
	"sync"

	"github.com/berrythewa/mintclip/internal/types"
)

// EventKind identifies what changed
type EventKind int

const (
	// EventUpdated carries the new list
	EventUpdated EventKind = iota
	// EventCleared signals that every entry was removed
	EventCleared
	// EventRefresh asks subscribers to re-read the store
	EventRefresh
)

func (k EventKind) String() string {
	switch k {
	case EventUpdated:
		return "updated"
	case EventCleared:
		return "cleared"
	case EventRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Event is one change notification
type Event struct {
	Kind EventKind
	List types.HistoryList
}

// Broadcaster fans events out to subscribers. Each subscriber channel holds
// at most one pending event; a newer event replaces an unread one, so Publish
// never blocks.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewBroadcaster creates a broadcaster with no subscribers
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a subscriber. The returned function unsubscribes and
// closes the channel.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 1)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers ev to every subscriber
func (b *Broadcaster) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		// drop a stale unread event; only Publish sends, under b.mu
		select {
		case <-ch:
		default:
		}
		ch <- ev
	}
}
