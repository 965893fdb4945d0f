package types

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ContentKind represents the kind of clipboard content held by an entry
type ContentKind string

const (
	KindText  ContentKind = "text"
	KindImage ContentKind = "image"
)

// Valid reports whether k is one of the known kinds
func (k ContentKind) Valid() bool {
	return k == KindText || k == KindImage
}

// Entry is one remembered clipboard snapshot
type Entry struct {
	ID        int64       `json:"id"`
	Content   string      `json:"content"`
	Kind      ContentKind `json:"kind"`
	CreatedAt string      `json:"created_at"`
	Pinned    bool        `json:"pinned"`
}

// HistoryList is the ordered clipboard history. Among unpinned entries the
// most recent comes first.
type HistoryList []Entry

// Clone returns a copy that shares no backing array with l
func (l HistoryList) Clone() HistoryList {
	out := make(HistoryList, len(l))
	copy(out, l)
	return out
}

// Find returns the entry with the given id
func (l HistoryList) Find(id int64) (Entry, bool) {
	for _, e := range l {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Partition splits the list into pinned and unpinned groups, keeping list
// order inside each group.
func (l HistoryList) Partition() (pinned, unpinned HistoryList) {
	for _, e := range l {
		if e.Pinned {
			pinned = append(pinned, e)
		} else {
			unpinned = append(unpinned, e)
		}
	}
	return pinned, unpinned
}

// ErrNotImage is returned by DecodeImage when content is not an image data URL
var ErrNotImage = errors.New("content is not an image data URL")

const dataURLPrefix = "data:"

// EncodeImage builds the inline data URL used to store image entries
func EncodeImage(mime string, data []byte) string {
	if mime == "" {
		mime = "image/png"
	}
	return dataURLPrefix + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeImage parses a data URL produced by EncodeImage
func DecodeImage(content string) (string, []byte, error) {
	if !strings.HasPrefix(content, dataURLPrefix) {
		return "", nil, ErrNotImage
	}
	header, payload, ok := strings.Cut(content[len(dataURLPrefix):], ",")
	if !ok {
		return "", nil, ErrNotImage
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok || !strings.HasPrefix(mime, "image/") {
		return "", nil, ErrNotImage
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return mime, data, nil
}
