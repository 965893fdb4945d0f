package panel

import (
	"github.com/berrythewa/mintclip/internal/types"

	"go.uber.org/zap"
)

// DefaultPreviewLength is the number of runes shown for a text entry
const DefaultPreviewLength = 150

// Item is one rendered history row
type Item struct {
	ID        int64
	Kind      types.ContentKind
	Preview   string
	Image     []byte
	CreatedAt string
	Pinned    bool
}

// View is a complete description of the panel contents
type View struct {
	Empty  bool
	Pinned []Item
	Recent []Item
}

// Feedback is a transient status banner
type Feedback struct {
	Message string
	Detail  string
	Error   bool
}

var (
	textPasted  = Feedback{Message: "Text pasted!", Detail: "Text automatically pasted to input field"}
	imagePasted = Feedback{Message: "Image pasted!", Detail: "Image automatically pasted to focused area"}
	copyFailed  = Feedback{Message: "Failed to copy!", Error: true}
)

// BuildView groups list into pinned and recent rows
func BuildView(list types.HistoryList, previewLength int, logger *zap.Logger) View {
	pinned, unpinned := list.Partition()
	return View{
		Empty:  len(list) == 0,
		Pinned: buildItems(pinned, previewLength, logger),
		Recent: buildItems(unpinned, previewLength, logger),
	}
}

func buildItems(list types.HistoryList, previewLength int, logger *zap.Logger) []Item {
	items := make([]Item, 0, len(list))
	for _, e := range list {
		item := Item{
			ID:        e.ID,
			Kind:      e.Kind,
			CreatedAt: e.CreatedAt,
			Pinned:    e.Pinned,
		}
		switch e.Kind {
		case types.KindImage:
			_, data, err := types.DecodeImage(e.Content)
			if err != nil {
				logger.Warn("Unreadable image entry", zap.Int64("id", e.ID), zap.Error(err))
				item.Preview = "[image]"
				break
			}
			item.Image = data
		default:
			item.Preview = Truncate(e.Content, previewLength)
		}
		items = append(items, item)
	}
	return items
}

// Truncate cuts s to max runes and marks the cut with "..."
func Truncate(s string, max int) string {
	if max <= 0 {
		max = DefaultPreviewLength
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
