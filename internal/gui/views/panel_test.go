package views

import (
	"testing"

	"github.com/berrythewa/mintclip/internal/panel"
	"github.com/berrythewa/mintclip/internal/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateShowsSections(t *testing.T) {
	test.NewTempApp(t)

	var copied, pinned, deleted []int64
	v := NewPanelView(Callbacks{
		Copy:      func(id int64) { copied = append(copied, id) },
		TogglePin: func(id int64) { pinned = append(pinned, id) },
		Delete:    func(id int64) { deleted = append(deleted, id) },
	})

	assert.True(t, v.emptyLabel.Visible())
	assert.False(t, v.pinnedHeader.Visible())
	assert.Equal(t, EmptyMessage, v.emptyLabel.Text)

	v.Update(panel.View{
		Pinned: []panel.Item{{ID: 1, Kind: types.KindText, Preview: "pinned", Pinned: true}},
		Recent: []panel.Item{
			{ID: 2, Kind: types.KindText, Preview: "recent"},
			{ID: 3, Kind: types.KindImage, Image: []byte{0x89, 'P', 'N', 'G'}},
		},
	})

	assert.False(t, v.emptyLabel.Visible())
	assert.True(t, v.pinnedHeader.Visible())
	assert.True(t, v.recentHeader.Visible())
	require.Len(t, v.pinnedItems.Objects, 1)
	require.Len(t, v.recentItems.Objects, 2)

	v.Update(panel.View{Empty: true})
	assert.True(t, v.emptyLabel.Visible())
	assert.False(t, v.recentHeader.Visible())
	assert.Empty(t, v.recentItems.Objects)
}

func TestRowCallbacks(t *testing.T) {
	test.NewTempApp(t)

	var copied []int64
	v := NewPanelView(Callbacks{Copy: func(id int64) { copied = append(copied, id) }})
	row := v.row(panel.Item{ID: 7, Kind: types.KindText, Preview: "hello"})
	tap := findTapArea(row)
	require.NotNil(t, tap)
	test.Tap(tap)

	assert.Equal(t, []int64{7}, copied)
}

func TestFeedbackBanner(t *testing.T) {
	test.NewTempApp(t)
	v := NewPanelView(Callbacks{})

	assert.Empty(t, v.FeedbackText())

	v.ShowFeedback(panel.Feedback{Message: "Text pasted!", Detail: "Text automatically pasted to input field"})
	assert.Equal(t, "✓ Text pasted!\nText automatically pasted to input field", v.FeedbackText())

	v.ShowFeedback(panel.Feedback{Message: "Failed to copy!", Error: true})
	assert.Equal(t, "Failed to copy!", v.FeedbackText())

	v.HideFeedback()
	assert.Empty(t, v.FeedbackText())
}

func findTapArea(o fyne.CanvasObject) *tapArea {
	switch obj := o.(type) {
	case *tapArea:
		return obj
	case *fyne.Container:
		for _, child := range obj.Objects {
			if found := findTapArea(child); found != nil {
				return found
			}
		}
	}
	return nil
}
