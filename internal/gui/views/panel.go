package views

import (
	"bytes"
	"fmt"

	"github.com/berrythewa/mintclip/internal/panel"
	"github.com/berrythewa/mintclip/internal/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// EmptyMessage is shown when the history has no entries
const EmptyMessage = "No clipboard history yet"

// Callbacks are invoked from the fyne event loop
type Callbacks struct {
	Copy      func(id int64)
	TogglePin func(id int64)
	Delete    func(id int64)
	ClearAll  func()
	Close     func()
}

// PanelView draws the history panel
type PanelView struct {
	callbacks Callbacks

	content       *fyne.Container
	emptyLabel    *widget.Label
	pinnedHeader  *widget.Label
	pinnedItems   *fyne.Container
	recentHeader  *widget.Label
	recentItems   *fyne.Container
	feedback      *widget.Label
	feedbackPanel *fyne.Container
}

// NewPanelView creates the panel content
func NewPanelView(callbacks Callbacks) *PanelView {
	v := &PanelView{callbacks: callbacks}
	v.createUI()
	return v
}

// createUI creates the panel layout
func (v *PanelView) createUI() {
	title := widget.NewLabelWithStyle("Clipboard", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	clearAll := widget.NewButton("Clear All", func() { call(v.callbacks.ClearAll) })
	clearAll.Importance = widget.LowImportance
	closeBtn := widget.NewButtonWithIcon("", theme.CancelIcon(), func() { call(v.callbacks.Close) })
	closeBtn.Importance = widget.LowImportance
	header := container.NewBorder(nil, nil, title, container.NewHBox(clearAll, closeBtn))

	v.emptyLabel = widget.NewLabelWithStyle(EmptyMessage, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	v.pinnedHeader = widget.NewLabelWithStyle("Pinned", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	v.pinnedItems = container.NewVBox()
	v.recentHeader = widget.NewLabelWithStyle("Recent", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	v.recentItems = container.NewVBox()

	sections := container.NewVBox(
		v.emptyLabel,
		v.pinnedHeader,
		v.pinnedItems,
		v.recentHeader,
		v.recentItems,
	)

	v.feedback = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	v.feedback.Wrapping = fyne.TextWrapWord
	v.feedbackPanel = container.NewStack(canvas.NewRectangle(theme.SuccessColor()), v.feedback)
	v.feedbackPanel.Hide()

	v.content = container.NewBorder(
		container.NewVBox(header, widget.NewSeparator()), // top
		v.feedbackPanel, // bottom
		nil,             // left
		nil,             // right
		container.NewVScroll(sections),
	)

	v.Update(panel.View{Empty: true})
}

// Content returns the root canvas object
func (v *PanelView) Content() fyne.CanvasObject {
	return v.content
}

// Update replaces the rendered entries with view. Must run on the fyne
// event loop.
func (v *PanelView) Update(view panel.View) {
	setVisible(v.emptyLabel, view.Empty)
	setVisible(v.pinnedHeader, len(view.Pinned) > 0)
	setVisible(v.recentHeader, len(view.Recent) > 0)

	v.pinnedItems.Objects = v.rows(view.Pinned)
	v.pinnedItems.Refresh()
	v.recentItems.Objects = v.rows(view.Recent)
	v.recentItems.Refresh()
}

// ShowFeedback displays a banner at the bottom of the panel
func (v *PanelView) ShowFeedback(fb panel.Feedback) {
	bg := v.feedbackPanel.Objects[0].(*canvas.Rectangle)
	if fb.Error {
		bg.FillColor = theme.ErrorColor()
		v.feedback.SetText(fb.Message)
	} else {
		bg.FillColor = theme.SuccessColor()
		text := "✓ " + fb.Message
		if fb.Detail != "" {
			text += "\n" + fb.Detail
		}
		v.feedback.SetText(text)
	}
	bg.Refresh()
	v.feedbackPanel.Show()
}

// HideFeedback removes the banner
func (v *PanelView) HideFeedback() {
	v.feedbackPanel.Hide()
}

// FeedbackText returns the banner text, or "" when hidden
func (v *PanelView) FeedbackText() string {
	if !v.feedbackPanel.Visible() {
		return ""
	}
	return v.feedback.Text
}

func (v *PanelView) rows(items []panel.Item) []fyne.CanvasObject {
	rows := make([]fyne.CanvasObject, 0, len(items))
	for _, item := range items {
		rows = append(rows, v.row(item))
	}
	return rows
}

func (v *PanelView) row(item panel.Item) fyne.CanvasObject {
	id := item.ID

	var body fyne.CanvasObject
	if item.Kind == types.KindImage && len(item.Image) > 0 {
		img := canvas.NewImageFromReader(bytes.NewReader(item.Image), fmt.Sprintf("entry-%d.png", id))
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(120, 80))
		body = img
	} else {
		label := widget.NewLabel(item.Preview)
		label.Wrapping = fyne.TextWrapWord
		body = label
	}

	stamp := widget.NewLabelWithStyle(item.CreatedAt, fyne.TextAlignLeading, fyne.TextStyle{Italic: true})

	pinLabel := "Pin"
	if item.Pinned {
		pinLabel = "Unpin"
	}
	pin := widget.NewButton(pinLabel, func() {
		if v.callbacks.TogglePin != nil {
			v.callbacks.TogglePin(id)
		}
	})
	pin.Importance = widget.LowImportance
	if item.Pinned {
		pin.Importance = widget.HighImportance
	}
	del := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		if v.callbacks.Delete != nil {
			v.callbacks.Delete(id)
		}
	})
	del.Importance = widget.LowImportance

	entry := newTapArea(container.NewVBox(body, stamp), func() {
		if v.callbacks.Copy != nil {
			v.callbacks.Copy(id)
		}
	})

	return container.NewVBox(
		container.NewBorder(nil, nil, nil, container.NewVBox(pin, del), entry),
		widget.NewSeparator(),
	)
}

// tapArea makes any canvas object clickable
type tapArea struct {
	widget.BaseWidget
	content fyne.CanvasObject
	onTap   func()
}

func newTapArea(content fyne.CanvasObject, onTap func()) *tapArea {
	t := &tapArea{content: content, onTap: onTap}
	t.ExtendBaseWidget(t)
	return t
}

func (t *tapArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.content)
}

func (t *tapArea) Tapped(*fyne.PointEvent) {
	if t.onTap != nil {
		t.onTap()
	}
}

func setVisible(o fyne.CanvasObject, visible bool) {
	if visible {
		o.Show()
	} else {
		o.Hide()
	}
}

func call(f func()) {
	if f != nil {
		f()
	}
}
