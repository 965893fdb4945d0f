package format

import (
	"fmt"
	"strings"

	"github.com/berrythewa/mintclip/internal/types"

	"github.com/fatih/color"
)

// Formatter renders history entries for the terminal
type Formatter struct {
	options Options
}

// New creates a new formatter with the given options
func New(opts Options) *Formatter {
	return &Formatter{options: opts}
}

// FormatEntry formats a single history entry
func (f *Formatter) FormatEntry(e types.Entry) string {
	header := f.formatHeader(e)

	if f.options.Compact {
		width := f.options.MaxWidth
		if width <= 0 {
			width = 60
		}
		return header + "  " + DimIf(f.preview(e, width), f.options.UseColors)
	}

	parts := []string{header}
	if f.options.ShowMetadata {
		meta := fmt.Sprintf("id %d • %s • %s", e.ID, e.CreatedAt, FormatSize(int64(len(e.Content))))
		parts = append(parts, IndentText(DimIf(meta, f.options.UseColors), "    "))
	}
	parts = append(parts, IndentText(f.body(e), "    "))
	return strings.Join(parts, "\n")
}

// FormatList formats entries in list order, numbering from 1
func (f *Formatter) FormatList(list types.HistoryList) string {
	if len(list) == 0 {
		return DimIf("No clipboard history yet", f.options.UseColors)
	}

	pinned, _ := list.Partition()
	title := fmt.Sprintf("📋 Clipboard History (%d entries, %d pinned)", len(list), len(pinned))
	parts := []string{paint(title, f.options.UseColors, color.FgHiBlue, color.Bold), ""}

	for i, e := range list {
		index := DimIf(fmt.Sprintf("[%d]", i+1), f.options.UseColors)
		parts = append(parts, index+" "+f.FormatEntry(e))
	}
	return strings.Join(parts, "\n")
}

// formatHeader creates the header with icon and kind
func (f *Formatter) formatHeader(e types.Entry) string {
	var parts []string

	if f.options.UseIcons {
		if e.Pinned {
			parts = append(parts, PinIcon)
		}
		if icon, ok := ContentIcons[e.Kind]; ok {
			parts = append(parts, icon)
		}
	}

	kind := string(e.Kind)
	if attr, ok := ContentColors[e.Kind]; ok {
		kind = paint(kind, f.options.UseColors, attr)
	}
	parts = append(parts, kind)

	if e.Pinned && !f.options.UseIcons {
		parts = append(parts, BoldIf("(pinned)", f.options.UseColors))
	}
	if f.options.Compact {
		parts = append(parts, DimIf(fmt.Sprintf("#%d", e.ID), f.options.UseColors))
	}
	return strings.Join(parts, " ")
}

func (f *Formatter) body(e types.Entry) string {
	if e.Kind == types.KindImage {
		return f.imageSummary(e)
	}
	text := TruncateLines(e.Content, f.options.MaxLines)
	if f.options.MaxWidth > 0 {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = TruncateText(line, f.options.MaxWidth)
		}
		text = strings.Join(lines, "\n")
	}
	return text
}

func (f *Formatter) preview(e types.Entry, width int) string {
	if e.Kind == types.KindImage {
		return f.imageSummary(e)
	}
	return TruncateText(SingleLine(e.Content), width)
}

func (f *Formatter) imageSummary(e types.Entry) string {
	mime, data, err := types.DecodeImage(e.Content)
	if err != nil {
		return ErrorIf("[unreadable image]", f.options.UseColors)
	}
	return fmt.Sprintf("[Image %s %s]", mime, FormatSize(int64(len(data))))
}

// FormatStatus renders key/value status lines
func FormatStatus(title string, rows [][2]string, opts Options) string {
	parts := []string{paint(title, opts.UseColors, color.FgHiBlue, color.Bold)}
	for _, row := range rows {
		label := paint(row[0]+":", opts.UseColors, color.FgHiCyan)
		parts = append(parts, fmt.Sprintf("  %s %s", label, row[1]))
	}
	return strings.Join(parts, "\n")
}

// FormatEntry formats a single entry with given options
func FormatEntry(e types.Entry, opts Options) string {
	return New(opts).FormatEntry(e)
}

// FormatList formats a history list with given options
func FormatList(list types.HistoryList, opts Options) string {
	return New(opts).FormatList(list)
}
