package format

import (
	"github.com/berrythewa/mintclip/internal/types"

	"github.com/fatih/color"
)

// Options controls formatting behavior
type Options struct {
	UseColors    bool
	UseIcons     bool
	MaxWidth     int  // Max content width (0 = no limit)
	MaxLines     int  // Max content lines (0 = no limit)
	ShowMetadata bool // Show id and timestamp
	Compact      bool // Use compact single-line format
}

// DefaultOptions returns sensible defaults. Colors follow fatih/color's
// terminal detection.
func DefaultOptions() Options {
	return Options{
		UseColors:    !color.NoColor,
		UseIcons:     true,
		MaxWidth:     80,
		MaxLines:     10,
		ShowMetadata: true,
		Compact:      false,
	}
}

// CompactOptions returns options for compact single-line display
func CompactOptions() Options {
	opts := DefaultOptions()
	opts.Compact = true
	opts.ShowMetadata = false
	opts.MaxLines = 1
	return opts
}

// ContentIcons maps content kinds to Unicode icons
var ContentIcons = map[types.ContentKind]string{
	types.KindText:  "📝",
	types.KindImage: "🖼️",
}

// PinIcon marks pinned entries
const PinIcon = "📌"

// ContentColors maps content kinds to colors
var ContentColors = map[types.ContentKind]color.Attribute{
	types.KindText:  color.FgCyan,
	types.KindImage: color.FgMagenta,
}
