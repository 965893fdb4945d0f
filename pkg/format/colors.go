package format

import "github.com/fatih/color"

// paint applies attrs only if useColors is true. The color is forced on so
// the caller's choice wins over terminal detection.
func paint(text string, useColors bool, attrs ...color.Attribute) string {
	if !useColors || text == "" {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

// BoldIf applies bold only if useColors is true
func BoldIf(text string, useColors bool) string {
	return paint(text, useColors, color.Bold)
}

// DimIf applies faint only if useColors is true
func DimIf(text string, useColors bool) string {
	return paint(text, useColors, color.Faint)
}

// ErrorIf colors text red if useColors is true
func ErrorIf(text string, useColors bool) string {
	return paint(text, useColors, color.FgRed)
}
