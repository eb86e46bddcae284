// Package display drives the character display. The core only pushes short
// status strings at cursor positions and expects no feedback; the Renderer
// keeps transient notices on a timed auto-clear so the control loop never
// blocks on the display.
package display

// Sink is the character display as the core sees it.
type Sink interface {
	Clear()
	SetCursor(col, row int)
	Print(text string)
}

// Display geometry (16x2 character module).
const (
	Cols = 16
	Rows = 2
)
