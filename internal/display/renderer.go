package display

import (
	"fmt"
	"time"

	"github.com/sweeney/doorway-counter/internal/logic"
)

// Notice display durations. Notices expire on a later Render call; nothing
// sleeps while one is shown.
const (
	NoticeShort = 500 * time.Millisecond
	NoticeError = 2000 * time.Millisecond
)

// View is the state the Renderer draws from, passed by value each tick.
type View struct {
	Count         int
	Light         bool
	Override      bool
	SessionActive bool
	Param         logic.Param
	ParamValue    int64
}

// Renderer owns the two display rows and the transient notice timer. It
// rewrites the sink only when the rendered content changes.
type Renderer struct {
	sink        Sink
	notice      string
	noticeUntil time.Time
	line0       string
	line1       string
	drawn       bool
}

// NewRenderer creates a Renderer over the given sink.
func NewRenderer(sink Sink) *Renderer {
	return &Renderer{sink: sink}
}

// Notify posts a transient notice shown on the second row until it expires.
// A new notice replaces the current one.
func (r *Renderer) Notify(text string, now time.Time, d time.Duration) {
	r.notice = text
	r.noticeUntil = now.Add(d)
}

// Render draws the current view. The emergency banner preempts the config
// screen; an unexpired notice preempts the second row.
func (r *Renderer) Render(v View, now time.Time) {
	var line0, line1 string

	switch {
	case v.Override:
		line0 = "EMERGENCY"
		line1 = "Light: ON"
	case v.SessionActive:
		line0 = "CONFIG MODE"
		line1 = fmt.Sprintf("%s: %d", paramLabel(v.Param), v.ParamValue)
	default:
		line0 = fmt.Sprintf("Persons: %d", v.Count)
		line1 = "Light: OFF"
		if v.Light {
			line1 = "Light: ON"
		}
	}

	if r.notice != "" {
		if now.Before(r.noticeUntil) {
			line1 = r.notice
		} else {
			r.notice = ""
		}
	}

	if r.drawn && line0 == r.line0 && line1 == r.line1 {
		return
	}

	r.sink.Clear()
	r.sink.SetCursor(0, 0)
	r.sink.Print(line0)
	r.sink.SetCursor(0, 1)
	r.sink.Print(line1)
	r.line0, r.line1 = line0, line1
	r.drawn = true
}

func paramLabel(p logic.Param) string {
	switch p {
	case logic.ParamTimeout:
		return "Timeout"
	case logic.ParamDebounce:
		return "Debounce"
	case logic.ParamMaxPersons:
		return "MaxPersons"
	}
	return string(p)
}
