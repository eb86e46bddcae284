package logic

import (
	"time"

	"github.com/sweeney/doorway-counter/internal/config"
)

// Configuration session gesture timings.
const (
	// SessionEnterHold is how long both controls must be held together to
	// enter a session.
	SessionEnterHold = 3000 * time.Millisecond

	// SessionExitMin / SessionExitMax bound the dual-press exit gesture.
	// A dual press shorter or longer than the window is ignored.
	SessionExitMin = 500 * time.Millisecond
	SessionExitMax = 2000 * time.Millisecond

	// SessionTimeout ends a session this long after entry if no exit
	// gesture arrives.
	SessionTimeout = 30000 * time.Millisecond
)

// Session is the configuration-editing mode. While active it consumes the
// manual controls exclusively; normal occupancy processing is suspended.
type Session struct {
	active    bool
	enteredAt time.Time
	editing   Param

	// dual-hold gesture tracking
	dualActive bool
	dualSince  time.Time

	// armed becomes true once both controls have been released after
	// entry, so the tail of the 3s entry hold cannot be read as an exit
	// gesture.
	armed bool
}

// NewSession creates an inactive Session.
func NewSession() *Session {
	return &Session{}
}

// Active reports whether a session is in progress.
func (s *Session) Active() bool {
	return s.active
}

// Editing returns the parameter currently being edited.
func (s *Session) Editing() Param {
	return s.editing
}

// CheckEntry tracks the dual-hold entry gesture from normal operation.
// Returns true on the tick the session is entered.
func (s *Session) CheckEntry(incQ, resetQ bool, now time.Time) bool {
	if !incQ || !resetQ {
		s.dualActive = false
		return false
	}

	if !s.dualActive {
		s.dualActive = true
		s.dualSince = now
		return false
	}

	if now.Sub(s.dualSince) >= SessionEnterHold {
		s.active = true
		s.enteredAt = now
		s.editing = ParamTimeout
		s.dualActive = false
		s.armed = false
		return true
	}
	return false
}

// Process runs one tick of an active session. Edits mutate cfg directly; the
// caller persists on every CONFIG_ADJUSTED and CONFIG_EXITED event.
func (s *Session) Process(incEdge, resetEdge, incQ, resetQ bool, now time.Time, cfg *config.Config) []Event {
	if now.Sub(s.enteredAt) >= SessionTimeout {
		s.end()
		return []Event{{Timestamp: now, Type: EventConfigExited}}
	}

	if !s.armed {
		if !incQ && !resetQ {
			s.armed = true
		}
		return nil
	}

	// Dual hold in progress: suppress single-press actions and time the
	// gesture from when both became active to when either is released.
	if incQ && resetQ {
		if !s.dualActive {
			s.dualActive = true
			s.dualSince = now
		}
		return nil
	}
	if s.dualActive {
		held := now.Sub(s.dualSince)
		s.dualActive = false
		if held >= SessionExitMin && held <= SessionExitMax {
			s.end()
			return []Event{{Timestamp: now, Type: EventConfigExited}}
		}
		return nil
	}

	if resetEdge && !incQ {
		s.editing = nextParam(s.editing)
		return nil
	}

	if incEdge && !resetQ {
		value := adjustParam(cfg, s.editing)
		return []Event{{Timestamp: now, Type: EventConfigAdjusted, Param: s.editing, Value: value}}
	}

	return nil
}

func (s *Session) end() {
	s.active = false
	s.dualActive = false
}

func nextParam(p Param) Param {
	switch p {
	case ParamTimeout:
		return ParamDebounce
	case ParamDebounce:
		return ParamMaxPersons
	default:
		return ParamTimeout
	}
}

// adjustParam advances the edited parameter by its step, wrapping past the
// maximum back to the minimum, and returns the new value.
func adjustParam(cfg *config.Config, p Param) int64 {
	switch p {
	case ParamTimeout:
		cfg.Timeout += config.TimeoutStep
		if cfg.Timeout > config.MaxTimeout {
			cfg.Timeout = config.MinTimeout
		}
		return cfg.Timeout.Milliseconds()
	case ParamDebounce:
		cfg.DebounceDelay += config.DebounceStep
		if cfg.DebounceDelay > config.MaxDebounce {
			cfg.DebounceDelay = config.MinDebounce
		}
		return cfg.DebounceDelay.Milliseconds()
	case ParamMaxPersons:
		cfg.MaxPersons += config.MaxPersonsStep
		if cfg.MaxPersons > config.MaxMaxPersons {
			cfg.MaxPersons = config.MinMaxPersons
		}
		return int64(cfg.MaxPersons)
	}
	return 0
}
