package models

import "time"

// SessionStatus is the lifecycle state of an authoring session. Transitions
// are deliberately unrestricted; only enum membership is validated.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionPaused    SessionStatus = "paused"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// ValidSessionStatus reports whether s is a known session status.
func ValidSessionStatus(s SessionStatus) bool {
	switch s {
	case SessionActive, SessionPaused, SessionCompleted, SessionAbandoned:
		return true
	}
	return false
}

// VibecodeSession is one voice-driven authoring session.
type VibecodeSession struct {
	SessionID       string        `json:"session_id"`
	UserID          string        `json:"user_id"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         *time.Time    `json:"end_time,omitempty"`
	Status          SessionStatus `json:"session_status"`
	Mood            CreativeMood  `json:"mood,omitempty"`
	Intent          Intent        `json:"intent,omitempty"`
	TotalInputWords int           `json:"total_input_words"`
}

// Duration returns the session length. Never negative; an open session is
// measured against now.
func (s *VibecodeSession) Duration(now time.Time) time.Duration {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	d := end.Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// SessionSummary is the per-session analytics row returned by the memory
// store for recent-session queries.
type SessionSummary struct {
	SessionID      string        `json:"session_id"`
	StartTime      time.Time     `json:"start_time"`
	Status         SessionStatus `json:"session_status"`
	Mood           CreativeMood  `json:"mood,omitempty"`
	TotalWords     int           `json:"total_words"`
	WordsPerMinute float64       `json:"words_per_minute"`
}
