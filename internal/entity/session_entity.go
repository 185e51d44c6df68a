package entity

import (
	"time"

	"github.com/google/uuid"
)

// ActivitySession is one contiguous interval of foreground-window activity.
// EndTime is nil while the session is still open.
type ActivitySession struct {
	Id                uuid.UUID  `json:"id"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           *time.Time `json:"end_time,omitempty"`
	DurationSeconds   int64      `json:"duration_seconds"`
	AppName           string     `json:"app_name"`
	AppPath           string     `json:"app_path,omitempty"`
	WindowTitle       string     `json:"window_title"`
	Category          string     `json:"category"`
	ProductivityScore float64    `json:"productivity_score"`
	IsIdle            bool       `json:"is_idle"`
	IsActive          bool       `json:"is_active"`
	Hostname          string     `json:"hostname"`
	OS                string     `json:"os"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// Ongoing reports whether the session has not been closed yet.
func (s *ActivitySession) Ongoing() bool {
	return s.EndTime == nil
}

// Elapsed returns the session duration. For a closed session this is the
// persisted duration; for an open one it is computed against now.
func (s *ActivitySession) Elapsed(now time.Time) time.Duration {
	if s.EndTime != nil {
		return time.Duration(s.DurationSeconds) * time.Second
	}
	return now.Sub(s.StartTime)
}

// Close stamps the end time and derives the duration in whole seconds.
func (s *ActivitySession) Close(end time.Time) {
	s.EndTime = &end
	secs := int64(end.Sub(s.StartTime).Seconds())
	if secs < 0 {
		secs = 0
	}
	s.DurationSeconds = secs
	s.IsActive = false
}

// WindowInfo is a single poll's observation of the foreground window.
// It is ephemeral and never persisted.
type WindowInfo struct {
	AppName   string
	AppPath   string
	Title     string
	ProcessId int
}

// Equal compares two observations by app name, title and process id, which
// is the change-detection key for the sample loop.
func (w *WindowInfo) Equal(other *WindowInfo) bool {
	if w == nil || other == nil {
		return w == other
	}
	return w.AppName == other.AppName &&
		w.Title == other.Title &&
		w.ProcessId == other.ProcessId
}
