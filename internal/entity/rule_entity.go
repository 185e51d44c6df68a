package entity

import (
	"time"

	"github.com/google/uuid"
)

// Productivity categories known to the built-in catalog. Custom rules may
// introduce their own category names.
const (
	CategoryDevelopment   = "development"
	CategoryProductivity  = "productivity"
	CategoryCommunication = "communication"
	CategoryBrowsing      = "browsing"
	CategoryEntertainment = "entertainment"
	CategorySystem        = "system"
	CategoryOther         = "other"
)

// TimeRule scales a rule's productivity score inside a time-of-day window.
// Hours are in local time, [StartHour, EndHour). Weekdays uses time.Weekday
// values; empty means every day.
type TimeRule struct {
	StartHour  int            `json:"start_hour"`
	EndHour    int            `json:"end_hour"`
	Weekdays   []time.Weekday `json:"weekdays,omitempty"`
	Multiplier float64        `json:"multiplier"`
}

// Applies reports whether the window covers the given instant.
func (t TimeRule) Applies(at time.Time) bool {
	h := at.Hour()
	if h < t.StartHour || h >= t.EndHour {
		return false
	}
	if len(t.Weekdays) == 0 {
		return true
	}
	wd := at.Weekday()
	for _, d := range t.Weekdays {
		if d == wd {
			return true
		}
	}
	return false
}

// CategoryRule maps window observations to a category. Lower priority is
// evaluated first; ties keep catalog insertion order.
type CategoryRule struct {
	Id                uuid.UUID      `json:"id"`
	Description       string         `json:"description"`
	Priority          int            `json:"priority"`
	Category          string         `json:"category"`
	ProductivityScore float64        `json:"productivity_score"`
	Enabled           bool           `json:"enabled"`
	AppPatterns       []string       `json:"app_patterns,omitempty"`
	TitlePatterns     []string       `json:"title_patterns,omitempty"`
	RegexPatterns     []string       `json:"regex_patterns,omitempty"`
	DomainPatterns    []string       `json:"domain_patterns,omitempty"`
	TimeRules         []TimeRule     `json:"time_rules,omitempty"`
	Tags              []string       `json:"tags,omitempty"`
	BuiltIn           bool           `json:"built_in"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         *time.Time     `json:"updated_at,omitempty"`
}

// UserPreference pins an exact (app, title) key to a category. Written only
// through confirmed positive feedback and it outranks every other strategy.
type UserPreference struct {
	AppName     string    `json:"app_name"`
	WindowTitle string    `json:"window_title"`
	Category    string    `json:"category"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FeedbackRecord is one user confirmation or correction of a classification.
type FeedbackRecord struct {
	AppName     string    `json:"app_name"`
	WindowTitle string    `json:"window_title"`
	Category    string    `json:"category"`
	IsCorrect   bool      `json:"is_correct"`
	CreatedAt   time.Time `json:"created_at"`
}
