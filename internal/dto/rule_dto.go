package dto

import (
	"time"

	"github.com/google/uuid"
)

type TimeRulePayload struct {
	StartHour  int            `json:"start_hour" validate:"gte=0,lte=23"`
	EndHour    int            `json:"end_hour" validate:"gte=1,lte=24"`
	Weekdays   []time.Weekday `json:"weekdays"`
	Multiplier float64        `json:"multiplier" validate:"gt=0"`
}

type CreateRuleRequest struct {
	Description       string            `json:"description" validate:"required"`
	Priority          int               `json:"priority"`
	Category          string            `json:"category" validate:"required"`
	ProductivityScore float64           `json:"productivity_score" validate:"gte=0,lte=1"`
	Enabled           *bool             `json:"enabled"`
	AppPatterns       []string          `json:"app_patterns"`
	TitlePatterns     []string          `json:"title_patterns"`
	RegexPatterns     []string          `json:"regex_patterns"`
	DomainPatterns    []string          `json:"domain_patterns"`
	TimeRules         []TimeRulePayload `json:"time_rules"`
	Tags              []string          `json:"tags"`
}

type UpdateRuleRequest struct {
	Id                uuid.UUID         `json:"-"`
	Description       string            `json:"description" validate:"required"`
	Priority          int               `json:"priority"`
	Category          string            `json:"category" validate:"required"`
	ProductivityScore float64           `json:"productivity_score" validate:"gte=0,lte=1"`
	Enabled           *bool             `json:"enabled"`
	AppPatterns       []string          `json:"app_patterns"`
	TitlePatterns     []string          `json:"title_patterns"`
	RegexPatterns     []string          `json:"regex_patterns"`
	DomainPatterns    []string          `json:"domain_patterns"`
	TimeRules         []TimeRulePayload `json:"time_rules"`
	Tags              []string          `json:"tags"`
}

type ToggleRuleRequest struct {
	Enabled bool `json:"enabled"`
}
