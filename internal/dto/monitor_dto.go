package dto

// CategorizeRequest asks the engine for a verdict without opening a session.
type CategorizeRequest struct {
	AppName     string `json:"app_name" validate:"required"`
	WindowTitle string `json:"window_title"`
}

type FeedbackRequest struct {
	AppName     string `json:"app_name" validate:"required"`
	WindowTitle string `json:"window_title"`
	Category    string `json:"category" validate:"required"`
	IsCorrect   bool   `json:"is_correct"`
}

// UpdateConfigRequest carries the runtime-tunable tracker options. Omitted
// fields keep their current value.
type UpdateConfigRequest struct {
	SampleIntervalMs    *int     `json:"sample_interval_ms" validate:"omitempty,gt=0"`
	IdleCheckIntervalMs *int     `json:"idle_check_interval_ms" validate:"omitempty,gt=0"`
	IdleThresholdMs     *int     `json:"idle_threshold_ms" validate:"omitempty,gt=0"`
	TrackWindowTitles   *bool    `json:"track_window_titles"`
	ExcludedApps        []string `json:"excluded_apps"`
	TitleMaxLength      *int     `json:"title_max_length" validate:"omitempty,gt=0"`
}

type ForceEndResponse struct {
	Ended bool `json:"ended"`
}
