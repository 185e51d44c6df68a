package monitor

import (
	"fmt"
	"time"
)

// Defaults for the tracker configuration surface.
const (
	DefaultSampleInterval    = 2 * time.Second
	DefaultIdleCheckInterval = 5 * time.Second
	DefaultIdleThreshold     = 5 * time.Minute
	DefaultTitleMaxLength    = 200
)

var ErrInvalidConfig = fmt.Errorf("invalid tracker config")

// Config is the runtime configuration of the session tracker.
type Config struct {
	SampleInterval    time.Duration `json:"sample_interval_ms"`
	IdleCheckInterval time.Duration `json:"idle_check_interval_ms"`
	IdleThreshold     time.Duration `json:"idle_threshold_ms"`
	TrackWindowTitles bool          `json:"track_window_titles"`
	ExcludedApps      []string      `json:"excluded_apps"`
	TitleMaxLength    int           `json:"title_max_length"`
}

func DefaultConfig() Config {
	return Config{
		SampleInterval:    DefaultSampleInterval,
		IdleCheckInterval: DefaultIdleCheckInterval,
		IdleThreshold:     DefaultIdleThreshold,
		TrackWindowTitles: true,
		ExcludedApps:      []string{"1password", "keepass", "bitwarden"},
		TitleMaxLength:    DefaultTitleMaxLength,
	}
}

// Validate rejects a config synchronously, before any state change.
func (c Config) Validate() error {
	if c.SampleInterval <= 0 {
		return fmt.Errorf("%w: sample interval must be positive", ErrInvalidConfig)
	}
	if c.IdleCheckInterval <= 0 {
		return fmt.Errorf("%w: idle check interval must be positive", ErrInvalidConfig)
	}
	if c.IdleThreshold <= 0 {
		return fmt.Errorf("%w: idle threshold must be positive", ErrInvalidConfig)
	}
	if c.IdleThreshold < c.SampleInterval {
		return fmt.Errorf("%w: idle threshold below sample interval", ErrInvalidConfig)
	}
	if c.TitleMaxLength <= 0 {
		return fmt.Errorf("%w: title max length must be positive", ErrInvalidConfig)
	}
	return nil
}
