package monitor

import (
	"regexp"
	"strings"
)

// RedactionMarker replaces anything that looks like a URL, file path or
// email address in a persisted window title.
const RedactionMarker = "[redacted]"

const ellipsis = "…"

var (
	urlPattern   = regexp.MustCompile(`https?://\S+`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// Absolute unix paths with at least two segments, or Windows drive paths.
	pathPattern = regexp.MustCompile(`(?:[A-Za-z]:\\\S+)|(?:(?:/[\w.\-]+){2,}/?)`)
)

// Sanitizer scrubs window titles before they leave the state machine.
// Classification always runs on the raw title; only persisted and emitted
// titles pass through here.
type Sanitizer struct {
	maxLength int
}

func NewSanitizer(maxLength int) *Sanitizer {
	if maxLength <= 0 {
		maxLength = DefaultTitleMaxLength
	}
	return &Sanitizer{maxLength: maxLength}
}

// Sanitize redacts URLs, emails and path-like substrings, trims whitespace
// and truncates to the configured maximum length.
func (s *Sanitizer) Sanitize(title string) string {
	out := urlPattern.ReplaceAllString(title, RedactionMarker)
	out = emailPattern.ReplaceAllString(out, RedactionMarker)
	out = pathPattern.ReplaceAllString(out, RedactionMarker)
	out = strings.TrimSpace(out)

	runes := []rune(out)
	if len(runes) > s.maxLength {
		out = string(runes[:s.maxLength-1]) + ellipsis
	}
	return out
}
