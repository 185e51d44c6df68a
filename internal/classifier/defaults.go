package classifier

import (
	"activity-tracker-be/internal/entity"

	"github.com/google/uuid"
)

// SeedDefaults loads the built-in rule catalog. Safe to call on an empty
// catalog only; callers restoring a persisted catalog skip it.
func SeedDefaults(catalog *Catalog) {
	for _, r := range builtInRules() {
		// Built-in rules are validated at author time, AddRule cannot fail.
		_ = catalog.AddRule(r)
	}
}

func builtInRules() []*entity.CategoryRule {
	return []*entity.CategoryRule{
		{
			Id:                uuid.New(),
			Description:       "Code editors and IDEs",
			Priority:          10,
			Category:          entity.CategoryDevelopment,
			ProductivityScore: 0.95,
			Enabled:           true,
			BuiltIn:           true,
			AppPatterns:       []string{"code", "goland", "intellij", "vim", "nvim", "emacs", "sublime", "zed"},
			TitlePatterns:     []string{".go", ".ts", ".py", ".rs", "pull request"},
		},
		{
			Id:                uuid.New(),
			Description:       "Terminals",
			Priority:          11,
			Category:          entity.CategoryDevelopment,
			ProductivityScore: 0.9,
			Enabled:           true,
			BuiltIn:           true,
			AppPatterns:       []string{"terminal", "alacritty", "kitty", "konsole", "iterm", "wezterm"},
		},
		{
			Id:                uuid.New(),
			Description:       "Developer sites",
			Priority:          15,
			Category:          entity.CategoryDevelopment,
			ProductivityScore: 0.85,
			Enabled:           true,
			BuiltIn:           true,
			DomainPatterns:    []string{"github.com", "gitlab.com", "stackoverflow.com", "pkg.go.dev"},
		},
		{
			Id:                uuid.New(),
			Description:       "Office and writing tools",
			Priority:          20,
			Category:          entity.CategoryProductivity,
			ProductivityScore: 0.8,
			Enabled:           true,
			BuiltIn:           true,
			AppPatterns:       []string{"libreoffice", "obsidian", "notion", "word", "excel"},
			DomainPatterns:    []string{"docs.google.com", "sheets.google.com"},
		},
		{
			Id:                uuid.New(),
			Description:       "Chat and mail",
			Priority:          30,
			Category:          entity.CategoryCommunication,
			ProductivityScore: 0.6,
			Enabled:           true,
			BuiltIn:           true,
			AppPatterns:       []string{"slack", "discord", "thunderbird", "telegram", "zoom", "teams"},
			DomainPatterns:    []string{"mail.google.com", "outlook."},
		},
		{
			Id:                uuid.New(),
			Description:       "Streaming and social media",
			Priority:          40,
			Category:          entity.CategoryEntertainment,
			ProductivityScore: 0.1,
			Enabled:           true,
			BuiltIn:           true,
			AppPatterns:       []string{"spotify", "vlc", "steam"},
			DomainPatterns:    []string{"youtube.com", "netflix.com", "twitch.tv", "reddit.com", "twitter.com", "x.com", "instagram.com"},
			TimeRules: []entity.TimeRule{
				// Lunch break media gets a softer penalty.
				{StartHour: 12, EndHour: 14, Multiplier: 2.0},
			},
		},
		{
			Id:                uuid.New(),
			Description:       "Generic web browsing",
			Priority:          80,
			Category:          entity.CategoryBrowsing,
			ProductivityScore: 0.5,
			Enabled:           true,
			BuiltIn:           true,
			AppPatterns:       []string{"firefox", "chrome", "chromium", "safari", "edge", "brave"},
		},
		{
			Id:                uuid.New(),
			Description:       "System utilities",
			Priority:          90,
			Category:          entity.CategorySystem,
			ProductivityScore: 0.5,
			Enabled:           true,
			BuiltIn:           true,
			AppPatterns:       []string{"system", "settings", "finder", "nautilus", "explorer"},
		},
	}
}
