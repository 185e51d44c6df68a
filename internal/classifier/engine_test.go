package classifier

import (
	"testing"
	"time"

	"activity-tracker-be/internal/entity"
	"activity-tracker-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(catalog *Catalog) *Engine {
	return NewEngine(catalog, logger.NewNopLogger())
}

func mustAddRule(t *testing.T, catalog *Catalog, rule *entity.CategoryRule) {
	t.Helper()
	require.NoError(t, catalog.AddRule(rule))
}

func TestCategorizeDefaultWhenNothingMatches(t *testing.T) {
	engine := newTestEngine(NewCatalog())

	result := engine.Categorize("zzzzzz", "")

	assert.Equal(t, entity.CategoryOther, result.Category)
	assert.Equal(t, MatchDefault, result.MatchType)
	assert.InDelta(t, 0.3, result.Confidence, 1e-9)
	assert.InDelta(t, 0.5, result.ProductivityScore, 1e-9)
	assert.Nil(t, result.MatchedRuleId)
}

func TestCategorizeAppRuleMatch(t *testing.T) {
	catalog := NewCatalog()
	mustAddRule(t, catalog, &entity.CategoryRule{
		Description:       "Editors",
		Priority:          1,
		Category:          entity.CategoryDevelopment,
		ProductivityScore: 0.95,
		Enabled:           true,
		AppPatterns:       []string{"Code"},
	})
	engine := newTestEngine(catalog)

	result := engine.Categorize("Code", "main.ts")

	assert.Equal(t, entity.CategoryDevelopment, result.Category)
	assert.Equal(t, MatchApp, result.MatchType)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.InDelta(t, 0.95, result.ProductivityScore, 1e-9)
	require.NotNil(t, result.MatchedRuleId)
	assert.Equal(t, "Editors", result.MatchedRule)
}

func TestCategorizePatternKindConfidence(t *testing.T) {
	tests := []struct {
		name     string
		rule     entity.CategoryRule
		app      string
		title    string
		wantType MatchType
		wantConf float64
	}{
		{
			name:     "app pattern",
			rule:     entity.CategoryRule{AppPatterns: []string{"slack"}},
			app:      "Slack",
			wantType: MatchApp,
			wantConf: 0.9,
		},
		{
			name:     "title pattern",
			rule:     entity.CategoryRule{TitlePatterns: []string{"pull request"}},
			app:      "browser",
			title:    "Pull Request #42",
			wantType: MatchTitle,
			wantConf: 0.8,
		},
		{
			name:     "regex pattern",
			rule:     entity.CategoryRule{RegexPatterns: []string{`issue-\d+`}},
			app:      "browser",
			title:    "issue-1234",
			wantType: MatchRegex,
			wantConf: 0.85,
		},
		{
			name:     "domain pattern",
			rule:     entity.CategoryRule{DomainPatterns: []string{"github.com"}},
			app:      "browser",
			title:    "repo - github.com",
			wantType: MatchDomain,
			wantConf: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := NewCatalog()
			rule := tt.rule
			rule.Category = entity.CategoryDevelopment
			rule.ProductivityScore = 0.7
			rule.Enabled = true
			mustAddRule(t, catalog, &rule)

			result := newTestEngine(catalog).Categorize(tt.app, tt.title)

			assert.Equal(t, tt.wantType, result.MatchType)
			assert.InDelta(t, tt.wantConf, result.Confidence, 1e-9)
		})
	}
}

func TestCategorizeLowerPriorityRuleWins(t *testing.T) {
	catalog := NewCatalog()
	mustAddRule(t, catalog, &entity.CategoryRule{
		Description: "late", Priority: 50, Category: entity.CategoryBrowsing,
		ProductivityScore: 0.5, Enabled: true, AppPatterns: []string{"firefox"},
	})
	mustAddRule(t, catalog, &entity.CategoryRule{
		Description: "early", Priority: 5, Category: entity.CategoryDevelopment,
		ProductivityScore: 0.9, Enabled: true, AppPatterns: []string{"firefox"},
	})

	result := newTestEngine(catalog).Categorize("firefox", "")

	assert.Equal(t, "early", result.MatchedRule)
	assert.Equal(t, entity.CategoryDevelopment, result.Category)
}

func TestCategorizeDisabledRuleSkipped(t *testing.T) {
	catalog := NewCatalog()
	mustAddRule(t, catalog, &entity.CategoryRule{
		Priority: 1, Category: entity.CategoryDevelopment,
		ProductivityScore: 0.9, Enabled: false, AppPatterns: []string{"code"},
	})

	result := newTestEngine(catalog).Categorize("code", "")

	assert.Equal(t, MatchDefault, result.MatchType)
}

func TestCategorizeTimeModifier(t *testing.T) {
	// 2025-03-04 is a Tuesday.
	tuesday10 := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	tuesday8 := time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC)
	sunday10 := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	newCatalog := func(t *testing.T, multiplier float64) *Catalog {
		catalog := NewCatalog()
		mustAddRule(t, catalog, &entity.CategoryRule{
			Priority: 1, Category: entity.CategoryProductivity,
			ProductivityScore: 0.5, Enabled: true,
			AppPatterns: []string{"obsidian"},
			TimeRules: []entity.TimeRule{{
				StartHour: 9, EndHour: 17,
				Weekdays:   []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
				Multiplier: multiplier,
			}},
		})
		return catalog
	}

	t.Run("inside window scales the score", func(t *testing.T) {
		engine := newTestEngine(newCatalog(t, 1.2)).WithClock(func() time.Time { return tuesday10 })
		result := engine.Categorize("obsidian", "")
		assert.InDelta(t, 0.6, result.ProductivityScore, 1e-9)
	})

	t.Run("outside hours keeps the base score", func(t *testing.T) {
		engine := newTestEngine(newCatalog(t, 1.2)).WithClock(func() time.Time { return tuesday8 })
		result := engine.Categorize("obsidian", "")
		assert.InDelta(t, 0.5, result.ProductivityScore, 1e-9)
	})

	t.Run("weekday mismatch keeps the base score", func(t *testing.T) {
		engine := newTestEngine(newCatalog(t, 1.2)).WithClock(func() time.Time { return sunday10 })
		result := engine.Categorize("obsidian", "")
		assert.InDelta(t, 0.5, result.ProductivityScore, 1e-9)
	})

	t.Run("scaled score clamps to 1", func(t *testing.T) {
		engine := newTestEngine(newCatalog(t, 3.0)).WithClock(func() time.Time { return tuesday10 })
		result := engine.Categorize("obsidian", "")
		assert.InDelta(t, 1.0, result.ProductivityScore, 1e-9)
	})
}

func TestCategorizePreferenceOutranksRules(t *testing.T) {
	catalog := NewCatalog()
	mustAddRule(t, catalog, &entity.CategoryRule{
		Priority: 1, Category: entity.CategoryDevelopment,
		ProductivityScore: 0.9, Enabled: true, AppPatterns: []string{"slack"},
	})
	catalog.AddFeedback("slack", "standup", entity.CategoryCommunication, true)

	result := newTestEngine(catalog).Categorize("slack", "standup")

	assert.Equal(t, MatchPreference, result.MatchType)
	assert.Equal(t, entity.CategoryCommunication, result.Category)
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
}

func TestCategorizeMalformedRegexSkipped(t *testing.T) {
	catalog := NewCatalog()
	mustAddRule(t, catalog, &entity.CategoryRule{
		Priority: 1, Category: entity.CategoryDevelopment,
		ProductivityScore: 0.8, Enabled: true,
		RegexPatterns:  []string{"[unclosed"},
		DomainPatterns: []string{"github.com"},
	})
	engine := newTestEngine(catalog)

	// The bad regex never aborts the rule: the domain pattern still hits.
	result := engine.Categorize("browser", "repo - github.com")
	assert.Equal(t, MatchDomain, result.MatchType)

	// With nothing else to match, the rule simply does not apply.
	result = engine.Categorize("browser", "unrelated")
	assert.Equal(t, MatchDefault, result.MatchType)
}

func TestCategorizeFeedbackInference(t *testing.T) {
	t.Run("three confirming records reach the capped confidence", func(t *testing.T) {
		catalog := NewCatalog()
		catalog.AddFeedback("myapp", "a", entity.CategoryDevelopment, true)
		catalog.AddFeedback("myapp", "b", entity.CategoryDevelopment, true)
		catalog.AddFeedback("myapp", "c", entity.CategoryDevelopment, true)

		result := newTestEngine(catalog).Categorize("myapp", "something else")

		assert.Equal(t, MatchFeedback, result.MatchType)
		assert.Equal(t, entity.CategoryDevelopment, result.Category)
		assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	})

	t.Run("fewer than three records never infer", func(t *testing.T) {
		catalog := NewCatalog()
		catalog.AddFeedback("myapp", "a", entity.CategoryDevelopment, false)
		catalog.AddFeedback("myapp", "b", entity.CategoryDevelopment, false)

		result := newTestEngine(catalog).Categorize("myapp", "x")

		assert.Equal(t, MatchDefault, result.MatchType)
	})

	t.Run("weak signal stays below the gate", func(t *testing.T) {
		catalog := NewCatalog()
		catalog.AddFeedback("myapp", "a", entity.CategoryDevelopment, false)
		catalog.AddFeedback("myapp", "b", entity.CategoryBrowsing, false)
		catalog.AddFeedback("myapp", "c", entity.CategoryEntertainment, false)

		result := newTestEngine(catalog).Categorize("myapp", "x")

		assert.Equal(t, MatchDefault, result.MatchType)
	})

	t.Run("corrections drag the winning category down", func(t *testing.T) {
		catalog := NewCatalog()
		catalog.AddFeedback("myapp", "a", entity.CategoryDevelopment, true)
		catalog.AddFeedback("myapp", "b", entity.CategoryDevelopment, true)
		catalog.AddFeedback("myapp", "c", entity.CategoryBrowsing, false)

		result := newTestEngine(catalog).Categorize("myapp", "x")

		assert.Equal(t, MatchFeedback, result.MatchType)
		assert.Equal(t, entity.CategoryDevelopment, result.Category)
		// 2*1.5 / 3 records = 1.0, capped at 0.9.
		assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	})
}

func TestCategorizeFuzzyFallback(t *testing.T) {
	catalog := NewCatalog()
	mustAddRule(t, catalog, &entity.CategoryRule{
		Description: "Chat", Priority: 1, Category: entity.CategoryCommunication,
		ProductivityScore: 0.6, Enabled: true, AppPatterns: []string{"slack"},
	})
	engine := newTestEngine(catalog)

	// "slck" is one edit from "slack": similarity 0.8, confidence 0.8*0.7.
	result := engine.Categorize("slck", "")
	assert.Equal(t, MatchFuzzy, result.MatchType)
	assert.Equal(t, entity.CategoryCommunication, result.Category)
	assert.InDelta(t, 0.56, result.Confidence, 1e-9)
	assert.InDelta(t, 0.6, result.ProductivityScore, 1e-9)

	// Nothing remotely similar falls through to the default.
	result = engine.Categorize("qqqqqqqq", "")
	assert.Equal(t, MatchDefault, result.MatchType)
	assert.InDelta(t, 0.3, result.Confidence, 1e-9)
}

func TestCategorizeDeterministic(t *testing.T) {
	catalog := NewCatalog()
	SeedDefaults(catalog)
	catalog.AddFeedback("firefox", "news", entity.CategoryBrowsing, false)
	engine := newTestEngine(catalog).WithClock(func() time.Time {
		return time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	})

	first := engine.Categorize("firefox", "Hacker News")
	second := engine.Categorize("firefox", "Hacker News")

	assert.Equal(t, first, second)
}

func TestCategorizeConfidenceAndScoreBounds(t *testing.T) {
	catalog := NewCatalog()
	SeedDefaults(catalog)
	engine := newTestEngine(catalog)

	inputs := []struct{ app, title string }{
		{"code", "main.go"},
		{"spotify", ""},
		{"firefox", "youtube.com - video"},
		{"unknown-app", "whatever"},
		{"slck", ""},
	}
	for _, in := range inputs {
		result := engine.Categorize(in.app, in.title)
		assert.GreaterOrEqual(t, result.Confidence, 0.0, "app=%s", in.app)
		assert.LessOrEqual(t, result.Confidence, 1.0, "app=%s", in.app)
		assert.GreaterOrEqual(t, result.ProductivityScore, 0.0, "app=%s", in.app)
		assert.LessOrEqual(t, result.ProductivityScore, 1.0, "app=%s", in.app)
	}
}

func TestSuggestionsCappedAtThree(t *testing.T) {
	catalog := NewCatalog()
	for i := 0; i < 5; i++ {
		mustAddRule(t, catalog, &entity.CategoryRule{
			Description: "r", Priority: i, Category: entity.CategoryBrowsing,
			ProductivityScore: 0.5, Enabled: true, AppPatterns: []string{"fire"},
		})
	}

	result := newTestEngine(catalog).Categorize("firefox", "")

	assert.Len(t, result.Suggestions, 3)
}

func TestSuggestionsBelowThresholdOmitted(t *testing.T) {
	catalog := NewCatalog()
	// A lone title hit is worth 0.2, which does not clear the >0.2 bar.
	mustAddRule(t, catalog, &entity.CategoryRule{
		Priority: 1, Category: entity.CategoryDevelopment,
		ProductivityScore: 0.5, Enabled: true, TitlePatterns: []string{"review"},
	})

	result := newTestEngine(catalog).Categorize("someapp", "code review")

	assert.Empty(t, result.Suggestions)
}
