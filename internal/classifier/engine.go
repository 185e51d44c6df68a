package classifier

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"activity-tracker-be/internal/entity"
	"activity-tracker-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// MatchType tags which strategy (and for rules, which pattern kind)
// produced a categorization.
type MatchType string

const (
	MatchPreference MatchType = "preference"
	MatchApp        MatchType = "app"
	MatchTitle      MatchType = "title"
	MatchRegex      MatchType = "regex"
	MatchDomain     MatchType = "domain"
	MatchFeedback   MatchType = "feedback"
	MatchFuzzy      MatchType = "fuzzy"
	MatchDefault    MatchType = "default"
)

// Strategy confidences.
const (
	confPreference   = 0.95
	confAppMatch     = 0.9
	confTitleMatch   = 0.8
	confRegexMatch   = 0.85
	confDomainMatch  = 0.9
	confDefault      = 0.3
	feedbackMinCount = 3
	feedbackMinConf  = 0.6
	feedbackMaxConf  = 0.9
	fuzzyMinSim      = 0.7
	fuzzyConfFactor  = 0.7
	defaultScore     = 0.5
)

// Categorization is the engine's verdict for one (app, title) pair.
type Categorization struct {
	Category          string     `json:"category"`
	ProductivityScore float64    `json:"productivity_score"`
	MatchType         MatchType  `json:"match_type"`
	MatchedRuleId     *uuid.UUID `json:"matched_rule_id,omitempty"`
	MatchedRule       string     `json:"matched_rule,omitempty"`
	Confidence        float64    `json:"confidence"`
	Suggestions       []string   `json:"suggestions,omitempty"`
}

// Engine runs the four classification strategies against an injected
// catalog and arbitrates by confidence.
type Engine struct {
	catalog         *Catalog
	logger          logger.ILogger
	defaultCategory string
	now             func() time.Time
}

func NewEngine(catalog *Catalog, log logger.ILogger) *Engine {
	return &Engine{
		catalog:         catalog,
		logger:          log,
		defaultCategory: entity.CategoryOther,
		now:             time.Now,
	}
}

// WithClock overrides the time source, used by time-rule evaluation.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Categorize runs all strategies and returns the highest-confidence result.
// Ties keep the earlier strategy: preference, rules, feedback, fuzzy.
func (e *Engine) Categorize(appName, windowTitle string) Categorization {
	best := Categorization{
		Category:          e.defaultCategory,
		ProductivityScore: defaultScore,
		MatchType:         MatchDefault,
		Confidence:        confDefault,
	}

	strategies := []func(string, string) (Categorization, bool){
		e.byPreference,
		e.byRules,
		e.byFeedback,
		e.byFuzzy,
	}
	found := false
	for _, strategy := range strategies {
		if result, ok := strategy(appName, windowTitle); ok {
			if !found || result.Confidence > best.Confidence {
				best = result
				found = true
			}
		}
	}

	best.Suggestions = e.suggestions(appName, windowTitle)
	return best
}

func (e *Engine) byPreference(appName, windowTitle string) (Categorization, bool) {
	pref, ok := e.catalog.Preference(appName, windowTitle)
	if !ok {
		return Categorization{}, false
	}
	return Categorization{
		Category:          pref.Category,
		ProductivityScore: defaultScore,
		MatchType:         MatchPreference,
		Confidence:        confPreference,
	}, true
}

// byRules walks enabled rules in priority order; the first rule with any
// pattern hit wins. Within a rule, pattern kinds are tested app, title,
// regex, domain.
func (e *Engine) byRules(appName, windowTitle string) (Categorization, bool) {
	appLower := strings.ToLower(appName)
	titleLower := strings.ToLower(windowTitle)

	for _, rule := range e.catalog.Rules() {
		if !rule.Enabled {
			continue
		}
		matchType, confidence, ok := e.matchRule(rule, appName, appLower, windowTitle, titleLower)
		if !ok {
			continue
		}
		score := clamp01(rule.ProductivityScore * e.timeModifier(rule))
		return Categorization{
			Category:          rule.Category,
			ProductivityScore: score,
			MatchType:         matchType,
			MatchedRuleId:     &rule.Id,
			MatchedRule:       rule.Description,
			Confidence:        confidence,
		}, true
	}
	return Categorization{}, false
}

func (e *Engine) matchRule(rule *entity.CategoryRule, appName, appLower, windowTitle, titleLower string) (MatchType, float64, bool) {
	for _, p := range rule.AppPatterns {
		if p != "" && strings.Contains(appLower, strings.ToLower(p)) {
			return MatchApp, confAppMatch, true
		}
	}
	if windowTitle != "" {
		for _, p := range rule.TitlePatterns {
			if p != "" && strings.Contains(titleLower, strings.ToLower(p)) {
				return MatchTitle, confTitleMatch, true
			}
		}
	}
	if len(rule.RegexPatterns) > 0 {
		haystack := fmt.Sprintf("%s %s", appName, windowTitle)
		for _, p := range rule.RegexPatterns {
			re, err := regexp.Compile(p)
			if err != nil {
				// A malformed pattern never aborts evaluation.
				e.logger.Warn("Classifier", "Skipping malformed regex pattern", map[string]interface{}{
					"rule_id": rule.Id.String(),
					"pattern": p,
					"error":   err.Error(),
				})
				continue
			}
			if re.MatchString(haystack) {
				return MatchRegex, confRegexMatch, true
			}
		}
	}
	if windowTitle != "" {
		for _, p := range rule.DomainPatterns {
			if p != "" && strings.Contains(titleLower, strings.ToLower(p)) {
				return MatchDomain, confDomainMatch, true
			}
		}
	}
	return "", 0, false
}

// timeModifier returns the multiplier of the first time window covering now,
// or 1.0 when the rule has none that applies.
func (e *Engine) timeModifier(rule *entity.CategoryRule) float64 {
	if len(rule.TimeRules) == 0 {
		return 1.0
	}
	at := e.now()
	for _, tr := range rule.TimeRules {
		if tr.Applies(at) {
			return tr.Multiplier
		}
	}
	return 1.0
}

// byFeedback weighs the rolling feedback history: exact app matches plus
// records whose title contains the candidate title. Requires at least
// feedbackMinCount records and a confidence above feedbackMinConf.
func (e *Engine) byFeedback(appName, windowTitle string) (Categorization, bool) {
	var relevant []entity.FeedbackRecord
	for _, rec := range e.catalog.Feedback() {
		if rec.AppName == appName {
			relevant = append(relevant, rec)
			continue
		}
		if windowTitle != "" && rec.WindowTitle != "" &&
			strings.Contains(strings.ToLower(rec.WindowTitle), strings.ToLower(windowTitle)) {
			relevant = append(relevant, rec)
		}
	}
	if len(relevant) < feedbackMinCount {
		return Categorization{}, false
	}

	weights := make(map[string]float64)
	for _, rec := range relevant {
		w := 0.5
		if rec.IsCorrect {
			w = 1.5
		}
		weights[rec.Category] += w
	}

	bestCategory := ""
	bestWeight := 0.0
	for category, w := range weights {
		if w > bestWeight {
			bestCategory = category
			bestWeight = w
		}
	}

	confidence := bestWeight / float64(len(relevant))
	if confidence > feedbackMaxConf {
		confidence = feedbackMaxConf
	}
	if confidence <= feedbackMinConf {
		return Categorization{}, false
	}
	return Categorization{
		Category:          bestCategory,
		ProductivityScore: defaultScore,
		MatchType:         MatchFeedback,
		Confidence:        confidence,
	}, true
}

// byFuzzy finds the rule pattern with the best normalized Levenshtein
// similarity to the app name or title. Accepted only above fuzzyMinSim.
func (e *Engine) byFuzzy(appName, windowTitle string) (Categorization, bool) {
	var bestRule *entity.CategoryRule
	bestSim := 0.0

	for _, rule := range e.catalog.Rules() {
		if !rule.Enabled {
			continue
		}
		for _, p := range rule.AppPatterns {
			if s := similarity(appName, p); s > bestSim {
				bestSim = s
				bestRule = rule
			}
		}
		if windowTitle != "" {
			for _, p := range rule.TitlePatterns {
				if s := similarity(windowTitle, p); s > bestSim {
					bestSim = s
					bestRule = rule
				}
			}
		}
	}

	if bestRule == nil || bestSim <= fuzzyMinSim {
		return Categorization{}, false
	}
	return Categorization{
		Category:          bestRule.Category,
		ProductivityScore: clamp01(bestRule.ProductivityScore),
		MatchType:         MatchFuzzy,
		MatchedRuleId:     &bestRule.Id,
		MatchedRule:       bestRule.Description,
		Confidence:        bestSim * fuzzyConfFactor,
	}, true
}

// suggestions collects up to three rules with partial relevance to the
// input, independent of the winning strategy.
func (e *Engine) suggestions(appName, windowTitle string) []string {
	appLower := strings.ToLower(appName)
	titleLower := strings.ToLower(windowTitle)

	var out []string
	for _, rule := range e.catalog.Rules() {
		if !rule.Enabled {
			continue
		}
		relevance := 0.0
		for _, p := range rule.AppPatterns {
			pl := strings.ToLower(p)
			if pl != "" && (strings.Contains(appLower, pl) || strings.Contains(pl, appLower)) {
				relevance += 0.3
			}
		}
		if titleLower != "" {
			for _, p := range rule.TitlePatterns {
				pl := strings.ToLower(p)
				if pl != "" && (strings.Contains(titleLower, pl) || strings.Contains(pl, titleLower)) {
					relevance += 0.2
				}
			}
		}
		if relevance > 0.2 {
			out = append(out, fmt.Sprintf("%s (rule %q)", rule.Category, rule.Description))
			if len(out) == 3 {
				break
			}
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
