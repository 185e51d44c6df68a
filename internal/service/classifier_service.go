package service

import (
	"context"
	"fmt"
	"time"

	"activity-tracker-be/internal/classifier"
	"activity-tracker-be/internal/dto"
	"activity-tracker-be/internal/entity"
	"activity-tracker-be/internal/pkg/logger"
	"activity-tracker-be/internal/repository/contract"
	"activity-tracker-be/internal/repository/memory"

	"github.com/google/uuid"
)

type IClassifierService interface {
	Bootstrap(ctx context.Context) error
	Categorize(appName, windowTitle string) classifier.Categorization
	AddFeedback(ctx context.Context, req *dto.FeedbackRequest) error
	ListRules() []*entity.CategoryRule
	CreateRule(ctx context.Context, req *dto.CreateRuleRequest) (*entity.CategoryRule, error)
	UpdateRule(ctx context.Context, req *dto.UpdateRuleRequest) (*entity.CategoryRule, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
	ToggleRule(ctx context.Context, id uuid.UUID, enabled bool) error
	ExportCatalog() ([]byte, error)
	ImportCatalog(ctx context.Context, data []byte) error
}

// classifierService wires the engine and catalog to persistence and the
// result cache. The catalog stays authoritative in memory; rule storage is
// write-through.
type classifierService struct {
	catalog *classifier.Catalog
	engine  *classifier.Engine
	cache   *memory.CategorizationCache
	repo    contract.RuleRepository
	logger  logger.ILogger
}

func NewClassifierService(
	catalog *classifier.Catalog,
	engine *classifier.Engine,
	cache *memory.CategorizationCache,
	repo contract.RuleRepository,
	log logger.ILogger,
) IClassifierService {
	s := &classifierService{
		catalog: catalog,
		engine:  engine,
		cache:   cache,
		repo:    repo,
		logger:  log,
	}
	catalog.OnChange(cache.Flush)
	return s
}

// Bootstrap restores the persisted catalog, seeding the built-in rules on
// first run.
func (s *classifierService) Bootstrap(ctx context.Context) error {
	rules, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	if len(rules) == 0 {
		classifier.SeedDefaults(s.catalog)
		for _, rule := range s.catalog.Rules() {
			if err := s.repo.Save(ctx, rule); err != nil {
				return fmt.Errorf("failed to persist built-in rule: %w", err)
			}
		}
		s.logger.Info("Classifier", "Seeded built-in rule catalog", map[string]interface{}{
			"rules": len(s.catalog.Rules()),
		})
	} else {
		for _, rule := range rules {
			if err := s.catalog.AddRule(rule); err != nil {
				s.logger.Warn("Classifier", "Skipping invalid persisted rule", map[string]interface{}{
					"rule_id": rule.Id.String(),
					"error":   err.Error(),
				})
			}
		}
	}

	prefs, err := s.repo.FindAllPreferences(ctx)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	feedback, err := s.repo.FindRecentFeedback(ctx, classifier.FeedbackHistorySize)
	if err != nil {
		return fmt.Errorf("failed to load feedback: %w", err)
	}
	// Replay feedback to fill the ring, then restore preferences directly so
	// the persisted ones win over any replay side effects.
	for _, rec := range feedback {
		s.catalog.AddFeedback(rec.AppName, rec.WindowTitle, rec.Category, rec.IsCorrect)
	}
	for _, p := range prefs {
		s.catalog.RestorePreference(*p)
	}
	return nil
}

func (s *classifierService) Categorize(appName, windowTitle string) classifier.Categorization {
	if result, ok := s.cache.Get(appName, windowTitle); ok {
		return result
	}
	result := s.engine.Categorize(appName, windowTitle)
	s.cache.Set(appName, windowTitle, result)
	return result
}

func (s *classifierService) AddFeedback(ctx context.Context, req *dto.FeedbackRequest) error {
	s.catalog.AddFeedback(req.AppName, req.WindowTitle, req.Category, req.IsCorrect)

	if err := s.repo.SaveFeedback(ctx, &entity.FeedbackRecord{
		AppName:     req.AppName,
		WindowTitle: req.WindowTitle,
		Category:    req.Category,
		IsCorrect:   req.IsCorrect,
		CreatedAt:   time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to persist feedback: %w", err)
	}
	if req.IsCorrect {
		if err := s.repo.SavePreference(ctx, &entity.UserPreference{
			AppName:     req.AppName,
			WindowTitle: req.WindowTitle,
			Category:    req.Category,
			UpdatedAt:   time.Now(),
		}); err != nil {
			return fmt.Errorf("failed to persist preference: %w", err)
		}
	}
	return nil
}

func (s *classifierService) ListRules() []*entity.CategoryRule {
	return s.catalog.Rules()
}

func ruleFromCreate(req *dto.CreateRuleRequest) *entity.CategoryRule {
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	return &entity.CategoryRule{
		Id:                uuid.New(),
		Description:       req.Description,
		Priority:          req.Priority,
		Category:          req.Category,
		ProductivityScore: req.ProductivityScore,
		Enabled:           enabled,
		AppPatterns:       req.AppPatterns,
		TitlePatterns:     req.TitlePatterns,
		RegexPatterns:     req.RegexPatterns,
		DomainPatterns:    req.DomainPatterns,
		TimeRules:         timeRulesFromPayload(req.TimeRules),
		Tags:              req.Tags,
	}
}

func timeRulesFromPayload(payload []dto.TimeRulePayload) []entity.TimeRule {
	if len(payload) == 0 {
		return nil
	}
	out := make([]entity.TimeRule, len(payload))
	for i, tr := range payload {
		out[i] = entity.TimeRule{
			StartHour:  tr.StartHour,
			EndHour:    tr.EndHour,
			Weekdays:   tr.Weekdays,
			Multiplier: tr.Multiplier,
		}
	}
	return out
}

func (s *classifierService) CreateRule(ctx context.Context, req *dto.CreateRuleRequest) (*entity.CategoryRule, error) {
	rule := ruleFromCreate(req)
	if err := s.catalog.AddRule(rule); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to persist rule: %w", err)
	}
	return rule, nil
}

func (s *classifierService) UpdateRule(ctx context.Context, req *dto.UpdateRuleRequest) (*entity.CategoryRule, error) {
	existing, err := s.catalog.Rule(req.Id)
	if err != nil {
		return nil, err
	}
	enabled := existing.Enabled
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	rule := &entity.CategoryRule{
		Id:                req.Id,
		Description:       req.Description,
		Priority:          req.Priority,
		Category:          req.Category,
		ProductivityScore: req.ProductivityScore,
		Enabled:           enabled,
		AppPatterns:       req.AppPatterns,
		TitlePatterns:     req.TitlePatterns,
		RegexPatterns:     req.RegexPatterns,
		DomainPatterns:    req.DomainPatterns,
		TimeRules:         timeRulesFromPayload(req.TimeRules),
		Tags:              req.Tags,
		BuiltIn:           existing.BuiltIn,
	}
	if err := s.catalog.UpdateRule(rule); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to persist rule: %w", err)
	}
	return rule, nil
}

func (s *classifierService) DeleteRule(ctx context.Context, id uuid.UUID) error {
	if err := s.catalog.DeleteRule(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *classifierService) ToggleRule(ctx context.Context, id uuid.UUID, enabled bool) error {
	if err := s.catalog.ToggleRule(id, enabled); err != nil {
		return err
	}
	rule, err := s.catalog.Rule(id)
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, rule)
}

func (s *classifierService) ExportCatalog() ([]byte, error) {
	return s.catalog.ExportJSON()
}

// ImportCatalog applies the document atomically in memory, then rewrites
// rule storage to match.
func (s *classifierService) ImportCatalog(ctx context.Context, data []byte) error {
	existing := s.catalog.Rules()
	if err := s.catalog.ImportJSON(data); err != nil {
		return err
	}
	for _, rule := range existing {
		if err := s.repo.Delete(ctx, rule.Id); err != nil {
			s.logger.Warn("Classifier", "Failed to delete replaced rule", map[string]interface{}{
				"rule_id": rule.Id.String(),
				"error":   err.Error(),
			})
		}
	}
	for _, rule := range s.catalog.Rules() {
		if err := s.repo.Save(ctx, rule); err != nil {
			return fmt.Errorf("failed to persist imported rule: %w", err)
		}
	}
	return nil
}
