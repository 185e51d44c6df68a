package mapper

import (
	"encoding/json"

	"activity-tracker-be/internal/entity"
	"activity-tracker-be/internal/model"

	"gorm.io/datatypes"
)

type RuleMapper struct{}

func NewRuleMapper() *RuleMapper {
	return &RuleMapper{}
}

func toJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}

func fromJSONStrings(data datatypes.JSON) []string {
	var out []string
	if len(data) > 0 {
		_ = json.Unmarshal(data, &out)
	}
	return out
}

func (m *RuleMapper) ToModel(e *entity.CategoryRule) *model.CategoryRule {
	return &model.CategoryRule{
		Id:                e.Id,
		Description:       e.Description,
		Priority:          e.Priority,
		Category:          e.Category,
		ProductivityScore: e.ProductivityScore,
		Enabled:           e.Enabled,
		AppPatterns:       toJSON(e.AppPatterns),
		TitlePatterns:     toJSON(e.TitlePatterns),
		RegexPatterns:     toJSON(e.RegexPatterns),
		DomainPatterns:    toJSON(e.DomainPatterns),
		TimeRules:         toJSON(e.TimeRules),
		Tags:              toJSON(e.Tags),
		BuiltIn:           e.BuiltIn,
		// Save writes every column; losing created_at would break the
		// priority tie-break FindAll orders on.
		CreatedAt: e.CreatedAt,
	}
}

func (m *RuleMapper) ToEntity(mo *model.CategoryRule) *entity.CategoryRule {
	var timeRules []entity.TimeRule
	if len(mo.TimeRules) > 0 {
		_ = json.Unmarshal(mo.TimeRules, &timeRules)
	}
	updatedAt := mo.UpdatedAt
	return &entity.CategoryRule{
		Id:                mo.Id,
		Description:       mo.Description,
		Priority:          mo.Priority,
		Category:          mo.Category,
		ProductivityScore: mo.ProductivityScore,
		Enabled:           mo.Enabled,
		AppPatterns:       fromJSONStrings(mo.AppPatterns),
		TitlePatterns:     fromJSONStrings(mo.TitlePatterns),
		RegexPatterns:     fromJSONStrings(mo.RegexPatterns),
		DomainPatterns:    fromJSONStrings(mo.DomainPatterns),
		TimeRules:         timeRules,
		Tags:              fromJSONStrings(mo.Tags),
		BuiltIn:           mo.BuiltIn,
		CreatedAt:         mo.CreatedAt,
		UpdatedAt:         &updatedAt,
	}
}

func (m *RuleMapper) PreferenceToModel(e *entity.UserPreference) *model.UserPreference {
	return &model.UserPreference{
		AppName:     e.AppName,
		WindowTitle: e.WindowTitle,
		Category:    e.Category,
	}
}

func (m *RuleMapper) PreferenceToEntity(mo *model.UserPreference) *entity.UserPreference {
	return &entity.UserPreference{
		AppName:     mo.AppName,
		WindowTitle: mo.WindowTitle,
		Category:    mo.Category,
		UpdatedAt:   mo.UpdatedAt,
	}
}

func (m *RuleMapper) FeedbackToModel(e *entity.FeedbackRecord) *model.FeedbackRecord {
	return &model.FeedbackRecord{
		AppName:     e.AppName,
		WindowTitle: e.WindowTitle,
		Category:    e.Category,
		IsCorrect:   e.IsCorrect,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *RuleMapper) FeedbackToEntity(mo *model.FeedbackRecord) *entity.FeedbackRecord {
	return &entity.FeedbackRecord{
		AppName:     mo.AppName,
		WindowTitle: mo.WindowTitle,
		Category:    mo.Category,
		IsCorrect:   mo.IsCorrect,
		CreatedAt:   mo.CreatedAt,
	}
}
