// FILE: internal/mapper/profile_submission_mapper.go
// Mapper for ProfileSubmission entity <-> model conversion
package mapper

import (
	"encoding/json"

	"ai-agent-platform/internal/entity"
	"ai-agent-platform/internal/model"

	"gorm.io/datatypes"
)

type ProfileSubmissionMapper struct{}

func NewProfileSubmissionMapper() *ProfileSubmissionMapper {
	return &ProfileSubmissionMapper{}
}

func (m *ProfileSubmissionMapper) ToEntity(model *model.ProfileSubmission) (*entity.ProfileSubmission, error) {
	if model == nil {
		return nil, nil
	}

	answers := map[string]string{}
	if len(model.Answers) > 0 {
		if err := json.Unmarshal(model.Answers, &answers); err != nil {
			return nil, err
		}
	}

	return &entity.ProfileSubmission{
		SessionId:      model.SessionId,
		State:          model.State,
		Answers:        answers,
		AskedQuestions: []string(model.AskedQuestions),
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
		LastActive:     model.LastActive,
	}, nil
}

func (m *ProfileSubmissionMapper) ToModel(entity *entity.ProfileSubmission) (*model.ProfileSubmission, error) {
	if entity == nil {
		return nil, nil
	}

	answers := entity.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	return &model.ProfileSubmission{
		SessionId:      entity.SessionId,
		State:          entity.State,
		Answers:        datatypes.JSON(raw),
		AskedQuestions: datatypes.JSONSlice[string](entity.AskedQuestions),
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
		LastActive:     entity.LastActive,
	}, nil
}
