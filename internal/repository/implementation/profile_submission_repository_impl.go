package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"ai-agent-platform/internal/entity"
	"ai-agent-platform/internal/mapper"
	"ai-agent-platform/internal/model"
	"ai-agent-platform/internal/repository/contract"
	"ai-agent-platform/internal/repository/specification"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileSubmissionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProfileSubmissionMapper
}

func NewProfileSubmissionRepository(db *gorm.DB) contract.ProfileSubmissionRepository {
	return &profileSubmissionRepositoryImpl{
		db:     db,
		mapper: mapper.NewProfileSubmissionMapper(),
	}
}

func (r *profileSubmissionRepositoryImpl) Upsert(ctx context.Context, submission *entity.ProfileSubmission) error {
	m, err := r.mapper.ToModel(submission)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "answers", "asked_questions", "last_active", "updated_at"}),
	}).Create(m).Error
}

func (r *profileSubmissionRepositoryImpl) UpsertAnswers(ctx context.Context, sessionId string, answers map[string]string) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return err
	}

	m := &model.ProfileSubmission{
		SessionId: sessionId,
		State:     "active",
		Answers:   datatypes.JSON(raw),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answers", "updated_at"}),
	}).Create(m).Error
}

func (r *profileSubmissionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProfileSubmission, error) {
	var m model.ProfileSubmission
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m)
}

func (r *profileSubmissionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProfileSubmission, error) {
	var models []*model.ProfileSubmission
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	submissions := make([]*entity.ProfileSubmission, 0, len(models))
	for _, m := range models {
		e, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, e)
	}
	return submissions, nil
}
