package persister

import (
	"context"
	"time"

	"ai-agent-platform/internal/entity"
	"ai-agent-platform/internal/repository/specification"
	"ai-agent-platform/internal/repository/unitofwork"
	"ai-agent-platform/pkg/profile"
)

// GormPersister keeps one profile_submissions row per session.
type GormPersister struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewGormPersister(uowFactory unitofwork.RepositoryFactory) *GormPersister {
	return &GormPersister{uowFactory: uowFactory}
}

func (p *GormPersister) SaveProfile(ctx context.Context, sessionID string, fields map[string]string) error {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	return uow.ProfileSubmissionRepository().UpsertAnswers(ctx, sessionID, fields)
}

// SaveSession writes the final state of a session. A submission already
// stored as complete stays complete.
func (p *GormPersister) SaveSession(ctx context.Context, snapshot profile.Snapshot) error {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	repo := uow.ProfileSubmissionRepository()
	existing, err := repo.FindOne(ctx, specification.BySessionId{SessionId: snapshot.ID})
	if err != nil {
		return err
	}

	state := string(snapshot.State)
	if existing != nil && existing.State == string(profile.StateComplete) {
		state = existing.State
	}

	lastActive := snapshot.LastActive
	err = repo.Upsert(ctx, &entity.ProfileSubmission{
		SessionId:      snapshot.ID,
		State:          state,
		Answers:        snapshot.Profile,
		AskedQuestions: snapshot.Asked,
		CreatedAt:      snapshot.CreatedAt,
		UpdatedAt:      time.Now(),
		LastActive:     &lastActive,
	})
	if err != nil {
		return err
	}

	return uow.Commit()
}

// SavedProfiles returns the answers of every stored submission in one of
// states, oldest first. Used to grow the record source at startup.
func (p *GormPersister) SavedProfiles(ctx context.Context, states ...string) ([]map[string]string, error) {
	specs := []specification.Specification{specification.OrderBy{Field: "created_at"}}
	if len(states) > 0 {
		specs = append(specs, specification.ByStates{States: states})
	}

	uow := p.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ProfileSubmissionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	profiles := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		if len(row.Answers) > 0 {
			profiles = append(profiles, row.Answers)
		}
	}
	return profiles, nil
}
