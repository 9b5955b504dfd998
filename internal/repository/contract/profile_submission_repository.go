package contract

import (
	"context"

	"ai-agent-platform/internal/entity"
	"ai-agent-platform/internal/repository/specification"
)

type ProfileSubmissionRepository interface {
	// Upsert inserts the submission or overwrites the row with the same
	// session id. Columns left zero in submission are still written.
	Upsert(ctx context.Context, submission *entity.ProfileSubmission) error
	// UpsertAnswers writes only the answers of a session, creating the row
	// in state "active" when it does not exist yet.
	UpsertAnswers(ctx context.Context, sessionId string, answers map[string]string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProfileSubmission, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProfileSubmission, error)
}
