package unitofwork

import (
	"context"

	"ai-agent-platform/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProfileSubmissionRepository() contract.ProfileSubmissionRepository
}
