package application

import (
	"context"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
)

// JournalService reads back the local history of seed runs and audit events.
type JournalService struct {
	repo domain.JournalRepository
}

func NewJournalService(repo domain.JournalRepository) *JournalService {
	return &JournalService{repo: repo}
}

func (s *JournalService) ListSeedRuns(ctx context.Context, limit int) ([]domain.SeedRun, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 500 {
		limit = 500
	}
	return s.repo.ListSeedRuns(ctx, limit)
}

func (s *JournalService) ListAuditEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	return s.repo.ListAuditEntries(ctx, limit)
}
