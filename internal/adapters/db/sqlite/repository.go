package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
	"gorm.io/gorm"
)

type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) CreateSeedRun(ctx context.Context, value domain.SeedRun) (domain.SeedRun, error) {
	counts, err := encodeCounts(value.Counts)
	if err != nil {
		return domain.SeedRun{}, err
	}
	m := SeedRunModel{
		Status:     defaultString(value.Status, domain.SeedRunRunning),
		Counts:     counts,
		Error:      value.Error,
		StartedAt:  defaultTime(value.StartedAt),
		FinishedAt: value.FinishedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.SeedRun{}, err
	}
	return toSeedRun(m), nil
}

func (r *JournalRepository) FinishSeedRun(ctx context.Context, value domain.SeedRun) error {
	counts, err := encodeCounts(value.Counts)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&SeedRunModel{}).Where("id = ?", value.ID).Updates(map[string]any{
		"status":      value.Status,
		"counts":      counts,
		"error":       value.Error,
		"finished_at": value.FinishedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *JournalRepository) ListSeedRuns(ctx context.Context, limit int) ([]domain.SeedRun, error) {
	rows := make([]SeedRunModel, 0)
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.SeedRun, 0, len(rows))
	for _, m := range rows {
		result = append(result, toSeedRun(m))
	}
	return result, nil
}

func (r *JournalRepository) CreateAuditEntry(ctx context.Context, value domain.AuditEntry) error {
	m := AuditEntryModel{ActorEmail: value.ActorEmail, Action: value.Action, Target: value.Target, Metadata: value.Metadata}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *JournalRepository) ListAuditEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	rows := make([]AuditEntryModel, 0)
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.AuditEntry, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.AuditEntry{
			ID:         m.ID,
			ActorEmail: m.ActorEmail,
			Action:     m.Action,
			Target:     m.Target,
			Metadata:   m.Metadata,
			CreatedAt:  m.CreatedAt,
		})
	}
	return result, nil
}

func toSeedRun(m SeedRunModel) domain.SeedRun {
	counts := map[string]int{}
	// a malformed counts column reads as empty
	_ = json.Unmarshal([]byte(m.Counts), &counts)
	return domain.SeedRun{
		ID:         m.ID,
		Status:     m.Status,
		Counts:     counts,
		Error:      m.Error,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
}

func encodeCounts(counts map[string]int) (string, error) {
	if counts == nil {
		return "{}", nil
	}
	b, err := json.Marshal(counts)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func defaultString(input, fallback string) string {
	if input == "" {
		return fallback
	}
	return input
}

func defaultTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
