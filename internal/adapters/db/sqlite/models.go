package sqlite

import "time"

type SeedRunModel struct {
	ID         uint   `gorm:"primaryKey"`
	Status     string `gorm:"not null;index"`
	Counts     string `gorm:"not null;default:'{}'"`
	Error      string
	StartedAt  time.Time `gorm:"not null"`
	FinishedAt *time.Time
}

func (SeedRunModel) TableName() string { return "seed_runs" }

type AuditEntryModel struct {
	ID         uint   `gorm:"primaryKey"`
	ActorEmail string `gorm:"not null;default:''"`
	Action     string `gorm:"not null;index"`
	Target     string `gorm:"not null;default:''"`
	Metadata   string
	CreatedAt  time.Time
}

func (AuditEntryModel) TableName() string { return "audit_entries" }
