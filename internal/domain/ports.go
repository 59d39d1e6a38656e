package domain

import "context"

// AuthProvider is the hosted auth service.
type AuthProvider interface {
	SignInWithPassword(ctx context.Context, creds Credentials) (UpstreamSession, error)
	GetUser(ctx context.Context, accessToken string) (Principal, error)
	CreateUser(ctx context.Context, creds Credentials) (Principal, error)
}

// RowStore is the hosted REST table API, used with the service credential.
type RowStore interface {
	DeleteAll(ctx context.Context, entity string) error
	Insert(ctx context.Context, entity string, rows any) error
}

type DatasetGenerator interface {
	Generate(ctx context.Context) (Dataset, error)
}

type SessionCodec interface {
	Encode(session Session) (string, error)
	Decode(value string) (Session, error)
}

// JournalRepository keeps the local record of seed runs and audit events.
type JournalRepository interface {
	CreateSeedRun(ctx context.Context, value SeedRun) (SeedRun, error)
	FinishSeedRun(ctx context.Context, value SeedRun) error
	ListSeedRuns(ctx context.Context, limit int) ([]SeedRun, error)
	CreateAuditEntry(ctx context.Context, value AuditEntry) error
	ListAuditEntries(ctx context.Context, limit int) ([]AuditEntry, error)
}
