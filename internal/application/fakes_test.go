package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
)

type fakeAuth struct {
	mu        sync.Mutex
	passwords map[string]string
	tokens    map[string]domain.Principal
	accounts  map[string]domain.Principal
	signInErr error
	createErr map[string]error
	getUsers  int
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		passwords: map[string]string{},
		tokens:    map[string]domain.Principal{},
		accounts:  map[string]domain.Principal{},
		createErr: map[string]error{},
	}
}

func (f *fakeAuth) SignInWithPassword(_ context.Context, creds domain.Credentials) (domain.UpstreamSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return domain.UpstreamSession{}, f.signInErr
	}
	if pw, ok := f.passwords[creds.Email]; !ok || pw != creds.Password {
		return domain.UpstreamSession{}, errors.New("Invalid login credentials")
	}
	p := domain.Principal{ID: "uid-" + creds.Email, Email: creds.Email}
	token := "token-" + creds.Email
	f.tokens[token] = p
	return domain.UpstreamSession{AccessToken: token, TokenType: "bearer", User: p}, nil
}

func (f *fakeAuth) GetUser(_ context.Context, accessToken string) (domain.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getUsers++
	p, ok := f.tokens[accessToken]
	if !ok {
		return domain.Principal{}, errors.New("invalid JWT")
	}
	return p, nil
}

func (f *fakeAuth) CreateUser(_ context.Context, creds domain.Credentials) (domain.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.createErr[creds.Email]; err != nil {
		return domain.Principal{}, err
	}
	if _, ok := f.accounts[creds.Email]; ok {
		return domain.Principal{}, fmt.Errorf("%w: %s", domain.ErrAccountExists, creds.Email)
	}
	p := domain.Principal{ID: fmt.Sprintf("account-%d", len(f.accounts)+1), Email: creds.Email}
	f.accounts[creds.Email] = p
	f.passwords[creds.Email] = creds.Password
	return p, nil
}

// fakeRows keeps rows as decoded JSON objects, the way the REST API would see them.
type fakeRows struct {
	mu        sync.Mutex
	tables    map[string][]map[string]any
	ops       []string
	deleteErr map[string]error
	insertErr map[string]error
}

func newFakeRows() *fakeRows {
	return &fakeRows{
		tables:    map[string][]map[string]any{},
		deleteErr: map[string]error{},
		insertErr: map[string]error{},
	}
}

func (f *fakeRows) DeleteAll(_ context.Context, entity string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "delete "+entity)
	if err := f.deleteErr[entity]; err != nil {
		return err
	}
	delete(f.tables, entity)
	return nil
}

func (f *fakeRows) Insert(_ context.Context, entity string, rows any) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	var decoded []map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		var one map[string]any
		if err := json.Unmarshal(raw, &one); err != nil {
			return err
		}
		decoded = append(decoded, one)
	} else if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ops) == 0 || f.ops[len(f.ops)-1] != "insert "+entity {
		f.ops = append(f.ops, "insert "+entity)
	}
	if err := f.insertErr[entity]; err != nil {
		return err
	}
	f.tables[entity] = append(f.tables[entity], decoded...)
	return nil
}

func (f *fakeRows) ids(entity string) map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]bool{}
	for _, row := range f.tables[entity] {
		out[row["id"].(string)] = true
	}
	return out
}

func (f *fakeRows) rows(entity string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.tables[entity]...)
}

type fakeGenerator struct {
	data domain.Dataset
	err  error
}

func (g fakeGenerator) Generate(context.Context) (domain.Dataset, error) {
	return g.data, g.err
}

type fakeJournal struct {
	mu    sync.Mutex
	runs  []domain.SeedRun
	audit []domain.AuditEntry
}

// CreateSeedRun fails on a cancelled context, as the sqlite journal does.
func (j *fakeJournal) CreateSeedRun(ctx context.Context, value domain.SeedRun) (domain.SeedRun, error) {
	if err := ctx.Err(); err != nil {
		return domain.SeedRun{}, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	value.ID = uint(len(j.runs) + 1)
	j.runs = append(j.runs, value)
	return value, nil
}

func (j *fakeJournal) FinishSeedRun(ctx context.Context, value domain.SeedRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs[value.ID-1] = value
	return nil
}

func (j *fakeJournal) ListSeedRuns(_ context.Context, limit int) ([]domain.SeedRun, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if limit > len(j.runs) {
		limit = len(j.runs)
	}
	return append([]domain.SeedRun(nil), j.runs[:limit]...), nil
}

func (j *fakeJournal) CreateAuditEntry(_ context.Context, value domain.AuditEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.audit = append(j.audit, value)
	return nil
}

func (j *fakeJournal) ListAuditEntries(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if limit > len(j.audit) {
		limit = len(j.audit)
	}
	return append([]domain.AuditEntry(nil), j.audit[:limit]...), nil
}

func (j *fakeJournal) actions() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, 0, len(j.audit))
	for _, a := range j.audit {
		out = append(out, a.Action)
	}
	return out
}

// jsonCodec stands in for the signed cookie codec.
type jsonCodec struct{}

func (jsonCodec) Encode(s domain.Session) (string, error) {
	b, err := json.Marshal(s)
	return string(b), err
}

func (jsonCodec) Decode(value string) (domain.Session, error) {
	var s domain.Session
	err := json.Unmarshal([]byte(value), &s)
	return s, err
}
