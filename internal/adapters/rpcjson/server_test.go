package rpcjson

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	sqliteadapter "github.com/atvirokodosprendimai/retailadmin/internal/adapters/db/sqlite"
	"github.com/atvirokodosprendimai/retailadmin/internal/adapters/generator"
	"github.com/atvirokodosprendimai/retailadmin/internal/application"
	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
)

type acceptAll struct {
	mu   sync.Mutex
	n    int
	rows map[string]int
}

func (a *acceptAll) SignInWithPassword(context.Context, domain.Credentials) (domain.UpstreamSession, error) {
	return domain.UpstreamSession{}, fmt.Errorf("not used")
}

func (a *acceptAll) GetUser(context.Context, string) (domain.Principal, error) {
	return domain.Principal{}, fmt.Errorf("not used")
}

func (a *acceptAll) CreateUser(_ context.Context, creds domain.Credentials) (domain.Principal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.n++
	return domain.Principal{ID: fmt.Sprintf("acct-%d", a.n), Email: creds.Email}, nil
}

func (a *acceptAll) DeleteAll(context.Context, string) error { return nil }

func (a *acceptAll) Insert(_ context.Context, entity string, _ any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows[entity]++
	return nil
}

func startTestServer(t *testing.T) string {
	t.Helper()
	// unix socket paths are length limited, so keep this one short
	dir, err := os.MkdirTemp("", "rpc")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	db, err := sqliteadapter.OpenJournal(context.Background(), filepath.Join(t.TempDir(), "rpc_test.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	journal := sqliteadapter.NewJournalRepository(db)
	upstream := &acceptAll{rows: map[string]int{}}
	seed := application.NewSeedService(upstream, upstream,
		generator.NewRetail(generator.Options{Seed: 3, Customers: 4, Commands: 6, ProductsPerCategory: 1}),
		journal, application.SeedOptions{CustomerPassword: "password", Concurrency: 2})

	path := filepath.Join(dir, "admin.sock")
	srv, err := Start(path, seed, application.NewJournalService(journal))
	if err != nil {
		t.Fatalf("start rpc: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat socket: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("socket mode = %v, want 0600", info.Mode().Perm())
	}
	return path
}

func roundTrip(t *testing.T, path string, lines ...string) []response {
	t.Helper()
	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	reader := bufio.NewReader(conn)
	out := make([]response, 0, len(lines))
	for _, line := range lines {
		if _, err := conn.Write([]byte(line + "\n")); err != nil {
			t.Fatalf("write: %v", err)
		}
		raw, err := reader.ReadBytes('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var resp response
		if err := json.Unmarshal(raw, &resp); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		out = append(out, resp)
	}
	return out
}

func TestSeedRegenerateIsJournaled(t *testing.T) {
	path := startTestServer(t)

	resps := roundTrip(t, path,
		`{"jsonrpc":"2.0","method":"seed.regenerate","id":1}`,
		`{"jsonrpc":"2.0","method":"seed.runs","params":{"limit":5},"id":2}`,
		`{"jsonrpc":"2.0","method":"audit.list","id":3}`,
	)

	if resps[0].Error != nil {
		t.Fatalf("seed.regenerate failed: %+v", resps[0].Error)
	}
	run := resps[0].Result.(map[string]any)
	if run["status"] != domain.SeedRunSucceeded {
		t.Fatalf("unexpected run: %+v", run)
	}

	runs, ok := resps[1].Result.([]any)
	if !ok || len(runs) != 1 {
		t.Fatalf("expected one journaled run, got %+v", resps[1])
	}

	entries, ok := resps[2].Result.([]any)
	if !ok || len(entries) == 0 {
		t.Fatalf("expected audit entries, got %+v", resps[2])
	}
	if entries[0].(map[string]any)["action"] != "seed.regenerate" {
		t.Fatalf("unexpected newest audit entry: %+v", entries[0])
	}
}

func TestDispatchErrors(t *testing.T) {
	path := startTestServer(t)

	resps := roundTrip(t, path,
		`{"jsonrpc":"1.0","method":"seed.runs","id":1}`,
		`{"jsonrpc":"2.0","method":"graph.trace","id":2}`,
		`{"jsonrpc":"2.0","method":"audit.list","params":{"limit":"ten"},"id":3}`,
	)

	want := []int{-32600, -32601, -32602}
	for i, resp := range resps {
		if resp.Error == nil || resp.Error.Code != want[i] {
			t.Fatalf("response %d: got %+v, want code %d", i, resp.Error, want[i])
		}
	}
}

func TestParseErrorClosesConnection(t *testing.T) {
	path := startTestServer(t)

	resps := roundTrip(t, path, `{not json`)
	if resps[0].Error == nil || resps[0].Error.Code != -32700 {
		t.Fatalf("expected parse error, got %+v", resps[0])
	}
}
