package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
)

func TestSeedRunsOverHTTPSendsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/console/seed-runs" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("unexpected request %s", r.URL)
		}
		c, err := r.Cookie(cookieName)
		if err != nil || c.Value != "signed-cookie" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`"Unauthorized"`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":2,"status":"succeeded","counts":{"category":12}}]`))
	}))
	defer srv.Close()

	cfg := cliConfig{Transport: "http", Server: srv.URL + "/", Session: "signed-cookie"}
	var runs []domain.SeedRun
	if err := doSeedRuns(context.Background(), cfg, 5, &runs); err != nil {
		t.Fatalf("seed runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != 2 || runs[0].Counts[domain.EntityCategory] != 12 {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	cfg.Session = "stale"
	err := doSeedRuns(context.Background(), cfg, 5, &runs)
	if err == nil || err.Error() != `api error (401): "Unauthorized"` {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestSeedRunsOverHTTPNeedsSession(t *testing.T) {
	cfg := cliConfig{Transport: "http", Server: "http://127.0.0.1:1"}
	if err := doSeedRuns(context.Background(), cfg, 5, nil); !errors.Is(err, errNoSession) {
		t.Fatalf("expected errNoSession, got %v", err)
	}
}

func TestSeedRunsOverSocket(t *testing.T) {
	dir, err := os.MkdirTemp("", "cli")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	path := filepath.Join(dir, "admin.sock")

	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()

	got := make(chan rpcRequest, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		var req rpcRequest
		line, _ := bufio.NewReader(conn).ReadBytes('\n')
		_ = json.Unmarshal(line, &req)
		got <- req
		_, _ = conn.Write([]byte(`{"jsonrpc":"2.0","result":[{"id":1,"status":"failed","error":"delete command: boom"}],"id":1}` + "\n"))
	}()

	var runs []domain.SeedRun
	if err := doSeedRuns(context.Background(), cliConfig{Transport: "uds", Socket: path}, 3, &runs); err != nil {
		t.Fatalf("seed runs: %v", err)
	}
	req := <-got
	if req.Method != "seed.runs" {
		t.Fatalf("method = %q, want seed.runs", req.Method)
	}
	if params, ok := req.Params.(map[string]any); !ok || params["limit"] != float64(3) {
		t.Fatalf("unexpected params: %+v", req.Params)
	}
	if len(runs) != 1 || runs[0].Status != domain.SeedRunFailed || runs[0].Error == "" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}
