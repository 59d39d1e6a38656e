package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var errNoSession = errors.New("no stored session, run `retailadmin auth login --transport http` first")

func doLogin(ctx context.Context, cfg cliConfig, email, password string, out any) (string, error) {
	if cfg.Transport == "uds" {
		return "", errors.New("login is only available over the http transport")
	}
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()

	client := newAPIClient(cfg.Server, "")
	resp, err := client.request(ctx, http.MethodPost, "/admin/api/login", map[string]any{
		"email":    email,
		"password": password,
	}, out)
	if err != nil {
		return "", err
	}
	cookie := sessionCookie(resp)
	if cookie == "" {
		return "", errors.New("login succeeded without a session cookie")
	}
	return cookie, nil
}

func doWhoAmI(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Session == "" {
		return errNoSession
	}
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()

	client := newAPIClient(cfg.Server, cfg.Session)
	_, err := client.request(ctx, http.MethodGet, "/admin/console/whoami", nil, out)
	return err
}

func doLogout(ctx context.Context, cfg cliConfig) error {
	if cfg.Session == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()

	client := newAPIClient(cfg.Server, cfg.Session)
	_, err := client.request(ctx, http.MethodPost, "/admin/console/logout", nil, nil)
	return err
}

// doSeedRun regenerates the dataset. Over http the init route answers with a
// bare "ok", so out is left untouched.
func doSeedRun(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "seed.regenerate", nil, out)
	}
	client := newAPIClient(cfg.Server, cfg.Session)
	var status string
	if _, err := client.request(ctx, http.MethodGet, "/admin/api/init", nil, &status); err != nil {
		return err
	}
	if status != "ok" {
		return fmt.Errorf("unexpected seed response %q", status)
	}
	return nil
}

func doSeedRuns(ctx context.Context, cfg cliConfig, limit int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "seed.runs", map[string]any{"limit": limit}, out)
	}
	if cfg.Session == "" {
		return errNoSession
	}
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()

	client := newAPIClient(cfg.Server, cfg.Session)
	_, err := client.request(ctx, http.MethodGet, fmt.Sprintf("/admin/console/seed-runs?limit=%d", limit), nil, out)
	return err
}

func doAuditList(ctx context.Context, cfg cliConfig, limit int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "audit.list", map[string]any{"limit": limit}, out)
	}
	if cfg.Session == "" {
		return errNoSession
	}
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()

	client := newAPIClient(cfg.Server, cfg.Session)
	_, err := client.request(ctx, http.MethodGet, fmt.Sprintf("/admin/console/audit?limit=%d", limit), nil, out)
	return err
}
