package domain

import "time"

// StrategyAdmin is the only auth strategy this gateway issues sessions for.
const StrategyAdmin = "admin"

type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// UpstreamSession is what the hosted auth service returns on a password sign-in.
// The refresh token is not kept: sessions end with the access token.
type UpstreamSession struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Principal `json:"user"`
}

type Session struct {
	Principal Principal
	Strategy  string
	Upstream  UpstreamSession
	Error     string
}

type Credentials struct {
	Email    string
	Password string
}

const (
	SeedRunRunning   = "running"
	SeedRunSucceeded = "succeeded"
	SeedRunFailed    = "failed"
)

type SeedRun struct {
	ID         uint           `json:"id"`
	Status     string         `json:"status"`
	Counts     map[string]int `json:"counts"`
	Error      string         `json:"error,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

type AuditEntry struct {
	ID         uint      `json:"id"`
	ActorEmail string    `json:"actor_email"`
	Action     string    `json:"action"`
	Target     string    `json:"target"`
	Metadata   string    `json:"metadata"`
	CreatedAt  time.Time `json:"created_at"`
}
