package supabase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
)

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenPayload struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	ExpiresAt   int64       `json:"expires_at"`
	User        userPayload `json:"user"`
}

func (c *Client) SignInWithPassword(ctx context.Context, creds domain.Credentials) (domain.UpstreamSession, error) {
	var out tokenPayload
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   authPath + "/token?grant_type=password",
		in:     map[string]string{"email": creds.Email, "password": creds.Password},
		out:    &out,
	})
	if err != nil {
		return domain.UpstreamSession{}, err
	}
	if out.AccessToken == "" {
		return domain.UpstreamSession{}, errors.New("No user session found")
	}

	expiresAt := time.Unix(out.ExpiresAt, 0).UTC()
	if out.ExpiresAt == 0 {
		expiresAt = time.Now().UTC().Add(time.Duration(out.ExpiresIn) * time.Second)
	}
	return domain.UpstreamSession{
		AccessToken: out.AccessToken,
		TokenType:   out.TokenType,
		ExpiresAt:   expiresAt,
		User:        domain.Principal{ID: out.User.ID, Email: out.User.Email},
	}, nil
}

// GetUser resolves an end-user access token to its principal.
func (c *Client) GetUser(ctx context.Context, accessToken string) (domain.Principal, error) {
	var out userPayload
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   authPath + "/user",
		bearer: accessToken,
		out:    &out,
	})
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{ID: out.ID, Email: out.Email}, nil
}

// CreateUser provisions a confirmed account through the admin API.
func (c *Client) CreateUser(ctx context.Context, creds domain.Credentials) (domain.Principal, error) {
	var out userPayload
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   authPath + "/admin/users",
		in: map[string]any{
			"email":         creds.Email,
			"password":      creds.Password,
			"email_confirm": true,
		},
		out: &out,
	})
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{ID: out.ID, Email: out.Email}, nil
}
