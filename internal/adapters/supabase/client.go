package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
)

const (
	restPath = "/rest/v1"
	authPath = "/auth/v1"
)

// Client talks to the hosted auth and REST APIs with the service-level key.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	timeout    time.Duration
}

func NewClient(baseURL, serviceKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		timeout:    timeout,
	}
}

type call struct {
	method string
	path   string
	bearer string
	prefer string
	in     any
	out    any
}

func (c *Client) do(ctx context.Context, req call) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if req.in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(req.in); err != nil {
			return err
		}
		body = buf
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return err
	}
	bearer := req.bearer
	if bearer == "" {
		bearer = c.serviceKey
	}
	httpReq.Header.Set("apikey", c.serviceKey)
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	httpReq.Header.Set("Accept", "application/json")
	if req.in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if req.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

// APIError is a non-2xx answer from the hosted service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream status %d", e.Status)
	}
	return e.Message
}

// Is lets callers match duplicate-account rejections with domain.ErrAccountExists.
func (e *APIError) Is(target error) bool {
	if target != domain.ErrAccountExists {
		return false
	}
	switch e.Code {
	case "email_exists", "user_already_exists":
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "already been registered") || strings.Contains(msg, "already registered")
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}

	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Code             any    `json:"code"`
		ErrorCode        string `json:"error_code"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}

	apiErr.Message = firstNonEmpty(payload.ErrorDescription, payload.Msg, payload.Message, payload.Error)
	apiErr.Code = payload.ErrorCode
	if code, ok := payload.Code.(string); ok && apiErr.Code == "" {
		apiErr.Code = code
	}
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

