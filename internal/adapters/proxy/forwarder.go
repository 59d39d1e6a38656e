package proxy

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
)

const (
	LocalPrefix    = "/admin/api"
	APIVersionPath = "/rest/v1"
)

// Forwarder passes authenticated admin requests through to the hosted REST
// API using the service credential. Only Prefer and Accept survive from the
// inbound request.
type Forwarder struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	prefix     string
}

func New(baseURL, serviceKey string, timeout time.Duration) *Forwarder {
	return &Forwarder{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		prefix:     LocalPrefix,
	}
}

// UpstreamURL maps /admin/api/<rest>?<query> to <base>/rest/v1/<rest>?<query>.
func (f *Forwarder) UpstreamURL(r *http.Request) string {
	rest := strings.TrimPrefix(r.URL.EscapedPath(), f.prefix)
	target := f.baseURL + APIVersionPath + rest
	if r.URL.RawQuery != "" || r.URL.ForceQuery {
		target += "?" + r.URL.RawQuery
	}
	return target
}

// NewUpstreamRequest builds the outbound request. The inbound body is handed
// over as-is, never buffered.
func (f *Forwarder) NewUpstreamRequest(r *http.Request) (*http.Request, error) {
	var (
		method = http.MethodGet
		body   io.Reader
	)
	if r.Method != http.MethodGet {
		method = r.Method
		if r.Body != nil && r.ContentLength != 0 {
			body = r.Body
		}
	}

	out, err := http.NewRequestWithContext(r.Context(), method, f.UpstreamURL(r), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		out.ContentLength = r.ContentLength
	}

	out.Header = http.Header{}
	out.Header.Set("Prefer", r.Header.Get("Prefer"))
	accept := r.Header.Get("Accept")
	if accept == "" {
		accept = "application/json"
	}
	out.Header.Set("Accept", accept)
	out.Header.Set("apikey", f.serviceKey)
	out.Header.Set("Authorization", "Bearer "+f.serviceKey)
	return out, nil
}

// Forward performs the upstream call and streams the response back unchanged.
// An error is returned only when nothing has been written to w yet.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request) error {
	out, err := f.NewUpstreamRequest(r)
	if err != nil {
		return err
	}

	resp, err := f.httpClient.Do(out)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	header := w.Header()
	for key, values := range resp.Header {
		for _, v := range values {
			header.Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("proxy %s %s: copy response: %v", r.Method, r.URL.Path, err)
	}
	return nil
}
