package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/retailadmin/internal/adapters/proxy"
	"github.com/atvirokodosprendimai/retailadmin/internal/application"
	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	sessionCookieName = "admin"
	maxLoginBody      = 1 << 20

	// a seed run outlives the request that started it
	seedRunTimeout = 15 * time.Minute
)

type contextKey string

const sessionKey contextKey = "session"

type Options struct {
	SecureCookies    bool
	SessionMaxAge    int
	SeedRouteEnabled bool
}

type Handler struct {
	auth      *application.AuthService
	seed      *application.SeedService
	journal   *application.JournalService
	forwarder *proxy.Forwarder
	opts      Options
}

func NewRouter(auth *application.AuthService, seed *application.SeedService, journal *application.JournalService, forwarder *proxy.Forwarder, opts Options) http.Handler {
	h := &Handler{auth: auth, seed: seed, journal: journal, forwarder: forwarder, opts: opts}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)

	r.Route(proxy.LocalPrefix, func(api chi.Router) {
		api.Post("/login", h.handleLogin)
		if opts.SeedRouteEnabled {
			api.Get("/init", h.handleInit)
		}
		api.With(h.requireSession).HandleFunc("/*", h.handleProxy)
	})

	r.Route("/admin/console", func(console chi.Router) {
		console.Post("/logout", h.handleLogout)
		console.With(h.requireSession).Get("/whoami", h.handleWhoAmI)
		console.With(h.requireSession).Get("/seed-runs", h.handleSeedRuns)
		console.With(h.requireSession).Get("/audit", h.handleAudit)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxLoginBody))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, "Invalid request body")
		return
	}

	session, token, err := h.auth.LoginWithSession(r.Context(), payload)
	if err != nil {
		var authErr *domain.AuthorizationError
		if errors.As(err, &authErr) {
			writeJSON(w, http.StatusInternalServerError, authErr.Reason)
			return
		}
		log.Printf("login: %v", err)
		writeJSON(w, http.StatusInternalServerError, "No user session found")
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{"email": session.Principal.Email})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if session, authErr := h.auth.AuthenticateSession(r.Context(), c.Value); authErr == nil {
			h.auth.Logout(r.Context(), session)
		}
	}
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleInit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), seedRunTimeout)
	defer cancel()
	run, err := h.seed.Regenerate(ctx)
	if err != nil {
		log.Printf("seed run %d failed: %v", run.ID, err)
		writeJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, "ok")
}

func (h *Handler) handleProxy(w http.ResponseWriter, r *http.Request) {
	if err := h.forwarder.Forward(w, r); err != nil {
		log.Printf("proxy %s %s: %v", r.Method, r.URL.Path, err)
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": "upstream unavailable"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
}

func (h *Handler) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         session.Principal.ID,
		"email":      session.Principal.Email,
		"strategy":   session.Strategy,
		"expires_at": session.Upstream.ExpiresAt,
	})
}

func (h *Handler) handleSeedRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.journal.ListSeedRuns(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journal.ListAuditEntries(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// requireSession admits a request only with a live admin session. Rejected
// requests never reach the upstream data API.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookieName)
		if err != nil || strings.TrimSpace(c.Value) == "" {
			writeJSON(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		session, err := h.auth.AuthenticateSession(r.Context(), c.Value)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	})
}

func sessionFromContext(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(sessionKey).(domain.Session)
	return session, ok
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.opts.SecureCookies,
		MaxAge:   h.opts.SessionMaxAge,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.opts.SecureCookies,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return 0
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
