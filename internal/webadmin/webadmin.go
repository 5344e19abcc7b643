// ABOUTME: Admin web UI package for confhub event management
// ABOUTME: Provides login via the API, the token cookie, and the admin routes

package webadmin

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/2389/confhub/internal/client"
	"github.com/2389/confhub/internal/conference"
	"github.com/2389/confhub/internal/csrf"
)

const (
	// TokenCookieName holds the admin bearer token issued by the API
	TokenCookieName = "confhub_admin_token"

	// CSRFCookieName is the name of the CSRF token cookie
	CSRFCookieName = "confhub_admin_csrf"

	cookiePath = "/admin"
)

// Config holds admin UI configuration
type Config struct {
	// APIBaseURL is where the JSON API is reached, e.g. "http://127.0.0.1:8080"
	APIBaseURL string

	// EventName is shown in page titles
	EventName string

	// HTTPClient is used for API calls. Optional.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Admin handles admin UI routes and authentication
type Admin struct {
	config Config
	logger *slog.Logger
	pages  map[string]*template.Template
	csrf   csrf.Guard
}

// New creates a new Admin handler
func New(cfg Config) (*Admin, error) {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, errors.New("webadmin: API base URL is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "admin")
	}

	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("parsing admin templates: %w", err)
	}

	return &Admin{
		config: cfg,
		logger: logger,
		pages:  pages,
		csrf:   csrf.Guard{CookieName: CSRFCookieName, Path: cookiePath},
	}, nil
}

// RegisterRoutes registers all admin routes on the given mux
func (a *Admin) RegisterRoutes(mux *http.ServeMux) {
	// Public routes (no auth required)
	mux.HandleFunc("GET /admin/login", a.handleLoginPage)
	mux.HandleFunc("POST /admin/login", a.handleLogin)

	// Protected routes (auth required)
	mux.HandleFunc("GET /admin", a.requireAuth(a.handleDashboard))
	mux.HandleFunc("GET /admin/{$}", a.requireAuth(a.handleDashboard))
	mux.HandleFunc("POST /admin/logout", a.handleLogout)

	mux.HandleFunc("POST /admin/speakers", a.requireAuth(a.handleSaveSpeaker))
	mux.HandleFunc("POST /admin/speakers/{id}/delete", a.requireAuth(a.handleDeleteSpeaker))
	mux.HandleFunc("POST /admin/sessions", a.requireAuth(a.handleSaveSession))
	mux.HandleFunc("POST /admin/sessions/{id}/delete", a.requireAuth(a.handleDeleteSession))

	a.logger.Info("admin routes registered")
}

// authedHandler receives a client that carries the caller's admin token
type authedHandler func(w http.ResponseWriter, r *http.Request, api *client.Client)

// requireAuth wraps a handler to require the token cookie. The token itself
// is checked by the API on every call; a rejection there ends the session.
func (a *Admin) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(TokenCookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next(w, r, a.apiClient(cookie.Value))
	}
}

// apiClient returns a client for one request. An empty token gives an
// anonymous client.
func (a *Admin) apiClient(token string, extra ...client.Option) *client.Client {
	opts := []client.Option{client.WithTokenStore(client.NewMemoryTokenStore(token))}
	if a.config.HTTPClient != nil {
		opts = append(opts, client.WithHTTPClient(a.config.HTTPClient))
	}
	return client.New(a.config.APIBaseURL, append(opts, extra...)...)
}

// remoteHost is the browser's address, passed on so the API counts failed
// logins per visitor rather than per web admin.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// setTokenCookie stores the admin token, expiring with the token itself
func setTokenCookie(w http.ResponseWriter, r *http.Request, token string) {
	cookie := &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     cookiePath,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	if exp, ok := tokenExpiry(token); ok {
		cookie.Expires = exp
	}
	http.SetCookie(w, cookie)
}

// clearTokenCookie drops the admin token
func clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     cookiePath,
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// tokenExpiry reads the exp claim without verifying the signature. The
// API verifies the token; this only sizes the cookie.
func tokenExpiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// handleLoginPage renders the login page
func (a *Admin) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in, redirect to dashboard
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}

	csrfToken, err := a.csrf.Ensure(w, r)
	if err != nil {
		a.logger.Error("failed to issue CSRF token", "error", err)
	}
	a.renderLogin(w, http.StatusOK, "", csrfToken)
}

// handleLogin exchanges the submitted password for a token through the API
func (a *Admin) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		csrfToken, _ := a.csrf.Ensure(w, r)
		a.renderLogin(w, http.StatusBadRequest, "Invalid form data", csrfToken)
		return
	}

	if !a.csrf.Valid(r) {
		csrfToken, _ := a.csrf.Ensure(w, r)
		a.renderLogin(w, http.StatusForbidden, "Invalid request, please try again", csrfToken)
		return
	}

	password := r.FormValue("password")
	if password == "" {
		csrfToken, _ := a.csrf.Ensure(w, r)
		a.renderLogin(w, http.StatusBadRequest, "Password is required", csrfToken)
		return
	}

	token, err := a.apiClient("", client.WithForwardedFor(remoteHost(r))).AdminLogin(r.Context(), password)
	if err != nil {
		status, msg := failure(err, "Login failed. Please try again.")
		if status >= http.StatusInternalServerError {
			a.logger.Error("admin login failed", "error", err)
		}
		csrfToken, _ := a.csrf.Ensure(w, r)
		a.renderLogin(w, status, msg, csrfToken)
		return
	}

	setTokenCookie(w, r, token)
	a.logger.Info("admin login successful")
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// handleLogout clears the token. The API keeps no session, so there is
// nothing to revoke server-side.
func (a *Admin) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Validate CSRF - but don't block logout if invalid
	if err := r.ParseForm(); err == nil && !a.csrf.Valid(r) {
		a.logger.Warn("logout request with invalid CSRF token")
	}

	clearTokenCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// failure maps an error to the status and message shown to the admin.
// Validation and API client errors pass their message through; anything
// else is a bad gateway with the fallback message.
func failure(err error, fallback string) (int, string) {
	if errors.Is(err, conference.ErrInvalid) {
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), conference.ErrInvalid.Error()+": ")
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return apiErr.StatusCode, apiErr.Message
	}
	return http.StatusBadGateway, fallback
}
