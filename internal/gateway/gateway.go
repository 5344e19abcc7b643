// ABOUTME: Gateway orchestrator that owns the store, auth, and the HTTP server
// ABOUTME: Mounts the JSON API, the public site, the admin views, and health endpoints

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/2389/confhub/internal/assets"
	"github.com/2389/confhub/internal/attempts"
	"github.com/2389/confhub/internal/auth"
	"github.com/2389/confhub/internal/client"
	"github.com/2389/confhub/internal/config"
	"github.com/2389/confhub/internal/metrics"
	"github.com/2389/confhub/internal/store"
	"github.com/2389/confhub/internal/webadmin"
	"github.com/2389/confhub/internal/website"
)

// maxTrackedLoginKeys bounds the login limiter's memory.
const maxTrackedLoginKeys = 10_000

// Gateway serves the conference API and the web views over one HTTP server.
type Gateway struct {
	config     *config.Config
	store      store.Store
	verifier   *auth.JWTVerifier
	passwords  *auth.PasswordChecker
	limiter    *attempts.Limiter
	metrics    *metrics.Metrics
	site       *website.Site
	webAdmin   *webadmin.Admin
	httpServer *http.Server
	logger     *slog.Logger
}

// initStore opens the SQLite store at the configured path.
func initStore(cfg *config.Config) (store.Store, error) {
	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return s, nil
}

// newVerifier builds the token verifier. Without a configured secret a random
// one is generated, so issued tokens stop working after a restart.
func newVerifier(cfg *config.Config, logger *slog.Logger) (*auth.JWTVerifier, error) {
	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		generated, err := auth.GenerateSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
		logger.Warn("no jwt_secret configured, generated an ephemeral one; admin tokens will not survive restarts")
	}
	v, err := auth.NewJWTVerifier(secret)
	if err != nil {
		return nil, fmt.Errorf("creating JWT verifier: %w", err)
	}
	return v, nil
}

// New creates a new Gateway instance with the given configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	s, err := initStore(cfg)
	if err != nil {
		return nil, err
	}
	gw, err := newWithStore(cfg, s, logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return gw, nil
}

// newWithStore wires every component around an already opened store.
func newWithStore(cfg *config.Config, s store.Store, logger *slog.Logger) (*Gateway, error) {
	verifier, err := newVerifier(cfg, logger)
	if err != nil {
		return nil, err
	}

	passwords, err := auth.NewPasswordChecker(cfg.Auth.AdminPassword, cfg.Auth.AdminPasswordHash)
	if err != nil {
		return nil, fmt.Errorf("configuring admin password: %w", err)
	}

	gw := &Gateway{
		config:    cfg,
		store:     s,
		verifier:  verifier,
		passwords: passwords,
		limiter:   attempts.New(cfg.Auth.LoginWindow, cfg.Auth.MaxLoginAttempts, maxTrackedLoginKeys),
		logger:    logger.With("component", "gateway"),
	}
	if cfg.Metrics.Enabled {
		gw.metrics = metrics.New()
	}

	mux := http.NewServeMux()

	// Health endpoints - no auth required
	mux.HandleFunc("GET /health", gw.handleHealth)
	mux.HandleFunc("GET /health/ready", gw.handleReady)

	gw.registerAPIRoutes(mux)

	if gw.metrics != nil {
		mux.Handle("GET "+cfg.Metrics.Path, gw.metrics.Handler())
		logger.Info("metrics enabled", "path", cfg.Metrics.Path)
	}

	mux.Handle("GET /static/", http.StripPrefix("/static/", assets.FileServer()))

	// The web views reach the API over HTTP like any other client.
	apiBaseURL := cfg.WebAdminAPIBaseURL()

	gw.site, err = website.New(website.Config{
		Client: client.New(apiBaseURL),
		Event:  cfg.Event,
		Logger: logger.With("component", "website"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating public site: %w", err)
	}
	gw.site.RegisterRoutes(mux)

	gw.webAdmin, err = webadmin.New(webadmin.Config{
		APIBaseURL: apiBaseURL,
		EventName:  cfg.Event.Name,
		Logger:     logger.With("component", "webadmin"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating admin UI: %w", err)
	}
	gw.webAdmin.RegisterRoutes(mux)
	logger.Info("admin web UI enabled at /admin/", "api_base_url", apiBaseURL)

	gw.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           gw.wrap(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return gw, nil
}

// Handler returns the fully wrapped HTTP handler.
func (g *Gateway) Handler() http.Handler {
	return g.httpServer.Handler
}

// startServer starts the HTTP server in a goroutine, returning an error channel.
func (g *Gateway) startServer(ln net.Listener) chan error {
	errCh := make(chan error, 1)

	go func() {
		g.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := g.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or server error.
func (g *Gateway) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		g.logger.Error("server error", "error", err)
		return err
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
// Returns nil on graceful shutdown, or the error that stopped the server.
func (g *Gateway) Run(ctx context.Context) error {
	g.logger.Info("starting gateway", "http_addr", g.config.Server.HTTPAddr)

	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := g.startServer(ln)
	serverErr := g.waitForShutdownSignal(ctx, errCh)

	shutdownErr := g.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout,
// since the run context is already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.Shutdown(ctx)
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown stops the HTTP server and releases the store.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", g.httpServer.Shutdown(ctx))
	errs = appendCloseError(errs, "store close", g.store.Close())

	if g.limiter != nil {
		g.limiter.Close()
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	return nil
}

// handleHealth returns 200 OK if the server is alive.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK once the database answers.
func (g *Gateway) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := g.store.Ping(ctx); err != nil {
		g.logger.Warn("readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
