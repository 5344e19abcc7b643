// ABOUTME: Public conference site: hero, schedule, registration form, location, and footer
// ABOUTME: Server-rendered from embedded templates, reading and writing through the API client

package website

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	"golang.org/x/sync/errgroup"

	"github.com/2389/confhub/internal/assets"
	"github.com/2389/confhub/internal/client"
	"github.com/2389/confhub/internal/conference"
	"github.com/2389/confhub/internal/config"
	"github.com/2389/confhub/internal/csrf"
)

//go:embed templates/*.html
var templateFS embed.FS

// CSRFCookieName is the cookie carrying the registration form's CSRF token.
const CSRFCookieName = "confhub_csrf"

// CountRefreshInterval is how often the page polls /registration-count.
const CountRefreshInterval = 30 * time.Second

const (
	scheduleErrorMessage = "Failed to load sessions and speakers"
	registerErrorMessage = "Failed to register. Please try again."
)

// Config holds what the site needs to render.
type Config struct {
	Client *client.Client
	Event  config.EventConfig
	Logger *slog.Logger
}

// Site serves the public pages.
type Site struct {
	client *client.Client
	event  config.EventConfig
	logger *slog.Logger
	tmpl   *template.Template
	md     goldmark.Markdown
	csrf   csrf.Guard
	now    func() time.Time
}

// New parses the templates and returns a Site.
func New(cfg Config) (*Site, error) {
	if cfg.Client == nil {
		return nil, errors.New("website: client is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "website")
	}
	event := cfg.Event
	if len(event.Designations) == 0 {
		event.Designations = conference.DefaultDesignations
	}

	tmpl, err := template.New("site").Funcs(assets.FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Site{
		client: cfg.Client,
		event:  event,
		logger: logger,
		tmpl:   tmpl,
		md:     newMarkdown(),
		csrf:   csrf.Guard{CookieName: CSRFCookieName, Path: "/"},
		now:    time.Now,
	}, nil
}

// RegisterRoutes registers the public routes on the given mux.
func (s *Site) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("GET /registration-count", s.handleCount)
}

// speakerView is a speaker with the bio rendered from markdown.
type speakerView struct {
	conference.Speaker
	BioHTML template.HTML
}

// sessionView is a session with its speakers resolved.
type sessionView struct {
	conference.Session
	DescriptionHTML template.HTML
	Speakers        []speakerView
}

type homeData struct {
	Event        config.EventConfig
	About        template.HTML
	Designations []string
	Year         int

	// RefreshSeconds is the count fragment's polling interval.
	RefreshSeconds int

	Sessions      []sessionView
	ScheduleError string

	Count            int
	CountUnavailable bool

	Form      conference.RegisterRequest
	Success   bool
	Error     string
	CSRFToken string
}

// handleHome renders the landing page.
func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	token, err := s.csrf.Ensure(w, r)
	if err != nil {
		s.logger.Error("failed to issue CSRF token", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := s.load(r.Context())
	data.CSRFToken = token
	data.Form.Designation = data.Designations[0]
	data.Success = r.URL.Query().Get("registered") == "1"

	s.render(w, http.StatusOK, "home", data)
}

// handleRegister submits the registration form. Success redirects back to
// the page so a reload does not resubmit.
func (s *Site) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if !s.csrf.Valid(r) {
		http.Error(w, "Invalid CSRF token", http.StatusForbidden)
		return
	}

	req := conference.RegisterRequest{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		Designation: r.FormValue("designation"),
	}.Normalize()

	if _, err := s.client.Register(r.Context(), req); err != nil {
		status, msg := registerFailure(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("registration failed", "error", err)
		}

		token, _ := s.csrf.Ensure(w, r)
		data := s.load(r.Context())
		data.CSRFToken = token
		data.Form = req
		data.Error = msg
		s.render(w, status, "home", data)
		return
	}

	http.Redirect(w, r, "/?registered=1#register", http.StatusSeeOther)
}

// handleCount renders the registration count fragment polled by the page.
func (s *Site) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.client.RegistrationCount(r.Context())
	if err != nil {
		s.logger.Warn("failed to fetch registration count", "error", err)
		http.Error(w, "count unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	s.render(w, http.StatusOK, "count", homeData{Count: count})
}

// load fetches the schedule and the count in parallel. Either may fail on
// its own; the page still renders with a notice in place of that part.
func (s *Site) load(ctx context.Context) homeData {
	data := homeData{
		Event:        s.event,
		About:        s.renderMarkdown(s.event.About),
		Designations: s.event.Designations,
		Year:         s.now().Year(),

		RefreshSeconds: int(CountRefreshInterval / time.Second),
	}

	var g errgroup.Group
	g.Go(func() error {
		schedule, err := s.client.Schedule(ctx)
		if err != nil {
			s.logger.Warn("failed to load schedule", "error", err)
			data.ScheduleError = scheduleErrorMessage
			return nil
		}
		data.Sessions = s.sessionViews(schedule)
		return nil
	})
	g.Go(func() error {
		count, err := s.client.RegistrationCount(ctx)
		if err != nil {
			s.logger.Warn("failed to fetch registration count", "error", err)
			data.CountUnavailable = true
			return nil
		}
		data.Count = count
		return nil
	})
	_ = g.Wait()

	return data
}

func (s *Site) sessionViews(schedule []conference.SessionWithSpeakers) []sessionView {
	views := make([]sessionView, 0, len(schedule))
	for _, sw := range schedule {
		speakers := make([]speakerView, 0, len(sw.Speakers))
		for _, sp := range sw.Speakers {
			speakers = append(speakers, speakerView{Speaker: sp, BioHTML: s.renderMarkdown(sp.Bio)})
		}
		views = append(views, sessionView{
			Session:         sw.Session,
			DescriptionHTML: s.renderMarkdown(sw.Description),
			Speakers:        speakers,
		})
	}
	return views
}

// registerFailure maps an API error to the status and message shown on the form.
func registerFailure(err error) (int, string) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return apiErr.StatusCode, apiErr.Message
	}
	return http.StatusBadGateway, registerErrorMessage
}

func (s *Site) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("failed to render template", "template", name, "error", err)
	}
}
