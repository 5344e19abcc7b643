// ABOUTME: Template rendering functions for admin UI
// ABOUTME: Parses the embedded pages once and builds the dashboard view models

package webadmin

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/2389/confhub/internal/assets"
	"github.com/2389/confhub/internal/conference"
)

//go:embed templates/*.html templates/partials/*.html
var templateFS embed.FS

// pageNames are the top-level pages; each is parsed with the base layout
// and all partials.
var pageNames = []string{"login", "dashboard"}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(assets.FuncMap()).ParseFS(templateFS,
			"templates/base.html",
			"templates/"+name+".html",
			"templates/partials/*.html",
		)
		if err != nil {
			return nil, err
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// Template data types
type loginData struct {
	Title     string
	EventName string
	Error     string
	CSRFToken string
}

type tabLink struct {
	Name   string
	Label  string
	Href   string
	Active bool
}

type attendeeRow struct {
	conference.Registration
	Registered string
}

type sessionRow struct {
	conference.Session
	SpeakerNames string
}

type speakerForm struct {
	conference.Speaker
}

// Editing reports whether the form updates an existing speaker
func (f speakerForm) Editing() bool { return f.ID != "" }

type speakerOption struct {
	ID       string
	Name     string
	Selected bool
}

type sessionForm struct {
	conference.Session
	Options []speakerOption
}

// Editing reports whether the form updates an existing session
func (f sessionForm) Editing() bool { return f.ID != "" }

type dashboardData struct {
	Title     string
	EventName string
	Tab       string
	Tabs      []tabLink

	Attendees []attendeeRow
	Speakers  []conference.Speaker
	Sessions  []sessionRow
	Shares    []conference.Share
	Total     int

	SpeakerForm speakerForm
	SessionForm sessionForm

	LoadError string
	FormError string
	CSRFToken string
}

func (a *Admin) newDashboardData(tab string, snap Snapshot, csrfToken string) dashboardData {
	data := dashboardData{
		Title:     "Admin Dashboard",
		EventName: a.config.EventName,
		Tab:       tab,
		Speakers:  snap.Speakers,
		Shares:    conference.Shares(snap.Breakdown),
		CSRFToken: csrfToken,
	}

	for _, t := range tabOrder {
		data.Tabs = append(data.Tabs, tabLink{
			Name:   t.name,
			Label:  t.label,
			Href:   tabURL(t.name),
			Active: t.name == tab,
		})
	}

	data.Attendees = make([]attendeeRow, 0, len(snap.Attendees))
	for _, reg := range snap.Attendees {
		row := attendeeRow{Registration: reg, Registered: "-"}
		if !reg.CreatedAt.IsZero() {
			row.Registered = reg.CreatedAt.UTC().Format("Jan 2, 2006")
		}
		data.Attendees = append(data.Attendees, row)
	}

	data.Sessions = make([]sessionRow, 0, len(snap.Sessions))
	for _, s := range snap.Sessions {
		data.Sessions = append(data.Sessions, sessionRow{
			Session:      s,
			SpeakerNames: strings.Join(conference.SpeakerNames(s.SpeakerIDs, snap.Speakers), ", "),
		})
	}

	for _, share := range data.Shares {
		data.Total += share.Count
	}

	data.SessionForm = newSessionForm(conference.Session{}, snap.Speakers)
	return data
}

// newSessionForm builds the session form with every speaker as an option,
// selecting the ones s references.
func newSessionForm(s conference.Session, speakers []conference.Speaker) sessionForm {
	selected := make(map[string]bool, len(s.SpeakerIDs))
	for _, id := range s.SpeakerIDs {
		selected[strings.TrimSpace(id)] = true
	}
	form := sessionForm{Session: s, Options: make([]speakerOption, 0, len(speakers))}
	for _, sp := range speakers {
		form.Options = append(form.Options, speakerOption{ID: sp.ID, Name: sp.Name, Selected: selected[sp.ID]})
	}
	return form
}

// renderLogin renders the login page
func (a *Admin) renderLogin(w http.ResponseWriter, status int, errorMsg, csrfToken string) {
	a.render(w, status, "login", loginData{
		Title:     "Admin Login",
		EventName: a.config.EventName,
		Error:     errorMsg,
		CSRFToken: csrfToken,
	})
}

// renderDashboard renders the dashboard page
func (a *Admin) renderDashboard(w http.ResponseWriter, status int, data dashboardData) {
	a.render(w, status, "dashboard", data)
}

func (a *Admin) render(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := a.pages[page].ExecuteTemplate(w, "base", data); err != nil {
		a.logger.Error("failed to render page", "page", page, "error", err)
	}
}
