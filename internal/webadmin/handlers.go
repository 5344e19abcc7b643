// ABOUTME: Dashboard page and speaker/session form handlers
// ABOUTME: Successful edits redirect for a full reload; failed edits re-render with the form open

package webadmin

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/2389/confhub/internal/client"
	"github.com/2389/confhub/internal/conference"
)

// Dashboard tabs
const (
	tabAttendees = "attendees"
	tabSpeakers  = "speakers"
	tabSessions  = "sessions"
	tabAnalytics = "analytics"
)

var tabOrder = []struct{ name, label string }{
	{tabAttendees, "Attendees"},
	{tabSpeakers, "Speakers"},
	{tabSessions, "Sessions"},
	{tabAnalytics, "Analytics"},
}

const loadErrorMessage = "Failed to load dashboard data"

// parseTab returns the named tab, falling back to attendees.
func parseTab(name string) string {
	for _, t := range tabOrder {
		if t.name == name {
			return name
		}
	}
	return tabAttendees
}

func tabURL(tab string) string {
	return "/admin/?tab=" + url.QueryEscape(tab)
}

// handleDashboard renders the dashboard on the requested tab. ?edit=<id>
// opens the speaker or session form prefilled.
func (a *Admin) handleDashboard(w http.ResponseWriter, r *http.Request, api *client.Client) {
	tab := parseTab(r.URL.Query().Get("tab"))
	editID := r.URL.Query().Get("edit")

	data, ok := a.loadDashboard(w, r, api, tab)
	if !ok {
		return
	}

	if editID != "" {
		switch tab {
		case tabSpeakers:
			for _, sp := range data.Speakers {
				if sp.ID == editID {
					data.SpeakerForm = speakerForm{Speaker: sp}
				}
			}
		case tabSessions:
			for _, row := range data.Sessions {
				if row.ID == editID {
					data.SessionForm = newSessionForm(row.Session, data.Speakers)
				}
			}
		}
	}

	a.renderDashboard(w, http.StatusOK, data)
}

// loadDashboard fetches the snapshot and builds the page data. A load
// failure is shown on the page; a rejected token ends the session and
// reports false.
func (a *Admin) loadDashboard(w http.ResponseWriter, r *http.Request, api *client.Client, tab string) (dashboardData, bool) {
	csrfToken, err := a.csrf.Ensure(w, r)
	if err != nil {
		a.logger.Error("failed to issue CSRF token", "error", err)
	}

	snap, err := NewDashboard(api).Load(r.Context())
	if errors.Is(err, client.ErrUnauthorized) {
		a.sessionExpired(w, r)
		return dashboardData{}, false
	}

	data := a.newDashboardData(tab, snap, csrfToken)
	if err != nil {
		a.logger.Warn("failed to load dashboard", "error", err)
		_, msg := failure(err, loadErrorMessage)
		data.LoadError = msg
	}
	return data, true
}

// sessionExpired clears the token and sends the admin back to login
func (a *Admin) sessionExpired(w http.ResponseWriter, r *http.Request) {
	clearTokenCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// checkForm parses the form and validates CSRF, answering 4xx itself when
// either fails.
func (a *Admin) checkForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return false
	}
	if !a.csrf.Valid(r) {
		http.Error(w, "Invalid CSRF token", http.StatusForbidden)
		return false
	}
	return true
}

// mutationFailed re-renders tab with the error and whatever open() puts
// back into the form.
func (a *Admin) mutationFailed(w http.ResponseWriter, r *http.Request, api *client.Client, tab string, err error, fallback string, open func(*dashboardData)) {
	if errors.Is(err, client.ErrUnauthorized) {
		a.sessionExpired(w, r)
		return
	}

	status, msg := failure(err, fallback)
	if status >= http.StatusInternalServerError {
		a.logger.Error("admin mutation failed", "action", fallback, "error", err)
	}

	data, ok := a.loadDashboard(w, r, api, tab)
	if !ok {
		return
	}
	data.FormError = msg
	if open != nil {
		open(&data)
	}
	a.renderDashboard(w, status, data)
}

func (a *Admin) handleSaveSpeaker(w http.ResponseWriter, r *http.Request, api *client.Client) {
	if !a.checkForm(w, r) {
		return
	}

	sp := conference.Speaker{
		ID:          strings.TrimSpace(r.FormValue("id")),
		Name:        r.FormValue("name"),
		Bio:         r.FormValue("bio"),
		ImageURL:    r.FormValue("imageUrl"),
		LinkedInURL: r.FormValue("linkedinUrl"),
		TwitterURL:  r.FormValue("twitterUrl"),
	}

	saved, err := NewDashboard(api).SaveSpeaker(r.Context(), sp)
	if err != nil {
		a.mutationFailed(w, r, api, tabSpeakers, err, "Failed to save speaker", func(d *dashboardData) {
			d.SpeakerForm = speakerForm{Speaker: sp}
		})
		return
	}

	a.logger.Info("speaker saved", "id", saved.ID)
	http.Redirect(w, r, tabURL(tabSpeakers), http.StatusSeeOther)
}

func (a *Admin) handleDeleteSpeaker(w http.ResponseWriter, r *http.Request, api *client.Client) {
	if !a.checkForm(w, r) {
		return
	}

	id := r.PathValue("id")
	if err := NewDashboard(api).DeleteSpeaker(r.Context(), id); err != nil {
		a.mutationFailed(w, r, api, tabSpeakers, err, "Failed to delete speaker", nil)
		return
	}

	a.logger.Info("speaker deleted", "id", id)
	http.Redirect(w, r, tabURL(tabSpeakers), http.StatusSeeOther)
}

func (a *Admin) handleSaveSession(w http.ResponseWriter, r *http.Request, api *client.Client) {
	if !a.checkForm(w, r) {
		return
	}

	s := conference.Session{
		ID:          strings.TrimSpace(r.FormValue("id")),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Time:        r.FormValue("time"),
		Duration:    r.FormValue("duration"),
		SpeakerIDs:  r.Form["speakerIds"],
	}

	saved, err := NewDashboard(api).SaveSession(r.Context(), s)
	if err != nil {
		a.mutationFailed(w, r, api, tabSessions, err, "Failed to save session", func(d *dashboardData) {
			d.SessionForm = newSessionForm(s, d.Speakers)
		})
		return
	}

	a.logger.Info("session saved", "id", saved.ID)
	http.Redirect(w, r, tabURL(tabSessions), http.StatusSeeOther)
}

func (a *Admin) handleDeleteSession(w http.ResponseWriter, r *http.Request, api *client.Client) {
	if !a.checkForm(w, r) {
		return
	}

	id := r.PathValue("id")
	if err := NewDashboard(api).DeleteSession(r.Context(), id); err != nil {
		a.mutationFailed(w, r, api, tabSessions, err, "Failed to delete session", nil)
		return
	}

	a.logger.Info("session deleted", "id", id)
	http.Redirect(w, r, tabURL(tabSessions), http.StatusSeeOther)
}
