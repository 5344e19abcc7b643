// ABOUTME: JSON API handlers for registrations, admin login, speakers, sessions, and analytics
// ABOUTME: Converts between wire types and store records and maps store errors to status codes

package gateway

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/2389/confhub/internal/auth"
	"github.com/2389/confhub/internal/conference"
	"github.com/2389/confhub/internal/metrics"
	"github.com/2389/confhub/internal/store"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// registerAPIRoutes registers the public and admin API routes on mux.
func (g *Gateway) registerAPIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/register", g.handleRegister)
	mux.HandleFunc("GET /api/registrations/count", g.handleRegistrationCount)
	mux.HandleFunc("GET /api/speakers", g.handleListSpeakers)
	mux.HandleFunc("GET /api/sessions", g.handleListSessions)
	mux.HandleFunc("POST /api/admin/login", g.handleAdminLogin)

	admin := auth.HTTPAuthMiddleware(g.verifier)
	mux.Handle("GET /api/admin/attendees", admin(http.HandlerFunc(g.handleListAttendees)))
	mux.Handle("GET /api/admin/attendees/{id}", admin(http.HandlerFunc(g.handleGetAttendee)))
	mux.Handle("GET /api/admin/speakers", admin(http.HandlerFunc(g.handleListSpeakers)))
	mux.Handle("POST /api/admin/speakers", admin(http.HandlerFunc(g.handleCreateSpeaker)))
	mux.Handle("PUT /api/admin/speakers/{id}", admin(http.HandlerFunc(g.handleUpdateSpeaker)))
	mux.Handle("DELETE /api/admin/speakers/{id}", admin(http.HandlerFunc(g.handleDeleteSpeaker)))
	mux.Handle("GET /api/admin/sessions", admin(http.HandlerFunc(g.handleListSessions)))
	mux.Handle("POST /api/admin/sessions", admin(http.HandlerFunc(g.handleCreateSession)))
	mux.Handle("PUT /api/admin/sessions/{id}", admin(http.HandlerFunc(g.handleUpdateSession)))
	mux.Handle("DELETE /api/admin/sessions/{id}", admin(http.HandlerFunc(g.handleDeleteSession)))
	mux.Handle("GET /api/admin/analytics/designations", admin(http.HandlerFunc(g.handleDesignations)))

	// Anything else under /api answers in JSON rather than the mux's text 404.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		sendJSONError(w, http.StatusNotFound, "Not found")
	})
}

// handleRegister handles POST /api/register.
func (g *Gateway) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req conference.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		sendJSONError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	reg := &store.Registration{
		Name:        req.Name,
		Email:       req.Email,
		Designation: req.Designation,
	}
	if err := g.store.CreateRegistration(r.Context(), reg); err != nil {
		if errors.Is(err, store.ErrDuplicateRegistration) {
			sendJSONError(w, http.StatusConflict, "Email already registered")
			return
		}
		g.logger.Error("creating registration", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to create registration")
		return
	}

	g.metrics.RecordRegistration()
	g.logger.Info("registration created", "id", reg.ID, "designation", reg.Designation)
	sendJSON(w, http.StatusCreated, registrationToWire(reg))
}

// handleRegistrationCount handles GET /api/registrations/count.
func (g *Gateway) handleRegistrationCount(w http.ResponseWriter, r *http.Request) {
	count, err := g.store.CountRegistrations(r.Context())
	if err != nil {
		g.logger.Error("counting registrations", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to count registrations")
		return
	}
	sendJSON(w, http.StatusOK, conference.CountResponse{Count: count})
}

// handleAdminLogin handles POST /api/admin/login. Failed attempts are counted
// per client address; once the limit is hit the address gets 429 until the
// window passes.
func (g *Gateway) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	key := clientAddr(r)
	if g.limiter.Blocked(key) {
		g.metrics.RecordAdminLogin(metrics.LoginThrottled)
		g.logger.Warn("admin login throttled", "client", key)
		sendJSONError(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
		return
	}

	var req conference.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" {
		sendJSONError(w, http.StatusBadRequest, "Password is required")
		return
	}

	if !g.passwords.Check(req.Password) {
		failures := g.limiter.Fail(key)
		g.metrics.RecordAdminLogin(metrics.LoginFailure)
		g.logger.Warn("admin login failed", "client", key, "failures", failures)
		sendJSONError(w, http.StatusUnauthorized, "Invalid password")
		return
	}
	g.limiter.Reset(key)

	token, err := g.verifier.GenerateAdmin(g.config.Auth.TokenTTL)
	if err != nil {
		g.logger.Error("generating admin token", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	g.metrics.RecordAdminLogin(metrics.LoginSuccess)
	g.logger.Info("admin logged in", "client", key)
	sendJSON(w, http.StatusOK, conference.LoginResponse{Token: token})
}

// handleListAttendees handles GET /api/admin/attendees.
func (g *Gateway) handleListAttendees(w http.ResponseWriter, r *http.Request) {
	regs, err := g.store.ListRegistrations(r.Context())
	if err != nil {
		g.logger.Error("listing registrations", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to fetch attendees")
		return
	}
	resp := make([]conference.Registration, 0, len(regs))
	for _, reg := range regs {
		resp = append(resp, registrationToWire(reg))
	}
	sendJSON(w, http.StatusOK, resp)
}

// handleGetAttendee handles GET /api/admin/attendees/{id}.
func (g *Gateway) handleGetAttendee(w http.ResponseWriter, r *http.Request) {
	reg, err := g.store.GetRegistration(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendJSONError(w, http.StatusNotFound, "Attendee not found")
			return
		}
		g.logger.Error("getting registration", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to fetch attendee")
		return
	}
	sendJSON(w, http.StatusOK, registrationToWire(reg))
}

// handleListSpeakers serves both GET /api/speakers and its admin twin.
func (g *Gateway) handleListSpeakers(w http.ResponseWriter, r *http.Request) {
	speakers, err := g.store.ListSpeakers(r.Context())
	if err != nil {
		g.logger.Error("listing speakers", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to fetch speakers")
		return
	}
	resp := make([]conference.Speaker, 0, len(speakers))
	for _, sp := range speakers {
		resp = append(resp, speakerToWire(sp))
	}
	sendJSON(w, http.StatusOK, resp)
}

// handleCreateSpeaker handles POST /api/admin/speakers.
func (g *Gateway) handleCreateSpeaker(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeSpeaker(w, r)
	if !ok {
		return
	}
	sp := speakerFromWire(in)
	if err := g.store.CreateSpeaker(r.Context(), sp); err != nil {
		g.logger.Error("creating speaker", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to create speaker")
		return
	}
	g.logger.Info("speaker created", "id", sp.ID, "by", auth.PrincipalFrom(r.Context()).Name())
	sendJSON(w, http.StatusCreated, speakerToWire(sp))
}

// handleUpdateSpeaker handles PUT /api/admin/speakers/{id}.
func (g *Gateway) handleUpdateSpeaker(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeSpeaker(w, r)
	if !ok {
		return
	}
	sp := speakerFromWire(in)
	sp.ID = r.PathValue("id")
	if err := g.store.UpdateSpeaker(r.Context(), sp); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendJSONError(w, http.StatusNotFound, "Speaker not found")
			return
		}
		g.logger.Error("updating speaker", "id", sp.ID, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to update speaker")
		return
	}
	sendJSON(w, http.StatusOK, speakerToWire(sp))
}

// handleDeleteSpeaker handles DELETE /api/admin/speakers/{id}. Sessions that
// reference the speaker keep the ID; readers skip it when joining.
func (g *Gateway) handleDeleteSpeaker(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := g.store.DeleteSpeaker(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendJSONError(w, http.StatusNotFound, "Speaker not found")
			return
		}
		g.logger.Error("deleting speaker", "id", id, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to delete speaker")
		return
	}
	g.logger.Info("speaker deleted", "id", id, "by", auth.PrincipalFrom(r.Context()).Name())
	sendJSON(w, http.StatusOK, conference.MessageResponse{Message: "Speaker deleted successfully"})
}

// handleListSessions serves both GET /api/sessions and its admin twin.
func (g *Gateway) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := g.store.ListSessions(r.Context())
	if err != nil {
		g.logger.Error("listing sessions", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to fetch sessions")
		return
	}
	resp := make([]conference.Session, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, sessionToWire(s))
	}
	sendJSON(w, http.StatusOK, resp)
}

// handleCreateSession handles POST /api/admin/sessions.
func (g *Gateway) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeSession(w, r)
	if !ok {
		return
	}
	s := sessionFromWire(in)
	if err := g.store.CreateSession(r.Context(), s); err != nil {
		g.logger.Error("creating session", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	g.logger.Info("session created", "id", s.ID, "by", auth.PrincipalFrom(r.Context()).Name())
	sendJSON(w, http.StatusCreated, sessionToWire(s))
}

// handleUpdateSession handles PUT /api/admin/sessions/{id}.
func (g *Gateway) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeSession(w, r)
	if !ok {
		return
	}
	s := sessionFromWire(in)
	s.ID = r.PathValue("id")
	if err := g.store.UpdateSession(r.Context(), s); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendJSONError(w, http.StatusNotFound, "Session not found")
			return
		}
		g.logger.Error("updating session", "id", s.ID, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to update session")
		return
	}
	sendJSON(w, http.StatusOK, sessionToWire(s))
}

// handleDeleteSession handles DELETE /api/admin/sessions/{id}.
func (g *Gateway) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := g.store.DeleteSession(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendJSONError(w, http.StatusNotFound, "Session not found")
			return
		}
		g.logger.Error("deleting session", "id", id, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	g.logger.Info("session deleted", "id", id, "by", auth.PrincipalFrom(r.Context()).Name())
	sendJSON(w, http.StatusOK, conference.MessageResponse{Message: "Session deleted successfully"})
}

// handleDesignations handles GET /api/admin/analytics/designations.
func (g *Gateway) handleDesignations(w http.ResponseWriter, r *http.Request) {
	rows, err := g.store.DesignationBreakdown(r.Context())
	if err != nil {
		g.logger.Error("computing designation breakdown", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "Failed to fetch registrations")
		return
	}
	resp := make([]conference.DesignationBreakdown, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, conference.DesignationBreakdown{Designation: row.Designation, Count: row.Count})
	}
	sendJSON(w, http.StatusOK, resp)
}

func decodeSpeaker(w http.ResponseWriter, r *http.Request) (conference.Speaker, bool) {
	var sp conference.Speaker
	if err := decodeJSON(w, r, &sp); err != nil {
		sendJSONError(w, http.StatusBadRequest, "Invalid request body")
		return sp, false
	}
	sp = sp.Normalize()
	if err := sp.Validate(); err != nil {
		sendJSONError(w, http.StatusBadRequest, validationMessage(err))
		return sp, false
	}
	return sp, true
}

func decodeSession(w http.ResponseWriter, r *http.Request) (conference.Session, bool) {
	var s conference.Session
	if err := decodeJSON(w, r, &s); err != nil {
		sendJSONError(w, http.StatusBadRequest, "Invalid request body")
		return s, false
	}
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		sendJSONError(w, http.StatusBadRequest, validationMessage(err))
		return s, false
	}
	return s, true
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// validationMessage strips the sentinel prefix so clients see only the
// field-level reason.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), conference.ErrInvalid.Error()+": ")
}

// clientAddr returns the host part of the request's remote address. A
// loopback peer may name the real client in X-Forwarded-For; the web admin
// does so when it relays a browser's login to the API.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
		return host
	}
	first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	if fwd := net.ParseIP(strings.TrimSpace(first)); fwd != nil {
		return fwd.String()
	}
	return host
}

// sendJSON writes v as a JSON response with the given status.
func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// sendJSONError writes a JSON error response.
func sendJSONError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, conference.ErrorResponse{Error: message})
}

func registrationToWire(reg *store.Registration) conference.Registration {
	return conference.Registration{
		ID:          reg.ID,
		Name:        reg.Name,
		Email:       reg.Email,
		Designation: reg.Designation,
		CreatedAt:   reg.CreatedAt,
	}
}

func speakerToWire(sp *store.Speaker) conference.Speaker {
	return conference.Speaker{
		ID:          sp.ID,
		Name:        sp.Name,
		Bio:         sp.Bio,
		ImageURL:    sp.ImageURL,
		LinkedInURL: sp.LinkedInURL,
		TwitterURL:  sp.TwitterURL,
	}
}

func speakerFromWire(sp conference.Speaker) *store.Speaker {
	return &store.Speaker{
		Name:        sp.Name,
		Bio:         sp.Bio,
		ImageURL:    sp.ImageURL,
		LinkedInURL: sp.LinkedInURL,
		TwitterURL:  sp.TwitterURL,
	}
}

func sessionToWire(s *store.Session) conference.Session {
	ids := s.SpeakerIDs
	if ids == nil {
		ids = []string{}
	}
	return conference.Session{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Time:        s.Time,
		Duration:    s.Duration,
		SpeakerIDs:  ids,
	}
}

func sessionFromWire(s conference.Session) *store.Session {
	return &store.Session{
		Title:       s.Title,
		Description: s.Description,
		Time:        s.Time,
		Duration:    s.Duration,
		SpeakerIDs:  s.SpeakerIDs,
	}
}
