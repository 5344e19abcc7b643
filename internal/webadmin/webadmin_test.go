package webadmin

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/confhub/internal/auth"
	"github.com/2389/confhub/internal/conference"
)

const (
	testPassword = "s3cret"
	testCSRF     = "csrf-token"
)

// apiServer is a small stand-in for the gateway's JSON API, guarded by the
// real auth middleware.
type apiServer struct {
	mu        sync.Mutex
	verifier  *auth.JWTVerifier
	attendees []conference.Registration
	speakers  []conference.Speaker
	sessions  []conference.Session
	failLists bool
	lastBody  map[string]any
	loginFrom string
}

func newAPIServer(t *testing.T) (*apiServer, *httptest.Server) {
	t.Helper()
	verifier, err := auth.NewJWTVerifier([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	api := &apiServer{
		verifier: verifier,
		attendees: []conference.Registration{
			{ID: "r1", Name: "Ada Lovelace", Email: "ada@example.com", Designation: "Software Engineer", CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
			{ID: "r2", Name: "No Date", Email: "nodate@example.com", Designation: "Student"},
		},
		speakers: []conference.Speaker{{ID: "sp1", Name: "Grace Hopper", Bio: "Admiral"}},
		sessions: []conference.Session{{ID: "s1", Title: "Compilers", Time: "10:00", SpeakerIDs: []string{"sp1"}}},
	}

	reply := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	admin := http.NewServeMux()
	admin.HandleFunc("GET /api/admin/attendees", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		if api.failLists {
			reply(w, http.StatusInternalServerError, conference.ErrorResponse{Error: "Failed to fetch attendees"})
			return
		}
		reply(w, http.StatusOK, api.attendees)
	})
	admin.HandleFunc("GET /api/admin/speakers", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		reply(w, http.StatusOK, api.speakers)
	})
	admin.HandleFunc("GET /api/admin/sessions", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		reply(w, http.StatusOK, api.sessions)
	})
	admin.HandleFunc("GET /api/admin/analytics/designations", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []conference.DesignationBreakdown{
			{Designation: "Software Engineer", Count: 3},
			{Designation: "Student", Count: 1},
		})
	})
	admin.HandleFunc("POST /api/admin/speakers", func(w http.ResponseWriter, r *http.Request) {
		var sp conference.Speaker
		_ = json.NewDecoder(r.Body).Decode(&sp)
		api.mu.Lock()
		defer api.mu.Unlock()
		sp.ID = "sp2"
		api.speakers = append(api.speakers, sp)
		reply(w, http.StatusCreated, sp)
	})
	admin.HandleFunc("PUT /api/admin/speakers/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusNotFound, conference.ErrorResponse{Error: "Speaker not found"})
	})
	admin.HandleFunc("DELETE /api/admin/speakers/{id}", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		kept := api.speakers[:0]
		for _, sp := range api.speakers {
			if sp.ID != r.PathValue("id") {
				kept = append(kept, sp)
			}
		}
		api.speakers = kept
		reply(w, http.StatusOK, conference.MessageResponse{Message: "Speaker deleted successfully"})
	})
	admin.HandleFunc("POST /api/admin/sessions", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		api.mu.Lock()
		defer api.mu.Unlock()
		api.lastBody = body
		body["id"] = "s2"
		reply(w, http.StatusCreated, body)
	})
	admin.HandleFunc("DELETE /api/admin/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusInternalServerError, conference.ErrorResponse{Error: "Failed to delete session"})
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var req conference.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		api.mu.Lock()
		api.loginFrom = r.Header.Get("X-Forwarded-For")
		api.mu.Unlock()
		if req.Password != testPassword {
			reply(w, http.StatusUnauthorized, conference.ErrorResponse{Error: "Invalid password"})
			return
		}
		token, err := verifier.GenerateAdmin(time.Hour)
		if err != nil {
			reply(w, http.StatusInternalServerError, conference.ErrorResponse{Error: "Failed to generate token"})
			return
		}
		reply(w, http.StatusOK, conference.LoginResponse{Token: token})
	})
	mux.Handle("/api/admin/", auth.HTTPAuthMiddleware(verifier)(admin))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api, srv
}

func newTestAdmin(t *testing.T) (*Admin, *apiServer, *http.ServeMux) {
	t.Helper()
	api, srv := newAPIServer(t)

	admin, err := New(Config{
		APIBaseURL: srv.URL,
		EventName:  "GopherCon Test",
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	mux := http.NewServeMux()
	admin.RegisterRoutes(mux)
	return admin, api, mux
}

func validToken(t *testing.T, api *apiServer) string {
	t.Helper()
	token, err := api.verifier.GenerateAdmin(time.Hour)
	require.NoError(t, err)
	return token
}

// get performs an authenticated GET.
func get(mux *http.ServeMux, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// post submits a form with a matching CSRF cookie and field.
func post(mux *http.ServeMux, target, token string, form url.Values) *httptest.ResponseRecorder {
	form.Set("csrf_token", testCSRF)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRF})
	if token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestNew_RequiresAPIBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestLoginPage(t *testing.T) {
	_, _, mux := newTestAdmin(t)

	rec := get(mux, "/admin/login", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/admin/login"`)

	csrfCookie := findCookie(rec, CSRFCookieName)
	require.NotNil(t, csrfCookie)
	assert.Equal(t, "/admin", csrfCookie.Path)
	assert.Contains(t, rec.Body.String(), `value="`+csrfCookie.Value+`"`)
}

func TestLoginPage_AlreadyLoggedIn(t *testing.T) {
	_, _, mux := newTestAdmin(t)

	rec := get(mux, "/admin/login", "some-token")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/", rec.Header().Get("Location"))
}

func TestLogin(t *testing.T) {
	_, api, mux := newTestAdmin(t)

	t.Run("success sets token cookie", func(t *testing.T) {
		rec := post(mux, "/admin/login", "", url.Values{"password": {testPassword}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/", rec.Header().Get("Location"))

		cookie := findCookie(rec, TokenCookieName)
		require.NotNil(t, cookie)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/admin", cookie.Path)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.WithinDuration(t, time.Now().Add(time.Hour), cookie.Expires, time.Minute)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := post(mux, "/admin/login", "", url.Values{"password": {"nope"}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid password")
		assert.Nil(t, findCookie(rec, TokenCookieName))
	})

	t.Run("forwards the browser address", func(t *testing.T) {
		form := url.Values{"password": {"nope"}, "csrf_token": {testCSRF}}
		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRF})
		req.RemoteAddr = "203.0.113.5:40000"
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		api.mu.Lock()
		defer api.mu.Unlock()
		assert.Equal(t, "203.0.113.5", api.loginFrom)
	})

	t.Run("empty password", func(t *testing.T) {
		rec := post(mux, "/admin/login", "", url.Values{"password": {""}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Password is required")
	})

	t.Run("missing csrf", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader("password="+testPassword))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Nil(t, findCookie(rec, TokenCookieName))
	})
}

func TestLogin_APIDown(t *testing.T) {
	admin, err := New(Config{
		APIBaseURL: "http://127.0.0.1:1",
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	mux := http.NewServeMux()
	admin.RegisterRoutes(mux)

	rec := post(mux, "/admin/login", "", url.Values{"password": {testPassword}})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login failed. Please try again.")
}

func TestLogout(t *testing.T) {
	_, api, mux := newTestAdmin(t)

	rec := post(mux, "/admin/logout", validToken(t, api), url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	cookie := findCookie(rec, TokenCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestDashboard_RequiresToken(t *testing.T) {
	_, _, mux := newTestAdmin(t)

	for _, target := range []string{"/admin", "/admin/", "/admin/?tab=speakers"} {
		rec := get(mux, target, "")
		assert.Equal(t, http.StatusSeeOther, rec.Code, target)
		assert.Equal(t, "/admin/login", rec.Header().Get("Location"), target)
	}
}

func TestDashboard_RejectedTokenLogsOut(t *testing.T) {
	_, _, mux := newTestAdmin(t)

	rec := get(mux, "/admin/", "not-a-jwt")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	cookie := findCookie(rec, TokenCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestDashboard_Tabs(t *testing.T) {
	_, api, mux := newTestAdmin(t)
	token := validToken(t, api)

	t.Run("attendees by default", func(t *testing.T) {
		rec := get(mux, "/admin/", token)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Attendees (2)")
		assert.Contains(t, body, "ada@example.com")
		assert.Contains(t, body, "Mar 1, 2026")
		assert.Contains(t, body, "<td>-</td>", "missing date renders as a dash")
		assert.Contains(t, body, `class="active" aria-current="page">Attendees`)
	})

	t.Run("unknown tab falls back to attendees", func(t *testing.T) {
		rec := get(mux, "/admin/?tab=bogus", token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Attendees (2)")
	})

	t.Run("speakers", func(t *testing.T) {
		rec := get(mux, "/admin/?tab=speakers", token)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Grace Hopper")
		assert.Contains(t, body, "Add Speaker")
		assert.Contains(t, body, `action="/admin/speakers/sp1/delete"`)
	})

	t.Run("speaker edit form is prefilled", func(t *testing.T) {
		rec := get(mux, "/admin/?tab=speakers&edit=sp1", token)
		body := rec.Body.String()
		assert.Contains(t, body, "Edit Speaker")
		assert.Contains(t, body, `name="id" value="sp1"`)
		assert.Contains(t, body, `value="Grace Hopper"`)
	})

	t.Run("sessions show speaker names", func(t *testing.T) {
		rec := get(mux, "/admin/?tab=sessions", token)
		body := rec.Body.String()
		assert.Contains(t, body, "Compilers")
		assert.Contains(t, body, "<td>Grace Hopper</td>")
		assert.Contains(t, body, `<option value="sp1">Grace Hopper</option>`)
	})

	t.Run("session edit form selects its speakers", func(t *testing.T) {
		rec := get(mux, "/admin/?tab=sessions&edit=s1", token)
		assert.Contains(t, rec.Body.String(), `<option value="sp1" selected>Grace Hopper</option>`)
	})

	t.Run("analytics", func(t *testing.T) {
		rec := get(mux, "/admin/?tab=analytics", token)
		body := rec.Body.String()
		assert.Contains(t, body, "Software Engineer")
		assert.Contains(t, body, "75.0%")
		assert.Contains(t, body, "25.0%")
		assert.Contains(t, body, "Total registrations: <strong>4</strong>")
	})
}

func TestDashboard_LoadFailureKeepsView(t *testing.T) {
	_, api, mux := newTestAdmin(t)
	api.failLists = true

	rec := get(mux, "/admin/?tab=speakers", validToken(t, api))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, loadErrorMessage)
	assert.Contains(t, body, "Speakers (0)", "all lists are emptied")
	assert.NotContains(t, body, "Grace Hopper")
}

func TestSaveSpeaker(t *testing.T) {
	_, api, mux := newTestAdmin(t)
	token := validToken(t, api)

	rec := post(mux, "/admin/speakers", token, url.Values{"name": {"Barbara Liskov"}, "bio": {"Substitution"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/?tab=speakers", rec.Header().Get("Location"))

	api.mu.Lock()
	assert.Len(t, api.speakers, 2)
	api.mu.Unlock()
}

func TestSaveSpeaker_FailureKeepsForm(t *testing.T) {
	_, api, mux := newTestAdmin(t)
	token := validToken(t, api)

	t.Run("validation", func(t *testing.T) {
		rec := post(mux, "/admin/speakers", token, url.Values{"name": {"Barbara"}, "twitterUrl": {"javascript:alert(1)"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "twitterUrl must be an absolute http(s) URL")
		assert.Contains(t, body, `value="Barbara"`)
	})

	t.Run("api rejects update", func(t *testing.T) {
		rec := post(mux, "/admin/speakers", token, url.Values{"id": {"gone"}, "name": {"Ghost"}})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Speaker not found")
		assert.Contains(t, body, "Edit Speaker")
		assert.Contains(t, body, `value="Ghost"`)
	})
}

func TestMutation_RequiresCSRF(t *testing.T) {
	_, api, mux := newTestAdmin(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/speakers", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: validToken(t, api)})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	api.mu.Lock()
	assert.Len(t, api.speakers, 1)
	api.mu.Unlock()
}

func TestDeleteSpeaker(t *testing.T) {
	_, api, mux := newTestAdmin(t)

	rec := post(mux, "/admin/speakers/sp1/delete", validToken(t, api), url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/?tab=speakers", rec.Header().Get("Location"))

	api.mu.Lock()
	assert.Empty(t, api.speakers)
	api.mu.Unlock()
}

func TestSaveSession(t *testing.T) {
	_, api, mux := newTestAdmin(t)

	rec := post(mux, "/admin/sessions", validToken(t, api), url.Values{
		"title":      {"Concurrency"},
		"time":       {"11:00"},
		"speakerIds": {"sp1", "sp1"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/?tab=sessions", rec.Header().Get("Location"))

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, "Concurrency", api.lastBody["title"])
	assert.Equal(t, []any{"sp1"}, api.lastBody["speakerIds"])
}

func TestSaveSession_ValidationKeepsSelection(t *testing.T) {
	_, api, mux := newTestAdmin(t)

	rec := post(mux, "/admin/sessions", validToken(t, api), url.Values{
		"title":      {"No time"},
		"speakerIds": {"sp1"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "time is required")
	assert.Contains(t, body, `<option value="sp1" selected>Grace Hopper</option>`)
}

func TestDeleteSession_ServerError(t *testing.T) {
	_, api, mux := newTestAdmin(t)

	rec := post(mux, "/admin/sessions/s1/delete", validToken(t, api), url.Values{})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to delete session")
}

func TestTokenExpiry(t *testing.T) {
	_, api, _ := newTestAdmin(t)

	exp, ok := tokenExpiry(validToken(t, api))
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	_, ok = tokenExpiry("garbage")
	assert.False(t, ok)
}

func TestParseTab(t *testing.T) {
	assert.Equal(t, tabSessions, parseTab("sessions"))
	assert.Equal(t, tabAttendees, parseTab(""))
	assert.Equal(t, tabAttendees, parseTab("SESSIONS"))
}
