package website

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/confhub/internal/client"
	"github.com/2389/confhub/internal/conference"
	"github.com/2389/confhub/internal/config"
)

// fakeAPI answers the public API endpoints the site calls.
type fakeAPI struct {
	mu         sync.Mutex
	sessions   []conference.Session
	speakers   []conference.Speaker
	count      int
	failSched  bool
	registerFn func(conference.RegisterRequest) (int, any)
	registered []conference.RegisterRequest
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	switch r.Method + " " + r.URL.Path {
	case "GET /api/sessions":
		if f.failSched {
			reply(http.StatusInternalServerError, conference.ErrorResponse{Error: "Failed to fetch sessions"})
			return
		}
		reply(http.StatusOK, f.sessions)
	case "GET /api/speakers":
		reply(http.StatusOK, f.speakers)
	case "GET /api/registrations/count":
		reply(http.StatusOK, conference.CountResponse{Count: f.count})
	case "POST /api/register":
		var req conference.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.registered = append(f.registered, req)
		if f.registerFn != nil {
			status, body := f.registerFn(req)
			reply(status, body)
			return
		}
		f.count++
		reply(http.StatusCreated, conference.Registration{ID: "r1", Name: req.Name, Email: req.Email})
	default:
		reply(http.StatusNotFound, conference.ErrorResponse{Error: "Not found"})
	}
}

func newTestSite(t *testing.T, api *fakeAPI) *Site {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	site, err := New(Config{
		Client: client.New(srv.URL),
		Event: config.EventConfig{
			Name:    "GopherCon Test",
			Tagline: "A day of Go",
			Date:    "March 3",
			About:   "Bring a **laptop**.",
			Venue:   "Hall A",
			Address: "1 Main St",
			MapURL:  "https://maps.example/embed",
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return site
}

func serve(site *Site, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	site.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHome(t *testing.T) {
	api := &fakeAPI{
		count: 41,
		sessions: []conference.Session{
			{ID: "s1", Title: "Opening Keynote", Description: "All about *generics*", Time: "09:00", Duration: "45 min", SpeakerIDs: []string{"a", "ghost"}},
		},
		speakers: []conference.Speaker{
			{ID: "a", Name: "Ada Lovelace", Bio: "First programmer", TwitterURL: "https://twitter.com/ada"},
			{ID: "b", Name: "Unscheduled"},
		},
	}
	site := newTestSite(t, api)

	rec := serve(site, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "GopherCon Test")
	assert.Contains(t, body, "A day of Go")
	assert.Contains(t, body, "<strong>laptop</strong>", "about text is markdown")
	assert.Contains(t, body, "Opening Keynote")
	assert.Contains(t, body, "<em>generics</em>")
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "https://twitter.com/ada")
	assert.NotContains(t, body, "Unscheduled", "speakers without sessions are not listed")
	assert.Contains(t, body, `<span class="count">41</span> people registered`)
	assert.Contains(t, body, "Hall A")
	assert.Contains(t, body, `src="https://maps.example/embed"`)
	assert.Contains(t, body, `href="/admin/login"`)
	for _, d := range conference.DefaultDesignations {
		assert.Contains(t, body, `<option value="`+d+`"`)
	}

	var csrfCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CSRFCookieName {
			csrfCookie = c
		}
	}
	require.NotNil(t, csrfCookie)
	assert.Contains(t, body, `name="csrf_token" value="`+csrfCookie.Value+`"`)
}

func TestHome_EmptySchedule(t *testing.T) {
	site := newTestSite(t, &fakeAPI{})

	rec := serve(site, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No sessions available yet")
}

func TestHome_ScheduleFailure(t *testing.T) {
	site := newTestSite(t, &fakeAPI{failSched: true, count: 3})

	rec := serve(site, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code, "page still renders")
	body := rec.Body.String()
	assert.Contains(t, body, "Failed to load sessions and speakers")
	assert.Contains(t, body, `<span class="count">3</span>`, "count is independent of the schedule")
}

func TestHome_SuccessBanner(t *testing.T) {
	site := newTestSite(t, &fakeAPI{})

	rec := serve(site, httptest.NewRequest(http.MethodGet, "/?registered=1", nil))
	assert.Contains(t, rec.Body.String(), "Registration successful!")
}

func TestHome_MarkdownDropsRawHTML(t *testing.T) {
	api := &fakeAPI{
		sessions: []conference.Session{{ID: "s1", Title: "T", Description: "<script>alert(1)</script>hello", Time: "1"}},
	}
	site := newTestSite(t, api)

	rec := serve(site, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
}

func postRegister(t *testing.T, site *Site, form url.Values, withCSRF bool) *httptest.ResponseRecorder {
	t.Helper()
	if withCSRF {
		form.Set("csrf_token", "tok")
	}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if withCSRF {
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
	}
	return serve(site, req)
}

func TestRegister_Success(t *testing.T) {
	api := &fakeAPI{}
	site := newTestSite(t, api)

	rec := postRegister(t, site, url.Values{
		"name":        {" Grace "},
		"email":       {"Grace@Example.com"},
		"designation": {"Student"},
	}, true)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?registered=1#register", rec.Header().Get("Location"))

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.registered, 1)
	assert.Equal(t, conference.RegisterRequest{Name: "Grace", Email: "grace@example.com", Designation: "Student"}, api.registered[0])
}

func TestRegister_MissingCSRF(t *testing.T) {
	api := &fakeAPI{}
	site := newTestSite(t, api)

	rec := postRegister(t, site, url.Values{"name": {"G"}, "email": {"g@x.io"}, "designation": {"Student"}}, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Empty(t, api.registered, "API must not be called")
}

func TestRegister_Duplicate(t *testing.T) {
	api := &fakeAPI{
		registerFn: func(conference.RegisterRequest) (int, any) {
			return http.StatusConflict, conference.ErrorResponse{Error: "Email already registered"}
		},
	}
	site := newTestSite(t, api)

	rec := postRegister(t, site, url.Values{"name": {"Grace"}, "email": {"g@x.io"}, "designation": {"Designer"}}, true)
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Email already registered")
	assert.Contains(t, body, `value="Grace"`, "form keeps what the user typed")
	assert.Contains(t, body, `<option value="Designer" selected>`)
}

func TestRegister_BackendDown(t *testing.T) {
	api := &fakeAPI{
		registerFn: func(conference.RegisterRequest) (int, any) {
			return http.StatusInternalServerError, conference.ErrorResponse{Error: "Failed to create registration"}
		},
	}
	site := newTestSite(t, api)

	rec := postRegister(t, site, url.Values{"name": {"Grace"}, "email": {"g@x.io"}, "designation": {"Designer"}}, true)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to register. Please try again.")
}

func TestRegistrationCountFragment(t *testing.T) {
	site := newTestSite(t, &fakeAPI{count: 1})

	rec := serve(site, httptest.NewRequest(http.MethodGet, "/registration-count", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `<span class="count">1</span> person registered`, strings.TrimSpace(rec.Body.String()))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
