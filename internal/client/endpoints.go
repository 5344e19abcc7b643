// ABOUTME: Typed endpoint functions for registrations, admin login, speakers, sessions, and analytics
// ABOUTME: List calls always return a non-nil slice, even when the API answers null

package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/2389/confhub/internal/conference"
)

// Register signs up an attendee.
func (c *Client) Register(ctx context.Context, req conference.RegisterRequest) (*conference.Registration, error) {
	var reg conference.Registration
	if err := c.do(ctx, http.MethodPost, "/api/register", req, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// RegistrationCount returns the number of registered attendees.
func (c *Client) RegistrationCount(ctx context.Context) (int, error) {
	var resp conference.CountResponse
	if err := c.do(ctx, http.MethodGet, "/api/registrations/count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// AdminLogin exchanges the admin password for a token and stores it.
func (c *Client) AdminLogin(ctx context.Context, password string) (string, error) {
	var resp conference.LoginResponse
	if err := c.do(ctx, http.MethodPost, adminPrefix+"/login", conference.LoginRequest{Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login response carried no token")
	}
	if err := c.tokens.SetToken(resp.Token); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Logout forgets the stored admin token. The server keeps no session state.
func (c *Client) Logout() error {
	return c.tokens.ClearToken()
}

// Attendees lists every registration. Requires an admin token.
func (c *Client) Attendees(ctx context.Context) ([]conference.Registration, error) {
	var regs []conference.Registration
	if err := c.do(ctx, http.MethodGet, adminPrefix+"/attendees", nil, &regs); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []conference.Registration{}
	}
	return regs, nil
}

// Attendee fetches a single registration. Requires an admin token.
func (c *Client) Attendee(ctx context.Context, id string) (*conference.Registration, error) {
	var reg conference.Registration
	if err := c.do(ctx, http.MethodGet, adminPrefix+"/attendees/"+url.PathEscape(id), nil, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Speakers lists speakers through the admin endpoint when a token is held,
// otherwise through the public one.
func (c *Client) Speakers(ctx context.Context) ([]conference.Speaker, error) {
	path := "/api/speakers"
	if c.HasToken() {
		path = adminPrefix + "/speakers"
	}

	var speakers []conference.Speaker
	if err := c.do(ctx, http.MethodGet, path, nil, &speakers); err != nil {
		return nil, err
	}
	if speakers == nil {
		speakers = []conference.Speaker{}
	}
	return speakers, nil
}

// CreateSpeaker adds a speaker and returns it with its assigned ID.
func (c *Client) CreateSpeaker(ctx context.Context, sp conference.Speaker) (*conference.Speaker, error) {
	var created conference.Speaker
	if err := c.do(ctx, http.MethodPost, adminPrefix+"/speakers", sp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSpeaker replaces the speaker with the given ID.
func (c *Client) UpdateSpeaker(ctx context.Context, id string, sp conference.Speaker) (*conference.Speaker, error) {
	var updated conference.Speaker
	if err := c.do(ctx, http.MethodPut, adminPrefix+"/speakers/"+url.PathEscape(id), sp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSpeaker removes a speaker.
func (c *Client) DeleteSpeaker(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, adminPrefix+"/speakers/"+url.PathEscape(id), nil, nil)
}

// Sessions lists sessions, choosing the endpoint the same way as Speakers.
func (c *Client) Sessions(ctx context.Context) ([]conference.Session, error) {
	path := "/api/sessions"
	if c.HasToken() {
		path = adminPrefix + "/sessions"
	}

	var sessions []conference.Session
	if err := c.do(ctx, http.MethodGet, path, nil, &sessions); err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []conference.Session{}
	}
	for i := range sessions {
		if sessions[i].SpeakerIDs == nil {
			sessions[i].SpeakerIDs = []string{}
		}
	}
	return sessions, nil
}

// CreateSession adds a session and returns it with its assigned ID.
func (c *Client) CreateSession(ctx context.Context, s conference.Session) (*conference.Session, error) {
	var created conference.Session
	if err := c.do(ctx, http.MethodPost, adminPrefix+"/sessions", s, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSession replaces the session with the given ID.
func (c *Client) UpdateSession(ctx context.Context, id string, s conference.Session) (*conference.Session, error) {
	var updated conference.Session
	if err := c.do(ctx, http.MethodPut, adminPrefix+"/sessions/"+url.PathEscape(id), s, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSession removes a session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, adminPrefix+"/sessions/"+url.PathEscape(id), nil, nil)
}

// DesignationBreakdown returns registration counts grouped by designation.
func (c *Client) DesignationBreakdown(ctx context.Context) ([]conference.DesignationBreakdown, error) {
	var breakdown []conference.DesignationBreakdown
	if err := c.do(ctx, http.MethodGet, adminPrefix+"/analytics/designations", nil, &breakdown); err != nil {
		return nil, err
	}
	if breakdown == nil {
		breakdown = []conference.DesignationBreakdown{}
	}
	return breakdown, nil
}
