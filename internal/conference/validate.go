// ABOUTME: Input validation for registration, speaker, and session payloads
// ABOUTME: Shared by the API handlers and the web forms so both reject the same input

package conference

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid input")

const (
	maxNameLen  = 200
	maxTextLen  = 10_000
	maxEmailLen = 254
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Normalize trims surrounding whitespace and lowercases the email.
func (r RegisterRequest) Normalize() RegisterRequest {
	return RegisterRequest{
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.ToLower(strings.TrimSpace(r.Email)),
		Designation: strings.TrimSpace(r.Designation),
	}
}

// Validate checks a normalized registration request.
func (r RegisterRequest) Validate() error {
	if r.Name == "" {
		return invalid("name is required")
	}
	if len(r.Name) > maxNameLen {
		return invalid("name exceeds %d characters", maxNameLen)
	}
	if r.Email == "" {
		return invalid("email is required")
	}
	if len(r.Email) > maxEmailLen {
		return invalid("email exceeds %d characters", maxEmailLen)
	}
	addr, err := mail.ParseAddress(r.Email)
	if err != nil || addr.Address != r.Email {
		return invalid("email is not a valid address")
	}
	if r.Designation == "" {
		return invalid("designation is required")
	}
	if len(r.Designation) > maxNameLen {
		return invalid("designation exceeds %d characters", maxNameLen)
	}
	return nil
}

// Normalize trims the speaker's text fields.
func (s Speaker) Normalize() Speaker {
	s.Name = strings.TrimSpace(s.Name)
	s.Bio = strings.TrimSpace(s.Bio)
	s.ImageURL = strings.TrimSpace(s.ImageURL)
	s.LinkedInURL = strings.TrimSpace(s.LinkedInURL)
	s.TwitterURL = strings.TrimSpace(s.TwitterURL)
	return s
}

// Validate checks a normalized speaker.
func (s Speaker) Validate() error {
	if s.Name == "" {
		return invalid("name is required")
	}
	if len(s.Name) > maxNameLen {
		return invalid("name exceeds %d characters", maxNameLen)
	}
	if len(s.Bio) > maxTextLen {
		return invalid("bio exceeds %d characters", maxTextLen)
	}
	links := []struct{ field, raw string }{
		{"imageUrl", s.ImageURL},
		{"linkedinUrl", s.LinkedInURL},
		{"twitterUrl", s.TwitterURL},
	}
	for _, l := range links {
		if err := validateLink(l.field, l.raw); err != nil {
			return err
		}
	}
	return nil
}

func validateLink(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return invalid("%s must be an absolute http(s) URL", field)
	}
	return nil
}

// Normalize trims text fields and drops empty or repeated speaker IDs.
// SpeakerIDs is never nil afterwards.
func (s Session) Normalize() Session {
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.Time = strings.TrimSpace(s.Time)
	s.Duration = strings.TrimSpace(s.Duration)

	ids := make([]string, 0, len(s.SpeakerIDs))
	seen := make(map[string]bool, len(s.SpeakerIDs))
	for _, id := range s.SpeakerIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	s.SpeakerIDs = ids
	return s
}

// Validate checks a normalized session.
func (s Session) Validate() error {
	if s.Title == "" {
		return invalid("title is required")
	}
	if len(s.Title) > maxNameLen {
		return invalid("title exceeds %d characters", maxNameLen)
	}
	if s.Time == "" {
		return invalid("time is required")
	}
	if len(s.Description) > maxTextLen {
		return invalid("description exceeds %d characters", maxTextLen)
	}
	return nil
}
