// ABOUTME: Store interface and data types for confhub persistence
// ABOUTME: Defines Registration, Speaker, Session structs and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateRegistration is returned when an email address is already registered
var ErrDuplicateRegistration = errors.New("email already registered")

// Registration is an attendee sign-up
type Registration struct {
	ID          string
	Name        string
	Email       string // stored lowercased, unique
	Designation string
	CreatedAt   time.Time
}

// Speaker is a speaker profile
type Speaker struct {
	ID          string
	Name        string
	Bio         string
	ImageURL    string
	LinkedInURL string
	TwitterURL  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session is a scheduled talk. SpeakerIDs keeps the order the admin chose.
type Session struct {
	ID          string
	Title       string
	Description string
	Time        string
	Duration    string
	SpeakerIDs  []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DesignationCount is one row of the designation breakdown
type DesignationCount struct {
	Designation string
	Count       int
}

// Store defines the interface for conference data persistence
type Store interface {
	// Registrations
	CreateRegistration(ctx context.Context, reg *Registration) error
	GetRegistration(ctx context.Context, id string) (*Registration, error)
	ListRegistrations(ctx context.Context) ([]*Registration, error)
	CountRegistrations(ctx context.Context) (int, error)
	DesignationBreakdown(ctx context.Context) ([]DesignationCount, error)

	// Speakers
	CreateSpeaker(ctx context.Context, speaker *Speaker) error
	GetSpeaker(ctx context.Context, id string) (*Speaker, error)
	ListSpeakers(ctx context.Context) ([]*Speaker, error)
	UpdateSpeaker(ctx context.Context, speaker *Speaker) error
	DeleteSpeaker(ctx context.Context, id string) error

	// Sessions
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	ListSessions(ctx context.Context) ([]*Session, error)
	UpdateSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, id string) error

	// Ping reports whether the backing database is reachable
	Ping(ctx context.Context) error

	// Close releases any resources held by the store
	Close() error
}
