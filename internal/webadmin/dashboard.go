// ABOUTME: Dashboard controller: loads the admin data set and applies speaker/session edits
// ABOUTME: Talks to the API through a narrow interface so it can run against fakes in tests

package webadmin

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/2389/confhub/internal/conference"
)

// API is the part of the API client the dashboard needs.
type API interface {
	Attendees(ctx context.Context) ([]conference.Registration, error)
	Speakers(ctx context.Context) ([]conference.Speaker, error)
	Sessions(ctx context.Context) ([]conference.Session, error)
	DesignationBreakdown(ctx context.Context) ([]conference.DesignationBreakdown, error)

	CreateSpeaker(ctx context.Context, sp conference.Speaker) (*conference.Speaker, error)
	UpdateSpeaker(ctx context.Context, id string, sp conference.Speaker) (*conference.Speaker, error)
	DeleteSpeaker(ctx context.Context, id string) error

	CreateSession(ctx context.Context, s conference.Session) (*conference.Session, error)
	UpdateSession(ctx context.Context, id string, s conference.Session) (*conference.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// Snapshot is everything the dashboard shows. Lists are never nil.
type Snapshot struct {
	Attendees []conference.Registration
	Speakers  []conference.Speaker
	Sessions  []conference.Session
	Breakdown []conference.DesignationBreakdown
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Attendees: []conference.Registration{},
		Speakers:  []conference.Speaker{},
		Sessions:  []conference.Session{},
		Breakdown: []conference.DesignationBreakdown{},
	}
}

// Dashboard drives the admin views.
type Dashboard struct {
	api API
}

// NewDashboard creates a dashboard over api.
func NewDashboard(api API) *Dashboard {
	return &Dashboard{api: api}
}

// Load fetches all four lists in parallel. If any fetch fails the whole
// snapshot is empty and the first error is returned.
func (d *Dashboard) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Attendees, err = d.api.Attendees(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Speakers, err = d.api.Speakers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Sessions, err = d.api.Sessions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Breakdown, err = d.api.DesignationBreakdown(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return emptySnapshot(), err
	}

	if snap.Attendees == nil {
		snap.Attendees = []conference.Registration{}
	}
	if snap.Speakers == nil {
		snap.Speakers = []conference.Speaker{}
	}
	if snap.Sessions == nil {
		snap.Sessions = []conference.Session{}
	}
	if snap.Breakdown == nil {
		snap.Breakdown = []conference.DesignationBreakdown{}
	}
	return snap, nil
}

// SaveSpeaker creates sp when it has no ID, otherwise updates it.
// Input is checked locally first so obvious mistakes skip the round trip.
func (d *Dashboard) SaveSpeaker(ctx context.Context, sp conference.Speaker) (*conference.Speaker, error) {
	sp = sp.Normalize()
	if err := sp.Validate(); err != nil {
		return nil, err
	}
	if sp.ID == "" {
		return d.api.CreateSpeaker(ctx, sp)
	}
	return d.api.UpdateSpeaker(ctx, sp.ID, sp)
}

// DeleteSpeaker removes a speaker.
func (d *Dashboard) DeleteSpeaker(ctx context.Context, id string) error {
	return d.api.DeleteSpeaker(ctx, id)
}

// SaveSession creates s when it has no ID, otherwise updates it.
func (d *Dashboard) SaveSession(ctx context.Context, s conference.Session) (*conference.Session, error) {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.ID == "" {
		return d.api.CreateSession(ctx, s)
	}
	return d.api.UpdateSession(ctx, s.ID, s)
}

// DeleteSession removes a session.
func (d *Dashboard) DeleteSession(ctx context.Context, id string) error {
	return d.api.DeleteSession(ctx, id)
}
