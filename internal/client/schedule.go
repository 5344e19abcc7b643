// ABOUTME: Schedule fetches sessions and speakers concurrently and joins them
// ABOUTME: Used by the public site and the CLI schedule command

package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/2389/confhub/internal/conference"
)

// Schedule returns every session with its speakers resolved. Both lists are
// fetched in parallel; if either fails the whole call fails.
func (c *Client) Schedule(ctx context.Context) ([]conference.SessionWithSpeakers, error) {
	var (
		sessions []conference.Session
		speakers []conference.Speaker
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = c.Sessions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		speakers, err = c.Speakers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return conference.JoinSessions(sessions, speakers), nil
}
