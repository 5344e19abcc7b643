package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

// storeImpls runs a test against both the SQLite store and the mock.
func storeImpls(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, setupTestStore(t)) })
	t.Run("mock", func(t *testing.T) { fn(t, NewMockStore()) })
}

func TestStore_CreateRegistration(t *testing.T) {
	storeImpls(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		reg := &Registration{Name: "Jane", Email: "Jane@Example.com", Designation: "Designer"}
		require.NoError(t, s.CreateRegistration(ctx, reg))
		assert.NotEmpty(t, reg.ID)
		assert.False(t, reg.CreatedAt.IsZero())

		got, err := s.GetRegistration(ctx, reg.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane", got.Name)
		assert.Equal(t, "jane@example.com", got.Email)
		assert.Equal(t, "Designer", got.Designation)
	})
}

func TestStore_CreateRegistration_DuplicateEmail(t *testing.T) {
	storeImpls(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		require.NoError(t, s.CreateRegistration(ctx, &Registration{Name: "A", Email: "a@example.com", Designation: "Student"}))
		err := s.CreateRegistration(ctx, &Registration{Name: "B", Email: "A@EXAMPLE.com", Designation: "Other"})
		assert.ErrorIs(t, err, ErrDuplicateRegistration)

		count, err := s.CountRegistrations(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestStore_GetRegistration_NotFound(t *testing.T) {
	storeImpls(t, func(t *testing.T, s Store) {
		_, err := s.GetRegistration(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_ListRegistrations_OldestFirst(t *testing.T) {
	storeImpls(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		empty, err := s.ListRegistrations(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		for i, name := range []string{"first", "second", "third"} {
			require.NoError(t, s.CreateRegistration(ctx, &Registration{
				Name:        name,
				Email:       name + "@example.com",
				Designation: "Student",
				CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			}))
		}

		regs, err := s.ListRegistrations(ctx)
		require.NoError(t, err)
		require.Len(t, regs, 3)
		assert.Equal(t, "first", regs[0].Name)
		assert.Equal(t, "third", regs[2].Name)
		assert.True(t, regs[0].CreatedAt.Equal(base))
	})
}

func TestStore_DesignationBreakdown(t *testing.T) {
	storeImpls(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		breakdown, err := s.DesignationBreakdown(ctx)
		require.NoError(t, err)
		assert.NotNil(t, breakdown)
		assert.Empty(t, breakdown)

		regs := []struct{ email, designation string }{
			{"a@x.io", "Designer"},
			{"b@x.io", "Software Engineer"},
			{"c@x.io", "Software Engineer"},
			{"d@x.io", "Student"},
		}
		for _, r := range regs {
			require.NoError(t, s.CreateRegistration(ctx, &Registration{Name: "n", Email: r.email, Designation: r.designation}))
		}

		breakdown, err = s.DesignationBreakdown(ctx)
		require.NoError(t, err)
		assert.Equal(t, []DesignationCount{
			{Designation: "Software Engineer", Count: 2},
			{Designation: "Designer", Count: 1},
			{Designation: "Student", Count: 1},
		}, breakdown)
	})
}

func TestStore_SpeakerCRUD(t *testing.T) {
	storeImpls(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		sp := &Speaker{Name: "Ada", Bio: "Engines", TwitterURL: "https://x.com/ada"}
		require.NoError(t, s.CreateSpeaker(ctx, sp))
		require.NotEmpty(t, sp.ID)

		got, err := s.GetSpeaker(ctx, sp.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Name)
		assert.Equal(t, "https://x.com/ada", got.TwitterURL)
		assert.Empty(t, got.ImageURL)

		got.Bio = "Analytical engines"
		got.TwitterURL = ""
		require.NoError(t, s.UpdateSpeaker(ctx, got))

		updated, err := s.GetSpeaker(ctx, sp.ID)
		require.NoError(t, err)
		assert.Equal(t, "Analytical engines", updated.Bio)
		assert.Empty(t, updated.TwitterURL)

		require.NoError(t, s.DeleteSpeaker(ctx, sp.ID))
		_, err = s.GetSpeaker(ctx, sp.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_SpeakerMissing(t *testing.T) {
	storeImpls(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		assert.ErrorIs(t, s.UpdateSpeaker(ctx, &Speaker{ID: "ghost", Name: "x"}), ErrNotFound)
		assert.ErrorIs(t, s.DeleteSpeaker(ctx, "ghost"), ErrNotFound)
	})
}

func TestStore_ListSpeakers_ByName(t *testing.T) {
	storeImpls(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, name := range []string{"linus", "Ada", "grace"} {
			require.NoError(t, s.CreateSpeaker(ctx, &Speaker{Name: name}))
		}

		speakers, err := s.ListSpeakers(ctx)
		require.NoError(t, err)
		require.Len(t, speakers, 3)
		assert.Equal(t, "Ada", speakers[0].Name)
		assert.Equal(t, "grace", speakers[1].Name)
		assert.Equal(t, "linus", speakers[2].Name)
	})
}

func TestStore_SessionCRUD(t *testing.T) {
	storeImpls(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		sess := &Session{
			Title:      "Keynote",
			Time:       "9:00 AM",
			Duration:   "45 min",
			SpeakerIDs: []string{"sp-2", "sp-1"},
		}
		require.NoError(t, s.CreateSession(ctx, sess))
		require.NotEmpty(t, sess.ID)

		got, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"sp-2", "sp-1"}, got.SpeakerIDs)

		got.SpeakerIDs = nil
		got.Title = "Opening Keynote"
		require.NoError(t, s.UpdateSession(ctx, got))

		updated, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, "Opening Keynote", updated.Title)
		assert.NotNil(t, updated.SpeakerIDs)
		assert.Empty(t, updated.SpeakerIDs)

		require.NoError(t, s.DeleteSession(ctx, sess.ID))
		assert.ErrorIs(t, s.DeleteSession(ctx, sess.ID), ErrNotFound)
		assert.ErrorIs(t, s.UpdateSession(ctx, sess), ErrNotFound)
	})
}

func TestStore_DeleteSpeakerKeepsSessionReferences(t *testing.T) {
	storeImpls(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		sp := &Speaker{Name: "Ada"}
		require.NoError(t, s.CreateSpeaker(ctx, sp))
		sess := &Session{Title: "Talk", Time: "10:00", SpeakerIDs: []string{sp.ID}}
		require.NoError(t, s.CreateSession(ctx, sess))

		require.NoError(t, s.DeleteSpeaker(ctx, sp.ID))

		got, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{sp.ID}, got.SpeakerIDs)
	})
}

func TestStore_ListSessions_InsertionOrder(t *testing.T) {
	storeImpls(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, title := range []string{"B", "A", "C"} {
			require.NoError(t, s.CreateSession(ctx, &Session{Title: title, Time: "t"}))
		}

		sessions, err := s.ListSessions(ctx)
		require.NoError(t, err)
		require.Len(t, sessions, 3)
		assert.Equal(t, "B", sessions[0].Title)
		assert.Equal(t, "A", sessions[1].Title)
		assert.Equal(t, "C", sessions[2].Title)
	})
}

func TestSQLiteStore_InMemory(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.CreateSpeaker(ctx, &Speaker{Name: "Ada"}))

	speakers, err := s.ListSpeakers(ctx)
	require.NoError(t, err)
	assert.Len(t, speakers, 1)
}

func TestSQLiteStore_MigratesLegacySpeakersTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "legacy.db")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE speakers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			bio TEXT NOT NULL DEFAULT '',
			image_url TEXT,
			linkedin_url TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	sp := &Speaker{Name: "Ada", TwitterURL: "https://x.com/ada"}
	require.NoError(t, s.CreateSpeaker(context.Background(), sp))

	got, err := s.GetSpeaker(context.Background(), sp.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://x.com/ada", got.TwitterURL)

	// reopening must not try to add the column again
	require.NoError(t, s.Close())
	s2, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	s2.Close()
}
