// ABOUTME: Session store methods for the admin CRUD surface
// ABOUTME: Speaker references are persisted as an ordered JSON array

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateSession stores a new session, assigning an ID when none is set
func (s *SQLiteStore) CreateSession(ctx context.Context, session *Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := s.now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	speakerIDs, err := encodeSpeakerIDs(session.SpeakerIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (id, title, description, time, duration, speaker_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		session.ID,
		session.Title,
		session.Description,
		session.Time,
		session.Duration,
		speakerIDs,
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("session %s already exists: %w", session.ID, err)
		}
		return fmt.Errorf("inserting session: %w", err)
	}

	s.logger.Debug("created session", "id", session.ID, "speakers", len(session.SpeakerIDs))
	return nil
}

// GetSession retrieves a session by ID
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*Session, error) {
	query := `
		SELECT id, title, description, time, duration, speaker_ids, created_at, updated_at
		FROM sessions
		WHERE id = ?
	`

	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return session, nil
}

// ListSessions returns all sessions in the order they were created
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]*Session, error) {
	query := `
		SELECT id, title, description, time, duration, speaker_ids, created_at, updated_at
		FROM sessions
		ORDER BY created_at ASC, rowid ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// UpdateSession replaces every mutable field of an existing session.
// Returns ErrNotFound if no session has the given ID.
func (s *SQLiteStore) UpdateSession(ctx context.Context, session *Session) error {
	session.UpdatedAt = s.now().UTC()

	speakerIDs, err := encodeSpeakerIDs(session.SpeakerIDs)
	if err != nil {
		return err
	}

	query := `
		UPDATE sessions
		SET title = ?, description = ?, time = ?, duration = ?, speaker_ids = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		session.Title,
		session.Description,
		session.Time,
		session.Duration,
		speakerIDs,
		formatTime(session.UpdatedAt),
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated session", "id", session.ID)
	return nil
}

// DeleteSession removes a session
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted session", "id", id)
	return nil
}

func scanSession(row rowScanner) (*Session, error) {
	var sess Session
	var speakerIDs, createdAt, updatedAt string

	err := row.Scan(
		&sess.ID,
		&sess.Title,
		&sess.Description,
		&sess.Time,
		&sess.Duration,
		&speakerIDs,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(speakerIDs), &sess.SpeakerIDs); err != nil {
		return nil, fmt.Errorf("decoding speaker_ids: %w", err)
	}
	if sess.SpeakerIDs == nil {
		sess.SpeakerIDs = []string{}
	}

	if sess.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if sess.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &sess, nil
}

func encodeSpeakerIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encoding speaker_ids: %w", err)
	}
	return string(data), nil
}
