// ABOUTME: Speaker store methods for the admin CRUD surface
// ABOUTME: Optional link columns are stored as NULL when empty

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateSpeaker stores a new speaker, assigning an ID when none is set
func (s *SQLiteStore) CreateSpeaker(ctx context.Context, speaker *Speaker) error {
	if speaker.ID == "" {
		speaker.ID = uuid.New().String()
	}
	now := s.now().UTC()
	speaker.CreatedAt = now
	speaker.UpdatedAt = now

	query := `
		INSERT INTO speakers (id, name, bio, image_url, linkedin_url, twitter_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		speaker.ID,
		speaker.Name,
		speaker.Bio,
		nullString(speaker.ImageURL),
		nullString(speaker.LinkedInURL),
		nullString(speaker.TwitterURL),
		formatTime(speaker.CreatedAt),
		formatTime(speaker.UpdatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("speaker %s already exists: %w", speaker.ID, err)
		}
		return fmt.Errorf("inserting speaker: %w", err)
	}

	s.logger.Debug("created speaker", "id", speaker.ID, "name", speaker.Name)
	return nil
}

// GetSpeaker retrieves a speaker by ID
func (s *SQLiteStore) GetSpeaker(ctx context.Context, id string) (*Speaker, error) {
	query := `
		SELECT id, name, bio, image_url, linkedin_url, twitter_url, created_at, updated_at
		FROM speakers
		WHERE id = ?
	`

	speaker, err := scanSpeaker(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying speaker: %w", err)
	}
	return speaker, nil
}

// ListSpeakers returns all speakers ordered by name
func (s *SQLiteStore) ListSpeakers(ctx context.Context) ([]*Speaker, error) {
	query := `
		SELECT id, name, bio, image_url, linkedin_url, twitter_url, created_at, updated_at
		FROM speakers
		ORDER BY name COLLATE NOCASE ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying speakers: %w", err)
	}
	defer rows.Close()

	speakers := []*Speaker{}
	for rows.Next() {
		speaker, err := scanSpeaker(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning speaker: %w", err)
		}
		speakers = append(speakers, speaker)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating speakers: %w", err)
	}

	return speakers, nil
}

// UpdateSpeaker replaces every mutable field of an existing speaker.
// Returns ErrNotFound if no speaker has the given ID.
func (s *SQLiteStore) UpdateSpeaker(ctx context.Context, speaker *Speaker) error {
	speaker.UpdatedAt = s.now().UTC()

	query := `
		UPDATE speakers
		SET name = ?, bio = ?, image_url = ?, linkedin_url = ?, twitter_url = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		speaker.Name,
		speaker.Bio,
		nullString(speaker.ImageURL),
		nullString(speaker.LinkedInURL),
		nullString(speaker.TwitterURL),
		formatTime(speaker.UpdatedAt),
		speaker.ID,
	)
	if err != nil {
		return fmt.Errorf("updating speaker: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated speaker", "id", speaker.ID)
	return nil
}

// DeleteSpeaker removes a speaker. Sessions that reference it are left as is.
func (s *SQLiteStore) DeleteSpeaker(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM speakers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting speaker: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted speaker", "id", id)
	return nil
}

func scanSpeaker(row rowScanner) (*Speaker, error) {
	var sp Speaker
	var imageURL, linkedInURL, twitterURL sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&sp.ID,
		&sp.Name,
		&sp.Bio,
		&imageURL,
		&linkedInURL,
		&twitterURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	sp.ImageURL = imageURL.String
	sp.LinkedInURL = linkedInURL.String
	sp.TwitterURL = twitterURL.String

	if sp.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if sp.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &sp, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
