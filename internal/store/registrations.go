// ABOUTME: Registration store methods: create, lookup, list, count, breakdown
// ABOUTME: Emails are unique case-insensitively; duplicates return ErrDuplicateRegistration

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CreateRegistration stores a new registration. An empty ID is replaced with
// a generated UUID and a zero CreatedAt with the current time.
func (s *SQLiteStore) CreateRegistration(ctx context.Context, reg *Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = s.now().UTC()
	}
	reg.Email = strings.ToLower(reg.Email)

	query := `
		INSERT INTO registrations (id, name, email, designation, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		reg.ID,
		reg.Name,
		reg.Email,
		reg.Designation,
		formatTime(reg.CreatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateRegistration
		}
		return fmt.Errorf("inserting registration: %w", err)
	}

	s.logger.Debug("created registration", "id", reg.ID, "designation", reg.Designation)
	return nil
}

// GetRegistration retrieves a registration by ID
func (s *SQLiteStore) GetRegistration(ctx context.Context, id string) (*Registration, error) {
	query := `
		SELECT id, name, email, designation, created_at
		FROM registrations
		WHERE id = ?
	`

	reg, err := scanRegistration(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying registration: %w", err)
	}
	return reg, nil
}

// ListRegistrations returns every registration, oldest first.
// Returns an empty slice when nobody has registered.
func (s *SQLiteStore) ListRegistrations(ctx context.Context) ([]*Registration, error) {
	query := `
		SELECT id, name, email, designation, created_at
		FROM registrations
		ORDER BY created_at ASC, rowid ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying registrations: %w", err)
	}
	defer rows.Close()

	regs := []*Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning registration: %w", err)
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registrations: %w", err)
	}

	return regs, nil
}

// CountRegistrations returns the total number of registrations
func (s *SQLiteStore) CountRegistrations(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting registrations: %w", err)
	}
	return count, nil
}

// DesignationBreakdown groups registrations by designation, largest group
// first with ties broken alphabetically.
func (s *SQLiteStore) DesignationBreakdown(ctx context.Context) ([]DesignationCount, error) {
	query := `
		SELECT designation, COUNT(*) AS n
		FROM registrations
		GROUP BY designation
		ORDER BY n DESC, designation ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying designation breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := []DesignationCount{}
	for rows.Next() {
		var dc DesignationCount
		if err := rows.Scan(&dc.Designation, &dc.Count); err != nil {
			return nil, fmt.Errorf("scanning designation count: %w", err)
		}
		breakdown = append(breakdown, dc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating designation breakdown: %w", err)
	}

	return breakdown, nil
}

func scanRegistration(row rowScanner) (*Registration, error) {
	var reg Registration
	var createdAt string
	if err := row.Scan(&reg.ID, &reg.Name, &reg.Email, &reg.Designation, &createdAt); err != nil {
		return nil, err
	}

	var err error
	reg.CreatedAt, err = parseTime("created_at", createdAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
