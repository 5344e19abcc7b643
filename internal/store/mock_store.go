// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu            sync.RWMutex
	registrations map[string]*Registration // keyed by registration ID
	emails        map[string]string        // keyed by lowercased email -> registration ID
	speakers      map[string]*Speaker      // keyed by speaker ID
	sessions      map[string]*Session      // keyed by session ID
	regOrder      []string
	sessionOrder  []string

	// PingErr, when set, is returned by Ping
	PingErr error
}

// Ensure MockStore implements Store.
var _ Store = (*MockStore)(nil)

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		registrations: make(map[string]*Registration),
		emails:        make(map[string]string),
		speakers:      make(map[string]*Speaker),
		sessions:      make(map[string]*Session),
	}
}

// CreateRegistration stores a new registration.
func (m *MockStore) CreateRegistration(ctx context.Context, reg *Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg.Email = strings.ToLower(reg.Email)
	if _, exists := m.emails[reg.Email]; exists {
		return ErrDuplicateRegistration
	}
	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now().UTC()
	}

	// Make a copy to avoid external modification
	r := *reg
	m.registrations[r.ID] = &r
	m.emails[r.Email] = r.ID
	m.regOrder = append(m.regOrder, r.ID)
	return nil
}

// GetRegistration retrieves a registration by ID.
func (m *MockStore) GetRegistration(ctx context.Context, id string) (*Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.registrations[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *r
	return &result, nil
}

// ListRegistrations returns registrations in insertion order.
func (m *MockStore) ListRegistrations(ctx context.Context) ([]*Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Registration, 0, len(m.regOrder))
	for _, id := range m.regOrder {
		r := *m.registrations[id]
		result = append(result, &r)
	}
	return result, nil
}

// CountRegistrations returns the number of registrations.
func (m *MockStore) CountRegistrations(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.registrations), nil
}

// DesignationBreakdown groups registrations by designation.
func (m *MockStore) DesignationBreakdown(ctx context.Context) ([]DesignationCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	for _, r := range m.registrations {
		counts[r.Designation]++
	}

	result := make([]DesignationCount, 0, len(counts))
	for d, n := range counts {
		result = append(result, DesignationCount{Designation: d, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Designation < result[j].Designation
	})
	return result, nil
}

// CreateSpeaker stores a new speaker.
func (m *MockStore) CreateSpeaker(ctx context.Context, speaker *Speaker) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if speaker.ID == "" {
		speaker.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	speaker.CreatedAt = now
	speaker.UpdatedAt = now

	sp := *speaker
	m.speakers[sp.ID] = &sp
	return nil
}

// GetSpeaker retrieves a speaker by ID.
func (m *MockStore) GetSpeaker(ctx context.Context, id string) (*Speaker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sp, ok := m.speakers[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *sp
	return &result, nil
}

// ListSpeakers returns speakers ordered by name.
func (m *MockStore) ListSpeakers(ctx context.Context) ([]*Speaker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Speaker, 0, len(m.speakers))
	for _, sp := range m.speakers {
		c := *sp
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := strings.ToLower(result[i].Name), strings.ToLower(result[j].Name)
		if a != b {
			return a < b
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// UpdateSpeaker replaces an existing speaker.
func (m *MockStore) UpdateSpeaker(ctx context.Context, speaker *Speaker) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.speakers[speaker.ID]
	if !ok {
		return ErrNotFound
	}
	speaker.CreatedAt = existing.CreatedAt
	speaker.UpdatedAt = time.Now().UTC()

	sp := *speaker
	m.speakers[sp.ID] = &sp
	return nil
}

// DeleteSpeaker removes a speaker.
func (m *MockStore) DeleteSpeaker(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.speakers[id]; !ok {
		return ErrNotFound
	}
	delete(m.speakers, id)
	return nil
}

// CreateSession stores a new session.
func (m *MockStore) CreateSession(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	m.sessions[session.ID] = copySession(session)
	m.sessionOrder = append(m.sessionOrder, session.ID)
	return nil
}

// GetSession retrieves a session by ID.
func (m *MockStore) GetSession(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copySession(sess), nil
}

// ListSessions returns sessions in insertion order.
func (m *MockStore) ListSessions(ctx context.Context) ([]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Session, 0, len(m.sessionOrder))
	for _, id := range m.sessionOrder {
		if sess, ok := m.sessions[id]; ok {
			result = append(result, copySession(sess))
		}
	}
	return result, nil
}

// UpdateSession replaces an existing session.
func (m *MockStore) UpdateSession(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.sessions[session.ID]
	if !ok {
		return ErrNotFound
	}
	session.CreatedAt = existing.CreatedAt
	session.UpdatedAt = time.Now().UTC()

	m.sessions[session.ID] = copySession(session)
	return nil
}

// DeleteSession removes a session.
func (m *MockStore) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	for i, sid := range m.sessionOrder {
		if sid == id {
			m.sessionOrder = append(m.sessionOrder[:i], m.sessionOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Ping returns PingErr.
func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingErr
}

// Close is a no-op for MockStore.
func (m *MockStore) Close() error {
	return nil
}

func copySession(s *Session) *Session {
	c := *s
	c.SpeakerIDs = append([]string{}, s.SpeakerIDs...)
	return &c
}
