package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/preppal-app/coaching-service/internal/models"
	"github.com/preppal-app/coaching-service/internal/repositories"
)

// memStore is an in-memory repositories.Store with the same semantics as the
// blob store: most-recent-first session order, replace-in-place upserts,
// swallowed writes. Sessions round-trip through JSON on every read and write
// so callers never share a pointer with the stored state, exactly like the
// serialized blobs.
type memStore struct {
	users    []*models.User
	sessions []*models.Session
}

func cloneSession(s *models.Session) *models.Session {
	raw, _ := json.Marshal(s)
	out := &models.Session{}
	_ = json.Unmarshal(raw, out)
	return out
}

func newMemStore() *memStore { return &memStore{} }

func (m *memStore) Users() repositories.UserStore       { return (*memUserStore)(m) }
func (m *memStore) Sessions() repositories.SessionStore { return (*memSessionStore)(m) }
func (m *memStore) Ping(ctx context.Context) error      { return nil }
func (m *memStore) Close() error                        { return nil }

type memUserStore memStore

func (m *memUserStore) List(ctx context.Context) ([]*models.User, error) {
	return m.users, nil
}

func (m *memUserStore) Create(ctx context.Context, name, email, secret string) (*models.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return nil, repositories.ErrDuplicateUser
		}
	}
	user := &models.User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Secret:   secret,
		JoinedAt: time.Now(),
	}
	m.users = append(m.users, user)
	return user, nil
}

func (m *memUserStore) Authenticate(ctx context.Context, email, secret string) (*models.User, error) {
	for _, u := range m.users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if u.Secret != "" && u.Secret != secret {
			return nil, repositories.ErrNotFound
		}
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

type memSessionStore memStore

func (m *memSessionStore) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.Session, error) {
	out := []*models.Session{}
	for _, s := range m.sessions {
		if filters.UserID != "" && s.UserID != filters.UserID {
			continue
		}
		if filters.Status != nil && s.Status != *filters.Status {
			continue
		}
		out = append(out, cloneSession(s))
	}
	return out, nil
}

func (m *memSessionStore) Upsert(ctx context.Context, session *models.Session) {
	stored := cloneSession(session)
	for i, s := range m.sessions {
		if s.ID == stored.ID {
			m.sessions[i] = stored
			return
		}
	}
	m.sessions = append([]*models.Session{stored}, m.sessions...)
}

func (m *memSessionStore) Create(ctx context.Context, prefs models.UserPreferences, userID string) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		Preferences: prefs,
		Messages:    []models.Message{},
		CreatedAt:   now,
		LastUpdated: now,
		Status:      models.SessionActive,
	}
	m.Upsert(ctx, session)
	return session, nil
}

func (m *memSessionStore) GetByID(ctx context.Context, id string) (*models.Session, error) {
	for _, s := range m.sessions {
		if s.ID == id {
			return cloneSession(s), nil
		}
	}
	return nil, repositories.ErrNotFound
}
