package redisstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/preppal-app/coaching-service/internal/models"
	"github.com/preppal-app/coaching-service/internal/repositories"
)

type sessionStore struct {
	store *Store
	key   string
}

func (s *sessionStore) load(ctx context.Context) []*models.Session {
	sessions := []*models.Session{}
	s.store.loadCollection(ctx, s.key, &sessions)
	return sessions
}

func (s *sessionStore) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.Session, error) {
	all := s.load(ctx)

	if filters.UserID == "" && filters.Status == nil {
		return all, nil
	}

	filtered := []*models.Session{}
	for _, session := range all {
		if filters.UserID != "" && session.UserID != filters.UserID {
			continue
		}
		if filters.Status != nil && session.Status != *filters.Status {
			continue
		}
		filtered = append(filtered, session)
	}
	return filtered, nil
}

func (s *sessionStore) Upsert(ctx context.Context, session *models.Session) {
	all := s.load(ctx)

	replaced := false
	for i, existing := range all {
		if existing.ID == session.ID {
			all[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		// New sessions go to the front: storage order is most-recent-first.
		all = append([]*models.Session{session}, all...)
	}

	s.store.saveCollection(ctx, s.key, all)
}

func (s *sessionStore) Create(ctx context.Context, prefs models.UserPreferences, userID string) (*models.Session, error) {
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

	s.Upsert(ctx, session)
	return session, nil
}

func (s *sessionStore) GetByID(ctx context.Context, id string) (*models.Session, error) {
	for _, session := range s.load(ctx) {
		if session.ID == id {
			return session, nil
		}
	}
	return nil, repositories.ErrNotFound
}
