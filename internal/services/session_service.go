package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/preppal-app/coaching-service/internal/coach"
	"github.com/preppal-app/coaching-service/internal/events"
	"github.com/preppal-app/coaching-service/internal/models"
	"github.com/preppal-app/coaching-service/internal/repositories"
	"github.com/preppal-app/coaching-service/internal/validator"
)

type sessionService struct {
	store     repositories.Store
	generator coach.Generator
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator

	// One state-changing operation at a time per session. The original ran
	// single-threaded in a browser tab; behind an HTTP surface the guard must
	// be explicit. Start, SubmitAnswer and End all take it, and writers read
	// the session only while holding it.
	mu       sync.Mutex
	inFlight map[string]bool
}

func NewSessionService(
	store repositories.Store,
	generator coach.Generator,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) SessionService {
	return &sessionService{
		store:     store,
		generator: generator,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		inFlight:  make(map[string]bool),
	}
}

// beginTurn marks a session as processing. Returns false when a turn is
// already in flight for it.
func (s *sessionService) beginTurn(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[id] {
		return false
	}
	s.inFlight[id] = true
	return true
}

func (s *sessionService) endTurn(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

func (s *sessionService) Create(ctx context.Context, req *CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	prefs := models.UserPreferences{
		JobRole:         strings.TrimSpace(req.Preferences.JobRole),
		Company:         strings.TrimSpace(req.Preferences.Company),
		ExperienceLevel: req.Preferences.ExperienceLevel,
		FocusArea:       req.Preferences.FocusArea,
	}

	session, err := s.store.Sessions().Create(ctx, prefs, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created",
		"session_id", session.ID,
		"user_id", session.UserID,
		"job_role", prefs.JobRole)

	s.publish(events.SessionEvent{
		Type:      events.EventSessionCreated,
		SessionID: session.ID,
		UserID:    session.UserID,
		JobRole:   prefs.JobRole,
	})

	return session, nil
}

func (s *sessionService) GetByID(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.store.Sessions().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (s *sessionService) ListForUser(ctx context.Context, userID string) ([]*models.Session, error) {
	sessions, err := s.store.Sessions().List(ctx, repositories.SessionFilters{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Start appends the opening question to a session that has none. The in-flight
// guard plus a re-read under it make the generation run at most once even when
// the caller retries or re-renders concurrently.
func (s *sessionService) Start(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, ErrSessionCompleted
	}
	if len(session.Messages) > 0 {
		// Resumed session: opening already generated.
		return session, nil
	}

	if !s.beginTurn(id) {
		return nil, ErrTurnInProgress
	}
	defer s.endTurn(id)

	// Re-read now that we hold the turn: a concurrent Start or End may have won.
	session, err = s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, ErrSessionCompleted
	}
	if len(session.Messages) > 0 {
		return session, nil
	}

	opening, source := s.generator.OpeningQuestion(ctx, session.Preferences)
	s.logger.Info("opening question generated",
		"session_id", session.ID, "source", source)

	session.Messages = append(session.Messages, models.Message{
		ID:        uuid.New().String(),
		Role:      models.RoleAI,
		Text:      opening,
		Timestamp: time.Now(),
	})
	session.LastUpdated = time.Now()
	s.store.Sessions().Upsert(ctx, session)

	return session, nil
}

func (s *sessionService) SubmitAnswer(ctx context.Context, id string, req *SubmitAnswerRequest) (*TurnResponse, error) {
	answer := strings.TrimSpace(req.Text)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	if !s.beginTurn(id) {
		return nil, ErrTurnInProgress
	}
	defer s.endTurn(id)

	// Read only under the guard: a completion that raced in ahead of it must
	// be visible here, not overwritten by the writes below.
	session, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, ErrSessionCompleted
	}

	// Append the candidate answer and persist before the remote call so the
	// turn is visible even if the generation stalls.
	session.Messages = append(session.Messages, models.Message{
		ID:        uuid.New().String(),
		Role:      models.RoleUser,
		Text:      answer,
		Timestamp: time.Now(),
	})
	session.LastUpdated = time.Now()
	s.store.Sessions().Upsert(ctx, session)

	result := s.generator.FeedbackAndNextQuestion(ctx, session.Preferences, session.Messages, answer)

	feedback := result.Feedback
	session.Messages = append(session.Messages, models.Message{
		ID:   uuid.New().String(),
		Role: models.RoleAI,
		Data: &models.MessageData{
			Feedback:     &feedback,
			NextQuestion: result.NextQuestion,
		},
		Timestamp: time.Now(),
	})
	session.LastUpdated = time.Now()
	s.store.Sessions().Upsert(ctx, session)

	s.logger.Info("turn completed",
		"session_id", session.ID,
		"score", feedback.Score,
		"source", result.Source)

	score := feedback.Score
	s.publish(events.SessionEvent{
		Type:      events.EventTurnScored,
		SessionID: session.ID,
		UserID:    session.UserID,
		JobRole:   session.Preferences.JobRole,
		Score:     &score,
	})

	return &TurnResponse{Session: session, Source: result.Source}, nil
}

func (s *sessionService) End(ctx context.Context, id string) (*models.Session, error) {
	// Completion takes the turn guard too. Ending while a turn is blocked on
	// the generator would otherwise be overwritten by the turn's final write,
	// reverting the stored status to active.
	if !s.beginTurn(id) {
		return nil, ErrTurnInProgress
	}
	defer s.endTurn(id)

	session, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, ErrSessionCompleted
	}

	session.Status = models.SessionCompleted
	session.LastUpdated = time.Now()
	s.store.Sessions().Upsert(ctx, session)

	s.logger.Info("session ended",
		"session_id", session.ID,
		"answers", session.AnswerCount())

	s.publish(events.SessionEvent{
		Type:      events.EventSessionCompleted,
		SessionID: session.ID,
		UserID:    session.UserID,
		JobRole:   session.Preferences.JobRole,
	})

	return session, nil
}

func (s *sessionService) publish(event events.SessionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSessionEvent(event); err != nil {
		s.logger.Warn("failed to publish session event",
			"type", event.Type, "session_id", event.SessionID, "error", err)
	}
}
