package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/preppal-app/coaching-service/internal/coach"
	"github.com/preppal-app/coaching-service/internal/events"
	"github.com/preppal-app/coaching-service/internal/models"
	"github.com/preppal-app/coaching-service/internal/validator"
)

// mockGenerator scripts the coaching client for state machine tests.
type mockGenerator struct {
	mu           sync.Mutex
	opening      string
	turn         coach.TurnResult
	openingCalls int
	turnCalls    int
}

func (m *mockGenerator) OpeningQuestion(ctx context.Context, prefs models.UserPreferences) (string, coach.Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openingCalls++
	return m.opening, coach.SourceModel
}

func (m *mockGenerator) FeedbackAndNextQuestion(ctx context.Context, prefs models.UserPreferences, history []models.Message, latestAnswer string) coach.TurnResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turnCalls++
	return m.turn
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestSessionService(t *testing.T) (SessionService, *mockGenerator, *events.MockEventPublisher) {
	t.Helper()

	generator := &mockGenerator{
		opening: "Welcome! Why nursing?",
		turn: coach.TurnResult{
			Feedback:     models.FeedbackData{Praise: "Nice", Score: 85},
			NextQuestion: "Tell me about a hard shift.",
			Source:       coach.SourceModel,
		},
	}
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewSessionService(newMemStore(), generator, publisher, testLogger(), validator.New())
	return service, generator, publisher
}

func createTestSession(t *testing.T, service SessionService) *models.Session {
	t.Helper()

	session, err := service.Create(context.Background(), &CreateSessionRequest{
		UserID: "user-1",
		Preferences: validator.PreferencesRequest{
			JobRole:         "Nurse",
			ExperienceLevel: "Junior (1-2 years)",
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return session
}

func TestSessionService_Create(t *testing.T) {
	service, _, publisher := newTestSessionService(t)

	session := createTestSession(t, service)
	if session.Status != models.SessionActive {
		t.Errorf("expected active session, got %s", session.Status)
	}
	if len(session.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(session.Messages))
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventSessionCreated {
		t.Errorf("expected one session.created event, got %+v", published)
	}

	t.Run("rejects unknown experience level", func(t *testing.T) {
		_, err := service.Create(context.Background(), &CreateSessionRequest{
			UserID: "user-1",
			Preferences: validator.PreferencesRequest{
				JobRole:         "Nurse",
				ExperienceLevel: "Wizard",
			},
		})
		var verrs ValidationErrors
		if err == nil {
			t.Fatal("expected a validation error")
		}
		if !errors.As(err, &verrs) {
			t.Fatalf("expected ValidationErrors, got %v", err)
		}
	})
}

func TestSessionService_Start(t *testing.T) {
	ctx := context.Background()
	service, generator, _ := newTestSessionService(t)
	session := createTestSession(t, service)

	started, err := service.Start(ctx, session.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(started.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(started.Messages))
	}
	opening := started.Messages[0]
	if opening.Role != models.RoleAI || opening.Text != "Welcome! Why nursing?" {
		t.Errorf("unexpected opening message: %+v", opening)
	}
	if opening.Data != nil {
		t.Error("opening message must be plain text")
	}

	t.Run("opening generation runs at most once", func(t *testing.T) {
		again, err := service.Start(ctx, session.ID)
		if err != nil {
			t.Fatalf("second Start failed: %v", err)
		}
		if len(again.Messages) != 1 {
			t.Errorf("expected 1 message after repeated Start, got %d", len(again.Messages))
		}
		if generator.openingCalls != 1 {
			t.Errorf("expected exactly one opening generation, got %d", generator.openingCalls)
		}
	})

	t.Run("completed session cannot be started", func(t *testing.T) {
		if _, err := service.End(ctx, session.ID); err != nil {
			t.Fatalf("End failed: %v", err)
		}
		if _, err := service.Start(ctx, session.ID); err != ErrSessionCompleted {
			t.Fatalf("expected ErrSessionCompleted, got %v", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		if _, err := service.Start(ctx, "missing"); err != ErrSessionNotFound {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestSessionService_SubmitAnswer(t *testing.T) {
	ctx := context.Background()
	service, generator, publisher := newTestSessionService(t)
	session := createTestSession(t, service)
	if _, err := service.Start(ctx, session.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	turn, err := service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{Text: "I care about people."})
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	t.Run("appends the user and ai messages in order", func(t *testing.T) {
		msgs := turn.Session.Messages
		if len(msgs) != 3 {
			t.Fatalf("expected 3 messages, got %d", len(msgs))
		}
		if msgs[1].Role != models.RoleUser || msgs[1].Text != "I care about people." {
			t.Errorf("unexpected user message: %+v", msgs[1])
		}
		ai := msgs[2]
		if ai.Role != models.RoleAI || ai.Data == nil || ai.Data.Feedback == nil {
			t.Fatalf("expected a structured ai message, got %+v", ai)
		}
		if ai.Data.Feedback.Score != 85 {
			t.Errorf("expected score 85, got %d", ai.Data.Feedback.Score)
		}
		if ai.Data.NextQuestion != "Tell me about a hard shift." {
			t.Errorf("unexpected next question: %q", ai.Data.NextQuestion)
		}
		if turn.Source != coach.SourceModel {
			t.Errorf("expected model source, got %s", turn.Source)
		}
	})

	t.Run("publishes a scored-turn event", func(t *testing.T) {
		var scored []events.SessionEvent
		for _, e := range publisher.GetPublishedEvents() {
			if e.Type == events.EventTurnScored {
				scored = append(scored, e)
			}
		}
		if len(scored) != 1 {
			t.Fatalf("expected one turn.scored event, got %d", len(scored))
		}
		if scored[0].Score == nil || *scored[0].Score != 85 {
			t.Errorf("unexpected event score: %+v", scored[0].Score)
		}
	})

	t.Run("rejects empty answers without a remote call", func(t *testing.T) {
		calls := generator.turnCalls
		if _, err := service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{Text: "   \n\t"}); err != ErrEmptyAnswer {
			t.Fatalf("expected ErrEmptyAnswer, got %v", err)
		}
		if generator.turnCalls != calls {
			t.Error("empty answer must not reach the generator")
		}
	})

	t.Run("rejects a second submit while a turn is in flight", func(t *testing.T) {
		svc := service.(*sessionService)
		svc.mu.Lock()
		svc.inFlight[session.ID] = true
		svc.mu.Unlock()
		defer svc.endTurn(session.ID)

		if _, err := service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{Text: "queued?"}); err != ErrTurnInProgress {
			t.Fatalf("expected ErrTurnInProgress, got %v", err)
		}
	})

	t.Run("messages only grow until completion", func(t *testing.T) {
		before := len(turn.Session.Messages)
		next, err := service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{Text: "Another answer."})
		if err != nil {
			t.Fatalf("SubmitAnswer failed: %v", err)
		}
		if len(next.Session.Messages) != before+2 {
			t.Errorf("expected %d messages, got %d", before+2, len(next.Session.Messages))
		}
	})

	t.Run("rejects answers to a completed session", func(t *testing.T) {
		if _, err := service.End(ctx, session.ID); err != nil {
			t.Fatalf("End failed: %v", err)
		}
		if _, err := service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{Text: "too late"}); err != ErrSessionCompleted {
			t.Fatalf("expected ErrSessionCompleted, got %v", err)
		}
	})
}

// blockingGenerator parks the feedback call until released so the test can
// attempt a concurrent operation mid-turn.
type blockingGenerator struct {
	mockGenerator
	entered chan struct{}
	release chan struct{}
}

func (b *blockingGenerator) FeedbackAndNextQuestion(ctx context.Context, prefs models.UserPreferences, history []models.Message, latestAnswer string) coach.TurnResult {
	b.entered <- struct{}{}
	<-b.release
	return b.mockGenerator.FeedbackAndNextQuestion(ctx, prefs, history, latestAnswer)
}

func TestSessionService_EndDuringTurn(t *testing.T) {
	ctx := context.Background()

	generator := &blockingGenerator{
		mockGenerator: mockGenerator{
			opening: "Welcome! Why nursing?",
			turn: coach.TurnResult{
				Feedback:     models.FeedbackData{Praise: "Nice", Score: 85},
				NextQuestion: "Tell me about a hard shift.",
				Source:       coach.SourceModel,
			},
		},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewSessionService(newMemStore(), generator, publisher, testLogger(), validator.New())

	session := createTestSession(t, service)
	if _, err := service.Start(ctx, session.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{Text: "I care about people."})
		done <- err
	}()
	<-generator.entered

	// The turn holds the guard, so ending mid-turn is rejected instead of
	// being overwritten by the turn's final write.
	if _, err := service.End(ctx, session.ID); err != ErrTurnInProgress {
		t.Fatalf("expected ErrTurnInProgress, got %v", err)
	}

	close(generator.release)
	if err := <-done; err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	ended, err := service.End(ctx, session.ID)
	if err != nil {
		t.Fatalf("End failed after the turn: %v", err)
	}
	if ended.Status != models.SessionCompleted {
		t.Fatalf("expected completed status, got %s", ended.Status)
	}

	t.Run("stored status never reverts to active", func(t *testing.T) {
		stored, err := service.GetByID(ctx, session.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if stored.Status != models.SessionCompleted {
			t.Errorf("stored status is %s after completion", stored.Status)
		}
		if len(stored.Messages) != 3 {
			t.Errorf("expected opening plus one full turn, got %d messages", len(stored.Messages))
		}
	})
}

func TestSessionService_End(t *testing.T) {
	ctx := context.Background()
	service, _, publisher := newTestSessionService(t)
	session := createTestSession(t, service)

	ended, err := service.End(ctx, session.ID)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if ended.Status != models.SessionCompleted {
		t.Errorf("expected completed status, got %s", ended.Status)
	}
	if !ended.LastUpdated.After(session.CreatedAt) && !ended.LastUpdated.Equal(session.CreatedAt) {
		t.Error("expected last-updated to be bumped")
	}

	t.Run("ending twice is rejected", func(t *testing.T) {
		if _, err := service.End(ctx, session.ID); err != ErrSessionCompleted {
			t.Fatalf("expected ErrSessionCompleted, got %v", err)
		}
	})

	t.Run("publishes a completion event", func(t *testing.T) {
		found := false
		for _, e := range publisher.GetPublishedEvents() {
			if e.Type == events.EventSessionCompleted && e.SessionID == session.ID {
				found = true
			}
		}
		if !found {
			t.Error("expected a session.completed event")
		}
	})
}
