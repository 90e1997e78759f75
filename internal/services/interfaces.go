package services

import (
	"context"
	"errors"

	"github.com/preppal-app/coaching-service/internal/coach"
	"github.com/preppal-app/coaching-service/internal/models"
	"github.com/preppal-app/coaching-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use validator request types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type CreateSessionRequest = validator.CreateSessionRequest
type SubmitAnswerRequest = validator.SubmitAnswerRequest

type ValidationErrors = validator.ValidationErrors

// TurnResponse is the outcome of one answered turn: the updated session plus
// whether the coaching payload came from the model or the fallback.
type TurnResponse struct {
	Session *models.Session `json:"session"`
	Source  coach.Source    `json:"source"`
}

// ===== SERVICE ERRORS =====

var (
	ErrDuplicateUser      = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrEmptyAnswer        = errors.New("answer must not be empty")
	ErrSessionCompleted   = errors.New("session is already completed")
	ErrTurnInProgress     = errors.New("a turn is already being processed for this session")
)

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*models.User, error)
}

type SessionService interface {
	Create(ctx context.Context, req *CreateSessionRequest) (*models.Session, error)
	GetByID(ctx context.Context, id string) (*models.Session, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Session, error)

	// Start generates and appends the opening question for a session with no
	// messages. A session that already has messages is returned unchanged.
	Start(ctx context.Context, id string) (*models.Session, error)

	// SubmitAnswer runs one turn of the coaching loop: append the candidate
	// answer, request feedback plus the next question, append the structured
	// ai message.
	SubmitAnswer(ctx context.Context, id string, req *SubmitAnswerRequest) (*TurnResponse, error)

	// End moves an active session to completed. Completed sessions stay
	// completed; ending one again is rejected.
	End(ctx context.Context, id string) (*models.Session, error)
}

type DashboardService interface {
	Stats(ctx context.Context, userID string) (*models.DashboardStats, error)

	// ExportReport renders the user's session history as an xlsx workbook.
	ExportReport(ctx context.Context, userID string) ([]byte, error)
}

// ServiceManager aggregates all services behind one wiring point.
type ServiceManager interface {
	Auth() AuthService
	Session() SessionService
	Dashboard() DashboardService

	Shutdown(ctx context.Context) error
}
