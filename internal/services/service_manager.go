package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/preppal-app/coaching-service/internal/coach"
	"github.com/preppal-app/coaching-service/internal/events"
	"github.com/preppal-app/coaching-service/internal/repositories"
	"github.com/preppal-app/coaching-service/internal/validator"
)

// serviceManager implements ServiceManager.
type serviceManager struct {
	store     repositories.Store
	publisher events.EventPublisher
	logger    *slog.Logger

	authService      AuthService
	sessionService   SessionService
	dashboardService DashboardService

	shutdown bool
	mu       sync.Mutex
}

// NewServiceManager wires all services over the shared dependencies.
func NewServiceManager(
	store repositories.Store,
	generator coach.Generator,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) ServiceManager {
	return &serviceManager{
		store:            store,
		publisher:        publisher,
		logger:           logger,
		authService:      NewAuthService(store, logger, validator),
		sessionService:   NewSessionService(store, generator, publisher, logger, validator),
		dashboardService: NewDashboardService(store, logger),
	}
}

func (m *serviceManager) Auth() AuthService           { return m.authService }
func (m *serviceManager) Session() SessionService     { return m.sessionService }
func (m *serviceManager) Dashboard() DashboardService { return m.dashboardService }

func (m *serviceManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown {
		return nil
	}
	m.shutdown = true

	if m.publisher != nil {
		if err := m.publisher.Close(); err != nil {
			m.logger.Warn("failed to close event publisher", "error", err)
		}
	}

	m.logger.Info("services shut down")
	return nil
}
