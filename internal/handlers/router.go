package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/preppal-app/coaching-service/internal/services"
	"github.com/preppal-app/coaching-service/internal/utils"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	sessionHandler   *SessionHandler
	dashboardHandler *DashboardHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Auth(), logger),
		sessionHandler:   NewSessionHandler(serviceManager.Session(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("", hm.sessionHandler.ListSessions)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/start", hm.sessionHandler.StartSession)
			sessions.POST("/:id/answers", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/end", hm.sessionHandler.EndSession)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/:user_id", hm.dashboardHandler.GetStats)
			dashboard.GET("/:user_id/export", hm.dashboardHandler.ExportReport)
		}
	}
}

// HealthCheck endpoint.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "coaching-service",
	})
}
