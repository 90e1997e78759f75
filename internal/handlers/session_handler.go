package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/preppal-app/coaching-service/internal/services"
	"github.com/preppal-app/coaching-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// CreateSession creates a new practice session.
// @Summary Create session
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.CreateSessionRequest true "Session setup"
// @Success 201 {object} models.Session
// @Failure 400 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating session", "user_id", req.UserID)

	session, err := h.sessionService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions lists sessions for a user, most recent first.
// @Summary List sessions
// @Tags sessions
// @Produce json
// @Param user_id query string true "Owner user id"
// @Success 200 {object} map[string]interface{}
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Query parameter 'user_id' is required",
		})
		return
	}

	h.LogRequest(c, "Listing sessions", "user_id", userID)

	sessions, err := h.sessionService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

// GetSession fetches one session by id.
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} models.Session
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := c.Param("id")

	h.LogRequest(c, "Getting session", "session_id", id)

	session, err := h.sessionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// StartSession generates the opening question for an empty session.
// @Summary Start session
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} models.Session
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/start [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	id := c.Param("id")

	h.LogRequest(c, "Starting session", "session_id", id)

	session, err := h.sessionService.Start(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// SubmitAnswer runs one coached turn against the session.
// @Summary Submit answer
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param answer body services.SubmitAnswerRequest true "Candidate answer"
// @Success 200 {object} services.TurnResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/answers [post]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	id := c.Param("id")

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting answer", "session_id", id)

	turn, err := h.sessionService.SubmitAnswer(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, turn)
}

// EndSession completes a session.
// @Summary End session
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} models.Session
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/end [post]
func (h *SessionHandler) EndSession(c *gin.Context) {
	id := c.Param("id")

	h.LogRequest(c, "Ending session", "session_id", id)

	session, err := h.sessionService.End(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
