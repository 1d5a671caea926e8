package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dojotek/chatbot/internal/messages"
	"github.com/dojotek/chatbot/internal/sessions"
)

// SessionsHandler serves chat sessions and their message history. Sessions
// are created by ingestion; the API reads and closes them.
type SessionsHandler struct {
	sessions *sessions.Service
	messages *messages.Service
}

func NewSessionsHandler(sessionService *sessions.Service, messageService *messages.Service) *SessionsHandler {
	return &SessionsHandler{sessions: sessionService, messages: messageService}
}

func (h *SessionsHandler) Register(e *echo.Echo) {
	group := e.Group("/chat-sessions")
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("/:id/close", h.Close)
	group.GET("/:id/messages", h.ListMessages)
}

// List godoc
// @Summary List chat sessions
// @Description List sessions for a staff member, newest first
// @Tags chat-sessions
// @Param customer_staff_id query string true "Customer staff ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} sessions.ListSessionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-sessions [get]
func (h *SessionsHandler) List(c echo.Context) error {
	staffID := strings.TrimSpace(c.QueryParam("customer_staff_id"))
	if staffID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_staff_id is required")
	}
	limit := int32(intQueryParam(c, "limit"))
	offset := int32(intQueryParam(c, "offset"))
	items, err := h.sessions.ListByStaff(c.Request().Context(), staffID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sessions.ListSessionsResponse{Items: items})
}

// Get godoc
// @Summary Get chat session
// @Description Get a chat session by id
// @Tags chat-sessions
// @Param id path string true "Chat session ID"
// @Success 200 {object} sessions.ChatSession
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-sessions/{id} [get]
func (h *SessionsHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chat session id is required")
	}
	resp, err := h.sessions.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// Close godoc
// @Summary Close chat session
// @Description Close a session; the next inbound message opens a fresh one
// @Tags chat-sessions
// @Param id path string true "Chat session ID"
// @Success 200 {object} sessions.ChatSession
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-sessions/{id}/close [post]
func (h *SessionsHandler) Close(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chat session id is required")
	}
	resp, err := h.sessions.Close(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// ListMessages godoc
// @Summary List session messages
// @Description List a session's messages in chronological order
// @Tags chat-sessions
// @Param id path string true "Chat session ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} messages.ListMessagesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-sessions/{id}/messages [get]
func (h *SessionsHandler) ListMessages(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chat session id is required")
	}
	limit := int32(intQueryParam(c, "limit"))
	offset := int32(intQueryParam(c, "offset"))
	items, err := h.messages.ListBySession(c.Request().Context(), id, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, messages.ListMessagesResponse{Items: items})
}
