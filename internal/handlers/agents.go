package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dojotek/chatbot/internal/agents"
	"github.com/dojotek/chatbot/internal/knowledge"
)

type AgentsHandler struct {
	service   *agents.Service
	knowledge *knowledge.Service
}

// AssociateKnowledgeRequest is the body for linking a knowledge base to an
// agent.
type AssociateKnowledgeRequest struct {
	KnowledgeID string `json:"knowledge_id"`
}

func NewAgentsHandler(service *agents.Service, knowledgeService *knowledge.Service) *AgentsHandler {
	return &AgentsHandler{service: service, knowledge: knowledgeService}
}

func (h *AgentsHandler) Register(e *echo.Echo) {
	group := e.Group("/chat-agents")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Deactivate)
	group.POST("/:id/knowledges", h.AssociateKnowledge)
	group.GET("/:id/knowledges", h.ListKnowledges)
}

// Create godoc
// @Summary Create chat agent
// @Description Create a chat agent for a customer
// @Tags chat-agents
// @Param payload body agents.CreateChatAgentRequest true "Agent payload"
// @Success 201 {object} agents.ChatAgent
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-agents [post]
func (h *AgentsHandler) Create(c echo.Context) error {
	var req agents.CreateChatAgentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.CustomerID) == "" || strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_id and name are required")
	}
	resp, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List chat agents
// @Description List chat agents, optionally filtered by customer
// @Tags chat-agents
// @Param customer_id query string false "Customer ID filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} agents.ListChatAgentsResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-agents [get]
func (h *AgentsHandler) List(c echo.Context) error {
	customerID := strings.TrimSpace(c.QueryParam("customer_id"))
	if customerID != "" {
		items, err := h.service.ListByCustomer(c.Request().Context(), customerID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, agents.ListChatAgentsResponse{Items: items})
	}
	limit := int32(intQueryParam(c, "limit"))
	offset := int32(intQueryParam(c, "offset"))
	items, err := h.service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, agents.ListChatAgentsResponse{Items: items})
}

// Get godoc
// @Summary Get chat agent
// @Description Get a chat agent by id
// @Tags chat-agents
// @Param id path string true "Chat agent ID"
// @Success 200 {object} agents.ChatAgent
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-agents/{id} [get]
func (h *AgentsHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chat agent id is required")
	}
	resp, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, agents.ErrChatAgentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat agent not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Update chat agent
// @Description Update chat agent profile, prompt, and config
// @Tags chat-agents
// @Param id path string true "Chat agent ID"
// @Param payload body agents.UpdateChatAgentRequest true "Agent payload"
// @Success 200 {object} agents.ChatAgent
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-agents/{id} [put]
func (h *AgentsHandler) Update(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chat agent id is required")
	}
	var req agents.UpdateChatAgentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, agents.ErrChatAgentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat agent not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary Deactivate chat agent
// @Description Mark a chat agent inactive; inbound messages to it are ignored
// @Tags chat-agents
// @Param id path string true "Chat agent ID"
// @Success 200 {object} agents.ChatAgent
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-agents/{id} [delete]
func (h *AgentsHandler) Deactivate(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chat agent id is required")
	}
	resp, err := h.service.SetActive(c.Request().Context(), id, false)
	if err != nil {
		if errors.Is(err, agents.ErrChatAgentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat agent not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// AssociateKnowledge godoc
// @Summary Associate knowledge base
// @Description Link a knowledge base to a chat agent
// @Tags chat-agents
// @Param id path string true "Chat agent ID"
// @Param payload body AssociateKnowledgeRequest true "Association payload"
// @Success 201 {object} knowledge.Association
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-agents/{id}/knowledges [post]
func (h *AgentsHandler) AssociateKnowledge(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chat agent id is required")
	}
	var req AssociateKnowledgeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.KnowledgeID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "knowledge_id is required")
	}
	if _, err := h.service.Get(c.Request().Context(), id); err != nil {
		if errors.Is(err, agents.ErrChatAgentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat agent not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp, err := h.knowledge.Associate(c.Request().Context(), id, req.KnowledgeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListKnowledges godoc
// @Summary List agent knowledge associations
// @Description List active knowledge bases linked to a chat agent
// @Tags chat-agents
// @Param id path string true "Chat agent ID"
// @Success 200 {object} knowledge.ListAssociationsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-agents/{id}/knowledges [get]
func (h *AgentsHandler) ListKnowledges(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chat agent id is required")
	}
	items, err := h.knowledge.ListAgentKnowledges(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, knowledge.ListAssociationsResponse{Items: items})
}
