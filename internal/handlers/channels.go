package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dojotek/chatbot/internal/channels"
)

type ChannelsHandler struct {
	service *channels.Service
}

func NewChannelsHandler(service *channels.Service) *ChannelsHandler {
	return &ChannelsHandler{service: service}
}

func (h *ChannelsHandler) Register(e *echo.Echo) {
	group := e.Group("/chat-channels")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
}

// Create godoc
// @Summary Create chat channel
// @Description Map a platform workspace to a chat agent
// @Tags chat-channels
// @Param payload body channels.CreateChatChannelRequest true "Channel payload"
// @Success 201 {object} channels.ChatChannel
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-channels [post]
func (h *ChannelsHandler) Create(c echo.Context) error {
	var req channels.CreateChatChannelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List chat channels
// @Description List chat channels, optionally filtered by agent
// @Tags chat-channels
// @Param chat_agent_id query string false "Chat agent ID filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} channels.ListChatChannelsResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-channels [get]
func (h *ChannelsHandler) List(c echo.Context) error {
	agentID := strings.TrimSpace(c.QueryParam("chat_agent_id"))
	if agentID != "" {
		items, err := h.service.ListByAgent(c.Request().Context(), agentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, channels.ListChatChannelsResponse{Items: items})
	}
	limit := int32(intQueryParam(c, "limit"))
	offset := int32(intQueryParam(c, "offset"))
	items, err := h.service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, channels.ListChatChannelsResponse{Items: items})
}

// Get godoc
// @Summary Get chat channel
// @Description Get a chat channel by id
// @Tags chat-channels
// @Param id path string true "Chat channel ID"
// @Success 200 {object} channels.ChatChannel
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat-channels/{id} [get]
func (h *ChannelsHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chat channel id is required")
	}
	resp, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, channels.ErrChannelNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat channel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
