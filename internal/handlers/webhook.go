package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dojotek/chatbot/internal/platform"
)

// Dispatcher routes a normalized inbound event through the message pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, event platform.InboundEvent) error
}

// WebhookHandler serves the public webhook ingestion route. Deliveries are
// always acknowledged with 200 so platforms do not retry; authentication
// failures are the one exception and return 401.
type WebhookHandler struct {
	registry   *platform.Registry
	dispatcher Dispatcher
	logger     *slog.Logger
}

func NewWebhookHandler(log *slog.Logger, registry *platform.Registry, dispatcher Dispatcher) *WebhookHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookHandler{
		registry:   registry,
		dispatcher: dispatcher,
		logger:     log.With(slog.String("handler", "webhook")),
	}
}

func (h *WebhookHandler) Register(e *echo.Echo) {
	e.POST("/inbounds/:platform/webhook/:version", h.HandleWebhook)
}

// HandleWebhook godoc
// @Summary Receive a platform webhook
// @Description Verify, normalize, and dispatch one webhook delivery
// @Tags inbounds
// @Param platform path string true "Platform name"
// @Param version path string true "Webhook API version"
// @Success 200 {object} platform.Ack
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /inbounds/{platform}/webhook/{version} [post]
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	platformName, err := h.registry.Parse(c.Param("platform"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	adapter, ok := h.registry.Get(platformName)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unsupported platform")
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := adapter.HandleWebhook(c.Request().Context(), platform.WebhookRequest{
		Version: c.Param("version"),
		Headers: c.Request().Header,
		Body:    body,
	})
	if err != nil {
		if errors.Is(err, platform.ErrAuthFailed) {
			return echo.NewHTTPError(http.StatusUnauthorized, "webhook authentication failed")
		}
		// Anything else still acks; the platform retrying will not fix it.
		h.logger.Error("webhook handling failed",
			slog.String("platform", platformName.String()),
			slog.String("error", err.Error()),
		)
		return c.JSON(http.StatusOK, platform.EmptyAck())
	}

	if result.Event != nil {
		if err := h.dispatcher.Dispatch(c.Request().Context(), *result.Event); err != nil {
			h.logger.Error("inbound dispatch failed",
				slog.String("platform", platformName.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	ack := result.Ack
	if ack == nil {
		ack = platform.EmptyAck()
	}
	return c.JSON(http.StatusOK, ack)
}
