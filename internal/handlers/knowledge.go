package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dojotek/chatbot/internal/knowledge"
)

type KnowledgeHandler struct {
	service *knowledge.Service
}

func NewKnowledgeHandler(service *knowledge.Service) *KnowledgeHandler {
	return &KnowledgeHandler{service: service}
}

func (h *KnowledgeHandler) Register(e *echo.Echo) {
	group := e.Group("/knowledges")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("/:id/files", h.AddFile)
	group.GET("/:id/files", h.ListFiles)
	group.GET("/:id/files/:file_id", h.GetFile)
}

// Create godoc
// @Summary Create knowledge base
// @Description Create a knowledge base for a customer
// @Tags knowledges
// @Param payload body knowledge.CreateKnowledgeRequest true "Knowledge payload"
// @Success 201 {object} knowledge.Knowledge
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /knowledges [post]
func (h *KnowledgeHandler) Create(c echo.Context) error {
	var req knowledge.CreateKnowledgeRequest
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
// @Summary List knowledge bases
// @Description List knowledge bases for a customer
// @Tags knowledges
// @Param customer_id query string true "Customer ID"
// @Success 200 {object} knowledge.ListKnowledgesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /knowledges [get]
func (h *KnowledgeHandler) List(c echo.Context) error {
	customerID := strings.TrimSpace(c.QueryParam("customer_id"))
	if customerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_id is required")
	}
	items, err := h.service.ListByCustomer(c.Request().Context(), customerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, knowledge.ListKnowledgesResponse{Items: items})
}

// Get godoc
// @Summary Get knowledge base
// @Description Get a knowledge base by id
// @Tags knowledges
// @Param id path string true "Knowledge ID"
// @Success 200 {object} knowledge.Knowledge
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /knowledges/{id} [get]
func (h *KnowledgeHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "knowledge id is required")
	}
	resp, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, knowledge.ErrKnowledgeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "knowledge not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// AddFile godoc
// @Summary Register knowledge file
// @Description Register a source document; text extraction runs in the background
// @Tags knowledges
// @Param id path string true "Knowledge ID"
// @Param payload body knowledge.AddFileRequest true "File payload"
// @Success 201 {object} knowledge.File
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /knowledges/{id}/files [post]
func (h *KnowledgeHandler) AddFile(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "knowledge id is required")
	}
	var req knowledge.AddFileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.KnowledgeID = id
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.SourceURL) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and source_url are required")
	}
	if _, err := h.service.Get(c.Request().Context(), id); err != nil {
		if errors.Is(err, knowledge.ErrKnowledgeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "knowledge not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp, err := h.service.AddFile(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListFiles godoc
// @Summary List knowledge files
// @Description List files registered under a knowledge base
// @Tags knowledges
// @Param id path string true "Knowledge ID"
// @Success 200 {object} knowledge.ListFilesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /knowledges/{id}/files [get]
func (h *KnowledgeHandler) ListFiles(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "knowledge id is required")
	}
	items, err := h.service.ListFiles(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, knowledge.ListFilesResponse{Items: items})
}

// GetFile godoc
// @Summary Get knowledge file
// @Description Get a knowledge file with its extraction status
// @Tags knowledges
// @Param id path string true "Knowledge ID"
// @Param file_id path string true "File ID"
// @Success 200 {object} knowledge.File
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /knowledges/{id}/files/{file_id} [get]
func (h *KnowledgeHandler) GetFile(c echo.Context) error {
	fileID := strings.TrimSpace(c.Param("file_id"))
	if fileID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "file id is required")
	}
	resp, err := h.service.GetFile(c.Request().Context(), fileID)
	if err != nil {
		if errors.Is(err, knowledge.ErrFileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "knowledge file not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
