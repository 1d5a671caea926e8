package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dojotek/chatbot/internal/customers"
)

type CustomersHandler struct {
	service *customers.Service
}

func NewCustomersHandler(service *customers.Service) *CustomersHandler {
	return &CustomersHandler{service: service}
}

func (h *CustomersHandler) Register(e *echo.Echo) {
	group := e.Group("/customers")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Deactivate)
}

// Create godoc
// @Summary Create customer
// @Description Create a customer organization
// @Tags customers
// @Param payload body customers.CreateCustomerRequest true "Customer payload"
// @Success 201 {object} customers.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /customers [post]
func (h *CustomersHandler) Create(c echo.Context) error {
	var req customers.CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	resp, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List customers
// @Description List customers, newest first
// @Tags customers
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} customers.ListCustomersResponse
// @Failure 500 {object} ErrorResponse
// @Router /customers [get]
func (h *CustomersHandler) List(c echo.Context) error {
	limit := int32(intQueryParam(c, "limit"))
	offset := int32(intQueryParam(c, "offset"))
	items, err := h.service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, customers.ListCustomersResponse{Items: items})
}

// Get godoc
// @Summary Get customer
// @Description Get a customer by id
// @Tags customers
// @Param id path string true "Customer ID"
// @Success 200 {object} customers.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /customers/{id} [get]
func (h *CustomersHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer id is required")
	}
	resp, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, customers.ErrCustomerNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Update customer
// @Description Update customer profile fields
// @Tags customers
// @Param id path string true "Customer ID"
// @Param payload body customers.UpdateCustomerRequest true "Customer payload"
// @Success 200 {object} customers.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /customers/{id} [put]
func (h *CustomersHandler) Update(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer id is required")
	}
	var req customers.UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, customers.ErrCustomerNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary Deactivate customer
// @Description Mark a customer inactive; its agents stop answering
// @Tags customers
// @Param id path string true "Customer ID"
// @Success 200 {object} customers.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /customers/{id} [delete]
func (h *CustomersHandler) Deactivate(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer id is required")
	}
	resp, err := h.service.SetActive(c.Request().Context(), id, false)
	if err != nil {
		if errors.Is(err, customers.ErrCustomerNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func intQueryParam(c echo.Context, name string) int {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
