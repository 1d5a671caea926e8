package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dojotek/chatbot/internal/staff"
)

// StaffHandler serves customer staff and their platform identities. Staff
// rows are usually provisioned by ingestion; the API reads and curates them.
type StaffHandler struct {
	service *staff.Service
}

// SetIdentityActiveRequest toggles an identity's active flag.
type SetIdentityActiveRequest struct {
	IsActive bool `json:"is_active"`
}

func NewStaffHandler(service *staff.Service) *StaffHandler {
	return &StaffHandler{service: service}
}

func (h *StaffHandler) Register(e *echo.Echo) {
	group := e.Group("/customer-staffs")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.GET("/:id/identities", h.ListIdentities)
	group.POST("/:id/identities", h.CreateIdentity)
	group.PUT("/identities/:identity_id/active", h.SetIdentityActive)
}

// Create godoc
// @Summary Create customer staff
// @Description Register a staff member under a customer
// @Tags customer-staffs
// @Param payload body staff.CreateStaffRequest true "Staff payload"
// @Success 201 {object} staff.CustomerStaff
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /customer-staffs [post]
func (h *StaffHandler) Create(c echo.Context) error {
	var req staff.CreateStaffRequest
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
// @Summary List customer staff
// @Description List staff members for a customer
// @Tags customer-staffs
// @Param customer_id query string true "Customer ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} staff.ListStaffResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /customer-staffs [get]
func (h *StaffHandler) List(c echo.Context) error {
	customerID := strings.TrimSpace(c.QueryParam("customer_id"))
	if customerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_id is required")
	}
	limit := int32(intQueryParam(c, "limit"))
	offset := int32(intQueryParam(c, "offset"))
	items, err := h.service.ListByCustomer(c.Request().Context(), customerID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, staff.ListStaffResponse{Items: items})
}

// Get godoc
// @Summary Get customer staff
// @Description Get a staff member by id
// @Tags customer-staffs
// @Param id path string true "Customer staff ID"
// @Success 200 {object} staff.CustomerStaff
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /customer-staffs/{id} [get]
func (h *StaffHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer staff id is required")
	}
	resp, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "customer staff not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// ListIdentities godoc
// @Summary List staff identities
// @Description List platform identities for a staff member
// @Tags customer-staffs
// @Param id path string true "Customer staff ID"
// @Success 200 {object} staff.ListIdentitiesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /customer-staffs/{id}/identities [get]
func (h *StaffHandler) ListIdentities(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer staff id is required")
	}
	items, err := h.service.ListIdentities(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, staff.ListIdentitiesResponse{Items: items})
}

// CreateIdentity godoc
// @Summary Create staff identity
// @Description Bind a platform user id to a staff member
// @Tags customer-staffs
// @Param id path string true "Customer staff ID"
// @Param payload body staff.CreateIdentityRequest true "Identity payload"
// @Success 201 {object} staff.Identity
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /customer-staffs/{id}/identities [post]
func (h *StaffHandler) CreateIdentity(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer staff id is required")
	}
	var req staff.CreateIdentityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.CustomerStaffID = id
	if strings.TrimSpace(req.Platform) == "" || strings.TrimSpace(req.PlatformUserID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "platform and platform_user_id are required")
	}
	resp, err := h.service.CreateIdentity(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, resp)
}

// SetIdentityActive godoc
// @Summary Toggle staff identity
// @Description Activate or deactivate a platform identity
// @Tags customer-staffs
// @Param identity_id path string true "Identity ID"
// @Param payload body SetIdentityActiveRequest true "Active flag"
// @Success 200 {object} staff.Identity
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /customer-staffs/identities/{identity_id}/active [put]
func (h *StaffHandler) SetIdentityActive(c echo.Context) error {
	identityID := strings.TrimSpace(c.Param("identity_id"))
	if identityID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "identity id is required")
	}
	var req SetIdentityActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.service.SetIdentityActive(c.Request().Context(), identityID, req.IsActive)
	if err != nil {
		if errors.Is(err, staff.ErrIdentityNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "identity not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
