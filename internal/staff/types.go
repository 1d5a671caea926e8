package staff

import "time"

type CustomerStaff struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Identity struct {
	ID              string         `json:"id"`
	CustomerStaffID string         `json:"customer_staff_id"`
	Platform        string         `json:"platform"`
	PlatformUserID  string         `json:"platform_user_id"`
	PlatformData    map[string]any `json:"platform_data,omitempty"`
	IsActive        bool           `json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type CreateStaffRequest struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type CreateIdentityRequest struct {
	CustomerStaffID string         `json:"customer_staff_id"`
	Platform        string         `json:"platform"`
	PlatformUserID  string         `json:"platform_user_id"`
	PlatformData    map[string]any `json:"platform_data,omitempty"`
}

type ListStaffResponse struct {
	Items []CustomerStaff `json:"items"`
}

type ListIdentitiesResponse struct {
	Items []Identity `json:"items"`
}
