package customers

import "time"

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCustomerRequest struct {
	Name string `json:"name"`
}

type UpdateCustomerRequest struct {
	Name string `json:"name"`
}

type ListCustomersResponse struct {
	Items []Customer `json:"items"`
}
