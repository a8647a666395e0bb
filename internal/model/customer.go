package model

// Customer is a buyer. A customer may belong to a registered user.
type Customer struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Phone  string `json:"phone" db:"phone"`
	Email  string `json:"email" db:"email"`
	UserID *int64 `json:"userId,omitempty" db:"user_id"`
}

// CustomerRequest is the payload for creating or updating a customer.
type CustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}
