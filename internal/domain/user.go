package domain

import (
	"strings"
	"time"
)

// UserProfile holds the display identity for an account. The account itself
// lives at the external identity provider; the profile is keyed by the
// provider's user ID.
type UserProfile struct {
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=80"`
	LastName  string `json:"last_name" validate:"required,min=1,max=80"`
}

func (r *UpdateProfileRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

type ProfileResponse struct {
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
