package models

import (
	"time"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	// Secret is optional: legacy mock accounts carry none and accept any
	// credential at login. Never returned in API responses.
	Secret string `json:"-"`

	JoinedAt time.Time `json:"joined_at"`
}
