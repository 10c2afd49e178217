package domain

import (
	"time"
)

type Role string

const (
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID                  int64     `json:"id"`
	Username            string    `json:"username"`
	PasswordHash        string    `json:"-"`
	FullName            string    `json:"fullName"`
	Email               string    `json:"email"`
	Role                Role      `json:"role"`
	ChatID              string    `json:"chatID"`
	AllowLateSubmission bool      `json:"allowLateSubmission"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
	Version             int32     `json:"-"`
}
