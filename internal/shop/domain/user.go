package domain

import "time"

type User struct {
	ID           string
	Username     string
	Email        string // stored lowercased, unique per store
	PasswordHash string // bcrypt encoded, never leaves the store boundary
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
