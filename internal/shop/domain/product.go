package domain

import "time"

type Product struct {
	ID          string
	Name        string
	Price       float64 // must be positive
	Description string
	Image       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
