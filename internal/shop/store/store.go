package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (memory, sqlite)
// implement it. The state-machine logic above never touches a concrete
// driver, so a persistent backing store can be swapped in without changes.
type Store interface {
	Users() Users
	Products() Products
	Challenges() Challenges

	// Ping verifies the backing store is still reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is already registered; the
	// driver serializes creation per email so duplicates cannot race in.
	CreateUser(ctx context.Context, u domain.User) error
}

type Products interface {
	// GetProductByID returns a product by id.
	GetProductByID(ctx context.Context, id string) (domain.Product, error)

	// ListProducts returns all products ordered by creation date (oldest first).
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// CreateProduct inserts a new product (id is ULID).
	CreateProduct(ctx context.Context, p domain.Product) error

	// UpdateProduct replaces the stored record and bumps updated_at.
	UpdateProduct(ctx context.Context, p domain.Product) error

	// DeleteProduct removes a product.
	DeleteProduct(ctx context.Context, id string) error

	// IsEmpty returns true if there are no products (used for seeding).
	IsEmpty(ctx context.Context) (bool, error)
}

type Challenges interface {
	// PutChallenge stores a challenge, replacing any prior one for the same
	// user id.
	PutChallenge(ctx context.Context, ch domain.PendingChallenge) error

	// GetChallenge returns the live challenge for a user id.
	GetChallenge(ctx context.Context, userID string) (domain.PendingChallenge, error)

	// IncrementChallengeAttempts bumps the failed attempt counter and returns
	// the updated record.
	IncrementChallengeAttempts(ctx context.Context, userID string) (domain.PendingChallenge, error)

	// DeleteChallenge removes the challenge for a user id.
	DeleteChallenge(ctx context.Context, userID string) error

	// DeleteExpiredChallenges removes every challenge expired as of now and
	// reports how many were removed (housekeeping).
	DeleteExpiredChallenges(ctx context.Context, now time.Time) (int, error)
}
