package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
	"github.com/aussiebroadwan/storefront/internal/shop/store"
	"github.com/aussiebroadwan/storefront/pkg/cryptox"
	"github.com/aussiebroadwan/storefront/pkg/idx"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords so a caller cannot probe which emails are registered.
var ErrInvalidCredentials = errors.New("invalid_credentials")

// ValidationError carries every reason a registration was rejected, so the
// caller sees the full list rather than the first failure.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}

// Registration is the input for creating a new account.
type Registration struct {
	Username string
	Email    string
	Password string
	Role     string
}

// AccountService manages account creation and primary credential checks.
type AccountService struct {
	Store store.Store
}

func NewAccountService(st store.Store) *AccountService {
	return &AccountService{Store: st}
}

// Register validates the registration, hashes the password, and persists the
// new user. Validation failures accumulate into a single *ValidationError.
func (s *AccountService) Register(ctx context.Context, reg Registration) (domain.User, error) {
	var reasons []string

	if strings.TrimSpace(reg.Username) == "" {
		reasons = append(reasons, "username is required")
	}
	email := strings.ToLower(strings.TrimSpace(reg.Email))
	if email == "" {
		reasons = append(reasons, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		reasons = append(reasons, "email is not valid")
	}

	role, err := domain.ParseRole(reg.Role)
	if err != nil {
		reasons = append(reasons, fmt.Sprintf("role %q is not recognised", reg.Role))
	}

	reasons = append(reasons, cryptox.ValidatePasswordStrength(reg.Password)...)

	if len(reasons) > 0 {
		return domain.User{}, &ValidationError{Reasons: reasons}
	}

	hash, err := cryptox.HashPassword(reg.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     strings.TrimSpace(reg.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, &ValidationError{Reasons: []string{"email already registered"}}
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate checks the primary credentials. Unknown emails and wrong
// passwords collapse into ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// RequestPasswordReset acknowledges a reset request without revealing whether
// the email is registered. Delivery of an actual reset link is out of band.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	_, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("lookup user: %w", err)
	}
	return nil
}
