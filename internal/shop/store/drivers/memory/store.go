// Package memory is the in-memory store driver. Records live for the process
// lifetime; all maps share one mutex so per-key mutations (user creation,
// challenge issue/verify) are applied atomically even under concurrent
// request handlers.
package memory

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
	"github.com/aussiebroadwan/storefront/internal/shop/store"
)

type Store struct {
	mu sync.Mutex

	users      map[string]domain.User             // by id
	products   map[string]domain.Product          // by id
	challenges map[string]domain.PendingChallenge // by user id
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]domain.User),
		products:   make(map[string]domain.Product),
		challenges: make(map[string]domain.PendingChallenge),
	}
}

func (s *Store) Users() store.Users           { return (*usersRepo)(s) }
func (s *Store) Products() store.Products     { return (*productsRepo)(s) }
func (s *Store) Challenges() store.Challenges { return (*challengesRepo)(s) }

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }
