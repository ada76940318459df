package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
	"github.com/aussiebroadwan/storefront/internal/shop/store"
	"github.com/aussiebroadwan/storefront/pkg/idx"
)

// ProductInput is the input for creating a product.
type ProductInput struct {
	Name        string
	Price       float64
	Description string
	Image       string
}

// ProductUpdate carries partial changes; nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Price       *float64
	Description *string
	Image       *string
}

// ProductService manages the catalogue.
type ProductService struct {
	Store store.Store
}

func NewProductService(st store.Store) *ProductService {
	return &ProductService{Store: st}
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Store.Products().ListProducts(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.Store.Products().GetProductByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (domain.Product, error) {
	if err := validateProduct(in.Name, in.Price); err != nil {
		return domain.Product{}, err
	}

	now := time.Now().UTC()
	p := domain.Product{
		ID:          idx.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Store.Products().CreateProduct(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, upd ProductUpdate) (domain.Product, error) {
	p, err := s.Store.Products().GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if upd.Name != nil {
		p.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Image != nil {
		p.Image = *upd.Image
	}

	if err := validateProduct(p.Name, p.Price); err != nil {
		return domain.Product{}, err
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.Store.Products().UpdateProduct(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.Store.Products().DeleteProduct(ctx, id)
}

// Seed inserts the starter catalogue when the store is empty, so a fresh
// deployment has something to show.
func (s *ProductService) Seed(ctx context.Context) error {
	empty, err := s.Store.Products().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("check catalogue: %w", err)
	}
	if !empty {
		return nil
	}

	seeds := []ProductInput{
		{
			Name:        "Ultraboost 22",
			Price:       180,
			Description: "Responsive running shoes with a snug, supportive fit.",
			Image:       "/images/ultraboost-22.jpg",
		},
		{
			Name:        "Tiro Track Jacket",
			Price:       85,
			Description: "Classic full-zip track jacket in a slim cut.",
			Image:       "/images/tiro-track-jacket.jpg",
		},
	}
	for _, in := range seeds {
		if _, err := s.Create(ctx, in); err != nil {
			return err
		}
	}
	return nil
}

func validateProduct(name string, price float64) error {
	var reasons []string
	if strings.TrimSpace(name) == "" {
		reasons = append(reasons, "name is required")
	}
	if price <= 0 {
		reasons = append(reasons, "price must be positive")
	}
	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}
