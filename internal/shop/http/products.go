package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
	"github.com/aussiebroadwan/storefront/internal/shop/service"
	"github.com/aussiebroadwan/storefront/internal/shop/store"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
)

// ProductsHandler serves the catalogue. Reads need an authenticated session;
// mutations additionally need the admin role (enforced by the router).
type ProductsHandler struct {
	Products *service.ProductService
}

type productRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

type productUpdateRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// HandleList handles GET /v1/products
//
//	@Summary	List products
//	@Tags		Products
//	@Produce	json
//	@Success	200	{array}		productResponse
//	@Failure	401	{object}	map[string]string
//	@Router		/v1/products [get].
func (h *ProductsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.List(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list products", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /v1/products/{id}
//
//	@Summary	Get a product
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		string	true	"Product id"
//	@Success	200	{object}	productResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/v1/products/{id} [get].
func (h *ProductsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.Products.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "product not found")
			return
		}
		slogx.FromContext(r.Context()).Error("failed to load product", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductResponse(p))
}

// HandleCreate handles POST /v1/products
//
//	@Summary	Create a product
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		request	body		productRequest	true	"Product details"
//	@Success	201		{object}	productResponse
//	@Failure	400		{object}	map[string][]string	"Validation failures"
//	@Failure	403		{object}	map[string]string
//	@Router		/v1/products [post].
func (h *ProductsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Products.Create(r.Context(), service.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		writeProductError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProductResponse(p))
}

// HandleUpdate handles PUT /v1/products/{id}
//
//	@Summary	Update a product
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Product id"
//	@Param		request	body		productUpdateRequest	true	"Fields to change"
//	@Success	200		{object}	productResponse
//	@Failure	400		{object}	map[string][]string	"Validation failures"
//	@Failure	404		{object}	map[string]string
//	@Router		/v1/products/{id} [put].
func (h *ProductsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req productUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Products.Update(r.Context(), r.PathValue("id"), service.ProductUpdate{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		writeProductError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductResponse(p))
}

// HandleDelete handles DELETE /v1/products/{id}
//
//	@Summary	Delete a product
//	@Tags		Products
//	@Param		id	path	string	true	"Product id"
//	@Success	204	"No content"
//	@Failure	404	{object}	map[string]string
//	@Router		/v1/products/{id} [delete].
func (h *ProductsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Products.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeProductError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeProductError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, map[string][]string{"errors": verr.Reasons})
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "product not found")
	default:
		slogx.FromContext(r.Context()).Error("product operation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
