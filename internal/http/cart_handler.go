package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
)

type CartHandler struct {
	sessions *Sessions
}

func NewCartHandler(sessions *Sessions) *CartHandler {
	return &CartHandler{sessions: sessions}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type SetQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Lines []domain.CartLine `json:"lines"`
	Total int64             `json:"total"`
}

func cartResponse(cart *domain.Cart) CartResponseDTO {
	return CartResponseDTO{Lines: cart.Lines(), Total: cart.Total()}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctrl := h.sessions.Get(sessionKeyFromContext(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(ctrl.Cart()))
}

// AddItem adds a displayed product to the cart. The snapshot comes from the
// catalog page currently on screen; an existing line for the product is
// merged, not duplicated.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	ctrl := h.sessions.Get(sessionKeyFromContext(r.Context()))
	product, ok := ctrl.Catalog().Find(req.ProductID)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown_product", "product is not on the current catalog page")
		return
	}

	if err := ctrl.Cart().Add(product, req.Quantity); err != nil {
		handleCoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(ctrl.Cart()))
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a positive integer")
		return
	}

	var req SetQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	// Quantity 0 removes the line; the cart enforces that equivalence.
	ctrl := h.sessions.Get(sessionKeyFromContext(r.Context()))
	ctrl.Cart().SetQuantity(productID, req.Quantity)

	respondJSON(w, http.StatusOK, cartResponse(ctrl.Cart()))
}

// DecrementItem steps a line's quantity down by one, flooring at one.
func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a positive integer")
		return
	}

	ctrl := h.sessions.Get(sessionKeyFromContext(r.Context()))
	ctrl.Cart().Decrement(productID)

	respondJSON(w, http.StatusOK, cartResponse(ctrl.Cart()))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a positive integer")
		return
	}

	ctrl := h.sessions.Get(sessionKeyFromContext(r.Context()))
	ctrl.Cart().Remove(productID)

	respondJSON(w, http.StatusOK, cartResponse(ctrl.Cart()))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctrl := h.sessions.Get(sessionKeyFromContext(r.Context()))
	ctrl.Cart().Clear()

	respondJSON(w, http.StatusOK, cartResponse(ctrl.Cart()))
}

func productIDParam(r *http.Request) (int64, error) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		return 0, strconv.ErrSyntax
	}
	return productID, nil
}
