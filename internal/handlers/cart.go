package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nusratjahantasni/doshi-shop-style/internal/cart"
	"github.com/nusratjahantasni/doshi-shop-style/internal/clients/shopify"
	"github.com/nusratjahantasni/doshi-shop-style/internal/middleware"
	pkgerrors "github.com/nusratjahantasni/doshi-shop-style/internal/pkg/errors"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
	"github.com/nusratjahantasni/doshi-shop-style/internal/types"
)

type CartHandler struct {
	log   *logger.Logger
	carts *cart.Registry
}

func NewCartHandler(log *logger.Logger, carts *cart.Registry) *CartHandler {
	return &CartHandler{
		log:   log.With("handler", "CartHandler"),
		carts: carts,
	}
}

// cartView is the entire cart contract the UI is allowed to depend on.
type cartView struct {
	Items       []types.CartLine `json:"items"`
	TotalItems  int              `json:"totalItems"`
	TotalPrice  types.Money      `json:"totalPrice"`
	CheckoutURL string           `json:"checkoutUrl,omitempty"`
	IsLoading   bool             `json:"isLoading"`
	IsSyncing   bool             `json:"isSyncing"`
	// LineGone flags a mutation that succeeded only because the remote
	// backend had already dropped the line; the UI may surface a notice.
	LineGone bool `json:"lineGone,omitempty"`
}

func (h *CartHandler) store(c *gin.Context) *cart.Store {
	st := h.carts.Store(middleware.SessionID(c))
	st.Sync(c.Request.Context())
	return st
}

func (h *CartHandler) view(c *gin.Context, st *cart.Store, lineGone bool) (cartView, bool) {
	total, err := st.TotalPrice()
	if err != nil {
		h.log.Error("Cart total failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "mixed_currency", err)
		return cartView{}, false
	}
	return cartView{
		Items:       st.Items(),
		TotalItems:  st.TotalItems(),
		TotalPrice:  total,
		CheckoutURL: st.CheckoutURL(),
		IsLoading:   st.IsLoading(),
		IsSyncing:   st.IsSyncing(),
		LineGone:    lineGone,
	}, true
}

// GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	st := h.store(c)
	if view, ok := h.view(c, st, false); ok {
		RespondOK(c, view)
	}
}

// POST /api/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var line types.CartLine
	if err := c.ShouldBindJSON(&line); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	st := h.store(c)
	if err := st.AddItem(c.Request.Context(), line); err != nil {
		if errors.Is(err, cart.ErrCartExpired) {
			// The stale cart was cleared; the client retries the add and a
			// fresh cart gets created.
			if view, ok := h.view(c, st, false); ok {
				c.JSON(http.StatusConflict, gin.H{"cart": view, "retry": true})
			}
			return
		}
		h.respondCartError(c, err)
		return
	}

	if view, ok := h.view(c, st, false); ok {
		RespondOK(c, view)
	}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// PATCH /api/cart/items/:variantId
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	variantID := c.Param("variantId")
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	st := h.store(c)
	err := st.UpdateQuantity(c.Request.Context(), variantID, req.Quantity)
	lineGone := false
	switch {
	case err == nil:
	case errors.Is(err, cart.ErrLineGone):
		lineGone = true
	case errors.Is(err, cart.ErrCartExpired):
		// Cleared locally; respond with the now-empty cart.
	default:
		h.respondCartError(c, err)
		return
	}

	if view, ok := h.view(c, st, lineGone); ok {
		RespondOK(c, view)
	}
}

// DELETE /api/cart/items/:variantId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	variantID := c.Param("variantId")

	st := h.store(c)
	if err := st.RemoveItem(c.Request.Context(), variantID); err != nil {
		h.respondCartError(c, err)
		return
	}

	if view, ok := h.view(c, st, false); ok {
		RespondOK(c, view)
	}
}

// GET /api/cart/checkout-url
func (h *CartHandler) GetCheckoutURL(c *gin.Context) {
	st := h.store(c)
	RespondOK(c, gin.H{"checkoutUrl": st.CheckoutURL()})
}

func (h *CartHandler) respondCartError(c *gin.Context, err error) {
	var netErr *shopify.NetworkError
	switch {
	case errors.Is(err, cart.ErrBusy):
		RespondError(c, http.StatusConflict, "busy", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid", err)
	case errors.As(err, &netErr):
		RespondError(c, http.StatusBadGateway, "upstream_unavailable", err)
	default:
		h.log.Error("Cart operation failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
