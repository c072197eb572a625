package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/nusratjahantasni/doshi-shop-style/internal/clients/shopify"
	pkgerrors "github.com/nusratjahantasni/doshi-shop-style/internal/pkg/errors"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
	"github.com/nusratjahantasni/doshi-shop-style/internal/types"
)

type ProductHandler struct {
	log     *logger.Logger
	catalog shopify.CatalogClient
}

func NewProductHandler(log *logger.Logger, catalog shopify.CatalogClient) *ProductHandler {
	return &ProductHandler{
		log:     log.With("handler", "ProductHandler"),
		catalog: catalog,
	}
}

// GET /api/products?limit=20&q=term
func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 100 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be between 1 and 100"))
			return
		}
		limit = parsed
	}

	products, err := h.catalog.FetchProducts(c.Request.Context(), limit, c.Query("q"))
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	RespondOK(c, gin.H{"products": products})
}

// GET /api/products/:handle
// The product page shows the product plus a strip of related products; both
// reads fan out concurrently.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	handle := c.Param("handle")

	var (
		product *types.Product
		related []types.Product
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		p, err := h.catalog.FetchProductByHandle(ctx, handle)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	g.Go(func() error {
		ps, err := h.catalog.FetchProducts(ctx, 5, "")
		if err != nil {
			// Related products are decorative; the page renders without them.
			h.log.Warn("Related products fetch failed", "handle", handle, "error", err)
			return nil
		}
		related = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		h.respondCatalogError(c, err)
		return
	}

	filtered := make([]types.Product, 0, 4)
	for _, p := range related {
		if p.Handle == handle {
			continue
		}
		filtered = append(filtered, p)
		if len(filtered) == 4 {
			break
		}
	}

	RespondOK(c, gin.H{"product": product, "related": filtered})
}

func (h *ProductHandler) respondCatalogError(c *gin.Context, err error) {
	var netErr *shopify.NetworkError
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.As(err, &netErr):
		RespondError(c, http.StatusBadGateway, "upstream_unavailable", err)
	default:
		h.log.Error("Catalog read failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
