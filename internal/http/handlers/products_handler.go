// Product HTTP handlers.
//
// Operational read endpoint:
//   - GET /products   (full catalog with stock levels)
//
// This is a monitoring/support surface, not the shopping flow; customers shop
// through the dialogue gateway.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shop-backend/internal/domain"
)

// ListProductsResponse contains the full catalog.
type ListProductsResponse struct {
	Products []domain.Product `json:"products"`
}

// ListProducts godoc
// @ID          listProducts
// @Summary     List all products
// @Description Returns every product with its current price and stock level,
// @Description including sold-out products.
// @Tags        Products
// @Produce     json
//
// @Success     200  {object}  handlers.ListProductsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /products [get]
func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListAll(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListProductsResponse{Products: products})
}
