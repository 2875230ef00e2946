// Order HTTP handlers.
//
// Operational read endpoint:
//   - GET /orders?limit=&status=   (recent order summaries, optionally filtered)
//
// Summaries mirror what the admin dialogue shows: customer name, status,
// total, line count, newest first.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shop-backend/internal/domain"
	"github.com/tbourn/go-shop-backend/internal/services"
	"github.com/tbourn/go-shop-backend/internal/utils"
)

// listOrdersDefault and listOrdersMax bound the ?limit= query parameter.
const (
	listOrdersDefault = 20
	listOrdersMax     = 100
)

// ListOrdersResponse contains a page of order summaries.
type ListOrdersResponse struct {
	Orders []domain.OrderSummary `json:"orders"`
}

// ListOrders godoc
// @ID          listOrders
// @Summary     List recent orders
// @Description Returns recent order summaries, newest first. An optional
// @Description status filter restricts the listing to one known status.
// @Tags        Orders
// @Produce     json
//
// @Param       limit   query  int     false  "Maximum number of orders"  minimum(1) maximum(100) default(20)
// @Param       status  query  string  false  "Status filter"  Enums(New, Processing, Shipped, Delivered, Cancelled)
//
// @Success     200  {object}  handlers.ListOrdersResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown status"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /orders [get]
func (h *Handlers) ListOrders(c *gin.Context) {
	limit := utils.ClampLimit(
		utils.AtoiDefault(c.Query("limit"), listOrdersDefault),
		listOrdersDefault, listOrdersMax,
	)

	summaries, err := h.orders.List(c.Request.Context(), limit, c.Query("status"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownStatus) {
			fail(c, http.StatusBadRequest, ErrCodeUnknownStatus, "unknown status filter")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if summaries == nil {
		summaries = []domain.OrderSummary{}
	}
	ok(c, http.StatusOK, ListOrdersResponse{Orders: summaries})
}
