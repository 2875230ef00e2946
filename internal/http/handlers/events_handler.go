// Dialogue gateway HTTP handler.
//
// This file exposes the single write endpoint of the service:
//   - POST /events   (deliver one inbound dialogue event)
//
// The handler is transport-thin: it validates the envelope, deduplicates by
// event id, and hands the event to the dialogue controller. Replies come back
// in the response body; the transport adapter is responsible for delivering
// them to the chat channel.
//
// Deduplication:
// Chat platforms redeliver updates after timeouts. Every envelope carries a
// client-chosen event id; the first delivery is processed, any later delivery
// of the same id is answered with `"duplicate": true` and no replies, without
// touching the dialogue state.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-shop-backend/internal/dialog"
	"github.com/tbourn/go-shop-backend/internal/domain"
	"github.com/tbourn/go-shop-backend/internal/http/middleware"
	"github.com/tbourn/go-shop-backend/internal/repo"
)

//
// Service contracts (context-aware)
//

// DialogController drives one inbound event through the per-user dialogue
// state machine. Implementations must be safe for concurrent use.
type DialogController interface {
	Handle(ctx context.Context, in dialog.Inbound) []dialog.Outbound
}

// CatalogReader lists products for the operational read endpoint.
type CatalogReader interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
}

// OrderReader lists order summaries for the operational read endpoint.
type OrderReader interface {
	List(ctx context.Context, limit int, statusFilter string) ([]domain.OrderSummary, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints: the dialogue gateway and the
// operational reads. It depends on abstract contracts to keep transport
// concerns separate from business logic; the DB handle is used only for
// event deduplication.
type Handlers struct {
	db      *gorm.DB
	dialog  DialogController
	catalog CatalogReader
	orders  OrderReader
}

// New constructs a Handlers instance bound to the given dependencies.
func New(db *gorm.DB, ctrl DialogController, catalog CatalogReader, orders OrderReader) *Handlers {
	return &Handlers{db: db, dialog: ctrl, catalog: catalog, orders: orders}
}

//
// DTOs
//

// EventRequest is the JSON envelope for one inbound dialogue event.
type EventRequest struct {
	// EventID is the client-chosen delivery identifier used for deduplication.
	EventID string `json:"event_id" binding:"required,min=1,max=64" example:"upd-918273"`
	// Inbound carries the user identity and the event payload.
	Inbound dialog.Inbound `json:"inbound" binding:"required"`
}

// EventResponse carries the dialogue replies for one processed event.
type EventResponse struct {
	// Duplicate is true when this event id was already processed; Replies is
	// then empty and no state was touched.
	Duplicate bool `json:"duplicate"`
	// Replies are the messages to deliver to the user, in order.
	Replies []dialog.Outbound `json:"replies"`
}

//
// Handlers
//

// PostEvent godoc
// @ID          postEvent
// @Summary     Deliver one inbound dialogue event
// @Description Runs one command, button press, or text message through the
// @Description dialogue state machine and returns the replies to send.
// @Description Redeliveries of the same event_id are answered with duplicate=true.
// @Tags        Events
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.EventRequest  true  "Event envelope"
//
// @Success     200  {object}  handlers.EventResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /events [post]
func (h *Handlers) PostEvent(c *gin.Context) {
	ctx := c.Request.Context()

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.CountDialogEvent("invalid", middleware.EventRejected)
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "event_id and inbound required")
		return
	}
	kind := string(req.Inbound.Event.Kind)
	switch req.Inbound.Event.Kind {
	case dialog.KindCommand, dialog.KindCallback, dialog.KindText:
	default:
		middleware.CountDialogEvent(kind, middleware.EventRejected)
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown event kind")
		return
	}

	first, err := repo.MarkEventSeen(ctx, h.db, req.EventID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeEventFailed, err.Error())
		return
	}
	if !first {
		middleware.CountDialogEvent(kind, middleware.EventDuplicate)
		ok(c, http.StatusOK, EventResponse{Duplicate: true, Replies: []dialog.Outbound{}})
		return
	}

	replies := h.dialog.Handle(ctx, req.Inbound)
	if replies == nil {
		replies = []dialog.Outbound{}
	}
	middleware.CountDialogEvent(kind, middleware.EventProcessed)
	ok(c, http.StatusOK, EventResponse{Replies: replies})
}
