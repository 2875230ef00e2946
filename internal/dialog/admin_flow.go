package dialog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/tbourn/go-shop-backend/internal/services"
	"github.com/tbourn/go-shop-backend/internal/session"
)

// ordersAdminListLimit bounds the admin order listing, matching the filter
// view the keyboard offers.
const ordersAdminListLimit = 15

// handleStockCommand shows current stock levels and offers a product to
// update. Admin-only; the check is evaluated fresh here and on every
// following step.
func (c *Controller) handleStockCommand(ctx context.Context, in Inbound, st *session.State) []Outbound {
	if out, ok := c.requireAdmin(ctx, in, st); !ok {
		return out
	}

	products, err := c.Catalog.ListAll(ctx)
	if err != nil {
		return c.failStorage(in.UserID, "list_catalog", err)
	}
	if len(products) == 0 {
		return c.say(in.UserID, msgCatalogEmpty)
	}

	st.ResetFlow()
	st.Step = session.StepSelectingProductToUpdate
	return c.ask(in.UserID, formatStockOverview(products), stockChoiceRows(products))
}

// handleStockSelection expects a stock:<id> callback and asks for the new
// stock level of the chosen product.
func (c *Controller) handleStockSelection(ctx context.Context, in Inbound, st *session.State) []Outbound {
	if out, ok := c.requireAdmin(ctx, in, st); !ok {
		return out
	}
	if in.Event.Kind != KindCallback {
		return c.say(in.UserID, msgUseKeyboard)
	}
	verb, arg := splitToken(in.Event.Token)
	if verb != tokStock {
		return c.say(in.UserID, msgUseKeyboard)
	}
	id, ok := parseID(arg)
	if !ok {
		return c.say(in.UserID, msgUseKeyboard)
	}

	p, err := c.Catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.say(in.UserID, msgProductNotFound)
		}
		return c.failStorage(in.UserID, "get_product", err)
	}

	st.UpdateProductID = p.ID
	st.UpdateProductName = p.Name
	st.UpdateCurrentStock = p.Stock
	st.Step = session.StepEnteringNewStock
	return c.say(in.UserID, newStockPrompt(p))
}

// handleNewStockValue parses the typed stock level and applies it. Zero is a
// legal value: it removes the product from the available listing without
// deleting it.
func (c *Controller) handleNewStockValue(ctx context.Context, in Inbound, st *session.State) []Outbound {
	if out, ok := c.requireAdmin(ctx, in, st); !ok {
		return out
	}
	if in.Event.Kind != KindText {
		return c.say(in.UserID, msgAskNewStock)
	}

	n, err := strconv.Atoi(strings.TrimSpace(in.Event.Text))
	if err != nil || n < 0 {
		// Invalid input: re-prompt, dialogue state unchanged.
		return c.say(in.UserID, msgStockValueInvalid)
	}

	if err := c.Catalog.SetStock(ctx, st.UpdateProductID, n); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			st.ResetFlow()
			return c.say(in.UserID, msgProductNotFound)
		}
		return c.failStorage(in.UserID, "set_stock", err)
	}

	out := c.say(in.UserID, stockUpdatedText(st.UpdateProductName, st.UpdateCurrentStock, n))
	st.ResetFlow()
	return out
}

// handleOrdersCommand shows per-status counts and the filter choice set.
func (c *Controller) handleOrdersCommand(ctx context.Context, in Inbound, st *session.State) []Outbound {
	if out, ok := c.requireAdmin(ctx, in, st); !ok {
		return out
	}

	counts, err := c.Orders.CountByStatus(ctx)
	if err != nil {
		return c.failStorage(in.UserID, "count_orders", err)
	}

	st.ResetFlow()
	st.Step = session.StepViewingOrders
	return c.ask(in.UserID, formatOrderCounts(counts), filterChoiceRows())
}

// handleOrdersFilter lists orders under the picked filter and asks for an
// order number to inspect.
func (c *Controller) handleOrdersFilter(ctx context.Context, in Inbound, st *session.State) []Outbound {
	if out, ok := c.requireAdmin(ctx, in, st); !ok {
		return out
	}
	if in.Event.Kind != KindCallback {
		return c.say(in.UserID, msgUseKeyboard)
	}
	verb, arg := splitToken(in.Event.Token)
	if verb != tokFilter {
		return c.say(in.UserID, msgUseKeyboard)
	}

	filter := ""
	if arg != filterAll {
		filter = arg
	}
	summaries, err := c.Orders.List(ctx, ordersAdminListLimit, filter)
	if err != nil {
		if errors.Is(err, services.ErrUnknownStatus) {
			return c.say(in.UserID, msgUseKeyboard)
		}
		return c.failStorage(in.UserID, "list_orders", err)
	}
	if len(summaries) == 0 {
		st.ResetFlow()
		return c.say(in.UserID, msgNoOrders)
	}

	st.OrdersFilter = arg
	st.Step = session.StepViewingOrderDetails
	return c.say(in.UserID, formatOrderList(arg, summaries))
}

// handleOrderDetailsLookup resolves a typed order number to its full detail
// view with the status change keyboard.
func (c *Controller) handleOrderDetailsLookup(ctx context.Context, in Inbound, st *session.State) []Outbound {
	if out, ok := c.requireAdmin(ctx, in, st); !ok {
		return out
	}
	if in.Event.Kind != KindText {
		return c.say(in.UserID, msgAskOrderNumber)
	}
	id, ok := parseID(in.Event.Text)
	if !ok {
		return c.say(in.UserID, msgOrderNumberInvalid)
	}

	order, err := c.Orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return c.say(in.UserID, msgOrderNotFound)
		}
		return c.failStorage(in.UserID, "get_order", err)
	}

	st.CurrentOrderID = order.ID
	st.Step = session.StepChangingOrderStatus
	return c.orderDetailsView(ctx, in.UserID, order.ID, st.OrdersFilter)
}

// handleStatusChange applies a status:<id>:<target> callback or returns to
// the order list on a filter callback.
func (c *Controller) handleStatusChange(ctx context.Context, in Inbound, st *session.State) []Outbound {
	if out, ok := c.requireAdmin(ctx, in, st); !ok {
		return out
	}
	if in.Event.Kind != KindCallback {
		return c.say(in.UserID, msgUseKeyboard)
	}
	verb, rest := splitToken(in.Event.Token)
	switch verb {
	case tokFilter:
		// Back to the listing with the requested filter.
		st.Step = session.StepViewingOrders
		return c.handleOrdersFilter(ctx, in, st)

	case tokStatus:
		idStr, target, found := strings.Cut(rest, ":")
		if !found {
			return c.say(in.UserID, msgUseKeyboard)
		}
		id, ok := parseID(idStr)
		if !ok {
			return c.say(in.UserID, msgUseKeyboard)
		}

		if err := c.Orders.SetStatus(ctx, id, target); err != nil {
			switch {
			case errors.Is(err, services.ErrOrderNotFound):
				return c.say(in.UserID, msgOrderNotFound)
			case errors.Is(err, services.ErrUnknownStatus):
				return c.say(in.UserID, msgUseKeyboard)
			case errors.Is(err, services.ErrIllegalTransition):
				return c.say(in.UserID, illegalTransitionText(target))
			default:
				return c.failStorage(in.UserID, "set_status", err)
			}
		}

		out := c.say(in.UserID, statusChangedText(id, target))
		return append(out, c.orderDetailsView(ctx, in.UserID, id, st.OrdersFilter)...)

	default:
		return c.say(in.UserID, msgUseKeyboard)
	}
}

// orderDetailsView renders the admin detail message with the status change
// keyboard for one order.
func (c *Controller) orderDetailsView(ctx context.Context, userID int64, orderID uint, filter string) []Outbound {
	order, err := c.Orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return c.say(userID, msgOrderNotFound)
		}
		return c.failStorage(userID, "get_order", err)
	}

	owner, err := c.Users.Get(ctx, order.UserID)
	if err != nil && !errors.Is(err, services.ErrUserNotFound) {
		return c.failStorage(userID, "get_user", err)
	}

	text := formatOrderForAdmin(order, owner, c.itemLines(ctx, order))
	return c.ask(userID, text, statusChoiceRows(order.ID, filter))
}
