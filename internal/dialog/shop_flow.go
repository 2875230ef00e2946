package dialog

import (
	"context"
	"errors"

	"github.com/tbourn/go-shop-backend/internal/services"
	"github.com/tbourn/go-shop-backend/internal/session"
)

// maxQuantityPerPick caps a single quantity selection, further limited by the
// product's current stock.
const maxQuantityPerPick = 10

// handleStart registers the user and lists the available commands. An
// administrator gets a second message with the admin commands.
func (c *Controller) handleStart(ctx context.Context, in Inbound, st *session.State) []Outbound {
	if err := c.Users.Register(ctx, in.UserID, in.Username, in.FullName); err != nil {
		return c.failStorage(in.UserID, "register", err)
	}
	st.ResetFlow()

	out := c.say(in.UserID, welcomeText(in.FullName, in.Username))
	admin, err := c.Users.IsAdmin(ctx, in.UserID)
	if err != nil {
		return c.failStorage(in.UserID, "is_admin", err)
	}
	if admin {
		out = append(out, Outbound{UserID: in.UserID, Text: msgAdminHelp})
	}
	return out
}

// handleCatalog renders the full catalog, marking sold-out products.
func (c *Controller) handleCatalog(ctx context.Context, in Inbound) []Outbound {
	products, err := c.Catalog.ListAll(ctx)
	if err != nil {
		return c.failStorage(in.UserID, "list_catalog", err)
	}
	if len(products) == 0 {
		return c.say(in.UserID, msgCatalogEmpty)
	}
	return c.say(in.UserID, formatCatalog(products))
}

// handleOrderCommand enters the ordering flow.
func (c *Controller) handleOrderCommand(ctx context.Context, in Inbound, st *session.State) []Outbound {
	return c.promptProducts(ctx, in, st)
}

// promptProducts shows the available products as a choice set and moves the
// dialogue to product selection. Shared by /order and the "add more" action;
// the cart accumulated so far is kept.
func (c *Controller) promptProducts(ctx context.Context, in Inbound, st *session.State) []Outbound {
	products, err := c.Catalog.ListAvailable(ctx)
	if err != nil {
		return c.failStorage(in.UserID, "list_available", err)
	}
	if len(products) == 0 {
		return c.say(in.UserID, msgNothingInStock)
	}
	st.Step = session.StepSelectingProduct
	return c.ask(in.UserID, msgPickProduct, productChoiceRows(products))
}

// handleProductSelection expects an add:<id> callback; anything else keeps
// the state and re-prompts.
func (c *Controller) handleProductSelection(ctx context.Context, in Inbound, st *session.State) []Outbound {
	if in.Event.Kind != KindCallback {
		return c.say(in.UserID, msgUseKeyboard)
	}
	verb, arg := splitToken(in.Event.Token)
	if verb != tokAdd {
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
	if p.Stock <= 0 {
		return c.say(in.UserID, msgProductSoldOut)
	}

	st.SelectedProduct = p.ID
	st.Step = session.StepSelectingQuantity
	cap := maxQuantityPerPick
	if p.Stock < cap {
		cap = p.Stock
	}
	return c.ask(in.UserID, quantityPrompt(p), quantityRows(cap))
}

// handleQuantityStep accepts a quantity pick or a cart action.
func (c *Controller) handleQuantityStep(ctx context.Context, in Inbound, st *session.State) []Outbound {
	if in.Event.Kind != KindCallback {
		return c.say(in.UserID, msgUseKeyboard)
	}
	verb, arg := splitToken(in.Event.Token)
	switch verb {
	case tokQty:
		return c.addQuantity(ctx, in, st, arg)
	case tokCart:
		return c.handleCartAction(ctx, in, st, arg)
	default:
		return c.say(in.UserID, msgUseKeyboard)
	}
}

// addQuantity validates the picked amount against current stock and merges
// the line into the cart, fixing the unit price at this moment.
func (c *Controller) addQuantity(ctx context.Context, in Inbound, st *session.State, arg string) []Outbound {
	qty, ok := parseID(arg)
	if !ok {
		return c.say(in.UserID, msgUseKeyboard)
	}

	p, err := c.Catalog.Get(ctx, st.SelectedProduct)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			// Product vanished between selection and pick; offer the list again.
			out := c.say(in.UserID, msgProductNotFound)
			return append(out, c.promptProducts(ctx, in, st)...)
		}
		return c.failStorage(in.UserID, "get_product", err)
	}

	cap := maxQuantityPerPick
	if p.Stock < cap {
		cap = p.Stock
	}
	if cap < 1 {
		return c.say(in.UserID, msgProductSoldOut)
	}
	if int(qty) > cap {
		return c.say(in.UserID, quantityOutOfRange(cap))
	}

	st.Cart.Add(p.ID, p.Name, p.Price, int(qty))
	return c.ask(in.UserID, formatCartSummary(st.Cart), cartActionRows())
}

// handleCartAction runs one of the cart:<action> choices.
func (c *Controller) handleCartAction(ctx context.Context, in Inbound, st *session.State, action string) []Outbound {
	switch action {
	case cartAddMore:
		return c.promptProducts(ctx, in, st)

	case cartClear:
		st.Cart.Clear()
		st.ResetFlow()
		return c.say(in.UserID, msgCartCleared)

	case cartCheckout:
		return c.runCheckout(ctx, in, st)

	default:
		return c.say(in.UserID, msgUseKeyboard)
	}
}

// runCheckout snapshots the cart and hands it to the checkout protocol. On
// shortage the cart and all stock stay untouched and every failing line is
// reported; on success the cart is destroyed and the order id announced.
func (c *Controller) runCheckout(ctx context.Context, in Inbound, st *session.State) []Outbound {
	items := st.Cart.Items()
	lines := make([]services.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, services.CartLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	order, err := c.Checkout.Checkout(ctx, in.UserID, lines)
	if err != nil {
		var short *services.InsufficientStockError
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return c.say(in.UserID, msgCartEmpty)
		case errors.As(err, &short):
			return c.say(in.UserID, shortageText(short))
		default:
			return c.failStorage(in.UserID, "checkout", err)
		}
	}

	st.Cart.Clear()
	st.ResetFlow()
	return c.say(in.UserID, checkoutSuccessText(order))
}

// handleStatusCommand asks for an order number.
func (c *Controller) handleStatusCommand(in Inbound, st *session.State) []Outbound {
	st.ResetFlow()
	st.Step = session.StepCheckingStatus
	return c.say(in.UserID, msgAskOrderNumber)
}

// handleStatusLookup resolves a typed order number, scoped to the asking
// user so nobody can read someone else's order.
func (c *Controller) handleStatusLookup(ctx context.Context, in Inbound, st *session.State) []Outbound {
	if in.Event.Kind != KindText {
		return c.say(in.UserID, msgAskOrderNumber)
	}
	id, ok := parseID(in.Event.Text)
	if !ok {
		// Invalid input: re-prompt, dialogue state unchanged.
		return c.say(in.UserID, msgOrderNumberInvalid)
	}

	order, err := c.Orders.GetForUser(ctx, id, in.UserID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			st.ResetFlow()
			return c.say(in.UserID, msgOrderNotFoundForUser)
		}
		return c.failStorage(in.UserID, "get_order", err)
	}

	st.ResetFlow()
	return c.say(in.UserID, formatOrderForUser(order, c.itemLines(ctx, order)))
}
