package dialog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-shop-backend/internal/services"
	"github.com/tbourn/go-shop-backend/internal/session"
)

// Controller routes inbound events through the per-user dialogue state
// machine. It recovers every service-level error into a user-facing message;
// only storage failures are logged and answered with a generic apology, and
// nothing partial is ever committed on that path.
type Controller struct {
	Catalog  *services.CatalogService
	Checkout *services.CheckoutService
	Orders   *services.OrderService
	Users    *services.UserService
	Sessions *session.Manager
	Log      zerolog.Logger
}

// Commands understood outside any flow state.
const (
	cmdStart   = "start"
	cmdCatalog = "catalog"
	cmdOrder   = "order"
	cmdStatus  = "status"
	cmdStock   = "stock"
	cmdOrders  = "orders"
)

// Handle is the single entry point for the transport adapter. Events for one
// user are processed strictly in arrival order — the session manager holds
// the user's state locked for the whole step — while different users proceed
// in parallel.
func (c *Controller) Handle(ctx context.Context, in Inbound) []Outbound {
	var out []Outbound
	c.Sessions.Do(in.UserID, func(st *session.State) {
		out = c.dispatch(ctx, in, st)
	})
	return out
}

// dispatch routes one event. Commands always take priority and (re)enter
// their flow; other events are interpreted against the current step, and
// anything that does not fit the step gets a re-prompt instead of a crash.
func (c *Controller) dispatch(ctx context.Context, in Inbound, st *session.State) []Outbound {
	ev := in.Event
	if ev.Kind == KindCommand {
		switch ev.Command {
		case cmdStart:
			return c.handleStart(ctx, in, st)
		case cmdCatalog:
			return c.handleCatalog(ctx, in)
		case cmdOrder:
			return c.handleOrderCommand(ctx, in, st)
		case cmdStatus:
			return c.handleStatusCommand(in, st)
		case cmdStock:
			return c.handleStockCommand(ctx, in, st)
		case cmdOrders:
			return c.handleOrdersCommand(ctx, in, st)
		default:
			return c.say(in.UserID, msgUnknownCommand)
		}
	}

	switch st.Step {
	case session.StepSelectingProduct:
		return c.handleProductSelection(ctx, in, st)
	case session.StepSelectingQuantity:
		return c.handleQuantityStep(ctx, in, st)
	case session.StepCheckingStatus:
		return c.handleStatusLookup(ctx, in, st)
	case session.StepSelectingProductToUpdate:
		return c.handleStockSelection(ctx, in, st)
	case session.StepEnteringNewStock:
		return c.handleNewStockValue(ctx, in, st)
	case session.StepViewingOrders:
		return c.handleOrdersFilter(ctx, in, st)
	case session.StepViewingOrderDetails:
		return c.handleOrderDetailsLookup(ctx, in, st)
	case session.StepChangingOrderStatus:
		return c.handleStatusChange(ctx, in, st)
	default:
		return c.say(in.UserID, msgIdleHint)
	}
}

// say wraps a plain text reply.
func (c *Controller) say(userID int64, text string) []Outbound {
	return []Outbound{{UserID: userID, Text: text}}
}

// ask wraps a reply carrying a choice set.
func (c *Controller) ask(userID int64, text string, choices [][]Choice) []Outbound {
	return []Outbound{{UserID: userID, Text: text, Choices: choices}}
}

// failStorage logs a storage-layer failure and returns the generic reply.
// The dialogue state is left as it was so the user can retry the step.
func (c *Controller) failStorage(userID int64, op string, err error) []Outbound {
	c.Log.Error().Err(err).Int64("user_id", userID).Str("op", op).Msg("storage failure")
	return c.say(userID, msgStorageFailure)
}

// requireAdmin re-evaluates the administrator flag against the store. It is
// called on EVERY admin step, never cached in the session, so revoking the
// flag takes effect mid-flow. A negative answer terminates the branch.
func (c *Controller) requireAdmin(ctx context.Context, in Inbound, st *session.State) ([]Outbound, bool) {
	admin, err := c.Users.IsAdmin(ctx, in.UserID)
	if err != nil {
		return c.failStorage(in.UserID, "is_admin", err), false
	}
	if !admin {
		st.ResetFlow()
		return c.say(in.UserID, msgUnauthorized), false
	}
	return nil, true
}
