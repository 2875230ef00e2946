// User-facing message texts and choice set builders. Everything the
// controller sends is assembled here so the flow handlers stay readable.
package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tbourn/go-shop-backend/internal/domain"
	"github.com/tbourn/go-shop-backend/internal/repo"
	"github.com/tbourn/go-shop-backend/internal/services"
	"github.com/tbourn/go-shop-backend/internal/session"
	"github.com/tbourn/go-shop-backend/internal/sysutil"
)

// printer renders integer quantities with locale-aware grouping.
var printer = message.NewPrinter(language.English)

const (
	msgUnknownCommand = "Unknown command. Try /catalog, /order or /status."
	msgIdleHint       = "Use /catalog to browse products, /order to start an order, or /status to check an order."
	msgStorageFailure = "Something went wrong on our side. Please try again."
	msgUnauthorized   = "You are not allowed to use this command."

	msgCatalogEmpty   = "The catalog is empty for now."
	msgNothingInStock = "Sorry, nothing is in stock right now."
	msgPickProduct    = "Pick a product to add to your cart:"
	msgUseKeyboard    = "Please use the buttons above."

	msgProductNotFound = "Product not found."
	msgProductSoldOut  = "This product has just sold out."

	msgCartCleared = "Cart cleared. Use /order to start a new one."
	msgCartEmpty   = "Your cart is empty. Use /order to add products."

	msgAskOrderNumber       = "Enter the order number:"
	msgOrderNumberInvalid   = "Please enter a valid order number (digits only)."
	msgOrderNotFoundForUser = "Order not found or it belongs to another user."
	msgOrderNotFound        = "No order with that number."
	msgNoOrders             = "No orders found."

	msgAskNewStock       = "Enter the new stock level:"
	msgStockValueInvalid = "Please enter a whole non-negative number."

	msgAdminHelp = "Administrator commands:\n/stock - manage product stock\n/orders - view and manage orders"
)

// money renders a decimal amount with two fixed digits.
func money(d decimal.Decimal) string { return d.StringFixed(2) }

// dateFmt is how order timestamps appear in messages.
const dateFmt = "2006-01-02 15:04"

func welcomeText(fullName, username string) string {
	name := sysutil.FirstNonEmpty(fullName, username, "there")
	return fmt.Sprintf(
		"Hi, %s!\n\nWelcome to the shop. Commands:\n/catalog - browse products\n/order - start a new order\n/status - check an order",
		name,
	)
}

func formatCatalog(products []domain.Product) string {
	var b strings.Builder
	b.WriteString("Catalog:\n")
	for _, p := range products {
		avail := "in stock"
		if p.Stock <= 0 {
			avail = "out of stock"
		}
		fmt.Fprintf(&b, "\n%s - %s\n%s\n(%s)\n", p.Name, money(p.Price), p.Description, avail)
	}
	return b.String()
}

// productChoiceRows builds one row per available product.
func productChoiceRows(products []domain.Product) [][]Choice {
	rows := make([][]Choice, 0, len(products))
	for _, p := range products {
		rows = append(rows, []Choice{{
			Label: printer.Sprintf("%s - %s (in stock: %d)", p.Name, money(p.Price), p.Stock),
			Token: tokAdd + ":" + strconv.FormatUint(uint64(p.ID), 10),
		}})
	}
	return rows
}

func quantityPrompt(p *domain.Product) string {
	return fmt.Sprintf("Selected: %s\nPrice: %s\nHow many?", p.Name, money(p.Price))
}

// quantityRows lays out 1..max in rows of five buttons.
func quantityRows(max int) [][]Choice {
	var rows [][]Choice
	for i := 1; i <= max; i += 5 {
		var row []Choice
		for j := i; j <= max && j < i+5; j++ {
			row = append(row, Choice{
				Label: strconv.Itoa(j),
				Token: tokQty + ":" + strconv.Itoa(j),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

func cartActionRows() [][]Choice {
	return [][]Choice{
		{
			{Label: "Add more", Token: tokCart + ":" + cartAddMore},
			{Label: "Checkout", Token: tokCart + ":" + cartCheckout},
		},
		{
			{Label: "Clear cart", Token: tokCart + ":" + cartClear},
		},
	}
}

func formatCartSummary(cart *session.Cart) string {
	var b strings.Builder
	b.WriteString("Added to cart!\n\nYour cart:\n")
	for _, it := range cart.Items() {
		sum := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		fmt.Fprintf(&b, "%s x %d = %s\n", it.Name, it.Quantity, money(sum))
	}
	fmt.Fprintf(&b, "\nTotal: %s", money(cart.Total()))
	return b.String()
}

func shortageText(short *services.InsufficientStockError) string {
	var b strings.Builder
	b.WriteString("Not enough stock for your cart:\n")
	for _, s := range short.Shortages {
		fmt.Fprintf(&b, "- %s: requested %d, only %d left\n", s.Name, s.Requested, s.Available)
	}
	b.WriteString("\nYour cart is unchanged. Adjust it and try again.")
	return b.String()
}

func checkoutSuccessText(o *domain.Order) string {
	return fmt.Sprintf(
		"Order #%d placed!\nTotal: %s\n\nCheck its progress with /status.",
		o.ID, money(o.TotalPrice),
	)
}

// itemLines renders each order line as "Name x qty = sum", resolving product
// names from the catalog (order items carry ids and price snapshots only).
func (c *Controller) itemLines(ctx context.Context, o *domain.Order) []string {
	lines := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		name := fmt.Sprintf("product #%d", it.ProductID)
		if p, err := c.Catalog.Get(ctx, it.ProductID); err == nil {
			name = p.Name
		}
		sum := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		lines = append(lines, fmt.Sprintf("- %s x %d = %s", name, it.Quantity, money(sum)))
	}
	return lines
}

func formatOrderForUser(o *domain.Order, itemLines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d\nDate: %s\nStatus: %s\n\nItems:\n", o.ID, o.CreatedAt.Format(dateFmt), o.Status)
	b.WriteString(strings.Join(itemLines, "\n"))
	fmt.Fprintf(&b, "\n\nTotal: %s", money(o.TotalPrice))
	return b.String()
}

func quantityOutOfRange(max int) string {
	return fmt.Sprintf("Pick a quantity between 1 and %d.", max)
}

// --- admin formatting ---

func formatStockOverview(products []domain.Product) string {
	var b strings.Builder
	b.WriteString("Current stock:\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "ID %d | %s - %d pcs | %s\n", p.ID, p.Name, p.Stock, money(p.Price))
	}
	b.WriteString("\nPick a product to update:")
	return b.String()
}

func stockChoiceRows(products []domain.Product) [][]Choice {
	rows := make([][]Choice, 0, len(products))
	for _, p := range products {
		rows = append(rows, []Choice{{
			Label: "Update stock: " + p.Name,
			Token: tokStock + ":" + strconv.FormatUint(uint64(p.ID), 10),
		}})
	}
	return rows
}

func newStockPrompt(p *domain.Product) string {
	return fmt.Sprintf("Product: %s\nCurrent stock: %d pcs\n\n%s", p.Name, p.Stock, msgAskNewStock)
}

func stockUpdatedText(name string, was, now int) string {
	return printer.Sprintf("Stock for %s updated.\nWas: %d pcs\nNow: %d pcs", name, was, now)
}

func formatOrderCounts(counts []repo.StatusCount) string {
	var b strings.Builder
	b.WriteString("Orders by status:\n")
	if len(counts) == 0 {
		b.WriteString("(none yet)\n")
	}
	for _, sc := range counts {
		fmt.Fprintf(&b, "%s: %d\n", sc.Status, sc.Count)
	}
	b.WriteString("\nPick a filter:")
	return b.String()
}

// filterChoiceRows offers the unfiltered view plus one filter per status.
func filterChoiceRows() [][]Choice {
	rows := [][]Choice{
		{{Label: "All orders", Token: tokFilter + ":" + filterAll}},
	}
	var row []Choice
	for _, s := range domain.Statuses {
		row = append(row, Choice{Label: s, Token: tokFilter + ":" + s})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func formatOrderList(filterLabel string, summaries []domain.OrderSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Orders (filter: %s):\n\n", filterLabel)
	for _, s := range summaries {
		name := s.FullName
		if name == "" {
			name = fmt.Sprintf("user %d", s.UserID)
		}
		fmt.Fprintf(&b, "Order #%d\nCustomer: %s\nDate: %s\nStatus: %s\nTotal: %s\nLines: %d\n\n",
			s.ID, name, s.CreatedAt.Format(dateFmt), s.Status, money(s.TotalPrice), s.ItemCount)
	}
	b.WriteString("Enter an order number for details and management:")
	return b.String()
}

func formatOrderForAdmin(o *domain.Order, owner *domain.User, itemLines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d details\n\n", o.ID)

	customer := "unknown user"
	if owner != nil {
		customer = sysutil.FirstNonEmpty(owner.FullName, owner.Username, customer)
		if owner.Username != "" && owner.FullName != "" {
			customer = fmt.Sprintf("%s (@%s)", owner.FullName, owner.Username)
		}
	}
	fmt.Fprintf(&b, "Customer: %s\nUser ID: %d\n\n", customer, o.UserID)
	fmt.Fprintf(&b, "Date: %s\nStatus: %s\n\nItems:\n", o.CreatedAt.Format(dateFmt), o.Status)
	b.WriteString(strings.Join(itemLines, "\n"))

	totalUnits := 0
	for _, it := range o.Items {
		totalUnits += it.Quantity
	}
	fmt.Fprintf(&b, "\n\nUnits: %d\nTotal: %s", totalUnits, money(o.TotalPrice))
	return b.String()
}

// statusChoiceRows offers the four reachable statuses plus a way back to the
// listing under the filter the admin came from.
func statusChoiceRows(orderID uint, filter string) [][]Choice {
	id := strconv.FormatUint(uint64(orderID), 10)
	if filter == "" {
		filter = filterAll
	}
	return [][]Choice{
		{
			{Label: domain.StatusProcessing, Token: tokStatus + ":" + id + ":" + domain.StatusProcessing},
			{Label: domain.StatusShipped, Token: tokStatus + ":" + id + ":" + domain.StatusShipped},
		},
		{
			{Label: domain.StatusDelivered, Token: tokStatus + ":" + id + ":" + domain.StatusDelivered},
			{Label: domain.StatusCancelled, Token: tokStatus + ":" + id + ":" + domain.StatusCancelled},
		},
		{
			{Label: "Back to list", Token: tokFilter + ":" + filter},
		},
	}
}

func statusChangedText(orderID uint, status string) string {
	return fmt.Sprintf("Order #%d status set to %s.", orderID, status)
}

func illegalTransitionText(target string) string {
	return fmt.Sprintf("This order cannot move to %s from its current status.", target)
}
