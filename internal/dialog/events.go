// Package dialog implements the dialogue controller: a finite-state,
// per-user conversation that drives the cart, checkout, and the
// administrator's stock and order flows. The transport adapter delivers
// inbound events and carries the outbound sends; it holds no state and no
// invariants of its own.
package dialog

import (
	"strconv"
	"strings"
)

// EventKind discriminates inbound events.
type EventKind string

// Inbound event kinds.
const (
	// KindCommand is a slash command such as "order" or "catalog".
	KindCommand EventKind = "command"
	// KindCallback is a pressed choice button, identified by its token.
	KindCallback EventKind = "callback"
	// KindText is free text typed by the user.
	KindText EventKind = "text"
)

// Event is one discriminated inbound interaction.
type Event struct {
	Kind    EventKind `json:"kind" binding:"required"`
	Command string    `json:"command,omitempty"`
	Token   string    `json:"token,omitempty"`
	Text    string    `json:"text,omitempty"`
}

// Inbound tags an event with the originating user's identity.
type Inbound struct {
	UserID   int64  `json:"user_id" binding:"required"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Event    Event  `json:"event" binding:"required"`
}

// Choice is one labeled action button.
type Choice struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// Outbound is one message to deliver to a user, optionally with a choice
// set arranged in rows.
type Outbound struct {
	UserID  int64      `json:"user_id"`
	Text    string     `json:"text"`
	Choices [][]Choice `json:"choices,omitempty"`
}

// Callback token verbs. Tokens are "<verb>:<arg>" (status tokens carry two
// args: "status:<orderID>:<target>").
const (
	tokAdd    = "add"    // add:<productID> — pick a product for the cart
	tokQty    = "qty"    // qty:<n>         — pick a quantity
	tokCart   = "cart"   // cart:<action>   — add_more | checkout | clear
	tokStock  = "stock"  // stock:<productID>
	tokFilter = "filter" // filter:all | filter:<status>
	tokStatus = "status" // status:<orderID>:<status>
)

// Cart actions.
const (
	cartAddMore  = "add_more"
	cartCheckout = "checkout"
	cartClear    = "clear"
)

// filterAll selects the unfiltered order listing.
const filterAll = "all"

// splitToken separates a callback token into verb and argument.
func splitToken(token string) (verb, arg string) {
	verb, arg, _ = strings.Cut(token, ":")
	return verb, arg
}

// parseID parses a positive integer identifier from a token argument or a
// typed message.
func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
