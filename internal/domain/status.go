package domain

// Order statuses. An order always starts in StatusNew; StatusDelivered and
// StatusCancelled are terminal.
const (
	StatusNew        = "New"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// Statuses lists every known order status in lifecycle order.
var Statuses = []string{
	StatusNew,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// statusTransitions is the directed status graph:
// New → Processing → Shipped → Delivered, with Cancelled reachable from any
// non-terminal status.
var statusTransitions = map[string][]string{
	StatusNew:        {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ValidStatus reports whether s is a member of the known status set.
func ValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition reports whether the status graph permits moving an order
// from one status to another. Unknown statuses never transition.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TerminalStatus reports whether s admits no further transitions.
func TerminalStatus(s string) bool {
	next, ok := statusTransitions[s]
	return ok && len(next) == 0
}
