package session

import (
	"sync"
	"time"
)

// Step identifies the current state of a user's dialogue.
type Step int

// Dialogue steps. The zero value is StepIdle so a fresh session starts
// outside any flow.
const (
	StepIdle Step = iota

	// Ordering flow
	StepSelectingProduct
	StepSelectingQuantity

	// Order status lookup
	StepCheckingStatus

	// Admin: stock management
	StepSelectingProductToUpdate
	StepEnteringNewStock

	// Admin: order management
	StepViewingOrders
	StepViewingOrderDetails
	StepChangingOrderStatus
)

// String returns a short label for logs.
func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepSelectingProduct:
		return "selecting_product"
	case StepSelectingQuantity:
		return "selecting_quantity"
	case StepCheckingStatus:
		return "checking_status"
	case StepSelectingProductToUpdate:
		return "selecting_product_to_update"
	case StepEnteringNewStock:
		return "entering_new_stock"
	case StepViewingOrders:
		return "viewing_orders"
	case StepViewingOrderDetails:
		return "viewing_order_details"
	case StepChangingOrderStatus:
		return "changing_order_status"
	default:
		return "unknown"
	}
}

// State is one user's dialogue state. Exactly one State exists per user at a
// time; a new ordering sequence reuses (or resets) it, never forks a second
// concurrent cart.
type State struct {
	Step Step
	Cart *Cart

	// Ordering flow scratch
	SelectedProduct uint

	// Admin stock flow scratch
	UpdateProductID    uint
	UpdateProductName  string
	UpdateCurrentStock int

	// Admin order flow scratch
	OrdersFilter   string
	CurrentOrderID uint
}

// ResetFlow returns the dialogue to idle and drops flow scratch data while
// keeping the cart, so an interrupted flow does not lose accumulated items.
func (s *State) ResetFlow() {
	cart := s.Cart
	*s = State{Cart: cart}
}

// entry wraps a State with its own lock and an idle timestamp. The per-entry
// mutex is what serializes a single user's dialogue steps; distinct users
// never contend on it.
type entry struct {
	mu       sync.Mutex
	state    *State
	lastSeen time.Time
}

// Manager owns all dialogue sessions, keyed by user id. It hands out
// single-writer access per key and evicts sessions idle beyond the TTL,
// both opportunistically during lookups and via the periodic Evict sweep.
//
// This type is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*entry
	ttl      time.Duration
	lookups  uint64
}

// sweepEvery is the lookup count between opportunistic eviction passes.
const sweepEvery = 512

// NewManager constructs a Manager evicting sessions idle for ttl or longer.
// ttl <= 0 disables eviction.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[int64]*entry),
		ttl:      ttl,
	}
}

// Do runs fn with exclusive access to the user's State, creating a fresh one
// on first contact. Calls for the same user are strictly serialized in
// arrival order at the entry lock; calls for different users run in parallel.
func (m *Manager) Do(userID int64, fn func(*State)) {
	now := time.Now()

	m.mu.Lock()
	m.lookups++
	if m.ttl > 0 && m.lookups >= sweepEvery {
		m.evictLocked(now)
		m.lookups = 0
	}
	e, ok := m.sessions[userID]
	if !ok {
		e = &entry{state: &State{Cart: NewCart()}}
		m.sessions[userID] = e
	}
	e.lastSeen = now
	m.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.state)
}

// Evict removes sessions idle for at least the TTL and returns how many were
// dropped. Entries currently being processed are skipped.
func (m *Manager) Evict(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictLocked(now)
}

// evictLocked requires m.mu to be held.
func (m *Manager) evictLocked(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	n := 0
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) < m.ttl {
			continue
		}
		// Skip a session mid-dialogue step; it will be idle next sweep.
		if !e.mu.TryLock() {
			continue
		}
		e.mu.Unlock()
		delete(m.sessions, id)
		n++
	}
	return n
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
