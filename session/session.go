// Package session is the kiosk session and cart lifecycle, modelled as an
// explicit state machine instead of browser timers. A session moves through
// Active -> ExpiryWarning -> Expired on idleness (CartOpen tracks whether the
// cart drawer is showing and may use its own idle timeout); any interaction
// resets it to Active. State is derived from the last-interaction instant on
// a monotonic clock, so there is one sweep ticker for the whole manager
// rather than paired timers per session.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"kioskpos-backend/models"
)

type State string

const (
	StateActive        State = "active"
	StateCartOpen      State = "cart_open"
	StateExpiryWarning State = "expiry_warning"
	StateExpired       State = "expired"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
	ErrBadItem  = errors.New("invalid cart item")
)

// Timeouts drives the state machine. Idle applies while browsing, CartIdle
// while the cart is open, Grace is the warning countdown before reset.
type Timeouts struct {
	Idle     time.Duration
	CartIdle time.Duration
	Grace    time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Idle:     60 * time.Second,
		CartIdle: 60 * time.Second,
		Grace:    60 * time.Second,
	}
}

func (t Timeouts) normalize() Timeouts {
	d := DefaultTimeouts()
	if t.Idle <= 0 {
		t.Idle = d.Idle
	}
	if t.CartIdle <= 0 {
		t.CartIdle = d.CartIdle
	}
	if t.Grace <= 0 {
		t.Grace = d.Grace
	}
	return t
}

type session struct {
	id            string
	customerCode  string
	paymentMethod models.PaymentMethod
	cart          []models.CartItem
	cartOpen      bool
	expired       bool
	lastActivity  time.Time
	createdAt     time.Time
}

// Snapshot is the read view handed to HTTP handlers.
type Snapshot struct {
	ID            string               `json:"id"`
	State         State                `json:"state"`
	RemainingSecs int                  `json:"remainingSeconds"`
	CustomerCode  string               `json:"customerCode,omitempty"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod,omitempty"`
	Cart          []models.CartItem    `json:"cart"`
	Subtotal      float64              `json:"subtotal"`
}

// Manager owns every live kiosk session.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	timeouts Timeouts
	now      func() time.Time
}

func NewManager(t Timeouts) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		timeouts: t.normalize(),
		now:      time.Now,
	}
}

// SetClock replaces the manager's clock. Tests only.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// SetTimeouts applies an admin override (the kiosk settings document) to all
// future state derivations.
func (m *Manager) SetTimeouts(t Timeouts) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeouts = t.normalize()
}

// Start creates a fresh session in Active state and returns its snapshot.
func (m *Manager) Start() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s := &session{
		id:           uuid.NewString(),
		cart:         []models.CartItem{},
		lastActivity: now,
		createdAt:    now,
	}
	m.sessions[s.id] = s
	return m.snapshot(s)
}

// idleFor returns the idle budget for the session's base state.
func (m *Manager) idleFor(s *session) time.Duration {
	if s.cartOpen {
		return m.timeouts.CartIdle
	}
	return m.timeouts.Idle
}

// advance derives the current state from the clock, expiring the session and
// discarding its cart once the grace window has passed. Caller holds mu.
func (m *Manager) advance(s *session) State {
	if s.expired {
		return StateExpired
	}
	elapsed := m.now().Sub(s.lastActivity)
	idle := m.idleFor(s)
	switch {
	case elapsed >= idle+m.timeouts.Grace:
		m.expire(s)
		return StateExpired
	case elapsed >= idle:
		return StateExpiryWarning
	case s.cartOpen:
		return StateCartOpen
	default:
		return StateActive
	}
}

func (m *Manager) expire(s *session) {
	s.expired = true
	s.cart = []models.CartItem{}
	s.cartOpen = false
	s.customerCode = ""
	s.paymentMethod = ""
}

func (m *Manager) remaining(s *session, state State) int {
	var deadline time.Duration
	switch state {
	case StateExpired:
		return 0
	case StateExpiryWarning:
		deadline = m.idleFor(s) + m.timeouts.Grace
	default:
		deadline = m.idleFor(s)
	}
	left := deadline - m.now().Sub(s.lastActivity)
	if left < 0 {
		left = 0
	}
	return int(left / time.Second)
}

func (m *Manager) snapshot(s *session) Snapshot {
	state := m.advance(s)
	cart := make([]models.CartItem, len(s.cart))
	copy(cart, s.cart)
	return Snapshot{
		ID:            s.id,
		State:         state,
		RemainingSecs: m.remaining(s, state),
		CustomerCode:  s.customerCode,
		PaymentMethod: s.paymentMethod,
		Cart:          cart,
		Subtotal:      models.CartSubtotal(cart),
	}
}

// Get returns the session snapshot without counting as an interaction.
func (m *Manager) Get(id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return m.snapshot(s), nil
}

// with runs fn against a live session. Interactions against an expired
// session fail with ErrExpired; the kiosk starts over from the home page.
func (m *Manager) with(id string, fn func(*session) error) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	if m.advance(s) == StateExpired {
		return m.snapshot(s), ErrExpired
	}
	if err := fn(s); err != nil {
		return m.snapshot(s), err
	}
	s.lastActivity = m.now()
	return m.snapshot(s), nil
}

// Touch records a user interaction. From ExpiryWarning this is the
// "continue" action and returns the session to its base state.
func (m *Manager) Touch(id string) (Snapshot, error) {
	return m.with(id, func(*session) error { return nil })
}

// Exit expires the session immediately ("exit" on the warning modal, or the
// customer explicitly going back to the attract screen).
func (m *Manager) Exit(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	m.expire(s)
	return nil
}

func (m *Manager) OpenCart(id string) (Snapshot, error) {
	return m.with(id, func(s *session) error {
		s.cartOpen = true
		return nil
	})
}

func (m *Manager) CloseCart(id string) (Snapshot, error) {
	return m.with(id, func(s *session) error {
		s.cartOpen = false
		return nil
	})
}

func (m *Manager) AddItem(id string, item models.CartItem) (Snapshot, error) {
	return m.with(id, func(s *session) error {
		if item.Quantity <= 0 || item.UnitPrice < 0 || item.Name == "" {
			return ErrBadItem
		}
		s.cart = append(s.cart, item)
		return nil
	})
}

// SetQuantity updates a cart line; zero removes it.
func (m *Manager) SetQuantity(id string, index, quantity int) (Snapshot, error) {
	return m.with(id, func(s *session) error {
		if index < 0 || index >= len(s.cart) {
			return ErrBadItem
		}
		if quantity <= 0 {
			s.cart = append(s.cart[:index], s.cart[index+1:]...)
			return nil
		}
		s.cart[index].Quantity = quantity
		return nil
	})
}

func (m *Manager) ClearCart(id string) (Snapshot, error) {
	return m.with(id, func(s *session) error {
		s.cart = []models.CartItem{}
		return nil
	})
}

func (m *Manager) SetCustomer(id, code string) (Snapshot, error) {
	return m.with(id, func(s *session) error {
		s.customerCode = code
		return nil
	})
}

func (m *Manager) SetPaymentMethod(id string, method models.PaymentMethod) (Snapshot, error) {
	return m.with(id, func(s *session) error {
		s.paymentMethod = method
		return nil
	})
}

// sweepAfter is how long an expired session lingers before the sweeper drops
// it, so the kiosk can still read the expired state once.
const sweepAfter = 10 * time.Minute

// Sweep removes sessions that expired more than sweepAfter ago and returns
// how many were dropped.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, s := range m.sessions {
		if m.advance(s) != StateExpired {
			continue
		}
		idle := m.idleFor(s)
		if m.now().Sub(s.lastActivity) >= idle+m.timeouts.Grace+sweepAfter {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps periodically until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
