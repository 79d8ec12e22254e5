package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kioskpos-backend/models"
	"kioskpos-backend/session"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newManager(t *testing.T) (*session.Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	m := session.NewManager(session.Timeouts{
		Idle:     60 * time.Second,
		CartIdle: 60 * time.Second,
		Grace:    60 * time.Second,
	})
	m.SetClock(clock.Now)
	return m, clock
}

func TestIdleToWarningToExpired(t *testing.T) {
	m, clock := newManager(t)
	snap := m.Start()
	assert.Equal(t, session.StateActive, snap.State)
	assert.Equal(t, 60, snap.RemainingSecs)

	clock.Advance(59 * time.Second)
	snap, err := m.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateActive, snap.State)

	clock.Advance(2 * time.Second)
	snap, err = m.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateExpiryWarning, snap.State)
	assert.LessOrEqual(t, snap.RemainingSecs, 60)

	clock.Advance(60 * time.Second)
	snap, err = m.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateExpired, snap.State)
	assert.Zero(t, snap.RemainingSecs)
}

func TestContinueOnWarningResets(t *testing.T) {
	m, clock := newManager(t)
	snap := m.Start()

	clock.Advance(90 * time.Second) // inside the grace window
	snap, err := m.Get(snap.ID)
	require.NoError(t, err)
	require.Equal(t, session.StateExpiryWarning, snap.State)

	snap, err = m.Touch(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateActive, snap.State)
	assert.Equal(t, 60, snap.RemainingSecs)
}

func TestExpiryDiscardsCart(t *testing.T) {
	m, clock := newManager(t)
	snap := m.Start()

	snap, err := m.AddItem(snap.ID, models.CartItem{
		Kind: models.CartItemSimple, Name: "Amnesia 1g", UnitPrice: 10, Quantity: 2,
	})
	require.NoError(t, err)
	assert.InDelta(t, 20, snap.Subtotal, 1e-9)

	clock.Advance(121 * time.Second)
	snap, err = m.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateExpired, snap.State)
	assert.Empty(t, snap.Cart)
	assert.Zero(t, snap.Subtotal)

	// Expired sessions reject further interactions.
	_, err = m.Touch(snap.ID)
	assert.ErrorIs(t, err, session.ErrExpired)
}

func TestCartOpenState(t *testing.T) {
	m, _ := newManager(t)
	snap := m.Start()

	snap, err := m.OpenCart(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateCartOpen, snap.State)

	snap, err = m.CloseCart(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateActive, snap.State)
}

func TestCartEditing(t *testing.T) {
	m, _ := newManager(t)
	snap := m.Start()

	_, err := m.AddItem(snap.ID, models.CartItem{Name: "Grinder", UnitPrice: 15, Quantity: 1})
	require.NoError(t, err)
	snap, err = m.AddItem(snap.ID, models.CartItem{Name: "Lighter", UnitPrice: 2, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, snap.Cart, 2)

	_, err = m.AddItem(snap.ID, models.CartItem{Name: "", UnitPrice: 1, Quantity: 1})
	assert.ErrorIs(t, err, session.ErrBadItem)

	snap, err = m.SetQuantity(snap.ID, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.Cart[1].Quantity)

	snap, err = m.SetQuantity(snap.ID, 0, 0) // zero removes the line
	require.NoError(t, err)
	require.Len(t, snap.Cart, 1)
	assert.Equal(t, "Lighter", snap.Cart[0].Name)

	snap, err = m.ClearCart(snap.ID)
	require.NoError(t, err)
	assert.Empty(t, snap.Cart)

	_, err = m.SetQuantity(snap.ID, 2, 1)
	assert.ErrorIs(t, err, session.ErrBadItem)
}

func TestExit(t *testing.T) {
	m, _ := newManager(t)
	snap := m.Start()

	require.NoError(t, m.Exit(snap.ID))

	snap, err := m.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateExpired, snap.State)

	assert.ErrorIs(t, m.Exit("nope"), session.ErrNotFound)
}

func TestSweep(t *testing.T) {
	m, clock := newManager(t)
	snap := m.Start()

	assert.Zero(t, m.Sweep())

	clock.Advance(2 * time.Minute) // expired, but still readable
	assert.Zero(t, m.Sweep())
	_, err := m.Get(snap.ID)
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	_, err = m.Get(snap.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSettingsOverride(t *testing.T) {
	m, clock := newManager(t)
	m.SetTimeouts(session.Timeouts{Idle: 10 * time.Second, CartIdle: 10 * time.Second, Grace: 5 * time.Second})

	snap := m.Start()
	clock.Advance(11 * time.Second)
	snap, err := m.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateExpiryWarning, snap.State)

	clock.Advance(5 * time.Second)
	snap, err = m.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateExpired, snap.State)
}
