package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAndCheckoutFlow(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	carts := &CartService{Repo: e.repo, Events: e.events}
	orders := &OrderService{Repo: e.repo, Events: e.events}
	ctx := context.Background()
	u := e.user(t, "bob")

	_, err := orders.Checkout(ctx, u.ID)
	assert.True(t, errors.Is(err, ErrEmptyCart))

	item, created, err := carts.AddToCart(ctx, u.ID, e.p1.ID)
	require.NoError(t, err)
	assert.True(t, created)
	item, created, err = carts.AddToCart(ctx, u.ID, e.p1.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 2, item.Quantity)
	_, _, err = carts.AddToCart(ctx, u.ID, e.p2.ID)
	require.NoError(t, err)

	_, _, err = carts.AddToCart(ctx, u.ID, 999)
	assert.True(t, errors.Is(err, ErrNotFound))

	cart, err := carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, "25.00", cart.Total.StringFixed(2))

	order, err := orders.Checkout(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "25.00", OrderTotal(order.Items).StringFixed(2))

	cart, err = carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())

	evs := e.events.byType("order_created")
	require.Len(t, evs, 1)
	assert.Equal(t, TopicOrderEvents, evs[0].Topic)
	assert.Equal(t, "25.00", evs[0].Event["total"])
	assert.Len(t, e.events.byType("cart_item_added"), 3)
}

func TestOrderDetailHidesForeignOrders(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	orders := &OrderService{Repo: e.repo}
	ctx := context.Background()
	alice := e.user(t, "alice")
	mallory := e.user(t, "mallory")

	_, _, err := e.repo.AddToCart(ctx, alice.ID, e.p1.ID)
	require.NoError(t, err)
	order, err := orders.Checkout(ctx, alice.ID)
	require.NoError(t, err)

	got, err := orders.Detail(ctx, alice.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = orders.Detail(ctx, mallory.ID, order.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = orders.Detail(ctx, alice.ID, order.ID+100)
	assert.True(t, errors.Is(err, ErrNotFound))

	history, err := orders.History(ctx, mallory.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCheckoutSucceedsWhenBrokerIsDown(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.events.err = errBroker
	carts := &CartService{Repo: e.repo, Events: e.events}
	orders := &OrderService{Repo: e.repo, Events: e.events}
	ctx := context.Background()
	u := e.user(t, "carl")

	_, _, err := carts.AddToCart(ctx, u.ID, e.p2.ID)
	require.NoError(t, err)
	order, err := orders.Checkout(ctx, u.ID)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}
