package checkout

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/fjod/go_storefront/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	carts    *cart.Service
	orders   *orders.Service
	checkout *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.Nop()
	products := catalog.New(catalog.NewMemoryRepository(catalog.SeedProducts()))
	carts := cart.NewService(cart.NewMemoryRepository(), nil, products, log)
	ords := orders.NewService(orders.NewMemoryRepository(), nil, log)
	return &fixture{carts: carts, orders: ords, checkout: NewService(carts, ords, log)}
}

func validInfo() ShippingInfo {
	return ShippingInfo{
		FirstName: "John", LastName: "Doe", Email: "john@example.com", Phone: "555-0100",
		Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "US",
	}
}

func (f *fixture) fillCart(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, userID, "2", 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, userID, "1", 1)
	require.NoError(t, err)
}

func TestState_StartsAtShipping(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "u")

	st, err := f.checkout.State(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, StepShipping, st.Session.Step)
	assert.Len(t, st.Items, 2)
	assert.Equal(t, "323.97", st.Summary.Total.StringFixed(2))
	assert.Len(t, st.ShippingOptions, 3)
}

func TestSubmitShipping_MissingField(t *testing.T) {
	f := newFixture(t)
	info := validInfo()
	info.City = "  "

	_, err := f.checkout.SubmitShipping(context.Background(), "u", info, "standard")
	assert.ErrorIs(t, err, ErrMissingField)
	assert.ErrorContains(t, err, "city")
}

func TestSubmitShipping_InvalidEmail(t *testing.T) {
	f := newFixture(t)
	info := validInfo()
	info.Email = "not-an-email"

	_, err := f.checkout.SubmitShipping(context.Background(), "u", info, "")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestSubmitShipping_UnknownMethod(t *testing.T) {
	f := newFixture(t)

	_, err := f.checkout.SubmitShipping(context.Background(), "u", validInfo(), "teleport")
	assert.ErrorIs(t, err, ErrUnknownShipping)
}

func TestSubmitShipping_AdvancesAndRequotes(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "u")

	st, err := f.checkout.SubmitShipping(context.Background(), "u", validInfo(), "express")
	require.NoError(t, err)
	assert.Equal(t, StepPayment, st.Session.Step)
	assert.Equal(t, "15.99", st.Summary.Shipping.StringFixed(2))
	assert.Equal(t, "339.96", st.Summary.Total.StringFixed(2))
}

func TestSubmitPayment_RequiresShipping(t *testing.T) {
	f := newFixture(t)

	_, err := f.checkout.SubmitPayment(context.Background(), "u", "card", true)
	assert.ErrorIs(t, err, ErrIllegalStep)
}

func TestSubmitPayment_UnknownMethod(t *testing.T) {
	f := newFixture(t)

	_, err := f.checkout.SubmitPayment(context.Background(), "u", "bitcoin", true)
	assert.ErrorIs(t, err, ErrUnknownPayment)
}

func TestGoTo_CannotSkipAhead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.checkout.GoTo(ctx, "u", StepReview)
	assert.ErrorIs(t, err, ErrIllegalStep)

	_, err = f.checkout.GoTo(ctx, "u", StepPayment)
	assert.ErrorIs(t, err, ErrIllegalStep, "no shipping details yet")

	_, err = f.checkout.GoTo(ctx, "u", Step(0))
	assert.ErrorIs(t, err, ErrIllegalStep)
}

func TestGoTo_BackAndForward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.checkout.SubmitShipping(ctx, "u", validInfo(), "")
	require.NoError(t, err)
	_, err = f.checkout.SubmitPayment(ctx, "u", "paypal", false)
	require.NoError(t, err)

	st, err := f.checkout.GoTo(ctx, "u", StepShipping)
	require.NoError(t, err)
	assert.Equal(t, StepShipping, st.Session.Step)

	st, err = f.checkout.GoTo(ctx, "u", StepPayment)
	require.NoError(t, err)
	assert.Equal(t, StepPayment, st.Session.Step)

	st, err = f.checkout.GoTo(ctx, "u", StepReview)
	require.NoError(t, err)
	assert.Equal(t, PaymentPayPal, st.Session.Payment)
}

func TestPlaceOrder_FullFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "u")
	_, _, err := f.carts.ApplyPromo(ctx, "u", "SAVE10")
	require.NoError(t, err)

	_, err = f.checkout.SubmitShipping(ctx, "u", validInfo(), "standard")
	require.NoError(t, err)
	_, err = f.checkout.SubmitPayment(ctx, "u", "card", true)
	require.NoError(t, err)

	order, err := f.checkout.PlaceOrder(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "291.57", order.Total.StringFixed(2))
	assert.Equal(t, "SAVE10", order.PromoCode)
	assert.Len(t, order.Items, 2)

	c, err := f.carts.GetCart(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	history, err := f.orders.List(ctx, "u")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)

	st, err := f.checkout.State(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, StepShipping, st.Session.Step, "session reset after order")
}

func TestPlaceOrder_NotAtReview(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "u")

	_, err := f.checkout.PlaceOrder(context.Background(), "u")
	assert.ErrorIs(t, err, ErrIllegalStep)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.checkout.SubmitShipping(ctx, "u", validInfo(), "")
	require.NoError(t, err)
	_, err = f.checkout.SubmitPayment(ctx, "u", "card", true)
	require.NoError(t, err)

	_, err = f.checkout.PlaceOrder(ctx, "u")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

// heldPlacer blocks inside Place until released so a second checkout can
// race the first one.
type heldPlacer struct {
	next    OrderPlacer
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (h *heldPlacer) Place(ctx context.Context, userID string, items []domain.CartItem, summary pricing.Summary) (*domain.Order, error) {
	if h.calls.Add(1) == 1 {
		close(h.entered)
	}
	<-h.release
	return h.next.Place(ctx, userID, items, summary)
}

func TestPlaceOrder_DoubleSubmitPlacesOnce(t *testing.T) {
	f := newFixture(t)
	placer := &heldPlacer{next: f.orders, entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(f.carts, placer, logger.Nop())
	ctx := context.Background()
	f.fillCart(t, "u")
	_, err := svc.SubmitShipping(ctx, "u", validInfo(), "standard")
	require.NoError(t, err)
	_, err = svc.SubmitPayment(ctx, "u", "card", true)
	require.NoError(t, err)

	type result struct {
		order *domain.Order
		err   error
	}
	first := make(chan result, 1)
	go func() {
		o, err := svc.PlaceOrder(ctx, "u")
		first <- result{o, err}
	}()

	select {
	case <-placer.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first order never reached the placer")
	}

	_, err = svc.PlaceOrder(ctx, "u")
	assert.ErrorIs(t, err, ErrIllegalStep)
	_, err = svc.GoTo(ctx, "u", StepPayment)
	assert.ErrorIs(t, err, ErrIllegalStep, "session is frozen while placing")
	st, err := svc.SubmitShipping(ctx, "u", validInfo(), "express")
	assert.ErrorIs(t, err, ErrIllegalStep, "shipping cannot change under a pending order")
	assert.Nil(t, st)

	close(placer.release)
	res := <-first
	require.NoError(t, res.err)
	require.NotNil(t, res.order)
	assert.Equal(t, int32(1), placer.calls.Load())

	list, err := f.orders.List(ctx, "u")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.PlaceOrder(ctx, "u")
	assert.ErrorIs(t, err, ErrIllegalStep, "a fresh session starts at shipping")
}
