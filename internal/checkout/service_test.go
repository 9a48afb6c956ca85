package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	rules "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/checkout"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIdentity struct {
	user *types.Identity
}

func (s stubIdentity) RequireAuthenticated(message string) (types.Identity, error) {
	if s.user == nil {
		return types.Identity{}, pkgerrors.New(pkgerrors.CodeNotAuthenticated, message)
	}
	return *s.user, nil
}

type stubCart struct {
	items      []types.LineItem
	remote     []types.LineItem
	refreshes  int
	refreshErr error
	clearErrs  []error
	stuck      map[string]bool
	clearCalls [][]types.LineItem
}

// Refresh replaces the local view with remote when one is set.
func (s *stubCart) Refresh(context.Context) error {
	s.refreshes++
	if s.refreshErr != nil {
		return s.refreshErr
	}
	if s.remote != nil {
		s.items = types.CloneLineItems(s.remote)
	}
	return nil
}

func (s *stubCart) Items() []types.LineItem { return types.CloneLineItems(s.items) }

func (s *stubCart) ClearOrdered(_ context.Context, ordered []types.LineItem) ([]types.LineItem, error) {
	s.clearCalls = append(s.clearCalls, types.CloneLineItems(ordered))
	if len(s.clearErrs) > 0 {
		err := s.clearErrs[0]
		s.clearErrs = s.clearErrs[1:]
		if err != nil {
			return ordered, err
		}
	}
	var pending []types.LineItem
	for _, item := range ordered {
		if s.stuck[item.CartItemID] {
			pending = append(pending, item)
			delete(s.stuck, item.CartItemID)
		}
	}
	if len(pending) > 0 {
		return pending, errors.New("row delete failed")
	}
	s.items = nil
	return nil, nil
}

type stubOrders struct {
	created []types.Order
	err     error
}

func (s *stubOrders) CreateOrder(_ context.Context, order types.Order) (types.Order, error) {
	if s.err != nil {
		return types.Order{}, s.err
	}
	s.created = append(s.created, order)
	return order, nil
}

var shopper = &types.Identity{ID: "u1", Email: "asha@example.com", IsActive: true}

func cartWith(items ...types.LineItem) *stubCart {
	return &stubCart{items: items}
}

func line(id string, price string, qty int) types.LineItem {
	return types.LineItem{
		Product:    types.Product{ID: id, Name: "Item " + id, Price: types.ParseAmount(price)},
		Quantity:   qty,
		CartItemID: "row-" + id,
	}
}

func shippingTo() types.ShippingAddress {
	return types.ShippingAddress{
		Name:    "Asha Menon",
		Phone:   "9876543210",
		Address: "12 Beach Road",
		City:    "Kochi",
		Pincode: "682001",
	}
}

func newTestService(t *testing.T, cart *stubCart, orders *stubOrders, user *types.Identity) Service {
	t.Helper()
	clock := func() time.Time { return time.UnixMilli(1717243200000) }
	svc, err := NewService(stubIdentity{user: user}, cart, orders, config.DefaultCheckout(), nil,
		WithClock(clock), WithClearBackoff(time.Millisecond))
	require.NoError(t, err)
	svc.(*service).suffix = func() int { return 42 }
	return svc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, &stubCart{}, &stubOrders{}, config.DefaultCheckout(), nil)
	require.Error(t, err)
	_, err = NewService(stubIdentity{}, nil, &stubOrders{}, config.DefaultCheckout(), nil)
	require.Error(t, err)
	_, err = NewService(stubIdentity{}, &stubCart{}, nil, config.DefaultCheckout(), nil)
	require.Error(t, err)
}

func TestPlaceOrderCard(t *testing.T) {
	cart := cartWith(line("p1", "500", 2), line("p2", "249.50", 1))
	orders := &stubOrders{}
	svc := newTestService(t, cart, orders, shopper)

	receipt, err := svc.PlaceOrder(context.Background(), shippingTo(), rules.Payment{
		Method: enums.PaymentMethodCard,
		Card:   &rules.CardDetails{Number: "4111 1111 1111 1111", Expiry: "09/29", CVV: "123", Holder: "Asha"},
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD171724320000042", receipt.OrderID)
	assert.Equal(t, "1249.5", receipt.Subtotal.String())
	assert.Equal(t, "124.95", receipt.Tax.String())
	assert.True(t, receipt.CODFee.IsZero())
	assert.Equal(t, "1374.45", receipt.Total.String())
	assert.True(t, receipt.CartCleared)
	assert.Empty(t, cart.items)

	require.Len(t, orders.created, 1)
	order := orders.created[0]
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, enums.PaymentStatusCompleted, order.PaymentStatus)
	assert.Equal(t, enums.OrderStatusConfirmed, order.Status)
	assert.Equal(t, "asha@example.com", order.ShippingAddress.Email)
	assert.Equal(t, 3, order.ItemCount())
}

func TestPlaceOrderCODAddsFee(t *testing.T) {
	cart := cartWith(line("p1", "1000", 1))
	orders := &stubOrders{}
	svc := newTestService(t, cart, orders, shopper)

	receipt, err := svc.PlaceOrder(context.Background(), shippingTo(), rules.Payment{Method: enums.PaymentMethodCOD})
	require.NoError(t, err)

	assert.Equal(t, "1150", receipt.Total.String())
	assert.Equal(t, "50", receipt.CODFee.String())
	assert.Equal(t, enums.PaymentStatusPending, orders.created[0].PaymentStatus)
	assert.Equal(t, enums.OrderStatusPending, orders.created[0].Status)
}

func TestPlaceOrderSnapshotIsIndependent(t *testing.T) {
	cart := cartWith(line("p1", "500", 2))
	orders := &stubOrders{}
	svc := newTestService(t, cart, orders, shopper)

	receipt, err := svc.PlaceOrder(context.Background(), shippingTo(), rules.Payment{Method: enums.PaymentMethodUPI, UPIID: "asha@okaxis"})
	require.NoError(t, err)

	cart.items = []types.LineItem{line("p1", "900", 7)}
	require.Len(t, orders.created[0].Items, 1)
	assert.Equal(t, 2, orders.created[0].Items[0].Quantity)
	assert.Equal(t, "500", orders.created[0].Items[0].Price.String())
	assert.Equal(t, 2, receipt.Order.Items[0].Quantity)
}

func TestPlaceOrderRequiresIdentity(t *testing.T) {
	cart := cartWith(line("p1", "500", 1))
	orders := &stubOrders{}
	svc := newTestService(t, cart, orders, nil)

	_, err := svc.PlaceOrder(context.Background(), shippingTo(), rules.Payment{Method: enums.PaymentMethodCOD})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotAuthenticated))
	assert.Empty(t, orders.created)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	orders := &stubOrders{}
	svc := newTestService(t, cartWith(), orders, shopper)

	_, err := svc.PlaceOrder(context.Background(), shippingTo(), rules.Payment{Method: enums.PaymentMethodCOD})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Empty(t, orders.created)
}

func TestPlaceOrderValidationBlocksWrite(t *testing.T) {
	cart := cartWith(line("p1", "500", 1))
	orders := &stubOrders{}
	svc := newTestService(t, cart, orders, shopper)

	shipping := shippingTo()
	shipping.City = ""
	_, err := svc.PlaceOrder(context.Background(), shipping, rules.Payment{Method: enums.PaymentMethodCard})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	assert.Contains(t, details, "shippingAddress.city")
	assert.Contains(t, details, "payment.card")
	assert.Empty(t, orders.created)
	assert.Len(t, cart.items, 1)
}

func TestPlaceOrderWriteFailureKeepsCart(t *testing.T) {
	cart := cartWith(line("p1", "500", 1))
	orders := &stubOrders{err: errors.New("502")}
	svc := newTestService(t, cart, orders, shopper)

	_, err := svc.PlaceOrder(context.Background(), shippingTo(), rules.Payment{Method: enums.PaymentMethodCOD})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeRemote))
	assert.Empty(t, cart.clearCalls)
	assert.Len(t, cart.items, 1)
}

func TestPlaceOrderRetriesClear(t *testing.T) {
	cart := cartWith(line("p1", "500", 1))
	cart.clearErrs = []error{errors.New("timeout"), errors.New("timeout")}
	orders := &stubOrders{}
	svc := newTestService(t, cart, orders, shopper)

	receipt, err := svc.PlaceOrder(context.Background(), shippingTo(), rules.Payment{Method: enums.PaymentMethodCOD})
	require.NoError(t, err)
	assert.True(t, receipt.CartCleared)
	assert.Len(t, cart.clearCalls, 3)
}

func TestPlaceOrderClearExhausted(t *testing.T) {
	cart := cartWith(line("p1", "500", 1))
	cart.clearErrs = []error{errors.New("a"), errors.New("b"), errors.New("c"), errors.New("d")}
	orders := &stubOrders{}
	svc := newTestService(t, cart, orders, shopper)

	receipt, err := svc.PlaceOrder(context.Background(), shippingTo(), rules.Payment{Method: enums.PaymentMethodCOD})
	require.NoError(t, err)
	assert.False(t, receipt.CartCleared)
	assert.Len(t, cart.clearCalls, 3)
	require.Len(t, orders.created, 1)
}

func TestPlaceOrderSnapshotsFreshCart(t *testing.T) {
	cart := cartWith(line("p1", "500", 1))
	cart.remote = []types.LineItem{line("p1", "500", 1), line("p2", "300", 2)}
	orders := &stubOrders{}
	svc := newTestService(t, cart, orders, shopper)

	_, err := svc.PlaceOrder(context.Background(), shippingTo(), rules.Payment{Method: enums.PaymentMethodCard})
	require.NoError(t, err)
	assert.Equal(t, 1, cart.refreshes)
	require.Len(t, orders.created, 1)
	assert.Len(t, orders.created[0].Items, 2)
	require.Len(t, cart.clearCalls, 1)
	assert.Equal(t, orders.created[0].Items, cart.clearCalls[0])
}

func TestPlaceOrderRefreshFailureBlocksWrite(t *testing.T) {
	cart := cartWith(line("p1", "500", 1))
	cart.refreshErr = pkgerrors.New(pkgerrors.CodeRemote, "Failed to load cart. Please try again.")
	orders := &stubOrders{}
	svc := newTestService(t, cart, orders, shopper)

	_, err := svc.PlaceOrder(context.Background(), shippingTo(), rules.Payment{Method: enums.PaymentMethodCard})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeRemote))
	assert.Empty(t, orders.created)
}

func TestPlaceOrderRetriesOnlyUnsettledLines(t *testing.T) {
	cart := cartWith(line("p1", "500", 1), line("p2", "300", 1))
	cart.stuck = map[string]bool{"row-p2": true}
	svc := newTestService(t, cart, &stubOrders{}, shopper)

	receipt, err := svc.PlaceOrder(context.Background(), shippingTo(), rules.Payment{Method: enums.PaymentMethodCOD})
	require.NoError(t, err)
	assert.True(t, receipt.CartCleared)
	require.Len(t, cart.clearCalls, 2)
	assert.Len(t, cart.clearCalls[0], 2)
	require.Len(t, cart.clearCalls[1], 1)
	assert.Equal(t, "row-p2", cart.clearCalls[1][0].CartItemID)
}

func TestQuoteTotals(t *testing.T) {
	svc := newTestService(t, cartWith(), &stubOrders{}, shopper)
	items := []types.LineItem{line("p1", "200", 3)}

	card := svc.Quote(items, enums.PaymentMethodCard)
	assert.Equal(t, "660", card.Total.String())

	cod := svc.Quote(items, enums.PaymentMethodCOD)
	assert.Equal(t, "710", cod.Total.String())
}

func TestQuoteKeepsSubCentTax(t *testing.T) {
	svc := newTestService(t, cartWith(), &stubOrders{}, shopper)
	items := []types.LineItem{line("p1", "0.15", 3)}

	cod := svc.Quote(items, enums.PaymentMethodCOD)
	assert.Equal(t, "0.045", cod.Tax.String())
	assert.Equal(t, "50.495", cod.Total.String())
	subtotal := cod.Subtotal.Decimal
	want := subtotal.Add(subtotal.Mul(decimal.RequireFromString("0.10"))).Add(decimal.NewFromInt(50))
	assert.True(t, want.Equal(cod.Total.Decimal))
}
